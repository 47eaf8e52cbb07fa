package models

// Severity is the score bucket an issue kind falls into.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityMinor
	SeverityMajor
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityNone:
		return "NONE"
	case SeverityMinor:
		return "MINOR"
	case SeverityMajor:
		return "MAJOR"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

type Category string

const (
	CategoryStatic       Category = "static"
	CategoryLogic        Category = "logic"
	CategoryComplexity   Category = "complexity"
	CategoryOptimization Category = "optimization"
)

// Kind is the fine-grained tag of an issue.
type Kind string

const (
	// static
	KindSyntaxError          Kind = "syntax_error"
	KindMissingSemicolon     Kind = "missing_semicolon"
	KindUnusedVariable       Kind = "unused_variable"
	KindBadPractice          Kind = "bad_practice"
	KindFormatting           Kind = "formatting"
	KindSuspiciousAssignment Kind = "suspicious_assignment"

	// logic
	KindUnreachableCode Kind = "unreachable_code"
	KindNestedLoop      Kind = "nested_loop"
	KindLenInLoop       Kind = "len_in_loop"

	// complexity (nested_loop is shared with logic)
	KindLoop        Kind = "loop"
	KindDeepLoop    Kind = "deep_loop"
	KindBuiltinLoop Kind = "builtin_loop"
	KindSortCall    Kind = "sort_call"
	KindRecursion   Kind = "recursion"

	// optimization
	KindRemoveUnused     Kind = "remove_unused"
	KindStyleFix         Kind = "style_fix"
	KindFlattenLoop      Kind = "flatten_loop"
	KindRemoveDeadCode   Kind = "remove_dead_code"
	KindImproveAlgorithm Kind = "improve_algorithm"
	KindCacheLen         Kind = "cache_len"
	KindLoopOptimization Kind = "loop_optimization"
)

// Severity returns the score bucket of the kind.
func (k Kind) Severity() Severity {
	switch k {
	case KindSyntaxError, KindMissingSemicolon:
		return SeverityCritical
	case KindUnusedVariable, KindBadPractice:
		return SeverityMajor
	case KindFormatting:
		return SeverityMinor
	default:
		return SeverityNone
	}
}

// Issue is one detected problem. Line is 1-based; 0 marks a file-level issue.
type Issue struct {
	Line       int      `json:"line,omitempty"`
	Category   Category `json:"category"`
	Kind       Kind     `json:"type"`
	Message    string   `json:"message"`
	Snippet    string   `json:"snippet"`
	Complexity string   `json:"complexity,omitempty"` // e.g. "O(n²)" for complexity issues
}

// Suggestion is an optimization record derived from an issue. Summary is an
// optional short prose note and never influences the other fields.
type Suggestion struct {
	Line     int      `json:"line,omitempty"`
	Category Category `json:"category"`
	Kind     Kind     `json:"type"`
	Message  string   `json:"message"`
	Snippet  string   `json:"snippet"`
	Summary  string   `json:"ai_summary,omitempty"`
	Source   Kind     `json:"source_type"`
}

// Score is the 0-100 quality score with its ordered reasons.
type Score struct {
	Value   int      `json:"score"`
	Reasons []string `json:"reasons"`
}

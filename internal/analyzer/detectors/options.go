// Package detectors holds what the Python and C checkers share.
package detectors

import "coderefine/internal/models"

const (
	DefaultMaxLineLength = 100
	DefaultSnippetLength = 80
)

// Rule identifiers that can be switched off in configuration.
const (
	RuleUnusedVariable       = "unused_variable"
	RuleBadPractice          = "bad_practice"
	RuleUnreachableCode      = "unreachable_code"
	RuleNestedLoop           = "nested_loop"
	RuleLenInLoop            = "len_in_loop"
	RuleFormatting           = "formatting"
	RuleMissingSemicolon     = "missing_semicolon"
	RuleSuspiciousAssignment = "suspicious_assignment"
	RuleBalance              = "balance"
)

// Options tunes the checkers. The zero value uses the defaults.
type Options struct {
	MaxLineLength int
	SnippetLength int
	Disabled      map[string]bool
}

func DefaultOptions() Options {
	return Options{
		MaxLineLength: DefaultMaxLineLength,
		SnippetLength: DefaultSnippetLength,
	}
}

// Normalize fills unset limits with their defaults.
func (o Options) Normalize() Options {
	if o.MaxLineLength <= 0 {
		o.MaxLineLength = DefaultMaxLineLength
	}
	if o.SnippetLength <= 0 {
		o.SnippetLength = DefaultSnippetLength
	}
	return o
}

func (o Options) Enabled(rule string) bool {
	return !o.Disabled[rule]
}

// NewIssue is a small constructor used by every detector.
func NewIssue(line int, category models.Category, kind models.Kind, message, snippet string) models.Issue {
	return models.Issue{
		Line:     line,
		Category: category,
		Kind:     kind,
		Message:  message,
		Snippet:  snippet,
	}
}

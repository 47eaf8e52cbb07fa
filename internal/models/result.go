package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedLanguage is returned for language tags outside {python, c}.
var ErrUnsupportedLanguage = errors.New("unsupported language")

type Language string

const (
	LanguagePython Language = "python"
	LanguageC      Language = "c"
)

// ParseLanguage normalises a caller supplied language tag.
func ParseLanguage(tag string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "python", "py":
		return LanguagePython, nil
	case "c":
		return LanguageC, nil
	default:
		return "", fmt.Errorf("%w: %q (valid: python, c)", ErrUnsupportedLanguage, tag)
	}
}

// CheckResult is what a language checker returns for one snippet.
type CheckResult struct {
	StaticIssues     []Issue
	LogicIssues      []Issue
	ComplexityIssues []Issue
	Estimate         Estimate
	HadSyntaxError   bool
}

// AnalysisResult is the composite result handed back to callers.
type AnalysisResult struct {
	File                     string       `json:"file,omitempty"`
	Language                 Language     `json:"language"`
	StaticIssues             []Issue      `json:"static_issues"`
	LogicIssues              []Issue      `json:"logic_issues"`
	ComplexityIssues         []Issue      `json:"complexity_issues"`
	EstimatedTimeComplexity  Class        `json:"estimated_time_complexity"`
	EstimatedSpaceComplexity Class        `json:"estimated_space_complexity"`
	TimeEvidence             []Evidence   `json:"time_reasons"`
	SpaceEvidence            []Evidence   `json:"space_reasons"`
	Optimizations            []Suggestion `json:"optimizations"`
	Score                    Score        `json:"quality"`
	HadSyntaxError           bool         `json:"had_syntax_error"`
	ReportID                 string       `json:"report_id,omitempty"`
}

// AllIssues returns static, logic and complexity issues in that order.
func (r *AnalysisResult) AllIssues() []Issue {
	out := make([]Issue, 0, len(r.StaticIssues)+len(r.LogicIssues)+len(r.ComplexityIssues))
	out = append(out, r.StaticIssues...)
	out = append(out, r.LogicIssues...)
	out = append(out, r.ComplexityIssues...)
	return out
}

// TotalIssues counts every non-optimization issue.
func (r *AnalysisResult) TotalIssues() int {
	return len(r.StaticIssues) + len(r.LogicIssues) + len(r.ComplexityIssues)
}

// IssuesBySeverity buckets all issues by score severity.
func (r *AnalysisResult) IssuesBySeverity() map[string]int {
	counts := make(map[string]int)
	for _, issue := range r.AllIssues() {
		counts[issue.Kind.Severity().String()]++
	}
	return counts
}

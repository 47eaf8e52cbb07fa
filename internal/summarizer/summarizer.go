// Package summarizer produces short prose notes for suggestions. Nothing in
// the analysis depends on it; callers treat every error as "no summary".
package summarizer

import (
	"context"
	"errors"
	"strings"
)

// ErrUnavailable is returned when no summary could be produced.
var ErrUnavailable = errors.New("summarizer unavailable")

// Summary kinds understood by the prompt templates.
const (
	KindExplainIssue          = "explain_issue"
	KindSummarizeOptimization = "summarize_optimization"
	KindSuggestImprovement    = "suggest_improvement"
	KindExplainComplexity     = "explain_complexity"
)

// Summarizer turns a kind and a context text into a short bullet list.
type Summarizer interface {
	Summarize(ctx context.Context, kind, text string) (string, error)
}

// Noop never summarizes.
type Noop struct{}

func (Noop) Summarize(context.Context, string, string) (string, error) {
	return "", ErrUnavailable
}

// Func adapts a function to the Summarizer interface.
type Func func(ctx context.Context, kind, text string) (string, error)

func (f Func) Summarize(ctx context.Context, kind, text string) (string, error) {
	return f(ctx, kind, text)
}

// KeepBullets trims text to at most n non-empty lines.
func KeepBullets(text string, n int) string {
	text = strings.TrimSpace(text)
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		kept = append(kept, line)
		if n > 0 && len(kept) == n {
			break
		}
	}
	return strings.Join(kept, "\n")
}

// Package history persists analysis reports so they can be listed and
// reopened later. Storage failures never affect an analysis result.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"coderefine/internal/source"
)

var (
	ErrNotFound    = errors.New("history record not found")
	ErrUnavailable = errors.New("history store unavailable")
)

const (
	// MaxInputLength caps the stored input and output texts.
	MaxInputLength = 50000
	// DefaultLimit is the page size used by List when none is given.
	DefaultLimit       = 100
	titleSnippetLength = 60
)

// Kind is the type of report a record holds.
type Kind string

const (
	KindReview     Kind = "review"
	KindQuality    Kind = "quality"
	KindComplexity Kind = "complexity"
	KindComparison Kind = "comparison"
)

var kindLabels = map[Kind]string{
	KindReview:     "Full Code Review",
	KindQuality:    "Quality Score",
	KindComplexity: "Complexity Analysis",
	KindComparison: "Code Comparison",
}

// Record is one stored report.
type Record struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Kind      Kind            `json:"type"`
	Title     string          `json:"title"`
	Language  string          `json:"language,omitempty"`
	Input     string          `json:"code_input"`
	Output    string          `json:"code_output,omitempty"`
	Report    json.RawMessage `json:"report_json,omitempty"`
	Score     *int            `json:"score,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// ListOptions filters List. An empty Kind matches every kind.
type ListOptions struct {
	UserID string
	Kind   Kind
	Limit  int
}

// Store is implemented by every history backend.
type Store interface {
	Save(ctx context.Context, rec Record) (string, error)
	List(ctx context.Context, opts ListOptions) ([]Record, error)
	Get(ctx context.Context, userID, id string) (Record, error)
	Rename(ctx context.Context, userID, id, title string) error
	Delete(ctx context.Context, userID, id string) error
	Close() error
}

// AutoTitle builds a title from the kind label, the upper-cased language and
// the first 60 characters of the input.
func AutoTitle(kind Kind, input, language string) string {
	prefix, ok := kindLabels[kind]
	if !ok && kind != "" {
		prefix = strings.ToUpper(string(kind[:1])) + string(kind[1:])
	}
	var b strings.Builder
	b.WriteString(prefix)
	if language != "" {
		fmt.Fprintf(&b, " (%s)", strings.ToUpper(language))
	}
	if first := firstLine(input); first != "" {
		b.WriteString(" — ")
		b.WriteString(first)
	}
	return b.String()
}

func firstLine(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		text = text[:i]
	}
	r := []rune(text)
	if len(r) > titleSnippetLength {
		r = r[:titleSnippetLength]
	}
	return string(r)
}

// prepare fills the generated fields of a record before it is stored.
func prepare(rec Record, now time.Time) (Record, error) {
	if rec.UserID == "" {
		return rec, errors.New("history: user id is required")
	}
	if rec.Kind == "" {
		rec.Kind = KindReview
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now.UTC()
	}
	if strings.TrimSpace(rec.Title) == "" {
		rec.Title = AutoTitle(rec.Kind, rec.Input, rec.Language)
	}
	rec.Input = clip(rec.Input)
	rec.Output = clip(rec.Output)
	return rec, nil
}

func clip(s string) string {
	r := []rune(s)
	if len(r) <= MaxInputLength {
		return s
	}
	return string(r[:MaxInputLength])
}

func limitOrDefault(n int) int {
	if n <= 0 {
		return DefaultLimit
	}
	return n
}

// Snippet is a short preview of the stored input used in listings.
func (r Record) Snippet(n int) string {
	return source.Truncate(firstLine(r.Input), n)
}

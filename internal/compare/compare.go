// Package compare analyzes two snippets side by side.
package compare

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sergi/go-diff/diffmatchpatch"

	"coderefine/internal/analyzer"
	"coderefine/internal/history"
	"coderefine/internal/models"
)

// Analyzer is the part of analyzer.Analyzer a comparison needs.
type Analyzer interface {
	Analyze(ctx context.Context, req analyzer.Request) (*models.AnalysisResult, error)
}

type Op string

const (
	OpEqual  Op = "equal"
	OpInsert Op = "insert"
	OpDelete Op = "delete"
)

// Line is one line of a line diff.
type Line struct {
	Op   Op     `json:"op"`
	Text string `json:"text"`
}

// Result holds both analyses and how they differ.
type Result struct {
	Left       *models.AnalysisResult `json:"left"`
	Right      *models.AnalysisResult `json:"right"`
	Diff       []Line                 `json:"diff"`
	Added      int                    `json:"added"`
	Removed    int                    `json:"removed"`
	ScoreDelta int                    `json:"score_delta"`
	TimeDelta  int                    `json:"time_delta"`
	Summary    string                 `json:"summary"`
	ReportID   string                 `json:"report_id,omitempty"`
}

type Comparer struct {
	analyzer Analyzer
	store    history.Store
	user     string
	logger   zerolog.Logger
}

// Option customizes a Comparer.
type Option func(*Comparer)

// WithHistory stores every comparison under user.
func WithHistory(store history.Store, user string) Option {
	return func(c *Comparer) {
		c.store = store
		c.user = user
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Comparer) { c.logger = logger }
}

func New(a Analyzer, opts ...Option) *Comparer {
	c := &Comparer{analyzer: a, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compare analyzes left and right and diffs their sources. Either side
// failing to analyze fails the comparison.
func (c *Comparer) Compare(ctx context.Context, left, right analyzer.Request) (*Result, error) {
	left.SkipHistory, right.SkipHistory = true, true

	l, err := c.analyzer.Analyze(ctx, left)
	if err != nil {
		return nil, fmt.Errorf("left: %w", err)
	}
	r, err := c.analyzer.Analyze(ctx, right)
	if err != nil {
		return nil, fmt.Errorf("right: %w", err)
	}

	res := &Result{
		Left:       l,
		Right:      r,
		Diff:       Diff(left.Source, right.Source),
		ScoreDelta: r.Score.Value - l.Score.Value,
		TimeDelta:  r.EstimatedTimeComplexity.Rank() - l.EstimatedTimeComplexity.Rank(),
	}
	for _, line := range res.Diff {
		switch line.Op {
		case OpInsert:
			res.Added++
		case OpDelete:
			res.Removed++
		}
	}
	res.Summary = describe(res)

	if c.store != nil {
		id, err := c.save(ctx, left.Source, right.Source, res)
		if err != nil {
			c.logger.Warn().Err(err).Msg("failed to save comparison")
		} else {
			res.ReportID = id
		}
	}
	return res, nil
}

// Diff returns the line diff from left to right.
func Diff(left, right string) []Line {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(terminated(left), terminated(right))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out []Line
	for _, d := range diffs {
		op := OpEqual
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = OpInsert
		case diffmatchpatch.DiffDelete:
			op = OpDelete
		}
		for _, text := range strings.SplitAfter(d.Text, "\n") {
			if text == "" {
				continue
			}
			out = append(out, Line{Op: op, Text: strings.TrimSuffix(text, "\n")})
		}
	}
	return out
}

// Unified renders lines with "+", "-" and " " prefixes.
func Unified(lines []Line) string {
	var b strings.Builder
	for _, line := range lines {
		switch line.Op {
		case OpInsert:
			b.WriteString("+ ")
		case OpDelete:
			b.WriteString("- ")
		default:
			b.WriteString("  ")
		}
		b.WriteString(line.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

func terminated(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

func describe(res *Result) string {
	var b strings.Builder
	switch {
	case res.ScoreDelta > 0:
		fmt.Fprintf(&b, "Right scores %d point(s) higher", res.ScoreDelta)
	case res.ScoreDelta < 0:
		fmt.Fprintf(&b, "Right scores %d point(s) lower", -res.ScoreDelta)
	default:
		b.WriteString("Both score the same")
	}
	fmt.Fprintf(&b, " (%d vs %d). Time complexity %s vs %s",
		res.Left.Score.Value, res.Right.Score.Value,
		res.Left.EstimatedTimeComplexity, res.Right.EstimatedTimeComplexity)
	switch {
	case res.TimeDelta < 0:
		b.WriteString(", right is asymptotically faster")
	case res.TimeDelta > 0:
		b.WriteString(", right is asymptotically slower")
	}
	fmt.Fprintf(&b, ". %d line(s) added, %d removed.", res.Added, res.Removed)
	return b.String()
}

func (c *Comparer) save(ctx context.Context, left, right string, res *Result) (string, error) {
	report, err := json.Marshal(res)
	if err != nil {
		return "", fmt.Errorf("encode comparison: %w", err)
	}
	score := res.Right.Score.Value
	return c.store.Save(ctx, history.Record{
		UserID:   c.user,
		Kind:     history.KindComparison,
		Language: string(res.Right.Language),
		Input:    left + "\n\n---\n\n" + right,
		Output:   res.Summary + "\n\n" + Unified(res.Diff),
		Report:   report,
		Score:    &score,
	})
}

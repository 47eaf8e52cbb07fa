// Package scoring turns issues and complexity classes into a quality score
// and rewrites selected issues into optimization suggestions.
package scoring

import (
	"fmt"

	"coderefine/internal/models"
)

// Deductions applied by Score.
const (
	SyntaxErrorPenalty = 40
	CriticalPenalty    = 15
	MajorPenalty       = 5
	MinorPenalty       = 2
	TopTimePenalty     = 5
	QuadraticPenalty   = 2
)

const (
	LabelGood       = "Good structure and style"
	LabelAcceptable = "Acceptable with some improvements"
	LabelPoor       = "Needs improvement"
)

// Thresholds are the label cut points.
type Thresholds struct {
	Good       int
	Acceptable int
}

func DefaultThresholds() Thresholds {
	return Thresholds{Good: 90, Acceptable: 70}
}

// Scorer computes quality scores against a set of label thresholds.
type Scorer struct {
	thresholds Thresholds
}

func NewScorer(th Thresholds) *Scorer {
	if th.Good <= 0 && th.Acceptable <= 0 {
		th = DefaultThresholds()
	}
	return &Scorer{thresholds: th}
}

// Score computes the score with the default thresholds.
func Score(issues []models.Issue, time, space models.Class, hadSyntaxError bool) models.Score {
	return NewScorer(DefaultThresholds()).Score(issues, time, space, hadSyntaxError)
}

// Score starts at 100 and deducts for issues and time complexity. A syntax
// error replaces every issue based deduction. space does not affect the score.
func (s *Scorer) Score(issues []models.Issue, time, _ models.Class, hadSyntaxError bool) models.Score {
	value := 100
	var reasons []string

	if hadSyntaxError {
		value -= SyntaxErrorPenalty
		reasons = append(reasons, fmt.Sprintf("Syntax error (-%d)", SyntaxErrorPenalty))
	} else {
		counts := make(map[models.Severity]int)
		for _, issue := range issues {
			counts[issue.Kind.Severity()]++
		}
		value -= counts[models.SeverityCritical]*CriticalPenalty +
			counts[models.SeverityMajor]*MajorPenalty +
			counts[models.SeverityMinor]*MinorPenalty

		for _, b := range []struct {
			sev  models.Severity
			name string
		}{
			{models.SeverityCritical, "critical"},
			{models.SeverityMajor, "major"},
			{models.SeverityMinor, "minor"},
		} {
			if n := counts[b.sev]; n > 0 {
				reasons = append(reasons, fmt.Sprintf("%d %s issue(s)", n, b.name))
			}
		}
	}

	switch time {
	case models.ClassCubicOrWorse:
		value -= TopTimePenalty
		reasons = append(reasons, "High time complexity")
	case models.ClassQuadratic:
		value -= QuadraticPenalty
		reasons = append(reasons, "Quadratic time complexity")
	}

	value = max(0, min(100, value))
	return models.Score{Value: value, Reasons: append([]string{s.Label(value)}, reasons...)}
}

// Label returns the qualitative label for a clamped score.
func (s *Scorer) Label(value int) string {
	switch {
	case value >= s.thresholds.Good:
		return LabelGood
	case value >= s.thresholds.Acceptable:
		return LabelAcceptable
	default:
		return LabelPoor
	}
}

// Acceptable reports whether value reaches the acceptable cut point.
func (s *Scorer) Acceptable(value int) bool {
	return value >= s.thresholds.Acceptable
}

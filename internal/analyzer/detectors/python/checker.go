// Package python holds the syntax-tree based checks for Python snippets.
package python

import (
	"errors"

	"coderefine/internal/analyzer/complexity"
	"coderefine/internal/analyzer/detectors"
	"coderefine/internal/analyzer/pyast"
	"coderefine/internal/models"
	"coderefine/internal/source"
)

// Detector is a single tree-based check.
type Detector interface {
	Name() string
	Rule() string
	Detect(mod *pyast.Module, lines *source.Lines) []models.Issue
}

// Checker runs every Python detector over one parsed tree.
type Checker struct {
	static     []Detector
	logic      []Detector
	lineLength *detectors.LineLengthDetector
	complexity *ComplexityDetector
	opts       detectors.Options
}

func NewChecker(opts detectors.Options) *Checker {
	opts = opts.Normalize()
	return &Checker{
		static: []Detector{
			NewUnusedVariableDetector(),
			NewBadPracticeDetector(),
		},
		logic: []Detector{
			NewUnreachableCodeDetector(),
			NewNestedLoopDetector(),
			NewLenInLoopDetector(),
		},
		lineLength: detectors.NewLineLengthDetector(opts),
		complexity: NewComplexityDetector(),
		opts:       opts,
	}
}

// DetectorNames lists the detectors in the order they run.
func (c *Checker) DetectorNames() []string {
	var names []string
	for _, d := range append(append([]Detector{}, c.static...), c.logic...) {
		names = append(names, d.Name())
	}
	return append(names, c.lineLength.Name(), c.complexity.Name())
}

// Check analyzes src. When src does not parse the result carries exactly one
// syntax_error issue and the bottom complexity classes.
func (c *Checker) Check(src string) models.CheckResult {
	lines := source.Split(src)

	mod, err := pyast.Parse(src)
	if err != nil {
		return syntaxErrorResult(err, lines)
	}

	var res models.CheckResult
	for _, d := range c.static {
		if c.opts.Enabled(d.Rule()) {
			res.StaticIssues = append(res.StaticIssues, d.Detect(mod, lines)...)
		}
	}
	if c.opts.Enabled(detectors.RuleFormatting) {
		res.StaticIssues = append(res.StaticIssues, c.lineLength.Detect(lines)...)
	}
	for _, d := range c.logic {
		if c.opts.Enabled(d.Rule()) {
			res.LogicIssues = append(res.LogicIssues, d.Detect(mod, lines)...)
		}
	}
	res.ComplexityIssues, res.Estimate = c.complexity.Estimate(mod, lines)
	return res
}

func syntaxErrorResult(err error, lines *source.Lines) models.CheckResult {
	line, message := 1, err.Error()
	var serr *pyast.SyntaxError
	if errors.As(err, &serr) {
		line, message = serr.Line, serr.Msg
	}
	return models.CheckResult{
		StaticIssues: []models.Issue{
			detectors.NewIssue(line, models.CategoryStatic, models.KindSyntaxError, message, lines.Snippet(line)),
		},
		Estimate:       complexity.Empty(),
		HadSyntaxError: true,
	}
}

package clang

import (
	"coderefine/internal/analyzer/detectors"
	"coderefine/internal/models"
)

// Detector is a single line-based check.
type Detector interface {
	Name() string
	Rule() string
	Detect(f *File) []models.Issue
}

// Checker runs the C heuristics. It never fails: the worst a malformed
// snippet produces is a balance issue.
type Checker struct {
	static     []Detector
	logic      []Detector
	nested     *NestedLoopDetector
	lineLength *detectors.LineLengthDetector
	complexity *ComplexityDetector
	opts       detectors.Options
}

func NewChecker(opts detectors.Options) *Checker {
	opts = opts.Normalize()
	return &Checker{
		static: []Detector{
			NewSemicolonDetector(),
			NewAssignmentInConditionDetector(),
			NewBalanceDetector(),
			NewUnusedVariableDetector(),
		},
		logic: []Detector{
			NewUnreachableCodeDetector(),
		},
		nested:     NewNestedLoopDetector(),
		lineLength: detectors.NewLineLengthDetector(opts),
		complexity: NewComplexityDetector(),
		opts:       opts,
	}
}

// DetectorNames lists the detectors in the order they run.
func (c *Checker) DetectorNames() []string {
	var names []string
	for _, d := range c.static {
		names = append(names, d.Name())
	}
	for _, d := range c.logic {
		names = append(names, d.Name())
	}
	return append(names, c.nested.Name(), c.lineLength.Name(), c.complexity.Name())
}

func (c *Checker) Check(src string) models.CheckResult {
	f := Prepare(src)
	loops := findLoops(f)

	var res models.CheckResult
	for _, d := range c.static {
		if c.opts.Enabled(d.Rule()) {
			res.StaticIssues = append(res.StaticIssues, d.Detect(f)...)
		}
	}
	if c.opts.Enabled(detectors.RuleFormatting) {
		res.StaticIssues = append(res.StaticIssues, c.lineLength.Detect(f.Lines)...)
	}
	for _, d := range c.logic {
		if c.opts.Enabled(d.Rule()) {
			res.LogicIssues = append(res.LogicIssues, d.Detect(f)...)
		}
	}
	if c.opts.Enabled(c.nested.Rule()) {
		res.LogicIssues = append(res.LogicIssues, c.nested.Detect(loops)...)
	}
	res.ComplexityIssues, res.Estimate = c.complexity.Estimate(f, loops)
	return res
}

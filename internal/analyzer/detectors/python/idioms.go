package python

import (
	"coderefine/internal/analyzer/detectors"
	"coderefine/internal/analyzer/pyast"
	"coderefine/internal/models"
	"coderefine/internal/source"
)

// BadPracticeDetector flags discouraged comparison idioms: equality against
// True/False or None, and len(...) == 0.
type BadPracticeDetector struct{}

func NewBadPracticeDetector() *BadPracticeDetector {
	return &BadPracticeDetector{}
}

func (d *BadPracticeDetector) Name() string {
	return "Bad Practice Detector"
}

func (d *BadPracticeDetector) Rule() string {
	return detectors.RuleBadPractice
}

func (d *BadPracticeDetector) Detect(mod *pyast.Module, lines *source.Lines) []models.Issue {
	var issues []models.Issue
	add := func(cmp *pyast.Compare, message string) {
		issues = append(issues, detectors.NewIssue(cmp.Line(), models.CategoryStatic,
			models.KindBadPractice, message, lines.Snippet(cmp.Line())))
	}

	pyast.Walk(mod, func(n pyast.Node) bool {
		cmp, ok := n.(*pyast.Compare)
		if !ok || len(cmp.Ops) != 1 || len(cmp.Comparators) != 1 {
			return true
		}
		op := cmp.Ops[0]
		right, _ := cmp.Comparators[0].(*pyast.Constant)
		if right == nil {
			return true
		}

		switch {
		case op == "==" && right.Kind == pyast.ConstNone:
			add(cmp, "Use 'is None' instead of '== None'.")
		case op == "!=" && right.Kind == pyast.ConstNone:
			add(cmp, "Use 'is not None' instead of '!= None'.")
		case op == "==" && (right.Kind == pyast.ConstTrue || right.Kind == pyast.ConstFalse):
			add(cmp, "Compare to True/False; use the expression directly.")
		case op == "==" && right.IsZero() && isLenCall(cmp.Left):
			add(cmp, "Use 'if not seq:' instead of 'if len(seq)==0'.")
		}
		return true
	})
	return issues
}

func isLenCall(n pyast.Node) bool {
	call, ok := n.(*pyast.Call)
	return ok && call.Callee == "len"
}

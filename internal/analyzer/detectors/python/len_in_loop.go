package python

import (
	"coderefine/internal/analyzer/detectors"
	"coderefine/internal/analyzer/pyast"
	"coderefine/internal/models"
	"coderefine/internal/source"
)

// LenInLoopDetector flags len(name) recomputed inside a for loop. At most one
// call is reported per loop and per line.
type LenInLoopDetector struct{}

func NewLenInLoopDetector() *LenInLoopDetector {
	return &LenInLoopDetector{}
}

func (d *LenInLoopDetector) Name() string {
	return "Len In Loop Detector"
}

func (d *LenInLoopDetector) Rule() string {
	return detectors.RuleLenInLoop
}

func (d *LenInLoopDetector) Detect(mod *pyast.Module, lines *source.Lines) []models.Issue {
	var issues []models.Issue
	seen := make(map[int]bool)

	pyast.Walk(mod, func(n pyast.Node) bool {
		loop, ok := n.(*pyast.Loop)
		if !ok || loop.Kind != pyast.LoopFor {
			return true
		}
		found := false
		pyast.Walk(loop, func(inner pyast.Node) bool {
			if found {
				return false
			}
			call, ok := inner.(*pyast.Call)
			if !ok || call.Callee != "len" || len(call.Args) == 0 || seen[call.Line()] {
				return true
			}
			if _, isName := call.Args[0].(*pyast.Name); !isName {
				return true
			}
			seen[call.Line()] = true
			found = true
			issues = append(issues, detectors.NewIssue(call.Line(), models.CategoryLogic,
				models.KindLenInLoop,
				"len() is evaluated on every iteration; move it outside the loop if the size is constant.",
				lines.Snippet(call.Line())))
			return false
		})
		return true
	})
	return issues
}

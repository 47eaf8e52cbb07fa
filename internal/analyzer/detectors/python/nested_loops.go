package python

import (
	"coderefine/internal/analyzer/detectors"
	"coderefine/internal/analyzer/pyast"
	"coderefine/internal/models"
	"coderefine/internal/source"
)

// NestedLoopDetector flags every loop that sits inside another loop.
type NestedLoopDetector struct{}

func NewNestedLoopDetector() *NestedLoopDetector {
	return &NestedLoopDetector{}
}

func (d *NestedLoopDetector) Name() string {
	return "Nested Loop Detector"
}

func (d *NestedLoopDetector) Rule() string {
	return detectors.RuleNestedLoop
}

func (d *NestedLoopDetector) Detect(mod *pyast.Module, lines *source.Lines) []models.Issue {
	var issues []models.Issue
	for _, hit := range loopDepths(mod, 0) {
		if hit.depth < 2 {
			continue
		}
		issues = append(issues, detectors.NewIssue(hit.loop.Line(), models.CategoryLogic,
			models.KindNestedLoop,
			"Consider flattening or early exit to avoid deep nesting.",
			lines.Snippet(hit.loop.Line())))
	}
	return issues
}

// loopHit is a loop together with its nesting depth, 1 being a loop with no
// enclosing loop.
type loopHit struct {
	loop  *pyast.Loop
	depth int
}

// loopDepths lists every loop under n in source order. depth is the number of
// loops enclosing n.
func loopDepths(n pyast.Node, depth int) []loopHit {
	if n == nil {
		return nil
	}
	var hits []loopHit
	if loop, ok := n.(*pyast.Loop); ok {
		depth++
		hits = append(hits, loopHit{loop: loop, depth: depth})
	}
	for _, c := range n.Children() {
		hits = append(hits, loopDepths(c, depth)...)
	}
	return hits
}

func maxDepth(hits []loopHit) (int, *pyast.Loop) {
	best, at := 0, (*pyast.Loop)(nil)
	for _, h := range hits {
		if h.depth > best {
			best, at = h.depth, h.loop
		}
	}
	return best, at
}

package python

import (
	"fmt"

	"coderefine/internal/analyzer/detectors"
	"coderefine/internal/analyzer/pyast"
	"coderefine/internal/models"
	"coderefine/internal/source"
)

// UnreachableCodeDetector flags the statement directly after a return,
// raise, break or continue in the same block of a function body.
type UnreachableCodeDetector struct{}

func NewUnreachableCodeDetector() *UnreachableCodeDetector {
	return &UnreachableCodeDetector{}
}

func (d *UnreachableCodeDetector) Name() string {
	return "Unreachable Code Detector"
}

func (d *UnreachableCodeDetector) Rule() string {
	return detectors.RuleUnreachableCode
}

func (d *UnreachableCodeDetector) Detect(mod *pyast.Module, lines *source.Lines) []models.Issue {
	var issues []models.Issue
	pyast.Walk(mod, func(n pyast.Node) bool {
		fn, ok := n.(*pyast.FunctionDef)
		if !ok {
			return true
		}
		issues = append(issues, d.checkFunction(fn, lines)...)
		return true
	})
	return issues
}

// checkFunction inspects every block of fn except those of nested functions,
// which the outer walk visits on their own.
func (d *UnreachableCodeDetector) checkFunction(fn *pyast.FunctionDef, lines *source.Lines) []models.Issue {
	var issues []models.Issue
	pyast.Walk(fn.Body, func(n pyast.Node) bool {
		switch node := n.(type) {
		case *pyast.FunctionDef:
			return false
		case *pyast.Block:
			issues = append(issues, d.checkBlock(node, lines)...)
		}
		return true
	})
	return issues
}

func (d *UnreachableCodeDetector) checkBlock(block *pyast.Block, lines *source.Lines) []models.Issue {
	var issues []models.Issue
	for i, stmt := range block.Stmts {
		jump, ok := stmt.(*pyast.Jump)
		if !ok || i == len(block.Stmts)-1 {
			continue
		}
		next := block.Stmts[i+1]
		issues = append(issues, detectors.NewIssue(next.Line(), models.CategoryLogic,
			models.KindUnreachableCode,
			fmt.Sprintf("Code after %s is unreachable.", jump.Keyword),
			lines.Snippet(next.Line())))
	}
	return issues
}

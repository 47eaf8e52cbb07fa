package python

import (
	"fmt"

	"coderefine/internal/analyzer/detectors"
	"coderefine/internal/analyzer/pyast"
	"coderefine/internal/models"
	"coderefine/internal/source"
)

// ignoredNames are never reported as unused.
var ignoredNames = map[string]bool{
	"_":            true,
	"__builtins__": true,
}

// ignoredParams are receiver names that methods are not expected to read.
var ignoredParams = map[string]bool{
	"self": true,
	"cls":  true,
}

// UnusedVariableDetector reports names that are bound but never read
// anywhere in the snippet. Scoping is deliberately ignored: a name read in
// any function counts as used everywhere.
type UnusedVariableDetector struct{}

func NewUnusedVariableDetector() *UnusedVariableDetector {
	return &UnusedVariableDetector{}
}

func (d *UnusedVariableDetector) Name() string {
	return "Unused Variable Detector"
}

func (d *UnusedVariableDetector) Rule() string {
	return detectors.RuleUnusedVariable
}

func (d *UnusedVariableDetector) Detect(mod *pyast.Module, lines *source.Lines) []models.Issue {
	var bindings []*pyast.Name
	used := make(map[string]bool)

	pyast.Walk(mod, func(n pyast.Node) bool {
		name, ok := n.(*pyast.Name)
		if !ok {
			return true
		}
		switch name.Ctx {
		case pyast.Load:
			used[name.ID] = true
		case pyast.Store, pyast.Param:
			bindings = append(bindings, name)
		}
		return true
	})

	var issues []models.Issue
	for _, b := range bindings {
		if used[b.ID] || ignoredNames[b.ID] {
			continue
		}
		message := fmt.Sprintf("Variable '%s' is assigned but never used.", b.ID)
		if b.Ctx == pyast.Param {
			if ignoredParams[b.ID] {
				continue
			}
			message = fmt.Sprintf("Parameter '%s' is never used.", b.ID)
		}
		issues = append(issues, detectors.NewIssue(b.Line(), models.CategoryStatic,
			models.KindUnusedVariable, message, lines.Snippet(b.Line())))
	}
	return issues
}

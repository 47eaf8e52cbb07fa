package clang

import (
	"regexp"
	"strings"

	"coderefine/internal/analyzer/detectors"
	"coderefine/internal/models"
)

var (
	returnLineRe = regexp.MustCompile(`^return\b[^;]*;$`)
	labelRe      = regexp.MustCompile(`^\w+\s*:`)
	// a header whose body is the next statement, e.g. "if (x)" or "else"
	bracelessRe = regexp.MustCompile(`^((}\s*)?else(\s+if\s*\(.*\))?|(if|for|while)\s*\(.*\))$`)
)

// UnreachableCodeDetector flags the line right after a return statement
// unless it closes the block or starts a new entry point.
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

func (d *UnreachableCodeDetector) Detect(f *File) []models.Issue {
	var issues []models.Issue
	for i := 0; i+1 < len(f.Code); i++ {
		cl, next := f.Code[i], f.Code[i+1]
		if !returnLineRe.MatchString(cl.Masked) {
			continue
		}
		if i > 0 && bracelessRe.MatchString(f.Code[i-1].Masked) {
			continue
		}
		if startsNewPath(next.Masked) {
			continue
		}
		issues = append(issues, detectors.NewIssue(next.Num, models.CategoryLogic, models.KindUnreachableCode,
			"Code after return is unreachable.", next.Code))
	}
	return issues
}

func startsNewPath(code string) bool {
	switch {
	case strings.HasPrefix(code, "}"),
		strings.HasPrefix(code, "#"),
		strings.HasPrefix(code, "case "),
		strings.HasPrefix(code, "default"):
		return true
	}
	return labelRe.MatchString(code)
}

package clang

import (
	"fmt"
	"regexp"
	"strings"

	"coderefine/internal/analyzer/detectors"
	"coderefine/internal/models"
)

// BalanceDetector counts braces and parentheses over the whole file and
// reports a syntax error for each counter that does not end at zero.
type BalanceDetector struct{}

func NewBalanceDetector() *BalanceDetector {
	return &BalanceDetector{}
}

func (d *BalanceDetector) Name() string {
	return "Brace Balance Detector"
}

func (d *BalanceDetector) Rule() string {
	return detectors.RuleBalance
}

func (d *BalanceDetector) Detect(f *File) []models.Issue {
	braces, parens := 0, 0
	for _, cl := range f.Code {
		for _, c := range cl.Masked {
			switch c {
			case '{':
				braces++
			case '}':
				braces--
			case '(':
				parens++
			case ')':
				parens--
			}
		}
	}

	last := f.Lines.Len()
	snippet := f.Lines.Snippet(last)
	var issues []models.Issue
	if braces != 0 {
		issues = append(issues, detectors.NewIssue(last, models.CategoryStatic, models.KindSyntaxError,
			fmt.Sprintf("Unbalanced braces (depth %d at end of file)", braces), snippet))
	}
	if parens != 0 {
		issues = append(issues, detectors.NewIssue(last, models.CategoryStatic, models.KindSyntaxError,
			fmt.Sprintf("Unbalanced parentheses (depth %d at end of file)", parens), snippet))
	}
	return issues
}

var conditionRe = regexp.MustCompile(`\b(?:if|while)\s*\(`)

const suspiciousAssignmentMessage = "Possible assignment in condition (use == for comparison?)"

// AssignmentInConditionDetector flags a bare '=' inside an if or while condition.
type AssignmentInConditionDetector struct{}

func NewAssignmentInConditionDetector() *AssignmentInConditionDetector {
	return &AssignmentInConditionDetector{}
}

func (d *AssignmentInConditionDetector) Name() string {
	return "Assignment In Condition Detector"
}

func (d *AssignmentInConditionDetector) Rule() string {
	return detectors.RuleSuspiciousAssignment
}

func (d *AssignmentInConditionDetector) Detect(f *File) []models.Issue {
	var issues []models.Issue
	for _, cl := range f.Code {
		loc := conditionRe.FindStringIndex(cl.Masked)
		if loc == nil || !hasBareAssign(condition(cl.Masked[loc[1]:])) {
			continue
		}
		issues = append(issues, detectors.NewIssue(cl.Num, models.CategoryStatic,
			models.KindSuspiciousAssignment, suspiciousAssignmentMessage, cl.Code))
	}
	return issues
}

// condition returns the text of rest up to the ')' closing the already opened
// parenthesis, or all of rest when the header continues on the next line.
func condition(rest string) string {
	depth := 1
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return rest[:i]
			}
		}
	}
	return rest
}

// hasBareAssign reports whether cond holds an '=' that is not part of a
// comparison operator.
func hasBareAssign(cond string) bool {
	for i := 0; i < len(cond); i++ {
		if cond[i] != '=' {
			continue
		}
		if i > 0 && strings.IndexByte("=!<>", cond[i-1]) >= 0 {
			continue
		}
		if i+1 < len(cond) && cond[i+1] == '=' {
			i++
			continue
		}
		return true
	}
	return false
}

package clang

import (
	"fmt"
	"regexp"
	"strings"

	"coderefine/internal/analyzer/detectors"
	"coderefine/internal/models"
)

var declRe = regexp.MustCompile(`\b(int|float|double|char|short|long|void)\s*(\*?\s*)(\w+)\s*[;=,]`)

var cKeywords = map[string]bool{
	"int": true, "float": true, "double": true, "char": true, "short": true, "long": true,
	"void": true, "return": true, "if": true, "else": true, "for": true, "while": true,
	"do": true, "switch": true, "case": true, "default": true, "break": true, "continue": true,
	"const": true, "static": true, "unsigned": true, "signed": true, "sizeof": true,
	"struct": true, "enum": true, "union": true, "typedef": true, "extern": true,
}

// UnusedVariableDetector flags declarations whose name does not appear
// anywhere else in the file. There is no scope analysis: the declaring line
// is removed once by its text, so duplicate lines can hide or cause a report.
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

func (d *UnusedVariableDetector) Detect(f *File) []models.Issue {
	text := strings.Join(f.Lines.All(), "\n")
	var issues []models.Issue
	for _, cl := range f.Code {
		for _, m := range declRe.FindAllStringSubmatch(cl.Masked, -1) {
			name := m[3]
			if cKeywords[name] {
				continue
			}
			rest := strings.Replace(text, cl.Raw, "", 1)
			if wordRe(name).MatchString(rest) {
				continue
			}
			issues = append(issues, detectors.NewIssue(cl.Num, models.CategoryStatic, models.KindUnusedVariable,
				fmt.Sprintf("Variable '%s' may be unused.", name), cl.Code))
		}
	}
	return issues
}

func wordRe(name string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
}

package clang

import (
	"regexp"
	"strings"

	"coderefine/internal/analyzer/detectors"
	"coderefine/internal/models"
)

const missingSemicolonMessage = "Missing semicolon at end of statement"

// lineRule is one entry of a rule table. A line matches when match returns true.
type lineRule struct {
	name  string
	match func(code string) bool
}

func hasSuffix(suffixes ...string) func(string) bool {
	return func(code string) bool {
		for _, s := range suffixes {
			if strings.HasSuffix(code, s) {
				return true
			}
		}
		return false
	}
}

func both(a, b func(string) bool) func(string) bool {
	return func(code string) bool { return a(code) && b(code) }
}

var (
	controlHeaderRe = regexp.MustCompile(`^(if|else\s+if|for|while|switch)\s*\(`)
	signatureRe     = regexp.MustCompile(`^([\w*]+\s+)+\**\w+\s*\(.*\)\s*$`)
	bareElseRe      = regexp.MustCompile(`^else\s*$`)
	aggregateOpenRe = regexp.MustCompile(`^(typedef\s+)?(struct|enum|union)\b[^;{]*$`)
	keywordLeadRe   = regexp.MustCompile(`^(return|goto|case|else|do)\b`)
)

// unbalancedParens reports lines that open or close a parenthesis spanning
// several lines, such as a wrapped condition.
func unbalancedParens(code string) bool {
	return strings.Count(code, "(") != strings.Count(code, ")")
}

func isSignature(code string) bool {
	return !keywordLeadRe.MatchString(code) && signatureRe.MatchString(code)
}

// semicolonExempt lists the line shapes that never need a trailing semicolon.
var semicolonExempt = []lineRule{
	{"preprocessor", func(code string) bool { return strings.HasPrefix(code, "#") }},
	{"block or continuation", hasSuffix("{", "}", "\\", ":")},
	{"terminated", hasSuffix(";")},
	{"list continuation", hasSuffix(",")},
	{"control header", both(hasSuffix(")"), controlHeaderRe.MatchString)},
	{"function signature", both(hasSuffix(")"), isSignature)},
	{"wrapped parentheses", unbalancedParens},
	{"bare else", bareElseRe.MatchString},
	{"aggregate opening", aggregateOpenRe.MatchString},
}

// statementShapes lists the line shapes that look like a complete statement.
var statementShapes = []lineRule{
	{"jump", regexp.MustCompile(`^(return|break|continue|goto)\b`).MatchString},
	{"declaration", regexp.MustCompile(`^\w[\w\s*]*\w+\s*[=\[(]`).MatchString},
	{"call", regexp.MustCompile(`^\w+\s*\(`).MatchString},
	{"assignment", regexp.MustCompile(`^[\w.>\[\]-]+\s*[-+*/%]?=`).MatchString},
	{"increment", regexp.MustCompile(`^(\+\+|--)`).MatchString},
	{"closing paren", regexp.MustCompile(`\)\s*$`).MatchString},
}

func matchesAny(rules []lineRule, code string) bool {
	for _, r := range rules {
		if r.match(code) {
			return true
		}
	}
	return false
}

// needsSemicolon reports whether a masked code line looks like a statement
// that is missing its terminating semicolon.
func needsSemicolon(code string) bool {
	return !matchesAny(semicolonExempt, code) && matchesAny(statementShapes, code)
}

// SemicolonDetector flags statement-shaped lines without a trailing semicolon.
type SemicolonDetector struct{}

func NewSemicolonDetector() *SemicolonDetector {
	return &SemicolonDetector{}
}

func (d *SemicolonDetector) Name() string {
	return "Missing Semicolon Detector"
}

func (d *SemicolonDetector) Rule() string {
	return detectors.RuleMissingSemicolon
}

func (d *SemicolonDetector) Detect(f *File) []models.Issue {
	var issues []models.Issue
	for _, cl := range f.Code {
		if needsSemicolon(cl.Masked) {
			issues = append(issues, detectors.NewIssue(cl.Num, models.CategoryStatic,
				models.KindMissingSemicolon, missingSemicolonMessage, cl.Code))
		}
	}
	return issues
}

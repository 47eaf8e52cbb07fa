package clang

import (
	"regexp"

	"coderefine/internal/analyzer/complexity"
	"coderefine/internal/analyzer/detectors"
	"coderefine/internal/models"
)

var (
	loopHeaderRe = regexp.MustCompile(`^(for|while)\s*\(`)
	allocRe      = regexp.MustCompile(`\b(malloc|calloc|realloc)\s*\(`)
)

// loopAt is one loop header and its lexical nesting depth.
type loopAt struct {
	line  CodeLine
	depth int
}

// frame is one open brace. loops counts the loop headers whose body it opens.
type frame struct{ loops int }

// findLoops walks the code lines with a brace stack. A loop header without
// an opening brace stays pending until its single statement ends.
func findLoops(f *File) []loopAt {
	var (
		stack   []frame
		pending int
		out     []loopAt
	)
	open := func() int {
		n := pending
		for _, fr := range stack {
			n += fr.loops
		}
		return n
	}

	for _, cl := range f.Code {
		if loopHeaderRe.MatchString(cl.Masked) {
			out = append(out, loopAt{line: cl, depth: open() + 1})
			pending++
		}

		parens := 0
		for _, c := range cl.Masked {
			switch c {
			case '(':
				parens++
			case ')':
				parens--
			case '{':
				stack = append(stack, frame{loops: pending})
				pending = 0
			case '}':
				if len(stack) > 0 {
					stack = stack[:len(stack)-1]
				}
			case ';':
				if parens <= 0 {
					pending = 0
				}
			}
		}
	}
	return out
}

// ComplexityDetector estimates time and space from loop nesting and
// allocation calls. Recursion and library sorts are not recognised in C.
type ComplexityDetector struct{}

func NewComplexityDetector() *ComplexityDetector {
	return &ComplexityDetector{}
}

func (d *ComplexityDetector) Name() string {
	return "C Complexity Detector"
}

func (d *ComplexityDetector) Estimate(f *File, loops []loopAt) ([]models.Issue, models.Estimate) {
	b := complexity.NewBuilder()
	var issues []models.Issue

	var deepest *loopAt
	for i := range loops {
		l := &loops[i]
		issues = append(issues, complexity.LoopIssue(l.line.Num, l.depth, l.line.Code))
		b.AddTime(complexity.LoopEvidence(l.line.Num, l.depth, l.line.Code))
		if deepest == nil || l.depth > deepest.depth {
			deepest = l
		}
	}

	for _, cl := range f.Code {
		if m := allocRe.FindStringSubmatch(cl.Masked); m != nil {
			b.AddSpace(models.Evidence{
				Line:         cl.Num,
				Reason:       "Dynamic allocation (" + m[1] + ")",
				Contribution: models.ClassLinear,
				Snippet:      cl.Code,
			})
		}
	}
	if deepest != nil {
		b.AddSpace(complexity.NestingSpace(deepest.line.Num, deepest.depth, deepest.line.Code))
	}
	return issues, b.Estimate()
}

// NestedLoopDetector reports loops nested inside another loop.
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

func (d *NestedLoopDetector) Detect(loops []loopAt) []models.Issue {
	var issues []models.Issue
	for _, l := range loops {
		if l.depth < 2 {
			continue
		}
		issues = append(issues, detectors.NewIssue(l.line.Num, models.CategoryLogic, models.KindNestedLoop,
			"Consider flattening or early exit to avoid deep nesting.", l.line.Code))
	}
	return issues
}

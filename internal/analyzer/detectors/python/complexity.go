package python

import (
	"coderefine/internal/analyzer/complexity"
	"coderefine/internal/analyzer/pyast"
	"coderefine/internal/models"
	"coderefine/internal/source"
)

// linearBuiltins scan their argument once.
var linearBuiltins = map[string]bool{
	"min": true,
	"max": true,
	"sum": true,
}

// ComplexityDetector estimates time and space complexity from loop nesting,
// self-recursion, sort calls and collection-building comprehensions.
type ComplexityDetector struct{}

func NewComplexityDetector() *ComplexityDetector {
	return &ComplexityDetector{}
}

func (d *ComplexityDetector) Name() string {
	return "Complexity Estimator"
}

// Estimate returns the complexity issues and the estimate for mod.
func (d *ComplexityDetector) Estimate(mod *pyast.Module, lines *source.Lines) ([]models.Issue, models.Estimate) {
	recursive := recursiveFunctions(mod)
	res := d.visit(mod, 0, recursive, lines)

	b := complexity.NewBuilder()
	b.AddTime(res.time...)
	b.AddSpace(res.space...)
	if depth, loop := maxDepth(loopDepths(mod, 0)); depth > 0 {
		b.AddSpace(complexity.NestingSpace(loop.Line(), depth, lines.Snippet(loop.Line())))
	}
	return res.issues, b.Estimate()
}

// scan is the bottom-up result of visiting one subtree.
type scan struct {
	issues []models.Issue
	time   []models.Evidence
	space  []models.Evidence
}

func (s *scan) merge(o scan) {
	s.issues = append(s.issues, o.issues...)
	s.time = append(s.time, o.time...)
	s.space = append(s.space, o.space...)
}

func (d *ComplexityDetector) visit(n pyast.Node, depth int, recursive map[string]bool, lines *source.Lines) scan {
	var out scan
	if n == nil {
		return out
	}
	line := n.Line()

	switch node := n.(type) {
	case *pyast.Loop:
		depth++
		snippet := lines.Snippet(line)
		out.issues = append(out.issues, complexity.LoopIssue(line, depth, snippet))
		out.time = append(out.time, complexity.LoopEvidence(line, depth, snippet))

	case *pyast.Call:
		out.merge(callEvidence(node, recursive, lines))

	case *pyast.Comprehension:
		if node.Builds() {
			out.space = append(out.space, models.Evidence{
				Line: line, Reason: "Comprehension", Contribution: models.ClassLinear, Snippet: lines.Snippet(line),
			})
		}
	}

	for _, c := range n.Children() {
		out.merge(d.visit(c, depth, recursive, lines))
	}
	return out
}

func callEvidence(call *pyast.Call, recursive map[string]bool, lines *source.Lines) scan {
	var out scan
	line := call.Line()
	snippet := lines.Snippet(line)

	switch {
	case call.Callee == "sorted" || call.Method == "sort":
		out.issues = append(out.issues, models.Issue{
			Line: line, Category: models.CategoryComplexity, Kind: models.KindSortCall,
			Message: "Sorting costs O(n log n) per call.", Snippet: snippet,
			Complexity: models.ClassLinearithmic.String(),
		})
		out.time = append(out.time, models.Evidence{
			Line: line, Reason: "sort", Contribution: models.ClassLinearithmic, Snippet: snippet,
		})
	case linearBuiltins[call.Callee]:
		out.issues = append(out.issues, models.Issue{
			Line: line, Category: models.CategoryComplexity, Kind: models.KindBuiltinLoop,
			Message: "Built-in may add O(n) per call.", Snippet: snippet,
			Complexity: models.ClassLinear.String(),
		})
		out.time = append(out.time, models.Evidence{
			Line: line, Reason: call.Callee + "()", Contribution: models.ClassLinear, Snippet: snippet,
		})
	}

	if call.Callee != "" && recursive[call.Callee] {
		out.issues = append(out.issues, models.Issue{
			Line: line, Category: models.CategoryComplexity, Kind: models.KindRecursion,
			Message: "Recursion: check base case and depth.", Snippet: snippet,
			Complexity: "O(recursion depth)",
		})
		out.time = append(out.time, models.Evidence{
			Line: line, Reason: "Recursion", Contribution: models.ClassCubicOrWorse, Snippet: snippet,
		})
	}
	return out
}

// recursiveFunctions returns the names of functions whose body calls their
// own name.
func recursiveFunctions(mod *pyast.Module) map[string]bool {
	out := make(map[string]bool)
	pyast.Walk(mod, func(n pyast.Node) bool {
		fn, ok := n.(*pyast.FunctionDef)
		if !ok || fn.Name == "" {
			return true
		}
		pyast.Walk(fn.Body, func(inner pyast.Node) bool {
			if call, ok := inner.(*pyast.Call); ok && call.Callee == fn.Name {
				out[fn.Name] = true
				return false
			}
			return true
		})
		return true
	})
	return out
}

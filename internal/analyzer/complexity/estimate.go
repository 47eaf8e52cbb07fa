// Package complexity turns per-line evidence into time and space classes.
//
// A class is always the maximum contribution among its evidence, so the
// classification can be recomputed from the evidence alone.
package complexity

import "coderefine/internal/models"

// FillerReason is the space evidence used when nothing allocates.
const FillerReason = "No large auxiliary structures"

// Builder collects evidence for one analysis call.
type Builder struct {
	time  []models.Evidence
	space []models.Evidence
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) AddTime(ev ...models.Evidence) {
	b.time = append(b.time, ev...)
}

func (b *Builder) AddSpace(ev ...models.Evidence) {
	b.space = append(b.space, ev...)
}

// Estimate classifies the collected evidence. Space evidence is never empty.
func (b *Builder) Estimate() models.Estimate {
	space := append([]models.Evidence(nil), b.space...)
	if len(space) == 0 {
		space = append(space, models.Evidence{Reason: FillerReason, Contribution: models.ClassConstant})
	}
	timeEv := append([]models.Evidence(nil), b.time...)
	return models.Estimate{
		Time:          Classify(timeEv),
		Space:         Classify(space),
		TimeEvidence:  timeEv,
		SpaceEvidence: space,
	}
}

// Classify returns the highest ranked contribution, O(1) for no evidence.
func Classify(evidence []models.Evidence) models.Class {
	out := models.ClassConstant
	for _, ev := range evidence {
		out = models.MaxClass(out, ev.Contribution)
	}
	return out
}

// Empty is the estimate used when a checker could not inspect the snippet.
func Empty() models.Estimate {
	return NewBuilder().Estimate()
}

// LoopEvidence describes the time contribution of a loop at the given depth.
func LoopEvidence(line, depth int, snippet string) models.Evidence {
	reason := "Single loop"
	switch {
	case depth == 2:
		reason = "Nested loop"
	case depth >= 3:
		reason = "Deep nesting"
	}
	return models.Evidence{Line: line, Reason: reason, Contribution: models.LoopDepthClass(depth), Snippet: snippet}
}

// LoopIssue is the complexity issue reported for a loop at the given depth.
func LoopIssue(line, depth int, snippet string) models.Issue {
	kind, message := models.KindLoop, "Single loop typically O(n)."
	switch {
	case depth == 2:
		kind, message = models.KindNestedLoop, "Nested loop can be O(n²) or O(n*m)."
	case depth >= 3:
		kind, message = models.KindDeepLoop, "Deep nesting may cause high time complexity."
	}
	return models.Issue{
		Line:       line,
		Category:   models.CategoryComplexity,
		Kind:       kind,
		Message:    message,
		Snippet:    snippet,
		Complexity: models.LoopDepthClass(depth).String(),
	}
}

// NestingSpace is the space evidence implied by the deepest loop nest.
func NestingSpace(line, maxDepth int, snippet string) models.Evidence {
	contribution := models.ClassLinear
	reason := "Loop may grow data linearly"
	if maxDepth >= 2 {
		contribution = models.ClassQuadratic
		reason = "Nested loops may build quadratic intermediate data"
	}
	return models.Evidence{Line: line, Reason: reason, Contribution: contribution, Snippet: snippet}
}

package scoring

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"coderefine/internal/models"
	"coderefine/internal/summarizer"
)

// rule rewrites one issue into a suggestion. ok is false when the issue does
// not produce one.
type rule func(issue models.Issue, lang models.Language) (kind models.Kind, message string, ok bool)

func fixed(kind models.Kind, message string) rule {
	return func(models.Issue, models.Language) (models.Kind, string, bool) {
		return kind, message, true
	}
}

func improveAlgorithm(issue models.Issue, _ models.Language) (models.Kind, string, bool) {
	class := issue.Complexity
	if class == "" {
		class = "high"
	}
	return models.KindImproveAlgorithm, fmt.Sprintf("Complexity: %s. Consider better algorithm.", class), true
}

// rules is keyed by issue category and kind.
var rules = map[models.Category]map[models.Kind]rule{
	models.CategoryStatic: {
		models.KindUnusedVariable: func(_ models.Issue, lang models.Language) (models.Kind, string, bool) {
			if lang == models.LanguageC {
				return models.KindRemoveUnused, "Remove unused variable.", true
			}
			return models.KindRemoveUnused, "Remove unused variable to reduce clutter.", true
		},
		models.KindBadPractice: func(issue models.Issue, _ models.Language) (models.Kind, string, bool) {
			return models.KindStyleFix, issue.Message, true
		},
	},
	models.CategoryLogic: {
		models.KindNestedLoop:      fixed(models.KindFlattenLoop, "Consider flattening or early exit."),
		models.KindUnreachableCode: fixed(models.KindRemoveDeadCode, "Remove unreachable code."),
		models.KindLenInLoop:       fixed(models.KindCacheLen, "Move len() outside loop if iterable size is constant."),
	},
	models.CategoryComplexity: {
		models.KindNestedLoop: improveAlgorithm,
		models.KindDeepLoop:   improveAlgorithm,
		models.KindRecursion:  improveAlgorithm,
	},
}

// cLoopKinds are rewritten into loop_optimization for C, which has no
// algorithm-level evidence beyond loop nesting.
var cLoopKinds = map[models.Kind]bool{
	models.KindLoop:       true,
	models.KindNestedLoop: true,
	models.KindDeepLoop:   true,
}

// Suggest rewrites issues into optimization suggestions, one per matching
// issue, in issue order.
func Suggest(issues []models.Issue, lang models.Language) []models.Suggestion {
	var out []models.Suggestion
	for _, issue := range issues {
		kind, message, ok := rewrite(issue, lang)
		if !ok {
			continue
		}
		out = append(out, models.Suggestion{
			Line:     issue.Line,
			Category: models.CategoryOptimization,
			Kind:     kind,
			Message:  message,
			Snippet:  issue.Snippet,
			Source:   issue.Kind,
		})
	}
	return out
}

func rewrite(issue models.Issue, lang models.Language) (models.Kind, string, bool) {
	if lang == models.LanguageC && issue.Category == models.CategoryComplexity && cLoopKinds[issue.Kind] {
		return models.KindLoopOptimization, issue.Message, true
	}
	r, ok := rules[issue.Category][issue.Kind]
	if !ok {
		return "", "", false
	}
	return r(issue, lang)
}

// Annotator attaches optional summaries to suggestions.
type Annotator struct {
	summarizer summarizer.Summarizer
	logger     zerolog.Logger
}

// NewAnnotator returns an annotator. A nil summarizer disables summaries.
func NewAnnotator(s summarizer.Summarizer, logger zerolog.Logger) *Annotator {
	if s == nil {
		s = summarizer.Noop{}
	}
	return &Annotator{summarizer: s, logger: logger}
}

// Annotate returns a copy of suggestions with Summary filled in where the
// summarizer succeeded. Failures leave Summary empty and every other field
// untouched.
func (a *Annotator) Annotate(ctx context.Context, suggestions []models.Suggestion) []models.Suggestion {
	out := make([]models.Suggestion, len(suggestions))
	copy(out, suggestions)

	for i := range out {
		if ctx.Err() != nil {
			break
		}
		text := out[i].Message
		if out[i].Snippet != "" {
			text += "\n" + out[i].Snippet
		}
		summary, err := a.summarizer.Summarize(ctx, summarizer.KindSummarizeOptimization, text)
		if err != nil {
			a.logger.Debug().Err(err).Str("type", string(out[i].Kind)).Int("line", out[i].Line).Msg("no summary")
			continue
		}
		out[i].Summary = summary
	}
	return out
}

package scoring

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coderefine/internal/models"
	"coderefine/internal/summarizer"
)

func sampleIssues() []models.Issue {
	return []models.Issue{
		{Line: 1, Category: models.CategoryStatic, Kind: models.KindUnusedVariable, Message: "Variable 'x' is assigned but never used.", Snippet: "x = 5"},
		{Line: 2, Category: models.CategoryStatic, Kind: models.KindBadPractice, Message: "Use 'is None' instead of '== None'.", Snippet: "if x == None:"},
		{Line: 3, Category: models.CategoryStatic, Kind: models.KindFormatting, Message: "Line exceeds 100 characters: ..."},
		{Line: 4, Category: models.CategoryLogic, Kind: models.KindNestedLoop, Snippet: "for j in xs:"},
		{Line: 5, Category: models.CategoryLogic, Kind: models.KindUnreachableCode, Snippet: "print(2)"},
		{Line: 6, Category: models.CategoryLogic, Kind: models.KindLenInLoop, Snippet: "for i in range(len(xs)):"},
		{Line: 4, Category: models.CategoryComplexity, Kind: models.KindNestedLoop, Complexity: "O(n²)", Snippet: "for j in xs:"},
		{Line: 3, Category: models.CategoryComplexity, Kind: models.KindLoop, Complexity: "O(n)", Message: "Single loop typically O(n)."},
	}
}

func TestSuggest_Python(t *testing.T) {
	t.Parallel()

	got := Suggest(sampleIssues(), models.LanguagePython)

	require.Len(t, got, 6)
	kinds := make([]models.Kind, 0, len(got))
	for _, s := range got {
		assert.Equal(t, models.CategoryOptimization, s.Category)
		kinds = append(kinds, s.Kind)
	}
	assert.Equal(t, []models.Kind{
		models.KindRemoveUnused,
		models.KindStyleFix,
		models.KindFlattenLoop,
		models.KindRemoveDeadCode,
		models.KindCacheLen,
		models.KindImproveAlgorithm,
	}, kinds)

	assert.Equal(t, "Remove unused variable to reduce clutter.", got[0].Message)
	assert.Equal(t, "x = 5", got[0].Snippet)
	assert.Equal(t, models.KindUnusedVariable, got[0].Source)
	assert.Equal(t, "Use 'is None' instead of '== None'.", got[1].Message)
	assert.Equal(t, "Complexity: O(n²). Consider better algorithm.", got[5].Message)
}

func TestSuggest_CLoops(t *testing.T) {
	t.Parallel()

	issues := []models.Issue{
		{Line: 2, Category: models.CategoryStatic, Kind: models.KindUnusedVariable},
		{Line: 3, Category: models.CategoryComplexity, Kind: models.KindLoop, Message: "Single loop typically O(n)."},
		{Line: 4, Category: models.CategoryComplexity, Kind: models.KindNestedLoop, Message: "Nested loop can be O(n²) or O(n*m)."},
	}

	got := Suggest(issues, models.LanguageC)

	require.Len(t, got, 3)
	assert.Equal(t, "Remove unused variable.", got[0].Message)
	assert.Equal(t, models.KindLoopOptimization, got[1].Kind)
	assert.Equal(t, "Single loop typically O(n).", got[1].Message)
	assert.Equal(t, models.KindLoopOptimization, got[2].Kind)
}

func TestAnnotate_AttachesSummaries(t *testing.T) {
	t.Parallel()

	suggestions := Suggest(sampleIssues(), models.LanguagePython)
	s := summarizer.Func(func(_ context.Context, kind, _ string) (string, error) {
		return "- " + kind, nil
	})

	got := NewAnnotator(s, zerolog.Nop()).Annotate(context.Background(), suggestions)

	require.Len(t, got, len(suggestions))
	for i := range got {
		assert.Equal(t, "- "+summarizer.KindSummarizeOptimization, got[i].Summary)
		got[i].Summary = ""
	}
	assert.Equal(t, suggestions, got)
}

func TestAnnotate_FailureLeavesSuggestionsIntact(t *testing.T) {
	t.Parallel()

	suggestions := Suggest(sampleIssues(), models.LanguagePython)
	failing := summarizer.Func(func(context.Context, string, string) (string, error) {
		return "", errors.New("network down")
	})

	assert.Equal(t, suggestions, NewAnnotator(failing, zerolog.Nop()).Annotate(context.Background(), suggestions))
	assert.Equal(t, suggestions, NewAnnotator(nil, zerolog.Nop()).Annotate(context.Background(), suggestions))
}

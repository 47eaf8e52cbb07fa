package compare

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coderefine/internal/analyzer"
	"coderefine/internal/history"
	"coderefine/internal/models"
)

const nested = `def f(n):
    total = 0
    for i in range(n):
        for j in range(n):
            for k in range(n):
                total += i * j * k
    return total
`

const flat = `def f(n):
    total = 0
    for i in range(n):
        total += i
    return total
`

func TestDiff_Lines(t *testing.T) {
	t.Parallel()

	got := Diff("a\nb\nc\n", "a\nx\nc")

	assert.Equal(t, []Line{
		{Op: OpEqual, Text: "a"},
		{Op: OpDelete, Text: "b"},
		{Op: OpInsert, Text: "x"},
		{Op: OpEqual, Text: "c"},
	}, got)
	assert.Equal(t, "  a\n- b\n+ x\n  c\n", Unified(got))
}

func TestDiff_Identical(t *testing.T) {
	t.Parallel()

	for _, line := range Diff(flat, flat) {
		assert.Equal(t, OpEqual, line.Op)
	}
	assert.Empty(t, Diff("", ""))
}

func TestCompare_ScoreAndTime(t *testing.T) {
	t.Parallel()

	c := New(analyzer.NewAnalyzer())
	res, err := c.Compare(context.Background(),
		analyzer.Request{Source: nested, Language: "python"},
		analyzer.Request{Source: flat, Language: "python"},
	)
	require.NoError(t, err)

	assert.Equal(t, 95, res.Left.Score.Value)
	assert.Equal(t, 100, res.Right.Score.Value)
	assert.Equal(t, 5, res.ScoreDelta)
	assert.Equal(t, models.ClassCubicOrWorse, res.Left.EstimatedTimeComplexity)
	assert.Equal(t, models.ClassLinear, res.Right.EstimatedTimeComplexity)
	assert.Negative(t, res.TimeDelta)
	assert.Positive(t, res.Added)
	assert.Positive(t, res.Removed)
	assert.Contains(t, res.Summary, "Right scores 5 point(s) higher")
	assert.Contains(t, res.Summary, "right is asymptotically faster")
}

func TestCompare_UnsupportedLanguage(t *testing.T) {
	t.Parallel()

	c := New(analyzer.NewAnalyzer())
	_, err := c.Compare(context.Background(),
		analyzer.Request{Source: flat, Language: "python"},
		analyzer.Request{Source: flat, Language: "rust"},
	)

	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrUnsupportedLanguage))
}

func TestCompare_SavesOnlyComparison(t *testing.T) {
	t.Parallel()

	store, err := history.NewFileStore(filepath.Join(t.TempDir(), "history.json"))
	require.NoError(t, err)
	ctx := context.Background()

	a := analyzer.NewAnalyzer(analyzer.WithHistory(store, "bob"))
	res, err := New(a, WithHistory(store, "bob")).Compare(ctx,
		analyzer.Request{Source: nested, Language: "python"},
		analyzer.Request{Source: flat, Language: "python"},
	)
	require.NoError(t, err)
	require.NotEmpty(t, res.ReportID)
	assert.Empty(t, res.Left.ReportID)

	recs, err := store.List(ctx, history.ListOptions{UserID: "bob"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, history.KindComparison, recs[0].Kind)
	assert.Equal(t, res.ReportID, recs[0].ID)
}

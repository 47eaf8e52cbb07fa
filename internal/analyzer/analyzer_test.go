package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coderefine/internal/config"
	"coderefine/internal/history"
	"coderefine/internal/metrics"
	"coderefine/internal/models"
	"coderefine/internal/scoring"
	"coderefine/internal/summarizer"
)

const pyTripleLoop = `def f(n):
    total = 0
    for i in range(n):
        for j in range(n):
            for k in range(n):
                total += i * j * k
    return total
`

const cMissingSemicolon = `#include <stdio.h>
int main() {
    int x = 1
    printf("%d\n", x);
    return 0;
}
`

type failingStore struct{ history.Store }

func (failingStore) Save(context.Context, history.Record) (string, error) {
	return "", errors.New("disk full")
}

func TestAnalyze_UnsupportedLanguage(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	a := NewAnalyzer(WithMetrics(m))

	res, err := a.Analyze(context.Background(), Request{Source: "x = 1", Language: "java"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrUnsupportedLanguage))
	assert.Nil(t, res)
	assert.Equal(t, 0, testutil.CollectAndCount(m.Analyses))
}

func TestAnalyze_PythonTripleLoop(t *testing.T) {
	t.Parallel()

	res, err := NewAnalyzer().AnalyzeSource(context.Background(), pyTripleLoop, "python")
	require.NoError(t, err)

	assert.Equal(t, models.LanguagePython, res.Language)
	assert.Equal(t, models.ClassCubicOrWorse, res.EstimatedTimeComplexity)
	assert.Equal(t, models.ClassQuadratic, res.EstimatedSpaceComplexity)
	assert.Equal(t, 95, res.Score.Value)
	assert.Equal(t, []string{scoring.LabelGood, "High time complexity"}, res.Score.Reasons)
	assert.Len(t, res.Optimizations, 4)
	assert.False(t, res.HadSyntaxError)
	assert.Empty(t, res.ReportID)
}

func TestAnalyze_AutoDetectsC(t *testing.T) {
	t.Parallel()

	res, err := NewAnalyzer().AnalyzeSource(context.Background(), cMissingSemicolon, "auto")
	require.NoError(t, err)

	assert.Equal(t, models.LanguageC, res.Language)
	require.NotEmpty(t, res.StaticIssues)
	assert.Equal(t, models.KindMissingSemicolon, res.StaticIssues[0].Kind)
	assert.Equal(t, 85, res.Score.Value)
}

func TestAnalyze_PythonSyntaxError(t *testing.T) {
	t.Parallel()

	res, err := NewAnalyzer().AnalyzeSource(context.Background(), "def f(:\n    pass\n", "python")
	require.NoError(t, err)

	assert.True(t, res.HadSyntaxError)
	assert.Equal(t, 60, res.Score.Value)
	require.Len(t, res.StaticIssues, 1)
	assert.Empty(t, res.LogicIssues)
	assert.NotNil(t, res.LogicIssues)
}

func TestAnalyze_FilenameHint(t *testing.T) {
	t.Parallel()

	res, err := NewAnalyzer().Analyze(context.Background(), Request{Source: "x = 1\nprint(x)\n", Filename: "main.c"})
	require.NoError(t, err)

	assert.Equal(t, models.LanguageC, res.Language)
	assert.Equal(t, "main.c", res.File)
}

func TestAnalyze_Deterministic(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer()
	first, err := a.AnalyzeSource(context.Background(), pyTripleLoop, "python")
	require.NoError(t, err)
	second, err := a.AnalyzeSource(context.Background(), pyTripleLoop, "python")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAnalyze_SavesHistory(t *testing.T) {
	t.Parallel()

	store, err := history.NewFileStore(filepath.Join(t.TempDir(), "history.json"))
	require.NoError(t, err)
	m := metrics.New()

	a := NewAnalyzer(WithHistory(store, "alice"), WithMetrics(m))
	res, err := a.AnalyzeSource(context.Background(), pyTripleLoop, "python")
	require.NoError(t, err)
	require.NotEmpty(t, res.ReportID)

	rec, err := store.Get(context.Background(), "alice", res.ReportID)
	require.NoError(t, err)
	assert.Equal(t, history.KindReview, rec.Kind)
	assert.Equal(t, "python", rec.Language)
	assert.True(t, strings.HasPrefix(rec.Title, "Full Code Review (PYTHON)"))
	require.NotNil(t, rec.Score)
	assert.Equal(t, 95, *rec.Score)

	var stored models.AnalysisResult
	require.NoError(t, json.Unmarshal(rec.Report, &stored))
	assert.Equal(t, models.ClassCubicOrWorse, stored.EstimatedTimeComplexity)

	assert.InDelta(t, 1, testutil.ToFloat64(m.HistorySaves.WithLabelValues("ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Analyses.WithLabelValues("python")), 0)
}

func TestAnalyze_HistoryFailureKeepsResult(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	a := NewAnalyzer(WithHistory(failingStore{}, "alice"), WithMetrics(m))

	res, err := a.AnalyzeSource(context.Background(), pyTripleLoop, "python")
	require.NoError(t, err)

	assert.Empty(t, res.ReportID)
	assert.Equal(t, 95, res.Score.Value)
	assert.InDelta(t, 1, testutil.ToFloat64(m.HistorySaves.WithLabelValues("error")), 0)
}

func TestAnalyze_Summaries(t *testing.T) {
	t.Parallel()

	sum := summarizer.Func(func(_ context.Context, kind, _ string) (string, error) {
		return "- " + kind, nil
	})
	res, err := NewAnalyzer(WithSummarizer(sum)).AnalyzeSource(context.Background(), pyTripleLoop, "python")
	require.NoError(t, err)

	require.NotEmpty(t, res.Optimizations)
	for _, s := range res.Optimizations {
		assert.Equal(t, "- "+summarizer.KindSummarizeOptimization, s.Summary)
	}
}

func TestAnalyze_DisabledRuleFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Rules.MissingSemicolon = false

	res, err := NewAnalyzerWithConfig(cfg).AnalyzeSource(context.Background(), cMissingSemicolon, "c")
	require.NoError(t, err)

	for _, is := range res.StaticIssues {
		assert.NotEqual(t, models.KindMissingSemicolon, is.Kind)
	}
	assert.Equal(t, 100, res.Score.Value)
}

func TestAnalyzeFiles_KeepsOrderAndSkipsFailures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	py := filepath.Join(dir, "loop.py")
	c := filepath.Join(dir, "main.c")
	require.NoError(t, os.WriteFile(py, []byte(pyTripleLoop), 0o644))
	require.NoError(t, os.WriteFile(c, []byte(cMissingSemicolon), 0o644))
	missing := filepath.Join(dir, "missing.py")

	cfg := config.DefaultConfig()
	cfg.Analysis.MaxWorkers = 2
	results, err := NewAnalyzerWithConfig(cfg).AnalyzeFiles(context.Background(), []string{py, missing, c}, "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.py")
	require.Len(t, results, 2)
	assert.Equal(t, py, results[0].File)
	assert.Equal(t, models.LanguagePython, results[0].Language)
	assert.Equal(t, c, results[1].File)
	assert.Equal(t, models.LanguageC, results[1].Language)
}

func TestDetectorNames(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer()

	assert.Len(t, a.DetectorNames(models.LanguagePython), 7)
	assert.NotEmpty(t, a.DetectorNames(models.LanguageC))
	assert.Nil(t, a.DetectorNames("java"))
}

func TestAnalyzeFiles_Fixtures(t *testing.T) {
	t.Parallel()

	py := filepath.Join("..", "..", "testdata", "sample.py")
	c := filepath.Join("..", "..", "testdata", "sample.c")

	results, err := NewAnalyzer().AnalyzeFiles(context.Background(), []string{py, c}, "auto")
	require.NoError(t, err)
	require.Len(t, results, 2)

	pyRes := results[0]
	assert.Equal(t, models.LanguagePython, pyRes.Language)
	assert.NotEmpty(t, pyRes.StaticIssues)
	assert.NotEmpty(t, pyRes.LogicIssues)
	assert.Equal(t, models.ClassCubicOrWorse, pyRes.EstimatedTimeComplexity)
	assert.Less(t, pyRes.Score.Value, 100)

	cRes := results[1]
	assert.Equal(t, models.LanguageC, cRes.Language)
	assert.Equal(t, models.ClassQuadratic, cRes.EstimatedTimeComplexity)
	kinds := map[models.Kind]bool{}
	for _, is := range cRes.AllIssues() {
		kinds[is.Kind] = true
	}
	assert.True(t, kinds[models.KindMissingSemicolon])
	assert.True(t, kinds[models.KindSuspiciousAssignment])
	assert.True(t, kinds[models.KindUnreachableCode])
	assert.True(t, kinds[models.KindNestedLoop])
}

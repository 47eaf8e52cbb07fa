package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coderefine/internal/models"
)

func TestObserveAnalysis(t *testing.T) {
	t.Parallel()

	m := New()
	res := &models.AnalysisResult{
		Language: models.LanguagePython,
		StaticIssues: []models.Issue{
			{Category: models.CategoryStatic, Kind: models.KindUnusedVariable},
			{Category: models.CategoryStatic, Kind: models.KindUnusedVariable},
		},
		Score: models.Score{Value: 90},
	}

	m.ObserveAnalysis(res, 2*time.Millisecond)

	assert.InDelta(t, 1.0, testutil.ToFloat64(m.Analyses.WithLabelValues("python")), 0.001)
	assert.InDelta(t, 2.0, testutil.ToFloat64(m.Issues.WithLabelValues("static", "unused_variable")), 0.001)
}

func TestObserveHistorySave(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveHistorySave(nil)
	m.ObserveHistorySave(errors.New("disk full"))
	m.ObserveHistorySave(errors.New("disk full"))

	assert.InDelta(t, 1.0, testutil.ToFloat64(m.HistorySaves.WithLabelValues("ok")), 0.001)
	assert.InDelta(t, 2.0, testutil.ToFloat64(m.HistorySaves.WithLabelValues("error")), 0.001)
}

func TestNilMetricsIsSafe(t *testing.T) {
	t.Parallel()

	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveAnalysis(&models.AnalysisResult{}, time.Second)
		m.ObserveHistorySave(nil)
	})
}

func TestHandler(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveAnalysis(&models.AnalysisResult{Language: models.LanguageC}, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `coderefine_analyses_total{language="c"} 1`)
}

package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coderefine/internal/analyzer"
	"coderefine/internal/config"
	"coderefine/internal/history"
	"coderefine/internal/metrics"
)

const tripleLoop = "def f(n):\n    total = 0\n    for i in range(n):\n        for j in range(n):\n            for k in range(n):\n                total += i * j * k\n    return total\n"

const singleLoop = "def f(n):\n    total = 0\n    for i in range(n):\n        total += i\n    return total\n"

func newTestServer(t *testing.T) (*httptest.Server, *metrics.Metrics) {
	t.Helper()

	store, err := history.NewFileStore(filepath.Join(t.TempDir(), "history.json"))
	require.NoError(t, err)
	m := metrics.New()

	a := analyzer.NewAnalyzer(analyzer.WithHistory(store, "local"), analyzer.WithMetrics(m))
	srv := New(config.DefaultConfig().Server, a, WithHistory(store, "local"), WithMetrics(m))

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, m
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	t.Parallel()
	ts, _ := newTestServer(t)

	resp := get(t, ts.URL+"/health")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decode[map[string]string](t, resp)["health"])
}

func TestAnalyze_Python(t *testing.T) {
	t.Parallel()
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/analyze", map[string]string{"code": tripleLoop, "language": "python"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[map[string]any](t, resp)
	assert.Equal(t, "python", body["language"])
	assert.Equal(t, "O(n³)+", body["estimated_time_complexity"])
	assert.NotEmpty(t, body["report_id"])
	quality, ok := body["quality"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 95, quality["score"], 0)
}

func TestAnalyze_AutoLanguage(t *testing.T) {
	t.Parallel()
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/analyze", map[string]string{
		"code":     "#include <stdio.h>\nint main() {\n    return 0;\n}\n",
		"language": "auto",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "c", decode[map[string]any](t, resp)["language"])
}

func TestAnalyze_UnsupportedLanguage(t *testing.T) {
	t.Parallel()
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/analyze", map[string]string{"code": "class A {}", "language": "java"})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "language must be 'python' or 'c'", decode[map[string]string](t, resp)["detail"])
}

func TestAnalyze_InvalidBody(t *testing.T) {
	t.Parallel()
	ts, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/analyze", "application/json", bytes.NewBufferString("{"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHistory_ListAndGet(t *testing.T) {
	t.Parallel()
	ts, _ := newTestServer(t)

	created := decode[map[string]any](t, postJSON(t, ts.URL+"/api/analyze",
		map[string]string{"code": tripleLoop, "language": "python"}))
	id, ok := created["report_id"].(string)
	require.True(t, ok)

	resp := get(t, ts.URL+"/api/history")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := decode[[]historyItem](t, resp)
	require.Len(t, items, 1)
	assert.Equal(t, id, items[0].ID)
	assert.Equal(t, history.KindReview, items[0].Type)
	assert.Equal(t, "python", items[0].Language)
	assert.Equal(t, tripleLoop, items[0].CodePreview)

	resp = get(t, ts.URL+"/api/history/"+id)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	report := decode[map[string]any](t, resp)
	assert.Equal(t, "O(n³)+", report["estimated_time_complexity"])
}

func TestHistory_NotFound(t *testing.T) {
	t.Parallel()
	ts, _ := newTestServer(t)

	resp := get(t, ts.URL+"/api/history/does-not-exist")

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Report not found", decode[map[string]string](t, resp)["detail"])
}

func TestHistory_InvalidLimit(t *testing.T) {
	t.Parallel()
	ts, _ := newTestServer(t)

	resp := get(t, ts.URL+"/api/history?limit=abc")

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCompare(t *testing.T) {
	t.Parallel()
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/compare", map[string]any{
		"left":  map[string]string{"code": tripleLoop, "language": "python"},
		"right": map[string]string{"code": singleLoop, "language": "python"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[map[string]any](t, resp)
	assert.InDelta(t, 5, body["score_delta"], 0)
	assert.NotEmpty(t, body["diff"])
	assert.NotEmpty(t, body["report_id"])
}

func TestCompare_UnsupportedLanguage(t *testing.T) {
	t.Parallel()
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/compare", map[string]any{
		"left":  map[string]string{"code": singleLoop, "language": "python"},
		"right": map[string]string{"code": singleLoop, "language": "go"},
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()
	ts, _ := newTestServer(t)

	get(t, ts.URL+"/health")
	resp := get(t, ts.URL+"/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), `coderefine_http_requests_total{method="GET",route="/health",status="200"} 1`)
}

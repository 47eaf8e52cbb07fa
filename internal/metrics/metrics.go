// Package metrics exposes Prometheus collectors for analyses and the HTTP API.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"coderefine/internal/models"
)

// Metrics groups the collectors registered on one registry.
type Metrics struct {
	registry *prometheus.Registry

	Analyses         *prometheus.CounterVec
	AnalysisDuration *prometheus.HistogramVec
	Issues           *prometheus.CounterVec
	Scores           prometheus.Histogram
	Requests         *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	HistorySaves     *prometheus.CounterVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Analyses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coderefine_analyses_total",
				Help: "Total number of analyzed snippets",
			},
			[]string{"language"},
		),
		AnalysisDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "coderefine_analysis_duration_seconds",
				Help:    "Time spent analyzing one snippet",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
			},
			[]string{"language"},
		),
		Issues: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coderefine_issues_total",
				Help: "Issues found, by category and type",
			},
			[]string{"category", "type"},
		),
		Scores: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "coderefine_quality_score",
				Help:    "Distribution of quality scores",
				Buckets: prometheus.LinearBuckets(10, 10, 10),
			},
		),
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coderefine_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "coderefine_http_request_duration_seconds",
				Help: "HTTP request duration in seconds",
			},
			[]string{"method", "route"},
		),
		HistorySaves: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coderefine_history_saves_total",
				Help: "History save attempts by result",
			},
			[]string{"result"},
		),
	}
}

// ObserveAnalysis records one finished analysis.
func (m *Metrics) ObserveAnalysis(res *models.AnalysisResult, took time.Duration) {
	if m == nil || res == nil {
		return
	}
	lang := string(res.Language)
	m.Analyses.WithLabelValues(lang).Inc()
	m.AnalysisDuration.WithLabelValues(lang).Observe(took.Seconds())
	for _, issue := range res.AllIssues() {
		m.Issues.WithLabelValues(string(issue.Category), string(issue.Kind)).Inc()
	}
	m.Scores.Observe(float64(res.Score.Value))
}

// ObserveHistorySave records whether a report could be stored.
func (m *Metrics) ObserveHistorySave(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.HistorySaves.WithLabelValues(result).Inc()
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

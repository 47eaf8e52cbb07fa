// Package server exposes the analyzer over a small JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"coderefine/internal/analyzer"
	"coderefine/internal/compare"
	"coderefine/internal/config"
	"coderefine/internal/history"
	"coderefine/internal/metrics"
)

// DefaultHistoryLimit is the page size of GET /api/history.
const DefaultHistoryLimit = 20

type Server struct {
	cfg      config.ServerConfig
	analyzer *analyzer.Analyzer
	comparer *compare.Comparer
	store    history.Store
	user     string
	metrics  *metrics.Metrics
	logger   zerolog.Logger

	router     chi.Router
	httpServer *http.Server
}

// Option customizes a Server.
type Option func(*Server)

// WithHistory enables the history endpoints. The analyzer is expected to
// save into the same store.
func WithHistory(store history.Store, user string) Option {
	return func(s *Server) {
		s.store = store
		s.user = user
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

func New(cfg config.ServerConfig, a *analyzer.Analyzer, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		analyzer: a,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	compareOpts := []compare.Option{compare.WithLogger(s.logger)}
	if s.store != nil {
		compareOpts = append(compareOpts, compare.WithHistory(s.store, s.user))
	}
	s.comparer = compare.New(a, compareOpts...)

	s.router = chi.NewRouter()
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.metricsMiddleware)

	s.router.Get("/health", s.handleHealth)
	if s.metrics != nil {
		s.router.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	s.router.Route("/api", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/compare", s.handleCompare)
		r.Get("/history", s.handleListHistory)
		r.Get("/history/{id}", s.handleGetHistory)
	})

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the routed handler, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.cfg.Addr).Msg("HTTP server starting")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

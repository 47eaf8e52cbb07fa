package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"coderefine/internal/analyzer"
	"coderefine/internal/history"
	"coderefine/internal/models"
	"coderefine/internal/source"
)

type analyzeRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
	Filename string `json:"filename,omitempty"`
}

func (r analyzeRequest) toRequest() analyzer.Request {
	return analyzer.Request{Source: r.Code, Language: r.Language, Filename: r.Filename}
}

type compareRequest struct {
	Left  analyzeRequest `json:"left"`
	Right analyzeRequest `json:"right"`
}

type historyItem struct {
	ID          string       `json:"id"`
	Type        history.Kind `json:"type"`
	Title       string       `json:"title"`
	Language    string       `json:"language"`
	CodePreview string       `json:"code_preview"`
	Score       *int         `json:"score,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

const previewLength = 200

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.sendJSON(w, http.StatusOK, map[string]string{"app": "CodeRefine", "health": "ok"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !s.decode(w, r, &req) {
		return
	}
	res, err := s.analyzer.Analyze(r.Context(), req.toRequest())
	if err != nil {
		s.sendAnalysisError(w, err)
		return
	}
	s.sendJSON(w, http.StatusOK, res)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if !s.decode(w, r, &req) {
		return
	}
	res, err := s.comparer.Compare(r.Context(), req.Left.toRequest(), req.Right.toRequest())
	if err != nil {
		s.sendAnalysisError(w, err)
		return
	}
	s.sendJSON(w, http.StatusOK, res)
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.sendJSON(w, http.StatusOK, []historyItem{})
		return
	}
	limit := DefaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.sendError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	recs, err := s.store.List(r.Context(), history.ListOptions{
		UserID: s.user,
		Kind:   history.Kind(r.URL.Query().Get("type")),
		Limit:  limit,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("list history")
		s.sendError(w, http.StatusInternalServerError, "history unavailable")
		return
	}

	items := make([]historyItem, 0, len(recs))
	for _, rec := range recs {
		items = append(items, historyItem{
			ID:          rec.ID,
			Type:        rec.Kind,
			Title:       rec.Title,
			Language:    rec.Language,
			CodePreview: source.Truncate(rec.Input, previewLength),
			Score:       rec.Score,
			CreatedAt:   rec.CreatedAt,
		})
	}
	s.sendJSON(w, http.StatusOK, items)
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.sendError(w, http.StatusNotFound, "Report not found")
		return
	}
	rec, err := s.store.Get(r.Context(), s.user, chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, history.ErrNotFound):
		s.sendError(w, http.StatusNotFound, "Report not found")
		return
	case err != nil:
		s.logger.Error().Err(err).Msg("get history")
		s.sendError(w, http.StatusInternalServerError, "history unavailable")
		return
	}
	if len(rec.Report) == 0 {
		s.sendJSON(w, http.StatusOK, map[string]any{})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(rec.Report)
}

// decode reads a JSON body, answering 400 itself on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := r.Body
	if s.cfg.MaxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	}
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		s.sendError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

func (s *Server) sendAnalysisError(w http.ResponseWriter, err error) {
	if errors.Is(err, models.ErrUnsupportedLanguage) {
		s.sendError(w, http.StatusBadRequest, "language must be 'python' or 'c'")
		return
	}
	s.logger.Error().Err(err).Msg("analysis failed")
	s.sendError(w, http.StatusInternalServerError, "analysis failed")
}

func (s *Server) sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn().Err(err).Msg("encode response")
	}
}

func (s *Server) sendError(w http.ResponseWriter, status int, detail string) {
	s.sendJSON(w, status, map[string]string{"detail": detail})
}

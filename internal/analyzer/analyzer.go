// Package analyzer routes a snippet to its language checker and assembles
// the composite result.
package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"coderefine/internal/analyzer/detectors/clang"
	"coderefine/internal/analyzer/detectors/python"
	"coderefine/internal/config"
	"coderefine/internal/history"
	"coderefine/internal/language"
	"coderefine/internal/metrics"
	"coderefine/internal/models"
	"coderefine/internal/scoring"
	"coderefine/internal/summarizer"
)

// Checker is implemented by the Python and C checkers.
type Checker interface {
	Check(src string) models.CheckResult
	DetectorNames() []string
}

type Analyzer struct {
	checkers        map[models.Language]Checker
	scorer          *scoring.Scorer
	summarizer      summarizer.Summarizer
	annotator       *scoring.Annotator
	store           history.Store
	user            string
	metrics         *metrics.Metrics
	logger          zerolog.Logger
	workers         int
	defaultLanguage string
}

// Option customizes an Analyzer.
type Option func(*Analyzer)

// WithSummarizer attaches summaries to suggestions.
func WithSummarizer(s summarizer.Summarizer) Option {
	return func(a *Analyzer) { a.summarizer = s }
}

// WithHistory stores every report under user.
func WithHistory(store history.Store, user string) Option {
	return func(a *Analyzer) {
		a.store = store
		a.user = user
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Analyzer) { a.metrics = m }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(a *Analyzer) { a.logger = logger }
}

// NewAnalyzer builds an analyzer with the default configuration.
func NewAnalyzer(opts ...Option) *Analyzer {
	return NewAnalyzerWithConfig(config.DefaultConfig(), opts...)
}

func NewAnalyzerWithConfig(cfg *config.Config, opts ...Option) *Analyzer {
	detectorOpts := cfg.DetectorOptions()
	a := &Analyzer{
		checkers: map[models.Language]Checker{
			models.LanguagePython: python.NewChecker(detectorOpts),
			models.LanguageC:      clang.NewChecker(detectorOpts),
		},
		scorer:          scoring.NewScorer(cfg.Thresholds()),
		logger:          zerolog.Nop(),
		workers:         cfg.Analysis.MaxWorkers,
		defaultLanguage: cfg.Analysis.DefaultLanguage,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.annotator = scoring.NewAnnotator(a.summarizer, a.logger)
	if a.workers <= 0 {
		a.workers = 1
	}
	return a
}

// Request is one snippet to analyze. Language may be "python", "c", "auto"
// or empty; Filename is only used as a language hint and for reporting.
// SkipHistory keeps the report out of the history store.
type Request struct {
	Source      string
	Language    string
	Filename    string
	SkipHistory bool
}

// Analyze runs the full pipeline. The only error is
// models.ErrUnsupportedLanguage, returned before any checker runs.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*models.AnalysisResult, error) {
	tag := req.Language
	if tag == "" {
		tag = a.defaultLanguage
	}
	lang, err := language.Resolve(tag, req.Filename, req.Source)
	if err != nil {
		return nil, err
	}
	checker, ok := a.checkers[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrUnsupportedLanguage, lang)
	}

	start := time.Now()
	cr := checker.Check(req.Source)

	result := &models.AnalysisResult{
		File:                     req.Filename,
		Language:                 lang,
		StaticIssues:             nonNil(cr.StaticIssues),
		LogicIssues:              nonNil(cr.LogicIssues),
		ComplexityIssues:         nonNil(cr.ComplexityIssues),
		EstimatedTimeComplexity:  cr.Estimate.Time,
		EstimatedSpaceComplexity: cr.Estimate.Space,
		TimeEvidence:             cr.Estimate.TimeEvidence,
		SpaceEvidence:            cr.Estimate.SpaceEvidence,
		HadSyntaxError:           cr.HadSyntaxError,
	}
	if result.TimeEvidence == nil {
		result.TimeEvidence = []models.Evidence{}
	}
	issues := result.AllIssues()
	result.Score = a.scorer.Score(issues, result.EstimatedTimeComplexity, result.EstimatedSpaceComplexity, result.HadSyntaxError)
	result.Optimizations = a.annotator.Annotate(ctx, scoring.Suggest(issues, lang))

	a.metrics.ObserveAnalysis(result, time.Since(start))
	a.logger.Debug().
		Str("language", string(lang)).
		Str("file", req.Filename).
		Int("issues", len(issues)).
		Int("score", result.Score.Value).
		Dur("took", time.Since(start)).
		Msg("analysis finished")

	if a.store != nil && !req.SkipHistory {
		id, err := a.save(ctx, req.Source, result)
		a.metrics.ObserveHistorySave(err)
		if err != nil {
			a.logger.Warn().Err(err).Msg("failed to save report")
		} else {
			result.ReportID = id
		}
	}
	return result, nil
}

// AnalyzeSource is a shorthand for Analyze without a file name.
func (a *Analyzer) AnalyzeSource(ctx context.Context, src, lang string) (*models.AnalysisResult, error) {
	return a.Analyze(ctx, Request{Source: src, Language: lang})
}

// AnalyzeFiles analyzes every file with at most MaxWorkers running at once.
// Results keep the order of filenames; files that cannot be read or whose
// language is unsupported are skipped and reported in the joined error.
func (a *Analyzer) AnalyzeFiles(ctx context.Context, filenames []string, lang string) ([]*models.AnalysisResult, error) {
	results := make([]*models.AnalysisResult, len(filenames))
	errs := make([]error, len(filenames))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, filename := range filenames {
		g.Go(func() error {
			data, err := os.ReadFile(filename)
			if err != nil {
				errs[i] = fmt.Errorf("read %s: %w", filename, err)
				return nil
			}
			res, err := a.Analyze(gctx, Request{Source: string(data), Language: lang, Filename: filename})
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", filename, err)
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	out := make([]*models.AnalysisResult, 0, len(results))
	for _, res := range results {
		if res != nil {
			out = append(out, res)
		}
	}
	return out, errors.Join(errs...)
}

// DetectorNames lists the active detectors of one language.
func (a *Analyzer) DetectorNames(lang models.Language) []string {
	if c, ok := a.checkers[lang]; ok {
		return c.DetectorNames()
	}
	return nil
}

// Scorer exposes the label and threshold logic to report renderers.
func (a *Analyzer) Scorer() *scoring.Scorer {
	return a.scorer
}

func (a *Analyzer) save(ctx context.Context, src string, result *models.AnalysisResult) (string, error) {
	report, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	score := result.Score.Value
	return a.store.Save(ctx, history.Record{
		UserID:   a.user,
		Kind:     history.KindReview,
		Language: string(result.Language),
		Input:    src,
		Output:   Digest(result),
		Report:   report,
		Score:    &score,
	})
}

func nonNil(issues []models.Issue) []models.Issue {
	if issues == nil {
		return []models.Issue{}
	}
	return issues
}

package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"coderefine/internal/analyzer"
	"coderefine/internal/config"
	"coderefine/internal/history"
	"coderefine/internal/logging"
	"coderefine/internal/metrics"
	"coderefine/internal/summarizer"
	"coderefine/internal/watcher"
)

// app holds what every command builds from the configuration.
type app struct {
	cfg      *config.Config
	logger   zerolog.Logger
	closeLog func() error
	store    history.Store
	metrics  *metrics.Metrics
	summary  summarizer.Summarizer
}

type appOptions struct {
	history   bool
	summaries bool
	metrics   bool
}

func newApp(opts appOptions) (*app, error) {
	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if userFlag != "" {
		cfg.History.User = userFlag
	}

	logger, closeLog, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger, closeLog: closeLog}

	if opts.history || cfg.History.Enabled {
		store, err := history.Open(cfg.History.Driver, cfg.History.Path, logger)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("opening history: %w", err)
		}
		a.store = store
	}

	if opts.summaries || cfg.Summarizer.Enabled {
		client, err := summarizer.NewAzureClient(summarizer.AzureConfig{
			Endpoint:   cfg.Summarizer.Endpoint,
			APIKey:     cfg.Summarizer.APIKey,
			Deployment: cfg.Summarizer.Deployment,
			Timeout:    cfg.Summarizer.Timeout,
			MaxBullets: cfg.Summarizer.MaxBullets,
		}, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("summaries disabled")
		} else {
			a.summary = client
		}
	}

	if opts.metrics {
		a.metrics = metrics.New()
	}
	return a, nil
}

// analyzer wires the optional collaborators into a fresh engine.
func (a *app) analyzer() *analyzer.Analyzer {
	opts := []analyzer.Option{analyzer.WithLogger(a.logger)}
	if a.summary != nil {
		opts = append(opts, analyzer.WithSummarizer(a.summary))
	}
	if a.store != nil {
		opts = append(opts, analyzer.WithHistory(a.store, a.cfg.History.User))
	}
	if a.metrics != nil {
		opts = append(opts, analyzer.WithMetrics(a.metrics))
	}
	return analyzer.NewAnalyzerWithConfig(a.cfg, opts...)
}

func (a *app) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn().Err(err).Msg("closing history")
		}
	}
	if a.closeLog != nil {
		_ = a.closeLog()
	}
}

// readInput returns the contents of path, or stdin for "-".
func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

// collectSourceFiles recursively finds all .py and .c files in the given path
func collectSourceFiles(path string) ([]string, error) {
	var files []string

	err := filepath.Walk(path, func(filePath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if filePath != path && watcher.SkipDir(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		// Explicitly named files are analyzed whatever their extension.
		if filePath == path || watcher.IsSourceFile(filePath) {
			files = append(files, filePath)
		}
		return nil
	})

	return files, err
}

func writeReportToFile(report, filePath string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	return os.WriteFile(filePath, []byte(report), 0644)
}

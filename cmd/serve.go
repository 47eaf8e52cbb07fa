package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"coderefine/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analyzer over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")
	serveCmd.Flags().BoolVar(&summariesFlag, "summaries", false, "Attach short summaries to suggestions")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp(appOptions{history: true, summaries: summariesFlag, metrics: true})
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := a.cfg.Server
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}
	srv := server.New(cfg, a.analyzer(),
		server.WithHistory(a.store, a.cfg.History.User),
		server.WithMetrics(a.metrics),
		server.WithLogger(a.logger),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

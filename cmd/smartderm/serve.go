package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"smartderm/internal/feedback"
	"smartderm/internal/httpapi"
	"smartderm/internal/session"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Run the HTTP API",
		Example: "  smartderm serve --addr :8080\n  smartderm serve --config smartderm.yaml",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address, e.g. :8080 (defaults SMARTDERM_ADDR or :8080)")
	return cmd
}

// serve runs the API until ctx is done, then shuts down gracefully.
func (a *app) serve(ctx context.Context) error {
	cfg := a.cfg
	logger := zerolog.New(a.errOut).Level(parseLogLevel(cfg.LogLevel)).With().Timestamp().Logger()
	httpapi.SetLogger(logger)

	if cfg.GenAI.APIKey == "" {
		logger.Warn().Msg("no GenAI API key configured; analysis requests will fail")
	}
	svc := newService(cfg, logger, httpapi.MetricsPublisher{})

	var store feedback.Store
	if cfg.EnableDB {
		pg, err := feedback.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("feedback store: %w", err)
		}
		defer pg.Close()
		store = pg
		logger.Info().Msg("feedback stored in postgres")
	}

	httpapi.SetMaxUploadBytes(int64(cfg.MaxUploadMB) << 20)
	httpapi.SetRequestTimeout(time.Duration(cfg.RequestTimeoutSeconds) * time.Second)
	httpapi.SetCORSOptions(len(cfg.CORSOrigins) > 0, cfg.CORSOrigins, nil, nil)
	httpapi.SetStaticDir(cfg.StaticDir)

	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewMux(svc, store, session.NewTracker()),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Addr).Msg("smartderm listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	// Graceful shutdown: abort in-flight upstream calls, then drain.
	cancelBase()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown error")
	}
	return nil
}

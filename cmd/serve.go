package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/okian/perfscore/internal/adapters/artifact"
	"github.com/okian/perfscore/internal/adapters/http/api"
	"github.com/okian/perfscore/internal/adapters/http/site"
	"github.com/okian/perfscore/internal/adapters/http/swagger"
	service "github.com/okian/perfscore/internal/app"
	"github.com/okian/perfscore/internal/config"
	"github.com/okian/perfscore/internal/domain/scoring"
	"github.com/okian/perfscore/pkg/logger"
	"github.com/spf13/cobra"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func newServeCmd(flags *rootFlags, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the prediction form and JSON API.",
		Long: `Load the model artifact once and serve the prediction form.

The process exits with status 1 before listening if the artifact is missing.

Examples:
  perfscore serve --model employee_performance_model.json
  PERFSCORE_ADDR=:9000 perfscore serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), flags, stdout, stderr)
		},
	}
}

// newService builds the prediction service for the loaded model.
func newService(cfg *config.Config, m *artifact.Model) (*service.Service, error) {
	formatter, err := scoring.NewFormatter(cfg.DisplayLocale)
	if err != nil {
		return nil, err
	}
	return service.New(
		service.WithPredictor(m),
		service.WithCacheSize(cfg.PredictionCacheSize),
		service.WithFormatter(formatter),
		service.WithLogger(logger.Named("service")),
	), nil
}

// newHandler wires every route onto one mux.
func newHandler(ctx context.Context, cfg *config.Config, svc *service.Service, m *artifact.Model) http.Handler {
	mux := http.NewServeMux()

	limiter := api.NewLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	// Register API docs under /api-docs
	swagger.Register(ctx, mux)

	apiServer := api.NewServer(svc, svc, m, api.WithRateLimiter(limiter))
	apiServer.Register(ctx, mux)

	site.Register(ctx, mux, svc, site.WithLimiter(limiter), site.WithLogger(logger.Named("site")))

	return api.RequestIDMiddleware(mux)
}

func runServe(ctx context.Context, flags *rootFlags, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(ctx, flags)
	if err != nil {
		return err
	}
	if err := initLogging(cfg, stdout); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	loggerInstance := logger.Get()

	m, err := loadModel(ctx, cfg, stderr)
	if err != nil {
		return err
	}
	svc, err := newService(cfg, m)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, cfg, svc, m),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or a listener failure
	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			return &exitError{code: 1, err: err}
		}
	}
	loggerInstance.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped", logger.Any("stats", svc.GetStats()))
	return nil
}

package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"storefront/internal/adapter/http/routes"
	"storefront/internal/adapter/logger"
	"storefront/internal/adapter/session"
	"storefront/internal/adapter/telemetry"
	"storefront/pkg/config"
)

const shutdownTimeout = 10 * time.Second

// StartServer opens the database and session store, serves the API and
// blocks until ctx is cancelled, then drains in-flight requests.
func StartServer(ctx context.Context, cfg *config.AppConfig, log *logger.Logger, tel *telemetry.Container) error {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := OpenDatabase(ctx, cfg.Database)
	if err != nil {
		return errors.Wrap(err, "open database")
	}
	defer db.Close()

	store, err := session.NewStore(ctx, cfg.Session)
	if err != nil {
		return errors.Wrap(err, "open session store")
	}
	defer store.Close()

	container := NewContainer(db, cfg, log, tel.NewTelemetryProbe(slog.Default()))

	router := routes.SetupRouterWithConfig(
		container.Handlers(),
		container.Dependencies(store, tel.AppMetrics, log),
		cfg,
	)

	slog.Info("Server starting",
		"port", cfg.HTTP.Port,
		"environment", cfg.Env,
		"database", db.System,
		"session_store", cfg.Session.Store,
		"rate_limit_enabled", cfg.RateLimit.Enabled,
		"https_enforced", cfg.HTTP.EnforceHTTPS)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "server failed to start")
	case <-ctx.Done():
	}

	slog.Info("Server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

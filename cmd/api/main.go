// Command api serves the loaded earthquakes table over HTTP:
// GET /earthquakes with optional time, depth, magnitude, longitude, and
// latitude range parameters, plus /healthz, /readyz, and /metrics.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/quake-data-loader/internal/adapter/httpadapter"
	"github.com/couchcryptid/quake-data-loader/internal/adapter/postgres"
	"github.com/couchcryptid/quake-data-loader/internal/config"
	"github.com/couchcryptid/quake-data-loader/internal/observability"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	catalog, err := postgres.OpenCatalog(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("error opening database", "error", err)
		os.Exit(1)
	}
	defer catalog.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := httpadapter.NewServer(cfg.HTTPAddr, catalog, metrics, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}

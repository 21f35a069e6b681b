// Command loader recreates the earthquakes table and fills it from a USGS
// earthquake CSV export. Settings come from the environment (and an optional
// .env file); see internal/config.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/couchcryptid/quake-data-loader/internal/adapter/csvfile"
	kafkaadapter "github.com/couchcryptid/quake-data-loader/internal/adapter/kafka"
	"github.com/couchcryptid/quake-data-loader/internal/adapter/postgres"
	"github.com/couchcryptid/quake-data-loader/internal/config"
	"github.com/couchcryptid/quake-data-loader/internal/loader"
	"github.com/couchcryptid/quake-data-loader/internal/observability"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/joho/godotenv"
)

func main() {
	os.Exit(run())
}

func run() int {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	var publisher loader.Publisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("kafka publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	connector := loader.ConnectFunc(func(ctx context.Context, dsn string) (loader.Store, error) {
		return postgres.Connect(ctx, dsn, logger)
	})
	l := loader.New(connector, csvfile.NewReader(), publisher, logger, metrics, nil)

	_, loadErr := l.Load(context.Background(), cfg.DatabaseURL, cfg.CSVPath)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	if cfg.PushgatewayURL != "" {
		pusher, err := observability.NewPusher(cfg.PushgatewayURL, cfg.MetricsJob, metrics)
		if err == nil {
			err = pusher.Push(ctx)
		}
		if err != nil {
			logger.Warn("metrics push failed", "error", err)
		}
	}

	if loadErr != nil {
		return 1
	}
	return 0
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDSN = "postgres://loader:secret@db:5432/quakes?sslmode=require"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultDatabaseURL, cfg.DatabaseURL)
	assert.Equal(t, "data/earthquakes.csv", cfg.CSVPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.KafkaEnabled)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "loaded-earthquakes", cfg.KafkaTopic)
	assert.Equal(t, ":8000", cfg.HTTPAddr)
	assert.Empty(t, cfg.PushgatewayURL)
	assert.Equal(t, "quake-loader", cfg.MetricsJob)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", testDSN)
	t.Setenv("CSV_PATH", "/data/all_month.csv")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_TOPIC", "quakes")
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("PUSHGATEWAY_URL", "http://pushgateway:9091")
	t.Setenv("METRICS_JOB", "nightly-quakes")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, testDSN, cfg.DatabaseURL)
	assert.Equal(t, "/data/all_month.csv", cfg.CSVPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "quakes", cfg.KafkaTopic)
	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, "http://pushgateway:9091", cfg.PushgatewayURL)
	assert.Equal(t, "nightly-quakes", cfg.MetricsJob)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_KafkaEnabledWithoutBrokers(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestLoad_KafkaExplicitlyDisabled(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker1:9092")
	t.Setenv("KAFKA_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled)
}

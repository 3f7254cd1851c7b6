package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  dsn: postgres://localhost/cashback
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 3, cfg.Database.MaxTxRetries)
	assert.Equal(t, "./migrations", cfg.Database.MigrationsPath)
	assert.Equal(t, "info", cfg.LogConfig.LogLevel)
	assert.Equal(t, "cashback-entry-events", cfg.KafkaService.EntryTopic)
	assert.Equal(t, "rate-suggestion-events", cfg.KafkaService.SuggestionTopic)
	assert.Equal(t, 5, cfg.RateLimits.EntriesPerWindow)
	assert.Equal(t, 10, cfg.RateLimits.SuggestionsPerWindow)
	assert.Equal(t, time.Minute, cfg.RateLimits.Window)
}

func TestLoadReadsValues(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: sqlite
  dsn: file:cashback.db
  max_tx_retries: 7
kafka-service:
  enabled: true
  host: kafka
  port: "9092"
rate_limits:
  window: 30s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 7, cfg.Database.MaxTxRetries)
	assert.True(t, cfg.KafkaService.Enabled)
	assert.Equal(t, []string{"kafka:9092"}, cfg.KafkaService.Brokers())
	assert.Equal(t, 30*time.Second, cfg.RateLimits.Window)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, `
database:
  dsn: postgres://localhost/cashback
`)
	t.Setenv("CASHBACK_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogConfig.LogLevel)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "log_config:\n  log_level: info\n"))
	assert.ErrorContains(t, err, "dsn is required")

	_, err = Load(writeConfig(t, "database:\n  driver: mysql\n  dsn: x\n"))
	assert.ErrorContains(t, err, "unsupported database driver")
}

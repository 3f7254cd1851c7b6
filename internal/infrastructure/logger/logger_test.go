package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/LavaJover/shvark-cashback-service/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, config.LogConfig{LogLevel: "warn", LogFormat: "json"})

	log.Info("dropped")
	log.Warn("kept", "entry_id", "e1")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kept", line["msg"])
	assert.Equal(t, "e1", line["entry_id"])
	assert.Equal(t, "cashback-service", line["service"])
}

func TestNewLoggerText(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, config.LogConfig{LogLevel: "debug", LogFormat: "text"})
	log.Debug("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("bogus"))
}

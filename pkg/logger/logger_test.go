package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), "level %q", tt.in)
	}
}

func TestNewWithWriter_TextFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info", "text")

	log.Info("catalog loaded", "items", 3)
	out := buf.String()
	assert.Contains(t, out, "msg=\"catalog loaded\"")
	assert.Contains(t, out, "items=3")

	// Below-threshold records are dropped.
	buf.Reset()
	log.Debug("noise")
	assert.Empty(t, buf.String())
}

func TestNewWithWriter_JSONFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewWithWriter(&buf, "debug", "json")

	log.Debug("check complete", "drops", 1)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "check complete", record["msg"])
	assert.Equal(t, float64(1), record["drops"])
}

func TestNop(t *testing.T) {
	t.Parallel()

	log := Nop()
	log.Error("should vanish")
	assert.False(t, log.Enabled(t.Context(), slog.LevelError))
}

package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), "level %q", tt.in)
	}
}

func TestSetupJSON(t *testing.T) {
	var buf bytes.Buffer
	Setup(&buf, "info", "json")
	t.Cleanup(func() { Setup(&bytes.Buffer{}, "info", "text") })

	Info("patched", Step("patch-vite-config"), Err(errors.New("boom")))
	Debug("hidden")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "patched", rec["msg"])
	assert.Equal(t, "patch-vite-config", rec[KeyStep])
	assert.Equal(t, "boom", rec[KeyError])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestSetupText(t *testing.T) {
	var buf bytes.Buffer
	Setup(&buf, "debug", "text")
	t.Cleanup(func() { Setup(&bytes.Buffer{}, "info", "text") })

	Debug("visible", Path("/tmp/x"))
	assert.Contains(t, buf.String(), "msg=visible")
	assert.Contains(t, buf.String(), "path=/tmp/x")
}

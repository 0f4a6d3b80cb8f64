package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"DEBUG": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNewWithWriterFormats(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewWithWriter(&buf, "warn", true)
	log.Info("hidden")
	log.Warn("shown", "component", "test")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "test", rec["component"])

	buf.Reset()
	NewWithWriter(&buf, "info", false).Info("plain")
	assert.Contains(t, buf.String(), "msg=plain")
}

func TestTruncateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", truncateString("short", 50))
	assert.Equal(t, "...", truncateString("abcdef", 2))
	assert.Equal(t, "abcd...", truncateString("abcdefghij", 7))

	out := truncateString(strings.Repeat("é", 10), 8)
	assert.True(t, utf8.ValidString(out), out)
	assert.LessOrEqual(t, len(out), 8)
}

func TestGocronLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := NewGocronLogger(NewWithWriter(&buf, "debug", false))
	l.Debug("tick", "job", "log_stats")
	l.Error("job failed", "job", "sql_maintenance")

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG msg=tick component=gocron job=log_stats")
	assert.Contains(t, out, "level=ERROR msg=\"job failed\" component=gocron job=sql_maintenance")
}

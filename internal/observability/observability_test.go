package observability

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(level LogLevel) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewLogger(LoggerConfig{
		Level:   level,
		Output:  &buf,
		Service: "test-service",
		Version: "1.0.0",
	}), &buf
}

func TestLogger(t *testing.T) {
	logger, buf := newTestLogger(DebugLevel)

	logger.InfoWithFields("test message", nil)

	var entry LogEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "test message", entry.Message)
	assert.Equal(t, "INFO", entry.Level)
	assert.Equal(t, "test-service", entry.Service)
	assert.Contains(t, entry.Caller, "observability_test.go")
}

func TestLoggerWithFields(t *testing.T) {
	logger, buf := newTestLogger(InfoLevel)

	logger.WithField("repository", "tessdata").InfoWithFields("tree listed", map[string]interface{}{
		"entries": 3,
	})

	output := buf.String()
	assert.Contains(t, output, `"repository":"tessdata"`)
	assert.Contains(t, output, `"entries":3`)
}

func TestLoggerWithFieldsDoesNotLeak(t *testing.T) {
	logger, buf := newTestLogger(InfoLevel)

	_ = logger.WithField("lang", "eng")
	logger.InfoWithFields("plain", nil)

	assert.NotContains(t, buf.String(), "lang")
}

func TestLoggerLevelFilter(t *testing.T) {
	logger, buf := newTestLogger(WarnLevel)

	logger.DebugWithFields("hidden", nil)
	logger.InfoWithFields("hidden", nil)
	logger.WarnWithFields("shown", map[string]interface{}{"n": 1})
	logger.ErrorWithFields("failed", map[string]interface{}{"code": "TDL1003"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"level":"WARN"`)
	assert.Contains(t, lines[1], `"level":"ERROR"`)
	assert.Contains(t, lines[1], `"code":"TDL1003"`)
}

func TestLogLevelFromString(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"debug", DebugLevel},
		{"INFO", InfoLevel},
		{"warn", WarnLevel},
		{"warning", WarnLevel},
		{"error", ErrorLevel},
		{"bogus", WarnLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, LogLevelFromString(tt.input), tt.input)
	}
}

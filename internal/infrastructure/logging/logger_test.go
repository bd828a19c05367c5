package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNewLogger_AddsContextValues(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{
		Level:       "debug",
		Format:      "json",
		Output:      &buf,
		ServiceName: "kanban-board",
		Environment: "test",
	})

	ctx := WithViewerID(WithRequestID(context.Background(), "req-1"), "viewer-1")
	logger.InfoContext(ctx, "board computed", "groups", 3)

	entry := decodeLine(t, &buf)
	assert.Equal(t, "board computed", entry["msg"])
	assert.Equal(t, "kanban-board", entry["service"])
	assert.Equal(t, "test", entry["environment"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "viewer-1", entry["viewer_id"])
	assert.EqualValues(t, 3, entry["groups"])
}

func TestNewLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Level: "warn", Output: &buf})

	logger.Info("hidden")
	assert.Zero(t, buf.Len())

	logger.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestHTTPRequestLogger_LevelByStatus(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{status: 200, level: "INFO"},
		{status: 404, level: "WARN"},
		{status: 502, level: "ERROR"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		l := &HTTPRequestLogger{Logger: NewLogger(Config{Output: &buf})}

		l.LogRequest(context.Background(), RequestRecord{
			Method:     "GET",
			Path:       "/api/v1/board",
			StatusCode: tt.status,
			Duration:   5 * time.Millisecond,
		})

		entry := decodeLine(t, &buf)
		assert.Equal(t, tt.level, entry["level"])
		assert.EqualValues(t, tt.status, entry["status_code"])
	}
}

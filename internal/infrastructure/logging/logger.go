package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// RequestIDKey is the context key for request IDs
	RequestIDKey contextKey = "request_id"
	// ViewerIDKey is the context key for authenticated viewer IDs
	ViewerIDKey contextKey = "viewer_id"
)

// Config holds logger configuration
type Config struct {
	Level       string // debug, info, warn, error
	Format      string // json, text
	Output      io.Writer
	AddSource   bool
	ServiceName string
	Environment string
}

// DefaultConfig returns a default logger configuration
func DefaultConfig() Config {
	return Config{
		Level:       "info",
		Format:      "json",
		Output:      os.Stdout,
		ServiceName: "kanban-board",
		Environment: "development",
	}
}

// ParseLevel maps a level name to a slog level. Unknown names are info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a structured logger that stamps every record with the
// service metadata and any request or viewer ID carried by the context.
func NewLogger(cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     ParseLevel(cfg.Level),
		AddSource: cfg.AddSource,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.String(a.Key, a.Value.Time().UTC().Format(time.RFC3339Nano))
			}
			return a
		},
	}

	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(output, opts)
	} else {
		handler = slog.NewJSONHandler(output, opts)
	}

	handler = handler.WithAttrs([]slog.Attr{
		slog.String("service", cfg.ServiceName),
		slog.String("environment", cfg.Environment),
	})

	return slog.New(&contextHandler{handler: handler})
}

// contextHandler copies request-scoped values from the context onto records.
type contextHandler struct {
	handler slog.Handler
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		if requestID := GetRequestID(ctx); requestID != "" {
			r.AddAttrs(slog.String(string(RequestIDKey), requestID))
		}
		if viewerID := GetViewerID(ctx); viewerID != "" {
			r.AddAttrs(slog.String(string(ViewerIDKey), viewerID))
		}
	}
	return h.handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{handler: h.handler.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{handler: h.handler.WithGroup(name)}
}

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// WithViewerID adds a viewer ID to the context
func WithViewerID(ctx context.Context, viewerID string) context.Context {
	return context.WithValue(ctx, ViewerIDKey, viewerID)
}

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	requestID, _ := ctx.Value(RequestIDKey).(string)
	return requestID
}

// GetViewerID retrieves the viewer ID from context
func GetViewerID(ctx context.Context) string {
	viewerID, _ := ctx.Value(ViewerIDKey).(string)
	return viewerID
}

// LogPanic logs a recovered panic with its stack trace
func LogPanic(ctx context.Context, logger *slog.Logger, panicValue any) {
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)

	logger.ErrorContext(ctx, "panic recovered",
		"panic", panicValue,
		"stack_trace", string(buf[:n]),
	)
}

// HTTPRequestLogger logs completed HTTP requests at a level chosen by status
type HTTPRequestLogger struct {
	Logger *slog.Logger
}

// RequestRecord describes one completed HTTP request
type RequestRecord struct {
	Method       string
	Path         string
	Query        string
	StatusCode   int
	Duration     time.Duration
	BytesWritten int64
	ClientIP     string
	UserAgent    string
}

// LogRequest logs an HTTP request
func (l *HTTPRequestLogger) LogRequest(ctx context.Context, rec RequestRecord) {
	attrs := []any{
		"method", rec.Method,
		"path", rec.Path,
		"status_code", rec.StatusCode,
		"duration_ms", rec.Duration.Milliseconds(),
		"bytes_written", rec.BytesWritten,
		"client_ip", rec.ClientIP,
	}
	if rec.Query != "" {
		attrs = append(attrs, "query", rec.Query)
	}
	if rec.UserAgent != "" {
		attrs = append(attrs, "user_agent", rec.UserAgent)
	}

	switch {
	case rec.StatusCode >= 500:
		l.Logger.ErrorContext(ctx, "http request", attrs...)
	case rec.StatusCode >= 400:
		l.Logger.WarnContext(ctx, "http request", attrs...)
	default:
		l.Logger.InfoContext(ctx, "http request", attrs...)
	}
}

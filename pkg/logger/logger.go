package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
)

type ctxKey struct{}

// Logger writes one JSON object per event with the service, host, action and
// request id attached.
type Logger struct {
	service  string
	hostname string
	handler  *slog.Logger
}

func New(service string) *Logger {
	return NewWithWriter(service, os.Stdout)
}

func NewWithWriter(service string, w io.Writer) *Logger {
	hostname, _ := os.Hostname()

	handler := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	return &Logger{
		service:  service,
		hostname: hostname,
		handler:  handler,
	}
}

// Discard returns a logger that drops everything; used by tests.
func Discard() *Logger {
	return NewWithWriter("test", io.Discard)
}

func GenerateRequestID() string {
	return uuid.NewString()
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, requestID)
}

func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return id
	}
	return ""
}

func (l *Logger) Info(action, requestID, message string, fields map[string]any) {
	l.log(slog.LevelInfo, action, requestID, message, nil, fields)
}

func (l *Logger) Debug(action, requestID, message string, fields map[string]any) {
	l.log(slog.LevelDebug, action, requestID, message, nil, fields)
}

func (l *Logger) Warn(action, requestID, message string, fields map[string]any) {
	l.log(slog.LevelWarn, action, requestID, message, nil, fields)
}

func (l *Logger) Error(action, requestID, message string, err error, fields map[string]any) {
	l.log(slog.LevelError, action, requestID, message, err, fields)
}

func (l *Logger) log(level slog.Level, action, requestID, message string, err error, fields map[string]any) {
	attrs := []slog.Attr{
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
		slog.String("service", l.service),
		slog.String("hostname", l.hostname),
		slog.String("action", action),
		slog.String("request_id", requestID),
	}
	if err != nil {
		attrs = append(attrs, slog.Group("error", slog.String("msg", err.Error())))
	}
	if len(fields) > 0 {
		details := make([]any, 0, len(fields))
		for k, v := range fields {
			details = append(details, slog.Any(k, v))
		}
		attrs = append(attrs, slog.Group("details", details...))
	}
	l.handler.LogAttrs(context.Background(), level, message, attrs...)
}

package infrastructure

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// GenerateTraceID returns a fresh UUID v4 trace ID
func GenerateTraceID() string {
	return uuid.New().String()
}

// EnsureTraceID returns ctx carrying a trace ID. Report runs that did not
// come through the HTTP middleware (the CLI) get a generated one, so every
// log line of a run shares it.
func EnsureTraceID(ctx context.Context) context.Context {
	if GetTraceID(ctx) == "" {
		return WithTraceID(ctx, GenerateTraceID())
	}
	return ctx
}

// LoggerWithContext scopes base to the trace ID in ctx. A nil base uses the
// global logger.
func LoggerWithContext(ctx context.Context, base *slog.Logger) *slog.Logger {
	if base == nil {
		base = GetLogger()
	}
	if traceID := GetTraceID(ctx); traceID != "" {
		return base.With(slog.String(traceIDKey, traceID))
	}
	return base
}

// WithComponent tags logger with the component that owns it
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = GetLogger()
	}
	return logger.With(slog.String("component", component))
}

package infrastructure

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// GenerateRunID creates a new unique run ID using UUID v4.
// A run ID doubles as the trace_id of every log record the run emits.
func GenerateRunID() string {
	return uuid.New().String()
}

// ContextWithRunID creates a new context carrying a freshly generated run ID
func ContextWithRunID(ctx context.Context) (context.Context, string) {
	id := GenerateRunID()
	return WithTraceID(ctx, id), id
}

// EnsureTraceID ensures the context has a trace ID, generating one if needed
func EnsureTraceID(ctx context.Context) context.Context {
	if GetTraceID(ctx) == "" {
		ctx, _ = ContextWithRunID(ctx)
	}
	return ctx
}

// LoggerWithContext returns a logger that includes the trace ID from context.
// A nil base falls back to the global logger.
func LoggerWithContext(ctx context.Context, base *slog.Logger) *slog.Logger {
	logger := base
	if logger == nil {
		logger = GetLogger()
	}

	if traceID := GetTraceID(ctx); traceID != "" {
		logger = logger.With("trace_id", traceID)
	}

	return logger
}

// WithComponent creates a logger with a component field
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = GetLogger()
	}
	return logger.With("component", component)
}

// WithError creates a logger with an error field
func WithError(logger *slog.Logger, err error) *slog.Logger {
	if err == nil {
		return logger
	}
	return logger.With("error", err.Error())
}

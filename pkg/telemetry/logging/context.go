package logging

import (
	"context"
	"log/slog"
)

// Context keys for common log fields.
type contextKey string

const (
	// RunIDKey is the context key for batch run IDs.
	RunIDKey contextKey = "run_id"

	// RequestIDKey is the context key for HTTP request IDs.
	RequestIDKey contextKey = "request_id"

	// LineKey is the context key for the 1-based index of the line being
	// processed.
	LineKey contextKey = "line"

	// GrammarKey is the context key for the grammar version in use.
	GrammarKey contextKey = "grammar"
)

// WithRunID adds a run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// GetRunID retrieves the run ID from the context.
func GetRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(RunIDKey).(string); ok {
		return runID
	}
	return ""
}

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// WithLine adds a line index to the context.
func WithLine(ctx context.Context, line int) context.Context {
	return context.WithValue(ctx, LineKey, line)
}

// GetLine retrieves the line index from the context, or 0.
func GetLine(ctx context.Context) int {
	if line, ok := ctx.Value(LineKey).(int); ok {
		return line
	}
	return 0
}

// WithGrammar adds a grammar version to the context.
func WithGrammar(ctx context.Context, version string) context.Context {
	return context.WithValue(ctx, GrammarKey, version)
}

// GetGrammar retrieves the grammar version from the context.
func GetGrammar(ctx context.Context) string {
	if version, ok := ctx.Value(GrammarKey).(string); ok {
		return version
	}
	return ""
}

// extractContextFields returns key-value pairs for every field set on ctx.
func extractContextFields(ctx context.Context) []any {
	var fields []any

	if runID := GetRunID(ctx); runID != "" {
		fields = append(fields, string(RunIDKey), runID)
	}
	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, string(RequestIDKey), requestID)
	}
	if line := GetLine(ctx); line != 0 {
		fields = append(fields, string(LineKey), line)
	}
	if version := GetGrammar(ctx); version != "" {
		fields = append(fields, string(GrammarKey), version)
	}

	return fields
}

// Attrs returns the context's log fields for use with a plain *slog.Logger:
//
//	slog.Default().With(logging.Attrs(ctx)...).Info("...")
func Attrs(ctx context.Context) []any {
	return extractContextFields(ctx)
}

// ContextLogger is a logger that automatically includes context fields.
type ContextLogger struct {
	logger *Logger
	ctx    context.Context
}

// NewContextLogger creates a logger that automatically includes context fields.
func NewContextLogger(logger *Logger, ctx context.Context) *ContextLogger {
	return &ContextLogger{
		logger: logger.WithContext(ctx),
		ctx:    ctx,
	}
}

// Debug logs a debug message with context fields.
func (cl *ContextLogger) Debug(msg string, args ...any) {
	cl.logger.log(cl.ctx, slog.LevelDebug, msg, args...)
}

// Info logs an info message with context fields.
func (cl *ContextLogger) Info(msg string, args ...any) {
	cl.logger.log(cl.ctx, slog.LevelInfo, msg, args...)
}

// Warn logs a warning message with context fields.
func (cl *ContextLogger) Warn(msg string, args ...any) {
	cl.logger.log(cl.ctx, slog.LevelWarn, msg, args...)
}

// Error logs an error message with context fields.
func (cl *ContextLogger) Error(msg string, args ...any) {
	cl.logger.log(cl.ctx, slog.LevelError, msg, args...)
}

// With creates a new context logger with additional fields.
func (cl *ContextLogger) With(args ...any) *ContextLogger {
	return &ContextLogger{
		logger: cl.logger.With(args...),
		ctx:    cl.ctx,
	}
}

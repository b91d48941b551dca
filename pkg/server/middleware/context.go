package middleware

import (
	"context"
	"time"

	"shimmer-hq/shimmer/pkg/telemetry/logging"
)

type startTimeKey struct{}

// WithStartTime records when the server began handling a request.
func WithStartTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, startTimeKey{}, t)
}

// GetStartTime returns the time set by WithStartTime, or the zero time.
func GetStartTime(ctx context.Context) time.Time {
	t, _ := ctx.Value(startTimeKey{}).(time.Time)
	return t
}

// GetRequestID returns the request ID stored by RequestIDMiddleware. The ID
// lives in the logging context so log lines pick it up too.
func GetRequestID(ctx context.Context) string {
	return logging.GetRequestID(ctx)
}

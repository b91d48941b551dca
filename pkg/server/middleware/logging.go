package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"shimmer-hq/shimmer/pkg/telemetry/metrics"
)

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

// newResponseWriter creates a new response writer wrapper.
func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

// WriteHeader captures the status code before writing.
func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
		rw.ResponseWriter.WriteHeader(code)
	}
}

// Write ensures WriteHeader is called if not already done.
func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// RouteFunc maps a request to a bounded metrics label.
type RouteFunc func(r *http.Request) string

// LoggingMiddleware writes one structured access log entry per request and
// records it in the HTTP metrics under the label route returns.
//
// Log format (JSON):
//
//	{
//	  "time": "2026-10-16T10:30:00Z",
//	  "level": "INFO",
//	  "msg": "request completed",
//	  "component": "server",
//	  "method": "POST",
//	  "path": "/v1/validate",
//	  "status": 200,
//	  "latency_ms": 3,
//	  "request_id": "3f0e9a9c-...",
//	  "remote_addr": "192.168.1.100:54321"
//	}
//
// Example usage:
//
//	handler = LoggingMiddleware(collector, routeOf)(handler)
func LoggingMiddleware(collector *metrics.Collector, route RouteFunc) func(http.Handler) http.Handler {
	logger := slog.Default().With("component", "server")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			startTime := time.Now()
			ctx := WithStartTime(r.Context(), startTime)

			rw := newResponseWriter(w)
			requestID := GetRequestID(ctx)

			logger.DebugContext(ctx, "request started",
				"method", r.Method,
				"path", r.URL.Path,
				"request_id", requestID,
				"remote_addr", r.RemoteAddr,
			)

			next.ServeHTTP(rw, r.WithContext(ctx))

			latency := time.Since(startTime)
			collector.RecordHTTPRequest(route(r), rw.statusCode, latency)

			logLevel := slog.LevelInfo
			if rw.statusCode >= 500 {
				logLevel = slog.LevelError
			} else if rw.statusCode >= 400 {
				logLevel = slog.LevelWarn
			}

			logger.Log(ctx, logLevel, "request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rw.statusCode,
				"latency_ms", latency.Milliseconds(),
				"request_id", requestID,
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		})
	}
}

// Package middleware provides the HTTP middleware of the Shimmer API server.
//
// The server applies, outermost first:
//
//   - RecoveryMiddleware: turns handler panics into 500 responses
//   - RequestIDMiddleware: assigns or propagates X-Request-ID
//   - LoggingMiddleware: access log and HTTP metrics
//   - BodyLimitMiddleware: enforces server.max_body_bytes
//
// Request IDs are stored with logging.WithRequestID, so any logger call that
// passes logging.Attrs(ctx) carries the request_id field.
package middleware

package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"shimmer-hq/shimmer/pkg/server/types"
)

// RecoveryMiddleware recovers from panics in HTTP handlers and answers 500.
// The panic and its stack are logged; the client only sees a generic error.
//
// Example usage:
//
//	handler = RecoveryMiddleware(handler)
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}

				slog.ErrorContext(r.Context(), "panic in handler",
					"error", err,
					"request_id", GetRequestID(r.Context()),
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				types.WriteError(w, types.NewServerError("An internal error occurred. Please try again later."))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

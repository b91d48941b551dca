package middleware

import (
	"fmt"
	"net/http"

	"shimmer-hq/shimmer/pkg/server/types"
)

// BodyLimitMiddleware rejects bodies larger than maxBytes with 413. A
// declared Content-Length over the limit is refused before reading; other
// bodies are capped with http.MaxBytesReader, so the handler sees an
// *http.MaxBytesError when it reads past the limit. A limit of zero or less
// disables the check.
func BodyLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if maxBytes <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				types.WriteError(w, types.NewTooLargeError(
					fmt.Sprintf("request body exceeds %d bytes", maxBytes)))
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// Package server provides the Shimmer HTTP API.
//
// # Basic Usage
//
//	cfg := config.GetConfig()
//	proc := processing.NewProcessor(codec,
//	    processing.WithMetrics(collector),
//	    processing.WithRecorder(rec),
//	)
//	srv := server.NewServer(cfg, proc, server.Options{Metrics: collector})
//	if err := srv.Start(ctx); err != nil {
//	    return err
//	}
//
// Start blocks until ctx is cancelled and then shuts down gracefully:
//  1. Stops accepting new connections
//  2. Waits for active requests to complete (up to server.shutdown_timeout)
//  3. Forces connection closure if the timeout is exceeded
//
// # Routes
//
//   - POST /v1/validate - validation reports
//   - POST /v1/lint - compactness scores against lint.min_score
//   - POST /v1/symbolize - ctag rewriting
//   - POST /v1/gloss - English glosses
//   - POST /v1/normalize - producer output clean-up
//   - GET /metrics - Prometheus metrics (telemetry.metrics.path)
//   - GET /health, /ready, /version - see package health
//
// Each /v1 route accepts {"line": "..."} and answers with one result, or
// {"lines": [...]} and answers with {"run_id": "...", "results": [...]} in
// input order. Validated and linted lines are written to the audit trail
// under the run ID.
//
// # Middleware Chain
//
// Requests pass through, outermost first: recovery, request ID, access log
// and metrics, body size limit (server.max_body_bytes).
package server

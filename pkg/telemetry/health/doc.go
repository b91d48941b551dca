// Package health provides liveness, readiness and version endpoints for the
// Shimmer HTTP API.
//
// # Endpoints
//
// Paths come from telemetry.health in the configuration:
//
//   - /health: liveness, always 200 while the process runs
//   - /ready: readiness, 200 when every registered check passes, 503 otherwise
//   - /version: build information and supported grammar versions
//
// # Usage
//
//	checker := health.New(cfg.Telemetry.Health.CheckTimeout)
//	checker.RegisterCheck("codec", health.CodecCheck(codec.Grammar()))
//	checker.RegisterCheck("audit", health.PingCheck(store))
//	health.Mount(mux, cfg.Telemetry.Health, checker, info)
//
// Checks run concurrently, each bounded by the checker's timeout.
package health

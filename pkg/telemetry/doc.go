// Package telemetry groups the observability packages of the Shimmer tools.
//
//   - logging: structured logging on log/slog with run and request fields
//   - metrics: Prometheus counters and histograms for codec operations
//   - health: liveness, readiness and version endpoints
//
// The command line wires them from the telemetry section of the
// configuration; library users of pkg/shimmer need none of them.
package telemetry

// Package metrics provides Prometheus metrics for the Shimmer tools.
//
// # Metrics
//
// With the default namespace "shimmer" and subsystem "codec":
//
//	shimmer_codec_lines_total{op, result}
//	shimmer_codec_line_duration_seconds{op}
//	shimmer_codec_diagnostics_total{code, severity}
//	shimmer_codec_lint_score
//	shimmer_codec_symbolize_rewrites_total
//	shimmer_codec_batch_timeouts_total
//	shimmer_codec_audit_records_total{result}
//	shimmer_codec_audit_queue_depth
//	shimmer_codec_audit_pruned_total
//	shimmer_codec_http_requests_total{route, code}
//	shimmer_codec_http_request_duration_seconds{route}
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordLine(metrics.OpLint, metrics.ResultOK, elapsed)
//	collector.RecordLintScore(result.Score)
//	http.Handle("/metrics", collector.Handler())
//
// Every Record method is safe on a nil *Collector.
package metrics

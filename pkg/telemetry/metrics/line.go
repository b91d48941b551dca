package metrics

import (
	"time"

	"shimmer-hq/shimmer/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// LineMetrics tracks metrics for codec operations on single lines.
//
// Metrics:
//   - shimmer_codec_lines_total: Lines processed by operation and result
//   - shimmer_codec_line_duration_seconds: Per-line processing time
//   - shimmer_codec_diagnostics_total: Diagnostics emitted by code and severity
//   - shimmer_codec_lint_score: Distribution of compactness scores
//   - shimmer_codec_symbolize_rewrites_total: ctag runs rewritten
//   - shimmer_codec_batch_timeouts_total: Lines that hit the per-line timeout
type LineMetrics struct {
	linesTotal       *prometheus.CounterVec
	lineDuration     *prometheus.HistogramVec
	diagnosticsTotal *prometheus.CounterVec
	lintScore        prometheus.Histogram
	rewritesTotal    prometheus.Counter
	timeoutsTotal    prometheus.Counter
}

// NewLineMetrics creates and registers line metrics with the provided registry.
func NewLineMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *LineMetrics {
	lm := &LineMetrics{
		linesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "lines_total",
				Help:      "Total number of lines processed",
			},
			[]string{"op", "result"},
		),

		lineDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "line_duration_seconds",
				Help:      "Time spent processing one line in seconds",
				// A line is a few hundred bytes; most land under 100µs.
				Buckets: prometheus.ExponentialBuckets(0.000001, 4, 10), // 1µs to 262ms
			},
			[]string{"op"},
		),

		diagnosticsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "diagnostics_total",
				Help:      "Total number of diagnostics emitted",
			},
			[]string{"code", "severity"},
		),

		lintScore: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "lint_score",
				Help:      "Compactness score of linted lines",
				Buckets:   cfg.ScoreBuckets,
			},
		),

		rewritesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "symbolize_rewrites_total",
				Help:      "Total number of ctag runs rewritten by the symbolizer",
			},
		),

		timeoutsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "batch_timeouts_total",
				Help:      "Total number of lines that exceeded the per-line timeout",
			},
		),
	}

	registry.MustRegister(
		lm.linesTotal,
		lm.lineDuration,
		lm.diagnosticsTotal,
		lm.lintScore,
		lm.rewritesTotal,
		lm.timeoutsTotal,
	)

	return lm
}

// RecordLine counts one processed line and its duration.
func (lm *LineMetrics) RecordLine(op, result string, duration time.Duration) {
	lm.linesTotal.WithLabelValues(op, result).Inc()
	lm.lineDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// RecordDiagnostic counts one diagnostic.
func (lm *LineMetrics) RecordDiagnostic(code, severity string) {
	lm.diagnosticsTotal.WithLabelValues(code, severity).Inc()
}

// ObserveScore records a lint score.
func (lm *LineMetrics) ObserveScore(score int) {
	lm.lintScore.Observe(float64(score))
}

// AddRewrites counts rewritten ctag runs.
func (lm *LineMetrics) AddRewrites(n int) {
	if n > 0 {
		lm.rewritesTotal.Add(float64(n))
	}
}

// RecordTimeout counts a line that timed out.
func (lm *LineMetrics) RecordTimeout() {
	lm.timeoutsTotal.Inc()
}

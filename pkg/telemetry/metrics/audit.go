package metrics

import (
	"shimmer-hq/shimmer/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// AuditMetrics tracks the audit trail.
//
// Metrics:
//   - shimmer_codec_audit_records_total: Records by outcome (stored, dropped, failed)
//   - shimmer_codec_audit_queue_depth: Records waiting in the async buffer
//   - shimmer_codec_audit_pruned_total: Records removed by retention
type AuditMetrics struct {
	recordsTotal *prometheus.CounterVec
	queueDepth   prometheus.Gauge
	prunedTotal  prometheus.Counter
}

// NewAuditMetrics creates and registers audit metrics with the provided registry.
func NewAuditMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *AuditMetrics {
	am := &AuditMetrics{
		recordsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "audit_records_total",
				Help:      "Total number of audit records by outcome",
			},
			[]string{"result"},
		),

		queueDepth: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "audit_queue_depth",
				Help:      "Number of audit records waiting to be written",
			},
		),

		prunedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "audit_pruned_total",
				Help:      "Total number of audit records removed by retention",
			},
		),
	}

	registry.MustRegister(am.recordsTotal, am.queueDepth, am.prunedTotal)

	return am
}

// RecordResult counts one audit record outcome.
func (am *AuditMetrics) RecordResult(result string) {
	am.recordsTotal.WithLabelValues(result).Inc()
}

// SetQueueDepth sets the async buffer depth.
func (am *AuditMetrics) SetQueueDepth(n int) {
	am.queueDepth.Set(float64(n))
}

// AddPruned counts records deleted by a retention run.
func (am *AuditMetrics) AddPruned(n int64) {
	if n > 0 {
		am.prunedTotal.Add(float64(n))
	}
}

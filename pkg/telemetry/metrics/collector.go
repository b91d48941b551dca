package metrics

import (
	"sync"
	"time"

	"shimmer-hq/shimmer/pkg/config"
	shimmerErrors "shimmer-hq/shimmer/pkg/shimmer/errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Operation names used as the "op" label.
const (
	OpValidate  = "validate"
	OpLint      = "lint"
	OpSymbolize = "symbolize"
	OpGloss     = "gloss"
	OpNormalize = "normalize"
)

// Result values used as the "result" label of lines_total.
const (
	ResultOK       = "ok"
	ResultFailed   = "failed"
	ResultTimedOut = "timed_out"
)

// Collector owns every Prometheus metric of the Shimmer tools. All Record
// methods are no-ops on a nil Collector or when metrics are disabled, so
// components can take an optional collector.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	lineMetrics  *LineMetrics
	auditMetrics *AuditMetrics
	httpMetrics  *HTTPMetrics

	// Caps the distinct values of the diagnostic "code" label.
	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a metrics collector. If registry is nil a fresh
// registry is created; the process default registry is never used so that
// tests can build as many collectors as they like.
//
// Example:
//
//	cfg := config.NewDefault().Telemetry.Metrics
//	collector := metrics.NewCollector(&cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(cfg.ScoreBuckets) == 0 {
		cfg.ScoreBuckets = append([]float64(nil), config.DefaultScoreBuckets...)
	}

	return &Collector{
		config:             cfg,
		registry:           registry,
		lineMetrics:        NewLineMetrics(cfg, registry),
		auditMetrics:       NewAuditMetrics(cfg, registry),
		httpMetrics:        NewHTTPMetrics(cfg, registry),
		cardinalityLimiter: NewCardinalityLimiter(256),
	}
}

func (c *Collector) enabled() bool {
	return c != nil && c.config.Enabled
}

// RecordLine records one processed line.
//
// Parameters:
//   - op: Operation (OpValidate, OpLint, ...)
//   - result: ResultOK, ResultFailed or ResultTimedOut
//   - duration: Time spent on the line
func (c *Collector) RecordLine(op, result string, duration time.Duration) {
	if !c.enabled() {
		return
	}

	c.lineMetrics.RecordLine(op, result, duration)
	if result == ResultTimedOut {
		c.lineMetrics.RecordTimeout()
	}
}

// RecordDiagnostics counts every diagnostic in a list.
func (c *Collector) RecordDiagnostics(list *shimmerErrors.List) {
	if !c.enabled() || list == nil {
		return
	}

	for _, d := range list.Diagnostics {
		code := string(d.Code)
		if !c.cardinalityLimiter.Allow(code) {
			code = "other"
		}
		c.lineMetrics.RecordDiagnostic(code, string(d.Severity))
	}
}

// RecordLintScore records a compactness score.
func (c *Collector) RecordLintScore(score int) {
	if !c.enabled() {
		return
	}

	c.lineMetrics.ObserveScore(score)
}

// RecordRewrites records the number of ctag runs rewritten in one line.
func (c *Collector) RecordRewrites(n int) {
	if !c.enabled() {
		return
	}

	c.lineMetrics.AddRewrites(n)
}

// RecordAuditRecord records an audit record outcome ("stored", "dropped",
// "failed").
func (c *Collector) RecordAuditRecord(result string) {
	if !c.enabled() {
		return
	}

	c.auditMetrics.RecordResult(result)
}

// SetAuditQueueDepth records the depth of the audit recorder's buffer.
func (c *Collector) SetAuditQueueDepth(n int) {
	if !c.enabled() {
		return
	}

	c.auditMetrics.SetQueueDepth(n)
}

// RecordAuditPruned records records removed by retention.
func (c *Collector) RecordAuditPruned(n int64) {
	if !c.enabled() {
		return
	}

	c.auditMetrics.AddPruned(n)
}

// RecordHTTPRequest records one HTTP API request.
func (c *Collector) RecordHTTPRequest(route string, status int, duration time.Duration) {
	if !c.enabled() {
		return
	}

	c.httpMetrics.RecordRequest(route, status, duration)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label values.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow reports whether a label value may be used: it is already known or
// the limit has not been reached.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	if _, exists := cl.current[labelSet]; exists {
		return true
	}
	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}

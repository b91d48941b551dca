package processing

import (
	"context"
	"log/slog"

	"shimmer-hq/shimmer/pkg/audit"
	"shimmer-hq/shimmer/pkg/audit/recorder"
	"shimmer-hq/shimmer/pkg/batch"
	"shimmer-hq/shimmer/pkg/shimmer"
	"shimmer-hq/shimmer/pkg/shimmer/gloss"
	"shimmer-hq/shimmer/pkg/shimmer/lint"
	"shimmer-hq/shimmer/pkg/shimmer/validator"
	"shimmer-hq/shimmer/pkg/telemetry/logging"
	"shimmer-hq/shimmer/pkg/telemetry/metrics"
)

// Processor runs codec operations on lines and records what it saw. It is
// safe for concurrent use.
type Processor struct {
	codec    *shimmer.Codec
	metrics  *metrics.Collector
	recorder *recorder.Recorder
	batch    batch.Config
	minScore int
	logger   *slog.Logger
}

// Option configures a Processor.
type Option func(*Processor)

// WithMetrics records diagnostics, scores and rewrites, and is passed on to
// the batch processors.
func WithMetrics(collector *metrics.Collector) Option {
	return func(p *Processor) {
		p.metrics = collector
	}
}

// WithRecorder writes an audit record for every validated or linted line.
func WithRecorder(r *recorder.Recorder) Option {
	return func(p *Processor) {
		p.recorder = r
	}
}

// WithBatchConfig sets the worker pool used by the batch processors.
func WithBatchConfig(cfg batch.Config) Option {
	return func(p *Processor) {
		p.batch = cfg
	}
}

// WithMinScore sets the lint threshold. Zero or less means none.
func WithMinScore(n int) Option {
	return func(p *Processor) {
		p.minScore = n
	}
}

// NewProcessor creates a processor around codec.
func NewProcessor(codec *shimmer.Codec, opts ...Option) *Processor {
	p := &Processor{
		codec:  codec,
		logger: slog.Default().With("component", "processing"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Codec returns the codec lines are processed with.
func (p *Processor) Codec() *shimmer.Codec {
	return p.codec
}

// MinScore returns the lint threshold.
func (p *Processor) MinScore() int {
	return p.minScore
}

// NewRun starts an audit run for source ("cli", "http", ...).
func (p *Processor) NewRun(source string) recorder.Run {
	return recorder.NewRun(source, p.codec.Grammar().Version)
}

// Validate checks one line.
func (p *Processor) Validate(ctx context.Context, run recorder.Run, index int, line string) *validator.Report {
	report := p.codec.Check(line)
	if report.Message != nil {
		p.metrics.RecordDiagnostics(report.Message.Diagnostics)
	}
	p.audit(ctx, run.FromReport(index, line, report))
	return report
}

// Lint scores one line against the processor's threshold. Blank lines are
// skipped and neither scored nor recorded.
func (p *Processor) Lint(ctx context.Context, run recorder.Run, index int, line string) Linted {
	if lint.Skip(line) {
		return Linted{Line: lint.Line{Line: line, OK: true}, Skipped: true}
	}

	l := p.codec.LintLine(line, p.minScore)
	p.metrics.RecordLintScore(l.Score)
	p.audit(ctx, run.FromLint(index, l, p.codec.Parse(line)))
	return Linted{Line: l}
}

// Symbolize rewrites the ctag runs of one line. A failure leaves the line
// unchanged.
func (p *Processor) Symbolize(ctx context.Context, line string) Symbolized {
	out, n, err := p.codec.Symbolizer().SafeLine(line)
	if err != nil {
		p.logger.Warn("symbolize failed, line passed through", append(logging.Attrs(ctx), "error", err)...)
		return Symbolized{Line: out, Error: err.Error()}
	}
	p.metrics.RecordRewrites(n)
	return Symbolized{Line: out, Rewrites: n}
}

// Gloss renders one line in English.
func (p *Processor) Gloss(line string) Glossed {
	return Glossed{Line: line, Gloss: p.codec.Gloss(line)}
}

// Normalize cleans up producer output and repairs look-alike action runes.
func (p *Processor) Normalize(line string) Normalized {
	out, changed := gloss.Repair(line)
	ok, codes := shimmer.Accept(p.codec.Parse(out))
	if codes == nil {
		codes = []string{}
	}
	return Normalized{Line: out, Changed: changed, Accepted: ok, Errors: codes}
}

func (p *Processor) audit(ctx context.Context, rec *audit.Record) {
	if p.recorder == nil {
		return
	}
	if err := p.recorder.Record(ctx, rec); err != nil {
		p.logger.Debug("audit record dropped", append(logging.Attrs(ctx), "error", err)...)
	}
}

package processing

import (
	"context"

	"shimmer-hq/shimmer/pkg/audit/recorder"
	"shimmer-hq/shimmer/pkg/batch"
	"shimmer-hq/shimmer/pkg/shimmer/validator"
	"shimmer-hq/shimmer/pkg/telemetry/logging"
	"shimmer-hq/shimmer/pkg/telemetry/metrics"
)

// ValidateBatch returns a batch processor validating lines under run.
func (p *Processor) ValidateBatch(run recorder.Run) *batch.Processor[*validator.Report] {
	return batch.New[*validator.Report](p.batch, metrics.OpValidate,
		func(ctx context.Context, index int, line string) (*validator.Report, error) {
			return p.Validate(runContext(ctx, run, p), run, index, line), nil
		},
		batch.WithMetrics[*validator.Report](p.metrics),
		batch.WithOutcome(func(r *validator.Report) bool { return r.OK }),
	)
}

// LintBatch returns a batch processor linting lines under run.
func (p *Processor) LintBatch(run recorder.Run) *batch.Processor[Linted] {
	return batch.New[Linted](p.batch, metrics.OpLint,
		func(ctx context.Context, index int, line string) (Linted, error) {
			return p.Lint(runContext(ctx, run, p), run, index, line), nil
		},
		batch.WithMetrics[Linted](p.metrics),
		batch.WithOutcome(func(l Linted) bool { return l.OK }),
	)
}

// SymbolizeBatch returns a batch processor symbolizing lines.
func (p *Processor) SymbolizeBatch() *batch.Processor[Symbolized] {
	return batch.New[Symbolized](p.batch, metrics.OpSymbolize,
		func(ctx context.Context, _ int, line string) (Symbolized, error) {
			return p.Symbolize(ctx, line), nil
		},
		batch.WithMetrics[Symbolized](p.metrics),
		batch.WithOutcome(func(s Symbolized) bool { return s.Error == "" }),
	)
}

// GlossBatch returns a batch processor glossing lines.
func (p *Processor) GlossBatch() *batch.Processor[Glossed] {
	return batch.New[Glossed](p.batch, metrics.OpGloss,
		func(_ context.Context, _ int, line string) (Glossed, error) {
			return p.Gloss(line), nil
		},
		batch.WithMetrics[Glossed](p.metrics),
	)
}

// NormalizeBatch returns a batch processor normalizing lines.
func (p *Processor) NormalizeBatch() *batch.Processor[Normalized] {
	return batch.New[Normalized](p.batch, metrics.OpNormalize,
		func(_ context.Context, _ int, line string) (Normalized, error) {
			return p.Normalize(line), nil
		},
		batch.WithMetrics[Normalized](p.metrics),
		batch.WithOutcome(func(n Normalized) bool { return n.Accepted }),
	)
}

func runContext(ctx context.Context, run recorder.Run, p *Processor) context.Context {
	ctx = logging.WithRunID(ctx, run.ID)
	return logging.WithGrammar(ctx, p.codec.Grammar().Version)
}

// Package processing runs Shimmer codec operations on lines for the CLI and
// the HTTP API.
//
// A Processor wraps a shimmer.Codec and adds what a single codec call does
// not do: diagnostic, score and rewrite metrics, and an audit record for
// every validated or linted line. Streams go through the ordered worker pool
// of package batch:
//
//	p := processing.NewProcessor(codec,
//		processing.WithMetrics(collector),
//		processing.WithRecorder(rec),
//		processing.WithBatchConfig(batch.FromConfig(cfg.Batch)),
//	)
//	run := p.NewRun("cli")
//	err := p.ValidateBatch(run).Stream(ctx, os.Stdin, func(r batch.Result[*validator.Report]) error {
//		return enc.Encode(r.Value)
//	})
//
// Lines processed by one invocation share a run ID, so audit queries can
// select a whole file or request.
package processing

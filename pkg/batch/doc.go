// Package batch runs a per-line function over a stream of lines with a
// bounded pool of workers.
//
// Results are re-sequenced by input index, so the caller always sees them
// in input order no matter which worker finished first:
//
//	p := batch.New(batch.FromConfig(cfg.Batch), metrics.OpValidate,
//		func(ctx context.Context, i int, line string) (*validator.Report, error) {
//			return codec.Check(line), nil
//		})
//	err := p.Stream(ctx, os.Stdin, func(r batch.Result[*validator.Report]) error {
//		return enc.Encode(r.Value)
//	})
//
// A line that runs past the configured line timeout produces a Result with
// TimedOut set instead of holding up the lines behind it. Cancelling the
// context stops reading and returns the context's error.
package batch

// Package recorder writes audit records asynchronously.
//
// Callers build records with a Run (FromReport for validated lines,
// FromLint for linted ones) and hand them to Recorder.Record, which only
// enqueues. A single worker drains the queue into an audit.Storage. Close
// flushes whatever is still queued.
//
//	rec := recorder.NewRecorder(store, recorder.FromConfig(cfg.Audit.Recorder), collector)
//	defer rec.Close()
//
//	run := recorder.NewRun("stdin", codec.Grammar().Version)
//	for i, line := range lines {
//		_ = rec.Record(ctx, run.FromReport(i, line, codec.Check(line)))
//	}
package recorder

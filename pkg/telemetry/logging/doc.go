// Package logging provides structured logging on top of log/slog.
//
// The Logger supports JSON, text and console formats and the levels debug,
// info, warn and error. Output goes to stderr unless another writer is
// configured, leaving stdout to command results.
//
// # Usage
//
//	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging, os.Stderr))
//	if err != nil {
//	    return err
//	}
//	logger.Install()
//
// Install makes the logger the slog default; long-running components derive
// their own logger from it:
//
//	log := slog.Default().With("component", "recorder")
//
// # Context fields
//
// A run ID, request ID, line index and grammar version can be attached to a
// context and are added to every record logged through *Context methods:
//
//	ctx = logging.WithRunID(ctx, runID)
//	ctx = logging.WithLine(ctx, 7)
//	logger.InfoContext(ctx, "line processed", "ok", true)
package logging

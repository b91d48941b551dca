/*
Package cli provides command-line helpers for the shimmer command.

Output Formatting:

Results are written as text, indented JSON, JSON lines or CSV:

	formatter := cli.NewFormatter(cli.FormatJSONLines)
	for _, l := range lines {
		if err := formatter.FormatTo(os.Stdout, l); err != nil {
			return err
		}
	}

Exit Status:

Commands return errors; main turns them into an exit status with ExitCode.
An ExitError with no message carries only a status, for commands whose
output already reports the failure:

	if !report.OK {
		return cli.NewExitError(1)
	}

Progress Reporting:

For inputs of known length, progress goes to stderr:

	progress := cli.NewProgressReporter(os.Stderr)
	progress.Start(len(lines))
	for each result:
		progress.Line(!result.OK)
	progress.Finish()

Signal Handling:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli

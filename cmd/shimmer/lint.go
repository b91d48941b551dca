package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"shimmer-hq/shimmer/pkg/batch"
	"shimmer-hq/shimmer/pkg/cli"
	"shimmer-hq/shimmer/pkg/processing"
	"shimmer-hq/shimmer/pkg/shimmer/lint"
	"shimmer-hq/shimmer/pkg/watch"
)

var lintFlags struct {
	file     string
	minScore int
	watch    bool
	format   string
	progress bool
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Score Shimmer lines for compactness",
	Long: `Score each non-empty input line for compactness.

Every line starts at 100 and loses points for spaces in the container,
invalid or uppercase action codes, verbose tokens and over-precise vector
values. A line without an arrow scores 0.

One result is printed per non-empty line:
  {"line": "...", "ok": true, "score": 100, "issues": []}

Exit status is 1 when any line scores below --min-score.

Examples:
  # Lint stdin
  producer | shimmer lint --min-score 80

  # Lint a file as CSV
  shimmer lint --file messages.shm --format csv

  # Re-lint whenever the file changes
  shimmer lint --file messages.shm --min-score 90 --watch`,
	Args: cobra.NoArgs,
	RunE: lintLines,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVarP(&lintFlags.file, "file", "f", "", "file of lines to lint (default stdin)")
	lintCmd.Flags().IntVar(&lintFlags.minScore, "min-score", -1, "minimum acceptable score, 0-100 (default lint.min_score)")
	lintCmd.Flags().BoolVarP(&lintFlags.watch, "watch", "w", false, "re-lint --file whenever it changes")
	lintCmd.Flags().StringVar(&lintFlags.format, "format", "jsonl", "output format: jsonl, text or csv")
	lintCmd.Flags().BoolVar(&lintFlags.progress, "progress", false, "show progress on stderr")
}

func lintLines(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(lintFlags.format, cli.FormatJSONLines, cli.FormatText, cli.FormatCSV)
	if err != nil {
		return cli.NewConfigError("--format", err.Error())
	}
	if lintFlags.minScore > 100 {
		return cli.NewConfigError("--min-score", fmt.Sprintf("must be between 0 and 100, got %d", lintFlags.minScore))
	}
	if lintFlags.watch && lintFlags.file == "" {
		return cli.NewConfigError("--watch", "requires --file")
	}

	opts := appOptions{audit: true}
	if lintFlags.minScore >= 0 {
		opts.minScore = &lintFlags.minScore
	}
	a, err := newApp(cmd, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	if lintFlags.watch {
		return watchLint(cmd, a, format)
	}

	stats, err := lintOnce(cmd, a, format)
	if err != nil {
		return cli.NewCommandError("lint", err)
	}
	if !stats.AllOK() {
		return cli.NewExitError(1)
	}
	return nil
}

// lintOnce lints the input and prints one result per non-empty line.
func lintOnce(cmd *cobra.Command, a *app, format cli.OutputFormat) (lint.Stats, error) {
	out := cmd.OutOrStdout()
	formatter := cli.NewFormatter(format)
	if format == cli.FormatCSV {
		formatter = &cli.CSVFormatter{Headers: []string{"line", "ok", "score", "issues"}}
	}

	var stats lint.Stats
	progress := cli.ProgressReporter(cli.NopProgress{})

	emit := func(res batch.Result[processing.Linted]) error {
		if res.Err != nil {
			progress.Line(true)
			slog.Warn("line not linted", "line", res.Index+1, "timed_out", res.TimedOut, "error", res.Err)
			stats.Add(lint.Line{Line: res.Line})
			return nil
		}
		progress.Line(!res.Value.Skipped && !res.Value.OK)
		if res.Value.Skipped {
			return nil
		}
		stats.Add(res.Value.Line)
		return formatter.FormatTo(out, lintRow(res.Value.Line))
	}

	run := a.processor.NewRun(sourceCLI)
	p := a.processor.LintBatch(run)

	var err error
	if lintFlags.progress {
		err = lintWithProgress(cmd, a, p, emit, func(total int) {
			progress = cli.NewProgressReporter(cmd.ErrOrStderr())
			progress.Start(total)
		})
		progress.Finish()
	} else {
		err = processLines(cmd, p, nil, lintFlags.file, emit)
	}
	if err != nil {
		return stats, err
	}

	if format == cli.FormatText {
		fmt.Fprintf(out, "%d lines, mean score %.1f, lowest %d, %d below %d\n",
			stats.Lines, stats.Mean(), stats.Lowest, stats.BelowMin, a.processor.MinScore())
	}
	return stats, nil
}

// lintWithProgress reads the whole input first so progress has a total.
func lintWithProgress(cmd *cobra.Command, a *app, p *batch.Processor[processing.Linted], emit func(batch.Result[processing.Linted]) error, start func(total int)) error {
	in, err := openInput(cmd, lintFlags.file)
	if err != nil {
		return err
	}
	defer in.Close()

	lines, err := readLines(in)
	if err != nil {
		return err
	}
	start(len(lines))
	return p.Run(commandContext(cmd), lines, emit)
}

// watchLint lints --file, then again after every change, until interrupted.
// When the --config file exists it is watched too: a change reloads the
// configuration and relints with the new grammar and threshold.
func watchLint(cmd *cobra.Command, a *app, format cli.OutputFormat) error {
	ctx, stop := cli.SetupSignalHandler(commandContext(cmd))
	defer stop()

	w, err := watch.New(watch.FromConfig(lintFlags.file, a.config.Lint))
	if err != nil {
		return cli.NewCommandError("lint", err)
	}

	var cw *watch.FileWatcher
	if cfgFile != "" {
		if _, err := os.Stat(cfgFile); err == nil {
			if cw, err = watch.New(watch.FromConfig(cfgFile, a.config.Lint)); err != nil {
				w.Close()
				return cli.NewCommandError("lint", err)
			}
		}
	}

	// Both watchers call back on their own goroutines.
	var mu sync.Mutex
	relint := func([]string) error {
		mu.Lock()
		defer mu.Unlock()
		return relintFile(cmd, a, format)
	}
	reload := func([]string) error {
		mu.Lock()
		defer mu.Unlock()
		if err := a.reload(); err != nil {
			return err
		}
		return relintFile(cmd, a, format)
	}

	if err := relint(nil); err != nil {
		w.Close()
		if cw != nil {
			cw.Close()
		}
		return cli.NewCommandError("lint", err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s for changes (Ctrl-C to stop)\n", lintFlags.file)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return w.Watch(gctx, relint) })
	if cw != nil {
		g.Go(func() error { return cw.Watch(gctx, reload) })
	}
	if err := g.Wait(); err != nil {
		return cli.NewCommandError("lint", err)
	}
	return nil
}

func relintFile(cmd *cobra.Command, a *app, format cli.OutputFormat) error {
	stats, err := lintOnce(cmd, a, format)
	if err != nil {
		return err
	}
	slog.Info("linted", "file", lintFlags.file, "lines", stats.Lines, "below_min", stats.BelowMin)
	return nil
}

// lintRow prints a scored line as JSON, text or CSV.
type lintRow lint.Line

func (r lintRow) String() string {
	status := "ok"
	if !r.OK {
		status = "LOW"
	}
	s := fmt.Sprintf("%3d %-3s %s", r.Score, status, r.Line)
	if len(r.Issues) > 0 {
		s += "  [" + strings.Join(r.Issues, ", ") + "]"
	}
	return s
}

func (r lintRow) Rows() [][]string {
	return [][]string{{r.Line, strconv.FormatBool(r.OK), strconv.Itoa(r.Score), strings.Join(r.Issues, ";")}}
}

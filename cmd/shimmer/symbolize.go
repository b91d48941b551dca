package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shimmer-hq/shimmer/pkg/batch"
	"shimmer-hq/shimmer/pkg/cli"
	"shimmer-hq/shimmer/pkg/processing"
)

var symbolizeFlags struct {
	format string
}

var symbolizeCmd = &cobra.Command{
	Use:   "symbolize [FILE]",
	Short: "Rewrite verbose ctag runs with symbols",
	Long: `Rewrite ctag runs such as "ctag.status:chunked_wav_infinite_loops"
into their symbolic form ("ctag.σ:⟳"). Text outside ctag runs is kept.

One output line is written per input line and blank lines are preserved.
A line that cannot be rewritten is written unchanged.

Examples:
  # Rewrite a file
  shimmer symbolize notes.txt > notes.sym.txt

  # Report rewrite counts as JSON lines
  cat notes.txt | shimmer symbolize --format jsonl`,
	Args: cobra.MaximumNArgs(1),
	RunE: symbolizeLines,
}

func init() {
	rootCmd.AddCommand(symbolizeCmd)

	symbolizeCmd.Flags().StringVar(&symbolizeFlags.format, "format", "text", "output format: text or jsonl")
}

func symbolizeLines(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(symbolizeFlags.format, cli.FormatText, cli.FormatJSONLines)
	if err != nil {
		return cli.NewConfigError("--format", err.Error())
	}

	a, err := newApp(cmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	var file string
	if len(args) == 1 {
		file = args[0]
	}

	out := cmd.OutOrStdout()
	formatter := cli.NewFormatter(format)
	emit := func(res batch.Result[processing.Symbolized]) error {
		value := res.Value
		if res.Err != nil {
			value = processing.Symbolized{Line: res.Line, Error: res.Err.Error()}
		}
		if format == cli.FormatText {
			_, err := fmt.Fprintln(out, value.Line)
			return err
		}
		return formatter.FormatTo(out, value)
	}

	if err := processLines(cmd, a.processor.SymbolizeBatch(), nil, file, emit); err != nil {
		return cli.NewCommandError("symbolize", err)
	}
	return nil
}

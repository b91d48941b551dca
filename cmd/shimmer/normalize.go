package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"shimmer-hq/shimmer/pkg/batch"
	"shimmer-hq/shimmer/pkg/cli"
	"shimmer-hq/shimmer/pkg/processing"
	"shimmer-hq/shimmer/pkg/shimmer/gloss"
)

var normalizeFlags struct {
	file    string
	format  string
	extract bool
	strict  bool
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize [TEXT...]",
	Short: "Clean up producer output into strict Shimmer",
	Long: `Normalize producer output: strip code fences, turn "->" and other
arrow variants into "→", remove spaces from the container and repair
look-alike action runes (Greek or Cyrillic letters).

With --extract the whole input is treated as one response and the first
line that looks like a message is normalized.

Examples:
  shimmer normalize 'AB P rn01 -> [0.5,0.5,0.5,0.5]'
  producer | shimmer normalize --extract --strict`,
	RunE: normalizeLines,
}

func init() {
	rootCmd.AddCommand(normalizeCmd)

	normalizeCmd.Flags().StringVarP(&normalizeFlags.file, "file", "f", "", "file of lines to normalize (default stdin)")
	normalizeCmd.Flags().StringVar(&normalizeFlags.format, "format", "text", "output format: text or jsonl")
	normalizeCmd.Flags().BoolVar(&normalizeFlags.extract, "extract", false, "normalize only the first message-like line of the whole input")
	normalizeCmd.Flags().BoolVar(&normalizeFlags.strict, "strict", false, "exit 1 when a normalized line is not accepted")
}

func normalizeLines(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(normalizeFlags.format, cli.FormatText, cli.FormatJSONLines)
	if err != nil {
		return cli.NewConfigError("--format", err.Error())
	}

	a, err := newApp(cmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	if normalizeFlags.extract && len(args) == 0 {
		text, err := readAll(cmd, normalizeFlags.file)
		if err != nil {
			return cli.NewCommandError("normalize", err)
		}
		args = []string{gloss.ExtractContainerLine(text)}
	}

	out := cmd.OutOrStdout()
	formatter := cli.NewFormatter(format)
	rejected := 0
	emit := func(res batch.Result[processing.Normalized]) error {
		if res.Err != nil {
			rejected++
			return formatter.FormatTo(out, lineError(res))
		}
		if !res.Value.Accepted && res.Line != "" {
			rejected++
		}
		if format == cli.FormatText {
			_, err := fmt.Fprintln(out, res.Value.Line)
			return err
		}
		return formatter.FormatTo(out, res.Value)
	}

	file := normalizeFlags.file
	if normalizeFlags.extract {
		file = ""
	}
	if err := processLines(cmd, a.processor.NormalizeBatch(), args, file, emit); err != nil {
		return cli.NewCommandError("normalize", err)
	}

	if normalizeFlags.strict && rejected > 0 {
		return cli.NewExitError(1)
	}
	return nil
}

func readAll(cmd *cobra.Command, path string) (string, error) {
	in, err := openInput(cmd, path)
	if err != nil {
		return "", err
	}
	defer in.Close()

	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}

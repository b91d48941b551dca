package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shimmer-hq/shimmer/pkg/batch"
	"shimmer-hq/shimmer/pkg/cli"
	"shimmer-hq/shimmer/pkg/processing"
	"shimmer-hq/shimmer/pkg/shimmer/lint"
)

var glossFlags struct {
	file   string
	format string
}

var glossCmd = &cobra.Command{
	Use:   "gloss [MESSAGE...]",
	Short: "Render Shimmer messages in English",
	Long: `Render Shimmer messages as a deterministic English gloss: routing,
action meaning, metadata, deadline, deliverables, a reading of the vector
and a one-paragraph summary.

Messages are taken from the arguments, or one per line from --file or
stdin. Blank input lines are ignored. Invalid messages are glossed as far
as they parse.

Examples:
  shimmer gloss 'ABPrn01τ300f06→[0.5,0.9,0.1,0.9,0.96]'
  shimmer gloss --format text --file messages.shm`,
	RunE: glossMessages,
}

func init() {
	rootCmd.AddCommand(glossCmd)

	glossCmd.Flags().StringVarP(&glossFlags.file, "file", "f", "", "file of messages, one per line (default stdin)")
	glossCmd.Flags().StringVar(&glossFlags.format, "format", "", "output format: json, jsonl or text (default json for one message, jsonl otherwise)")
}

func glossMessages(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(defaultFormat(glossFlags.format, args), cli.FormatJSON, cli.FormatJSONLines, cli.FormatText)
	if err != nil {
		return cli.NewConfigError("--format", err.Error())
	}

	a, err := newApp(cmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	formatter := cli.NewFormatter(format)
	emit := func(res batch.Result[processing.Glossed]) error {
		if len(args) == 0 && lint.Skip(res.Line) {
			return nil
		}
		if res.Err != nil {
			return formatter.FormatTo(out, lineError(res))
		}
		if format == cli.FormatText {
			_, err := fmt.Fprintf(out, "%s\n\t%s\n", res.Line, res.Value.Gloss.Summary)
			return err
		}
		return formatter.FormatTo(out, res.Value)
	}

	if err := processLines(cmd, a.processor.GlossBatch(), args, glossFlags.file, emit); err != nil {
		return cli.NewCommandError("gloss", err)
	}
	return nil
}

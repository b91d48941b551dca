package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"shimmer-hq/shimmer/pkg/batch"
	"shimmer-hq/shimmer/pkg/cli"
	"shimmer-hq/shimmer/pkg/shimmer/lint"
	"shimmer-hq/shimmer/pkg/shimmer/validator"
)

var validateFlags struct {
	file   string
	format string
}

var validateCmd = &cobra.Command{
	Use:   "validate [MESSAGE...]",
	Short: "Validate Shimmer messages",
	Long: `Validate Shimmer messages and print a report for each.

The report carries the parsed container (routing, action, metadata,
deadline, deliverables), the decoded vector or null, error and warning
codes and the parity digits.

Messages are taken from the arguments, or one per line from --file or
stdin. Blank input lines are ignored.

Exit status is 0 when every message is ok and 1 otherwise.

Examples:
  # Validate one message
  shimmer validate 'ABPrn01τ300f06→[0.5,0.9,0.1,0.9,0.96]'

  # Validate a file, one JSON report per line
  shimmer validate --file messages.shm

  # Human-readable summary with the 1.1 grammar
  shimmer validate --grammar 1.1 --format text --file messages.shm`,
	RunE: validateMessages,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateFlags.file, "file", "f", "", "file of messages, one per line (default stdin)")
	validateCmd.Flags().StringVar(&validateFlags.format, "format", "", "output format: json, jsonl or text (default json for one message, jsonl otherwise)")
}

func validateMessages(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(defaultFormat(validateFlags.format, args), cli.FormatJSON, cli.FormatJSONLines, cli.FormatText)
	if err != nil {
		return cli.NewConfigError("--format", err.Error())
	}

	a, err := newApp(cmd, appOptions{audit: true})
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	formatter := cli.NewFormatter(format)
	failed := 0

	emit := func(res batch.Result[*validator.Report]) error {
		if len(args) == 0 && lint.Skip(res.Line) {
			return nil
		}
		if res.Err != nil {
			failed++
			return formatter.FormatTo(out, lineError(res))
		}
		if !res.Value.OK {
			failed++
		}
		if format == cli.FormatText {
			return writeReportText(out, res.Index, res.Line, res.Value)
		}
		return formatter.FormatTo(out, res.Value)
	}

	run := a.processor.NewRun(sourceCLI)
	if err := processLines(cmd, a.processor.ValidateBatch(run), args, validateFlags.file, emit); err != nil {
		return cli.NewCommandError("validate", err)
	}

	if failed > 0 {
		return cli.NewExitError(1)
	}
	return nil
}

// writeReportText writes a one-line verdict followed by one indented line
// per diagnostic.
func writeReportText(w io.Writer, index int, line string, r *validator.Report) error {
	status := "ok"
	if !r.OK {
		status = "FAIL"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d\t%s\t%s", index+1, status, line)
	if r.Parity.T9 != nil && r.Parity.P2B != nil {
		fmt.Fprintf(&sb, "\tparity=%d/%d", *r.Parity.T9, *r.Parity.P2B)
	}
	sb.WriteByte('\n')

	for _, d := range r.Diagnostics {
		fmt.Fprintf(&sb, "\t%s %s: %s", d.Severity, d.Code, d.Message)
		if d.Suggestion != "" {
			fmt.Fprintf(&sb, " (%s)", d.Suggestion)
		}
		sb.WriteByte('\n')
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

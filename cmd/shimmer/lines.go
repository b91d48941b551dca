package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"shimmer-hq/shimmer/pkg/batch"
	"shimmer-hq/shimmer/pkg/server/types"
)

var errArgsAndFile = errors.New("pass lines as arguments or with --file, not both")

// processLines runs p over args when any are given, otherwise over the
// lines read from file (stdin when empty).
func processLines[T any](cmd *cobra.Command, p *batch.Processor[T], args []string, file string, emit func(batch.Result[T]) error) error {
	ctx := commandContext(cmd)
	if len(args) > 0 {
		if file != "" {
			return errArgsAndFile
		}
		return p.Run(ctx, args, emit)
	}

	in, err := openInput(cmd, file)
	if err != nil {
		return err
	}
	defer in.Close()

	return p.Stream(ctx, in, emit)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// lineError reports a line whose processing failed.
func lineError[T any](res batch.Result[T]) types.LineError {
	return types.LineError{
		Index:    res.Index,
		Error:    res.Err.Error(),
		TimedOut: res.TimedOut,
	}
}

// defaultFormat picks indented JSON for a single argument and JSON lines
// otherwise, unless format is set.
func defaultFormat(format string, args []string) string {
	if format != "" {
		return format
	}
	if len(args) == 1 {
		return "json"
	}
	return "jsonl"
}

// readLines reads every line of r. Length limits are applied per line by
// the batch processor.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	err := batch.ReadLines(r, func(line string) error {
		lines = append(lines, line)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return lines, nil
}

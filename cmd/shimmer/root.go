package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"shimmer-hq/shimmer/pkg/cli"
)

var (
	// Global flags
	cfgFile        string
	verbose        bool
	grammarVersion string
)

var rootCmd = &cobra.Command{
	Use:   "shimmer",
	Short: "Shimmer - codec, validator and linter for Shimmer messages",
	Long: `Shimmer parses and checks lines of the Shimmer micro-format:

  <routing><action><metadata*><τdeadline?><deliverable*>→[v0,v1,v2,v3(,v4)]

It provides:
  - Validation with range and quantization checks and parity digits
  - Compactness linting with a 0-100 score
  - Symbolization of verbose ctag runs
  - English glosses and normalization of producer output
  - An HTTP API and an audit trail of every checked line

Exit status is 0 on success, 1 when a checked line fails and 2 on usage or
configuration errors.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with the status its error maps to.
func Execute() {
	err := rootCmd.Execute()
	if err != nil && !cli.Silent(err) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.ExitCode(err))
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "shimmer.yaml", "config file path (defaults are used when missing)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().StringVar(&grammarVersion, "grammar", "", "grammar version (1.0 or 1.1), overrides grammar.version")

	rootCmd.CompletionOptions.DisableDefaultCmd = false
}

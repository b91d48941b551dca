package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"shimmer-hq/shimmer/pkg/shimmer/grammar"
	"shimmer-hq/shimmer/pkg/telemetry/health"
)

var (
	// Version is the semantic version (set by build flags)
	Version = "0.1.0"
	// GitCommit is the git commit hash (set by build flags)
	GitCommit = "unknown"
	// BuildDate is the build timestamp (set by build flags)
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print detailed version information including Git commit, build date and supported grammars.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Shimmer %s\n", Version)
		fmt.Fprintf(out, "Git Commit: %s\n", GitCommit)
		fmt.Fprintf(out, "Build Date: %s\n", BuildDate)
		fmt.Fprintf(out, "Go Version: %s\n", runtime.Version())
		fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		fmt.Fprintf(out, "Grammars: %s (default %s)\n", strings.Join(grammar.Versions(), ", "), grammar.Default.Version)
	},
}

// versionInfo is reported by the server's version endpoint.
func versionInfo(grammarVersion string) health.VersionInfo {
	return health.VersionInfo{
		Version:   Version,
		Commit:    GitCommit,
		BuildTime: BuildDate,
		GoVersion: runtime.Version(),
		Grammar:   grammarVersion,
		Grammars:  grammar.Versions(),
	}
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

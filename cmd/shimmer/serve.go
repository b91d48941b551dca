package main

import (
	"fmt"
	"log/slog"
	"net"

	"github.com/spf13/cobra"

	"shimmer-hq/shimmer/pkg/audit/retention"
	"shimmer-hq/shimmer/pkg/cli"
	"shimmer-hq/shimmer/pkg/server"
	"shimmer-hq/shimmer/pkg/telemetry/health"
)

var serveFlags struct {
	listenAddress string
	dryRun        bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Shimmer HTTP API server",
	Long: `Start the HTTP API server with the specified configuration.

Endpoints (POST, body {"line": "..."} or {"lines": [...]}):
  /v1/validate   /v1/lint   /v1/symbolize   /v1/gloss   /v1/normalize

Telemetry endpoints: /metrics, /health, /ready and /version.

When audit.enabled is set every validated or linted line is recorded and
the retention schedule (audit.retention.prune_schedule) is run with cron.
The server shuts down gracefully on SIGINT or SIGTERM.

Examples:
  # Start with default config
  shimmer serve

  # Override listen address
  shimmer serve --listen 127.0.0.1:9090

  # Validate config without starting the server
  shimmer serve --dry-run`,
	Args: cobra.NoArgs,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
	serveCmd.Flags().BoolVar(&serveFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if serveFlags.dryRun {
		if _, err := loadConfig(); err != nil {
			return err
		}
		fmt.Fprintln(out, "✓ Configuration valid")
		return nil
	}

	a, err := newApp(cmd, appOptions{metrics: true, audit: true})
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := a.config
	if serveFlags.listenAddress != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddress
	}

	ctx, stop := cli.SetupSignalHandler(commandContext(cmd))
	defer stop()

	checker := health.New(cfg.Telemetry.Health.CheckTimeout)
	checker.RegisterCheck("codec", health.CodecCheck(a.codec.Grammar()))

	if a.store != nil {
		checker.RegisterCheck("audit", health.PingCheck(a.store))

		scheduler := retention.NewScheduler(retention.NewPruner(a.store, retention.FromConfig(cfg.Audit.Retention), a.metrics))
		if err := scheduler.Start(ctx); err != nil {
			slog.Warn("failed to start retention scheduler", "error", err)
		} else {
			defer scheduler.Stop()
			if next := scheduler.NextRun(); next != nil {
				slog.Debug("retention scheduler started", "next_run", next)
			}
		}
	}

	srv := server.NewServer(cfg, a.processor, server.Options{
		Metrics: a.metrics,
		Health:  checker,
		Version: versionInfo(a.codec.Grammar().Version),
	})

	ln, err := net.Listen("tcp", cfg.Server.ListenAddress)
	if err != nil {
		return cli.NewCommandError("serve", fmt.Errorf("failed to listen on %s: %w", cfg.Server.ListenAddress, err))
	}

	printBanner(cmd, a, ln.Addr())

	if err := srv.Serve(ctx, ln); err != nil {
		return cli.NewCommandError("serve", err)
	}

	fmt.Fprintln(out, "✓ Server stopped")
	return nil
}

func printBanner(cmd *cobra.Command, a *app, addr net.Addr) {
	out := cmd.OutOrStdout()
	cfg := a.config

	fmt.Fprintf(out, "Shimmer v%s (grammar %s)\n", Version, a.codec.Grammar().Version)
	if a.store != nil {
		fmt.Fprintf(out, "✓ Audit store: %s\n", cfg.Audit.Backend)
	}
	fmt.Fprintf(out, "✓ Server listening on %s\n", addr)
	if cfg.Telemetry.Health.Enabled {
		fmt.Fprintf(out, "✓ Health endpoint: http://%s%s\n", addr, cfg.Telemetry.Health.LivenessPath)
	}
	if a.metrics != nil {
		fmt.Fprintf(out, "✓ Metrics endpoint: http://%s%s\n", addr, cfg.Telemetry.Metrics.Path)
	}
	fmt.Fprintln(out, "\nPress Ctrl+C to stop")
}

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"shimmer-hq/shimmer/pkg/audit"
	"shimmer-hq/shimmer/pkg/audit/recorder"
	"shimmer-hq/shimmer/pkg/audit/storage"
	"shimmer-hq/shimmer/pkg/batch"
	"shimmer-hq/shimmer/pkg/cli"
	"shimmer-hq/shimmer/pkg/config"
	"shimmer-hq/shimmer/pkg/processing"
	"shimmer-hq/shimmer/pkg/shimmer"
	"shimmer-hq/shimmer/pkg/telemetry/logging"
	"shimmer-hq/shimmer/pkg/telemetry/metrics"
)

// sourceCLI is the audit source of lines checked from the command line.
const sourceCLI = "cli"

// app holds what a command needs to process lines.
type app struct {
	opts      appOptions
	config    *config.Config
	codec     *shimmer.Codec
	metrics   *metrics.Collector
	store     audit.Storage
	recorder  *recorder.Recorder
	processor *processing.Processor
}

type appOptions struct {
	// metrics creates a collector when telemetry.metrics is enabled.
	metrics bool

	// audit records processed lines when audit.enabled is set.
	audit bool

	// minScore overrides lint.min_score when set.
	minScore *int
}

// applyFlags applies the --grammar and --verbose overrides, which outrank
// the configuration file.
func applyFlags(cfg *config.Config) {
	if grammarVersion != "" {
		cfg.Grammar.Version = grammarVersion
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
}

// loadConfig loads the --config file, applies the flag overrides and
// installs the result as the process configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError("", err.Error())
	}

	applyFlags(cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, cli.NewConfigError("", err.Error())
	}

	config.SetConfig(cfg)
	return cfg, nil
}

// newApp loads configuration, installs the logger on the command's stderr
// and builds the processor.
func newApp(cmd *cobra.Command, opts appOptions) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging, cmd.ErrOrStderr()))
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}
	logger.Install()

	a := &app{opts: opts}

	if opts.metrics && cfg.Telemetry.Metrics.Enabled {
		a.metrics = metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	}

	if opts.audit && cfg.Audit.Enabled {
		store, err := storage.New(cfg.Audit)
		if err != nil {
			return nil, fmt.Errorf("failed to open audit storage: %w", err)
		}
		a.store = store
		a.recorder = recorder.NewRecorder(store, recorder.FromConfig(cfg.Audit.Recorder), a.metrics)
	}

	if opts.minScore != nil {
		cfg.Lint.MinScore = *opts.minScore
	}
	if err := a.configure(cfg); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// overrides applies every flag override of the command, including the
// command's own --min-score.
func (a *app) overrides(cfg *config.Config) {
	applyFlags(cfg)
	if a.opts.minScore != nil {
		cfg.Lint.MinScore = *a.opts.minScore
	}
}

// configure builds the codec and processor for cfg. The metrics collector,
// audit store and recorder are kept across calls.
func (a *app) configure(cfg *config.Config) error {
	codec, err := shimmer.New(cfg.Grammar.Version)
	if err != nil {
		return cli.NewConfigError("grammar.version", err.Error())
	}

	procOpts := []processing.Option{
		processing.WithMetrics(a.metrics),
		processing.WithBatchConfig(batch.FromConfig(cfg.Batch)),
		processing.WithMinScore(cfg.Lint.MinScore),
	}
	if a.recorder != nil {
		procOpts = append(procOpts, processing.WithRecorder(a.recorder))
	}

	a.config = cfg
	a.codec = codec
	a.processor = processing.NewProcessor(codec, procOpts...)
	return nil
}

// reload rereads the --config file and rebuilds the codec and processor.
// Logging, metrics and audit settings take effect on the next start. On
// error the current configuration stays in use.
func (a *app) reload() error {
	cfg, err := config.ReloadConfig(cfgFile, a.overrides)
	if err != nil {
		return cli.NewConfigError("", err.Error())
	}
	if err := a.configure(cfg); err != nil {
		config.SetConfig(a.config)
		return err
	}
	slog.Info("configuration reloaded",
		"path", cfgFile,
		"grammar", cfg.Grammar.Version,
		"min_score", cfg.Lint.MinScore,
	)
	return nil
}

// Close drains the audit recorder and closes the store.
func (a *app) Close() error {
	var errs []error
	if a.recorder != nil {
		errs = append(errs, a.recorder.Close())
	}
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	return errors.Join(errs...)
}

// openInput returns the file named by path, or the command's stdin when
// path is empty or "-".
func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	return f, nil
}

// openOutput returns the file named by path, or the command's stdout when
// path is empty or "-".
func openOutput(cmd *cobra.Command, path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopWriteCloser{cmd.OutOrStdout()}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output: %w", err)
	}
	return f, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

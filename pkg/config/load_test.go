package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shimmer.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
grammar:
  version: "1.1"
lint:
  min_score: 80
batch:
  workers: 3
  line_timeout: 250ms
server:
  listen_address: "0.0.0.0:9000"
audit:
  enabled: true
  backend: memory
  export:
    json_pretty: false
telemetry:
  logging:
    level: debug
    format: json
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Grammar.Version != "1.1" {
		t.Errorf("grammar.version = %q", cfg.Grammar.Version)
	}
	if cfg.Lint.MinScore != 80 {
		t.Errorf("lint.min_score = %d", cfg.Lint.MinScore)
	}
	if cfg.Batch.Workers != 3 || cfg.Batch.LineTimeout != 250*time.Millisecond {
		t.Errorf("batch = %+v", cfg.Batch)
	}
	if cfg.Server.ListenAddress != "0.0.0.0:9000" {
		t.Errorf("server.listen_address = %q", cfg.Server.ListenAddress)
	}
	if !cfg.Audit.Enabled || cfg.Audit.Backend != "memory" {
		t.Errorf("audit = %+v", cfg.Audit)
	}
	if cfg.Audit.Export.JSONPretty {
		t.Error("explicit json_pretty: false was overwritten by the default")
	}
	if !cfg.Audit.Export.CSVIncludeHeader {
		t.Error("csv_include_header default lost")
	}

	// Unset fields keep their defaults.
	if cfg.Server.ReadTimeout != DefaultReadTimeout {
		t.Errorf("server.read_timeout = %v", cfg.Server.ReadTimeout)
	}
	if cfg.Audit.Retention.PruneSchedule != DefaultAuditRetentionSchedule {
		t.Errorf("audit.retention.prune_schedule = %q", cfg.Audit.Retention.PruneSchedule)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "malformed yaml",
			content: "grammar: [",
			wantErr: "failed to parse",
		},
		{
			name:    "unknown grammar",
			content: "grammar:\n  version: \"2.0\"\n",
			wantErr: "grammar.version",
		},
		{
			name:    "bad cron",
			content: "audit:\n  retention:\n    prune_schedule: \"every day\"\n",
			wantErr: "audit.retention.prune_schedule",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("LoadConfig() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadConfig(missing) expected error")
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, "server:\n  listen_address: \"127.0.0.1:1111\"\n")

	t.Setenv("SHIMMER_SERVER_LISTEN_ADDRESS", "127.0.0.1:2222")
	t.Setenv("SHIMMER_GRAMMAR_VERSION", "v1.1")
	t.Setenv("SHIMMER_BATCH_LINE_TIMEOUT", "2s")
	t.Setenv("SHIMMER_AUDIT_ENABLED", "true")
	t.Setenv("SHIMMER_TELEMETRY_LOGGING_LEVEL", "WARN")
	t.Setenv("SHIMMER_BATCH_WORKERS", "not-a-number")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v", err)
	}

	if cfg.Server.ListenAddress != "127.0.0.1:2222" {
		t.Errorf("listen address = %q", cfg.Server.ListenAddress)
	}
	if cfg.Grammar.Version != "v1.1" {
		t.Errorf("grammar.version = %q", cfg.Grammar.Version)
	}
	if cfg.Batch.LineTimeout != 2*time.Second {
		t.Errorf("batch.line_timeout = %v", cfg.Batch.LineTimeout)
	}
	if !cfg.Audit.Enabled {
		t.Error("audit.enabled override ignored")
	}
	if cfg.Telemetry.Logging.Level != "warn" {
		t.Errorf("logging level = %q", cfg.Telemetry.Logging.Level)
	}
	if cfg.Batch.Workers < 1 {
		t.Errorf("unparsable override replaced workers: %d", cfg.Batch.Workers)
	}
}

func TestLoadConfigWithEnvOverrides_Invalid(t *testing.T) {
	path := writeConfig(t, "")
	t.Setenv("SHIMMER_AUDIT_BACKEND", "postgres")

	_, err := LoadConfigWithEnvOverrides(path)
	if err == nil || !strings.Contains(err.Error(), "after environment overrides") {
		t.Errorf("error = %v", err)
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault("")
	if err != nil {
		t.Fatalf("LoadOrDefault(\"\") error = %v", err)
	}
	if cfg.Server.ListenAddress != DefaultListenAddress {
		t.Errorf("listen address = %q", cfg.Server.ListenAddress)
	}

	cfg, err = LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault(missing) error = %v", err)
	}
	if cfg.Grammar.Version != DefaultGrammarVersion {
		t.Errorf("grammar.version = %q", cfg.Grammar.Version)
	}

	if _, err := LoadOrDefault(writeConfig(t, "lint: [")); err == nil {
		t.Error("LoadOrDefault(malformed) expected error")
	}
}

func TestNewDefaultValidates(t *testing.T) {
	cfg := NewDefault()
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate(NewDefault()) = %v", err)
	}
	if !cfg.Audit.SQLite.WALMode || !cfg.Telemetry.Metrics.Enabled || !cfg.Telemetry.Health.Enabled {
		t.Error("boolean defaults not set")
	}
	if cfg.Audit.Enabled {
		t.Error("audit should be disabled by default")
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte("audit:\n  sqlite:\n    driver: sqlite\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Audit.SQLite.Driver != "sqlite" || cfg.Audit.SQLite.Path != DefaultAuditSQLitePath {
		t.Errorf("sqlite = %+v", cfg.Audit.SQLite)
	}
}

package config

import (
	"path/filepath"
	"testing"
)

func resetCurrent(t *testing.T) {
	t.Helper()
	prev := GetConfig()
	SetConfig(nil)
	t.Cleanup(func() { SetConfig(prev) })
}

func TestSetConfig(t *testing.T) {
	resetCurrent(t)

	if GetConfig() != nil {
		t.Fatal("GetConfig() before SetConfig should be nil")
	}
	cfg := NewDefault()
	SetConfig(cfg)
	if GetConfig() != cfg {
		t.Error("GetConfig() did not return the installed configuration")
	}
}

func TestReloadConfig(t *testing.T) {
	resetCurrent(t)
	SetConfig(NewDefault())

	cfg, err := ReloadConfig(writeConfig(t, "grammar:\n  version: \"1.1\"\nlint:\n  min_score: 70\n"), nil)
	if err != nil {
		t.Fatalf("ReloadConfig() error = %v", err)
	}
	if cfg != GetConfig() || cfg.Grammar.Version != "1.1" || cfg.Lint.MinScore != 70 {
		t.Errorf("reloaded config = grammar %q, min_score %d", GetConfig().Grammar.Version, GetConfig().Lint.MinScore)
	}
}

func TestReloadConfig_Override(t *testing.T) {
	resetCurrent(t)

	path := writeConfig(t, "grammar:\n  version: \"1.1\"\nlint:\n  min_score: 70\n")
	cfg, err := ReloadConfig(path, func(c *Config) { c.Lint.MinScore = 90 })
	if err != nil {
		t.Fatalf("ReloadConfig() error = %v", err)
	}
	if cfg.Lint.MinScore != 90 || cfg.Grammar.Version != "1.1" {
		t.Errorf("min_score = %d, grammar = %q", cfg.Lint.MinScore, cfg.Grammar.Version)
	}
}

func TestReloadConfig_KeepsPreviousOnError(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		override func(*Config)
	}{
		{name: "unknown grammar in file", content: "grammar:\n  version: \"7\"\n"},
		{name: "override fails validation", content: "lint:\n  min_score: 70\n", override: func(c *Config) { c.Grammar.Version = "9.9" }},
		{name: "unparsable yaml", content: "lint: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetCurrent(t)
			prev := NewDefault()
			SetConfig(prev)

			if _, err := ReloadConfig(writeConfig(t, tt.content), tt.override); err == nil {
				t.Fatal("ReloadConfig() expected error")
			}
			if GetConfig() != prev {
				t.Error("failed reload replaced the configuration")
			}
		})
	}
}

func TestReloadConfig_MissingFileUsesDefaults(t *testing.T) {
	resetCurrent(t)

	cfg, err := ReloadConfig(filepath.Join(t.TempDir(), "none.yaml"), nil)
	if err != nil {
		t.Fatalf("ReloadConfig() error = %v", err)
	}
	if cfg.Server.ListenAddress != DefaultListenAddress {
		t.Error("expected defaults")
	}
}

package config

import (
	"fmt"
	"sync"
)

var (
	current   *Config
	currentMu sync.RWMutex
)

// GetConfig returns the process configuration, or nil before SetConfig or
// ReloadConfig has installed one.
func GetConfig() *Config {
	currentMu.RLock()
	defer currentMu.RUnlock()
	return current
}

// SetConfig installs cfg as the process configuration.
func SetConfig(cfg *Config) {
	currentMu.Lock()
	defer currentMu.Unlock()
	current = cfg
}

// ReloadConfig reads path again with LoadOrDefault, applies override (the
// command-line flags, which outrank the file) and validates the result. The
// process configuration is replaced only on success; on failure the previous
// one stays installed and is still returned by GetConfig.
func ReloadConfig(path string, override func(*Config)) (*Config, error) {
	cfg, err := LoadOrDefault(path)
	if err != nil {
		return nil, fmt.Errorf("failed to reload configuration: %w", err)
	}
	if override != nil {
		override(cfg)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("failed to reload configuration: %w", err)
	}

	SetConfig(cfg)
	return cfg, nil
}

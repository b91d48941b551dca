package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"shimmer-hq/shimmer/pkg/audit"
	"shimmer-hq/shimmer/pkg/config"
)

// Backend names accepted by New.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// New opens the storage backend selected by cfg.Backend. The parent
// directory of a SQLite database is created if missing.
func New(cfg config.AuditConfig) (audit.Storage, error) {
	switch cfg.Backend {
	case BackendMemory:
		return NewMemoryStorage(), nil

	case BackendSQLite, "":
		if dir := filepath.Dir(cfg.SQLite.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, audit.NewStorageError("sqlite", "mkdir", err)
			}
		}
		return NewSQLiteStorage(&SQLiteConfig{
			Driver:       cfg.SQLite.Driver,
			Path:         cfg.SQLite.Path,
			MaxOpenConns: cfg.SQLite.MaxOpenConns,
			MaxIdleConns: cfg.SQLite.MaxIdleConns,
			WALMode:      cfg.SQLite.WALMode,
			BusyTimeout:  cfg.SQLite.BusyTimeout,
		})

	default:
		return nil, fmt.Errorf("unknown audit backend %q (must be %q or %q)", cfg.Backend, BackendMemory, BackendSQLite)
	}
}

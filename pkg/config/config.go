package config

import "time"

// Config is the root configuration structure for the Shimmer tooling.
// It contains the codec settings, the stream and server settings, the audit
// trail and telemetry.
type Config struct {
	// Grammar selects the Shimmer grammar version lines are parsed with.
	Grammar GrammarConfig `yaml:"grammar"`

	// Lint contains compactness linter settings.
	Lint LintConfig `yaml:"lint"`

	// Batch contains settings for processing streams of lines.
	Batch BatchConfig `yaml:"batch"`

	// Server contains HTTP API server configuration including listen
	// address, timeouts and size limits.
	Server ServerConfig `yaml:"server"`

	// Audit contains configuration for the audit trail of processed lines
	// including backend selection, retention and export settings.
	Audit AuditConfig `yaml:"audit"`

	// Telemetry contains configuration for logging, metrics and health.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// GrammarConfig selects the grammar version.
type GrammarConfig struct {
	// Version is the grammar revision.
	// Options: "1.0", "1.1"
	// Default: "1.0"
	Version string `yaml:"version"`
}

// LintConfig contains compactness linter settings.
type LintConfig struct {
	// MinScore is the threshold below which a line fails.
	// 0 means no threshold.
	// Default: 0
	MinScore int `yaml:"min_score"`

	// WatchDebounce is how long the watcher waits for writes to settle
	// before re-linting a file.
	// Default: 200ms
	WatchDebounce time.Duration `yaml:"watch_debounce"`
}

// BatchConfig contains settings for processing streams of lines.
type BatchConfig struct {
	// Workers is the number of lines processed concurrently.
	// Default: GOMAXPROCS
	Workers int `yaml:"workers"`

	// LineTimeout bounds the time spent on one line. A line that exceeds it
	// is reported as timed out. 0 means no limit.
	// Default: 0
	LineTimeout time.Duration `yaml:"line_timeout"`

	// MaxLineBytes is the longest line that is processed. Longer lines fail
	// on their own and the rest of the stream continues.
	// Default: 1048576 (1MB)
	MaxLineBytes int `yaml:"max_line_bytes"`
}

// ServerConfig contains configuration for the HTTP API server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:8088", "0.0.0.0:8088").
	// Default: "127.0.0.1:8088"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response.
	// Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	// when keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits the size of request headers.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// MaxBodyBytes limits the size of request bodies.
	// Default: 4194304 (4MB)
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
}

// AuditConfig contains configuration for the audit trail.
type AuditConfig struct {
	// Enabled controls whether processed lines are recorded.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Backend specifies the storage backend for audit records.
	// Options: "memory", "sqlite"
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// SQLite contains SQLite-specific configuration.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// Recorder contains audit recorder configuration.
	Recorder RecorderConfig `yaml:"recorder"`

	// Retention contains retention policy configuration.
	Retention RetentionConfig `yaml:"retention"`

	// Export contains export configuration.
	Export ExportConfig `yaml:"export"`
}

// SQLiteConfig contains SQLite-specific configuration.
type SQLiteConfig struct {
	// Driver is the database/sql driver name.
	// Options: "sqlite3" (cgo, mattn/go-sqlite3), "sqlite" (pure Go, modernc.org/sqlite)
	// Default: "sqlite3"
	Driver string `yaml:"driver"`

	// Path is the file path for the SQLite database.
	// Default: "data/audit.db"
	Path string `yaml:"path"`

	// MaxOpenConns is the maximum number of open database connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle database connections.
	// Default: 5
	MaxIdleConns int `yaml:"max_idle_conns"`

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// RecorderConfig contains audit recorder configuration.
type RecorderConfig struct {
	// AsyncBuffer is the size of the async write channel buffer.
	// Default: 1000
	AsyncBuffer int `yaml:"async_buffer"`

	// WriteTimeout is the timeout for writing a record to storage.
	// Default: 5s
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// RetentionConfig contains retention policy configuration.
type RetentionConfig struct {
	// Days is the number of days to retain audit records.
	// 0 means keep records forever.
	// Default: 30
	Days int `yaml:"days"`

	// PruneSchedule is a cron expression for scheduling pruning.
	// Default: "0 3 * * *" (daily at 3 AM)
	PruneSchedule string `yaml:"prune_schedule"`

	// MaxRecords is the maximum number of records to keep.
	// 0 means unlimited.
	// Default: 0
	MaxRecords int64 `yaml:"max_records"`
}

// ExportConfig contains export configuration.
type ExportConfig struct {
	// JSONPretty enables pretty-printing for JSON exports.
	// Default: true
	JSONPretty bool `yaml:"json_pretty"`

	// CSVIncludeHeader includes a header row in CSV exports.
	// Default: true
	CSVIncludeHeader bool `yaml:"csv_include_header"`

	// CBORCompress wraps CBOR exports in a zstd frame.
	// Default: false
	CBORCompress bool `yaml:"cbor_compress"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Health contains health check configuration.
	Health HealthConfig `yaml:"health"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "shimmer"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "codec"
	Subsystem string `yaml:"subsystem"`

	// ScoreBuckets defines histogram buckets for lint scores.
	// Default: [50, 60, 70, 80, 90, 95, 100]
	ScoreBuckets []float64 `yaml:"score_buckets"`
}

// HealthConfig contains health check endpoint configuration.
type HealthConfig struct {
	// Enabled controls whether health check endpoints are enabled.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// LivenessPath is the path for the liveness check endpoint.
	// Default: "/health"
	LivenessPath string `yaml:"liveness_path"`

	// ReadinessPath is the path for the readiness check endpoint.
	// Default: "/ready"
	ReadinessPath string `yaml:"readiness_path"`

	// VersionPath is the path for the version information endpoint.
	// Default: "/version"
	VersionPath string `yaml:"version_path"`

	// CheckTimeout is the timeout for individual component health checks.
	// Default: 5s
	CheckTimeout time.Duration `yaml:"check_timeout"`
}

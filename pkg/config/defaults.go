package config

import (
	"runtime"
	"time"
)

// Default values for configuration fields.
const (
	// Codec defaults
	DefaultGrammarVersion    = "1.0"
	DefaultLintMinScore      = 0
	DefaultLintWatchDebounce = 200 * time.Millisecond
	DefaultBatchLineTimeout  = time.Duration(0)
	DefaultBatchMaxLineBytes = 1048576 // 1MB

	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8088"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1048576 // 1MB
	DefaultMaxBodyBytes    = int64(4 << 20)

	// Audit defaults
	DefaultAuditEnabled              = false
	DefaultAuditBackend              = "sqlite"
	DefaultAuditSQLiteDriver         = "sqlite3"
	DefaultAuditSQLitePath           = "data/audit.db"
	DefaultAuditSQLiteMaxOpenConns   = 10
	DefaultAuditSQLiteMaxIdleConns   = 5
	DefaultAuditSQLiteWALMode        = true
	DefaultAuditSQLiteBusyTimeout    = 5 * time.Second
	DefaultAuditRecorderAsyncBuffer  = 1000
	DefaultAuditRecorderWriteTimeout = 5 * time.Second
	DefaultAuditRetentionDays        = 30
	DefaultAuditRetentionSchedule    = "0 3 * * *"
	DefaultAuditRetentionMaxRecords  = int64(0)
	DefaultAuditExportJSONPretty     = true
	DefaultAuditExportCSVHeader      = true
	DefaultAuditExportCBORCompress   = false

	// Telemetry defaults
	DefaultLoggingLevel       = "info"
	DefaultLoggingFormat      = "text"
	DefaultMetricsEnabled     = true
	DefaultPrometheusPath     = "/metrics"
	DefaultMetricsNamespace   = "shimmer"
	DefaultMetricsSubsystem   = "codec"
	DefaultHealthEnabled      = true
	DefaultHealthLiveness     = "/health"
	DefaultHealthReadiness    = "/ready"
	DefaultHealthVersion      = "/version"
	DefaultHealthCheckTimeout = 5 * time.Second
)

// DefaultScoreBuckets are the lint score histogram buckets.
var DefaultScoreBuckets = []float64{50, 60, 70, 80, 90, 95, 100}

// NewDefault returns a configuration with every field at its default.
// Boolean defaults can only be expressed here: LoadConfig decodes YAML on
// top of this value so an explicit false in the file survives.
func NewDefault() *Config {
	cfg := &Config{
		Audit: AuditConfig{
			Enabled: DefaultAuditEnabled,
			SQLite: SQLiteConfig{
				WALMode: DefaultAuditSQLiteWALMode,
			},
			Retention: RetentionConfig{
				Days: DefaultAuditRetentionDays,
			},
			Export: ExportConfig{
				JSONPretty:       DefaultAuditExportJSONPretty,
				CSVIncludeHeader: DefaultAuditExportCSVHeader,
				CBORCompress:     DefaultAuditExportCBORCompress,
			},
		},
		Telemetry: TelemetryConfig{
			Metrics: MetricsConfig{Enabled: DefaultMetricsEnabled},
			Health:  HealthConfig{Enabled: DefaultHealthEnabled},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any non-boolean fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Codec defaults
	if cfg.Grammar.Version == "" {
		cfg.Grammar.Version = DefaultGrammarVersion
	}
	if cfg.Lint.WatchDebounce == 0 {
		cfg.Lint.WatchDebounce = DefaultLintWatchDebounce
	}
	if cfg.Batch.Workers == 0 {
		cfg.Batch.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.Batch.MaxLineBytes == 0 {
		cfg.Batch.MaxLineBytes = DefaultBatchMaxLineBytes
	}

	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}

	applyAuditDefaults(&cfg.Audit)
	applyTelemetryDefaults(&cfg.Telemetry)
}

func applyAuditDefaults(cfg *AuditConfig) {
	if cfg.Backend == "" {
		cfg.Backend = DefaultAuditBackend
	}
	if cfg.SQLite.Driver == "" {
		cfg.SQLite.Driver = DefaultAuditSQLiteDriver
	}
	if cfg.SQLite.Path == "" {
		cfg.SQLite.Path = DefaultAuditSQLitePath
	}
	if cfg.SQLite.MaxOpenConns == 0 {
		cfg.SQLite.MaxOpenConns = DefaultAuditSQLiteMaxOpenConns
	}
	if cfg.SQLite.MaxIdleConns == 0 {
		cfg.SQLite.MaxIdleConns = DefaultAuditSQLiteMaxIdleConns
	}
	if cfg.SQLite.BusyTimeout == 0 {
		cfg.SQLite.BusyTimeout = DefaultAuditSQLiteBusyTimeout
	}
	if cfg.Recorder.AsyncBuffer == 0 {
		cfg.Recorder.AsyncBuffer = DefaultAuditRecorderAsyncBuffer
	}
	if cfg.Recorder.WriteTimeout == 0 {
		cfg.Recorder.WriteTimeout = DefaultAuditRecorderWriteTimeout
	}
	if cfg.Retention.PruneSchedule == "" {
		cfg.Retention.PruneSchedule = DefaultAuditRetentionSchedule
	}
	// Retention.Days of 0 means "keep forever" and is left alone.
}

func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultPrometheusPath
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Subsystem == "" {
		cfg.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if len(cfg.Metrics.ScoreBuckets) == 0 {
		cfg.Metrics.ScoreBuckets = append([]float64(nil), DefaultScoreBuckets...)
	}
	if cfg.Health.LivenessPath == "" {
		cfg.Health.LivenessPath = DefaultHealthLiveness
	}
	if cfg.Health.ReadinessPath == "" {
		cfg.Health.ReadinessPath = DefaultHealthReadiness
	}
	if cfg.Health.VersionPath == "" {
		cfg.Health.VersionPath = DefaultHealthVersion
	}
	if cfg.Health.CheckTimeout == 0 {
		cfg.Health.CheckTimeout = DefaultHealthCheckTimeout
	}
}

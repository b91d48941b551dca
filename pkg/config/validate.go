package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/robfig/cron/v3"

	"shimmer-hq/shimmer/pkg/shimmer/grammar"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Fields returns the dotted paths of the failing fields in order.
func (e ValidationError) Fields() []string {
	fields := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		fields = append(fields, err.Field)
	}
	return fields
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. All validation errors are collected and
// returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateGrammar(&cfg.Grammar)...)
	errs = append(errs, validateLint(&cfg.Lint)...)
	errs = append(errs, validateBatch(&cfg.Batch)...)
	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateAudit(&cfg.Audit)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

func validateGrammar(cfg *GrammarConfig) []FieldError {
	if _, err := grammar.Lookup(cfg.Version); err != nil {
		return []FieldError{{
			Field:   "grammar.version",
			Message: err.Error(),
		}}
	}
	return nil
}

func validateLint(cfg *LintConfig) []FieldError {
	var errs []FieldError

	if cfg.MinScore < 0 || cfg.MinScore > 100 {
		errs = append(errs, FieldError{
			Field:   "lint.min_score",
			Message: fmt.Sprintf("min score must be between 0 and 100, got %d", cfg.MinScore),
		})
	}
	if cfg.WatchDebounce < 0 {
		errs = append(errs, FieldError{
			Field:   "lint.watch_debounce",
			Message: "watch debounce cannot be negative",
		})
	}

	return errs
}

func validateBatch(cfg *BatchConfig) []FieldError {
	var errs []FieldError

	if cfg.Workers < 1 {
		errs = append(errs, FieldError{
			Field:   "batch.workers",
			Message: "workers must be at least 1",
		})
	}
	if cfg.LineTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "batch.line_timeout",
			Message: "line timeout cannot be negative",
		})
	}
	if cfg.MaxLineBytes < 64 {
		errs = append(errs, FieldError{
			Field:   "batch.max_line_bytes",
			Message: "max line bytes must be at least 64",
		})
	}

	return errs
}

func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: "listen address is required",
		})
	} else if _, _, err := net.SplitHostPort(cfg.ListenAddress); err != nil {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: fmt.Sprintf("invalid listen address %q: must be in host:port format", cfg.ListenAddress),
		})
	}

	if cfg.ReadTimeout <= 0 {
		errs = append(errs, FieldError{
			Field:   "server.read_timeout",
			Message: "read timeout must be positive",
		})
	}
	if cfg.WriteTimeout <= 0 {
		errs = append(errs, FieldError{
			Field:   "server.write_timeout",
			Message: "write timeout must be positive",
		})
	}
	if cfg.IdleTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.idle_timeout",
			Message: "idle timeout cannot be negative",
		})
	}
	if cfg.ShutdownTimeout <= 0 {
		errs = append(errs, FieldError{
			Field:   "server.shutdown_timeout",
			Message: "shutdown timeout must be positive",
		})
	}
	if cfg.MaxHeaderBytes <= 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_header_bytes",
			Message: "max header bytes must be positive",
		})
	}
	if cfg.MaxBodyBytes <= 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_body_bytes",
			Message: "max body bytes must be positive",
		})
	}

	return errs
}

func validateAudit(cfg *AuditConfig) []FieldError {
	var errs []FieldError

	validBackends := map[string]bool{"memory": true, "sqlite": true}
	if !validBackends[cfg.Backend] {
		errs = append(errs, FieldError{
			Field:   "audit.backend",
			Message: fmt.Sprintf("invalid backend %q: must be 'memory' or 'sqlite'", cfg.Backend),
		})
	}

	if cfg.Backend == "sqlite" {
		validDrivers := map[string]bool{"sqlite3": true, "sqlite": true}
		if !validDrivers[cfg.SQLite.Driver] {
			errs = append(errs, FieldError{
				Field:   "audit.sqlite.driver",
				Message: fmt.Sprintf("invalid driver %q: must be 'sqlite3' or 'sqlite'", cfg.SQLite.Driver),
			})
		}
		if cfg.SQLite.Path == "" {
			errs = append(errs, FieldError{
				Field:   "audit.sqlite.path",
				Message: "sqlite path is required when backend is sqlite",
			})
		}
		if cfg.SQLite.MaxOpenConns < 1 {
			errs = append(errs, FieldError{
				Field:   "audit.sqlite.max_open_conns",
				Message: "max open connections must be at least 1",
			})
		}
		if cfg.SQLite.MaxIdleConns < 0 || cfg.SQLite.MaxIdleConns > cfg.SQLite.MaxOpenConns {
			errs = append(errs, FieldError{
				Field:   "audit.sqlite.max_idle_conns",
				Message: "max idle connections must be between 0 and max_open_conns",
			})
		}
	}

	if cfg.Recorder.AsyncBuffer < 1 {
		errs = append(errs, FieldError{
			Field:   "audit.recorder.async_buffer",
			Message: "async buffer must be at least 1",
		})
	}
	if cfg.Recorder.WriteTimeout <= 0 {
		errs = append(errs, FieldError{
			Field:   "audit.recorder.write_timeout",
			Message: "write timeout must be positive",
		})
	}

	if cfg.Retention.Days < 0 {
		errs = append(errs, FieldError{
			Field:   "audit.retention.days",
			Message: "retention days cannot be negative",
		})
	}
	if cfg.Retention.MaxRecords < 0 {
		errs = append(errs, FieldError{
			Field:   "audit.retention.max_records",
			Message: "max records cannot be negative",
		})
	}
	if _, err := cron.ParseStandard(cfg.Retention.PruneSchedule); err != nil {
		errs = append(errs, FieldError{
			Field:   "audit.retention.prune_schedule",
			Message: fmt.Sprintf("invalid cron expression %q: %v", cfg.Retention.PruneSchedule, err),
		})
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'json', 'text' or 'console'", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled {
		errs = append(errs, validatePath("telemetry.metrics.path", cfg.Metrics.Path)...)
		if cfg.Metrics.Namespace == "" {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.namespace",
				Message: "metrics namespace is required when metrics are enabled",
			})
		}
		for i := 1; i < len(cfg.Metrics.ScoreBuckets); i++ {
			if cfg.Metrics.ScoreBuckets[i] <= cfg.Metrics.ScoreBuckets[i-1] {
				errs = append(errs, FieldError{
					Field:   "telemetry.metrics.score_buckets",
					Message: "score buckets must be strictly increasing",
				})
				break
			}
		}
	}

	if cfg.Health.Enabled {
		errs = append(errs, validatePath("telemetry.health.liveness_path", cfg.Health.LivenessPath)...)
		errs = append(errs, validatePath("telemetry.health.readiness_path", cfg.Health.ReadinessPath)...)
		errs = append(errs, validatePath("telemetry.health.version_path", cfg.Health.VersionPath)...)
		if cfg.Health.CheckTimeout <= 0 {
			errs = append(errs, FieldError{
				Field:   "telemetry.health.check_timeout",
				Message: "check timeout must be positive",
			})
		}
	}

	return errs
}

func validatePath(field, path string) []FieldError {
	if path == "" {
		return []FieldError{{Field: field, Message: "path is required"}}
	}
	if path[0] != '/' {
		return []FieldError{{Field: field, Message: "path must start with /"}}
	}
	return nil
}

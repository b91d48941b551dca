package retention

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"shimmer-hq/shimmer/pkg/audit"
	"shimmer-hq/shimmer/pkg/audit/export"
	"shimmer-hq/shimmer/pkg/audit/query"
	"shimmer-hq/shimmer/pkg/config"
	"shimmer-hq/shimmer/pkg/telemetry/metrics"
)

// Config contains configuration for the retention pruner.
type Config struct {
	// RetentionDays is the number of days to retain audit records.
	// 0 means keep records forever.
	RetentionDays int

	// PruneSchedule is a cron expression for scheduling pruning.
	// Example: "0 3 * * *" (daily at 3 AM)
	PruneSchedule string

	// MaxRecords is the maximum number of records to keep.
	// 0 means unlimited.
	MaxRecords int64

	// ArchiveDir, when set, receives a JSON export of every record before
	// it is deleted.
	ArchiveDir string
}

// FromConfig converts the retention section of the configuration.
func FromConfig(cfg config.RetentionConfig) *Config {
	return &Config{
		RetentionDays: cfg.Days,
		PruneSchedule: cfg.PruneSchedule,
		MaxRecords:    cfg.MaxRecords,
	}
}

// Pruner enforces retention policies on audit records.
type Pruner struct {
	storage audit.Storage
	config  *Config
	metrics *metrics.Collector
	logger  *slog.Logger
	now     func() time.Time
}

// NewPruner creates a new retention pruner. The collector may be nil.
func NewPruner(storage audit.Storage, cfg *Config, collector *metrics.Collector) *Pruner {
	if cfg == nil {
		cfg = FromConfig(config.NewDefault().Audit.Retention)
	}

	return &Pruner{
		storage: storage,
		config:  cfg,
		metrics: collector,
		logger:  slog.Default().With("component", "audit.retention"),
		now:     time.Now,
	}
}

// Prune deletes records older than the retention period, then the oldest
// records beyond the max record count. It returns the total deleted.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var totalDeleted int64

	if p.config.RetentionDays > 0 {
		deleted, err := p.pruneByAge(ctx)
		totalDeleted += deleted
		if err != nil {
			p.metrics.RecordAuditPruned(totalDeleted)
			return totalDeleted, fmt.Errorf("prune by age failed: %w", err)
		}
		p.logger.Debug("pruned records by age",
			"deleted_count", deleted,
			"retention_days", p.config.RetentionDays,
		)
	}

	if p.config.MaxRecords > 0 {
		deleted, err := p.pruneByCount(ctx)
		totalDeleted += deleted
		if err != nil {
			p.metrics.RecordAuditPruned(totalDeleted)
			return totalDeleted, fmt.Errorf("prune by count failed: %w", err)
		}
		p.logger.Debug("pruned records by count",
			"deleted_count", deleted,
			"max_records", p.config.MaxRecords,
		)
	}

	p.metrics.RecordAuditPruned(totalDeleted)
	if totalDeleted > 0 {
		p.logger.Info("audit pruning completed",
			"total_deleted", totalDeleted,
			"retention_days", p.config.RetentionDays,
			"max_records", p.config.MaxRecords,
		)
	}

	return totalDeleted, nil
}

func (p *Pruner) pruneByAge(ctx context.Context) (int64, error) {
	cutoff := p.now().AddDate(0, 0, -p.config.RetentionDays)
	q := &audit.Query{EndTime: &cutoff}

	if p.config.ArchiveDir != "" {
		records, err := p.storage.Query(ctx, q)
		if err != nil {
			return 0, audit.NewRetentionError(p.config.RetentionDays, err)
		}
		if err := p.archive(ctx, "age", records); err != nil {
			return 0, audit.NewRetentionError(p.config.RetentionDays, err)
		}
	}

	deleted, err := p.storage.Delete(ctx, q)
	if err != nil {
		return 0, audit.NewRetentionError(p.config.RetentionDays, err)
	}
	return deleted, nil
}

// pruneByCount deletes the oldest records so that at most MaxRecords
// remain. Records sharing the cutoff timestamp are deleted together.
func (p *Pruner) pruneByCount(ctx context.Context) (int64, error) {
	count, err := p.storage.Count(ctx, &audit.Query{})
	if err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	if count <= p.config.MaxRecords {
		return 0, nil
	}

	toDelete := count - p.config.MaxRecords
	oldest, err := p.storage.Query(ctx, &audit.Query{
		SortBy:    query.SortRecordedTime,
		SortOrder: "asc",
		Limit:     int(toDelete),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to query records: %w", err)
	}
	if len(oldest) == 0 {
		return 0, nil
	}

	if p.config.ArchiveDir != "" {
		if err := p.archive(ctx, "count", oldest); err != nil {
			return 0, fmt.Errorf("archive failed: %w", err)
		}
	}

	cutoff := oldest[len(oldest)-1].RecordedTime
	deleted, err := p.storage.Delete(ctx, &audit.Query{EndTime: &cutoff})
	if err != nil {
		return 0, fmt.Errorf("delete failed: %w", err)
	}
	return deleted, nil
}

func (p *Pruner) archive(ctx context.Context, reason string, records []*audit.Record) error {
	if len(records) == 0 {
		return nil
	}

	if err := os.MkdirAll(p.config.ArchiveDir, 0o755); err != nil {
		return fmt.Errorf("failed to create archive directory: %w", err)
	}

	name := fmt.Sprintf("audit-%s-%s.json", reason, p.now().UTC().Format("20060102-150405.000000000"))
	path := filepath.Join(p.config.ArchiveDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create archive file: %w", err)
	}

	if err := export.NewJSONExporter(true).Export(ctx, records, f); err != nil {
		f.Close()
		return fmt.Errorf("failed to export records to archive: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close archive file: %w", err)
	}

	p.logger.Info("audit records archived",
		"archive_file", path,
		"record_count", len(records),
	)
	return nil
}

package recorder

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"shimmer-hq/shimmer/pkg/audit"
	"shimmer-hq/shimmer/pkg/config"
	"shimmer-hq/shimmer/pkg/telemetry/metrics"
)

// Outcomes reported to the audit_records_total metric.
const (
	ResultStored  = "stored"
	ResultDropped = "dropped"
	ResultFailed  = "failed"
)

// Config contains configuration for the audit recorder.
type Config struct {
	// AsyncBuffer is the size of the async write channel buffer.
	// Default: 1000
	AsyncBuffer int

	// WriteTimeout bounds both waiting for buffer space and each storage
	// write.
	// Default: 5 seconds
	WriteTimeout time.Duration
}

// DefaultConfig returns the default recorder configuration.
func DefaultConfig() *Config {
	return &Config{
		AsyncBuffer:  1000,
		WriteTimeout: 5 * time.Second,
	}
}

// FromConfig converts the recorder section of the configuration.
func FromConfig(cfg config.RecorderConfig) *Config {
	return &Config{
		AsyncBuffer:  cfg.AsyncBuffer,
		WriteTimeout: cfg.WriteTimeout,
	}
}

// Recorder writes audit records asynchronously so that line processing
// never waits on storage.
type Recorder struct {
	storage    audit.Storage
	config     *Config
	metrics    *metrics.Collector
	recordChan chan *audit.Record
	wg         sync.WaitGroup
	logger     *slog.Logger

	// done wakes senders blocked on a full buffer. closed is set under mu
	// once no send is in flight; only then is the worker told to drain.
	done      chan struct{}
	drain     chan struct{}
	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

// NewRecorder starts a recorder writing to storage. The collector may be nil.
func NewRecorder(storage audit.Storage, cfg *Config, collector *metrics.Collector) *Recorder {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.AsyncBuffer < 0 {
		cfg.AsyncBuffer = 0
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultConfig().WriteTimeout
	}

	r := &Recorder{
		storage:    storage,
		config:     cfg,
		metrics:    collector,
		recordChan: make(chan *audit.Record, cfg.AsyncBuffer),
		done:       make(chan struct{}),
		drain:      make(chan struct{}),
		logger:     slog.Default().With("component", "audit.recorder"),
	}

	r.wg.Add(1)
	go r.worker()

	r.logger.Debug("audit recorder initialized",
		"async_buffer", cfg.AsyncBuffer,
		"write_timeout", cfg.WriteTimeout,
	)

	return r
}

// Record enqueues a record for writing. A missing ID or RecordedTime is
// filled in. It returns a RecorderError when the buffer stays full for the
// write timeout, when ctx ends first, or when the recorder is closed.
func (r *Recorder) Record(ctx context.Context, record *audit.Record) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.RecordedTime.IsZero() {
		record.RecordedTime = time.Now()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		r.metrics.RecordAuditRecord(ResultDropped)
		return audit.NewRecorderError(record, context.Canceled)
	}

	timer := time.NewTimer(r.config.WriteTimeout)
	defer timer.Stop()

	select {
	case r.recordChan <- record:
		r.metrics.SetAuditQueueDepth(len(r.recordChan))
		return nil
	case <-timer.C:
		r.metrics.RecordAuditRecord(ResultDropped)
		r.logger.Error("audit channel full, dropping record",
			"record_id", record.ID,
			"run_id", record.RunID,
			"channel_capacity", r.config.AsyncBuffer,
		)
		return audit.NewRecorderError(record, context.DeadlineExceeded)
	case <-ctx.Done():
		r.metrics.RecordAuditRecord(ResultDropped)
		return audit.NewRecorderError(record, ctx.Err())
	case <-r.done:
		r.metrics.RecordAuditRecord(ResultDropped)
		r.logger.Warn("recorder shutting down, dropping record",
			"record_id", record.ID,
			"run_id", record.RunID,
		)
		return audit.NewRecorderError(record, context.Canceled)
	}
}

// Close stops accepting records, writes everything still buffered and
// waits for the worker to exit. It is safe to call more than once.
func (r *Recorder) Close() error {
	r.closeOnce.Do(func() {
		close(r.done)

		r.mu.Lock()
		r.closed = true
		r.mu.Unlock()

		close(r.drain)
		r.wg.Wait()
		r.logger.Debug("audit recorder shut down")
	})
	return nil
}

func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case record := <-r.recordChan:
			r.writeRecord(record)

		case <-r.drain:
			r.logger.Debug("draining audit channel before shutdown",
				"pending_count", len(r.recordChan),
			)
			for {
				select {
				case record := <-r.recordChan:
					r.writeRecord(record)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) writeRecord(record *audit.Record) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	start := time.Now()
	err := r.storage.Store(ctx, record)
	r.metrics.SetAuditQueueDepth(len(r.recordChan))
	if err != nil {
		r.metrics.RecordAuditRecord(ResultFailed)
		r.logger.Error("failed to store audit record",
			"record_id", record.ID,
			"run_id", record.RunID,
			"error", err,
		)
		return
	}
	r.metrics.RecordAuditRecord(ResultStored)

	duration := time.Since(start)
	if duration > r.config.WriteTimeout/2 {
		r.logger.Warn("slow audit write",
			"record_id", record.ID,
			"duration_ms", duration.Milliseconds(),
			"threshold_ms", (r.config.WriteTimeout / 2).Milliseconds(),
		)
	}
}

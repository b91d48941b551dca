package retention

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs a Pruner on a cron schedule. A prune still running when the
// next tick fires makes that tick a no-op.
type Scheduler struct {
	pruner *Pruner
	logger *slog.Logger

	mu   sync.Mutex
	cron *cron.Cron
	stop chan struct{}
}

// NewScheduler creates a new retention scheduler.
func NewScheduler(pruner *Pruner) *Scheduler {
	return &Scheduler{
		pruner: pruner,
		logger: slog.Default().With("component", "audit.scheduler"),
	}
}

// Start schedules pruning using the pruner's PruneSchedule (five-field cron
// syntax or a descriptor such as "@daily"). An empty schedule does nothing.
// The scheduler stops when ctx is done or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	schedule := s.pruner.config.PruneSchedule
	if schedule == "" {
		s.logger.Info("prune schedule not configured, audit records are pruned only on demand")
		return nil
	}
	if s.cron != nil {
		return nil
	}

	sched, err := cron.ParseStandard(schedule)
	if err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	c.Schedule(sched, cron.FuncJob(func() { s.prune(ctx) }))
	c.Start()

	s.cron = c
	s.stop = make(chan struct{})
	stop := s.stop

	s.logger.Info("retention scheduler started",
		"schedule", schedule,
		"retention_days", s.pruner.config.RetentionDays,
		"max_records", s.pruner.config.MaxRecords,
	)

	go func() {
		select {
		case <-ctx.Done():
			s.Stop()
		case <-stop:
		}
	}()

	return nil
}

func (s *Scheduler) prune(ctx context.Context) {
	start := time.Now()
	deleted, err := s.pruner.Prune(ctx)
	if err != nil {
		s.logger.Error("scheduled pruning failed", "error", err, "deleted_count", deleted)
		return
	}
	s.logger.Debug("scheduled pruning completed",
		"deleted_count", deleted,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

// Stop stops the scheduler and waits for a running prune to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	close(s.stop)
	s.cron = nil
	s.logger.Info("retention scheduler stopped")
}

// IsRunning reports whether pruning is scheduled.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cron != nil
}

// NextRun returns the next scheduled pruning time, or nil when nothing is
// scheduled.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil {
		return nil
	}
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}

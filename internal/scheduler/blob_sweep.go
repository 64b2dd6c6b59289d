package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateCronSchedule checks a standard 5-field cron expression.
func ValidateCronSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// BlobSweepScheduler runs the orphan sweep on a cron schedule.
type BlobSweepScheduler struct {
	sweeper  *Sweeper
	schedule string

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.RWMutex
	isRunning bool
	stopMu    sync.Mutex
	runMu     sync.Mutex
	ctx       context.Context
}

// NewBlobSweepScheduler creates a new scheduler instance
func NewBlobSweepScheduler(sweeper *Sweeper, schedule string) *BlobSweepScheduler {
	return &BlobSweepScheduler{
		sweeper:  sweeper,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(cronParser)),
	}
}

// Start schedules the sweep. Cancelling ctx stops the scheduler.
func (s *BlobSweepScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.runSweep()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule blob sweep: %w", err)
	}
	s.entryID = entryID
	s.ctx = ctx

	s.cron.Start()
	s.isRunning = true

	slog.Info("blob sweep scheduler started", "schedule", s.schedule, "next_run", s.cron.Entry(entryID).Next)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running sweep to finish. Concurrent callers all return
// after the drain.
func (s *BlobSweepScheduler) Stop() {
	s.stopMu.Lock()
	defer s.stopMu.Unlock()

	// mu is released before draining; the sweep itself reads it
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.mu.Unlock()

	done := s.cron.Stop()
	<-done.Done()
	s.cron.Remove(s.entryID)

	slog.Info("blob sweep scheduler stopped")
}

// IsRunning returns whether the scheduler is active
func (s *BlobSweepScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns when the next sweep will occur.
func (s *BlobSweepScheduler) NextRun() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	next := s.cron.Entry(s.entryID).Next
	return &next
}

func (s *BlobSweepScheduler) runSweep() {
	// overlapping runs would race on the same candidates
	if !s.runMu.TryLock() {
		slog.Warn("blob sweep skipped, previous run still active")
		return
	}
	defer s.runMu.Unlock()

	// set in Start before the cron loop runs
	ctx := s.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := s.sweeper.Sweep(ctx, false)
	if err != nil {
		slog.Error("blob sweep failed", "error", err)
		return
	}
	attrs := []any{
		"scanned", result.Scanned,
		"orphaned", result.Orphaned,
		"deleted", result.Deleted,
		"failed", result.Failed,
		"duration", result.Duration.Round(time.Millisecond),
	}
	if next := s.NextRun(); next != nil {
		attrs = append(attrs, "next_run", *next)
	}
	slog.Info("blob sweep finished", attrs...)
}

package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// BlobSource lists and deletes stored blobs.
type BlobSource interface {
	ListIDs(ctx context.Context, olderThan time.Time) ([]string, error)
	Delete(ctx context.Context, id string) error
}

// ReferenceSource reports which blob ids books still point at.
type ReferenceSource interface {
	ReferencedBlobIDs(ctx context.Context) (map[string]struct{}, error)
}

// SweepResult summarises one sweep.
type SweepResult struct {
	Scanned  int
	Orphaned int
	Deleted  int
	Failed   int
	Duration time.Duration
}

// Sweeper deletes blobs that no book references. Blobs younger than the
// grace period are skipped so uploads of an in-flight replace survive.
type Sweeper struct {
	blobs BlobSource
	refs  ReferenceSource
	grace time.Duration
	now   func() time.Time
}

func NewSweeper(blobs BlobSource, refs ReferenceSource, grace time.Duration) *Sweeper {
	return &Sweeper{blobs: blobs, refs: refs, grace: grace, now: time.Now}
}

// Sweep runs once. With dryRun set it only counts orphans.
func (s *Sweeper) Sweep(ctx context.Context, dryRun bool) (SweepResult, error) {
	start := s.now()
	var result SweepResult

	// list before reading references: anything committed in between is seen
	candidates, err := s.blobs.ListIDs(ctx, start.Add(-s.grace))
	if err != nil {
		return result, fmt.Errorf("failed to list blobs: %w", err)
	}
	result.Scanned = len(candidates)

	referenced, err := s.refs.ReferencedBlobIDs(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to load blob references: %w", err)
	}

	for _, id := range candidates {
		if _, ok := referenced[id]; ok {
			continue
		}
		result.Orphaned++
		if dryRun {
			continue
		}
		if err := s.blobs.Delete(ctx, id); err != nil {
			result.Failed++
			slog.Warn("failed to delete orphaned blob", "blob_id", id, "error", err)
			continue
		}
		result.Deleted++
	}

	result.Duration = time.Since(start)
	return result, nil
}

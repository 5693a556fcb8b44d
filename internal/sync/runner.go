// Package sync implements the listing synchronization run: one pass of
// count, cursor resolution, page fetch, map-and-upsert, and cursor advance.
package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/listing-sync/internal/errors"
	"github.com/listing-sync/internal/feed"
	"github.com/listing-sync/internal/logging"
	"github.com/listing-sync/internal/models"
)

// DefaultPageSize is the fixed upstream page window.
const DefaultPageSize = 200

// Fetcher issues the two remote queries of a run.
type Fetcher interface {
	FetchCount(ctx context.Context) (int, error)
	FetchPage(ctx context.Context, offset, top int) ([]feed.Property, error)
}

// CursorStore persists the pagination offset between runs.
type CursorStore interface {
	Get(ctx context.Context, jobName string) (int, error)
	Set(ctx context.Context, jobName string, offset int) error
}

// ListingWriter persists one mapped listing.
type ListingWriter interface {
	Upsert(ctx context.Context, listing *models.Listing) error
}

// Locker serializes runs per job name.
type Locker interface {
	TryAcquire(ctx context.Context, jobName string) (release func(), ok bool, err error)
}

// Runner executes sync runs. It holds no per-run state; each Run is a single
// sequential pass with no internal parallelism.
type Runner struct {
	jobName  string
	pageSize int
	fetcher  Fetcher
	cursors  CursorStore
	writer   ListingWriter
	locker   Locker
}

// RunnerConfig holds configuration for a sync runner
type RunnerConfig struct {
	JobName  string
	PageSize int
	Fetcher  Fetcher
	Cursors  CursorStore
	Writer   ListingWriter
	Locker   Locker // optional; nil disables run serialization
}

// NewRunner creates a new sync runner
func NewRunner(cfg *RunnerConfig) (*Runner, error) {
	if cfg.Fetcher == nil {
		return nil, fmt.Errorf("fetcher cannot be nil")
	}
	if cfg.Cursors == nil {
		return nil, fmt.Errorf("cursor store cannot be nil")
	}
	if cfg.Writer == nil {
		return nil, fmt.Errorf("listing writer cannot be nil")
	}
	if cfg.JobName == "" {
		return nil, fmt.Errorf("job name cannot be empty")
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	return &Runner{
		jobName:  cfg.JobName,
		pageSize: pageSize,
		fetcher:  cfg.Fetcher,
		cursors:  cfg.Cursors,
		writer:   cfg.Writer,
		locker:   cfg.Locker,
	}, nil
}

// Run executes one sync pass. Fetch failures abort the run before any write
// and leave the cursor untouched, so the same window is retried on the next
// invocation. Per-record write failures are counted and never abort the page.
func (r *Runner) Run(ctx context.Context) (*models.SyncReport, error) {
	started := time.Now()
	runID := uuid.NewString()
	logger := logging.FromContext(ctx).WithFields(map[string]interface{}{
		"run_id": runID,
		"job":    r.jobName,
	})
	ctx = logging.WithLogger(ctx, logger)

	if r.locker != nil {
		release, ok, err := r.locker.TryAcquire(ctx, r.jobName)
		if err != nil {
			return nil, errors.NewDatabaseError("acquire run lock", err)
		}
		if !ok {
			logger.Warn("Skipping run: another run holds the job lock")
			return nil, errors.NewRunInProgressError(r.jobName)
		}
		defer release()
	}

	report := &models.SyncReport{RunID: runID, JobName: r.jobName}

	total, err := r.fetcher.FetchCount(ctx)
	if err != nil {
		return nil, errors.NewUpstreamError("count query failed", err)
	}
	report.Total = total

	if total == 0 {
		// Nothing upstream: finish with no side effects, cursor untouched.
		logger.Info("No active listings upstream, nothing to sync")
		report.Duration = time.Since(started)
		report.CompletedAt = time.Now().UTC()
		return report, nil
	}

	cursor, err := r.cursors.Get(ctx, r.jobName)
	if err != nil {
		return nil, errors.NewDatabaseError("read sync cursor", err)
	}
	offset := models.ResolveOffset(cursor, total)
	report.Offset = offset

	logger.Infof("Total records: %d, starting offset: %d", total, offset)

	page, err := r.fetcher.FetchPage(ctx, offset, r.pageSize)
	if err != nil {
		return nil, errors.NewUpstreamError("page query failed", err)
	}

	// An empty page with a non-zero total is upstream drift between the
	// count and page queries, not an error; the cursor still advances.
	for i := range page {
		listing := feed.MapProperty(&page[i])
		if err := r.writer.Upsert(ctx, listing); err != nil {
			report.Failed++
			logger.WithFields(map[string]interface{}{
				"listing_id": listing.ListingID,
				"error":      err.Error(),
			}).Error("Listing upsert failed")
			continue
		}
		report.Upserted++
	}

	next := models.NextOffset(offset, r.pageSize, total)
	if err := r.cursors.Set(ctx, r.jobName, next); err != nil {
		return nil, errors.NewDatabaseError("persist sync cursor", err)
	}
	report.NextOffset = next

	report.Duration = time.Since(started)
	report.CompletedAt = time.Now().UTC()
	logger.WithFields(map[string]interface{}{
		"upserted":    report.Upserted,
		"failed":      report.Failed,
		"next_offset": report.NextOffset,
		"duration":    report.Duration.String(),
	}).Info("Sync run complete")

	return report, nil
}

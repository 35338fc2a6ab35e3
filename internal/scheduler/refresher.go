// Package scheduler periodically merges the playlist feed into tracker state.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrDisabled is returned by Run when no schedule is configured.
var ErrDisabled = errors.New("refresh schedule disabled")

const runTimeout = 2 * time.Minute

// RefreshFunc merges the feed and returns the number of new problems.
type RefreshFunc func(ctx context.Context) (int, error)

// Refresher runs a RefreshFunc on a cron schedule.
type Refresher struct {
	cron     *cron.Cron
	refresh  RefreshFunc
	logger   *slog.Logger
	schedule string

	mu      sync.Mutex
	running bool
}

// New constructs a Refresher. An empty schedule disables it.
func New(refresh RefreshFunc, schedule string, logger *slog.Logger) *Refresher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Refresher{
		cron:     cron.New(),
		refresh:  refresh,
		logger:   logger,
		schedule: schedule,
	}
}

// Enabled reports whether a schedule is configured.
func (r *Refresher) Enabled() bool {
	return r.schedule != ""
}

// Run schedules the job and blocks until ctx is cancelled.
func (r *Refresher) Run(ctx context.Context) error {
	if !r.Enabled() {
		return ErrDisabled
	}
	if _, err := r.cron.AddFunc(r.schedule, r.runOnce); err != nil {
		return err
	}

	r.logger.Info("Starting feed refresh scheduler", "cron", r.schedule)
	r.cron.Start()

	<-ctx.Done()
	stopCtx := r.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
		r.logger.Warn("Feed refresh still running at shutdown")
	}
	r.logger.Info("Feed refresh scheduler stopped")
	return nil
}

// runOnce refreshes once. Overlapping runs are skipped.
func (r *Refresher) runOnce() {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		r.logger.Warn("Previous feed refresh still running, skipping")
		return
	}
	r.running = true
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	start := time.Now()
	added, err := r.refresh(ctx)
	if err != nil {
		r.logger.Error("Scheduled feed refresh failed", "error", err)
		return
	}
	r.logger.Info("Scheduled feed refresh complete", "added", added, "duration_ms", time.Since(start).Milliseconds())
}

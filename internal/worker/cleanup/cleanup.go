// Package cleanup runs periodic housekeeping for the inventory server: it
// purges token revocations that have expired anyway and refreshes the
// per-category item gauges.
package cleanup

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/erazemk/freshrack/internal/expiry"
	"github.com/erazemk/freshrack/internal/store"
)

// StatsObserver receives the item counts computed on each run.
type StatsObserver interface {
	ObserveStats(expiry.Summary)
}

// Job is the periodic housekeeping task.
type Job struct {
	db       *sql.DB
	logger   *slog.Logger
	observer StatsObserver

	Interval time.Duration
	Now      func() time.Time
}

// NewJob creates a Job that runs every interval. observer may be nil.
func NewJob(db *sql.DB, logger *slog.Logger, observer StatsObserver, interval time.Duration) *Job {
	return &Job{
		db:       db,
		logger:   logger,
		observer: observer,
		Interval: interval,
		Now:      time.Now,
	}
}

// Run performs one housekeeping pass.
func (j *Job) Run(ctx context.Context) error {
	start := time.Now()
	now := j.Now()

	purged, err := store.PurgeRevokedTokens(ctx, j.db, now)
	if err != nil {
		j.logger.Error("token cleanup failed", "error", err)
		return fmt.Errorf("purging revoked tokens: %w", err)
	}

	var summary expiry.Summary
	if j.observer != nil {
		policy, err := store.GetExpiryPolicy(ctx, j.db)
		if err != nil {
			return fmt.Errorf("loading expiry policy: %w", err)
		}
		summary, err = store.FoodStats(ctx, j.db, now, policy)
		if err != nil {
			j.logger.Error("computing food stats failed", "error", err)
			return fmt.Errorf("computing food stats: %w", err)
		}
		j.observer.ObserveStats(summary)
	}

	j.logger.Info("cleanup finished",
		"purged_tokens", purged,
		"expired_foods", summary.Expired,
		"nearly_expiring_foods", summary.NearlyExpiring,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return nil
}

// Start runs the job immediately and then every Interval until ctx is done.
// Failed runs are logged and retried on the next tick.
func (j *Job) Start(ctx context.Context) {
	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()

	for {
		_ = j.Run(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

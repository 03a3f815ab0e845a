package reaper

import (
	"context"
	"time"

	"procal/internal/holds/repository"
	"procal/pkg/config"
)

// Reaper physically removes expired slot locks. Every read path already
// treats an expired lock as absent, so sweeping is pure garbage collection:
// a missed or partial sweep never changes what callers observe.
type Reaper struct {
	repo repository.HoldRepository
	cfg  *config.Config
	now  func() time.Time
}

func New(repo repository.HoldRepository, cfg *config.Config) *Reaper {
	return &Reaper{
		repo: repo,
		cfg:  cfg,
		now:  time.Now,
	}
}

// Sweep deletes expired locks in bounded batches until the backlog is
// drained or the context is cancelled. The expiry cutoff is fixed at entry
// so one sweep cannot chase a moving target. Concurrent sweeps are
// harmless: both delete the same dead rows, one of them just deletes fewer.
func (r *Reaper) Sweep(ctx context.Context) (int64, error) {
	cutoff := r.now().UTC()
	var total int64

	for {
		deleted, err := r.repo.DeleteExpiredLocks(ctx, cutoff, r.cfg.ReaperBatchSize)
		if err != nil {
			return total, err
		}
		total += deleted

		if deleted < int64(r.cfg.ReaperBatchSize) {
			return total, nil
		}

		// Yield between full batches so the sweep never monopolizes the
		// collection.
		select {
		case <-ctx.Done():
			return total, ctx.Err()
		case <-time.After(r.cfg.ReaperBatchDelay):
		}
	}
}

// Run drives sweeps on a fixed ticker until the context is cancelled. An
// immediate first sweep clears any backlog accumulated while the worker
// was down.
func (r *Reaper) Run(ctx context.Context) {
	r.sweepAndLog(ctx)

	ticker := time.NewTicker(r.cfg.ReaperInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.cfg.Log.Info("Lock reaper stopping", "reason", ctx.Err())
			return
		case <-ticker.C:
			r.sweepAndLog(ctx)
		}
	}
}

func (r *Reaper) sweepAndLog(ctx context.Context) {
	start := time.Now()
	deleted, err := r.Sweep(ctx)
	if err != nil {
		r.cfg.Log.Error("Lock sweep failed",
			"deleted", deleted,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return
	}
	r.cfg.Log.Info("Lock sweep completed",
		"deleted", deleted,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

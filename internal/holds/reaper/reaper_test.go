package reaper

import (
	"context"
	"errors"
	"testing"
	"time"

	"procal/internal/holds/repository"
	"procal/pkg/config"
	"procal/pkg/logger"
)

// mockHoldRepository embeds the interface so only the sweep path needs a
// real implementation; the reaper never touches the rest.
type mockHoldRepository struct {
	repository.HoldRepository

	deleteExpiredFunc func(ctx context.Context, now time.Time, limit int) (int64, error)
}

func (m *mockHoldRepository) DeleteExpiredLocks(ctx context.Context, now time.Time, limit int) (int64, error) {
	return m.deleteExpiredFunc(ctx, now, limit)
}

func newTestReaper(repo repository.HoldRepository, batchSize int, now time.Time) *Reaper {
	return &Reaper{
		repo: repo,
		cfg: &config.Config{
			Log: logger.New(logger.Config{
				Level:   "error",
				Format:  logger.JSON,
				Service: "test",
			}),
			ReaperBatchSize:  batchSize,
			ReaperBatchDelay: time.Millisecond,
		},
		now: func() time.Time { return now },
	}
}

var testNow = time.Date(2025, time.June, 2, 8, 0, 0, 0, time.UTC)

func TestSweep_DrainsBacklogInBatches(t *testing.T) {
	batches := []int64{2, 2, 1}
	var calls int
	var cutoffs []time.Time

	repo := &mockHoldRepository{
		deleteExpiredFunc: func(ctx context.Context, now time.Time, limit int) (int64, error) {
			if limit != 2 {
				t.Errorf("batch limit = %d, want 2", limit)
			}
			cutoffs = append(cutoffs, now)
			deleted := batches[calls]
			calls++
			return deleted, nil
		},
	}
	r := newTestReaper(repo, 2, testNow)

	total, err := r.Sweep(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 5 {
		t.Errorf("total deleted = %d, want 5", total)
	}
	if calls != 3 {
		t.Errorf("batch calls = %d, want 3", calls)
	}
	for i, cutoff := range cutoffs {
		if !cutoff.Equal(testNow) {
			t.Errorf("batch %d used cutoff %v, want the sweep start %v", i, cutoff, testNow)
		}
	}
}

func TestSweep_EmptyBacklog(t *testing.T) {
	var calls int
	repo := &mockHoldRepository{
		deleteExpiredFunc: func(ctx context.Context, now time.Time, limit int) (int64, error) {
			calls++
			return 0, nil
		},
	}
	r := newTestReaper(repo, 100, testNow)

	total, err := r.Sweep(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 0 {
		t.Errorf("total deleted = %d, want 0", total)
	}
	if calls != 1 {
		t.Errorf("batch calls = %d, want 1", calls)
	}
}

func TestSweep_ReturnsPartialTotalOnError(t *testing.T) {
	dbErr := errors.New("connection reset")
	var calls int
	repo := &mockHoldRepository{
		deleteExpiredFunc: func(ctx context.Context, now time.Time, limit int) (int64, error) {
			calls++
			if calls == 2 {
				return 0, dbErr
			}
			return 3, nil
		},
	}
	r := newTestReaper(repo, 3, testNow)

	total, err := r.Sweep(context.Background())
	if !errors.Is(err, dbErr) {
		t.Fatalf("expected repository error, got %v", err)
	}
	if total != 3 {
		t.Errorf("total deleted = %d, want 3 from the first batch", total)
	}
}

func TestSweep_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var calls int
	repo := &mockHoldRepository{
		deleteExpiredFunc: func(ctx context.Context, now time.Time, limit int) (int64, error) {
			calls++
			cancel()
			return 1, nil
		},
	}
	r := newTestReaper(repo, 1, testNow)

	total, err := r.Sweep(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if total != 1 {
		t.Errorf("total deleted = %d, want 1", total)
	}
	if calls != 1 {
		t.Errorf("batch calls = %d, want 1 before cancellation", calls)
	}
}

func TestRun_StopsWhenContextCancelled(t *testing.T) {
	repo := &mockHoldRepository{
		deleteExpiredFunc: func(ctx context.Context, now time.Time, limit int) (int64, error) {
			return 0, nil
		},
	}
	r := newTestReaper(repo, 10, testNow)
	r.cfg.ReaperInterval = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("reaper did not stop after context cancellation")
	}
}

package ledger

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/thehfhotel/loyalty-backend/internal/metrics"
)

// ErrSweepRunning is returned when a sweep pass is requested while another
// one is still in progress.
var ErrSweepRunning = errors.New("expiry sweep already running")

// Expirer is the slice of the engine the sweeper drives.
type Expirer interface {
	ListExpirable(ctx context.Context, now time.Time, limit int) ([]ExpirableTransaction, error)
	Expire(ctx context.Context, customerID, transactionID uuid.UUID) (*ExpireResult, error)
}

// SweepResult summarizes one sweep pass.
type SweepResult struct {
	Scanned int `json:"scanned"`
	Expired int `json:"expired"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Sweeper periodically finds earned transactions whose points are past their
// expiry and retires them through the engine, one compensating entry each.
// Failures on individual entries are logged and skipped so one bad row cannot
// stall the rest of the pass.
type Sweeper struct {
	engine   Expirer
	interval time.Duration
	batch    int

	running atomic.Bool

	mu     sync.Mutex
	lastAt time.Time
	last   *SweepResult
}

// NewSweeper creates a Sweeper that processes up to batch entries per
// ListExpirable round.
func NewSweeper(engine Expirer, interval time.Duration, batch int) *Sweeper {
	if batch < 1 {
		batch = 100
	}
	return &Sweeper{engine: engine, interval: interval, batch: batch}
}

// Start runs the sweep loop until ctx is cancelled. A pass that fails or
// overlaps a manual trigger is logged and the loop keeps ticking.
func (s *Sweeper) Start(ctx context.Context) {
	slog.Info("expiry sweeper started",
		"interval", s.interval.String(),
		"batchSize", s.batch,
	)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("expiry sweeper stopped")
			return
		case <-ticker.C:
			if _, err := s.SweepOnce(ctx); err != nil && !errors.Is(err, ErrSweepRunning) {
				slog.Error("expiry sweep failed", "error", err)
			}
		}
	}
}

// SweepOnce runs a single sweep pass. At most one pass runs at a time across
// the ticker and manual triggers; a concurrent call gets ErrSweepRunning.
func (s *Sweeper) SweepOnce(ctx context.Context) (*SweepResult, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrSweepRunning
	}
	defer s.running.Store(false)

	start := time.Now()
	metrics.SweepRunning.Set(1)
	defer metrics.SweepRunning.Set(0)

	result := &SweepResult{}
	for {
		due, err := s.engine.ListExpirable(ctx, time.Now(), s.batch)
		if err != nil {
			return result, err
		}
		if len(due) == 0 {
			break
		}
		result.Scanned += len(due)

		progressed := 0
		for _, entry := range due {
			if err := ctx.Err(); err != nil {
				s.record(result)
				return result, err
			}

			res, err := s.engine.Expire(ctx, entry.CustomerID, entry.ID)
			if err != nil {
				result.Failed++
				slog.Error("expiring transaction failed",
					"transactionId", entry.ID,
					"customerId", entry.CustomerID,
					"error", err,
				)
				continue
			}
			if res.AlreadyExpired {
				result.Skipped++
				progressed++
				continue
			}
			result.Expired++
			progressed++
		}

		if len(due) < s.batch {
			break
		}
		// Failed entries stay visible to ListExpirable. Without progress the
		// next round would return the same batch, so leave them for the next
		// tick instead of spinning.
		if progressed == 0 {
			break
		}
	}

	s.record(result)
	metrics.SweepDuration.Observe(time.Since(start).Seconds())

	if result.Scanned > 0 {
		slog.Info("expiry sweep finished",
			"scanned", result.Scanned,
			"expired", result.Expired,
			"skipped", result.Skipped,
			"failed", result.Failed,
			"duration", time.Since(start).String(),
		)
	}

	return result, nil
}

// Running reports whether a sweep pass is in progress.
func (s *Sweeper) Running() bool {
	return s.running.Load()
}

// LastSweep returns when the most recent pass finished and its result, or a
// zero time when no pass has completed yet.
func (s *Sweeper) LastSweep() (time.Time, *SweepResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAt, s.last
}

func (s *Sweeper) record(result *SweepResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAt = time.Now()
	s.last = result
}

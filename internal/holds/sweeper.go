package holds

import (
	"context"
	"time"

	"cinephoria/internal/shared/apperrors"
	"cinephoria/pkg/logger"
	"cinephoria/pkg/metrics"
)

// Clock returns the current time. Injected so TTL behaviour can be tested.
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

// Sweeper deletes expired carts and their holds. It is idempotent and runs before every
// operation that reads or writes holds; a failed sweep aborts that operation.
type Sweeper struct {
	repo    Repository
	clock   Clock
	log     *logger.Logger
	metrics *metrics.Metrics
}

func NewSweeper(repo Repository, clock Clock, m *metrics.Metrics) *Sweeper {
	if clock == nil {
		clock = systemClock
	}
	return &Sweeper{repo: repo, clock: clock, log: logger.GetDefault(), metrics: m}
}

// Sweep runs one sweep in its own transaction.
func (s *Sweeper) Sweep(ctx context.Context) error {
	return s.repo.WithTx(ctx, func(tx Repository) error {
		return s.SweepTx(ctx, tx)
	})
}

// SweepTx runs one sweep inside the caller's transaction.
func (s *Sweeper) SweepTx(ctx context.Context, tx Repository) error {
	result, err := tx.SweepExpired(ctx, s.clock())
	if err != nil {
		s.metrics.SweepFailed()
		return apperrors.Internal("sweep expired holds", err)
	}
	if result.Holds > 0 || result.Carts > 0 {
		s.metrics.HoldsSwept(result.Holds)
		s.log.LogHoldsSwept(ctx, result.Carts, result.Holds)
	}
	return nil
}

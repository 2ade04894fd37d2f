package holds

import (
	"context"
	"time"

	"cinephoria/pkg/logger"

	"github.com/go-co-op/gocron/v2"
)

// StartSweepScheduler runs the sweeper every interval in the background. Requests still
// sweep on access; this only keeps the ledger small when traffic is low.
// The returned scheduler must be shut down by the caller.
func StartSweepScheduler(sweeper *Sweeper, interval time.Duration) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, err
	}

	log := logger.GetDefault()
	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			defer cancel()
			if err := sweeper.Sweep(ctx); err != nil {
				log.WithError(err).Error("background hold sweep failed")
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, err
	}

	s.Start()
	log.Info("hold sweep scheduler started", "interval", interval.String())
	return s, nil
}

package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"fleet/config"
	bookingService "fleet/internal/domains/booking/service"
)

const DefaultAutoReturnInterval = 10 * time.Second

// Sweeper is the booking-service operation the job drives.
type Sweeper interface {
	SweepExpired(ctx context.Context) (int, error)
}

// AutoReturn periodically returns bookings whose rental window has elapsed.
// The first sweep runs immediately on Start; subsequent sweeps run on the
// configured interval until the context is cancelled or Stop is called.
type AutoReturn struct {
	sweeper  Sweeper
	interval time.Duration

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewAutoReturn(sweeper Sweeper, interval time.Duration) *AutoReturn {
	if interval <= 0 {
		interval = DefaultAutoReturnInterval
	}

	return &AutoReturn{
		sweeper:  sweeper,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func NewAutoReturnFromConfig(cfg *config.Config, svc bookingService.Booking) *AutoReturn {
	interval := time.Duration(cfg.Job.AutoReturn.IntervalSeconds) * time.Second

	return NewAutoReturn(svc, interval)
}

func (j *AutoReturn) Start(ctx context.Context) {
	log.Info().Dur("interval", j.interval).Msg("starting auto-return job")

	go func() {
		defer close(j.done)

		j.runOnce(ctx)

		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("auto-return job stopped: context cancelled")

				return
			case <-j.stop:
				log.Info().Msg("auto-return job stopped")

				return
			case <-ticker.C:
				j.runOnce(ctx)
			}
		}
	}()
}

// Stop halts the job and waits for the in-flight sweep to finish.
func (j *AutoReturn) Stop() {
	j.stopOnce.Do(func() {
		close(j.stop)
	})

	<-j.done
}

func (j *AutoReturn) runOnce(ctx context.Context) {
	swept, err := j.sweeper.SweepExpired(ctx)
	if err != nil {
		log.Error().Err(err).Msg("auto-return sweep failed")

		return
	}

	if swept > 0 {
		log.Info().Int("returned", swept).Msg("auto-return sweep completed")
	}
}

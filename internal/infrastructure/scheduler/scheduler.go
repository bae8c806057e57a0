// Package scheduler runs the expired-admin sweep on a fixed interval.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/99minutos/user-admin/internal/core/ports"
)

const sweepTimeout = 2 * time.Minute

type Scheduler struct {
	cron     *cron.Cron
	sweeper  ports.Sweeper
	interval time.Duration
	onStart  bool
	log      zerolog.Logger
}

// New creates a scheduler that runs sweeper every interval. When onStart is
// true one sweep also runs as soon as Start is called.
func New(sweeper ports.Sweeper, interval time.Duration, onStart bool, log zerolog.Logger) *Scheduler {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	return &Scheduler{
		cron:     c,
		sweeper:  sweeper,
		interval: interval,
		onStart:  onStart,
		log:      log,
	}
}

// Start registers the sweep job and starts the cron runner. ctx bounds every
// sweep run.
func (s *Scheduler) Start(ctx context.Context) error {
	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("schedule sweep %q: %w", spec, err)
	}

	if s.onStart {
		go s.RunOnce(ctx)
	}

	s.cron.Start()
	s.log.Info().Dur("interval", s.interval).Msg("sweep scheduler started")
	return nil
}

// RunOnce performs a single sweep. Failures are logged and never propagate.
func (s *Scheduler) RunOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	runCtx, cancel := context.WithTimeout(ctx, sweepTimeout)
	defer cancel()

	res, err := s.sweeper.Sweep(runCtx)
	if err != nil {
		s.log.Error().Err(err).Msg("expired admin sweep failed")
		return
	}
	s.log.Debug().
		Int("scanned", res.Scanned).
		Int64("demoted", res.Demoted).
		Msg("sweep tick")
}

// Stop halts the runner and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info().Msg("sweep scheduler stopped")
}

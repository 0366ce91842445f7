package session

import (
	"context"
	"fmt"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"

	"lol-coach/internal/constants"
)

// Sweeper deletes expired sessions on a fixed schedule. Started and stopped
// through the fx lifecycle.
type Sweeper struct {
	store  Store
	sched  gocron.Scheduler
	logger zerolog.Logger
}

func NewSweeper(store Store, logger zerolog.Logger) (*Sweeper, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	return &Sweeper{store: store, sched: sched, logger: logger}, nil
}

func (s *Sweeper) Start() error {
	_, err := s.sched.NewJob(
		gocron.DurationJob(constants.SessionSweepPeriod),
		gocron.NewTask(s.sweep),
	)
	if err != nil {
		return fmt.Errorf("schedule session sweep: %w", err)
	}
	s.sched.Start()
	s.logger.Info().Dur("period", constants.SessionSweepPeriod).Msg("session sweeper started")
	return nil
}

func (s *Sweeper) Stop() error {
	return s.sched.Shutdown()
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), constants.DatabaseTimeout)
	defer cancel()

	n, err := s.store.PurgeExpired(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("session sweep failed")
		return
	}
	if n > 0 {
		s.logger.Info().Int("purged", n).Msg("expired sessions purged")
	}
}

// Package scheduler runs the periodic sweep over all active recurrence
// rules.
package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/prospera-financas/backend/internal/recurrence"
	"github.com/prospera-financas/backend/internal/types"
)

// DefaultInterval is the sweep interval used when none is configured.
const DefaultInterval = time.Minute

// Scheduler triggers the recurrence engine on a fixed wall clock interval.
// It shares the engine, and therefore the same catch-up semantics, with the
// on-demand HTTP triggers.
type Scheduler struct {
	engine   *recurrence.Engine
	interval time.Duration
}

// New returns a Scheduler sweeping every interval.
func New(engine *recurrence.Engine, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Scheduler{
		engine:   engine,
		interval: interval,
	}
}

// Run sweeps once immediately, then on every tick until ctx is canceled.
//
// Sweep errors are logged, never retried in place: the rule's next due date
// only advances past committed firings, so the next tick resumes from the
// correct point.
func (s *Scheduler) Run(ctx context.Context) {
	log.Info().Dur("interval", s.interval).Msg("recurrence sweep started")

	s.sweep()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("recurrence sweep stopped")
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Scheduler) sweep() {
	result, err := s.engine.ProcessAll(types.Today())
	if err != nil {
		log.Error().Err(err).Int("generated", result.Generated).Msg("recurrence sweep failed")
		return
	}

	if result.Generated > 0 {
		log.Info().Int("generated", result.Generated).Msg("recurrence sweep posted transactions")
	}
}

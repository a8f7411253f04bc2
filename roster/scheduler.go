/*
scheduler.go - Periodic roster refresh

PURPOSE:
  Re-fetches the employee feed on a fixed interval so the cached run tracks
  both feed changes and the passing of calendar months.

DESIGN:
  - Run blocks until ctx is cancelled; the caller owns the goroutine
  - A failed refresh is logged and the previous run keeps being served
  - Interval <= 0 disables the loop (Run returns immediately)

USAGE:
  sched := roster.NewScheduler(svc, 24*time.Hour)
  group.Go(func() error { return sched.Run(ctx) })
*/
package roster

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Refresher is the part of Service the scheduler drives.
type Refresher interface {
	Refresh(ctx context.Context) (*Run, error)
}

// Scheduler refreshes the roster every Interval.
type Scheduler struct {
	Refresher Refresher
	Interval  time.Duration
	Log       zerolog.Logger

	failures atomic.Int64
}

// NewScheduler creates a scheduler for svc.
func NewScheduler(svc *Service, interval time.Duration) *Scheduler {
	return &Scheduler{Refresher: svc, Interval: interval, Log: svc.Log}
}

// Failures returns how many refreshes have failed since start.
func (s *Scheduler) Failures() int64 { return s.failures.Load() }

// Run refreshes on every tick until ctx is done. It always returns nil
// once ctx is cancelled, so it can run inside an errgroup.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.Interval <= 0 {
		return nil
	}

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Log.Info().Dur("interval", s.Interval).Msg("refresh scheduler started")

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if _, err := s.Refresher.Refresh(ctx); err != nil {
		s.failures.Add(1)
		s.Log.Error().Err(err).Msg("scheduled refresh failed")
	}
}

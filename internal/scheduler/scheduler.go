// Package scheduler runs the periodic maintenance jobs.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Expirer marks deals whose expiry has passed.
type Expirer interface {
	ExpireDeals(ctx context.Context) (int64, error)
}

// Scheduler runs the deal expiry job on a cron schedule.
type Scheduler struct {
	expirer  Expirer
	schedule string
	cron     *cron.Cron
	log      zerolog.Logger

	mu      sync.Mutex
	running bool
}

func New(expirer Expirer, schedule string, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		expirer:  expirer,
		schedule: schedule,
		cron:     cron.New(),
		log:      log.With().Str("component", "scheduler").Logger(),
	}
}

// Start registers the job and starts the cron loop. An empty schedule
// disables the scheduler. The scheduler stops when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" {
		s.log.Info().Msg("expiry schedule not configured, skipping scheduler")
		return nil
	}
	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}
	if _, err := s.cron.AddFunc(s.schedule, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule deal expiry: %w", err)
	}

	s.cron.Start()
	s.running = true
	s.log.Info().Str("schedule", s.schedule).Msg("scheduler started")

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// RunOnce executes one expiry pass.
func (s *Scheduler) RunOnce(ctx context.Context) {
	n, err := s.expirer.ExpireDeals(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("deal expiry failed")
		return
	}
	s.log.Debug().Int64("expired", n).Msg("deal expiry pass completed")
}

// Stop stops the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
	s.log.Info().Msg("scheduler stopped")
}

func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next scheduled run, or nil when nothing is scheduled.
func (s *Scheduler) NextRun() *time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}

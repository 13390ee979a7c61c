package scheduler

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// Evictor drops live quiz sessions idle for longer than ttl.
type Evictor interface {
	EvictIdle(ttl time.Duration) int
}

// Scheduler runs background housekeeping for the quiz service.
type Scheduler struct {
	scheduler *gocron.Scheduler
	evictor   Evictor
	ttl       time.Duration
	interval  time.Duration
	logger    *slog.Logger
}

// New creates a scheduler that evicts sessions idle for ttl every interval.
func New(evictor Evictor, ttl, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		evictor:   evictor,
		ttl:       ttl,
		interval:  interval,
		logger:    logger,
	}
}

// Start schedules the eviction job and runs the scheduler in the background.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		return fmt.Errorf("schedule session eviction: interval must be positive, got %s", s.interval)
	}
	if _, err := s.scheduler.Every(s.interval).WaitForSchedule().Do(s.evictIdle); err != nil {
		return fmt.Errorf("schedule session eviction: %w", err)
	}
	s.scheduler.StartAsync()
	s.logger.Info("scheduler started", "interval", s.interval.String(), "session_ttl", s.ttl.String())
	return nil
}

// Stop terminates all scheduled jobs.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) evictIdle() {
	n := s.evictor.EvictIdle(s.ttl)
	s.logger.Debug("idle session sweep", "evicted", n)
}

package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/ankicode/internal/config"
	"github.com/example/ankicode/internal/digest"
	"github.com/example/ankicode/internal/logger"
)

// Runner executes one digest batch
type Runner interface {
	Run(ctx context.Context) (*digest.Report, error)
}

// Scheduler fires the digest batch once a day at a fixed wall-clock time
type Scheduler struct {
	scheduler *gocron.Scheduler
	runner    Runner
	at        string
	log       *logger.Logger
	job       *gocron.Job
}

// New creates a new scheduler. at is "HH:MM" in loc.
func New(runner Runner, loc *time.Location, at string, log *logger.Logger) (*Scheduler, error) {
	if _, _, err := config.ParseClock(at); err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logger.NewNop()
	}

	s := gocron.NewScheduler(loc)
	// a slow run must not overlap the next one
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		runner:    runner,
		at:        at,
		log:       log,
	}, nil
}

// Start registers the daily job and begins running it in the background.
// Runs use ctx, so cancelling it aborts a run in progress.
func (s *Scheduler) Start(ctx context.Context) error {
	job, err := s.scheduler.Every(1).Day().At(s.at).Do(s.RunNow, ctx)
	if err != nil {
		return fmt.Errorf("failed to schedule digest: %w", err)
	}
	s.job = job

	s.scheduler.StartAsync()
	s.log.Info("digest scheduled", "at", s.at, "next_run", s.NextRun().Format(time.RFC3339))
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// NextRun returns when the digest fires next, or the zero time before Start
func (s *Scheduler) NextRun() time.Time {
	if s.job == nil {
		return time.Time{}
	}
	return s.job.NextRun()
}

// RunNow runs the digest batch immediately
func (s *Scheduler) RunNow(ctx context.Context) (*digest.Report, error) {
	report, err := s.runner.Run(ctx)
	if err != nil {
		s.log.Error("digest run failed", "error", err)
		return report, err
	}
	return report, nil
}

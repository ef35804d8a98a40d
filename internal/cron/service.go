package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/comicstore/pkg/logger"
	"github.com/angelmondragon/comicstore/pkg/metrics"
	robfig "github.com/robfig/cron/v3"
)

// DefaultSchedule runs the jobs once a day at 03:00.
const DefaultSchedule = "0 3 * * *"

// ServiceParams configure the cron service.
type ServiceParams struct {
	Logger   *logger.Logger
	Registry *Registry
	Lock     Lock
	Metrics  *metrics.JobMetrics
	// Schedule is a standard five-field cron expression or a descriptor such as "@every 6h".
	Schedule string
	Clock    func() time.Time
}

// Service executes registered jobs on a cron schedule. Only one instance
// across the fleet runs a cycle at a time.
type Service struct {
	logg     *logger.Logger
	registry *Registry
	lock     Lock
	metrics  *metrics.JobMetrics
	schedule robfig.Schedule
	now      func() time.Time
}

// NewService builds a cron service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Lock == nil {
		return nil, fmt.Errorf("lock required")
	}
	expr := params.Schedule
	if expr == "" {
		expr = DefaultSchedule
	}
	schedule, err := robfig.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", expr, err)
	}
	registry := params.Registry
	if registry == nil {
		registry = NewRegistry()
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		logg:     params.Logger,
		registry: registry,
		lock:     params.Lock,
		metrics:  params.Metrics,
		schedule: schedule,
		now:      clock,
	}, nil
}

// Next returns the first activation strictly after t.
func (s *Service) Next(t time.Time) time.Time {
	return s.schedule.Next(t)
}

// Run waits for each scheduled activation and runs a cycle until the context
// is canceled.
func (s *Service) Run(ctx context.Context) error {
	for {
		next := s.Next(s.now())
		s.logg.Info(s.logg.WithField(ctx, "next_run", next.UTC().Format(time.RFC3339)), "cron cycle scheduled")
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logg.Info(ctx, "cron service context canceled")
			return ctx.Err()
		case <-timer.C:
			if err := s.RunOnce(ctx); err != nil {
				s.logg.Error(ctx, "scheduled run failed", err)
			}
		}
	}
}

// RunOnce runs every registered job once under the distributed lock.
func (s *Service) RunOnce(ctx context.Context) error {
	locked, err := s.lock.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("lock acquire: %w", err)
	}
	if !locked {
		if reporter, ok := s.lock.(HolderReporter); ok {
			if holder, err := reporter.Holder(ctx); err == nil && holder != "" {
				ctx = s.logg.WithField(ctx, "lock_holder", holder)
			}
		}
		s.logg.Info(ctx, "another cron instance is running; skipping this cycle")
		return nil
	}
	defer func() {
		if relErr := s.lock.Release(ctx); relErr != nil {
			s.logg.Error(ctx, "failed to release cron lock", relErr)
		}
	}()

	s.logg.Info(ctx, "scheduled run starting")
	var failed int
	for _, job := range s.registry.Jobs() {
		if !s.runJob(ctx, job) {
			failed++
		}
	}
	s.logg.Info(s.logg.WithField(ctx, "failed_jobs", failed), "scheduled run complete")
	if failed > 0 {
		return fmt.Errorf("%d job(s) failed", failed)
	}
	return nil
}

func (s *Service) runJob(ctx context.Context, job Job) bool {
	jobCtx := s.logg.WithFields(ctx, map[string]any{"job": job.Name(), "event": "cron.job"})
	s.logg.Info(jobCtx, "job start")
	start := s.now()
	err := job.Run(jobCtx)
	duration := s.now().Sub(start)
	s.metrics.ObserveDuration(job.Name(), duration)
	jobCtx = s.logg.WithField(jobCtx, "duration_ms", duration.Milliseconds())
	if err != nil {
		s.logg.Error(jobCtx, "job failed", err)
		s.metrics.IncFailure(job.Name())
		return false
	}
	s.logg.Info(jobCtx, "job completed")
	s.metrics.IncSuccess(job.Name())
	return true
}

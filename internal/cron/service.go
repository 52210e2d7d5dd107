// Package cron runs the shop's periodic maintenance sweeps.
package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/logger"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/metrics"
	"go.uber.org/multierr"
)

const defaultInterval = time.Hour

// Job is one sweep. Run reports how many rows it changed.
type Job interface {
	Name() string
	Run(ctx context.Context) (int64, error)
}

// ErrUnknownJob is returned by RunJob for a name no job answers to.
var ErrUnknownJob = errors.New("unknown cron job")

type ServiceParams struct {
	Logger   *logger.Logger
	Jobs     []Job
	Lock     Locker
	Metrics  *metrics.JobMetrics
	Interval time.Duration
}

// Service runs its jobs in order on a fixed interval, one worker at a time.
type Service struct {
	logg     *logger.Logger
	jobs     []Job
	lock     Locker
	metrics  *metrics.JobMetrics
	interval time.Duration
}

func NewService(params ServiceParams) (*Service, error) {
	switch {
	case params.Logger == nil:
		return nil, errors.New("logger required")
	case params.Lock == nil:
		return nil, errors.New("lock required")
	}
	svc := &Service{
		logg:     params.Logger,
		lock:     params.Lock,
		metrics:  params.Metrics,
		interval: params.Interval,
	}
	if svc.interval <= 0 {
		svc.interval = defaultInterval
	}
	for _, job := range params.Jobs {
		if job != nil {
			svc.jobs = append(svc.jobs, job)
		}
	}
	return svc, nil
}

// Run sweeps at startup and then on every tick until ctx ends.
func (s *Service) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		if err := s.RunOnce(ctx); err != nil {
			s.logg.Error(ctx, "cron.cycle.failed", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunOnce runs every job. A failing job does not stop the ones after it;
// all failures come back combined.
func (s *Service) RunOnce(ctx context.Context) error {
	return s.withLease(ctx, func() error {
		var errs error
		for _, job := range s.jobs {
			if err := s.execute(ctx, job); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", job.Name(), err))
			}
		}
		return errs
	})
}

// RunJob runs the single job called name.
func (s *Service) RunJob(ctx context.Context, name string) error {
	for _, job := range s.jobs {
		if job.Name() == name {
			return s.withLease(ctx, func() error { return s.execute(ctx, job) })
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownJob, name)
}

func (s *Service) withLease(ctx context.Context, fn func() error) error {
	lease, err := s.lock.TryLock(ctx)
	if err != nil {
		return fmt.Errorf("lock acquire: %w", err)
	}
	if lease == nil {
		s.logg.Info(ctx, "cron.cycle.skipped_locked")
		return nil
	}
	defer func() {
		if err := lease.Unlock(ctx); err != nil {
			s.logg.Error(ctx, "cron.lock.release_failed", err)
		}
	}()
	return fn()
}

func (s *Service) execute(ctx context.Context, job Job) error {
	name := job.Name()
	ctx = s.logg.WithField(ctx, "job", name)

	started := time.Now()
	affected, err := job.Run(ctx)
	elapsed := time.Since(started)
	s.metrics.Record(name, elapsed, affected, err)

	ctx = s.logg.WithFields(ctx, map[string]any{"duration_ms": elapsed.Milliseconds(), "affected": affected})
	if err != nil {
		s.logg.Error(ctx, "cron.job.failed", err)
		return err
	}
	s.logg.Info(ctx, "cron.job.completed")
	return nil
}

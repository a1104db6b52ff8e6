// Package scheduler runs the periodic low-stock alert.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	appctx "stockroom/internal/core/context"
	"stockroom/pkg/logger"
)

// DefaultAlertSpec fires every day at 08:00.
const DefaultAlertSpec = "0 8 * * *"

// Job is one scheduled unit of work.
type Job interface {
	Run(ctx context.Context) error
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron    *cron.Cron
	spec    string
	job     Job
	timeout time.Duration
	log     *logger.Logger
}

// Config configures the scheduler.
type Config struct {
	// Spec is a standard five-field cron expression
	Spec string

	// Location the expression is evaluated in; nil means local time
	Location *time.Location

	// Timeout bounds a single run
	Timeout time.Duration
}

// New creates a scheduler for job.
func New(cfg Config, job Job, log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.Spec == "" {
		cfg.Spec = DefaultAlertSpec
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}

	var opts []cron.Option
	if cfg.Location != nil {
		opts = append(opts, cron.WithLocation(cfg.Location))
	}

	return &Scheduler{
		cron:    cron.New(opts...),
		spec:    cfg.Spec,
		job:     job,
		timeout: cfg.Timeout,
		log:     log.WithComponent("scheduler"),
	}
}

// Start registers the job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.tick); err != nil {
		return fmt.Errorf("schedule %q: %w", s.spec, err)
	}
	s.log.Infow("starting scheduler", "spec", s.spec)
	s.cron.Start()
	return nil
}

// Stop stops the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.log.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	ctx = appctx.WithTrace(ctx, appctx.NewTraceContext())
	ctx = logger.WithLogger(ctx, s.log)

	start := time.Now()
	if err := s.job.Run(ctx); err != nil {
		logger.Error(ctx, "scheduled job failed", "error", err)
		return
	}
	logger.Info(ctx, "scheduled job finished", "elapsed", time.Since(start))
}

// Package scheduler runs periodic background jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"apexfund/internal/logger"
)

// Job is a unit of scheduled work. The context is canceled when the
// scheduler stops.
type Job func(ctx context.Context) error

// Scheduler wraps a cron runner with a context that outlives individual runs.
type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
	log    *zap.SugaredLogger
}

// New creates a Scheduler. Jobs are added with Add and run once Start is called.
func New() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	log := logger.Named("scheduler")
	return &Scheduler{
		cron:   cron.New(cron.WithChain(cron.Recover(cronLogger{log}), cron.SkipIfStillRunning(cronLogger{log}))),
		ctx:    ctx,
		cancel: cancel,
		log:    log,
	}
}

// Add registers job under name on spec, which accepts standard five-field
// expressions and descriptors such as "@hourly" or "@every 15m".
func (s *Scheduler) Add(name, spec string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		start := time.Now()
		if err := job(s.ctx); err != nil {
			s.log.Errorw("scheduled job failed", "job", name, "error", err)
			return
		}
		s.log.Debugw("scheduled job finished", "job", name, "duration", time.Since(start))
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q for %s: %w", spec, name, err)
	}
	s.log.Infow("job scheduled", "job", name, "spec", spec)
	return nil
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels running jobs and waits for them to return or for ctx to end.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cronLogger adapts the zap logger to cron.Logger.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}

// Package scheduler drives periodic refresh passes.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Vikasg7/alerty/internal/platform/logger"
)

// Runner is the unit of work the scheduler fires.
type Runner interface {
	Run(ctx context.Context) error
}

// Scheduler runs the refresh pass immediately on start and then on a fixed
// interval until the context is cancelled. Overlapping passes are prevented
// by the pass itself.
type Scheduler struct {
	runner   Runner
	interval time.Duration
	logger   *logger.Logger
}

func New(runner Runner, interval time.Duration, appLogger *logger.Logger) *Scheduler {
	return &Scheduler{
		runner:   runner,
		interval: interval,
		logger:   appLogger.Named("scheduler"),
	}
}

// Start blocks until ctx is cancelled. Intended to be run on its own
// goroutine.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("scheduler started", zap.Duration("interval", s.interval))
	s.fire(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.fire(ctx)
		}
	}
}

func (s *Scheduler) fire(ctx context.Context) {
	if err := s.runner.Run(ctx); err != nil {
		s.logger.Error("scheduled refresh failed", zap.Error(err))
	}
}

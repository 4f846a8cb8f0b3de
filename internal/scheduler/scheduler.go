// Package scheduler runs the autopay sweep on a cron schedule. The sweep is
// idempotent within a month, so an overlapping or restarted run is harmless.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	portssvc "github.com/rentora/rentora_payments/internal/core/ports/services"
	"github.com/rentora/rentora_payments/internal/middleware"
	"github.com/rentora/rentora_payments/internal/platform/config"
)

// Scheduler manages the cron jobs.
type Scheduler struct {
	cron           *cron.Cron
	autoPayService portssvc.AutoPaySvcFacade
	logger         *slog.Logger
	cfg            *config.Config
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(autoPayService portssvc.AutoPaySvcFacade, logger *slog.Logger, cfg *config.Config) *Scheduler {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	c := cron.New(cron.WithChain(cron.Recover(cronLogger)))

	return &Scheduler{
		cron:           c,
		autoPayService: autoPayService,
		logger:         logger,
		cfg:            cfg,
	}
}

// Start registers the autopay sweep and starts the cron scheduler.
func (s *Scheduler) Start() {
	if _, err := s.cron.AddFunc(s.cfg.AutoPayCronSchedule, s.runAutoPaySweep); err != nil {
		s.logger.Error("failed to schedule autopay sweep", slog.String("error", err.Error()))
		return
	}
	s.logger.Info("scheduled autopay sweep", slog.String("schedule", s.cfg.AutoPayCronSchedule))
	s.cron.Start()
}

// Stop gracefully stops the cron scheduler.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// runAutoPaySweep executes every schedule due today. Background jobs carry
// the system actor and a job-scoped logger in their context.
func (s *Scheduler) runAutoPaySweep() {
	logger := s.logger.With(slog.String("job", "autopay_sweep"))
	ctx := middleware.WithLogger(context.Background(), logger)
	ctx = middleware.WithUserID(ctx, s.cfg.SystemUserID)

	summary, err := s.autoPayService.RunDue(ctx, time.Now().UTC())
	if err != nil {
		logger.Error("autopay sweep failed", slog.String("error", err.Error()))
		return
	}
	logger.Info("autopay sweep finished",
		slog.Int("selected", summary.Selected),
		slog.Int("succeeded", summary.Succeeded),
		slog.Int("failed", summary.Failed),
		slog.Int("skipped", summary.Skipped),
	)
}

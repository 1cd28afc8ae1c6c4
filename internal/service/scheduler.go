package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"turnario/backend/config"
)

// Scheduler fires the nightly reconciliation run at the configured local
// time. The run itself handles re-entrancy through run markers, so a
// restart close to the firing time is harmless.
type Scheduler struct {
	recon  *ReconciliationService
	cfg    *config.ReconConfig
	logger *zap.Logger
	loc    *time.Location

	cancel context.CancelFunc
	done   chan struct{}
}

func NewScheduler(recon *ReconciliationService, cfg *config.ReconConfig, logger *zap.Logger) *Scheduler {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		loc = time.UTC
	}
	return &Scheduler{
		recon:  recon,
		cfg:    cfg,
		logger: logger,
		loc:    loc,
	}
}

// Start launches the scheduling loop. No-op when disabled.
func (s *Scheduler) Start() {
	if !s.cfg.ScheduleEnabled {
		s.logger.Info("nightly reconciliation disabled")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.loop(ctx)
	s.logger.Info("nightly reconciliation scheduled", zap.String("at", s.cfg.ScheduleAt))
}

// Stop cancels the loop and waits for an in-flight run to finish.
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.done)

	for {
		wait := s.untilNextRun()
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		result, err := s.recon.RunScheduled(ctx)
		if err != nil {
			s.logger.Error("nightly reconciliation failed", zap.Error(err))
			continue
		}
		s.logger.Info("nightly reconciliation finished",
			zap.Int("teams", result.EquipesProcessadas),
			zap.Int("ok", result.Sucessos),
			zap.Int("failed", result.Erros),
		)
	}
}

// untilNextRun computes the delay to the next occurrence of the
// configured wall-clock time.
func (s *Scheduler) untilNextRun() time.Duration {
	at, err := time.Parse("15:04", s.cfg.ScheduleAt)
	if err != nil {
		at = time.Date(0, 1, 1, 2, 0, 0, 0, time.UTC)
	}

	now := time.Now().In(s.loc)
	next := time.Date(now.Year(), now.Month(), now.Day(), at.Hour(), at.Minute(), 0, 0, s.loc)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}

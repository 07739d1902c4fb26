// Package jobs runs background maintenance tasks on a cron schedule.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/minsukim/ptstudio/go-api-server/internal/config"
	"github.com/minsukim/ptstudio/go-api-server/internal/program"
	"github.com/robfig/cron/v3"
)

// Scheduler owns the cron runner. Currently a single job: the nightly ledger
// reconciliation sweep that recounts every program's completed sessions.
type Scheduler struct {
	cfg    config.SchedulerConfig
	ledger *program.Ledger
	cron   *cron.Cron
}

func NewScheduler(cfg config.SchedulerConfig, ledger *program.Ledger) *Scheduler {
	return &Scheduler{
		cfg:    cfg,
		ledger: ledger,
		cron:   cron.New(),
	}
}

// Start registers and launches the jobs. No-op when reconciliation is
// disabled by config.
func (s *Scheduler) Start() error {
	if !s.cfg.ReconcileEnabled {
		slog.Info("장부 재조정 스케줄러 비활성화")
		return nil
	}

	if _, err := s.cron.AddFunc(s.cfg.ReconcileSpec, s.runReconcile); err != nil {
		return err
	}

	s.cron.Start()
	slog.Info("장부 재조정 스케줄러 시작", "spec", s.cfg.ReconcileSpec)
	return nil
}

// Stop halts the cron runner and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	slog.Info("스케줄러 종료")
}

func (s *Scheduler) runReconcile() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	start := time.Now()
	fixed, err := s.ledger.ReconcileAll(ctx)
	if err != nil {
		slog.Error("장부 재조정 실패", "error", err)
		return
	}
	slog.Info("장부 재조정 완료", "fixed_programs", fixed, "elapsed", time.Since(start).String())
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const reconcileRunTimeout = 10 * time.Minute

// Scheduler is the trigger facility: standard five-field cron schedules
// invoking the daily reconciliation and the weekly backup job. The exact
// times are deployment configuration.
type Scheduler struct {
	cron        *cron.Cron
	coordinator *Coordinator
	backup      *BackupService
	logger      *zap.Logger
}

func NewScheduler(coordinator *Coordinator, backup *BackupService, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		coordinator: coordinator,
		backup:      backup,
		logger:      logger,
	}
}

func (s *Scheduler) Start(reconcileExpr, backupExpr string) error {
	if _, err := s.cron.AddFunc(reconcileExpr, s.runReconciliation); err != nil {
		return fmt.Errorf("invalid reconcile schedule %q: %w", reconcileExpr, err)
	}
	if _, err := s.cron.AddFunc(backupExpr, s.runBackup); err != nil {
		return fmt.Errorf("invalid backup schedule %q: %w", backupExpr, err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started",
		zap.String("reconcile_schedule", reconcileExpr),
		zap.String("backup_schedule", backupExpr))
	return nil
}

// Stop halts new job dispatch and waits for running jobs to finish.
// Per-document writes already issued commit on their own.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) runReconciliation() {
	ctx, cancel := context.WithTimeout(context.Background(), reconcileRunTimeout)
	defer cancel()
	s.coordinator.RunDailyReconciliation(ctx, time.Now().UTC())
}

func (s *Scheduler) runBackup() {
	ctx, cancel := context.WithTimeout(context.Background(), reconcileRunTimeout)
	defer cancel()
	if err := s.backup.Run(ctx); err != nil {
		s.logger.Error("weekly backup failed", zap.Error(err))
	}
}

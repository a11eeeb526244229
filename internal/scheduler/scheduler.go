package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/autobase/webfront/internal/config"
	"github.com/autobase/webfront/internal/domain/models"
)

// snapshotTimeout bounds one snapshot run, login included.
const snapshotTimeout = 2 * time.Minute

// SnapshotTaker is implemented by the reporting service.
type SnapshotTaker interface {
	TakeSnapshot(ctx context.Context) (*models.ReportSnapshot, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron   *cron.Cron
	taker  SnapshotTaker
	cfg    config.ReportingConfig
	logger *zap.Logger
}

// NewScheduler creates a new scheduler instance. Schedules use the standard
// five-field cron syntax.
func NewScheduler(cfg config.ReportingConfig, taker SnapshotTaker, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:   cron.New(),
		taker:  taker,
		cfg:    cfg,
		logger: logger,
	}
}

// Start registers the snapshot job and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.takeSnapshot); err != nil {
		return fmt.Errorf("schedule report snapshot %q: %w", s.cfg.CronSchedule, err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running snapshot to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) takeSnapshot() {
	s.logger.Info("taking report snapshot")
	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()

	snap, err := s.taker.TakeSnapshot(ctx)
	if err != nil {
		s.logger.Error("failed to take report snapshot", zap.Error(err))
		return
	}

	s.logger.Info("report snapshot taken", zap.Time("taken_at", snap.TakenAt))
}

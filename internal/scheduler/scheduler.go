package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/odenstall/pos/internal/domain/models"
)

// ReportArchiver stores the report of a given day.
type ReportArchiver interface {
	ArchiveDaily(ctx context.Context, date string) (models.DailyReport, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	archiver ReportArchiver
	schedule string
	loc      *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewScheduler creates a new scheduler instance running in loc.
func NewScheduler(schedule string, loc *time.Location, archiver ReportArchiver, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		archiver: archiver,
		schedule: schedule,
		loc:      loc,
		logger:   logger,
		now:      time.Now,
	}
}

// Start registers the jobs and starts the cron runner.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))

	if _, err := s.cron.AddFunc(s.schedule, s.archivePreviousDay); err != nil {
		return fmt.Errorf("schedule daily report %q: %w", s.schedule, err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) archivePreviousDay() {
	date := s.now().In(s.loc).AddDate(0, 0, -1).Format(models.DateLayout)
	s.logger.Info("archiving daily report", zap.String("date", date))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if _, err := s.archiver.ArchiveDaily(ctx, date); err != nil {
		s.logger.Error("failed to archive daily report", zap.String("date", date), zap.Error(err))
		return
	}
	s.logger.Info("daily report archived", zap.String("date", date))
}

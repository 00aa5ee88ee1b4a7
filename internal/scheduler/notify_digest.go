package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/qianchuan-sync-api/internal/config"
	"github.com/vfg2006/qianchuan-sync-api/internal/usecases/alerting"
	"github.com/vfg2006/qianchuan-sync-api/pkg/utils"
)

// NotifyDigestService schedules the hidden comment digest delivery.
type NotifyDigestService struct {
	scheduler *gocron.Scheduler
	cfg       *config.Config
	notifier  alerting.DigestNotifier

	running         bool
	mu              sync.Mutex
	lastStartedAt   time.Time
	lastCompletedAt time.Time
	lastError       string
}

func NewNotifyDigestService(cfg *config.Config, notifier alerting.DigestNotifier) *NotifyDigestService {
	logrus.WithFields(logrus.Fields{
		"cron_schedule": cfg.NotifyJob.CronSchedule,
		"window_hours":  cfg.NotifyJob.WindowHours,
		"enabled":       cfg.NotifyJob.Enabled,
	}).Info("Notify digest scheduler configured")

	return &NotifyDigestService{
		scheduler: gocron.NewScheduler(cfg.Location()),
		cfg:       cfg,
		notifier:  notifier,
	}
}

// Start registers the cron job and runs the scheduler until ctx is done.
func (s *NotifyDigestService) Start(ctx context.Context) error {
	if !s.cfg.NotifyJob.Enabled {
		logrus.Info("Notify digest disabled by configuration")
		return nil
	}

	logrus.WithField("cron", s.cfg.NotifyJob.CronSchedule).Info("Starting notify digest scheduler")

	_, err := s.scheduler.Cron(s.cfg.NotifyJob.CronSchedule).Do(func() {
		s.runDigest(context.Background())
	})
	if err != nil {
		return fmt.Errorf("scheduling notify digest: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Stopping notify digest scheduler")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *NotifyDigestService) runDigest(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		logrus.Info("Notify digest already running, skipping")
		return
	}
	s.running = true
	s.lastStartedAt = time.Now()
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.lastCompletedAt = time.Now()
		s.mu.Unlock()
	}()

	runID, _ := utils.GenerateID()

	summary, err := s.notifier.SendHideDigest(ctx)
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.mu.Unlock()
		logrus.WithField("run_id", runID).WithError(err).Error("Notify digest failed")
		return
	}

	s.mu.Lock()
	s.lastError = ""
	s.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"run_id":   runID,
		"records":  summary.Records,
		"notified": summary.Notified,
	}).Info("Scheduled notify digest finished")
}

// TriggerManualRun starts a digest run in the background unless one is
// already running.
func (s *NotifyDigestService) TriggerManualRun() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		logrus.Info("Notify digest already running, ignoring manual trigger")
		return
	}
	s.mu.Unlock()

	logrus.Info("Starting manual notify digest")
	go s.runDigest(context.Background())
}

// GetStatus reports the scheduler state for the ops endpoint.
func (s *NotifyDigestService) GetStatus() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	return map[string]any{
		"enabled":           s.cfg.NotifyJob.Enabled,
		"cron":              s.cfg.NotifyJob.CronSchedule,
		"window_hours":      s.cfg.NotifyJob.WindowHours,
		"running":           s.running,
		"last_started_at":   s.lastStartedAt,
		"last_completed_at": s.lastCompletedAt,
		"last_error":        s.lastError,
	}
}

package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/qianchuan-sync-api/internal/config"
	"github.com/vfg2006/qianchuan-sync-api/internal/usecases/moderating"
	"github.com/vfg2006/qianchuan-sync-api/pkg/utils"
)

// CommentSyncService schedules the comment sync and hide pass.
type CommentSyncService struct {
	scheduler *gocron.Scheduler
	cfg       *config.Config
	moderator moderating.CommentModerator

	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastSyncError       string
}

func NewCommentSyncService(cfg *config.Config, moderator moderating.CommentModerator) *CommentSyncService {
	logrus.WithFields(logrus.Fields{
		"cron_schedule":  cfg.CommentSync.CronSchedule,
		"lookback_hours": cfg.CommentSync.LookbackHours,
		"hide_enabled":   cfg.CommentSync.HideEnabled,
		"sync_enabled":   cfg.CommentSync.Enabled,
	}).Info("Comment sync scheduler configured")

	return &CommentSyncService{
		scheduler: gocron.NewScheduler(cfg.Location()),
		cfg:       cfg,
		moderator: moderator,
	}
}

// Start registers the cron job and runs the scheduler until ctx is done.
func (s *CommentSyncService) Start(ctx context.Context) error {
	if !s.cfg.CommentSync.Enabled {
		logrus.Info("Comment sync disabled by configuration")
		return nil
	}

	logrus.WithField("cron", s.cfg.CommentSync.CronSchedule).Info("Starting comment sync scheduler")

	_, err := s.scheduler.Cron(s.cfg.CommentSync.CronSchedule).Do(func() {
		s.runSync(context.Background())
	})
	if err != nil {
		return fmt.Errorf("scheduling comment sync: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Stopping comment sync scheduler")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *CommentSyncService) runSync(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Comment sync already running, skipping")
		return
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	s.syncMutex.Unlock()

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.lastSyncCompletedAt = time.Now()
		s.syncMutex.Unlock()
	}()

	runID, _ := utils.GenerateID()

	summary, err := s.moderator.SyncComments(ctx)
	if err != nil {
		s.syncMutex.Lock()
		s.lastSyncError = err.Error()
		s.syncMutex.Unlock()
		logrus.WithField("run_id", runID).WithError(err).Error("Comment sync pass failed")
		return
	}

	s.syncMutex.Lock()
	s.lastSyncError = ""
	s.syncMutex.Unlock()

	logrus.WithFields(logrus.Fields{
		"run_id":    runID,
		"upserted":  summary.CommentsUpserted,
		"hide_ok":   summary.HideSuccess,
		"hide_fail": summary.HideFailed,
		"duration":  summary.Duration.String(),
	}).Info("Scheduled comment sync finished")
}

// TriggerBackfill starts a historic replay in the background. The replay
// shares the running flag with the scheduled pass so the two never overlap.
func (s *CommentSyncService) TriggerBackfill(opts moderating.BackfillOptions) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Comment pass already running, ignoring backfill trigger")
		return
	}
	s.syncMutex.Unlock()

	logrus.WithFields(logrus.Fields{
		"start_date": opts.StartDate.Format("2006-01-02"),
		"end_date":   opts.EndDate.Format("2006-01-02"),
		"hide":       opts.Hide,
	}).Info("Starting comment backfill")

	go s.runBackfill(context.Background(), opts)
}

func (s *CommentSyncService) runBackfill(ctx context.Context, opts moderating.BackfillOptions) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		return
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	s.syncMutex.Unlock()

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.lastSyncCompletedAt = time.Now()
		s.syncMutex.Unlock()
	}()

	summary, err := s.moderator.BackfillComments(ctx, opts)
	if err != nil {
		s.syncMutex.Lock()
		s.lastSyncError = err.Error()
		s.syncMutex.Unlock()
		logrus.WithError(err).Error("Comment backfill failed")
		return
	}

	s.syncMutex.Lock()
	s.lastSyncError = ""
	s.syncMutex.Unlock()

	logrus.WithFields(logrus.Fields{
		"upserted":  summary.CommentsUpserted,
		"hide_ok":   summary.HideSuccess,
		"hide_fail": summary.HideFailed,
		"duration":  summary.Duration.String(),
	}).Info("Comment backfill finished")
}

// TriggerManualSync starts a comment pass in the background unless one is
// already running.
func (s *CommentSyncService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Comment sync already running, ignoring manual trigger")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Starting manual comment sync")
	go s.runSync(context.Background())
}

// GetStatus reports the scheduler state for the ops endpoint.
func (s *CommentSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.cfg.CommentSync.Enabled,
		"sync_cron":              s.cfg.CommentSync.CronSchedule,
		"lookback_hours":         s.cfg.CommentSync.LookbackHours,
		"hide_enabled":           s.cfg.CommentSync.HideEnabled,
		"sync_running":           s.syncRunning,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_sync_error":        s.lastSyncError,
	}
}

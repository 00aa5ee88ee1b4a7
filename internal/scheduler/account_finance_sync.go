package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/qianchuan-sync-api/internal/config"
	"github.com/vfg2006/qianchuan-sync-api/internal/usecases/syncing"
	"github.com/vfg2006/qianchuan-sync-api/pkg/utils"
)

// AccountSyncService schedules the account inventory and finance sync pass.
type AccountSyncService struct {
	scheduler *gocron.Scheduler
	cfg       *config.Config
	syncer    syncing.AccountSyncer

	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastSyncError       string
}

func NewAccountSyncService(cfg *config.Config, syncer syncing.AccountSyncer) *AccountSyncService {
	logrus.WithFields(logrus.Fields{
		"cron_schedule":         cfg.AccountSync.CronSchedule,
		"finance_lookback_days": cfg.AccountSync.FinanceLookbackDays,
		"sync_enabled":          cfg.AccountSync.Enabled,
	}).Info("Account sync scheduler configured")

	return &AccountSyncService{
		scheduler: gocron.NewScheduler(cfg.Location()),
		cfg:       cfg,
		syncer:    syncer,
	}
}

// Start registers the cron job and runs the scheduler until ctx is done.
func (s *AccountSyncService) Start(ctx context.Context) error {
	if !s.cfg.AccountSync.Enabled {
		logrus.Info("Account sync disabled by configuration")
		return nil
	}

	logrus.WithField("cron", s.cfg.AccountSync.CronSchedule).Info("Starting account sync scheduler")

	_, err := s.scheduler.Cron(s.cfg.AccountSync.CronSchedule).Do(func() {
		s.runSync(context.Background())
	})
	if err != nil {
		return fmt.Errorf("scheduling account sync: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Stopping account sync scheduler")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *AccountSyncService) runSync(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Account sync already running, skipping")
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

	summary, err := s.syncer.SyncAccounts(ctx)
	if err != nil {
		s.syncMutex.Lock()
		s.lastSyncError = err.Error()
		s.syncMutex.Unlock()
		logrus.WithField("run_id", runID).WithError(err).Error("Account sync pass failed")
		return
	}

	s.syncMutex.Lock()
	s.lastSyncError = ""
	s.syncMutex.Unlock()

	logrus.WithFields(logrus.Fields{
		"run_id":       runID,
		"advertisers":  summary.Advertisers,
		"snapshots":    summary.BalanceSnapshots,
		"finance_rows": summary.FinanceRows,
		"duration":     summary.Duration.String(),
	}).Info("Scheduled account sync finished")
}

// TriggerManualSync starts a sync pass in the background unless one is
// already running.
func (s *AccountSyncService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Account sync already running, ignoring manual trigger")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Starting manual account sync")
	go s.runSync(context.Background())
}

// GetStatus reports the scheduler state for the ops endpoint.
func (s *AccountSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.cfg.AccountSync.Enabled,
		"sync_cron":              s.cfg.AccountSync.CronSchedule,
		"finance_lookback_days":  s.cfg.AccountSync.FinanceLookbackDays,
		"sync_running":           s.syncRunning,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_sync_error":        s.lastSyncError,
	}
}

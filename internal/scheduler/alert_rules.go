package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/qianchuan-sync-api/internal/config"
	"github.com/vfg2006/qianchuan-sync-api/internal/domain"
	"github.com/vfg2006/qianchuan-sync-api/internal/usecases/alerting"
	"github.com/vfg2006/qianchuan-sync-api/pkg/utils"
)

// Fixed cadences for the daily and hourly rules. The daily report runs just
// after midnight; the hourly rule runs a few minutes past the hour so the
// previous hour's spend has landed. The half-hourly rule follows the
// configurable cron.
const (
	dailyRuleCron  = "5 0 * * *"
	hourlyRuleCron = "5 * * * *"
)

// AlertRuleService schedules the three balance alert rules.
type AlertRuleService struct {
	scheduler *gocron.Scheduler
	cfg       *config.Config
	evaluator alerting.RuleEvaluator

	mu          sync.Mutex
	ruleRunning map[string]bool
	lastRunAt   map[string]time.Time
	lastError   map[string]string
}

func NewAlertRuleService(cfg *config.Config, evaluator alerting.RuleEvaluator) *AlertRuleService {
	logrus.WithFields(logrus.Fields{
		"half_hourly_cron":   cfg.AlertRules.CronSchedule,
		"daily_cron":         dailyRuleCron,
		"hourly_cron":        hourlyRuleCron,
		"max_notify_per_day": cfg.AlertRules.MaxNotifyPerDay,
		"rules_enabled":      cfg.AlertRules.Enabled,
	}).Info("Alert rule scheduler configured")

	return &AlertRuleService{
		scheduler:   gocron.NewScheduler(cfg.Location()),
		cfg:         cfg,
		evaluator:   evaluator,
		ruleRunning: make(map[string]bool),
		lastRunAt:   make(map[string]time.Time),
		lastError:   make(map[string]string),
	}
}

// Start registers one cron job per rule and runs the scheduler until ctx is
// done.
func (s *AlertRuleService) Start(ctx context.Context) error {
	if !s.cfg.AlertRules.Enabled {
		logrus.Info("Alert rules disabled by configuration")
		return nil
	}

	jobs := []struct {
		ruleID string
		cron   string
	}{
		{ruleID: domain.RuleDaily, cron: dailyRuleCron},
		{ruleID: domain.RuleHalfHourly, cron: s.cfg.AlertRules.CronSchedule},
		{ruleID: domain.RuleHourly, cron: hourlyRuleCron},
	}

	for _, job := range jobs {
		ruleID := job.ruleID
		logrus.WithFields(logrus.Fields{
			"rule": ruleID,
			"cron": job.cron,
		}).Info("Scheduling alert rule")

		if _, err := s.scheduler.Cron(job.cron).Do(func() {
			s.runRule(context.Background(), ruleID)
		}); err != nil {
			return fmt.Errorf("scheduling alert rule %s: %w", ruleID, err)
		}
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Stopping alert rule scheduler")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *AlertRuleService) runRule(ctx context.Context, ruleID string) {
	s.mu.Lock()
	if s.ruleRunning[ruleID] {
		s.mu.Unlock()
		logrus.WithField("rule", ruleID).Info("Alert rule already running, skipping")
		return
	}
	s.ruleRunning[ruleID] = true
	s.lastRunAt[ruleID] = time.Now()
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.ruleRunning[ruleID] = false
		s.mu.Unlock()
	}()

	runID, _ := utils.GenerateID()

	summary, err := s.evaluator.EvaluateRule(ctx, ruleID)
	if err != nil {
		s.mu.Lock()
		s.lastError[ruleID] = err.Error()
		s.mu.Unlock()
		logrus.WithFields(logrus.Fields{
			"rule":   ruleID,
			"run_id": runID,
		}).WithError(err).Error("Alert rule evaluation failed")
		return
	}

	s.mu.Lock()
	s.lastError[ruleID] = ""
	s.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"rule":       ruleID,
		"run_id":     runID,
		"inserted":   summary.Inserted,
		"notified":   summary.Notified,
		"suppressed": summary.Suppressed,
	}).Info("Scheduled alert rule finished")
}

// TriggerManualRun evaluates every rule once in the background.
func (s *AlertRuleService) TriggerManualRun() {
	logrus.Info("Starting manual alert rule evaluation")
	for _, ruleID := range []string{domain.RuleDaily, domain.RuleHalfHourly, domain.RuleHourly} {
		go s.runRule(context.Background(), ruleID)
	}
}

// GetStatus reports the scheduler state for the ops endpoint.
func (s *AlertRuleService) GetStatus() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	ruleStates := make(map[string]any)
	for _, ruleID := range []string{domain.RuleDaily, domain.RuleHalfHourly, domain.RuleHourly} {
		ruleStates[ruleID] = map[string]any{
			"running":     s.ruleRunning[ruleID],
			"last_run_at": s.lastRunAt[ruleID],
			"last_error":  s.lastError[ruleID],
		}
	}

	return map[string]any{
		"rules_enabled":      s.cfg.AlertRules.Enabled,
		"half_hourly_cron":   s.cfg.AlertRules.CronSchedule,
		"daily_cron":         dailyRuleCron,
		"hourly_cron":        hourlyRuleCron,
		"max_notify_per_day": s.cfg.AlertRules.MaxNotifyPerDay,
		"rules":              ruleStates,
	}
}

package alerting

import (
	"context"
	"sort"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/qianchuan-sync-api/infrastructure/integrator/feishu/feishuclient"
	"github.com/vfg2006/qianchuan-sync-api/infrastructure/repository"
	"github.com/vfg2006/qianchuan-sync-api/internal/config"
	"github.com/vfg2006/qianchuan-sync-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Report rendering limits.
const (
	reportMaxRows   = 80
	alertMaxItems   = 20
	statusMaxAlerts = 20
)

// Rules evaluated by this service. RULE_00 compares against yesterday's cost
// with a 2x cushion, RULE_30M against yesterday's cost one-to-one, RULE_1H
// against the previous hour's spend scaled by 4.
var rules = map[string]domain.AlertRule{
	domain.RuleDaily:      {ID: domain.RuleDaily, Multiplier: 2.0, Severity: domain.SeverityWarn, Bucket: domain.BucketDaily},
	domain.RuleHalfHourly: {ID: domain.RuleHalfHourly, Multiplier: 1.0, Severity: domain.SeverityCrit, Bucket: domain.BucketHourly},
	domain.RuleHourly:     {ID: domain.RuleHourly, Multiplier: 4.0, Severity: domain.SeverityCrit, Bucket: domain.BucketHourly},
}

// StoreProvider hands out repository bundles, optionally scoped to one
// transaction.
type StoreProvider interface {
	Store() *repository.Store
	InTransaction(ctx context.Context, fn func(*repository.Store) error) error
}

// Service evaluates balance alert rules and delivers Feishu notifications:
// threshold alert texts, the daily balance report card and the hidden
// comment digest.
type Service struct {
	cfg      *config.Config
	stores   StoreProvider
	notifier feishuclient.Notifier
	now      func() time.Time
}

func NewService(cfg *config.Config, stores StoreProvider, notifier feishuclient.Notifier) *Service {
	return &Service{
		cfg:      cfg,
		stores:   stores,
		notifier: notifier,
		now:      time.Now,
	}
}

// EvaluateRule runs one rule over the latest balance snapshot of every
// advertiser. Events are deduplicated by key in the database, so re-running
// a rule inside the same bucket inserts nothing and notifies nobody.
func (s *Service) EvaluateRule(ctx context.Context, ruleID string) (*EvalSummary, error) {
	rule, ok := rules[ruleID]
	if !ok {
		return nil, errors.Errorf("unknown alert rule %q", ruleID)
	}

	loc := s.cfg.Location()
	now := s.now().In(loc)
	yesterday := now.AddDate(0, 0, -1).Format("2006-01-02")
	prevHour := now.Truncate(time.Hour).Add(-time.Hour)

	summary := &EvalSummary{RuleID: ruleID, StartedAt: now}
	store := s.stores.Store()

	snapshots, err := store.Balances.LatestPerAdvertiser()
	if err != nil {
		return nil, errors.Wrap(err, "loading latest balances")
	}

	var baseline map[int64]float64
	if rule.ID == domain.RuleHourly {
		baseline, err = store.Finance.HourlySpend(prevHour.Format("2006-01-02 15:04:05"))
		if err != nil {
			return nil, errors.Wrap(err, "loading last hour spend")
		}
	} else {
		baseline, err = store.Finance.CostByDate(yesterday)
		if err != nil {
			return nil, errors.Wrap(err, "loading yesterday cost")
		}
	}

	var newAlerts []*domain.AlertEvent
	for _, snap := range snapshots {
		// A NULL balance means the fetch failed; skip to avoid false positives.
		if snap.AccountValid == nil {
			continue
		}
		summary.Evaluated++

		bal := *snap.AccountValid
		base := baseline[snap.AdvertiserID]
		if base <= 0 {
			continue
		}
		if bal >= rule.Multiplier*base {
			continue
		}
		summary.Triggered++

		event := buildEvent(rule, snap.AdvertiserID, bal, base, snap.SnapshotTS, now, prevHour, yesterday)
		inserted, err := store.AlertEvents.InsertIgnoreDuplicate(event)
		if err != nil {
			return nil, errors.Wrapf(err, "inserting alert event advertiser_id=%d", snap.AdvertiserID)
		}
		if inserted {
			summary.Inserted++
			newAlerts = append(newAlerts, event)
		}
	}

	logrus.WithFields(logrus.Fields{
		"rule":      ruleID,
		"evaluated": summary.Evaluated,
		"triggered": summary.Triggered,
		"inserted":  summary.Inserted,
	}).Info("Alert rule evaluated")

	if s.notifier.Enabled() {
		if rule.ID == domain.RuleDaily {
			if err := s.sendDailyReport(ctx, store, now, yesterday, snapshots, baseline); err != nil {
				logrus.WithError(err).Warn("Daily balance report delivery failed")
			} else {
				summary.Notified = len(newAlerts)
			}
		} else if len(newAlerts) > 0 {
			notified, suppressed, err := s.sendAlertText(ctx, store, rule, now, newAlerts)
			if err != nil {
				logrus.WithError(err).Warn("Alert notification delivery failed")
			}
			summary.Notified = notified
			summary.Suppressed = suppressed
		}
	}

	summary.Duration = s.now().Sub(summary.StartedAt)
	return summary, nil
}

func buildEvent(rule domain.AlertRule, advertiserID int64, bal, base float64, snapshotTS, now, prevHour time.Time, yesterday string) *domain.AlertEvent {
	event := &domain.AlertEvent{
		AlertTS:             now,
		AdvertiserID:        advertiserID,
		RuleID:              rule.ID,
		Severity:            rule.Severity,
		BalanceValid:        bal,
		BaselineSpend:       base,
		ThresholdMultiplier: rule.Multiplier,
		Ratio:               bal / base,
		SnapshotTS:          snapshotTS,
	}

	var detail interface{}
	if rule.ID == domain.RuleHourly {
		event.DedupKey = rule.DedupKey(advertiserID, prevHour)
		event.BaselineTS = &prevHour
		detail = map[string]interface{}{
			"last_hour":       prevHour.Format(time.RFC3339),
			"last_hour_spend": base,
			"balance_valid":   bal,
			"threshold":       rule.Multiplier * base,
		}
	} else {
		event.DedupKey = rule.DedupKey(advertiserID, now)
		detail = map[string]interface{}{
			"yesterday":      yesterday,
			"yesterday_cost": base,
			"balance_valid":  bal,
			"threshold":      rule.Multiplier * base,
		}
	}

	raw, err := json.Marshal(detail)
	if err != nil {
		raw = []byte("{}")
	}
	event.Detail = raw
	return event
}

// sendDailyReport delivers the RULE_00 balance report card. The card always
// lists yesterday's spenders; the header turns orange when any of them sits
// below twice its yesterday cost.
func (s *Service) sendDailyReport(ctx context.Context, store *repository.Store, now time.Time, yesterday string, snapshots []*domain.BalanceSnapshot, yCost map[int64]float64) error {
	balanceMap := make(map[int64]float64, len(snapshots))
	for _, snap := range snapshots {
		if snap.AccountValid != nil {
			balanceMap[snap.AdvertiserID] = *snap.AccountValid
		}
	}

	reportIDs := make([]int64, 0, len(yCost))
	for advertiserID, cost := range yCost {
		if cost > 0 {
			reportIDs = append(reportIDs, advertiserID)
		}
	}
	sort.Slice(reportIDs, func(i, j int) bool { return reportIDs[i] < reportIDs[j] })

	nameMap, err := store.Advertisers.NameMap(reportIDs)
	if err != nil {
		return errors.Wrap(err, "loading advertiser names")
	}

	weekStart := now.AddDate(0, 0, -7).Format("2006-01-02")
	cost7, err := store.Finance.CostWindow(weekStart, yesterday)
	if err != nil {
		return errors.Wrap(err, "loading 7 day cost window")
	}

	var alertedIDs []int64
	for _, advertiserID := range reportIDs {
		if balanceMap[advertiserID] < yCost[advertiserID]*rules[domain.RuleDaily].Multiplier {
			alertedIDs = append(alertedIDs, advertiserID)
		}
	}

	rows := buildDailyReportRows(reportIDs, nameMap, balanceMap, yCost, cost7)
	statusMD := buildDailyStatusMD(alertedIDs, nameMap, balanceMap, yCost, yesterday)

	template := "green"
	if len(alertedIDs) > 0 {
		template = "orange"
	}

	card := feishuclient.BuildDailyBalanceCard(yesterday, statusMD, rows, reportMaxRows, template)
	if err := s.notifier.SendCard(ctx, card); err != nil {
		return errors.Wrap(err, "sending daily balance card")
	}

	logrus.WithFields(logrus.Fields{
		"report_rows": len(rows),
		"alerted":     len(alertedIDs),
	}).Info("Daily balance report sent")
	return nil
}

// sendAlertText delivers new threshold alerts as one text message, capping
// how often a single advertiser can page per day.
func (s *Service) sendAlertText(ctx context.Context, store *repository.Store, rule domain.AlertRule, now time.Time, newAlerts []*domain.AlertEvent) (notified, suppressed int, err error) {
	maxPerDay := s.cfg.AlertRules.MaxNotifyPerDay
	if maxPerDay <= 0 {
		maxPerDay = 3
	}

	advertiserIDs := make([]int64, 0, len(newAlerts))
	for _, a := range newAlerts {
		advertiserIDs = append(advertiserIDs, a.AdvertiserID)
	}

	dayStart := now.Format("2006-01-02")
	dayEnd := now.AddDate(0, 0, 1).Format("2006-01-02")
	countMap, err := store.AlertEvents.CountTodayByAdvertiser(rule.ID, advertiserIDs, dayStart, dayEnd)
	if err != nil {
		return 0, 0, errors.Wrap(err, "counting alerts today")
	}

	send := make([]*domain.AlertEvent, 0, len(newAlerts))
	for _, a := range newAlerts {
		if countMap[a.AdvertiserID] <= maxPerDay {
			send = append(send, a)
		}
	}
	suppressed = len(newAlerts) - len(send)

	if len(send) == 0 {
		logrus.WithFields(logrus.Fields{
			"rule":        rule.ID,
			"max_per_day": maxPerDay,
			"suppressed":  suppressed,
		}).Info("All alerts suppressed by daily notification cap")
		return 0, suppressed, nil
	}

	sort.Slice(send, func(i, j int) bool { return send[i].Ratio < send[j].Ratio })

	sendIDs := make([]int64, 0, len(send))
	for _, a := range send {
		sendIDs = append(sendIDs, a.AdvertiserID)
	}
	nameMap, err := store.Advertisers.NameMap(sendIDs)
	if err != nil {
		return 0, suppressed, errors.Wrap(err, "loading advertiser names")
	}

	text := buildAlertText(rule.ID, now, send, nameMap, alertMaxItems)
	if suppressed > 0 {
		text += suppressedFooter(maxPerDay, suppressed)
	}

	if err := s.notifier.SendText(ctx, text); err != nil {
		return 0, suppressed, errors.Wrap(err, "sending alert text")
	}

	logrus.WithFields(logrus.Fields{
		"rule":       rule.ID,
		"alerts":     len(send),
		"suppressed": suppressed,
	}).Info("Alert notification sent")
	return len(send), suppressed, nil
}

// SendHideDigest collects the hide actions that have not been notified yet,
// delivers one Feishu summary and marks the rows notified in the same
// transaction, so a failed delivery leaves them pending for the next run.
func (s *Service) SendHideDigest(ctx context.Context) (*DigestSummary, error) {
	loc := s.cfg.Location()
	now := s.now().In(loc)

	windowHours := s.cfg.NotifyJob.WindowHours
	if windowHours <= 0 {
		windowHours = 24
	}

	summary := &DigestSummary{StartedAt: now}

	err := s.stores.InTransaction(ctx, func(store *repository.Store) error {
		records, err := store.CommentActions.SelectUnnotifiedHides(windowHours)
		if err != nil {
			return errors.Wrap(err, "selecting unnotified hides")
		}
		summary.Records = len(records)

		if !s.notifier.Enabled() {
			logrus.Info("Feishu disabled, hide digest skipped")
			return nil
		}

		text := buildHideDigestText(records, windowHours, now)
		if err := s.notifier.SendText(ctx, text); err != nil {
			return errors.Wrap(err, "sending hide digest")
		}
		summary.Notified = true

		if len(records) == 0 {
			return nil
		}

		keys := make([]domain.CommentAction, 0, len(records))
		for _, r := range records {
			keys = append(keys, domain.CommentAction{
				AdvertiserID: r.AdvertiserID,
				CommentID:    r.CommentID,
				Action:       domain.ActionHide,
			})
		}
		return errors.Wrap(store.CommentActions.MarkNotified(keys), "marking hides notified")
	})
	if err != nil {
		return nil, err
	}

	summary.Duration = s.now().Sub(summary.StartedAt)

	logrus.WithFields(logrus.Fields{
		"records":  summary.Records,
		"notified": summary.Notified,
	}).Info("Hide digest finished")
	return summary, nil
}

package alerting

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	notifymocks "github.com/vfg2006/qianchuan-sync-api/infrastructure/integrator/feishu/feishuclient/mocks"
	"github.com/vfg2006/qianchuan-sync-api/infrastructure/repository"
	repomocks "github.com/vfg2006/qianchuan-sync-api/infrastructure/repository/mocks"
	"github.com/vfg2006/qianchuan-sync-api/internal/config"
	"github.com/vfg2006/qianchuan-sync-api/internal/domain"
)

type stubStores struct {
	store *repository.Store
}

func (s *stubStores) Store() *repository.Store { return s.store }

func (s *stubStores) InTransaction(_ context.Context, fn func(*repository.Store) error) error {
	return fn(s.store)
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Timezone = "UTC"
	cfg.AlertRules.MaxNotifyPerDay = 3
	cfg.NotifyJob.WindowHours = 24
	return cfg
}

func float64Ptr(v float64) *float64 { return &v }

func snapshot(advertiserID int64, valid *float64) *domain.BalanceSnapshot {
	return &domain.BalanceSnapshot{
		AdvertiserID: advertiserID,
		SnapshotTS:   time.Date(2026, 9, 1, 9, 30, 0, 0, time.UTC),
		AccountValid: valid,
	}
}

func TestEvaluateRuleThresholds(t *testing.T) {
	// Balance 1000 against yesterday cost 600: below the daily 2x cushion but
	// not below the half-hourly 1x threshold.
	scenarios := []struct {
		name      string
		ruleID    string
		triggered int
	}{
		{name: "daily rule fires at 2x", ruleID: domain.RuleDaily, triggered: 1},
		{name: "half-hourly rule needs 1x", ruleID: domain.RuleHalfHourly, triggered: 0},
	}

	for _, tt := range scenarios {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			balances := repomocks.NewMockBalanceSnapshotRepository(ctrl)
			finance := repomocks.NewMockFinanceDailyRepository(ctrl)
			events := repomocks.NewMockAlertEventRepository(ctrl)
			notifier := notifymocks.NewMockNotifier(ctrl)

			balances.EXPECT().LatestPerAdvertiser().Return([]*domain.BalanceSnapshot{
				snapshot(42, float64Ptr(1000)),
			}, nil)
			finance.EXPECT().CostByDate(gomock.Any()).Return(map[int64]float64{42: 600}, nil)

			if tt.triggered > 0 {
				events.EXPECT().InsertIgnoreDuplicate(gomock.Any()).DoAndReturn(
					func(e *domain.AlertEvent) (bool, error) {
						assert.Equal(t, tt.ruleID, e.RuleID)
						assert.InDelta(t, 1000.0/600.0, e.Ratio, 1e-9)
						return true, nil
					})
			}
			notifier.EXPECT().Enabled().Return(false)

			service := NewService(testConfig(), &stubStores{store: &repository.Store{
				Balances:    balances,
				Finance:     finance,
				AlertEvents: events,
			}}, notifier)

			summary, err := service.EvaluateRule(context.Background(), tt.ruleID)
			require.NoError(t, err)
			assert.Equal(t, tt.triggered, summary.Triggered)
			assert.Equal(t, tt.triggered, summary.Inserted)
		})
	}
}

func TestEvaluateRuleSkipsNullBalanceAndZeroBaseline(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	balances := repomocks.NewMockBalanceSnapshotRepository(ctrl)
	finance := repomocks.NewMockFinanceDailyRepository(ctrl)
	events := repomocks.NewMockAlertEventRepository(ctrl)
	notifier := notifymocks.NewMockNotifier(ctrl)

	balances.EXPECT().LatestPerAdvertiser().Return([]*domain.BalanceSnapshot{
		snapshot(1, nil),             // failed balance fetch
		snapshot(2, float64Ptr(100)), // no spend yesterday
	}, nil)
	finance.EXPECT().CostByDate(gomock.Any()).Return(map[int64]float64{}, nil)
	notifier.EXPECT().Enabled().Return(false)

	service := NewService(testConfig(), &stubStores{store: &repository.Store{
		Balances:    balances,
		Finance:     finance,
		AlertEvents: events,
	}}, notifier)

	summary, err := service.EvaluateRule(context.Background(), domain.RuleHalfHourly)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Evaluated)
	assert.Zero(t, summary.Triggered)
}

func TestEvaluateRuleDeduplicatesWithinBucket(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	balances := repomocks.NewMockBalanceSnapshotRepository(ctrl)
	finance := repomocks.NewMockFinanceDailyRepository(ctrl)
	events := repomocks.NewMockAlertEventRepository(ctrl)
	notifier := notifymocks.NewMockNotifier(ctrl)

	balances.EXPECT().LatestPerAdvertiser().Return([]*domain.BalanceSnapshot{
		snapshot(42, float64Ptr(100)),
	}, nil)
	finance.EXPECT().CostByDate(gomock.Any()).Return(map[int64]float64{42: 600}, nil)
	// Same bucket, event already recorded: no new row, no notification.
	events.EXPECT().InsertIgnoreDuplicate(gomock.Any()).Return(false, nil)
	notifier.EXPECT().Enabled().Return(true)

	service := NewService(testConfig(), &stubStores{store: &repository.Store{
		Balances:    balances,
		Finance:     finance,
		AlertEvents: events,
	}}, notifier)

	summary, err := service.EvaluateRule(context.Background(), domain.RuleHalfHourly)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Triggered)
	assert.Zero(t, summary.Inserted)
	assert.Zero(t, summary.Notified)
}

func TestEvaluateRuleSuppressesNoisyAdvertisers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	balances := repomocks.NewMockBalanceSnapshotRepository(ctrl)
	finance := repomocks.NewMockFinanceDailyRepository(ctrl)
	events := repomocks.NewMockAlertEventRepository(ctrl)
	notifier := notifymocks.NewMockNotifier(ctrl)

	balances.EXPECT().LatestPerAdvertiser().Return([]*domain.BalanceSnapshot{
		snapshot(42, float64Ptr(100)),
	}, nil)
	finance.EXPECT().CostByDate(gomock.Any()).Return(map[int64]float64{42: 600}, nil)
	events.EXPECT().InsertIgnoreDuplicate(gomock.Any()).Return(true, nil)
	notifier.EXPECT().Enabled().Return(true)
	// The advertiser already paged more than the daily cap allows.
	events.EXPECT().CountTodayByAdvertiser(domain.RuleHalfHourly, []int64{42}, gomock.Any(), gomock.Any()).
		Return(map[int64]int{42: 4}, nil)

	service := NewService(testConfig(), &stubStores{store: &repository.Store{
		Balances:    balances,
		Finance:     finance,
		AlertEvents: events,
	}}, notifier)

	summary, err := service.EvaluateRule(context.Background(), domain.RuleHalfHourly)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Inserted)
	assert.Zero(t, summary.Notified)
	assert.Equal(t, 1, summary.Suppressed)
}

func TestEvaluateRuleSendsAlertText(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	balances := repomocks.NewMockBalanceSnapshotRepository(ctrl)
	finance := repomocks.NewMockFinanceDailyRepository(ctrl)
	events := repomocks.NewMockAlertEventRepository(ctrl)
	advertisers := repomocks.NewMockAdvertiserRepository(ctrl)
	notifier := notifymocks.NewMockNotifier(ctrl)

	balances.EXPECT().LatestPerAdvertiser().Return([]*domain.BalanceSnapshot{
		snapshot(42, float64Ptr(100)),
	}, nil)
	finance.EXPECT().CostByDate(gomock.Any()).Return(map[int64]float64{42: 600}, nil)
	events.EXPECT().InsertIgnoreDuplicate(gomock.Any()).Return(true, nil)
	notifier.EXPECT().Enabled().Return(true)
	events.EXPECT().CountTodayByAdvertiser(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(map[int64]int{42: 1}, nil)
	advertisers.EXPECT().NameMap([]int64{42}).Return(map[int64]string{42: "店铺A"}, nil)

	var sent string
	notifier.EXPECT().SendText(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, text string) error {
			sent = text
			return nil
		})

	service := NewService(testConfig(), &stubStores{store: &repository.Store{
		Advertisers: advertisers,
		Balances:    balances,
		Finance:     finance,
		AlertEvents: events,
	}}, notifier)

	summary, err := service.EvaluateRule(context.Background(), domain.RuleHalfHourly)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Notified)
	assert.Contains(t, sent, "余额预警·30分钟")
	assert.Contains(t, sent, "店铺A")
	assert.Contains(t, sent, "触发 1 个账户")
}

func TestEvaluateRuleRejectsUnknownRule(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	notifier := notifymocks.NewMockNotifier(ctrl)
	service := NewService(testConfig(), &stubStores{store: &repository.Store{}}, notifier)

	_, err := service.EvaluateRule(context.Background(), "RULE_42")
	assert.Error(t, err)
}

func TestSendHideDigestMarksNotified(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	actions := repomocks.NewMockCommentActionRepository(ctrl)
	notifier := notifymocks.NewMockNotifier(ctrl)

	records := []*domain.HideRecord{
		{AdvertiserID: 7, AdvertiserName: "店铺A", CommentID: 1, CommentText: "太差了"},
		{AdvertiserID: 7, AdvertiserName: "店铺A", CommentID: 2, CommentText: "别买"},
	}
	actions.EXPECT().SelectUnnotifiedHides(24).Return(records, nil)
	notifier.EXPECT().Enabled().Return(true)

	var sent string
	notifier.EXPECT().SendText(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, text string) error {
			sent = text
			return nil
		})

	var marked []domain.CommentAction
	actions.EXPECT().MarkNotified(gomock.Any()).DoAndReturn(
		func(keys []domain.CommentAction) error {
			marked = keys
			return nil
		})

	service := NewService(testConfig(), &stubStores{store: &repository.Store{
		CommentActions: actions,
	}}, notifier)

	summary, err := service.SendHideDigest(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Records)
	assert.True(t, summary.Notified)
	assert.Contains(t, sent, "店铺A：2 条")
	require.Len(t, marked, 2)
	assert.Equal(t, domain.ActionHide, marked[0].Action)
}

func TestSendHideDigestSkipsWhenDisabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	actions := repomocks.NewMockCommentActionRepository(ctrl)
	notifier := notifymocks.NewMockNotifier(ctrl)

	actions.EXPECT().SelectUnnotifiedHides(24).Return([]*domain.HideRecord{
		{AdvertiserID: 7, CommentID: 1},
	}, nil)
	notifier.EXPECT().Enabled().Return(false)
	// Rows stay pending: no send, no MarkNotified.

	service := NewService(testConfig(), &stubStores{store: &repository.Store{
		CommentActions: actions,
	}}, notifier)

	summary, err := service.SendHideDigest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Records)
	assert.False(t, summary.Notified)
}

package alerting

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/qianchuan-sync-api/internal/domain"
)

func TestBuildAlertTextFormatsMoneyInYuan(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)
	alerts := []*domain.AlertEvent{
		{
			AdvertiserID:        42,
			Severity:            domain.SeverityCrit,
			BalanceValid:        10000000, // 100.00 yuan
			BaselineSpend:       20000000, // 200.00 yuan
			ThresholdMultiplier: 1.0,
			Ratio:               0.5,
			SnapshotTS:          now,
		},
	}

	text := buildAlertText(domain.RuleHalfHourly, now, alerts, map[int64]string{42: "店铺A"}, 20)

	assert.Contains(t, text, "【余额预警·30分钟】触发 1 个账户")
	assert.Contains(t, text, "可用余额=100.00元")
	assert.Contains(t, text, "基准消耗=200.00元")
	assert.Contains(t, text, "阈值=200.00元")
	assert.Contains(t, text, "倍数=0.50")
}

func TestBuildAlertTextCapsShownItems(t *testing.T) {
	now := time.Now()
	alerts := make([]*domain.AlertEvent, 0, 25)
	for i := 0; i < 25; i++ {
		alerts = append(alerts, &domain.AlertEvent{AdvertiserID: int64(i + 1), BaselineSpend: 1})
	}

	text := buildAlertText(domain.RuleHourly, now, alerts, nil, 20)
	assert.Contains(t, text, "还有 5 个账户未展示")
}

func TestBuildDailyStatusMD(t *testing.T) {
	nameMap := map[int64]string{1: "店铺A"}
	balances := map[int64]float64{1: 10000000}
	yCost := map[int64]float64{1: 20000000}

	alerted := buildDailyStatusMD([]int64{1}, nameMap, balances, yCost, "2026-08-31")
	assert.Contains(t, alerted, "⚠️ 触发 1 个账户")
	assert.Contains(t, alerted, "店铺A｜余额 100.00｜昨日消耗 200.00｜倍率 0.50")

	calm := buildDailyStatusMD(nil, nameMap, balances, yCost, "2026-08-31")
	assert.Contains(t, calm, "✅ 余额充足，未触发预警")
	assert.Contains(t, calm, "【账户资金日报】日期: 2026-08-31 (昨日)")
}

func TestBuildDailyReportRows(t *testing.T) {
	rows := buildDailyReportRows(
		[]int64{1, 2},
		map[int64]string{1: "店铺A"},
		map[int64]float64{1: 70000000, 2: 5000000},
		map[int64]float64{1: 10000000, 2: 5000000},
		map[int64]float64{1: 70000000},
	)
	require.Len(t, rows, 2)

	assert.Equal(t, "店铺A", rows[0].Name)
	assert.Equal(t, "700.00", rows[0].Balance)
	assert.Equal(t, "7.0", rows[0].DaysLeft) // 700 / (700/7)
	assert.Equal(t, "7.00", rows[0].Ratio)

	// Advertiser without a name or 7 day history.
	assert.Equal(t, "2", rows[1].Name)
	assert.Equal(t, "-", rows[1].DaysLeft)
	assert.Equal(t, "1.00", rows[1].Ratio)
}

func TestBuildHideDigestTextGroupsAndTruncates(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	aweme := "直播间"

	long := strings.Repeat("差", 80)
	records := []*domain.HideRecord{
		{AdvertiserName: "店铺A", CommentText: long, AwemeName: &aweme},
		{AdvertiserName: "店铺A", CommentText: "别买"},
		{AdvertiserName: "店铺B", CommentText: "一般"},
	}

	text := buildHideDigestText(records, 24, now)

	assert.Contains(t, text, "本次新增隐藏：3 条")
	assert.Contains(t, text, "- 店铺A：2 条")
	assert.Contains(t, text, "- 店铺B：1 条")
	assert.Contains(t, text, strings.Repeat("差", 60)+"…")
	assert.Contains(t, text, "视频:直播间")
	assert.NotContains(t, text, strings.Repeat("差", 61))
}

func TestBuildHideDigestTextEmpty(t *testing.T) {
	text := buildHideDigestText(nil, 24, time.Now())
	assert.Contains(t, text, "本次无新增隐藏记录。")
}

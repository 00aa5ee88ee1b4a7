package alerting

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/vfg2006/qianchuan-sync-api/infrastructure/integrator/feishu/feishuclient"
	"github.com/vfg2006/qianchuan-sync-api/internal/domain"
	"github.com/vfg2006/qianchuan-sync-api/pkg/utils"
)

var ruleTitles = map[string]string{
	domain.RuleDaily:      "余额预警·日检(00:05)",
	domain.RuleHalfHourly: "余额预警·30分钟",
	domain.RuleHourly:     "余额预警·每小时",
}

const digestSampleTextLimit = 60

// buildAlertText renders new threshold alerts as one plain text message.
func buildAlertText(ruleID string, now time.Time, alerts []*domain.AlertEvent, nameMap map[int64]string, maxItems int) string {
	title, ok := ruleTitles[ruleID]
	if !ok {
		title = ruleID
	}

	lines := []string{
		fmt.Sprintf("【%s】触发 %d 个账户", title, len(alerts)),
		fmt.Sprintf("时间: %s (Asia/Shanghai)", now.Format("2006-01-02 15:04:05")),
		"说明: 余额/消耗单位已换算为'元'。",
		"",
	}

	shown := alerts
	if len(shown) > maxItems {
		shown = shown[:maxItems]
	}
	for i, a := range shown {
		name := nameMap[a.AdvertiserID]
		if name == "" {
			name = "(无名称)"
		}
		lines = append(lines, fmt.Sprintf(
			"%d. %s | %d | 严重度=%s | 可用余额=%s元 | 基准消耗=%s元 | 阈值=%s元 | 倍数=%.2f | 快照=%s",
			i+1,
			name,
			a.AdvertiserID,
			a.Severity,
			utils.FormatYuan(a.BalanceValid),
			utils.FormatYuan(a.BaselineSpend),
			utils.FormatYuan(a.ThresholdMultiplier*a.BaselineSpend),
			a.Ratio,
			a.SnapshotTS.Format("01-02 15:04:05"),
		))
	}

	if len(alerts) > len(shown) {
		lines = append(lines, fmt.Sprintf("... 还有 %d 个账户未展示(为避免刷屏)。", len(alerts)-len(shown)))
	}

	return strings.Join(lines, "\n")
}

func suppressedFooter(maxPerDay, suppressed int) string {
	return fmt.Sprintf("\n\n（已对单账户每日提醒次数做上限：%d 次；本次静默 %d 条。）", maxPerDay, suppressed)
}

// buildDailyStatusMD renders the status block shown above the daily report
// table.
func buildDailyStatusMD(alertedIDs []int64, nameMap map[int64]string, balanceMap, yCost map[int64]float64, yesterday string) string {
	var lines []string

	if len(alertedIDs) > 0 {
		lines = append(lines, fmt.Sprintf("【余额预警·每日】⚠️ 触发 %d 个账户：余额 < 昨日消耗 × 2", len(alertedIDs)))
		shown := alertedIDs
		if len(shown) > statusMaxAlerts {
			shown = shown[:statusMaxAlerts]
		}
		for _, advertiserID := range shown {
			name := nameMap[advertiserID]
			if name == "" {
				name = strconv.FormatInt(advertiserID, 10)
			}
			bal := balanceMap[advertiserID]
			cost := yCost[advertiserID]
			ratio := 0.0
			if cost > 0 {
				ratio = bal / cost
			}
			lines = append(lines, fmt.Sprintf("- %s｜余额 %s｜昨日消耗 %s｜倍率 %.2f",
				name, utils.FormatYuan(bal), utils.FormatYuan(cost), ratio))
		}
	} else {
		lines = append(lines, "【余额预警·每日】✅ 余额充足，未触发预警")
	}

	lines = append(lines,
		"--------------------",
		fmt.Sprintf("【账户资金日报】日期: %s (昨日)", yesterday),
		"字段：余额｜昨日消耗｜7日消耗｜可用天数(余额/7日均消)｜倍率(余额/昨日)",
	)
	return strings.Join(lines, "\n")
}

// buildDailyReportRows renders one table row per yesterday spender.
func buildDailyReportRows(reportIDs []int64, nameMap map[int64]string, balanceMap, yCost, cost7 map[int64]float64) []feishuclient.ReportRow {
	rows := make([]feishuclient.ReportRow, 0, len(reportIDs))
	for _, advertiserID := range reportIDs {
		name := nameMap[advertiserID]
		if name == "" {
			name = strconv.FormatInt(advertiserID, 10)
		}

		bal := balanceMap[advertiserID]
		cost := yCost[advertiserID]
		c7 := cost7[advertiserID]

		daysLeft := "-"
		if c7 > 0 {
			daysLeft = fmt.Sprintf("%.1f", bal/(c7/7.0))
		}
		ratio := 0.0
		if cost > 0 {
			ratio = bal / cost
		}

		rows = append(rows, feishuclient.ReportRow{
			Name:     name,
			Balance:  utils.FormatYuan(bal),
			YCost:    utils.FormatYuan(cost),
			Cost7d:   utils.FormatYuan(c7),
			DaysLeft: daysLeft,
			Ratio:    fmt.Sprintf("%.2f", ratio),
		})
	}
	return rows
}

// buildHideDigestText groups the freshly hidden comments by advertiser and
// renders the top offenders with a few sample comments each.
func buildHideDigestText(records []*domain.HideRecord, windowHours int, now time.Time) string {
	lines := []string{
		fmt.Sprintf("【千川负向评论已隐藏汇总】%s", now.Format("2006-01-02 15:04:05")),
		fmt.Sprintf("统计窗口：最近 %d 小时；本次新增隐藏：%d 条", windowHours, len(records)),
		"",
	}

	if len(records) == 0 {
		lines = append(lines, "本次无新增隐藏记录。")
		return strings.Join(lines, "\n")
	}

	groups := make(map[string][]*domain.HideRecord)
	for _, r := range records {
		groups[r.AdvertiserName] = append(groups[r.AdvertiserName], r)
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(groups[names[i]]) != len(groups[names[j]]) {
			return len(groups[names[i]]) > len(groups[names[j]])
		}
		return names[i] < names[j]
	})

	shown := names
	if len(shown) > 10 {
		shown = shown[:10]
	}
	for _, name := range shown {
		group := groups[name]
		lines = append(lines, fmt.Sprintf("- %s：%d 条", name, len(group)))

		samples := group
		if len(samples) > 3 {
			samples = samples[:3]
		}
		for _, sample := range samples {
			lines = append(lines, "    · "+digestSampleLine(sample))
		}
	}
	if len(names) > len(shown) {
		lines = append(lines, fmt.Sprintf("（其余 %d 个账户略）", len(names)-len(shown)))
	}

	return strings.Join(lines, "\n")
}

func digestSampleLine(r *domain.HideRecord) string {
	text := strings.TrimSpace(strings.ReplaceAll(r.CommentText, "\n", " "))
	if runes := []rune(text); len(runes) > digestSampleTextLimit {
		text = string(runes[:digestSampleTextLimit]) + "…"
	}

	var extra []string
	if r.AwemeName != nil && *r.AwemeName != "" {
		extra = append(extra, "视频:"+*r.AwemeName)
	}
	if r.AdName != nil && *r.AdName != "" {
		extra = append(extra, "广告:"+*r.AdName)
	}
	if len(extra) > 0 {
		return text + "（" + strings.Join(extra, " ") + "）"
	}
	return text
}

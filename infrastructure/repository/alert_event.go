package repository

import (
	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/qianchuan-sync-api/infrastructure/database/postgres"
	"github.com/vfg2006/qianchuan-sync-api/internal/domain"
)

const alertEventTable = "oe.fact_alert_event"

type AlertEventRepository interface {
	InsertIgnoreDuplicate(event *domain.AlertEvent) (bool, error)
	CountTodayByAdvertiser(ruleID string, advertiserIDs []int64, dayStart, dayEnd string) (map[int64]int, error)
}

type alertEventRepository struct {
	conn postgres.Queryer
}

func NewAlertEventRepository(conn postgres.Queryer) AlertEventRepository {
	return &alertEventRepository{
		conn: conn,
	}
}

// InsertIgnoreDuplicate appends one alert event. The dedup_key unique index
// absorbs replays: inserting an existing key is a no-op and returns false.
func (a *alertEventRepository) InsertIgnoreDuplicate(event *domain.AlertEvent) (bool, error) {
	eventSQL, eventArgs, err := squirrel.
		Insert(alertEventTable).
		Columns(
			"alert_ts", "advertiser_id", "rule_id", "severity",
			"balance_valid", "baseline_spend", "threshold_multiplier", "ratio",
			"snapshot_ts", "baseline_ts", "dedup_key", "detail",
		).
		Values(
			event.AlertTS, event.AdvertiserID, event.RuleID, event.Severity,
			event.BalanceValid, event.BaselineSpend, event.ThresholdMultiplier, event.Ratio,
			event.SnapshotTS, event.BaselineTS, event.DedupKey, event.Detail,
		).
		Suffix("ON CONFLICT (dedup_key) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, err
	}

	result, err := a.conn.Exec(eventSQL, eventArgs...)
	if err != nil {
		return false, err
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return inserted > 0, nil
}

// CountTodayByAdvertiser counts today's alert rows per advertiser for one
// rule, within [dayStart, dayEnd). Feeds the notification throttle.
func (a *alertEventRepository) CountTodayByAdvertiser(ruleID string, advertiserIDs []int64, dayStart, dayEnd string) (map[int64]int, error) {
	out := make(map[int64]int, len(advertiserIDs))
	if len(advertiserIDs) == 0 {
		return out, nil
	}

	countSQL, countArgs, err := squirrel.
		Select("advertiser_id", "COUNT(*)::int").
		From(alertEventTable).
		Where(squirrel.Eq{"rule_id": ruleID}).
		Where("advertiser_id = ANY(?)", pq.Array(advertiserIDs)).
		Where(squirrel.GtOrEq{"alert_ts": dayStart}).
		Where(squirrel.Lt{"alert_ts": dayEnd}).
		GroupBy("advertiser_id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := a.conn.Query(countSQL, countArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return nil, err
		}
		out[id] = count
	}
	return out, rows.Err()
}

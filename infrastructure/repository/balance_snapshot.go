package repository

import (
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/qianchuan-sync-api/infrastructure/database/postgres"
	"github.com/vfg2006/qianchuan-sync-api/internal/domain"
)

const balanceSnapshotTable = "oe.fact_balance_snapshot"

type BalanceSnapshotRepository interface {
	SaveSnapshot(snapshot *domain.BalanceSnapshot) error
	LatestPerAdvertiser() ([]*domain.BalanceSnapshot, error)
	LatestSnapshotTS() (*time.Time, error)
}

type balanceSnapshotRepository struct {
	conn postgres.Queryer
}

func NewBalanceSnapshotRepository(conn postgres.Queryer) BalanceSnapshotRepository {
	return &balanceSnapshotRepository{
		conn: conn,
	}
}

// SaveSnapshot upserts one wallet capture. The snapshot is a full overwrite:
// re-running the same (advertiser, ts) replaces every value including raw.
func (b *balanceSnapshotRepository) SaveSnapshot(snapshot *domain.BalanceSnapshot) error {
	snapSQL, snapArgs, err := squirrel.
		Insert(balanceSnapshotTable).
		Columns(
			"advertiser_id", "snapshot_ts",
			"account_total", "account_valid", "account_frozen",
			"account_general_total", "account_general_valid", "account_general_frozen",
			"account_bidding_total", "account_bidding_valid", "account_bidding_frozen",
			"raw",
		).
		Values(
			snapshot.AdvertiserID, snapshot.SnapshotTS,
			snapshot.AccountTotal, snapshot.AccountValid, snapshot.AccountFrozen,
			snapshot.AccountGeneralTotal, snapshot.AccountGeneralValid, snapshot.AccountGeneralFrozen,
			snapshot.AccountBiddingTotal, snapshot.AccountBiddingValid, snapshot.AccountBiddingFrozen,
			snapshot.Raw,
		).
		Suffix(`
			ON CONFLICT (advertiser_id, snapshot_ts) DO UPDATE SET
				account_total = EXCLUDED.account_total,
				account_valid = EXCLUDED.account_valid,
				account_frozen = EXCLUDED.account_frozen,
				account_general_total = EXCLUDED.account_general_total,
				account_general_valid = EXCLUDED.account_general_valid,
				account_general_frozen = EXCLUDED.account_general_frozen,
				account_bidding_total = EXCLUDED.account_bidding_total,
				account_bidding_valid = EXCLUDED.account_bidding_valid,
				account_bidding_frozen = EXCLUDED.account_bidding_frozen,
				raw = EXCLUDED.raw
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = b.conn.Exec(snapSQL, snapArgs...)
	return err
}

// LatestPerAdvertiser returns the newest snapshot of every advertiser.
func (b *balanceSnapshotRepository) LatestPerAdvertiser() ([]*domain.BalanceSnapshot, error) {
	latestSQL, latestArgs, err := squirrel.
		Select("b.advertiser_id", "b.snapshot_ts", "b.account_valid", "b.account_total", "b.account_frozen").
		Options("DISTINCT ON (b.advertiser_id)").
		From(balanceSnapshotTable + " b").
		OrderBy("b.advertiser_id", "b.snapshot_ts DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := b.conn.Query(latestSQL, latestArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.BalanceSnapshot
	for rows.Next() {
		snapshot := &domain.BalanceSnapshot{}
		if err := rows.Scan(
			&snapshot.AdvertiserID,
			&snapshot.SnapshotTS,
			&snapshot.AccountValid,
			&snapshot.AccountTotal,
			&snapshot.AccountFrozen,
		); err != nil {
			return nil, err
		}
		out = append(out, snapshot)
	}
	return out, rows.Err()
}

// LatestSnapshotTS returns the most recent snapshot timestamp across all
// advertisers, or nil when the table is empty. Used for freshness checks.
func (b *balanceSnapshotRepository) LatestSnapshotTS() (*time.Time, error) {
	tsSQL, tsArgs, err := squirrel.
		Select("MAX(snapshot_ts)").
		From(balanceSnapshotTable).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var ts sql.NullTime
	if err := b.conn.QueryRow(tsSQL, tsArgs...).Scan(&ts); err != nil {
		return nil, err
	}
	if !ts.Valid {
		return nil, nil
	}
	return &ts.Time, nil
}

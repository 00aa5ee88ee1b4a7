package repository

import (
	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/qianchuan-sync-api/infrastructure/database/postgres"
	"github.com/vfg2006/qianchuan-sync-api/internal/domain"
)

const (
	financeDailyTable = "oe.fact_finance_daily"
	spendHourlyTable  = "oe.fact_spend_hourly"
)

type FinanceDailyRepository interface {
	SaveOrUpdate(rows []*domain.FinanceDaily) error
	CostByDate(date string) (map[int64]float64, error)
	CostWindow(startDate, endDate string) (map[int64]float64, error)
	HourlySpend(hourTS string) (map[int64]float64, error)
}

type financeDailyRepository struct {
	conn postgres.Queryer
}

func NewFinanceDailyRepository(conn postgres.Queryer) FinanceDailyRepository {
	return &financeDailyRepository{
		conn: conn,
	}
}

// SaveOrUpdate upserts ledger days. The newest fetch is authoritative, so
// every column is overwritten on conflict.
func (f *financeDailyRepository) SaveOrUpdate(rows []*domain.FinanceDaily) error {
	if len(rows) == 0 {
		return nil
	}

	query := squirrel.
		Insert(financeDailyTable).
		Columns(
			"advertiser_id", "date",
			"deduction_cost", "cost", "cash_cost", "grant_cost", "income", "transfer_in", "transfer_out",
			"cash_balance", "grant_balance", "total_balance",
			"share_cost", "qc_aweme_cost", "qc_aweme_cash_cost", "qc_aweme_grant_cost", "share_wallet_cost",
			"coupon_cost", "view_delivery_type", "raw",
		).
		PlaceholderFormat(squirrel.Dollar)

	for _, row := range rows {
		query = query.Values(
			row.AdvertiserID, row.Date,
			row.DeductionCost, row.Cost, row.CashCost, row.GrantCost, row.Income, row.TransferIn, row.TransferOut,
			row.CashBalance, row.GrantBalance, row.TotalBalance,
			row.ShareCost, row.AwemeCost, row.AwemeCashCost, row.AwemeGrantCost, row.ShareWalletCost,
			row.CouponCost, row.ViewDeliveryType, row.Raw,
		)
	}

	query = query.Suffix(`
		ON CONFLICT (advertiser_id, date) DO UPDATE SET
			deduction_cost = EXCLUDED.deduction_cost,
			cost = EXCLUDED.cost,
			cash_cost = EXCLUDED.cash_cost,
			grant_cost = EXCLUDED.grant_cost,
			income = EXCLUDED.income,
			transfer_in = EXCLUDED.transfer_in,
			transfer_out = EXCLUDED.transfer_out,
			cash_balance = EXCLUDED.cash_balance,
			grant_balance = EXCLUDED.grant_balance,
			total_balance = EXCLUDED.total_balance,
			share_cost = EXCLUDED.share_cost,
			qc_aweme_cost = EXCLUDED.qc_aweme_cost,
			qc_aweme_cash_cost = EXCLUDED.qc_aweme_cash_cost,
			qc_aweme_grant_cost = EXCLUDED.qc_aweme_grant_cost,
			share_wallet_cost = EXCLUDED.share_wallet_cost,
			coupon_cost = EXCLUDED.coupon_cost,
			view_delivery_type = EXCLUDED.view_delivery_type,
			raw = EXCLUDED.raw
	`)

	financeSQL, financeArgs, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = f.conn.Exec(financeSQL, financeArgs...)
	return err
}

// CostByDate maps advertiser id to its cost on one day (yyyy-MM-dd).
func (f *financeDailyRepository) CostByDate(date string) (map[int64]float64, error) {
	costSQL, costArgs, err := squirrel.
		Select("advertiser_id", "COALESCE(cost, 0)").
		From(financeDailyTable).
		Where(squirrel.Eq{"date": date}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	return f.scanCostMap(costSQL, costArgs)
}

// CostWindow maps advertiser id to its summed cost over a closed date range.
func (f *financeDailyRepository) CostWindow(startDate, endDate string) (map[int64]float64, error) {
	costSQL, costArgs, err := squirrel.
		Select("advertiser_id", "COALESCE(SUM(cost), 0)").
		From(financeDailyTable).
		Where(squirrel.GtOrEq{"date": startDate}).
		Where(squirrel.LtOrEq{"date": endDate}).
		GroupBy("advertiser_id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	return f.scanCostMap(costSQL, costArgs)
}

// HourlySpend maps advertiser id to its spend in the hour bucket given as
// "2006-01-02 15:00:00". The table is fed by an external pipeline and may be
// absent; callers treat an error here as "rule not applicable".
func (f *financeDailyRepository) HourlySpend(hourTS string) (map[int64]float64, error) {
	spendSQL, spendArgs, err := squirrel.
		Select("advertiser_id", "spend").
		From(spendHourlyTable).
		Where(squirrel.Eq{"hour_ts": hourTS}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	return f.scanCostMap(spendSQL, spendArgs)
}

func (f *financeDailyRepository) scanCostMap(query string, args []interface{}) (map[int64]float64, error) {
	rows, err := f.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[int64]float64{}
	for rows.Next() {
		var id int64
		var value float64
		if err := rows.Scan(&id, &value); err != nil {
			return nil, err
		}
		out[id] = value
	}
	return out, rows.Err()
}

package repository

import (
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/qianchuan-sync-api/infrastructure/database/postgres"
	"github.com/vfg2006/qianchuan-sync-api/internal/domain"
)

const advertiserTable = "oe.dim_advertiser"

type AdvertiserRepository interface {
	SaveOrUpdate(advertisers []*domain.Advertiser, seenAt time.Time) error
	ListAdvertiserIDs() ([]int64, error)
	NameMap(advertiserIDs []int64) (map[int64]string, error)
}

type advertiserRepository struct {
	conn postgres.Queryer
}

func NewAdvertiserRepository(conn postgres.Queryer) AdvertiserRepository {
	return &advertiserRepository{
		conn: conn,
	}
}

// SaveOrUpdate upserts the advertiser dimension. The name is authoritative on
// every sync; descriptive fields only ever upgrade from null; first_seen_at
// is kept from the original row while last_seen_at always moves forward.
func (a *advertiserRepository) SaveOrUpdate(advertisers []*domain.Advertiser, seenAt time.Time) error {
	if len(advertisers) == 0 {
		return nil
	}

	query := squirrel.
		Insert(advertiserTable).
		Columns(
			"advertiser_id", "advertiser_name", "company",
			"first_industry_name", "second_industry_name", "status",
			"first_seen_at", "last_seen_at",
		).
		PlaceholderFormat(squirrel.Dollar)

	for _, adv := range advertisers {
		query = query.Values(
			adv.AdvertiserID,
			adv.AdvertiserName,
			adv.Company,
			adv.FirstIndustryName,
			adv.SecondIndustryName,
			adv.Status,
			seenAt,
			seenAt,
		)
	}

	query = query.Suffix(`
		ON CONFLICT (advertiser_id) DO UPDATE SET
			advertiser_name = EXCLUDED.advertiser_name,
			company = COALESCE(EXCLUDED.company, oe.dim_advertiser.company),
			first_industry_name = COALESCE(EXCLUDED.first_industry_name, oe.dim_advertiser.first_industry_name),
			second_industry_name = COALESCE(EXCLUDED.second_industry_name, oe.dim_advertiser.second_industry_name),
			status = COALESCE(EXCLUDED.status, oe.dim_advertiser.status),
			last_seen_at = EXCLUDED.last_seen_at
	`)

	advSQL, advArgs, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = a.conn.Exec(advSQL, advArgs...)
	return err
}

// ListAdvertiserIDs returns every known advertiser id in ascending order.
// Passes iterate this list so runs are deterministic.
func (a *advertiserRepository) ListAdvertiserIDs() ([]int64, error) {
	idsSQL, idsArgs, err := squirrel.
		Select("advertiser_id").
		From(advertiserTable).
		OrderBy("advertiser_id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := a.conn.Query(idsSQL, idsArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (a *advertiserRepository) NameMap(advertiserIDs []int64) (map[int64]string, error) {
	out := make(map[int64]string, len(advertiserIDs))
	if len(advertiserIDs) == 0 {
		return out, nil
	}

	nameSQL, nameArgs, err := squirrel.
		Select("advertiser_id", "advertiser_name").
		From(advertiserTable).
		Where("advertiser_id = ANY(?)", pq.Array(advertiserIDs)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := a.conn.Query(nameSQL, nameArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		out[id] = name
	}
	return out, rows.Err()
}

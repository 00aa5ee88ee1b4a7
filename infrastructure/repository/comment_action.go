package repository

import (
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/qianchuan-sync-api/infrastructure/database/postgres"
	"github.com/vfg2006/qianchuan-sync-api/internal/domain"
)

const commentActionTable = "oe.fact_comment_action"

type CommentActionRepository interface {
	UpsertOutcome(action *domain.CommentAction) error
	SelectUnnotifiedHides(sinceHours int) ([]*domain.HideRecord, error)
	MarkNotified(keys []domain.CommentAction) error
	CountUnnotifiedHides() (int, error)
}

type commentActionRepository struct {
	conn postgres.Queryer
}

func NewCommentActionRepository(conn postgres.Queryer) CommentActionRepository {
	return &commentActionRepository{
		conn: conn,
	}
}

// UpsertOutcome records the outcome of one action attempt. Retries update
// the row in place; notified_at is deliberately absent from the update list
// so a delivered notification is never re-armed by a later retry.
func (r *commentActionRepository) UpsertOutcome(action *domain.CommentAction) error {
	outcomeSQL, outcomeArgs, err := squirrel.
		Insert(commentActionTable).
		Columns(
			"advertiser_id", "comment_id", "action", "action_ts", "status",
			"request_id", "error_code", "error_message", "raw",
		).
		Values(
			action.AdvertiserID, action.CommentID, action.Action, action.ActionTS, action.Status,
			action.RequestID, action.ErrorCode, action.ErrorMessage, action.Raw,
		).
		Suffix(`
			ON CONFLICT (advertiser_id, comment_id, action) DO UPDATE SET
				action_ts = EXCLUDED.action_ts,
				status = EXCLUDED.status,
				request_id = EXCLUDED.request_id,
				error_code = EXCLUDED.error_code,
				error_message = EXCLUDED.error_message,
				raw = COALESCE(EXCLUDED.raw, oe.fact_comment_action.raw)
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.conn.Exec(outcomeSQL, outcomeArgs...)
	return err
}

// SelectUnnotifiedHides returns successful hides from the last sinceHours
// that have not been included in a digest yet, newest first, joined with
// comment and advertiser context.
func (r *commentActionRepository) SelectUnnotifiedHides(sinceHours int) ([]*domain.HideRecord, error) {
	hidesSQL, hidesArgs, err := squirrel.
		Select(
			"a.advertiser_id",
			"COALESCE(d.advertiser_name, a.advertiser_id::text)",
			"a.comment_id",
			"a.action_ts",
			"COALESCE(c.comment_text, '')",
			"c.emotion_type",
			"c.aweme_name",
			"c.ad_name",
		).
		From(commentActionTable+" a").
		LeftJoin("oe.fact_comment c ON c.advertiser_id = a.advertiser_id AND c.comment_id = a.comment_id").
		LeftJoin("oe.dim_advertiser d ON d.advertiser_id = a.advertiser_id").
		Where(squirrel.Eq{"a.action": domain.ActionHide}).
		Where(squirrel.Eq{"a.status": domain.ActionStatusSuccess}).
		Where("a.notified_at IS NULL").
		Where("a.action_ts >= NOW() - (? || ' hours')::interval", fmt.Sprintf("%d", sinceHours)).
		OrderBy("a.action_ts DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(hidesSQL, hidesArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.HideRecord
	for rows.Next() {
		record := &domain.HideRecord{}
		if err := rows.Scan(
			&record.AdvertiserID,
			&record.AdvertiserName,
			&record.CommentID,
			&record.ActionTS,
			&record.CommentText,
			&record.EmotionType,
			&record.AwemeName,
			&record.AdName,
		); err != nil {
			return nil, err
		}
		record.CommentText = strings.TrimSpace(record.CommentText)
		out = append(out, record)
	}
	return out, rows.Err()
}

// MarkNotified stamps notified_at on the given successful hide rows.
func (r *commentActionRepository) MarkNotified(keys []domain.CommentAction) error {
	if len(keys) == 0 {
		return nil
	}

	values := make([]string, 0, len(keys))
	args := make([]interface{}, 0, len(keys)*2)
	for i, key := range keys {
		values = append(values, fmt.Sprintf("($%d::bigint, $%d::bigint)", i*2+1, i*2+2))
		args = append(args, key.AdvertiserID, key.CommentID)
	}

	markSQL := fmt.Sprintf(`
		UPDATE oe.fact_comment_action a
		SET notified_at = NOW()
		FROM (VALUES %s) AS v(advertiser_id, comment_id)
		WHERE a.advertiser_id = v.advertiser_id
		  AND a.comment_id = v.comment_id
		  AND a.action = '%s'
		  AND a.status = '%s'
	`, strings.Join(values, ","), domain.ActionHide, domain.ActionStatusSuccess)

	_, err := r.conn.Exec(markSQL, args...)
	return err
}

// CountUnnotifiedHides returns the current digest backlog size.
func (r *commentActionRepository) CountUnnotifiedHides() (int, error) {
	countSQL, countArgs, err := squirrel.
		Select("COUNT(*)").
		From(commentActionTable).
		Where(squirrel.Eq{"action": domain.ActionHide}).
		Where(squirrel.Eq{"status": domain.ActionStatusSuccess}).
		Where("notified_at IS NULL").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	if err := r.conn.QueryRow(countSQL, countArgs...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

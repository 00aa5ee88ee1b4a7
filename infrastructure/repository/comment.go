package repository

import (
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/qianchuan-sync-api/infrastructure/database/postgres"
	"github.com/vfg2006/qianchuan-sync-api/internal/domain"
)

const commentTable = "oe.fact_comment"

type CommentRepository interface {
	SaveOrUpdate(comments []*domain.Comment) error
	MarkHidden(advertiserID int64, commentIDs []int64) error
	LatestSeenAt() (*time.Time, error)
}

type commentRepository struct {
	conn postgres.Queryer
}

func NewCommentRepository(conn postgres.Queryer) CommentRepository {
	return &commentRepository{
		conn: conn,
	}
}

// SaveOrUpdate upserts fetched comments. Descriptive columns merge with
// COALESCE so a sparse refetch never erases known data; an empty comment
// text is treated as absent. raw and last_seen_at always take the new row.
func (c *commentRepository) SaveOrUpdate(comments []*domain.Comment) error {
	if len(comments) == 0 {
		return nil
	}

	query := squirrel.
		Insert(commentTable).
		Columns(
			"advertiser_id", "comment_id", "comment_time", "comment_text",
			"emotion_type", "hide_status", "level_type", "is_replied", "reply_count", "like_count",
			"user_id", "user_name", "aweme_id", "aweme_name",
			"ad_id", "ad_name", "creative_id", "item_id", "item_title",
			"raw", "first_seen_at", "last_seen_at",
		).
		PlaceholderFormat(squirrel.Dollar)

	for _, comment := range comments {
		query = query.Values(
			comment.AdvertiserID, comment.CommentID, comment.CommentTime, comment.CommentText,
			comment.EmotionType, comment.HideStatus, comment.LevelType, comment.IsReplied, comment.ReplyCount, comment.LikeCount,
			comment.UserID, comment.UserName, comment.AwemeID, comment.AwemeName,
			comment.AdID, comment.AdName, comment.CreativeID, comment.ItemID, comment.ItemTitle,
			comment.Raw, comment.LastSeenAt, comment.LastSeenAt,
		)
	}

	query = query.Suffix(`
		ON CONFLICT (advertiser_id, comment_id) DO UPDATE SET
			comment_time = COALESCE(EXCLUDED.comment_time, oe.fact_comment.comment_time),
			comment_text = COALESCE(NULLIF(EXCLUDED.comment_text, ''), oe.fact_comment.comment_text),
			emotion_type = COALESCE(EXCLUDED.emotion_type, oe.fact_comment.emotion_type),
			hide_status = COALESCE(EXCLUDED.hide_status, oe.fact_comment.hide_status),
			level_type = COALESCE(EXCLUDED.level_type, oe.fact_comment.level_type),
			is_replied = COALESCE(EXCLUDED.is_replied, oe.fact_comment.is_replied),
			reply_count = COALESCE(EXCLUDED.reply_count, oe.fact_comment.reply_count),
			like_count = COALESCE(EXCLUDED.like_count, oe.fact_comment.like_count),
			user_id = COALESCE(EXCLUDED.user_id, oe.fact_comment.user_id),
			user_name = COALESCE(EXCLUDED.user_name, oe.fact_comment.user_name),
			aweme_id = COALESCE(EXCLUDED.aweme_id, oe.fact_comment.aweme_id),
			aweme_name = COALESCE(EXCLUDED.aweme_name, oe.fact_comment.aweme_name),
			ad_id = COALESCE(EXCLUDED.ad_id, oe.fact_comment.ad_id),
			ad_name = COALESCE(EXCLUDED.ad_name, oe.fact_comment.ad_name),
			creative_id = COALESCE(EXCLUDED.creative_id, oe.fact_comment.creative_id),
			item_id = COALESCE(EXCLUDED.item_id, oe.fact_comment.item_id),
			item_title = COALESCE(EXCLUDED.item_title, oe.fact_comment.item_title),
			raw = EXCLUDED.raw,
			last_seen_at = EXCLUDED.last_seen_at
	`)

	commentSQL, commentArgs, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = c.conn.Exec(commentSQL, commentArgs...)
	return err
}

// MarkHidden flips comments to hidden locally after the platform confirmed
// the hide. hidden_at is only set once; re-marking keeps the original time.
func (c *commentRepository) MarkHidden(advertiserID int64, commentIDs []int64) error {
	if len(commentIDs) == 0 {
		return nil
	}

	markSQL, markArgs, err := squirrel.
		Update(commentTable).
		Set("hide_status", domain.HideStatusHidden).
		Set("hidden_at", squirrel.Expr("COALESCE(hidden_at, NOW())")).
		Set("last_seen_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"advertiser_id": advertiserID}).
		Where("comment_id = ANY(?)", pq.Array(commentIDs)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = c.conn.Exec(markSQL, markArgs...)
	return err
}

// LatestSeenAt returns the newest last_seen_at across all comments, or nil
// when no comment was ever synced. Used for freshness checks.
func (c *commentRepository) LatestSeenAt() (*time.Time, error) {
	seenSQL, seenArgs, err := squirrel.
		Select("MAX(last_seen_at)").
		From(commentTable).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var ts sql.NullTime
	if err := c.conn.QueryRow(seenSQL, seenArgs...).Scan(&ts); err != nil {
		return nil, err
	}
	if !ts.Valid {
		return nil, nil
	}
	return &ts.Time, nil
}

package domain

import "time"

// Comment emotion as classified by the platform.
const (
	EmotionNegative = "NEGATIVE"
)

// Platform hide status values for a comment.
const (
	HideStatusHidden    = "HIDE"
	HideStatusNotHidden = "NOT_HIDE"
)

// Comment is an ad comment fetched from the platform, keyed by
// (advertiser_id, comment_id). Descriptive fields follow COALESCE merge
// semantics on resync; Raw and LastSeenAt always take the newest fetch.
type Comment struct {
	AdvertiserID int64
	CommentID    int64

	CommentTime *time.Time
	CommentText string
	EmotionType *string
	HideStatus  *string
	LevelType   *string
	IsReplied   *bool
	ReplyCount  int64
	LikeCount   int64

	UserID   *string
	UserName *string

	AwemeID    *string
	AwemeName  *string
	AdID       *int64
	AdName     *string
	CreativeID *int64
	ItemID     *int64
	ItemTitle  *string

	Raw        []byte
	LastSeenAt time.Time
}

// HideEligible reports whether this comment should be hidden on the current
// pass. Upstream is authoritative for both sentiment and hide status, so the
// decision is recomputed from fetched data every pass.
func (c *Comment) HideEligible() bool {
	if c.EmotionType == nil || *c.EmotionType != EmotionNegative {
		return false
	}
	return c.HideStatus == nil || *c.HideStatus != HideStatusHidden
}

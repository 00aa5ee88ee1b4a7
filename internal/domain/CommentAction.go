package domain

import "time"

// Kinds of mutating actions applied to comments.
const (
	ActionHide = "hide"
)

// Action outcome statuses.
const (
	ActionStatusSuccess = "success"
	ActionStatusFailed  = "failed"
)

// CommentAction is the durable outcome of one mutating action against one
// comment, keyed by (advertiser_id, comment_id, action). Retries of the same
// attempt update the row in place; NotifiedAt, once set, is never cleared —
// it is the dedup guard for downstream notification delivery.
type CommentAction struct {
	AdvertiserID int64
	CommentID    int64
	Action       string
	ActionTS     time.Time
	Status       string

	RequestID    *string
	ErrorCode    *int
	ErrorMessage *string
	Raw          []byte

	NotifiedAt *time.Time
}

// HideRecord is a successful hide joined with its comment and advertiser
// context, used for notification digests.
type HideRecord struct {
	AdvertiserID   int64
	AdvertiserName string
	CommentID      int64
	ActionTS       time.Time
	CommentText    string
	EmotionType    *string
	AwemeName      *string
	AdName         *string
}

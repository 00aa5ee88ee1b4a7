package moderating

import (
	"context"
	"time"
)

// CommentModerator runs the comment sync and hide pass.
type CommentModerator interface {
	// SyncComments fetches recent comments for every known advertiser,
	// persists them and hides the negative ones that are still visible.
	SyncComments(ctx context.Context) (*Summary, error)

	// BackfillComments replays a historic date range in windowed chunks,
	// optionally hiding negative comments along the way.
	BackfillComments(ctx context.Context, opts BackfillOptions) (*Summary, error)
}

// BackfillOptions bounds a historic replay. The platform rejects comment
// queries spanning more than 90 days, so the range is fetched in windows of
// WindowDays (defaults to 7, capped at 90).
type BackfillOptions struct {
	StartDate  time.Time
	EndDate    time.Time
	WindowDays int
	Hide       bool
}

// Summary is the outcome of one comment pass.
type Summary struct {
	Advertisers         int
	CommentsUpserted    int
	HideSuccess         int
	HideFailed          int
	SkippedNoPermission int

	StartedAt time.Time
	Duration  time.Duration
}

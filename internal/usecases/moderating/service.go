package moderating

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/qianchuan-sync-api/infrastructure/integrator/oceanengine/oeclient"
	"github.com/vfg2006/qianchuan-sync-api/infrastructure/integrator/oceanengine/oedomain"
	"github.com/vfg2006/qianchuan-sync-api/infrastructure/repository"
	"github.com/vfg2006/qianchuan-sync-api/internal/config"
	"github.com/vfg2006/qianchuan-sync-api/internal/domain"
)

// StoreProvider hands out repository bundles, optionally scoped to one
// transaction.
type StoreProvider interface {
	Store() *repository.Store
	InTransaction(ctx context.Context, fn func(*repository.Store) error) error
}

// Service syncs ad comments into the warehouse and hides the negative ones
// that are still visible on the platform.
type Service struct {
	cfg    *config.Config
	client oeclient.Client
	stores StoreProvider
	now    func() time.Time
}

func NewService(cfg *config.Config, client oeclient.Client, stores StoreProvider) *Service {
	return &Service{
		cfg:    cfg,
		client: client,
		stores: stores,
		now:    time.Now,
	}
}

// SyncComments walks every known advertiser inside one transaction. An
// advertiser the grant has no permission for is skipped; any other platform
// error aborts the pass and rolls everything back.
func (s *Service) SyncComments(ctx context.Context) (*Summary, error) {
	loc := s.cfg.Location()
	now := s.now().In(loc)

	summary := &Summary{StartedAt: now}

	lookback := s.cfg.CommentSync.LookbackHours
	if lookback <= 0 {
		lookback = 48
	}
	startDate := now.Add(-time.Duration(lookback) * time.Hour).Format("2006-01-02")
	endDate := now.Format("2006-01-02")

	err := s.stores.InTransaction(ctx, func(store *repository.Store) error {
		advertiserIDs, err := store.Advertisers.ListAdvertiserIDs()
		if err != nil {
			return errors.Wrap(err, "listing advertisers")
		}
		summary.Advertisers = len(advertiserIDs)

		logrus.WithFields(logrus.Fields{
			"advertisers": len(advertiserIDs),
			"start_date":  startDate,
			"end_date":    endDate,
		}).Info("Comment sync pass started")

		for idx, advertiserID := range advertiserIDs {
			fetched, err := s.client.Comments(ctx, advertiserID, startDate, endDate, oedomain.CommentHideFilterNotHidden)
			if oedomain.IsPermissionDenied(err) {
				summary.SkippedNoPermission++
				logrus.WithField("advertiser_id", advertiserID).Warn("No permission for advertiser, skipping comments")
				continue
			}
			if err != nil {
				return errors.Wrapf(err, "fetching comments advertiser_id=%d", advertiserID)
			}

			comments := make([]*domain.Comment, 0, len(fetched))
			toHide := make([]int64, 0)
			for _, c := range fetched {
				mapped := mapComment(advertiserID, c, loc, now)
				if mapped == nil {
					continue
				}
				comments = append(comments, mapped)
				if mapped.HideEligible() {
					toHide = append(toHide, mapped.CommentID)
				}
			}

			if err := store.Comments.SaveOrUpdate(comments); err != nil {
				return errors.Wrapf(err, "saving comments advertiser_id=%d", advertiserID)
			}
			summary.CommentsUpserted += len(comments)

			if s.cfg.CommentSync.HideEnabled && len(toHide) > 0 {
				ok, failed, err := s.hideComments(ctx, store, advertiserID, toHide, now)
				if err != nil {
					return err
				}
				summary.HideSuccess += ok
				summary.HideFailed += failed
			}

			if (idx+1)%10 == 0 || idx+1 == len(advertiserIDs) {
				logrus.WithFields(logrus.Fields{
					"progress":  idx + 1,
					"total":     len(advertiserIDs),
					"upserted":  summary.CommentsUpserted,
					"hide_ok":   summary.HideSuccess,
					"hide_fail": summary.HideFailed,
				}).Info("Comment sync progress")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	summary.Duration = s.now().Sub(summary.StartedAt)

	logrus.WithFields(logrus.Fields{
		"upserted":  summary.CommentsUpserted,
		"hide_ok":   summary.HideSuccess,
		"hide_fail": summary.HideFailed,
		"skipped":   summary.SkippedNoPermission,
	}).Info("Comment sync pass finished")

	return summary, nil
}

// hideComments hides the given comments in platform-sized batches and records
// one durable outcome row per comment. A failed batch call marks the whole
// batch as failed and moves on; only repository errors abort the pass.
func (s *Service) hideComments(ctx context.Context, store *repository.Store, advertiserID int64, commentIDs []int64, actionTS time.Time) (success, failed int, err error) {
	ids := dedupSorted(commentIDs)

	for start := 0; start < len(ids); start += oeclient.HideBatchLimit {
		end := start + oeclient.HideBatchLimit
		if end > len(ids) {
			end = len(ids)
		}
		batch := ids[start:end]

		result, callErr := s.client.HideComments(ctx, advertiserID, batch)
		if callErr != nil {
			failed += len(batch)
			logrus.WithFields(logrus.Fields{
				"advertiser_id": advertiserID,
				"batch_size":    len(batch),
			}).WithError(callErr).Warn("Hide batch failed")

			for _, commentID := range batch {
				if err := store.CommentActions.UpsertOutcome(failedOutcome(advertiserID, commentID, actionTS, callErr)); err != nil {
					return success, failed, errors.Wrap(err, "recording failed hide outcome")
				}
			}
			continue
		}

		successSet := make(map[int64]struct{})
		for _, id := range result.SuccessIDs() {
			successSet[id] = struct{}{}
		}

		hidden := make([]int64, 0, len(batch))
		for _, commentID := range batch {
			outcome := &domain.CommentAction{
				AdvertiserID: advertiserID,
				CommentID:    commentID,
				Action:       domain.ActionHide,
				ActionTS:     actionTS,
				Raw:          result.Raw,
			}
			if result.RequestID != "" {
				outcome.RequestID = &result.RequestID
			}

			if _, ok := successSet[commentID]; ok {
				outcome.Status = domain.ActionStatusSuccess
				hidden = append(hidden, commentID)
				success++
			} else {
				outcome.Status = domain.ActionStatusFailed
				msg := "hide failed"
				outcome.ErrorMessage = &msg
				failed++
			}

			if err := store.CommentActions.UpsertOutcome(outcome); err != nil {
				return success, failed, errors.Wrap(err, "recording hide outcome")
			}
		}

		if len(hidden) > 0 {
			if err := store.Comments.MarkHidden(advertiserID, hidden); err != nil {
				return success, failed, errors.Wrap(err, "marking comments hidden")
			}
		}
	}

	return success, failed, nil
}

func failedOutcome(advertiserID, commentID int64, actionTS time.Time, callErr error) *domain.CommentAction {
	msg := callErr.Error()
	outcome := &domain.CommentAction{
		AdvertiserID: advertiserID,
		CommentID:    commentID,
		Action:       domain.ActionHide,
		ActionTS:     actionTS,
		Status:       domain.ActionStatusFailed,
		ErrorMessage: &msg,
	}
	if apiErr, ok := oedomain.AsAPIError(callErr); ok {
		code := int(apiErr.Code)
		outcome.ErrorCode = &code
	}
	return outcome
}

// mapComment converts a platform comment into the warehouse row. Comments
// without a numeric id cannot be keyed and are dropped.
func mapComment(advertiserID int64, c oedomain.Comment, loc *time.Location, seenAt time.Time) *domain.Comment {
	commentID, ok := c.CommentID.Int64()
	if !ok {
		logrus.WithFields(logrus.Fields{
			"advertiser_id": advertiserID,
			"comment_id":    c.CommentID.String(),
		}).Warn("Dropping comment without numeric id")
		return nil
	}

	mapped := &domain.Comment{
		AdvertiserID: advertiserID,
		CommentID:    commentID,
		CommentTime:  c.ParseCreateTime(loc),
		CommentText:  c.EffectiveText(),
		EmotionType:  optString(c.EmotionType),
		HideStatus:   optString(c.HideStatus),
		LevelType:    optString(c.LevelType),
		IsReplied:    c.IsReplied,
		UserID:       optFlex(c.UserID, c.AuthorID),
		UserName:     optString(firstNonEmpty(c.UserName, c.AuthorName)),
		AwemeID:      optFlex(c.AwemeID),
		AwemeName:    optString(c.AwemeName),
		AdName:       optString(c.AdName),
		ItemTitle:    optString(c.ItemTitle),
		Raw:          c.Raw,
		LastSeenAt:   seenAt,
	}

	if c.ReplyCount != nil {
		mapped.ReplyCount = int64(*c.ReplyCount)
	}
	if c.LikeCount != nil {
		mapped.LikeCount = int64(*c.LikeCount)
	}
	if id, ok := c.AdID.Int64(); ok {
		mapped.AdID = &id
	}
	if id, ok := c.CreativeID.Int64(); ok {
		mapped.CreativeID = &id
	}
	if id, ok := c.ItemID.Int64(); ok {
		mapped.ItemID = &id
	}

	return mapped
}

func dedupSorted(ids []int64) []int64 {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	out := make([]int64, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optFlex(values ...oedomain.FlexString) *string {
	for _, v := range values {
		if s := v.String(); s != "" {
			return &s
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

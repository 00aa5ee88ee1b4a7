package moderating

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/qianchuan-sync-api/infrastructure/integrator/oceanengine/oedomain"
	"github.com/vfg2006/qianchuan-sync-api/infrastructure/repository"
	"github.com/vfg2006/qianchuan-sync-api/internal/domain"
)

const (
	defaultBackfillWindowDays = 7
	maxBackfillWindowDays     = 90
)

type dateWindow struct {
	start time.Time
	end   time.Time
}

// BackfillComments replays the comment history between StartDate and EndDate
// for every known advertiser. The range is fetched in windows so a single
// query never spans more than the platform allows, and the whole replay runs
// in one transaction. Hiding follows opts.Hide, not the scheduled-pass flag.
func (s *Service) BackfillComments(ctx context.Context, opts BackfillOptions) (*Summary, error) {
	loc := s.cfg.Location()
	now := s.now().In(loc)

	if opts.EndDate.Before(opts.StartDate) {
		return nil, errors.Errorf("backfill end date %s before start date %s",
			opts.EndDate.Format("2006-01-02"), opts.StartDate.Format("2006-01-02"))
	}

	windowDays := opts.WindowDays
	if windowDays <= 0 {
		windowDays = defaultBackfillWindowDays
	}
	if windowDays > maxBackfillWindowDays {
		logrus.WithField("window_days", opts.WindowDays).Warn("Backfill window capped at platform maximum of 90 days")
		windowDays = maxBackfillWindowDays
	}

	windows := dateWindows(opts.StartDate, opts.EndDate, windowDays)
	summary := &Summary{StartedAt: now}

	err := s.stores.InTransaction(ctx, func(store *repository.Store) error {
		advertiserIDs, err := store.Advertisers.ListAdvertiserIDs()
		if err != nil {
			return errors.Wrap(err, "listing advertisers")
		}
		summary.Advertisers = len(advertiserIDs)

		logrus.WithFields(logrus.Fields{
			"advertisers": len(advertiserIDs),
			"windows":     len(windows),
			"start_date":  opts.StartDate.Format("2006-01-02"),
			"end_date":    opts.EndDate.Format("2006-01-02"),
			"window_days": windowDays,
			"hide":        opts.Hide,
		}).Info("Comment backfill started")

		for idx, advertiserID := range advertiserIDs {
			noPermission := false

			for _, window := range windows {
				fetched, err := s.client.Comments(ctx, advertiserID,
					window.start.Format("2006-01-02"), window.end.Format("2006-01-02"),
					oedomain.CommentHideFilterAll)
				if oedomain.IsPermissionDenied(err) {
					summary.SkippedNoPermission++
					noPermission = true
					logrus.WithField("advertiser_id", advertiserID).Warn("No permission for advertiser, skipping backfill")
					break
				}
				if err != nil {
					return errors.Wrapf(err, "backfilling comments advertiser_id=%d window=%s..%s",
						advertiserID, window.start.Format("2006-01-02"), window.end.Format("2006-01-02"))
				}

				comments := make([]*domain.Comment, 0, len(fetched))
				toHide := make([]int64, 0)
				for _, c := range fetched {
					mapped := mapComment(advertiserID, c, loc, now)
					if mapped == nil {
						continue
					}
					comments = append(comments, mapped)
					if opts.Hide && mapped.HideEligible() {
						toHide = append(toHide, mapped.CommentID)
					}
				}

				if err := store.Comments.SaveOrUpdate(comments); err != nil {
					return errors.Wrapf(err, "saving backfilled comments advertiser_id=%d", advertiserID)
				}
				summary.CommentsUpserted += len(comments)

				if len(toHide) > 0 {
					ok, failed, err := s.hideComments(ctx, store, advertiserID, toHide, now)
					if err != nil {
						return err
					}
					summary.HideSuccess += ok
					summary.HideFailed += failed
				}
			}

			if noPermission {
				continue
			}

			if (idx+1)%5 == 0 || idx+1 == len(advertiserIDs) {
				logrus.WithFields(logrus.Fields{
					"progress":  idx + 1,
					"total":     len(advertiserIDs),
					"upserted":  summary.CommentsUpserted,
					"hide_ok":   summary.HideSuccess,
					"hide_fail": summary.HideFailed,
				}).Info("Comment backfill progress")
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
	}).Info("Comment backfill finished")

	return summary, nil
}

// dateWindows splits [start, end] into inclusive chunks of at most days days.
func dateWindows(start, end time.Time, days int) []dateWindow {
	windows := make([]dateWindow, 0)
	for cur := start; !cur.After(end); {
		next := cur.AddDate(0, 0, days-1)
		if next.After(end) {
			next = end
		}
		windows = append(windows, dateWindow{start: cur, end: next})
		cur = next.AddDate(0, 0, 1)
	}
	return windows
}

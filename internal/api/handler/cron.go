package handler

import (
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/qianchuan-sync-api/internal/scheduler"
	"github.com/vfg2006/qianchuan-sync-api/internal/usecases/moderating"
	"github.com/vfg2006/qianchuan-sync-api/pkg/apiErrors"
	"github.com/vfg2006/qianchuan-sync-api/pkg/utils"
)

// Cron job types accepted by the run endpoint.
const (
	CronJobAccounts = "accounts"
	CronJobComments = "comments"
	CronJobAlerts   = "alerts"
	CronJobNotify   = "notify"
	CronJobBackfill = "backfill"
	CronJobAll      = "all"
)

// CronJobServices bundles every scheduler exposed on the ops surface. A nil
// field means that job is not wired in this deployment.
type CronJobServices struct {
	AccountSync  *scheduler.AccountSyncService
	CommentSync  *scheduler.CommentSyncService
	AlertRules   *scheduler.AlertRuleService
	NotifyDigest *scheduler.NotifyDigestService
}

type cronRunResponse struct {
	Status  string `json:"status"`
	Job     string `json:"job"`
	Message string `json:"message"`
}

// runCronJob fires a job in the background and returns immediately. Each
// scheduler ignores the trigger when a run is already in flight.
func runCronJob(services CronJobServices) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		params := httprouter.ParamsFromContext(r.Context())
		jobType := params.ByName("type")

		logrus.WithField("job", jobType).Info("Manual cron trigger received")

		switch jobType {
		case CronJobAccounts:
			if services.AccountSync == nil {
				apiErrors.WriteError(w, apiErrors.ErrServiceUnready, "account sync service not configured", nil)
				return
			}
			services.AccountSync.TriggerManualSync()

		case CronJobComments:
			if services.CommentSync == nil {
				apiErrors.WriteError(w, apiErrors.ErrServiceUnready, "comment sync service not configured", nil)
				return
			}
			services.CommentSync.TriggerManualSync()

		case CronJobAlerts:
			if services.AlertRules == nil {
				apiErrors.WriteError(w, apiErrors.ErrServiceUnready, "alert rule service not configured", nil)
				return
			}
			services.AlertRules.TriggerManualRun()

		case CronJobNotify:
			if services.NotifyDigest == nil {
				apiErrors.WriteError(w, apiErrors.ErrServiceUnready, "notify digest service not configured", nil)
				return
			}
			services.NotifyDigest.TriggerManualRun()

		case CronJobBackfill:
			if services.CommentSync == nil {
				apiErrors.WriteError(w, apiErrors.ErrServiceUnready, "comment sync service not configured", nil)
				return
			}
			opts, err := backfillOptionsFromQuery(r)
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
				return
			}
			services.CommentSync.TriggerBackfill(opts)

		case CronJobAll:
			if services.AccountSync != nil {
				services.AccountSync.TriggerManualSync()
			}
			if services.CommentSync != nil {
				services.CommentSync.TriggerManualSync()
			}
			if services.AlertRules != nil {
				services.AlertRules.TriggerManualRun()
			}
			if services.NotifyDigest != nil {
				services.NotifyDigest.TriggerManualRun()
			}

		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "unknown cron job type: "+jobType, map[string]any{
				"valid_types": []string{CronJobAccounts, CronJobComments, CronJobAlerts, CronJobNotify, CronJobBackfill, CronJobAll},
			})
			return
		}

		response := cronRunResponse{
			Status:  "accepted",
			Job:     jobType,
			Message: "job triggered in background",
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		if err := json.NewEncoder(w).Encode(response); err != nil {
			logrus.WithError(err).Error("Writing cron run response")
		}
	})
}

// backfillOptionsFromQuery parses start_date, end_date (required, yyyy-mm-dd),
// window_days and hide from the query string.
func backfillOptionsFromQuery(r *http.Request) (moderating.BackfillOptions, error) {
	query := r.URL.Query()

	opts := moderating.BackfillOptions{
		Hide: query.Get("hide") == "true",
	}

	startDate, err := utils.ParseDate(query.Get("start_date"))
	if err != nil {
		return opts, errors.New("start_date must be a yyyy-mm-dd date")
	}
	endDate, err := utils.ParseDate(query.Get("end_date"))
	if err != nil {
		return opts, errors.New("end_date must be a yyyy-mm-dd date")
	}
	opts.StartDate = startDate
	opts.EndDate = endDate

	if raw := query.Get("window_days"); raw != "" {
		windowDays, err := strconv.Atoi(raw)
		if err != nil || windowDays <= 0 {
			return opts, errors.New("window_days must be a positive integer")
		}
		opts.WindowDays = windowDays
	}

	return opts, nil
}

// getCronStatus reports every wired scheduler's state.
func getCronStatus(services CronJobServices) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := make(map[string]any, 4)

		if services.AccountSync != nil {
			status[CronJobAccounts] = services.AccountSync.GetStatus()
		}
		if services.CommentSync != nil {
			status[CronJobComments] = services.CommentSync.GetStatus()
		}
		if services.AlertRules != nil {
			status[CronJobAlerts] = services.AlertRules.GetStatus()
		}
		if services.NotifyDigest != nil {
			status[CronJobNotify] = services.NotifyDigest.GetStatus()
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(status); err != nil {
			logrus.WithError(err).Error("Writing cron status response")
		}
	})
}

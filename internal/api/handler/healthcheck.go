package handler

import (
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/qianchuan-sync-api/infrastructure/repository"
	"github.com/vfg2006/qianchuan-sync-api/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Health levels, ordered from good to bad.
const (
	healthOK   = "OK"
	healthWarn = "WARN"
	healthCrit = "CRIT"
)

type healthComponent struct {
	Status   string `json:"status"`
	LatestTS string `json:"latest_ts,omitempty"`
	Lag      string `json:"lag,omitempty"`
	MaxAge   string `json:"max_age,omitempty"`
	Pending  *int   `json:"pending,omitempty"`
	WarnAt   *int   `json:"warn_at,omitempty"`
	Error    string `json:"error,omitempty"`
}

type healthResponse struct {
	Status     string                     `json:"status"`
	CheckedAt  time.Time                  `json:"checked_at"`
	Components map[string]healthComponent `json:"components"`
}

func healthRank(level string) int {
	switch level {
	case healthCrit:
		return 2
	case healthWarn:
		return 1
	default:
		return 0
	}
}

// freshnessLevel grades a timestamp against its allowed age. No data at all
// or a lag beyond twice the allowance is critical.
func freshnessLevel(latest *time.Time, now time.Time, maxAge time.Duration) (string, time.Duration) {
	if latest == nil {
		return healthCrit, 0
	}
	lag := now.Sub(*latest)
	switch {
	case lag >= 2*maxAge:
		return healthCrit, lag
	case lag >= maxAge:
		return healthWarn, lag
	default:
		return healthOK, lag
	}
}

func freshnessComponent(latest *time.Time, err error, now time.Time, maxAge time.Duration) healthComponent {
	if err != nil {
		return healthComponent{Status: healthCrit, Error: err.Error()}
	}

	level, lag := freshnessLevel(latest, now, maxAge)
	component := healthComponent{
		Status: level,
		MaxAge: maxAge.String(),
	}
	if latest != nil {
		component.LatestTS = latest.Format(time.RFC3339)
		component.Lag = lag.Truncate(time.Second).String()
	}
	return component
}

// getHealthcheck reports data freshness and the unnotified-hide backlog.
// Stale data degrades the level; only a critical overall level turns into a
// non-200 status so probes do not flap on warnings.
func getHealthcheck(store *repository.Store, thresholds config.Healthcheck) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()
		components := make(map[string]healthComponent, 3)

		latestSnapshot, err := store.Balances.LatestSnapshotTS()
		components["balance_snapshots"] = freshnessComponent(latestSnapshot, err, now, thresholds.BalanceMaxAge)

		latestComment, err := store.Comments.LatestSeenAt()
		components["comments"] = freshnessComponent(latestComment, err, now, thresholds.CommentMaxAge)

		backlog := healthComponent{Status: healthOK}
		pending, err := store.CommentActions.CountUnnotifiedHides()
		if err != nil {
			backlog = healthComponent{Status: healthCrit, Error: err.Error()}
		} else {
			warnAt := thresholds.HideBacklogWarning
			if warnAt > 0 && pending >= warnAt {
				backlog.Status = healthWarn
			}
			backlog.Pending = &pending
			backlog.WarnAt = &warnAt
		}
		components["hide_backlog"] = backlog

		overall := healthOK
		for _, component := range components {
			if healthRank(component.Status) > healthRank(overall) {
				overall = component.Status
			}
		}

		response := healthResponse{
			Status:     overall,
			CheckedAt:  now,
			Components: components,
		}

		w.Header().Set("Content-Type", "application/json")
		if overall == healthCrit {
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}

		if err := json.NewEncoder(w).Encode(response); err != nil {
			logrus.WithError(err).Error("Writing healthcheck response")
		}
	})
}

package handler

import (
	"net/http"

	"github.com/vfg2006/qianchuan-sync-api/infrastructure/repository"
	"github.com/vfg2006/qianchuan-sync-api/internal/api/handler/router"
	"github.com/vfg2006/qianchuan-sync-api/internal/config"
)

// Healthcheck exposes the freshness probe.
func Healthcheck(store *repository.Store, thresholds config.Healthcheck) []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: getHealthcheck(store, thresholds),
		},
	}
}

// CronJobs exposes manual triggers and status for the scheduled jobs.
func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/cron/:type/run",
			Method:  http.MethodPost,
			Handler: runCronJob(services),
		},
		{
			Path:    "/v1/cron/status",
			Method:  http.MethodGet,
			Handler: getCronStatus(services),
		},
	}
}

package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/qianchuan-sync-api/internal/api/handler/router"
	"github.com/vfg2006/qianchuan-sync-api/pkg/apiErrors"
)

func cronRouter(services CronJobServices) router.Router {
	return router.New(router.WithRoutes(CronJobs(services)...))
}

func TestRunCronJobRejectsUnknownType(t *testing.T) {
	rt := cronRouter(CronJobServices{})

	request := httptest.NewRequest(http.MethodPost, "/v1/cron/bogus/run", nil)
	recorder := httptest.NewRecorder()
	rt.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var apiErr apiErrors.APIError
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &apiErr))
	assert.Equal(t, apiErrors.ErrInvalidRequest, apiErr.Code)
}

func TestRunCronJobReportsUnwiredService(t *testing.T) {
	rt := cronRouter(CronJobServices{})

	for _, jobType := range []string{CronJobAccounts, CronJobComments, CronJobAlerts, CronJobNotify, CronJobBackfill} {
		request := httptest.NewRequest(http.MethodPost, "/v1/cron/"+jobType+"/run", nil)
		recorder := httptest.NewRecorder()
		rt.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusServiceUnavailable, recorder.Code, "job %s", jobType)

		var apiErr apiErrors.APIError
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &apiErr))
		assert.Equal(t, apiErrors.ErrServiceUnready, apiErr.Code, "job %s", jobType)
	}
}

func TestRunCronJobAllToleratesUnwiredServices(t *testing.T) {
	rt := cronRouter(CronJobServices{})

	request := httptest.NewRequest(http.MethodPost, "/v1/cron/all/run", nil)
	recorder := httptest.NewRecorder()
	rt.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusAccepted, recorder.Code)
}

func TestGetCronStatusEmptyWhenNothingWired(t *testing.T) {
	rt := cronRouter(CronJobServices{})

	request := httptest.NewRequest(http.MethodGet, "/v1/cron/status", nil)
	recorder := httptest.NewRecorder()
	rt.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)

	var status map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &status))
	assert.Empty(t, status)
}

func TestBackfillOptionsFromQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr string
	}{
		{
			name:  "valid range",
			query: "start_date=2024-01-01&end_date=2024-02-01&window_days=14&hide=true",
		},
		{
			name:    "missing start",
			query:   "end_date=2024-02-01",
			wantErr: "start_date",
		},
		{
			name:    "bad end format",
			query:   "start_date=2024-01-01&end_date=yesterday",
			wantErr: "end_date",
		},
		{
			name:    "negative window",
			query:   "start_date=2024-01-01&end_date=2024-02-01&window_days=-3",
			wantErr: "window_days",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodPost, "/v1/cron/backfill/run?"+tt.query, nil)

			opts, err := backfillOptionsFromQuery(request)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "2024-01-01", opts.StartDate.Format("2006-01-02"))
			assert.Equal(t, "2024-02-01", opts.EndDate.Format("2006-01-02"))
			assert.Equal(t, 14, opts.WindowDays)
			assert.True(t, opts.Hide)
		})
	}
}

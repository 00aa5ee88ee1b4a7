package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/qianchuan-sync-api/internal/config"
	"github.com/vfg2006/qianchuan-sync-api/internal/usecases/syncing"
)

type fakeSyncer struct {
	mu      sync.Mutex
	calls   int
	release chan struct{}
	started chan struct{}
	err     error
}

func newFakeSyncer() *fakeSyncer {
	return &fakeSyncer{
		release: make(chan struct{}),
		started: make(chan struct{}, 10),
	}
}

func (f *fakeSyncer) SyncAccounts(_ context.Context) (*syncing.Summary, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	f.started <- struct{}{}
	<-f.release

	if f.err != nil {
		return nil, f.err
	}
	return &syncing.Summary{Advertisers: 2}, nil
}

func (f *fakeSyncer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func schedulerConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Timezone = "UTC"
	cfg.AccountSync.CronSchedule = "15 */2 * * *"
	cfg.AccountSync.Enabled = true
	return cfg
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestTriggerManualSyncRunsOnce(t *testing.T) {
	syncer := newFakeSyncer()
	service := NewAccountSyncService(schedulerConfig(), syncer)

	service.TriggerManualSync()
	<-syncer.started
	close(syncer.release)

	waitFor(t, func() bool {
		status := service.GetStatus()
		return status["sync_running"] == false && !status["last_sync_completed_at"].(time.Time).IsZero()
	})

	assert.Equal(t, 1, syncer.callCount())
	assert.Equal(t, "", service.GetStatus()["last_sync_error"])
}

func TestTriggerManualSyncSkipsWhileRunning(t *testing.T) {
	syncer := newFakeSyncer()
	service := NewAccountSyncService(schedulerConfig(), syncer)

	service.TriggerManualSync()
	<-syncer.started

	// A second trigger while the first pass is in flight is ignored.
	service.TriggerManualSync()
	service.TriggerManualSync()

	close(syncer.release)
	waitFor(t, func() bool { return service.GetStatus()["sync_running"] == false })

	assert.Equal(t, 1, syncer.callCount())
}

func TestSyncErrorIsReportedInStatus(t *testing.T) {
	syncer := newFakeSyncer()
	syncer.err = errors.New("platform unavailable")
	service := NewAccountSyncService(schedulerConfig(), syncer)

	service.TriggerManualSync()
	<-syncer.started
	close(syncer.release)

	waitFor(t, func() bool { return service.GetStatus()["last_sync_error"] == "platform unavailable" })
}

func TestStartHonorsDisabledFlag(t *testing.T) {
	cfg := schedulerConfig()
	cfg.AccountSync.Enabled = false

	service := NewAccountSyncService(cfg, newFakeSyncer())
	require.NoError(t, service.Start(context.Background()))

	status := service.GetStatus()
	assert.Equal(t, false, status["sync_enabled"])
}

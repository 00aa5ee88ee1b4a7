package syncing

import (
	"context"
	"time"
)

// AccountSyncer runs the account inventory and finance sync pass.
type AccountSyncer interface {
	// SyncAccounts discovers the full advertiser inventory, then captures a
	// balance snapshot and the recent finance ledger for every advertiser.
	SyncAccounts(ctx context.Context) (*Summary, error)
}

// Summary is the outcome of one sync pass.
type Summary struct {
	AuthorizedAccounts  int
	Shops               int
	Agents              int
	Advertisers         int
	BalanceSnapshots    int
	FinanceRows         int
	SkippedNoPermission int
	FetchErrors         int

	StartedAt time.Time
	Duration  time.Duration
}

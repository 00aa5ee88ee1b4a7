package domain

import "time"

// BalanceSnapshot is a point-in-time capture of an advertiser's wallet.
// (advertiser_id, snapshot_ts) is the natural key; a re-run of the same
// snapshot fully overwrites the previous values.
type BalanceSnapshot struct {
	AdvertiserID int64
	SnapshotTS   time.Time

	AccountTotal  *float64
	AccountValid  *float64
	AccountFrozen *float64

	AccountGeneralTotal  *float64
	AccountGeneralValid  *float64
	AccountGeneralFrozen *float64

	AccountBiddingTotal  *float64
	AccountBiddingValid  *float64
	AccountBiddingFrozen *float64

	Raw []byte
}

package domain

import (
	"fmt"
	"time"
)

// Alert rule identifiers. Each rule compares the latest valid balance against
// a baseline spend scaled by a multiplier, at its own cadence.
const (
	RuleDaily      = "RULE_00"  // daily check: balance < 2 × yesterday cost
	RuleHalfHourly = "RULE_30M" // every 30 min: balance < 1 × yesterday cost
	RuleHourly     = "RULE_1H"  // hourly: balance < 4 × last-hour spend
)

// Alert severities.
const (
	SeverityWarn = "warn"
	SeverityCrit = "crit"
)

// BucketKind is the time granularity a rule's dedup key is computed at.
type BucketKind string

const (
	BucketDaily  BucketKind = "daily"
	BucketHourly BucketKind = "hourly"
)

// AlertRule is the static definition of a threshold rule.
type AlertRule struct {
	ID         string
	Multiplier float64
	Severity   string
	Bucket     BucketKind
}

// DedupKey derives the deterministic key that guarantees at most one alert
// event per (advertiser, rule, time bucket).
func (r AlertRule) DedupKey(advertiserID int64, asOf time.Time) string {
	switch r.Bucket {
	case BucketHourly:
		return fmt.Sprintf("%d|%s|%s", advertiserID, r.ID, asOf.Format("2006-01-02T15"))
	default:
		return fmt.Sprintf("%d|%s|%s", advertiserID, r.ID, asOf.Format("2006-01-02"))
	}
}

// AlertEvent is one threshold violation, append-only and deduplicated on
// DedupKey. Insertion of an existing key is a no-op, never an error.
type AlertEvent struct {
	AlertTS      time.Time
	AdvertiserID int64
	RuleID       string
	Severity     string

	BalanceValid        float64
	BaselineSpend       float64
	ThresholdMultiplier float64
	Ratio               float64

	SnapshotTS time.Time
	BaselineTS *time.Time
	DedupKey   string
	Detail     []byte
}

package alerting

import (
	"context"
	"time"
)

// RuleEvaluator evaluates one balance alert rule against the latest
// snapshots and pushes notifications for newly inserted events.
type RuleEvaluator interface {
	EvaluateRule(ctx context.Context, ruleID string) (*EvalSummary, error)
}

// DigestNotifier sends the digest of hide actions that have not been
// notified yet.
type DigestNotifier interface {
	SendHideDigest(ctx context.Context) (*DigestSummary, error)
}

// EvalSummary is the outcome of one rule evaluation.
type EvalSummary struct {
	RuleID     string
	Evaluated  int
	Triggered  int
	Inserted   int
	Notified   int
	Suppressed int

	StartedAt time.Time
	Duration  time.Duration
}

// DigestSummary is the outcome of one hide digest run.
type DigestSummary struct {
	Records  int
	Notified bool

	StartedAt time.Time
	Duration  time.Duration
}

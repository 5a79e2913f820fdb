package tsdr

import (
	"context"
	"time"
)

// Policy drives retryable remote calls: attempt budget, exponential backoff
// schedule, and a predicate deciding which failures are worth retrying.
// One policy value is shared by every call site instead of per-site loops.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Retryable   func(error) bool
}

// DefaultPolicy retries twice more after the first failure, sleeping 1s then
// 2s (a third sleep of 4s would follow if the budget were larger).
var DefaultPolicy = Policy{
	MaxAttempts: 3,
	BaseDelay:   time.Second,
	Retryable:   IsRetryable,
}

// Do runs fn until it succeeds, the attempt budget is spent, or a
// non-retryable failure occurs. Non-retryable failures abort immediately
// without consuming the remaining budget. sleep is injectable for tests;
// pass nil for time.Sleep.
func (p Policy) Do(ctx context.Context, sleep func(time.Duration), fn func() error) error {
	if sleep == nil {
		sleep = time.Sleep
	}
	delay := p.BaseDelay
	var err error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err = ctx.Err(); err != nil {
			return err
		}
		if err = fn(); err == nil {
			return nil
		}
		if p.Retryable == nil || !p.Retryable(err) || attempt == p.MaxAttempts {
			return err
		}
		sleep(delay)
		delay *= 2
	}
	return err
}

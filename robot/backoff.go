package robot

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"

	t "github.com/tonkla/autoladder/types"
)

const DefaultInterval = 3 * time.Second

// Interval is the pause between two completed cycles
func Interval(bp *t.BotParams) time.Duration {
	if bp.IntervalSec <= 0 {
		return DefaultInterval
	}
	return time.Duration(bp.IntervalSec) * time.Second
}

// NewBackOff returns the policy used to wait after a failed price fetch.
// "fixed" waits one poll interval, like a completed cycle.
func NewBackOff(bp *t.BotParams) (backoff.BackOff, error) {
	interval := Interval(bp)
	maxInterval := time.Duration(bp.MaxBackoffSec) * time.Second
	if maxInterval < interval {
		maxInterval = interval
	}

	switch bp.Backoff {
	case "", t.BackoffFixed:
		return backoff.NewConstantBackOff(interval), nil
	case t.BackoffExponential, t.BackoffJittered:
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = interval
		b.Multiplier = 2
		b.MaxInterval = maxInterval
		b.RandomizationFactor = 0
		if bp.Backoff == t.BackoffJittered {
			b.RandomizationFactor = 0.5
		}
		b.Reset()
		return b, nil
	}
	return nil, fmt.Errorf("unknown backoff policy %q", bp.Backoff)
}

// Sleep waits for d or until ctx is done
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

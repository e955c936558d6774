// Where: internal/pipeline/retry.go
// What: Bounded retry with exponential backoff for transient failures.
// Why: Transient network and 5xx failures should succeed without a manual re-trigger.
package pipeline

import (
	"context"
	"math"
	"time"

	"github.com/quantfeed/edgesync/internal/errs"
)

// Policy bounds retries around a single pipeline stage call.
type Policy struct {
	MaxAttempts       int
	BaseDelay         time.Duration
	MaxDelay          time.Duration
	BackoffMultiplier float64
}

// DefaultPolicy retries transient failures twice more after the first
// attempt, backing off exponentially.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:       3,
		BaseDelay:         500 * time.Millisecond,
		MaxDelay:          30 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// Do runs op until it succeeds, the error is non-retryable, attempts are
// exhausted, or ctx is done. The last error is returned unwrapped so
// callers keep its classification.
func (p Policy) Do(ctx context.Context, op func(context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = op(ctx)
		if err == nil {
			return nil
		}
		if !Retryable(err) || attempt == attempts {
			return err
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(p.delay(attempt)):
		}
	}
	return err
}

// Retryable reports whether err is worth another attempt. Only network
// failures and upstream 5xx responses qualify; credential, protocol, and
// configuration failures cannot succeed on retry.
func Retryable(err error) bool {
	switch errs.KindOf(err) {
	case errs.KindNetwork:
		return true
	case errs.KindUpstreamHTTP:
		return errs.StatusOf(err) >= 500
	}
	return false
}

func (p Policy) delay(attempt int) time.Duration {
	base := p.BaseDelay
	if base <= 0 {
		return 0
	}
	multiplier := p.BackoffMultiplier
	if multiplier < 1 {
		multiplier = 1
	}
	delay := time.Duration(float64(base) * math.Pow(multiplier, float64(attempt-1)))
	if p.MaxDelay > 0 && delay > p.MaxDelay {
		delay = p.MaxDelay
	}
	return delay
}

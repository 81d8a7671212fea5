package llm

import (
	"context"
	"math/rand/v2"
	"time"
)

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext is the default Sleeper.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Backoff is the retry policy of the Gateway. MaxRetries counts the attempts
// after the first one.
type Backoff struct {
	MaxRetries int
	Base       time.Duration
	// Jitter is the upper bound of a random delay added to every wait.
	Jitter time.Duration
	Sleep  Sleeper
}

// DefaultBackoff retries three times, waiting 2s, 4s and 8s.
func DefaultBackoff() Backoff {
	return Backoff{MaxRetries: 3, Base: 2 * time.Second, Sleep: SleepContext}
}

// Delay returns the wait before retry number attempt+1.
func (b Backoff) Delay(attempt int) time.Duration {
	d := b.Base << attempt
	if b.Jitter > 0 {
		d += time.Duration(rand.Int64N(int64(b.Jitter)))
	}
	return d
}

func (b Backoff) wait(ctx context.Context, attempt int) error {
	sleep := b.Sleep
	if sleep == nil {
		sleep = SleepContext
	}
	return sleep(ctx, b.Delay(attempt))
}

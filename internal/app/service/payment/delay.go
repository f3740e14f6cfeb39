package payment

import (
	"context"
	"math/rand/v2"
	"time"
)

// DelayFunc simulates acquirer latency. It returns ctx.Err() when ctx ends first.
type DelayFunc func(ctx context.Context) error

// RandomDelay waits a uniformly random duration in [min, max].
func RandomDelay(min, max time.Duration) DelayFunc {
	return func(ctx context.Context) error {
		d := min
		if max > min {
			d += time.Duration(rand.Int64N(int64(max-min) + 1))
		}
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
}

func NoDelay(context.Context) error { return nil }

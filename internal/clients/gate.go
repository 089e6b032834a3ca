package clients

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultRequestInterval is the minimum spacing between two registry requests
const DefaultRequestInterval = 100 * time.Millisecond

// Gate admits outbound requests one at a time. Wait blocks until the caller
// may send its request or ctx is done.
type Gate interface {
	Wait(ctx context.Context) error
}

// IntervalGate enforces a minimum delay between any two admissions, across
// all goroutines sharing it
type IntervalGate struct {
	limiter *rate.Limiter
}

// NewIntervalGate creates a gate that admits at most one request per interval.
// A non-positive interval uses DefaultRequestInterval.
func NewIntervalGate(interval time.Duration) *IntervalGate {
	if interval <= 0 {
		interval = DefaultRequestInterval
	}
	return &IntervalGate{
		// Burst of one: the first request goes out immediately, every later
		// one waits for its own slot
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

// Wait blocks until the next slot
func (g *IntervalGate) Wait(ctx context.Context) error {
	return g.limiter.Wait(ctx)
}

// NoopGate never delays. Intended for tests against local servers.
type NoopGate struct{}

// Wait returns immediately unless ctx is already done
func (NoopGate) Wait(ctx context.Context) error {
	return ctx.Err()
}

package clients

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestIntervalGate_SpacesRequests(t *testing.T) {
	const interval = 30 * time.Millisecond
	g := NewIntervalGate(interval)
	ctx := context.Background()

	start := time.Now()
	for range 3 {
		require.NoError(t, g.Wait(ctx))
	}
	elapsed := time.Since(start)

	// First admission is immediate, the next two wait one interval each
	assert.GreaterOrEqual(t, elapsed, 2*interval-5*time.Millisecond)
}

func TestIntervalGate_SharedAcrossGoroutines(t *testing.T) {
	const interval = 20 * time.Millisecond
	g := NewIntervalGate(interval)
	ctx := context.Background()

	var mu sync.Mutex
	var admitted []time.Time

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, g.Wait(ctx))
			mu.Lock()
			admitted = append(admitted, time.Now())
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, admitted, 4)
	first, last := admitted[0], admitted[0]
	for _, ts := range admitted {
		if ts.Before(first) {
			first = ts
		}
		if ts.After(last) {
			last = ts
		}
	}
	assert.GreaterOrEqual(t, last.Sub(first), 3*interval-5*time.Millisecond)
}

func TestIntervalGate_RespectsContext(t *testing.T) {
	g := NewIntervalGate(time.Hour)
	require.NoError(t, g.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.Error(t, g.Wait(ctx))
}

func TestNewIntervalGate_DefaultInterval(t *testing.T) {
	g := NewIntervalGate(0)
	assert.Equal(t, rate.Every(DefaultRequestInterval), g.limiter.Limit())
}

func TestNoopGate(t *testing.T) {
	assert.NoError(t, NoopGate{}.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, NoopGate{}.Wait(ctx), context.Canceled)
}

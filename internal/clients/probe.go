package clients

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds each registry request
const DefaultTimeout = 30 * time.Second

const userAgent = "validpack/1.0 (+https://github.com/ethanolivertroy/validpack)"

var (
	// ErrNetwork is returned for transport failures (timeouts, refused connections)
	ErrNetwork = errors.New("network error")

	// ErrUnexpectedStatus is returned when a registry answers with neither
	// success nor 404
	ErrUnexpectedStatus = errors.New("unexpected status code")
)

// Probe checks whether a registry URL exists. All requests made through
// one Probe share its Gate.
type Probe struct {
	httpClient *http.Client
	gate       Gate
}

// NewProbe creates a Probe with the given per-request timeout and gate.
// A zero timeout uses DefaultTimeout; a nil gate uses an IntervalGate with
// DefaultRequestInterval.
func NewProbe(timeout time.Duration, gate Gate) *Probe {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if gate == nil {
		gate = NewIntervalGate(DefaultRequestInterval)
	}
	return &Probe{
		httpClient: &http.Client{Timeout: timeout},
		gate:       gate,
	}
}

// Exists reports whether url names an existing resource. It sends a HEAD
// request and falls back to GET when the server rejects HEAD with 405.
// Both requests pass through the gate.
//
//   - 2xx: true, nil
//   - 404: false, nil
//   - anything else: false and an error wrapping ErrUnexpectedStatus or ErrNetwork
//
// Requests are never retried.
func (p *Probe) Exists(ctx context.Context, url string) (bool, error) {
	if err := p.gate.Wait(ctx); err != nil {
		return false, err
	}

	status, err := p.do(ctx, http.MethodHead, url)
	if err != nil {
		return false, err
	}
	if status == http.StatusMethodNotAllowed {
		if err := p.gate.Wait(ctx); err != nil {
			return false, err
		}
		status, err = p.do(ctx, http.MethodGet, url)
		if err != nil {
			return false, err
		}
	}

	switch {
	case status >= 200 && status < 300:
		return true, nil
	case status == http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("%w: %d from %s", ErrUnexpectedStatus, status, url)
	}
}

func (p *Probe) do(ctx context.Context, method, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return 0, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}

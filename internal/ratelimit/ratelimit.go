// Package ratelimit enforces a fixed minimum interval between outbound calls
// to one class of endpoint. Callers block until their turn; there is no
// adaptive backoff.
package ratelimit

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Gate admits at most one call per interval.
type Gate struct {
	interval time.Duration
	limiter  *rate.Limiter
}

// NewGate returns a Gate for interval. A zero or negative interval never blocks.
func NewGate(interval time.Duration) *Gate {
	if interval <= 0 {
		return &Gate{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Gate{interval: interval, limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the next call is allowed or ctx is done.
func (g *Gate) Wait(ctx context.Context) error {
	return g.limiter.Wait(ctx)
}

// Interval returns the configured spacing between calls.
func (g *Gate) Interval() time.Duration { return g.interval }

// Transport is an http.RoundTripper that passes every request through a Gate.
type Transport struct {
	Gate *Gate
	Base http.RoundTripper
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Gate != nil {
		if err := t.Gate.Wait(req.Context()); err != nil {
			return nil, err
		}
	}
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}

// Client returns an *http.Client whose requests are spaced by interval.
func Client(interval, timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: &Transport{Gate: NewGate(interval)},
	}
}

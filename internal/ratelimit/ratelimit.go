// Package ratelimit throttles outbound Google API calls per service.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/veranek/workspace-mcp/internal/apierr"
)

// Defaults for the sliding window policy.
const (
	DefaultMaxCalls = 100
	DefaultWindow   = time.Minute
	DefaultBurst    = 10
	DefaultMaxWait  = 10 * time.Second
)

// Gate hands out per-service token-bucket limiters. Each service gets an
// independent budget so a burst against Gmail never starves Drive.
type Gate struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter

	limit   rate.Limit
	burst   int
	maxWait time.Duration
}

// New builds a Gate allowing maxCalls per window with the given burst.
// Non-positive arguments fall back to the defaults.
func New(maxCalls int, window time.Duration, burst int, maxWait time.Duration) *Gate {
	if maxCalls <= 0 {
		maxCalls = DefaultMaxCalls
	}
	if window <= 0 {
		window = DefaultWindow
	}
	if burst <= 0 {
		burst = DefaultBurst
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWait
	}
	return &Gate{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Every(window / time.Duration(maxCalls)),
		burst:    burst,
		maxWait:  maxWait,
	}
}

// Acquire blocks until the service's limiter grants a token, the wait
// ceiling elapses, or ctx is done. A blown ceiling is reported as a
// RateLimited error rather than a transient failure.
func (g *Gate) Acquire(ctx context.Context, service string) error {
	limiter := g.limiterFor(service)

	waitCtx, cancel := context.WithTimeout(ctx, g.maxWait)
	defer cancel()

	if err := limiter.Wait(waitCtx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return apierr.New(apierr.KindRateLimited, service,
			fmt.Sprintf("rate limit wait exceeded %s for service %q", g.maxWait, service))
	}
	return nil
}

func (g *Gate) limiterFor(service string) *rate.Limiter {
	g.mu.Lock()
	defer g.mu.Unlock()
	l, ok := g.limiters[service]
	if !ok {
		l = rate.NewLimiter(g.limit, g.burst)
		g.limiters[service] = l
	}
	return l
}

// Token bucket admission control, keyed per client.

// Package ratelimit enforces per-client request budgets on the HTTP API.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Result is the outcome of one admission check, carrying everything the
// X-RateLimit response headers need.
type Result struct {
	Allowed    bool
	Limit      int           // budget per window
	Remaining  int           // tokens left right now
	ResetAt    time.Time     // when the bucket is full again
	RetryAfter time.Duration // zero when allowed
}

// evictAfter is both the sweep interval and the idle age past which a
// refilled bucket is dropped.
const evictAfter = 10 * time.Minute

// Limiter holds one token bucket per key. Keys come from BuildKey, so each
// bucket tracks one client IP on one tier.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*client
	rate    rate.Limit
	burst   int
	window  time.Duration
	done    chan struct{}
}

type client struct {
	bucket   *rate.Limiter
	lastSeen time.Time
}

// NewLimiter returns a limiter refilling requests tokens per window, with
// the given burst capacity. Close must be called to stop the eviction loop.
func NewLimiter(requests int, window time.Duration, burst int) *Limiter {
	l := &Limiter{
		clients: make(map[string]*client),
		rate:    rate.Limit(float64(requests) / window.Seconds()),
		burst:   burst,
		window:  window,
		done:    make(chan struct{}),
	}
	go l.evictLoop()
	return l
}

// Allow consumes one token for key if one is available and reports the
// resulting bucket state.
func (l *Limiter) Allow(key string) Result {
	now := time.Now()
	l.mu.Lock()
	c, ok := l.clients[key]
	if !ok {
		c = &client{bucket: rate.NewLimiter(l.rate, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now
	l.mu.Unlock()

	res := c.bucket.ReserveN(now, 1)
	allowed := res.OK() && res.Delay() == 0
	if !allowed && res.OK() {
		// Give the token back; a rejected request must not deepen the debt.
		res.Cancel()
	}

	tokens := c.bucket.Tokens()
	missing := float64(l.burst) - tokens
	out := Result{
		Allowed:   allowed,
		Limit:     int(float64(l.rate) * l.window.Seconds()),
		Remaining: max(int(tokens), 0),
		ResetAt:   now.Add(time.Duration(missing / float64(l.rate) * float64(time.Second))),
	}
	if !allowed {
		out.RetryAfter = max(time.Duration(float64(time.Second)/float64(l.rate)), time.Second)
	}
	return out
}

func (l *Limiter) evictLoop() {
	t := time.NewTicker(evictAfter)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			l.evict(time.Now().Add(-evictAfter))
		case <-l.done:
			return
		}
	}
}

// evict drops buckets idle since before cutoff that have fully refilled.
// Dropping a partial bucket would hand the client its burst back early.
func (l *Limiter) evict(cutoff time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, c := range l.clients {
		if c.lastSeen.Before(cutoff) && c.bucket.Tokens() >= float64(l.burst) {
			delete(l.clients, key)
		}
	}
}

// Close stops the eviction loop.
func (l *Limiter) Close() {
	close(l.done)
}

// Package ratelimit bounds how many requests a caller may make per window.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"
)

// Limiter decides whether the caller identified by key may proceed
type Limiter interface {
	// Allow reports whether the request is admitted. When it is not,
	// retryAfter is how long until the caller's next request would be.
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
}

// KeyedLimiter keeps one token bucket per key. Each bucket holds limit
// tokens and refills limit tokens per window. State is per process.
type KeyedLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	every   rate.Limit
	burst   int
	clock   clockwork.Clock
}

// NewKeyedLimiter admits limit requests per window for each key
func NewKeyedLimiter(limit int, window time.Duration, clock clockwork.Clock) *KeyedLimiter {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if limit < 1 {
		limit = 1
	}
	return &KeyedLimiter{
		buckets: make(map[string]*rate.Limiter),
		every:   rate.Every(window / time.Duration(limit)),
		burst:   limit,
		clock:   clock,
	}
}

// Allow takes a token from the key's bucket. Times come from the injected
// clock, not the wall clock.
func (l *KeyedLimiter) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	now := l.clock.Now()
	bucket := l.bucket(key)

	r := bucket.ReserveN(now, 1)
	if !r.OK() {
		return false, 0, nil
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay, nil
	}
	return true, 0, nil
}

func (l *KeyedLimiter) bucket(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = rate.NewLimiter(l.every, l.burst)
		l.buckets[key] = b
	}
	return b
}

// Prune forgets keys whose bucket has refilled, since a fresh bucket is
// indistinguishable from them.
func (l *KeyedLimiter) Prune() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	removed := 0
	for key, b := range l.buckets {
		if b.TokensAt(now) >= float64(l.burst) {
			delete(l.buckets, key)
			removed++
		}
	}
	return removed
}

// Run prunes idle keys every interval until ctx is done
func (l *KeyedLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := l.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			l.Prune()
		}
	}
}

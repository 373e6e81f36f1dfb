package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter keeps a token bucket per key (user id or client IP). State is
// process-local and does not survive across instances; this is a secondary
// defense layer behind auth, not the auth boundary itself.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*entry
	rate    rate.Limit
	burst   int
	ttl     time.Duration
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// New builds a limiter allowing requestsPerMinute sustained with the given
// burst. Idle buckets are pruned after ttl.
func New(requestsPerMinute, burst int, ttl time.Duration) *Limiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	if burst <= 0 {
		burst = requestsPerMinute
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Limiter{
		buckets: make(map[string]*entry),
		rate:    rate.Limit(float64(requestsPerMinute) / 60.0),
		burst:   burst,
		ttl:     ttl,
	}
}

// Allow consumes one token for key, creating the bucket on first sight.
func (l *Limiter) Allow(key string) bool {
	now := time.Now()

	l.mu.Lock()
	e, ok := l.buckets[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.rate, l.burst), lastSeen: now}
		l.buckets[key] = e
		l.pruneLocked(now)
	}
	e.lastSeen = now
	l.mu.Unlock()

	return e.limiter.Allow()
}

// pruneLocked drops idle buckets. Called with the mutex held, piggybacked on
// bucket creation so there is no background goroutine to manage.
func (l *Limiter) pruneLocked(now time.Time) {
	for k, e := range l.buckets {
		if now.Sub(e.lastSeen) > l.ttl {
			delete(l.buckets, k)
		}
	}
}

// Len reports the number of live buckets. Used by tests.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

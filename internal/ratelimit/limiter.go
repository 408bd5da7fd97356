// internal/ratelimit/limiter.go
package ratelimit

import (
	"sync"
	"time"
)

const (
	// DefaultMaxPerSecond matches the WhatsApp throughput tier the
	// service is provisioned for.
	DefaultMaxPerSecond = 80

	window        = time.Second
	evictInterval = time.Minute
)

// Limiter caps how many sends each sender identity may perform inside a
// rolling one second window. A send is admitted when fewer than max
// timestamps remain in the identity's window; admission records the
// attempt. Rejection records nothing, so a rejected caller may retry
// immediately without penalty.
//
// Allow is safe for concurrent use. Identities that stay quiet for a full
// window are dropped during a periodic sweep so the history map does not
// grow with every sender ever seen.
type Limiter struct {
	mu        sync.Mutex
	max       int
	history   map[string][]time.Time
	lastSweep time.Time

	now func() time.Time // swapped out in tests
}

// New returns a limiter admitting at most maxPerSecond sends per identity.
// Non-positive values fall back to DefaultMaxPerSecond.
func New(maxPerSecond int) *Limiter {
	if maxPerSecond <= 0 {
		maxPerSecond = DefaultMaxPerSecond
	}
	return &Limiter{
		max:     maxPerSecond,
		history: make(map[string][]time.Time),
		now:     time.Now,
	}
}

// Allow reports whether a send for identity fits in the current window.
// A previously unseen identity is always admitted.
func (l *Limiter) Allow(identity string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.maybeSweep(now)

	recent := pruneBefore(l.history[identity], now.Add(-window))
	if len(recent) >= l.max {
		l.history[identity] = recent
		return false
	}
	l.history[identity] = append(recent, now)
	return true
}

// Max returns the per-identity cap the limiter enforces.
func (l *Limiter) Max() int {
	return l.max
}

// pruneBefore drops timestamps at or before cutoff. Entries are appended
// in order, so the survivors are a suffix.
func pruneBefore(ts []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(ts) && !ts[i].After(cutoff) {
		i++
	}
	return ts[i:]
}

// maybeSweep evicts identities whose newest timestamp has aged out of the
// window. Runs at most once per evictInterval; the caller holds the lock.
func (l *Limiter) maybeSweep(now time.Time) {
	if now.Sub(l.lastSweep) < evictInterval {
		return
	}
	l.lastSweep = now
	cutoff := now.Add(-window)
	for identity, ts := range l.history {
		if len(ts) == 0 || !ts[len(ts)-1].After(cutoff) {
			delete(l.history, identity)
		}
	}
}

package orchestrator

import (
	"sync"
	"time"
)

// cleanupIdleDuration bounds how long an idle client bucket is kept
// before the sweep goroutine evicts it, rather than holding it forever.
const cleanupIdleDuration = 10 * time.Minute

type clientBucket struct {
	mu           sync.Mutex
	lastAccepted time.Time
	lastSeen     time.Time
}

// RateLimiter spaces out submissions per client: one accepted
// submission per window, keyed on the submitting client_id instead of
// the caller's source IP, since a solve job has no inherent
// per-request network identity once it's queued.
type RateLimiter struct {
	window time.Duration

	mu      sync.Mutex
	buckets map[string]*clientBucket
}

// NewRateLimiter builds a limiter admitting one submission per window
// per client. A zero or negative window disables limiting entirely.
func NewRateLimiter(window time.Duration) *RateLimiter {
	return &RateLimiter{
		window:  window,
		buckets: make(map[string]*clientBucket),
	}
}

// Allow reports whether clientID may submit now, and if not, how long
// until it may retry. An accepted call consumes the client's window.
func (r *RateLimiter) Allow(clientID string) (bool, time.Duration) {
	if r.window <= 0 {
		return true, 0
	}

	r.mu.Lock()
	b, ok := r.buckets[clientID]
	if !ok {
		b = &clientBucket{}
		r.buckets[clientID] = b
	}
	r.mu.Unlock()

	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.lastSeen = now
	if !b.lastAccepted.IsZero() {
		if since := now.Sub(b.lastAccepted); since < r.window {
			return false, r.window - since
		}
	}
	b.lastAccepted = now
	return true, 0
}

// CleanupLoop evicts buckets idle longer than cleanupIdleDuration until
// stop is closed. Run it once per process in its own goroutine.
func (r *RateLimiter) CleanupLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(cleanupIdleDuration)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			r.sweep()
		}
	}
}

func (r *RateLimiter) sweep() {
	cutoff := time.Now().Add(-cleanupIdleDuration)
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, b := range r.buckets {
		b.mu.Lock()
		idle := b.lastSeen.Before(cutoff)
		b.mu.Unlock()
		if idle {
			delete(r.buckets, id)
		}
	}
}

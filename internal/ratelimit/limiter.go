// Package ratelimit implements the rolling-window submission limiter
// keyed by client IP.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Default limiter configuration: 5 submissions per rolling hour
const (
	DefaultLimit  = 5
	DefaultWindow = time.Hour
)

// Decision is the outcome of a limit check
type Decision struct {
	Allowed bool
	// RetryAfter is the wait until the oldest counted submission leaves
	// the window. Zero when allowed.
	RetryAfter time.Duration
}

// SubmissionLimiter decides whether a submission attempt from a key is
// allowed right now. It knows nothing about HTTP.
type SubmissionLimiter interface {
	Allow(key string) Decision
}

// WindowLimiter tracks submission timestamps per key over a rolling
// window. An attempt is counted the moment it is allowed, before any
// validation runs, so invalid submissions consume the budget too.
type WindowLimiter struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
	limit   int
	window  time.Duration

	// now is swappable for tests
	now func() time.Time
}

type windowEntry struct {
	timestamps []time.Time
	lastSeen   time.Time
}

// Option configures a WindowLimiter
type Option func(*WindowLimiter)

// WithClock replaces the limiter's time source
func WithClock(now func() time.Time) Option {
	return func(l *WindowLimiter) { l.now = now }
}

// NewWindowLimiter creates a limiter allowing at most limit attempts per
// key within the given rolling window
func NewWindowLimiter(limit int, window time.Duration, opts ...Option) *WindowLimiter {
	l := &WindowLimiter{
		entries: make(map[string]*windowEntry),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow checks and records one attempt for the key
func (l *WindowLimiter) Allow(key string) Decision {
	now := l.now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	ent, ok := l.entries[key]
	if !ok {
		ent = &windowEntry{}
		l.entries[key] = ent
	}
	ent.lastSeen = now

	// Drop timestamps that have left the window
	kept := ent.timestamps[:0]
	for _, ts := range ent.timestamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	ent.timestamps = kept

	if len(ent.timestamps) >= l.limit {
		retryAfter := ent.timestamps[0].Add(l.window).Sub(now)
		if retryAfter < 0 {
			retryAfter = 0
		}
		return Decision{Allowed: false, RetryAfter: retryAfter}
	}

	ent.timestamps = append(ent.timestamps, now)
	return Decision{Allowed: true}
}

// Cleanup removes keys with no activity inside the window
func (l *WindowLimiter) Cleanup() {
	cutoff := l.now().Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, ent := range l.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(l.entries, key)
		}
	}
}

// StartJanitor runs Cleanup periodically until the context is done
func (l *WindowLimiter) StartJanitor(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}

	t := time.NewTicker(every)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				l.Cleanup()
			}
		}
	}()
}

// Package ratelimit implements the fixed-window counter that gates public
// submission creation.
//
// This is a fixed-window limiter, not sliding window or token bucket: a
// client can burst up to 2x the nominal rate across a window boundary. That
// is acceptable for the configured policy (5 requests per 60s per IP) and is
// documented behavior, not a bug. The store is process-local; each instance
// of the server enforces its own independent limit.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Entry is one client's counter within the current window.
type Entry struct {
	Count     int
	ResetTime time.Time
}

// Store holds rate-limit entries keyed by client identifier. Implementations
// must be safe for concurrent use.
type Store interface {
	Get(id string) (Entry, bool)
	Set(id string, e Entry)
	// Sweep removes entries whose window expired before now.
	Sweep(now time.Time)
}

// MemoryStore is the in-process Store implementation.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]Entry
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

func (s *MemoryStore) Get(id string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	return e, ok
}

func (s *MemoryStore) Set(id string, e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = e
}

func (s *MemoryStore) Sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.entries {
		if now.After(e.ResetTime) {
			delete(s.entries, id)
		}
	}
}

// Len returns the number of live entries. Used by tests and metrics.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Result is the outcome of a limiter check.
type Result struct {
	Allowed   bool
	Remaining int
	ResetTime time.Time
}

// RetryAfterSeconds returns the whole seconds until the window resets,
// rounded up, suitable for a Retry-After header.
func (r Result) RetryAfterSeconds(now time.Time) int {
	d := r.ResetTime.Sub(now)
	if d <= 0 {
		return 0
	}
	secs := int((d + time.Second - 1) / time.Second)
	return secs
}

// Limiter enforces `limit` requests per `window` per identifier.
type Limiter struct {
	store  Store
	limit  int
	window time.Duration
	now    func() time.Time
}

// Option customizes a Limiter.
type Option func(*Limiter)

// WithClock overrides the limiter's time source. Tests use this to advance a
// fake clock.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// New creates a Limiter backed by store.
func New(store Store, limit int, window time.Duration, opts ...Option) *Limiter {
	l := &Limiter{store: store, limit: limit, window: window, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Check records a request for id and reports whether it is allowed.
//
// On the first request in a window (or after the stored reset time passes)
// the window restarts with count=1. Within a window the count increments
// until the limit is reached; further requests are denied without
// incrementing and keep returning the same reset time until rollover.
func (l *Limiter) Check(id string) Result {
	now := l.now()

	e, ok := l.store.Get(id)
	if !ok || now.After(e.ResetTime) {
		e = Entry{Count: 1, ResetTime: now.Add(l.window)}
		l.store.Set(id, e)
		return Result{Allowed: true, Remaining: l.limit - 1, ResetTime: e.ResetTime}
	}

	if e.Count >= l.limit {
		return Result{Allowed: false, Remaining: 0, ResetTime: e.ResetTime}
	}

	e.Count++
	l.store.Set(id, e)
	return Result{Allowed: true, Remaining: l.limit - e.Count, ResetTime: e.ResetTime}
}

// StartSweeper runs Store.Sweep on the given interval until ctx is canceled.
// Without it the map grows unbounded under distinct-IP load.
func (l *Limiter) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.store.Sweep(l.now())
			}
		}
	}()
}

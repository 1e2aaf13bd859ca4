// Package ratelimit implements RateLimiter (spec.md §4.5): a fixed-count
// sliding window per Principal.ID, mutated lock-free via atomic CAS, with
// no global lock on the hot path.
package ratelimit

import (
	"sync"
	"sync/atomic"
	"time"
)

// Decision is the outcome of a rate-limit check, carrying the three
// response headers the HTTP layer surfaces (spec.md §6).
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetUnix int64
}

// windowState is one principal's current fixed window. windowStart is a
// unix-nanosecond timestamp; both fields are mutated only via atomic
// operations so Limiter needs no per-key lock.
type windowState struct {
	windowStart atomic.Int64
	count       atomic.Int64
}

// Limiter is the sharded, lock-free fixed-window rate limiter. The zero
// value is not usable; construct with New.
type Limiter struct {
	windows sync.Map // string -> *windowState
	window  time.Duration
	nowFunc func() time.Time
}

// New constructs a Limiter enforcing limit requests per window for every
// distinct key (Principal.ID).
func New(window time.Duration) *Limiter {
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{window: window, nowFunc: time.Now}
}

// Allow checks and records one request against key's window, enforcing
// limit requests per configured window. It never blocks and performs no
// locking beyond a single sync.Map load/store.
func (l *Limiter) Allow(key string, limit int) Decision {
	now := l.nowFunc().UnixNano()
	windowNanos := l.window.Nanoseconds()

	ws := l.stateFor(key)

	for {
		start := ws.windowStart.Load()
		if start == 0 || now-start >= windowNanos {
			// Window has elapsed (or this is the first request): try to
			// rotate into a fresh window starting now.
			if ws.windowStart.CompareAndSwap(start, now) {
				ws.count.Store(1)
				return Decision{Allowed: true, Limit: limit, Remaining: limit - 1, ResetUnix: nanosToUnix(now + windowNanos)}
			}
			continue // another goroutine rotated first; re-read.
		}

		count := ws.count.Add(1)
		remaining := limit - int(count)
		if remaining < 0 {
			remaining = 0
		}
		return Decision{
			Allowed:   count <= int64(limit),
			Limit:     limit,
			Remaining: remaining,
			ResetUnix: nanosToUnix(start + windowNanos),
		}
	}
}

func (l *Limiter) stateFor(key string) *windowState {
	if v, ok := l.windows.Load(key); ok {
		return v.(*windowState)
	}
	ws := &windowState{}
	actual, _ := l.windows.LoadOrStore(key, ws)
	return actual.(*windowState)
}

func nanosToUnix(nanos int64) int64 {
	return time.Unix(0, nanos).Unix()
}

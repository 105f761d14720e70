// Package ratelimit bounds accepted CV submissions per client IP.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter admits or rejects a request for a key (client IP). Allow must
// only be called once per inbound request: a positive answer consumes
// one slot in the current window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// MemoryLimiter is a fixed-window in-process limiter. It is the
// fallback when Redis is not configured; counters are per-process, so
// multi-instance deployments should use the Redis limiter.
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	max     int
	period  time.Duration
	now     func() time.Time
}

type window struct {
	start time.Time
	count int
}

// NewMemoryLimiter allows max requests per key per period.
func NewMemoryLimiter(max int, period time.Duration) *MemoryLimiter {
	l := &MemoryLimiter{
		windows: make(map[string]*window),
		max:     max,
		period:  period,
		now:     time.Now,
	}
	go l.cleanup()
	return l
}

// Allow consumes one slot for key in the current window.
func (l *MemoryLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.period {
		w = &window{start: now}
		l.windows[key] = w
	}
	if w.count >= l.max {
		return false, nil
	}
	w.count++
	return true, nil
}

// cleanup evicts expired windows to prevent unbounded memory growth.
func (l *MemoryLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		l.mu.Lock()
		cutoff := l.now().Add(-l.period)
		for key, w := range l.windows {
			if w.start.Before(cutoff) {
				delete(l.windows, key)
			}
		}
		l.mu.Unlock()
	}
}

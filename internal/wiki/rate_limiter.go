package wiki

import (
	"sync"
	"time"
)

type RateLimiter struct {
	mu            sync.Mutex
	nextAllowedAt time.Time
	interval      time.Duration
}

// NewRateLimiter spaces requests by a fixed delay so the wiki is never
// hammered, whatever the caller's concurrency.
func NewRateLimiter(delay time.Duration) *RateLimiter {
	if delay <= 0 {
		delay = time.Second
	}
	return &RateLimiter{interval: delay}
}

func (r *RateLimiter) WaitTurn() {
	r.mu.Lock()
	now := time.Now()
	scheduled := now
	if r.nextAllowedAt.After(now) {
		scheduled = r.nextAllowedAt
	}
	r.nextAllowedAt = scheduled.Add(r.interval)
	r.mu.Unlock()

	if sleep := time.Until(scheduled); sleep > 0 {
		time.Sleep(sleep)
	}
}

package services

import (
	"sync"
	"time"
)

// ClientRateLimiter enforces a rolling-window request limit per client key
type ClientRateLimiter struct {
	mu          sync.Mutex
	requests    map[string][]time.Time
	maxRequests int
	window      time.Duration
	lastSweep   time.Time
	now         func() time.Time
}

// NewClientRateLimiter creates a new rate limiter
// maxRequests: maximum number of requests per window
// window: rolling time window (e.g., 60 seconds)
func NewClientRateLimiter(maxRequests int, window time.Duration) *ClientRateLimiter {
	return &ClientRateLimiter{
		requests:    make(map[string][]time.Time),
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
	}
}

// Allow records a request for key. When the limit is exceeded it returns false
// and how long until the oldest request in the window expires.
func (rl *ClientRateLimiter) Allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweep(now)
	rl.cleanupOldRequests(key, now)

	if recent := rl.requests[key]; len(recent) >= rl.maxRequests {
		return false, recent[0].Add(rl.window).Sub(now)
	}

	rl.requests[key] = append(rl.requests[key], now)
	return true, 0
}

// Remaining returns how many requests key may still make in the current window
func (rl *ClientRateLimiter) Remaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.cleanupOldRequests(key, rl.now())
	remaining := rl.maxRequests - len(rl.requests[key])
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Limit returns the configured maximum requests per window
func (rl *ClientRateLimiter) Limit() int {
	return rl.maxRequests
}

// cleanupOldRequests removes requests outside the time window
func (rl *ClientRateLimiter) cleanupOldRequests(key string, now time.Time) {
	requests, exists := rl.requests[key]
	if !exists {
		return
	}

	cutoff := now.Add(-rl.window)
	validRequests := make([]time.Time, 0, len(requests))
	for _, req := range requests {
		if req.After(cutoff) {
			validRequests = append(validRequests, req)
		}
	}

	if len(validRequests) == 0 {
		delete(rl.requests, key)
	} else {
		rl.requests[key] = validRequests
	}
}

// sweep drops idle clients at most once per window
func (rl *ClientRateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.window {
		return
	}
	rl.lastSweep = now
	for key := range rl.requests {
		rl.cleanupOldRequests(key, now)
	}
}

// GetStats returns rate limiter statistics
func (rl *ClientRateLimiter) GetStats() map[string]interface{} {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return map[string]interface{}{
		"tracked_clients": len(rl.requests),
		"max_requests":    rl.maxRequests,
		"window":          rl.window.String(),
	}
}

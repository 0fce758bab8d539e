package ratelimiter

import (
	"sync"
	"time"
)

// Limiter enforces a minimum interval between load actions of the same
// client. A zero interval disables limiting.
type Limiter struct {
	interval time.Duration
	lastSent map[string]time.Time
	mu       sync.Mutex
	now      func() time.Time
}

func New(interval time.Duration) *Limiter {
	return &Limiter{
		interval: interval,
		lastSent: make(map[string]time.Time),
		now:      time.Now,
	}
}

// Reserve records an action for key when allowed and returns zero.
// Otherwise it returns how long the client has to wait and records nothing.
func (l *Limiter) Reserve(key string) time.Duration {
	if l == nil || l.interval <= 0 {
		return 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	if lastSent, exists := l.lastSent[key]; exists {
		if delay := getDelay(l.interval, lastSent, now); delay > 0 {
			return delay
		}
	}

	l.lastSent[key] = now

	return 0
}

// Prune forgets clients whose last action is older than the interval and
// reports how many were dropped.
func (l *Limiter) Prune() int {
	if l == nil {
		return 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	pruned := 0

	for key, lastSent := range l.lastSent {
		if getDelay(l.interval, lastSent, now) == 0 {
			delete(l.lastSent, key)
			pruned++
		}
	}

	return pruned
}

func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.lastSent)
}

func getDelay(
	interval time.Duration,
	lastSent time.Time,
	now time.Time,
) time.Duration {
	elapsed := now.Sub(lastSent)

	return max(interval-elapsed, 0)
}

package services

import (
	"sync"
	"time"
)

// RateLimiter is the admission check the orchestrator runs before touching a
// session. Implementations are best-effort: slight over- or under-counting
// under contention is acceptable, this is not a security control.
type RateLimiter interface {
	Admit(sessionKey string) bool
}

const (
	// RateWindowLength is the length of one admission window per session.
	RateWindowLength = 60 * time.Second

	// RateWindowCap is the number of messages admitted per window.
	RateWindowCap = 10
)

// rateWindow is the per-session counter. Not persisted; lost on restart.
type rateWindow struct {
	count   int
	resetAt time.Time
}

// WindowRateLimiter is the in-process sliding-window limiter. It is handed to
// the orchestrator as an explicit dependency so a deployment can swap in the
// Redis-backed implementation without touching call sites.
type WindowRateLimiter struct {
	mu      sync.Mutex
	windows map[string]*rateWindow

	window time.Duration
	cap    int
	now    func() time.Time
}

// NewWindowRateLimiter creates a limiter with the default window and cap.
func NewWindowRateLimiter() *WindowRateLimiter {
	return &WindowRateLimiter{
		windows: make(map[string]*rateWindow),
		window:  RateWindowLength,
		cap:     RateWindowCap,
		now:     time.Now,
	}
}

// Admit reports whether the session may send another message in the current
// window. A fresh or expired window restarts the count at 1; a full window
// rejects without incrementing.
func (l *WindowRateLimiter) Admit(sessionKey string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[sessionKey]
	if !ok || now.After(w.resetAt) {
		l.windows[sessionKey] = &rateWindow{count: 1, resetAt: now.Add(l.window)}
		return true
	}

	if w.count < l.cap {
		w.count++
		return true
	}

	return false
}

// Sweep drops expired windows so the map does not grow without bound over a
// long process lifetime. Called by the housekeeping job; correctness does not
// depend on it.
func (l *WindowRateLimiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for key, w := range l.windows {
		if now.After(w.resetAt) {
			delete(l.windows, key)
			removed++
		}
	}
	return removed
}

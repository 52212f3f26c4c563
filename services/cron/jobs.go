package cron

import (
	"context"
	"log"
	"time"

	"github.com/intradesk/helpdesk-api/model"
)

// SweepExpiredSessions removes sessions that have been idle past the
// retention window, along with their messages.
func (m *CronManager) SweepExpiredSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-model.SessionRetentionWindow)

	removed, err := m.sessions.SweepExpired(ctx, cutoff)
	if err != nil {
		log.Printf("[CRON] sweep_expired_sessions failed: %v", err)
		return
	}

	if removed > 0 {
		log.Printf("[CRON] sweep_expired_sessions removed %d sessions", removed)
	}
}

// SweepRateWindows drops expired admission windows from the in-memory
// limiter so its map stays bounded.
func (m *CronManager) SweepRateWindows() {
	removed := m.limiter.Sweep()
	if removed > 0 {
		log.Printf("[CRON] sweep_rate_windows removed %d windows", removed)
	}
}

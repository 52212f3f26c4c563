package cron

import (
	"log"

	"github.com/intradesk/helpdesk-api/services"
	"github.com/robfig/cron/v3"
)

// CronManager manages the housekeeping jobs that keep the assistant's state
// from growing without bound. Nothing here runs on the request path.
type CronManager struct {
	cron     *cron.Cron
	sessions *services.SessionService
	limiter  *services.WindowRateLimiter
}

// NewCronManager creates a new cron manager
func NewCronManager(sessions *services.SessionService, limiter *services.WindowRateLimiter) *CronManager {
	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &CronManager{
		cron:     c,
		sessions: sessions,
		limiter:  limiter,
	}
}

// Start starts all cron jobs
func (m *CronManager) Start() error {
	log.Println("Starting cron jobs...")

	if err := m.registerJobs(); err != nil {
		return err
	}

	m.cron.Start()

	log.Println("Cron jobs started successfully")
	return nil
}

// Stop stops all cron jobs
func (m *CronManager) Stop() {
	log.Println("Stopping cron jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Println("Cron jobs stopped")
}

// registerJobs registers all cron jobs with their schedules
func (m *CronManager) registerJobs() error {
	// Every hour: remove sessions idle past the retention window
	_, err := m.cron.AddFunc("0 0 * * * *", func() {
		m.logJobStart("sweep_expired_sessions")
		m.SweepExpiredSessions()
	})
	if err != nil {
		return err
	}

	// Every 5 minutes: drop expired rate-limit windows
	if m.limiter != nil {
		_, err = m.cron.AddFunc("0 */5 * * * *", func() {
			m.logJobStart("sweep_rate_windows")
			m.SweepRateWindows()
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func (m *CronManager) logJobStart(name string) {
	log.Printf("[CRON] Starting job: %s", name)
}

package app

import (
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/intradesk/helpdesk-api/api"
	"github.com/intradesk/helpdesk-api/config"
	"github.com/intradesk/helpdesk-api/database"
	"github.com/intradesk/helpdesk-api/router"
	"github.com/intradesk/helpdesk-api/services"
	"github.com/intradesk/helpdesk-api/services/cron"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	// Initialize GORM database connection
	store, err := database.StartGORM()
	if err != nil {
		print("Check whether the Postgres is running or not\n")
		return err
	}

	if err := store.Init(); err != nil {
		print("Failed to initialize database tables\n")
		return err
	}

	// Seed the knowledge base on first run
	if err := database.NewSeeder(store.GetDB()).SeedAll(); err != nil {
		print("Warning: database seeding failed\n")
		print("Error: ", err.Error(), "\n")
		// Don't fail the app, the admin surface can still populate content
	}

	// Pick the rate limiter for this deployment
	limiter, windowLimiter := router.NewRateLimiter()

	// Initialize Cron Manager (only if enabled via environment variable)
	var cronManager *cron.CronManager
	if os.Getenv("CRON_ENABLED") != "false" { // Default to enabled
		sessionService := services.NewSessionService(store.GetDB())
		cronManager = cron.NewCronManager(sessionService, windowLimiter)
		if err := cronManager.Start(); err != nil {
			print("Warning: Failed to start cron jobs\n")
			print("Error: ", err.Error(), "\n")
			// Don't fail the app, just log the warning
		}
	}

	// Defer Closing DB and stopping cron jobs
	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		store.Close()
	}()

	// Init API
	var server *api.APIServer = api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT))
	app := server.GetEngine()

	// Attach Middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Setup Routes
	router.SetupRoutes(app, store, limiter)

	// Get the PORT & Start the Server
	return server.Run()
}

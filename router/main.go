package router

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/intradesk/helpdesk-api/database"
	"github.com/intradesk/helpdesk-api/handlers"
	chat_handlers "github.com/intradesk/helpdesk-api/handlers/chat"
	"github.com/intradesk/helpdesk-api/services"
	"github.com/intradesk/helpdesk-api/utils/cache"
)

// SetupRoutes wires the assistant pipeline and registers all routes. The
// rate limiter is built here and injected explicitly so a deployment can
// swap the in-process limiter for the Redis-backed one without touching any
// call site.
func SetupRoutes(app *fiber.App, store *database.GORMStore, limiter services.RateLimiter) {
	db := store.GetDB()

	// Knowledge sources and the retrieval pipeline
	faqSource := services.NewGormFAQSource(db)
	contactSource := services.NewGormContactSource(db)
	newsSource := services.NewGormNewsSource(db)
	retriever := services.NewRetrievalService(faqSource, contactSource, newsSource)

	// Session persistence
	sessionService := services.NewSessionService(db)

	// Primary and fallback answer strategies
	generator := services.NewGenerationGateway()
	if !generator.Available() {
		log.Println("Warning: ANTHROPIC_API_KEY not set. Replies will use the rule-based fallback only.")
	}
	fallback := services.NewFallbackResponder(faqSource)

	chatService := services.NewChatService(limiter, sessionService, retriever, generator, fallback)
	assistantHandler := chat_handlers.NewAssistantHandler(chatService)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return handlers.HandleCheckHealth(c, store)
	})

	// Assistant routes
	v1 := app.Group("/api/v1")
	assistant := v1.Group("/assistant")
	assistant.Post("/init", assistantHandler.Init)
	assistant.Post("/message", assistantHandler.SendMessage)
	assistant.Post("/clear", assistantHandler.Clear)
	assistant.Get("/history/:session_id", assistantHandler.History)
}

// NewRateLimiter picks the limiter implementation for this deployment: the
// Redis-backed one when REDIS_URL is configured and reachable, otherwise the
// in-process window limiter.
func NewRateLimiter() (services.RateLimiter, *services.WindowRateLimiter) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL != "" {
		redisCache, err := cache.NewRedisCache(redisURL)
		if err != nil {
			log.Printf("Warning: Failed to connect to Redis: %v. Using in-process rate limiting.", err)
		} else {
			return services.NewRedisRateLimiter(redisCache), nil
		}
	}

	limiter := services.NewWindowRateLimiter()
	return limiter, limiter
}

package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/printledger/internal/application/service"
	"github.com/sangkips/printledger/internal/config"
	"github.com/sangkips/printledger/internal/domain/repository"
	"github.com/sangkips/printledger/internal/infrastructure/database"
	infraRepo "github.com/sangkips/printledger/internal/infrastructure/repository"
	"github.com/sangkips/printledger/internal/infrastructure/sheets"
	"github.com/sangkips/printledger/internal/presentation/http/handler"
	"github.com/sangkips/printledger/internal/presentation/http/middleware"
	"github.com/sangkips/printledger/internal/presentation/http/routes"
)

const idempotencyPurgeInterval = time.Hour

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Open(&cfg.Database, cfg.App.Debug)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repositories
	preferenceRepo := infraRepo.NewClientPreferenceRepository(db)
	idempotencyRepo := infraRepo.NewIdempotencyRepository(db)

	loc, err := cfg.Display.Location()
	if err != nil {
		log.Fatalf("Invalid display timezone: %v", err)
	}

	// Initialize services
	ledger := sheets.NewClient(cfg.Sheets.ScriptURL, cfg.Sheets.RequestTimeout)
	preferenceService := service.NewPreferenceService(preferenceRepo)
	formatter := service.NewDateFormatter(cfg.Display.DateLayout, loc)

	registry := service.NewControllerRegistry(func(clientID uuid.UUID) *service.FormController {
		return service.NewFormController(ledger, preferenceService.ForClient(clientID), formatter)
	}, cfg.Session.IdleTTL)
	defer registry.Close()

	go purgeExpiredKeys(idempotencyRepo, idempotencyPurgeInterval)

	// Initialize handlers
	handlers := &routes.Handlers{
		Web:  handler.NewWebHandler(),
		Form: handler.NewFormHandler(registry),
	}

	rateLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfigFrom(cfg.RateLimit.Requests, cfg.RateLimit.Duration))
	defer rateLimiter.Stop()

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)
	log.Printf("Database: %s", cfg.Database.Driver)

	if err := router.Run(":" + port); err != nil {
		log.Printf("Failed to start server: %v", err)
		os.Exit(1)
	}
}

func purgeExpiredKeys(repo repository.IdempotencyRepository, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for range ticker.C {
		n, err := repo.DeleteExpired(context.Background())
		if err != nil {
			log.Printf("Error purging idempotency keys: %v", err)
			continue
		}
		if n > 0 {
			log.Printf("Purged %d expired idempotency keys", n)
		}
	}
}

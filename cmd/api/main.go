package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"alfredoptarigan/hiring-pipeline/internal/config"
	"alfredoptarigan/hiring-pipeline/internal/handlers"
	"alfredoptarigan/hiring-pipeline/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	log.Println("✅ Config loaded successfully")

	tieBreak, err := services.ParseTieBreakPolicy(cfg.Pipeline.TieBreak)
	if err != nil {
		log.Fatalf("❌ Invalid RANKING_TIE_BREAK: %v", err)
	}

	// Initialize store
	appLogger := cfg.NewLogger()
	store, err := config.OpenStore(cfg, appLogger)
	if err != nil {
		log.Fatalf("❌ Failed to initialize %s store: %v", cfg.Storage.Driver, err)
	}
	log.Printf("✅ Store initialized (%s)", cfg.Storage.Driver)

	// Initialize services
	svc := services.New(store, appLogger, services.Options{TieBreak: tieBreak})
	log.Printf("✅ Services initialized (tie-break: %s)", tieBreak)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Hiring Pipeline API",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	handlers.Register(app, svc)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Hiring Pipeline API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/processes",
				"POST /api/v1/processes/:id/stages/:stage",
				"POST /api/v1/processes/:id/applications",
				"POST /api/v1/applications/:id/hire",
				"GET /health",
				"GET /metrics",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Printf("❌ Failed to start server: %v", err)
	}

	if err := store.Close(); err != nil {
		log.Printf("❌ Failed to close store: %v", err)
	}
	log.Println("👋 Server stopped")
}

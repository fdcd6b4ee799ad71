package main

import (
	"log"

	"github.com/labstack/echo/v4"
	"github.com/sourav-357/Streamify-chat-vc-platform/internal/router"
	"github.com/sourav-357/Streamify-chat-vc-platform/internal/validators"
	"github.com/sourav-357/Streamify-chat-vc-platform/pkg/config"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connection
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.CloseDB()

	// Create Echo instance
	e := echo.New()

	// Validator
	e.Validator = validators.NewValidator()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, db.Database, cfg)

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}

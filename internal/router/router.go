package router

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sourav-357/Streamify-chat-vc-platform/internal/handlers"
	"github.com/sourav-357/Streamify-chat-vc-platform/internal/middleware"
	"github.com/sourav-357/Streamify-chat-vc-platform/internal/repositories"
	"github.com/sourav-357/Streamify-chat-vc-platform/internal/services"
	"github.com/sourav-357/Streamify-chat-vc-platform/pkg/config"
	"github.com/sourav-357/Streamify-chat-vc-platform/pkg/stream"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, db *mongo.Database, cfg *config.Config) {
	// --- Initialize repositories ---
	userRepo := repositories.NewMongoUserRepository(db)
	friendRequestRepo := repositories.NewMongoFriendRequestRepository(db)
	groupRepo := repositories.NewMongoGroupRepository(db)
	conversationRepo := repositories.NewMongoConversationRepository(db)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, repo := range []interface {
		EnsureIndexes(context.Context) error
	}{userRepo, friendRequestRepo, groupRepo, conversationRepo} {
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Fatalf("Failed to create indexes: %v", err)
		}
	}
	log.Println("MongoDB indexes ensured for all collections.")

	// --- Initialize services ---
	friendshipService := services.NewFriendshipService(userRepo, friendRequestRepo)
	groupService := services.NewGroupService(groupRepo, userRepo)
	conversationService := services.NewConversationService(conversationRepo, userRepo)

	streamClient, err := stream.New(cfg.StreamAPIKey, cfg.StreamAPISecret)
	if err != nil {
		log.Fatalf("Failed to initialize stream client: %v", err)
	}

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Unprotected routes for authentication ---
	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWTSecret)
	authGroup := e.Group("/api/auth")
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api")
	api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	log.Println("JWT authentication middleware applied to /api group.")

	authHandler.RegisterProfileRoutes(api)
	log.Println("Account routes configured.")

	userHandler := handlers.NewUserHandler(friendshipService, userRepo)
	userHandler.RegisterUserRoutes(api)
	log.Println("User and friendship routes configured.")

	chatHandler := handlers.NewChatHandler(conversationService, groupService, streamClient)
	chatHandler.RegisterChatRoutes(api)
	log.Println("Chat routes configured.")

	log.Println("All routes configured.")
}

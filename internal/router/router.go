package router

import (
	"time"

	"github.com/anonto42/xsocial/backend/internal/handlers"
	"github.com/anonto42/xsocial/backend/internal/media"
	"github.com/anonto42/xsocial/backend/internal/middleware"
	"github.com/anonto42/xsocial/backend/internal/repositories"
	"github.com/anonto42/xsocial/backend/internal/services"
	"github.com/anonto42/xsocial/backend/internal/validators"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// Dependencies are the collaborators the routes are built from. Images,
// Directory and Verifier may be nil when Firebase is not configured.
type Dependencies struct {
	Users         repositories.UserRepository
	Posts         repositories.PostRepository
	Comments      repositories.CommentRepository
	Notifications repositories.NotificationRepository
	Transactor    repositories.Transactor

	Images    media.ImageHost
	Directory services.IdentityDirectory
	Verifier  middleware.TokenVerifier

	// Auth guards the routes that act as the caller.
	Auth          echo.MiddlewareFunc
	JWTSecret     string
	SessionTTL    time.Duration
	MaxUploadSize int64
	HealthChecks  map[string]handlers.Check
}

// SetupRoutes builds the services and registers every route under /api
func SetupRoutes(e *echo.Echo, deps Dependencies) {
	e.Validator = validators.NewValidator()

	notifier := services.NewNotifier(deps.Notifications)
	userService := services.NewUserService(deps.Users, deps.Directory)
	graphService := services.NewGraphService(deps.Users, deps.Transactor, notifier)
	engagementService := services.NewEngagementService(deps.Users, deps.Posts, deps.Comments, deps.Transactor, notifier)
	postService := services.NewPostService(deps.Users, deps.Posts, deps.Comments, deps.Transactor, deps.Images)
	notificationService := services.NewNotificationService(deps.Notifications, deps.Users, deps.Posts, deps.Comments)

	api := e.Group("/api")

	healthHandler := handlers.NewHealthHandler(deps.HealthChecks)
	api.GET("/health", healthHandler.HealthCheck)

	authHandler := handlers.NewAuthHandler(deps.Verifier, deps.JWTSecret, deps.SessionTTL)
	authHandler.RegisterAuthRoutes(api)
	log.Debug().Msg("Auth routes configured.")

	userHandler := handlers.NewUserHandler(userService, graphService)
	userHandler.RegisterUserRoutes(api, deps.Auth)
	log.Debug().Msg("User routes configured.")

	postHandler := handlers.NewPostHandler(postService, engagementService, userService, deps.MaxUploadSize)
	postHandler.RegisterPostRoutes(api, deps.Auth)
	log.Debug().Msg("Post routes configured.")

	feedHandler := handlers.NewFeedHandler(postService, userService)
	feedHandler.RegisterFeedRoutes(api, deps.Auth)
	log.Debug().Msg("Feed routes configured.")

	commentHandler := handlers.NewCommentHandler(postService, engagementService, userService)
	commentHandler.RegisterCommentRoutes(api, deps.Auth)
	log.Debug().Msg("Comment routes configured.")

	notificationHandler := handlers.NewNotificationHandler(notificationService, userService)
	notificationHandler.RegisterNotificationRoutes(api, deps.Auth)
	log.Debug().Msg("Notification routes configured.")

	log.Info().Int("routes", len(e.Routes())).Msg("All routes configured.")
}

// Package server contains HTTP handlers for the listing API endpoints.
package server

import (
	"context"
	"fmt"
	"time"

	"estate/internal/cache"
	"estate/internal/config"
	"estate/internal/database"
	"estate/internal/events"
	"estate/internal/featureflags"
	"estate/internal/interaction"
	"estate/internal/middleware"
	"estate/internal/repository"
	"estate/internal/service"
	"estate/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus

	agentRepo    repository.AgentRepository
	galleryRepo  repository.GalleryRepository
	propertyRepo repository.PropertyRepository
	likeRepo     repository.LikeRepository
	reviewRepo   repository.ReviewRepository

	listingService *service.ListingService
	likeService    *service.LikeService
	reviewService  *service.ReviewService

	tracker   *interaction.Tracker
	publisher *events.Publisher
	flags     *featureflags.Manager
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	publisher, err := events.NewPublisher(cfg.AMQPURL)
	if err != nil {
		return nil, fmt.Errorf("event publisher failed: %w", err)
	}

	bucket := storage.NewClient(cfg)
	return NewServerWithDeps(cfg, db, cache.GetClient(), bucket, publisher)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis first.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, bucket storage.BucketClient, publisher *events.Publisher) (*Server, error) {
	agentRepo := repository.NewAgentRepository(db)
	galleryRepo := repository.NewGalleryRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	assets := service.NewAssetService(bucket, nil)

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("estate-api"),
		agentRepo:      agentRepo,
		galleryRepo:    galleryRepo,
		propertyRepo:   propertyRepo,
		likeRepo:       likeRepo,
		reviewRepo:     reviewRepo,
		tracker:        interaction.NewTracker(),
		publisher:      publisher,
		flags:          featureflags.NewManager(cfg.FeatureFlags),
	}
	s.listingService = service.NewListingService(agentRepo, galleryRepo, propertyRepo, assets, publisher)
	s.likeService = service.NewLikeService(likeRepo)
	s.reviewService = service.NewReviewService(reviewRepo, likeRepo, publisher)

	return s, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS before middlewares that can short-circuit (e.g. limiter) so
	// browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:8081,http://localhost:19006"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Estate Backend Metrics Dashboard",
	}))

	// Public browse routes
	properties := api.Group("/properties")
	properties.Get("/", s.GetProperties)
	properties.Get("/latest", s.GetLatestProperties)
	properties.Get("/:id", s.GetProperty)

	// Creation pipeline; strict limit, one listing per window
	properties.Post("/", middleware.AuthRequired, middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "create_property"), s.CreateProperty)

	// Like ledger
	likes := api.Group("/likes")
	likes.Get("/:targetId", middleware.OptionalAuth, s.GetIsLiked)
	likes.Post("/toggle", middleware.AuthRequired, s.ToggleLike)

	// Batch liked-state fan-out for screen mount
	api.Get("/interactions", middleware.OptionalAuth, s.GetInteractions)

	// Reviews
	reviews := api.Group("/reviews")
	reviews.Post("/", middleware.AuthRequired, middleware.RateLimit(
		s.redis, 10, time.Minute, "create_review"), s.CreateReview)
	reviews.Get("/:id/likes", middleware.OptionalAuth, s.GetReviewLikes)
	reviews.Post("/:id/likes/toggle", middleware.AuthRequired, s.ToggleReviewLike)

	// Current principal echo
	api.Get("/me", middleware.AuthRequired, s.GetMe)

	// Feature flags evaluated for the caller, used by the client for
	// gradual rollouts
	api.Get("/flags", middleware.OptionalAuth, s.GetFlags)
}

// App builds a Fiber app with middleware and routes configured.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "estate-api",
		ErrorHandler: errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// Shutdown releases server-owned resources. The Fiber app is shut down
// separately by the entry point.
func (s *Server) Shutdown(_ context.Context) error {
	var firstErr error

	if err := s.publisher.Close(); err != nil {
		firstErr = err
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

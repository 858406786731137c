// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"time"

	"devlink/internal/cache"
	"devlink/internal/config"
	"devlink/internal/database"
	"devlink/internal/github"
	"devlink/internal/middleware"
	"devlink/internal/repository"
	"devlink/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	mongoClient    *mongo.Client
	db             *mongo.Database
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus
	userRepo       repository.UserRepository
	profileRepo    repository.ProfileRepository
	postRepo       repository.PostRepository
	authService    *service.AuthService
	profileService *service.ProfileService
	postService    *service.PostService
	githubClient   *github.Client
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	client, db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	server := newServerWithDeps(cfg, db, redisClient)
	server.mongoClient = client
	return server, nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis first.
func NewServerWithDeps(cfg *config.Config, db *mongo.Database, redisClient *redis.Client) (*Server, error) {
	return newServerWithDeps(cfg, db, redisClient), nil
}

func newServerWithDeps(cfg *config.Config, db *mongo.Database, redisClient *redis.Client) *Server {
	prom := fiberprometheus.New("devlink-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		githubClient:   github.NewClient(cfg.GithubAPIURL, cfg.GithubClientID, cfg.GithubClientSecret),
	}
	if db != nil {
		server.userRepo = repository.NewUserRepository(db)
		server.profileRepo = repository.NewProfileRepository(db)
		server.postRepo = repository.NewPostRepository(db)
	}
	server.wireServices()
	return server
}

func (s *Server) wireServices() {
	s.authService = service.NewAuthService(s.userRepo)
	s.profileService = service.NewProfileService(s.profileRepo, s.userRepo, s.postRepo)
	s.postService = service.NewPostService(s.postRepo, s.userRepo)
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())

	app.Use(requestid.New())

	app.Use(middleware.TracingMiddleware())

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
		app.Use(s.promMiddleware.Middleware)
	}

	app.Use(helmet.New())

	app.Use(middleware.StructuredLogger())

	// CORS runs before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, x-auth-token",
		MaxAge:       86400,
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
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	api := app.Group("/api")

	// Registration and session
	api.Post("/users", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "register"), s.Register)
	api.Post("/auth", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	api.Get("/auth", middleware.AuthRequired(), s.GetAuthUser)

	// Profile routes. Specific paths come before the /user/:user_id wildcard.
	profile := api.Group("/profile")
	profile.Get("/me", middleware.AuthRequired(), s.GetMyProfile)
	profile.Post("/", middleware.AuthRequired(), s.UpsertProfile)
	profile.Get("/", s.GetProfiles)
	profile.Delete("/", middleware.AuthRequired(), s.DeleteAccount)
	profile.Put("/experience", middleware.AuthRequired(), s.AddExperience)
	profile.Delete("/experience/:exp_id", middleware.AuthRequired(), s.DeleteExperience)
	profile.Put("/education", middleware.AuthRequired(), s.AddEducation)
	profile.Delete("/education/:edu_id", middleware.AuthRequired(), s.DeleteEducation)
	profile.Get("/github/:username", middleware.RateLimit(
		s.redis, 10, time.Minute, "github"), s.GetGithubRepos)
	profile.Get("/user/:user_id", s.GetProfileByUserID)

	// Post routes, all behind auth. Specific paths come before /:id.
	posts := api.Group("/posts", middleware.AuthRequired())
	posts.Post("/", middleware.RateLimit(
		s.redis, 5, time.Minute, "create_post"), s.CreatePost)
	posts.Get("/", s.GetPosts)
	posts.Put("/like/:id", s.LikePost)
	posts.Put("/unlike/:id", s.UnlikePost)
	posts.Post("/comment/:id", middleware.RateLimit(
		s.redis, 10, time.Minute, "create_comment"), s.AddComment)
	posts.Delete("/comment/:id/:comment_id", s.DeleteComment)
	posts.Get("/:id", s.GetPost)
	posts.Delete("/:id", s.DeletePost)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if s.mongoClient != nil {
		if err := s.mongoClient.Ping(ctx, nil); err != nil {
			dbStatus = "unhealthy"
		}
	} else if s.db == nil {
		dbStatus = "unavailable"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// Redis only backs rate limiting, so its absence degrades rather
		// than fails readiness.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || dbStatus == "unavailable" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Shutdown closes the server's database and cache connections. The Fiber app
// itself is stopped by the caller before this runs.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.redis != nil {
		_ = s.redis.Close()
	}
	if s.mongoClient != nil {
		return database.Disconnect(s.mongoClient)
	}
	return nil
}

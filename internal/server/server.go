// Package server contains the HTTP handlers and middleware of the tactac API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "tactac/docs" // swagger docs
	"tactac/internal/bootstrap"
	"tactac/internal/cache"
	"tactac/internal/config"
	"tactac/internal/middleware"
	"tactac/internal/models"
	"tactac/internal/repository"
	"tactac/internal/service"
	"tactac/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	objects        storage.Store
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	limits         config.Limits

	authService       *service.AuthService
	postService       *service.PostService
	commentService    *service.CommentService
	userService       *service.UserService
	moderationService *service.ModerationService
}

// NewServer connects to the database, Redis and the object store named by cfg.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	// Redis is optional; a nil client disables caching.
	db, redisClient, err := bootstrap.InitRuntime(cfg, bootstrap.Options{})
	if err != nil {
		return nil, err
	}

	objects, err := storage.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("storage initialization failed: %w", err)
	}

	return NewServerWithDeps(cfg, db, redisClient, objects)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Tests and the bootstrap layer use this directly.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, objects storage.Store) (*Server, error) {
	if db == nil {
		return nil, errors.New("server requires a database")
	}
	if objects == nil {
		return nil, errors.New("server requires an object store")
	}

	limits := config.DefaultLimits()
	store := repository.NewStore(db)
	counters := service.NewCounters(store)
	creds := service.NewCredentialService(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour, cfg.BcryptCost)
	images := service.NewImagePipeline(objects, limits)

	return &Server{
		config:            cfg,
		db:                db,
		redis:             redisClient,
		objects:           objects,
		promMiddleware:    middleware.InitMetrics("tactac-api"),
		limits:            limits,
		authService:       service.NewAuthService(store, creds),
		postService:       service.NewPostService(store, counters, images, limits),
		commentService:    service.NewCommentService(store, counters, limits),
		userService:       service.NewUserService(store, counters, creds, images, limits),
		moderationService: service.NewModerationService(store, counters, images, limits),
	}, nil
}

// App builds the Fiber application on first use.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}

	bodyLimit := s.config.BodyLimitMB
	if bodyLimit <= 0 {
		bodyLimit = 10
	}
	app := fiber.New(fiber.Config{
		AppName:      "tactac API",
		BodyLimit:    bodyLimit * 1024 * 1024,
		ErrorHandler: errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// errorHandler renders errors that escaped a handler, such as unknown routes and
// oversized bodies, in the standard envelope.
func errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code := models.CodeValidation
		switch fiberErr.Code {
		case fiber.StatusNotFound:
			code = models.CodeNotFound
		case fiber.StatusUnauthorized:
			code = models.CodeUnauthorized
		case fiber.StatusForbidden:
			code = models.CodeForbidden
		}
		if fiberErr.Code >= fiber.StatusInternalServerError {
			return respondError(c, models.NewInternalError(err))
		}
		return c.Status(fiberErr.Code).JSON(models.ErrorResponse{
			Message: fiberErr.Message,
			Code:    code,
		})
	}
	return respondError(c, err)
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Spans need the request id, the context middleware needs the trace id.
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers. Uploaded images are embedded cross-origin by the client.
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))

	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	if local, ok := s.objects.(*storage.LocalStorage); ok {
		app.Static(local.MountPath(), local.Dir(), fiber.Static{
			MaxAge: 86400,
		})
	}

	api := app.Group("/api")
	api.Get("/health", s.HealthCheck)
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "tactac API Metrics",
	}))
	api.Get("/swagger/*", swagger.HandlerDefault)

	auth := api.Group("/auth")
	auth.Post("/register", s.Register)
	auth.Post("/login", s.Login)
	auth.Get("/me", s.AuthRequired(), s.GetMe)
	auth.Post("/logout", s.AuthRequired(), s.Logout)

	posts := api.Group("/posts")
	posts.Get("/", s.OptionalAuth(), s.GetPosts)
	posts.Post("/", s.AuthRequired(), s.CreatePost)
	// Specific /:id/:resource routes before the generic /:id routes
	posts.Post("/:id/like", s.AuthRequired(), s.LikePost)
	posts.Delete("/:id/like", s.AuthRequired(), s.UnlikePost)
	posts.Get("/:id/comments", s.OptionalAuth(), s.GetComments)
	posts.Get("/:id", s.OptionalAuth(), s.GetPost)
	posts.Patch("/:id", s.AuthRequired(), s.UpdatePost)
	posts.Delete("/:id", s.AuthRequired(), s.DeletePost)

	comments := api.Group("/comments", s.AuthRequired())
	comments.Post("/:postId", s.CreateComment)
	comments.Patch("/:id", s.UpdateComment)
	comments.Delete("/:id", s.DeleteComment)

	users := api.Group("/users")
	// The fixed self-service paths are registered before /:username.
	users.Patch("/profile", s.AuthRequired(), s.UpdateMyProfile)
	users.Patch("/email", s.AuthRequired(), s.UpdateMyEmail)
	users.Patch("/password", s.AuthRequired(), s.UpdateMyPassword)
	users.Delete("/account", s.AuthRequired(), s.DeleteMyAccount)
	users.Get("/:username/posts", s.OptionalAuth(), s.GetUserPosts)
	users.Get("/:username", s.OptionalAuth(), s.GetUserProfile)

	admin := api.Group("/admin", s.AuthRequired(), s.AdminRequired())
	admin.Get("/metrics", s.GetAdminMetrics)
	admin.Get("/users", s.GetAdminUsers)
	admin.Get("/users/:userId", s.GetAdminUser)
	admin.Patch("/users/:userId", s.UpdateAdminUser)
	admin.Delete("/users/:userId", s.DeleteAdminUser)
	admin.Delete("/posts/:postId", s.DeleteAdminPost)
	admin.Delete("/comments/:commentId", s.DeleteAdminComment)
}

// HealthCheck handles GET /api/health
// @Summary Service health
// @Tags health
// @Produce json
// @Success 200 {object} object{status=string,checks=object}
// @Failure 503 {object} object{status=string,checks=object}
// @Router /health [get]
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return s.ReadinessCheck(c)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports database and Redis health. Redis only backs a cache, so
// its absence degrades the report without failing it.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	switch {
	case dbStatus != "healthy":
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	case redisStatus != "healthy":
		overallStatus = "degraded"
	}

	return c.Status(status).JSON(fiber.Map{
		"success": status == fiber.StatusOK,
		"status":  overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start starts the server
func (s *Server) Start() error {
	app := s.App()
	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if closer, ok := s.objects.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			middleware.Logger.Error("error closing object store", slog.String("error", err.Error()))
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if err := cache.Close(); err != nil {
		middleware.Logger.Error("error closing redis", slog.String("error", err.Error()))
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}

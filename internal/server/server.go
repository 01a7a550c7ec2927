// Package server contains the HTTP controllers and the front-controller
// wiring for the application.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"gestufas/internal/cache"
	"gestufas/internal/config"
	"gestufas/internal/database"
	"gestufas/internal/middleware"
	"gestufas/internal/repository"
	"gestufas/internal/router"
	"gestufas/internal/session"
	"gestufas/views"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/template/html/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config      *config.Config
	db          *gorm.DB
	redis       *redis.Client
	sessions    *session.Manager
	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	projectRepo repository.ProjectRepository
	commentRepo repository.CommentRepository

	app *fiber.App
}

// NewServer creates a server instance connected to Postgres and Redis.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	redisClient, err := cache.Connect(cfg.RedisURL)
	if err != nil {
		return nil, err
	}

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps wires a server from pre-built dependencies. Tests use it
// with an in-memory SQLite database and a miniredis instance.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	s := &Server{
		config:      cfg,
		db:          db,
		redis:       redisClient,
		sessions:    session.NewManager(redisClient, time.Duration(cfg.SessionTTLHours)*time.Hour),
		userRepo:    repository.NewUserRepository(db),
		postRepo:    repository.NewPostRepository(db),
		projectRepo: repository.NewProjectRepository(db),
		commentRepo: repository.NewCommentRepository(db),
	}

	app, err := s.buildApp()
	if err != nil {
		return nil, err
	}
	s.app = app

	return s, nil
}

// App returns the underlying fiber application, exposed for app.Test in tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) buildApp() (*fiber.App, error) {
	engine := html.NewFileSystem(http.FS(views.FS), ".html")

	app := fiber.New(fiber.Config{
		AppName:     "GEstufas",
		Views:       engine,
		ViewsLayout: "layouts/main",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			middleware.Logger.Error("unhandled error",
				slog.String("path", c.Path()),
				slog.String("error", err.Error()))
			if fe, ok := err.(*fiber.Error); ok {
				return c.Status(fe.Code).SendString(fe.Message)
			}
			return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
		},
	})

	app.Use(requestid.New())
	app.Use(recover.New())
	app.Use(middleware.StructuredLogger())
	app.Use(s.sessions.Middleware())

	dispatcher, err := router.New(s.routeTable(), s.registry())
	if err != nil {
		return nil, fmt.Errorf("route configuration: %w", err)
	}

	app.All("/", dispatcher.Handler())
	middleware.Logger.Info("routes resolved",
		slog.Any("resources", dispatcher.Resources()))

	return app, nil
}

// Start begins serving on the configured port and blocks.
func (s *Server) Start() error {
	middleware.Logger.Info("server starting",
		slog.String("port", s.config.Port),
		slog.String("env", s.config.Env))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown stops the listener and closes the database and Redis connections.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.app.ShutdownWithContext(ctx); err != nil {
		middleware.Logger.Error("fiber shutdown failed", slog.String("error", err.Error()))
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}

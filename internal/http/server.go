// Package http provides the HTTP API over the taskd store, activity log,
// and template catalog. Handlers are thin adapters: bind, delegate, map
// typed errors to status codes.
package http

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/taskd/internal/activity"
	"github.com/fyrsmithlabs/taskd/internal/store"
	"github.com/fyrsmithlabs/taskd/internal/template"
)

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
}

// Server provides HTTP endpoints for taskd.
type Server struct {
	echo     *echo.Echo
	store    *store.Store
	activity *activity.Log
	catalog  *template.Catalog
	metrics  *Metrics
	logger   *zap.Logger
	config   *Config
}

// NewServer creates a new HTTP server.
func NewServer(st *store.Store, log *activity.Log, catalog *template.Catalog, logger *zap.Logger, cfg *Config) (*Server, error) {
	if st == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if log == nil {
		return nil, fmt.Errorf("activity log cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if catalog == nil {
		catalog = template.Builtin()
	}
	if cfg == nil {
		cfg = &Config{Host: "localhost", Port: 8787}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	metrics := NewMetrics()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(metrics.Middleware())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return err
		}
	})

	s := &Server{
		echo:     e,
		store:    st,
		activity: log,
		catalog:  catalog,
		metrics:  metrics,
		logger:   logger,
		config:   cfg,
	}
	s.registerRoutes()
	return s, nil
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))

	v1 := s.echo.Group("/api/v1")
	v1.GET("/projects", s.handleListProjects)
	v1.POST("/projects", s.handleCreateProject)
	v1.GET("/projects/:slug", s.handleGetProject)
	v1.POST("/projects/:slug/archive", s.handleArchiveProject)
	v1.POST("/projects/:slug/reopen", s.handleReopenProject)
	v1.GET("/projects/:slug/tasks", s.handleListTasks)
	v1.POST("/projects/:slug/tasks", s.handleAddTask)
	v1.PUT("/projects/:slug/tasks", s.handleUpdateTask)
	v1.DELETE("/projects/:slug/tasks", s.handleDeleteTask)
	v1.POST("/projects/:slug/tasks/:id/complete", s.handleCompleteTask)
	v1.GET("/activity", s.handleActivity)
	v1.GET("/notifications", s.handleNotifications)
	v1.GET("/templates", s.handleTemplates)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}

package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/taskforge/todo-system/internal/api/handler"
	"github.com/taskforge/todo-system/internal/api/middleware"
	"github.com/taskforge/todo-system/internal/core/domain"
	"github.com/taskforge/todo-system/internal/core/token"
)

// RouterConfig carries the wired collaborators for route registration.
// All construction happens in cmd/api; the router only declares the
// route → middleware → handler table.
type RouterConfig struct {
	AuthHandler  *handler.AuthHandler
	TodoHandler  *handler.TodoHandler
	AuditHandler *handler.AuditHandler
	Readiness    *handler.ReadinessHandler

	Codec       *token.Codec
	Roles       middleware.RoleResolver
	Revocations middleware.RevocationChecker
	Audit       middleware.AuditSink

	// Registerer defaults to the global Prometheus registry. Injectable so
	// multiple router instances can coexist in one process.
	Registerer prometheus.Registerer

	Logger zerolog.Logger
}

// NewRouter builds the Echo instance with all routes registered.
//
// The role requirement of every operation is declared here, next to its
// route: mutations on todos require the admin role, reads and completion
// toggles accept either role, and the audit trail is admin only.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Logger)

	registerer := cfg.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "todo",
		Registerer: registerer,
	}))

	// --- Public surface: auth, probes, metrics ---
	e.POST("/api/auth/register", cfg.AuthHandler.Register)
	e.POST("/api/auth/login", cfg.AuthHandler.Login)

	healthHandler := handler.NewHealthHandler()
	e.GET("/health", healthHandler.Liveness)
	if cfg.Readiness != nil {
		e.GET("/health/ready", cfg.Readiness.Readiness)
	}
	if gatherer, ok := registerer.(prometheus.Gatherer); ok {
		e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	} else {
		e.GET("/metrics", echoprometheus.NewHandler())
	}

	// --- Protected surface: gate runs once per request, before routing ---
	gate := middleware.Auth(cfg.Codec, cfg.Roles, cfg.Revocations, cfg.Audit, cfg.Logger)
	anyRole := middleware.RBAC(cfg.Audit, domain.RoleUser, domain.RoleAdmin)
	adminOnly := middleware.RBAC(cfg.Audit, domain.RoleAdmin)

	protected := e.Group("/api", gate)

	protected.POST("/auth/logout", cfg.AuthHandler.Logout, anyRole)

	todos := protected.Group("/todos")
	todos.POST("", cfg.TodoHandler.Add, adminOnly)
	todos.GET("", cfg.TodoHandler.List, anyRole)
	todos.GET("/:id", cfg.TodoHandler.Get, anyRole)
	todos.PUT("/:id", cfg.TodoHandler.Update, adminOnly)
	todos.DELETE("/:id", cfg.TodoHandler.Delete, adminOnly)
	todos.PATCH("/:id/complete", cfg.TodoHandler.Complete, anyRole)
	todos.PATCH("/:id/in-complete", cfg.TodoHandler.Incomplete, anyRole)

	protected.GET("/audit/events", cfg.AuditHandler.List, adminOnly)

	return e
}

package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taskforge/todo-system/internal/api/metrics"
	"github.com/taskforge/todo-system/internal/core/domain"
	"github.com/taskforge/todo-system/internal/core/ports"
)

// RBAC enforces the per-route role requirement. No principal in context
// (the gate saw no token) is 401; a principal whose roles do not intersect
// allowedRoles is 403. The two outcomes are deliberately distinct.
func RBAC(audit AuditSink, allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			roles, ok := c.Get(CtxRoles).([]string)
			if !ok {
				metrics.AccessDeniedTotal.WithLabelValues("unauthorized").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			for _, r := range roles {
				if _, has := allowed[r]; has {
					return next(c)
				}
			}

			username, _ := c.Get(CtxUsername).(string)
			metrics.AccessDeniedTotal.WithLabelValues("forbidden").Inc()
			if audit != nil {
				audit.Enqueue(ports.AuditEventInput{
					Subject:   username,
					Action:    domain.AuditAccessDenied,
					Outcome:   domain.AuditOutcomeFailure,
					Reason:    c.Request().Method + " " + c.Path(),
					Timestamp: time.Now().UTC(),
				})
			}
			return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
		}
	}
}

package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/taskforge/todo-system/internal/core/domain"
)

func invokeRBAC(handler echo.HandlerFunc, username string, roles []string) error {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/todos", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/todos")
	if username != "" {
		c.Set(CtxUsername, username)
	}
	if roles != nil {
		c.Set(CtxRoles, roles)
	}
	return handler(c)
}

func assertHTTPStatus(t *testing.T, err error, want int) {
	t.Helper()
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if httpErr.Code != want {
		t.Fatalf("expected status %d, got %d", want, httpErr.Code)
	}
}

func TestRBAC_AllowsMatchingRole(t *testing.T) {
	handler := RBAC(nil, domain.RoleAdmin)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	if err := invokeRBAC(handler, "root", []string{domain.RoleAdmin}); err != nil {
		t.Fatalf("admin should pass: %v", err)
	}
}

func TestRBAC_AllowsAnyOfSeveralRoles(t *testing.T) {
	handler := RBAC(nil, domain.RoleUser, domain.RoleAdmin)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	if err := invokeRBAC(handler, "alice", []string{domain.RoleUser}); err != nil {
		t.Fatalf("regular user should pass: %v", err)
	}
}

func TestRBAC_MissingRoleIsForbidden(t *testing.T) {
	audit := &captureAudit{}
	handler := RBAC(audit, domain.RoleAdmin)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	err := invokeRBAC(handler, "alice", []string{domain.RoleUser})
	assertHTTPStatus(t, err, http.StatusForbidden)

	if len(audit.events) != 1 {
		t.Fatalf("expected one audit event, got %d", len(audit.events))
	}
	event := audit.events[0]
	if event.Action != domain.AuditAccessDenied || event.Subject != "alice" {
		t.Fatalf("unexpected audit event: %+v", event)
	}
	if event.Reason != "POST /api/todos" {
		t.Fatalf("expected method and path in reason, got %q", event.Reason)
	}
}

func TestRBAC_NoPrincipalIsUnauthorized(t *testing.T) {
	handler := RBAC(nil, domain.RoleUser)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	err := invokeRBAC(handler, "", nil)
	assertHTTPStatus(t, err, http.StatusUnauthorized)
}

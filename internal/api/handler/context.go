package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taskforge/todo-system/internal/api/middleware"
)

// principal is the request-scoped identity established by the auth gate.
type principal struct {
	Username string
	Roles    []string
	TokenID  string
	TokenExp time.Time
}

// ctxPrincipal extracts the principal injected by the Auth middleware.
// A missing principal means the gate never authenticated this request;
// handlers behind RBAC should not see that, but fail closed anyway.
func ctxPrincipal(c echo.Context) (*principal, error) {
	username, _ := c.Get(middleware.CtxUsername).(string)
	if username == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	roles, _ := c.Get(middleware.CtxRoles).([]string)
	jti, _ := c.Get(middleware.CtxTokenID).(string)
	exp, _ := c.Get(middleware.CtxTokenExp).(time.Time)

	return &principal{Username: username, Roles: roles, TokenID: jti, TokenExp: exp}, nil
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskforge/todo-system/internal/api/metrics"
	"github.com/taskforge/todo-system/internal/core/ports"
)

// AuthHandler handles registration, login, and logout.
// Error-to-status mapping lives in the central HTTP error handler.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new user account with the regular-user role.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	msg, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusCreated, messageResponse{Message: msg})
}

// Login authenticates a user and returns a signed session token.
//
// @Summary      Login with username or email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	token, err := h.authService.Login(c.Request().Context(), req.UsernameOrEmail, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, loginResponse{AccessToken: token})
}

// Logout revokes the presented token for its remaining lifetime.
//
// @Summary      Logout and revoke the current token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	if err := h.authService.Logout(c.Request().Context(), p.Username, p.TokenID, p.TokenExp); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Logged out successfully"})
}

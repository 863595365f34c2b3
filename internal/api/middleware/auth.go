package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/taskforge/todo-system/internal/api/metrics"
	"github.com/taskforge/todo-system/internal/core/domain"
	"github.com/taskforge/todo-system/internal/core/ports"
	"github.com/taskforge/todo-system/internal/core/token"
)

// Context keys populated by Auth on successful validation.
const (
	CtxUsername = "username"
	CtxRoles    = "roles"
	CtxTokenID  = "jti"
	CtxTokenExp = "token_exp"
)

// RoleResolver loads the subject's current roles. Roles are re-resolved per
// request instead of being trusted from the token, so a role change or
// deleted account takes effect immediately.
type RoleResolver interface {
	RolesByUsername(ctx context.Context, username string) ([]string, error)
}

// RevocationChecker reports whether a token id has been denylisted.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AuditSink receives audit events without blocking the request.
type AuditSink interface {
	Enqueue(event ports.AuditEventInput)
}

// Auth is the request gate: it runs once per request ahead of routing in the
// protected group, validates the bearer token, and establishes the principal.
//
// A request with no Authorization header passes through unauthenticated; the
// RBAC layer rejects it unless the route is public. A request with a bad
// token is rejected here with a generic 401 — which of signature, expiry, or
// revocation failed is logged, never echoed. Any internal fault resolves to
// 401 as well: the gate fails closed, never authenticated.
func Auth(codec *token.Codec, roles RoleResolver, revoked RevocationChecker, audit AuditSink, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := establishPrincipal(c, codec, roles, revoked, audit, log); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// establishPrincipal performs the gate's own work: header parsing, token
// validation, revocation and role lookups, and context population. Its
// recovery covers only this function, so a panic in a downstream handler
// still reaches the global Recover middleware as a 500.
func establishPrincipal(c echo.Context, codec *token.Codec, roles RoleResolver, revoked RevocationChecker, audit AuditSink, log zerolog.Logger) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("auth gate panic")
			metrics.TokenValidationsTotal.WithLabelValues("error").Inc()
			err = echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
	}()

	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}

	claims, err := codec.Decode(parts[1])
	if err != nil {
		metrics.TokenValidationsTotal.WithLabelValues("invalid").Inc()
		recordRejection(audit, "", "decode failed")
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	ctx := c.Request().Context()

	isRevoked, err := revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		// Denylist unreachable: fail closed rather than honour a
		// possibly revoked token.
		log.Error().Err(err).Msg("revocation check failed")
		metrics.TokenValidationsTotal.WithLabelValues("error").Inc()
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	if isRevoked {
		metrics.TokenValidationsTotal.WithLabelValues("revoked").Inc()
		recordRejection(audit, claims.Subject, "token revoked")
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	roleSet, err := roles.RolesByUsername(ctx, claims.Subject)
	if err != nil {
		log.Warn().Err(err).Str("subject", claims.Subject).Msg("role resolution failed")
		metrics.TokenValidationsTotal.WithLabelValues("error").Inc()
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	c.Set(CtxUsername, claims.Subject)
	c.Set(CtxRoles, roleSet)
	c.Set(CtxTokenID, claims.ID)
	if claims.ExpiresAt != nil {
		c.Set(CtxTokenExp, claims.ExpiresAt.Time)
	} else {
		c.Set(CtxTokenExp, time.Time{})
	}

	metrics.TokenValidationsTotal.WithLabelValues("ok").Inc()
	return nil
}

func recordRejection(audit AuditSink, subject, reason string) {
	if audit == nil {
		return
	}
	audit.Enqueue(ports.AuditEventInput{
		Subject:   subject,
		Action:    domain.AuditTokenRejected,
		Outcome:   domain.AuditOutcomeFailure,
		Reason:    reason,
		Timestamp: time.Now().UTC(),
	})
}

package ports

import (
	"context"
	"time"
)

// RegisterInput carries everything needed to create an account.
type RegisterInput struct {
	Username string
	Email    string
	Name     string
	Password string
}

// AuthService defines the registration, login, and logout use cases.
type AuthService interface {
	// Register creates a user with the regular-user role and returns a
	// confirmation message. The stored password hash is never returned.
	Register(ctx context.Context, in RegisterInput) (string, error)
	// Login verifies credentials and returns a signed session token.
	// Unknown identifier and wrong password are indistinguishable to the
	// caller: both return domain.ErrInvalidCredentials.
	Login(ctx context.Context, usernameOrEmail, password string) (string, error)
	// Logout revokes the token with the given jti for its remaining lifetime.
	Logout(ctx context.Context, subject, jti string, expiresAt time.Time) error
}

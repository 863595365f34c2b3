package domain

import "errors"

// Sentinel errors shared across services, repositories, and the HTTP layer.
// The HTTP error handler maps each one to a deterministic status code.
var (
	// ErrUsernameExists and ErrEmailExists signal a uniqueness violation at
	// registration. They are raised both by the pre-insert probes and by the
	// store itself when the unique index rejects a racy concurrent insert.
	ErrUsernameExists = errors.New("username already exists")
	ErrEmailExists    = errors.New("email already exists")

	// ErrInvalidCredentials covers both an unknown identifier and a wrong
	// password. Login must return the same error for both so callers cannot
	// enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken covers every token rejection: bad signature, malformed
	// payload, expiry, revocation. The distinction is logged, never returned.
	ErrInvalidToken = errors.New("invalid token")

	// ErrForbidden is an authenticated principal lacking the required role.
	ErrForbidden = errors.New("access forbidden")

	ErrUserNotFound = errors.New("user not found")
	ErrTodoNotFound = errors.New("todo not found")

	// ErrRoleNotFound means the role reference data was never seeded.
	// A setup fault, not a client error.
	ErrRoleNotFound = errors.New("role not found")
)

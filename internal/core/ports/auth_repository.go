package ports

import (
	"context"

	"github.com/taskforge/todo-system/internal/core/domain"
)

// UserRepository defines persistence for user credentials and role data.
//
// The existence probes are advisory only: Save must still fail with
// domain.ErrUsernameExists / domain.ErrEmailExists when a concurrent insert
// wins the race, which the store enforces with unique indexes.
type UserRepository interface {
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// FindRoleByName resolves seeded role reference data.
	// Returns domain.ErrRoleNotFound when the role was never seeded.
	FindRoleByName(ctx context.Context, name string) (*domain.Role, error)
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	// FindByUsernameOrEmail resolves the login identifier against either
	// unique column. Returns domain.ErrUserNotFound when no row matches.
	FindByUsernameOrEmail(ctx context.Context, identifier string) (*domain.User, error)
	// RolesByUsername returns the user's current role set. The request gate
	// calls this on every authenticated request so role changes take effect
	// without waiting for token expiry.
	RolesByUsername(ctx context.Context, username string) ([]string, error)
}

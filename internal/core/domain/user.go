package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User models an authenticated actor in the system.
// PasswordHash is never serialized and never empty after registration.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	PasswordHash string    `json:"-"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Role is a named permission label. Roles are reference data seeded at
// startup; exactly two exist: RoleUser and RoleAdmin.
type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

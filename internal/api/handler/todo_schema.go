package handler

import "time"

type todoRequest struct {
	Title       string `json:"title"       validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Completed   bool   `json:"completed"`
}

// todoResponse is the transport view of a todo item, intentionally separate
// from the domain type so the JSON contract is not coupled to internal
// changes.
type todoResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type todoListResponse struct {
	Data []todoResponse `json:"data"`
}

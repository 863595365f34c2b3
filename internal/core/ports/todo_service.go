package ports

import (
	"context"

	"github.com/taskforge/todo-system/internal/core/domain"
)

// TodoInput carries the writable fields of a todo item.
type TodoInput struct {
	Title       string
	Description string
	Completed   bool
}

// TodoService defines use-case operations for todo items.
type TodoService interface {
	Add(ctx context.Context, in TodoInput) (*domain.Todo, error)
	Get(ctx context.Context, id string) (*domain.Todo, error)
	List(ctx context.Context) ([]*domain.Todo, error)
	Update(ctx context.Context, id string, in TodoInput) (*domain.Todo, error)
	Delete(ctx context.Context, id string) error
	// Complete and Incomplete toggle the completion flag without touching
	// the other fields.
	Complete(ctx context.Context, id string) (*domain.Todo, error)
	Incomplete(ctx context.Context, id string) (*domain.Todo, error)
}

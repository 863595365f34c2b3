package ports

import (
	"context"

	"github.com/taskforge/todo-system/internal/core/domain"
)

// TodoRepository defines persistence operations for todo items.
// Lookups by an unknown id return domain.ErrTodoNotFound.
type TodoRepository interface {
	Create(ctx context.Context, todo *domain.Todo) (*domain.Todo, error)
	FindByID(ctx context.Context, id string) (*domain.Todo, error)
	FindAll(ctx context.Context) ([]*domain.Todo, error)
	Update(ctx context.Context, todo *domain.Todo) (*domain.Todo, error)
	Delete(ctx context.Context, id string) error
}

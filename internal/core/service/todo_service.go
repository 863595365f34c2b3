package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskforge/todo-system/internal/core/domain"
	"github.com/taskforge/todo-system/internal/core/ports"
)

// TodoService implements the todo CRUD use cases. Role enforcement happens
// upstream in the middleware chain; by the time a call lands here the
// authorization decision is already made.
type TodoService struct {
	repo ports.TodoRepository
	log  zerolog.Logger
}

func NewTodoService(repo ports.TodoRepository, log zerolog.Logger) *TodoService {
	return &TodoService{repo: repo, log: log}
}

func (s *TodoService) Add(ctx context.Context, in ports.TodoInput) (*domain.Todo, error) {
	now := time.Now().UTC()
	todo := &domain.Todo{
		Title:       in.Title,
		Description: in.Description,
		Completed:   in.Completed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, todo)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create todo")
		return nil, err
	}

	s.log.Info().Str("todo_id", created.ID).Msg("todo created")
	return created, nil
}

func (s *TodoService) Get(ctx context.Context, id string) (*domain.Todo, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *TodoService) List(ctx context.Context) ([]*domain.Todo, error) {
	return s.repo.FindAll(ctx)
}

func (s *TodoService) Update(ctx context.Context, id string, in ports.TodoInput) (*domain.Todo, error) {
	todo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	todo.Title = in.Title
	todo.Description = in.Description
	todo.Completed = in.Completed
	todo.UpdatedAt = time.Now().UTC()

	return s.repo.Update(ctx, todo)
}

func (s *TodoService) Delete(ctx context.Context, id string) error {
	// Resolve first so a missing id reports 404 rather than a silent no-op.
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("todo_id", id).Msg("todo deleted")
	return nil
}

func (s *TodoService) Complete(ctx context.Context, id string) (*domain.Todo, error) {
	return s.setCompleted(ctx, id, true)
}

func (s *TodoService) Incomplete(ctx context.Context, id string) (*domain.Todo, error) {
	return s.setCompleted(ctx, id, false)
}

func (s *TodoService) setCompleted(ctx context.Context, id string, completed bool) (*domain.Todo, error) {
	todo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	todo.Completed = completed
	todo.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, todo)
}

package handler

import (
	"github.com/taskforge/todo-system/internal/core/domain"
	"github.com/taskforge/todo-system/internal/core/ports"
)

func toTodoInput(req todoRequest) ports.TodoInput {
	return ports.TodoInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}
}

func toTodoResponse(t *domain.Todo) todoResponse {
	return todoResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt.UTC(),
		UpdatedAt:   t.UpdatedAt.UTC(),
	}
}

func toTodoListResponse(todos []*domain.Todo) todoListResponse {
	items := make([]todoResponse, 0, len(todos))
	for _, t := range todos {
		items = append(items, toTodoResponse(t))
	}
	return todoListResponse{Data: items}
}

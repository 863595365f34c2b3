package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taskforge/todo-system/internal/core/domain"
	"github.com/taskforge/todo-system/internal/core/ports"
)

type stubTodoService struct {
	todo *domain.Todo
	list []*domain.Todo
	err  error

	lastID    string
	lastInput ports.TodoInput
	deleted   string
}

func (s *stubTodoService) Add(_ context.Context, in ports.TodoInput) (*domain.Todo, error) {
	s.lastInput = in
	return s.todo, s.err
}

func (s *stubTodoService) Get(_ context.Context, id string) (*domain.Todo, error) {
	s.lastID = id
	return s.todo, s.err
}

func (s *stubTodoService) List(_ context.Context) ([]*domain.Todo, error) {
	return s.list, s.err
}

func (s *stubTodoService) Update(_ context.Context, id string, in ports.TodoInput) (*domain.Todo, error) {
	s.lastID = id
	s.lastInput = in
	return s.todo, s.err
}

func (s *stubTodoService) Delete(_ context.Context, id string) error {
	s.deleted = id
	return s.err
}

func (s *stubTodoService) Complete(_ context.Context, id string) (*domain.Todo, error) {
	s.lastID = id
	return s.todo, s.err
}

func (s *stubTodoService) Incomplete(_ context.Context, id string) (*domain.Todo, error) {
	s.lastID = id
	return s.todo, s.err
}

func sampleTodo() *domain.Todo {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Todo{
		ID:          "64f1c2d3e4a5b6c7d8e9f0a1",
		Title:       "write report",
		Description: "quarterly numbers",
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestTodoHandler_Add(t *testing.T) {
	svc := &stubTodoService{todo: sampleTodo()}
	h := NewTodoHandler(svc)

	c, rec := newJSONContext(http.MethodPost, "/api/todos",
		`{"title":"write report","description":"quarterly numbers"}`)

	if err := h.Add(c); err != nil {
		t.Fatalf("add: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp todoResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID != "64f1c2d3e4a5b6c7d8e9f0a1" || resp.Title != "write report" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if svc.lastInput.Title != "write report" || svc.lastInput.Description != "quarterly numbers" {
		t.Fatalf("input not forwarded: %+v", svc.lastInput)
	}
}

func TestTodoHandler_Add_MissingTitle(t *testing.T) {
	h := NewTodoHandler(&stubTodoService{})

	c, _ := newJSONContext(http.MethodPost, "/api/todos", `{"description":"no title"}`)
	err := h.Add(c)

	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
}

func TestTodoHandler_Get(t *testing.T) {
	svc := &stubTodoService{todo: sampleTodo()}
	h := NewTodoHandler(svc)

	c, rec := newJSONContext(http.MethodGet, "/", "")
	c.SetPath("/api/todos/:id")
	c.SetParamNames("id")
	c.SetParamValues("64f1c2d3e4a5b6c7d8e9f0a1")

	if err := h.Get(c); err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.lastID != "64f1c2d3e4a5b6c7d8e9f0a1" {
		t.Fatalf("id not forwarded: %q", svc.lastID)
	}
}

func TestTodoHandler_Get_NotFoundPassesThrough(t *testing.T) {
	svc := &stubTodoService{err: domain.ErrTodoNotFound}
	h := NewTodoHandler(svc)

	c, _ := newJSONContext(http.MethodGet, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("missing")

	if err := h.Get(c); !errors.Is(err, domain.ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound to pass through, got %v", err)
	}
}

func TestTodoHandler_List(t *testing.T) {
	svc := &stubTodoService{list: []*domain.Todo{sampleTodo(), sampleTodo()}}
	h := NewTodoHandler(svc)

	c, rec := newJSONContext(http.MethodGet, "/api/todos", "")

	if err := h.List(c); err != nil {
		t.Fatalf("list: %v", err)
	}

	var resp todoListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("expected 2 todos, got %d", len(resp.Data))
	}
}

func TestTodoHandler_List_Empty(t *testing.T) {
	h := NewTodoHandler(&stubTodoService{})

	c, rec := newJSONContext(http.MethodGet, "/api/todos", "")

	if err := h.List(c); err != nil {
		t.Fatalf("list: %v", err)
	}

	var resp todoListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data == nil {
		t.Fatalf("expected empty array, got null")
	}
}

func TestTodoHandler_Update(t *testing.T) {
	updated := sampleTodo()
	updated.Title = "revised report"
	svc := &stubTodoService{todo: updated}
	h := NewTodoHandler(svc)

	c, rec := newJSONContext(http.MethodPut, "/", `{"title":"revised report","completed":true}`)
	c.SetParamNames("id")
	c.SetParamValues(updated.ID)

	if err := h.Update(c); err != nil {
		t.Fatalf("update: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.lastID != updated.ID || svc.lastInput.Title != "revised report" || !svc.lastInput.Completed {
		t.Fatalf("input not forwarded: id=%q in=%+v", svc.lastID, svc.lastInput)
	}
}

func TestTodoHandler_Delete(t *testing.T) {
	svc := &stubTodoService{}
	h := NewTodoHandler(svc)

	c, rec := newJSONContext(http.MethodDelete, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("64f1c2d3e4a5b6c7d8e9f0a1")

	if err := h.Delete(c); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.deleted != "64f1c2d3e4a5b6c7d8e9f0a1" {
		t.Fatalf("id not forwarded: %q", svc.deleted)
	}

	var resp messageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Message != "Todo deleted successfully" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
}

func TestTodoHandler_CompleteAndIncomplete(t *testing.T) {
	done := sampleTodo()
	done.Completed = true
	svc := &stubTodoService{todo: done}
	h := NewTodoHandler(svc)

	c, rec := newJSONContext(http.MethodPatch, "/", "")
	c.SetParamNames("id")
	c.SetParamValues(done.ID)

	if err := h.Complete(c); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp todoResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Completed {
		t.Fatalf("expected completed true in response")
	}

	svc.todo = sampleTodo()
	c2, rec2 := newJSONContext(http.MethodPatch, "/", "")
	c2.SetParamNames("id")
	c2.SetParamValues(svc.todo.ID)

	if err := h.Incomplete(c2); err != nil {
		t.Fatalf("incomplete: %v", err)
	}
	if rec2.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec2.Code)
	}
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskforge/todo-system/internal/api/metrics"
	"github.com/taskforge/todo-system/internal/core/ports"
)

// TodoHandler handles HTTP requests for todo operations. Role enforcement is
// done by the middleware chain; handlers only translate between HTTP and the
// service layer.
type TodoHandler struct {
	service ports.TodoService
}

func NewTodoHandler(service ports.TodoService) *TodoHandler {
	return &TodoHandler{service: service}
}

// Add handles POST /api/todos (admin only).
//
// @Summary      Create a new todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      todoRequest  true  "Todo details"
// @Success      201   {object}  todoResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/todos [post]
func (h *TodoHandler) Add(c echo.Context) error {
	var req todoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	todo, err := h.service.Add(c.Request().Context(), toTodoInput(req))
	if err != nil {
		return err
	}

	metrics.TodoOpsTotal.WithLabelValues("add").Inc()
	return c.JSON(http.StatusCreated, toTodoResponse(todo))
}

// Get handles GET /api/todos/:id.
//
// @Summary      Get a todo by id
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Todo id"
// @Success      200  {object}  todoResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/todos/{id} [get]
func (h *TodoHandler) Get(c echo.Context) error {
	todo, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTodoResponse(todo))
}

// List handles GET /api/todos.
//
// @Summary      List all todos
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  todoListResponse
// @Router       /api/todos [get]
func (h *TodoHandler) List(c echo.Context) error {
	todos, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTodoListResponse(todos))
}

// Update handles PUT /api/todos/:id (admin only).
//
// @Summary      Update a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Todo id"
// @Param        body  body      todoRequest  true  "Updated fields"
// @Success      200   {object}  todoResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/todos/{id} [put]
func (h *TodoHandler) Update(c echo.Context) error {
	var req todoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	todo, err := h.service.Update(c.Request().Context(), c.Param("id"), toTodoInput(req))
	if err != nil {
		return err
	}

	metrics.TodoOpsTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, toTodoResponse(todo))
}

// Delete handles DELETE /api/todos/:id (admin only).
//
// @Summary      Delete a todo
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Todo id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/todos/{id} [delete]
func (h *TodoHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}

	metrics.TodoOpsTotal.WithLabelValues("delete").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Todo deleted successfully"})
}

// Complete handles PATCH /api/todos/:id/complete.
//
// @Summary      Mark a todo as completed
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Todo id"
// @Success      200  {object}  todoResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/todos/{id}/complete [patch]
func (h *TodoHandler) Complete(c echo.Context) error {
	todo, err := h.service.Complete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	metrics.TodoOpsTotal.WithLabelValues("complete").Inc()
	return c.JSON(http.StatusOK, toTodoResponse(todo))
}

// Incomplete handles PATCH /api/todos/:id/in-complete.
//
// @Summary      Mark a todo as not completed
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Todo id"
// @Success      200  {object}  todoResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/todos/{id}/in-complete [patch]
func (h *TodoHandler) Incomplete(c echo.Context) error {
	todo, err := h.service.Incomplete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	metrics.TodoOpsTotal.WithLabelValues("incomplete").Inc()
	return c.JSON(http.StatusOK, toTodoResponse(todo))
}

package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taskforge/todo-system/internal/core/domain"
	"github.com/taskforge/todo-system/internal/core/ports"
)

// AuditHandler exposes the security audit trail to administrators.
type AuditHandler struct {
	service ports.AuditService
}

func NewAuditHandler(service ports.AuditService) *AuditHandler {
	return &AuditHandler{service: service}
}

type auditEventResponse struct {
	ID        string    `json:"id"`
	Subject   string    `json:"subject"`
	Action    string    `json:"action"`
	Outcome   string    `json:"outcome"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type auditListResponse struct {
	Data []auditEventResponse `json:"data"`
}

// List handles GET /api/audit/events (admin only).
//
// @Summary      List recent authentication audit events
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Maximum events to return"
// @Success      200    {object}  auditListResponse
// @Failure      401    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Router       /api/audit/events [get]
func (h *AuditHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	events, err := h.service.Recent(c.Request().Context(), limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load audit events")
	}

	return c.JSON(http.StatusOK, toAuditListResponse(events))
}

func toAuditListResponse(events []*domain.AuditEvent) auditListResponse {
	items := make([]auditEventResponse, 0, len(events))
	for _, e := range events {
		items = append(items, auditEventResponse{
			ID:        e.ID,
			Subject:   e.Subject,
			Action:    string(e.Action),
			Outcome:   e.Outcome,
			Reason:    e.Reason,
			Timestamp: e.Timestamp,
		})
	}
	return auditListResponse{Data: items}
}

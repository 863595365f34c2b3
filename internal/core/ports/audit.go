package ports

import (
	"context"
	"time"

	"github.com/taskforge/todo-system/internal/core/domain"
)

// AuditEventInput is the wire-in shape handed to the audit dispatcher.
type AuditEventInput struct {
	Subject   string
	Action    domain.AuditAction
	Outcome   string
	Reason    string
	Timestamp time.Time
}

// AuditService persists audit events (called from dispatcher workers) and
// exposes the read path for the admin endpoint.
type AuditService interface {
	Process(ctx context.Context, in AuditEventInput) error
	Recent(ctx context.Context, limit int) ([]*domain.AuditEvent, error)
}

// AuditRepository defines persistence for the audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
	// FindRecent returns up to limit events, newest first.
	FindRecent(ctx context.Context, limit int) ([]*domain.AuditEvent, error)
}

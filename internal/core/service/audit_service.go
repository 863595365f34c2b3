package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/taskforge/todo-system/internal/core/domain"
	"github.com/taskforge/todo-system/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService that persists events to the store.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Process persists a single audit event. Called from dispatcher workers, so
// a failure here never reaches a request path.
func (s *auditService) Process(ctx context.Context, in ports.AuditEventInput) error {
	event := &domain.AuditEvent{
		Subject:   in.Subject,
		Action:    in.Action,
		Outcome:   in.Outcome,
		Reason:    in.Reason,
		Timestamp: in.Timestamp,
	}

	if err := s.repo.Insert(ctx, event); err != nil {
		return fmt.Errorf("audit insert: %w", err)
	}

	s.log.Debug().
		Str("subject", in.Subject).
		Str("action", string(in.Action)).
		Str("outcome", in.Outcome).
		Msg("audit event recorded")

	return nil
}

const maxAuditPage = 200

// Recent returns up to limit events, newest first. The limit is clamped to
// keep the admin endpoint from dragging the whole collection over the wire.
func (s *auditService) Recent(ctx context.Context, limit int) ([]*domain.AuditEvent, error) {
	if limit <= 0 || limit > maxAuditPage {
		limit = maxAuditPage
	}
	return s.repo.FindRecent(ctx, limit)
}

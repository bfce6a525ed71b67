package service

import (
	"context"

	"github.com/spec-kit/case-portal/internal/domain"
	"github.com/spec-kit/case-portal/internal/events"
	"github.com/spec-kit/case-portal/internal/repository"
)

// auditedEvents lists every event type persisted to the audit trail.
var auditedEvents = []events.EventType{
	events.EventUserRegistered,
	events.EventUserLoggedIn,
	events.EventCaseCreated,
	events.EventCaseStatusUpdated,
	events.EventAccessRequested,
	events.EventAccessApproved,
	events.EventAccessDenied,
	events.EventMessageSent,
	events.EventReportSubmitted,
	events.EventReportStatusUpdated,
	events.EventAdminGranted,
}

// AuditService writes engine events to the append-only audit trail. The
// dispatcher is synchronous, so a failed write propagates to the operation
// that emitted the event.
type AuditService struct {
	audits repository.AuditRepository
}

// NewAuditService builds the service.
func NewAuditService(audits repository.AuditRepository) *AuditService {
	return &AuditService{audits: audits}
}

// RegisterHandlers subscribes the audit writer to all audited event types.
func (s *AuditService) RegisterHandlers(dispatcher events.Dispatcher) {
	for _, eventType := range auditedEvents {
		dispatcher.Subscribe(eventType, s.record)
	}
}

// ListRecent returns the newest audit entries for the admin review page.
func (s *AuditService) ListRecent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	return s.audits.ListRecent(ctx, limit)
}

func (s *AuditService) record(ctx context.Context, event events.Event) error {
	entry := &domain.AuditEntry{
		ActorUserID: event.ActorUserID,
		Action:      string(event.Type),
		TargetType:  event.TargetType,
		TargetID:    event.TargetID,
		Meta:        event.Meta,
	}
	return s.audits.Create(ctx, entry)
}

package dto

import (
	"time"

	"github.com/spec-kit/case-portal/internal/domain"
)

// AuditEntryResponse is one row of the admin audit trail, with the actor's
// account joined in for display.
type AuditEntryResponse struct {
	ID          string         `json:"id"`
	ActorUserID string         `json:"actor_user_id"`
	ActorName   *string        `json:"actor_name,omitempty"`
	ActorEmail  *string        `json:"actor_email,omitempty"`
	Action      string         `json:"action"`
	TargetType  string         `json:"target_type"`
	TargetID    *string        `json:"target_id,omitempty"`
	Meta        map[string]any `json:"meta,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// NewAuditEntryResponses maps a slice of audit entries.
func NewAuditEntryResponses(entries []domain.AuditEntry) []AuditEntryResponse {
	out := make([]AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, AuditEntryResponse{
			ID:          e.ID,
			ActorUserID: e.ActorUserID,
			ActorName:   e.ActorName,
			ActorEmail:  e.ActorEmail,
			Action:      e.Action,
			TargetType:  e.TargetType,
			TargetID:    e.TargetID,
			Meta:        e.Meta,
			CreatedAt:   e.CreatedAt,
		})
	}
	return out
}

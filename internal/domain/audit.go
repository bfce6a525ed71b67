package domain

import "time"

// AuditEntry is an append-only record of a portal action.
type AuditEntry struct {
	ID          string
	ActorUserID string
	Action      string
	TargetType  string
	TargetID    *string
	Meta        map[string]any
	CreatedAt   time.Time

	// joined for admin listing
	ActorName  *string
	ActorEmail *string
}

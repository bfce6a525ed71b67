package events

import "time"

// EventType enumerates supported event identifiers. Every type currently
// feeds the audit trail; the names double as audit action values.
type EventType string

const (
	EventUserRegistered      EventType = "register"
	EventUserLoggedIn        EventType = "login"
	EventCaseCreated         EventType = "create_case"
	EventCaseStatusUpdated   EventType = "update_status"
	EventAccessRequested     EventType = "submit_access_request"
	EventAccessApproved      EventType = "approve_access"
	EventAccessDenied        EventType = "deny_access"
	EventMessageSent         EventType = "send_message"
	EventReportSubmitted     EventType = "submit_report"
	EventReportStatusUpdated EventType = "update_report_status"
	EventAdminGranted        EventType = "grant_admin"
)

// Event represents a portal action emitted by the engine services.
type Event struct {
	ID          string         `json:"id"`
	Type        EventType      `json:"type"`
	ActorUserID string         `json:"actor_user_id"`
	TargetType  string         `json:"target_type"`
	TargetID    *string        `json:"target_id,omitempty"`
	Meta        map[string]any `json:"meta,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
}

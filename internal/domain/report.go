package domain

import "time"

// ReportStatus enumerates moderation states for incident reports.
type ReportStatus string

const (
	ReportStatusReceived  ReportStatus = "received"
	ReportStatusReviewing ReportStatus = "reviewing"
	ReportStatusClosed    ReportStatus = "closed"
)

// Report is a citizen-submitted incident report. Ref is the human-readable
// identifier in the form REP-<year>-<6-digit-sequence>.
type Report struct {
	ID               string
	Ref              string
	UserID           string
	RelatedCaseID    *string
	ReportType       string
	LocationTag      *string
	IncidentDatetime *time.Time
	Description      string
	Status           ReportStatus
	CreatedAt        time.Time
}

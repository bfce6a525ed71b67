package domain

import "time"

// CaseStatus enumerates the known case states. Status updates are an
// unconditional overwrite; no transition order is enforced.
type CaseStatus string

const (
	CaseStatusOpen        CaseStatus = "Open"
	CaseStatusUnderReview CaseStatus = "Under Review"
	CaseStatusEscalated   CaseStatus = "Escalated"
	CaseStatusClosed      CaseStatus = "Closed"
)

// Case is the primary tracked record of the portal. PublicID is the
// human-readable identifier in the form ICE-<year>-<6-digit-sequence>.
type Case struct {
	ID              string
	PublicID        string
	Title           string
	Category        string
	LocationTag     *string
	Status          CaseStatus
	PersonName      string
	PersonPhotoURL  *string
	ReasonSummary   *string
	SummaryPublic   *string
	SummaryInternal *string
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsClosed reports whether messaging is restricted to admins.
func (c *Case) IsClosed() bool {
	return c.Status == CaseStatusClosed
}

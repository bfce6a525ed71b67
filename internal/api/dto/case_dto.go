package dto

import (
	"time"

	"github.com/spec-kit/case-portal/internal/domain"
)

// CreateCaseRequest payload.
type CreateCaseRequest struct {
	Title           string            `json:"title"`
	Category        string            `json:"category"`
	LocationTag     *string           `json:"location_tag"`
	Status          domain.CaseStatus `json:"status"`
	PersonName      string            `json:"person_name"`
	PersonPhotoURL  *string           `json:"person_photo_url"`
	ReasonSummary   *string           `json:"reason_summary"`
	SummaryPublic   *string           `json:"summary_public"`
	SummaryInternal *string           `json:"summary_internal"`
}

// UpdateCaseStatusRequest payload.
type UpdateCaseStatusRequest struct {
	Status domain.CaseStatus `json:"status"`
}

// PublicCaseResponse is the unauthenticated lookup projection. The internal
// summary never appears here.
type PublicCaseResponse struct {
	Found         bool               `json:"found"`
	CaseID        string             `json:"case_id,omitempty"`
	Status        domain.CaseStatus  `json:"status,omitempty"`
	LocationTag   *string            `json:"location_tag,omitempty"`
	SummaryPublic *string            `json:"summary_public,omitempty"`
	CanChat       bool               `json:"can_chat,omitempty"`
}

// CaseDetailResponse is the authenticated case view. SummaryInternal is
// populated for admin requesters only.
type CaseDetailResponse struct {
	ID              string            `json:"id"`
	CaseID          string            `json:"case_id"`
	Title           string            `json:"title"`
	Category        string            `json:"category"`
	LocationTag     *string           `json:"location_tag"`
	Status          domain.CaseStatus `json:"status"`
	PersonName      string            `json:"person_name"`
	PersonPhotoURL  *string           `json:"person_photo_url"`
	ReasonSummary   *string           `json:"reason_summary"`
	SummaryPublic   *string           `json:"summary_public"`
	SummaryInternal *string           `json:"summary_internal,omitempty"`
	Joined          bool              `json:"joined"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// CaseSummary is the admin index row.
type CaseSummary struct {
	ID        string            `json:"id"`
	CaseID    string            `json:"case_id"`
	Title     string            `json:"title"`
	Category  string            `json:"category"`
	Status    domain.CaseStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

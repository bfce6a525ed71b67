package dto

import (
	"time"

	"github.com/spec-kit/case-portal/internal/domain"
)

// SubmitAccessRequestRequest payload. Note is optional context for the
// reviewer.
type SubmitAccessRequestRequest struct {
	Note string `json:"note"`
}

// AccessRequestResponse mirrors a ledger entry.
type AccessRequestResponse struct {
	ID         string                     `json:"id"`
	CaseID     string                     `json:"case_id"`
	UserID     string                     `json:"user_id"`
	Status     domain.AccessRequestStatus `json:"status"`
	Note       *string                    `json:"note,omitempty"`
	ReviewedBy *string                    `json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time                 `json:"reviewed_at,omitempty"`
	CreatedAt  time.Time                  `json:"created_at"`
}

// NewAccessRequestResponse maps a ledger entry.
func NewAccessRequestResponse(r domain.AccessRequest) AccessRequestResponse {
	return AccessRequestResponse{
		ID:         r.ID,
		CaseID:     r.CaseID,
		UserID:     r.UserID,
		Status:     r.Status,
		Note:       r.Note,
		ReviewedBy: r.ReviewedBy,
		ReviewedAt: r.ReviewedAt,
		CreatedAt:  r.CreatedAt,
	}
}

// NewAccessRequestResponses maps a slice, never returning nil so the JSON
// encoding stays an array.
func NewAccessRequestResponses(rs []domain.AccessRequest) []AccessRequestResponse {
	out := make([]AccessRequestResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, NewAccessRequestResponse(r))
	}
	return out
}

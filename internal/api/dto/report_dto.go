package dto

import (
	"time"

	"github.com/spec-kit/case-portal/internal/domain"
)

// CreateReportRequest payload. RelatedCaseID is the public case id and is
// dropped silently when it does not resolve.
type CreateReportRequest struct {
	ReportType       string     `json:"report_type"`
	Description      string     `json:"description"`
	LocationTag      string     `json:"location_tag"`
	IncidentDatetime *time.Time `json:"incident_datetime"`
	RelatedCaseID    string     `json:"related_case_id"`
	Consent          bool       `json:"consent"`
}

// UpdateReportStatusRequest payload.
type UpdateReportStatusRequest struct {
	Status domain.ReportStatus `json:"status"`
}

// ReportResponse mirrors a stored incident report.
type ReportResponse struct {
	ID               string              `json:"id"`
	Ref              string              `json:"ref"`
	UserID           string              `json:"user_id"`
	RelatedCaseID    *string             `json:"related_case_id,omitempty"`
	ReportType       string              `json:"report_type"`
	LocationTag      *string             `json:"location_tag,omitempty"`
	IncidentDatetime *time.Time          `json:"incident_datetime,omitempty"`
	Description      string              `json:"description"`
	Status           domain.ReportStatus `json:"status"`
	CreatedAt        time.Time           `json:"created_at"`
}

// NewReportResponse maps a report.
func NewReportResponse(r domain.Report) ReportResponse {
	return ReportResponse{
		ID:               r.ID,
		Ref:              r.Ref,
		UserID:           r.UserID,
		RelatedCaseID:    r.RelatedCaseID,
		ReportType:       r.ReportType,
		LocationTag:      r.LocationTag,
		IncidentDatetime: r.IncidentDatetime,
		Description:      r.Description,
		Status:           r.Status,
		CreatedAt:        r.CreatedAt,
	}
}

// NewReportResponses maps a slice.
func NewReportResponses(rs []domain.Report) []ReportResponse {
	out := make([]ReportResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, NewReportResponse(r))
	}
	return out
}

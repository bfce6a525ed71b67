package handlers

import (
	"github.com/spec-kit/case-portal/internal/api/dto"
	"github.com/spec-kit/case-portal/internal/domain"
)

func userResponse(u *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

func caseDetail(c *domain.Case, joined, includeInternal bool) dto.CaseDetailResponse {
	resp := dto.CaseDetailResponse{
		ID:             c.ID,
		CaseID:         c.PublicID,
		Title:          c.Title,
		Category:       c.Category,
		LocationTag:    c.LocationTag,
		Status:         c.Status,
		PersonName:     c.PersonName,
		PersonPhotoURL: c.PersonPhotoURL,
		ReasonSummary:  c.ReasonSummary,
		SummaryPublic:  c.SummaryPublic,
		Joined:         joined,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
	if includeInternal {
		resp.SummaryInternal = c.SummaryInternal
	}
	return resp
}

func caseSummary(c *domain.Case) dto.CaseSummary {
	return dto.CaseSummary{
		ID:        c.ID,
		CaseID:    c.PublicID,
		Title:     c.Title,
		Category:  c.Category,
		Status:    c.Status,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func messageResponse(m *domain.Message) dto.MessageResponse {
	resp := dto.MessageResponse{
		ID:             m.ID,
		SenderUserID:   m.SenderUserID,
		SenderName:     m.SenderName,
		SenderRole:     m.SenderRole,
		Body:           m.Body,
		IsInternalNote: m.IsInternalNote,
		CreatedAt:      m.CreatedAt,
	}
	if m.Attachment != nil {
		resp.Attachment = &dto.AttachmentResponse{
			ID:       m.Attachment.ID,
			FileURL:  m.Attachment.FileURL,
			FileName: m.Attachment.FileName,
			MimeType: m.Attachment.MimeType,
		}
	}
	return resp
}

package dto

import (
	"time"

	"github.com/spec-kit/case-portal/internal/domain"
)

// CreateMessageRequest payload.
type CreateMessageRequest struct {
	Body       string             `json:"body"`
	IsInternal bool               `json:"is_internal"`
	Attachment *AttachmentRequest `json:"attachment"`
}

// AttachmentRequest is the stored image reference; upload happens elsewhere.
type AttachmentRequest struct {
	FileURL  string `json:"file_url"`
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
}

// MessageResponse represents one timeline entry.
type MessageResponse struct {
	ID             string              `json:"id"`
	SenderUserID   *string             `json:"sender_user_id"`
	SenderName     *string             `json:"sender_name"`
	SenderRole     domain.Role         `json:"sender_role"`
	Body           string              `json:"body"`
	IsInternalNote bool                `json:"is_internal_note"`
	Attachment     *AttachmentResponse `json:"attachment,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
}

// AttachmentResponse metadata.
type AttachmentResponse struct {
	ID       string `json:"id"`
	FileURL  string `json:"file_url"`
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
}

// MessageListResponse is the polling payload: the thread plus enough case
// context for the client to re-render its header.
type MessageListResponse struct {
	CaseID     string            `json:"case_id"`
	CaseStatus domain.CaseStatus `json:"case_status"`
	Messages   []MessageResponse `json:"messages"`
}

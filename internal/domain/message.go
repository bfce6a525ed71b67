package domain

import "time"

// AttachmentPlaceholder is stored as the body when a message carries only an
// image.
const AttachmentPlaceholder = "[Image attachment]"

// Message is one entry in a case's append-only timeline. SenderUserID is nil
// for system-generated rows. SenderRole is a snapshot taken at send time.
type Message struct {
	ID             string
	CaseID         string
	SenderUserID   *string
	SenderName     *string
	SenderRole     Role
	Body           string
	IsInternalNote bool
	Attachment     *Attachment
	CreatedAt      time.Time
}

// Attachment is a single image reference owned by exactly one message,
// immutable once created. Upload mechanics live elsewhere; only the
// reference is stored.
type Attachment struct {
	ID        string
	MessageID string
	FileURL   string
	FileName  string
	MimeType  string
	CreatedAt time.Time
}

package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/case-portal/internal/domain"
	"github.com/spec-kit/case-portal/internal/events"
	"github.com/spec-kit/case-portal/internal/repository"
	apperrors "github.com/spec-kit/case-portal/pkg/util"
)

// MessageService owns the append-only per-case message timeline and its
// posting rules.
type MessageService struct {
	messages     repository.MessageRepository
	participants repository.ParticipantRepository
	cases        repository.CaseRepository
	dispatcher   events.Dispatcher
}

// AttachmentInput defines the image reference accompanying a message.
// Upload mechanics are handled elsewhere; only the reference is stored.
type AttachmentInput struct {
	FileURL  string
	FileName string
	MimeType string
}

// NewMessageService constructs the service.
func NewMessageService(
	messages repository.MessageRepository,
	participants repository.ParticipantRepository,
	cases repository.CaseRepository,
	dispatcher events.Dispatcher,
) *MessageService {
	return &MessageService{
		messages:     messages,
		participants: participants,
		cases:        cases,
		dispatcher:   dispatcher,
	}
}

// Post appends a message to a case's timeline. Preconditions are checked in
// a fixed order and the first failure wins:
//  1. the case must exist;
//  2. a closed case rejects non-admin senders;
//  3. internal notes require the admin role;
//  4. admins only reply, never initiate: the case needs a participant;
//  5. non-admin senders must be participants;
//  6. body and attachment cannot both be empty.
func (s *MessageService) Post(ctx context.Context, sender *domain.User, casePublicID string, body string, isInternal bool, attachment *AttachmentInput) (*domain.Message, error) {
	c, err := s.cases.GetByPublicID(ctx, casePublicID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("case", nil)
		}
		return nil, err
	}

	if c.IsClosed() && !sender.IsAdmin() {
		return nil, apperrors.NewInvalidState("cannot send messages on a closed case", nil)
	}
	if isInternal && !sender.IsAdmin() {
		return nil, apperrors.NewForbidden("only administrators can post internal notes")
	}

	if sender.IsAdmin() {
		count, err := s.participants.CountByCase(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, apperrors.NewInvalidState("cannot reply until this case has at least one participant", nil)
		}
	} else {
		isParticipant, err := s.participants.Exists(ctx, c.ID, sender.ID)
		if err != nil {
			return nil, err
		}
		if !isParticipant {
			return nil, apperrors.NewForbidden("access denied")
		}
	}

	body = strings.TrimSpace(body)
	if body == "" && attachment == nil {
		return nil, apperrors.NewValidationError("message cannot be empty; add text or an image", nil)
	}
	if body == "" {
		body = domain.AttachmentPlaceholder
	}

	senderID := sender.ID
	msg := &domain.Message{
		CaseID:         c.ID,
		SenderUserID:   &senderID,
		SenderRole:     sender.Role,
		Body:           body,
		IsInternalNote: isInternal,
	}

	var att *domain.Attachment
	if attachment != nil {
		att = &domain.Attachment{
			FileURL:  attachment.FileURL,
			FileName: attachment.FileName,
			MimeType: attachment.MimeType,
		}
	}

	if err := s.messages.Create(ctx, msg, att); err != nil {
		return nil, err
	}

	if err := publish(ctx, s.dispatcher, events.Event{
		Type:        events.EventMessageSent,
		ActorUserID: sender.ID,
		TargetType:  "case",
		TargetID:    target(c.ID),
		Meta: map[string]any{
			"is_internal": isInternal,
			"has_image":   att != nil,
		},
	}); err != nil {
		return nil, err
	}
	return msg, nil
}

// List returns a case's messages ascending by creation time. The requester
// must be an admin or a participant; internal notes are excluded from
// non-admin listings at the query level, never client-side.
func (s *MessageService) List(ctx context.Context, requester *domain.User, casePublicID string) (*domain.Case, []domain.Message, error) {
	c, err := s.cases.GetByPublicID(ctx, casePublicID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("case", nil)
		}
		return nil, nil, err
	}

	isAdmin := requester.IsAdmin()
	if !isAdmin {
		isParticipant, err := s.participants.Exists(ctx, c.ID, requester.ID)
		if err != nil {
			return nil, nil, err
		}
		if !isParticipant {
			return nil, nil, apperrors.NewForbidden("access denied")
		}
	}

	msgs, err := s.messages.ListByCase(ctx, c.ID, isAdmin)
	if err != nil {
		return nil, nil, err
	}
	return c, msgs, nil
}

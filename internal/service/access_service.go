package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/case-portal/internal/domain"
	"github.com/spec-kit/case-portal/internal/events"
	"github.com/spec-kit/case-portal/internal/repository"
	apperrors "github.com/spec-kit/case-portal/pkg/util"
)

// AccessService owns the access-request lifecycle and the participant
// registry: who may see a case's non-public data and messages, and when.
type AccessService struct {
	requests     repository.AccessRequestRepository
	participants repository.ParticipantRepository
	cases        repository.CaseRepository
	dispatcher   events.Dispatcher
	now          func() time.Time
}

// CaseView is the result of viewing a case as an authenticated user.
type CaseView struct {
	Case *domain.Case
	// Joined reports whether this view inserted the viewer into the
	// participant registry.
	Joined bool
}

// NewAccessService constructs the service.
func NewAccessService(
	requests repository.AccessRequestRepository,
	participants repository.ParticipantRepository,
	cases repository.CaseRepository,
	dispatcher events.Dispatcher,
) *AccessService {
	return &AccessService{
		requests:     requests,
		participants: participants,
		cases:        cases,
		dispatcher:   dispatcher,
		now:          time.Now,
	}
}

// Submit files a pending access request for (user, case). Any prior request
// for the pair blocks resubmission regardless of its status, so a denied
// request permanently bars the user from asking again.
func (s *AccessService) Submit(ctx context.Context, user *domain.User, casePublicID string, note *string) (*domain.AccessRequest, error) {
	c, err := s.cases.GetByPublicID(ctx, casePublicID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("case", nil)
		}
		return nil, err
	}

	existing, err := s.requests.GetByCaseAndUser(ctx, c.ID, user.ID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewConflict(
			fmt.Sprintf("you already have an access request (%s)", existing.Status),
			map[string]any{"status": existing.Status},
		)
	}

	isParticipant, err := s.participants.Exists(ctx, c.ID, user.ID)
	if err != nil {
		return nil, err
	}
	if isParticipant {
		return nil, apperrors.NewConflict("you already have access to this case", nil)
	}

	req := &domain.AccessRequest{
		CaseID: c.ID,
		UserID: user.ID,
		Status: domain.AccessRequestPending,
		Note:   note,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}

	if err := publish(ctx, s.dispatcher, events.Event{
		Type:        events.EventAccessRequested,
		ActorUserID: user.ID,
		TargetType:  "case",
		TargetID:    target(c.ID),
	}); err != nil {
		return nil, err
	}
	return req, nil
}

// Approve transitions a pending request to approved and grants participant
// membership as one atomic operation. Concurrent approvals of the same
// request produce exactly one participant row and one reviewer stamp.
func (s *AccessService) Approve(ctx context.Context, reviewer *domain.User, requestID string) error {
	if !reviewer.IsAdmin() {
		return apperrors.NewForbidden("administrator role required")
	}

	transitioned, err := s.requests.Approve(ctx, requestID, reviewer.ID, s.now())
	if err != nil {
		return err
	}
	if !transitioned {
		return apperrors.NewInvalidState("request not found or already processed", nil)
	}

	return publish(ctx, s.dispatcher, events.Event{
		Type:        events.EventAccessApproved,
		ActorUserID: reviewer.ID,
		TargetType:  "access_request",
		TargetID:    target(requestID),
	})
}

// Deny transitions a pending request to denied. Denied is terminal: the
// request can never be approved afterwards.
func (s *AccessService) Deny(ctx context.Context, reviewer *domain.User, requestID string) error {
	if !reviewer.IsAdmin() {
		return apperrors.NewForbidden("administrator role required")
	}

	transitioned, err := s.requests.Deny(ctx, requestID, reviewer.ID, s.now())
	if err != nil {
		return err
	}
	if !transitioned {
		return apperrors.NewInvalidState("request not found or already processed", nil)
	}

	return publish(ctx, s.dispatcher, events.Event{
		Type:        events.EventAccessDenied,
		ActorUserID: reviewer.ID,
		TargetType:  "access_request",
		TargetID:    target(requestID),
	})
}

// IsParticipant reports registry membership for the pair.
func (s *AccessService) IsParticipant(ctx context.Context, caseID, userID string) (bool, error) {
	return s.participants.Exists(ctx, caseID, userID)
}

// CanAccessCase is true unconditionally for admins, who see every case
// without ever being inserted as participants, and otherwise delegates to
// the participant registry.
func (s *AccessService) CanAccessCase(ctx context.Context, user *domain.User, caseID string) (bool, error) {
	if user.IsAdmin() {
		return true, nil
	}
	return s.participants.Exists(ctx, caseID, user.ID)
}

// ViewCase resolves a case for an authenticated viewer. A non-admin viewer
// not yet in the registry is silently joined, exactly once; repeated views
// are idempotent. Admins are never inserted. This grant-on-view means the
// access-request gate is advisory for anyone holding a valid case id.
func (s *AccessService) ViewCase(ctx context.Context, user *domain.User, casePublicID string) (*CaseView, error) {
	c, err := s.cases.GetByPublicID(ctx, casePublicID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("case", nil)
		}
		return nil, err
	}

	view := &CaseView{Case: c}
	if user.IsAdmin() {
		return view, nil
	}

	isParticipant, err := s.participants.Exists(ctx, c.ID, user.ID)
	if err != nil {
		return nil, err
	}
	if !isParticipant {
		if err := s.participants.Ensure(ctx, c.ID, user.ID); err != nil {
			return nil, err
		}
		view.Joined = true
	}
	return view, nil
}

// ListPending returns the admin review queue, oldest first.
func (s *AccessService) ListPending(ctx context.Context, actor *domain.User) ([]domain.AccessRequest, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("administrator role required")
	}
	return s.requests.ListPending(ctx)
}

// ListForUser returns the caller's own requests, newest first.
func (s *AccessService) ListForUser(ctx context.Context, userID string) ([]domain.AccessRequest, error) {
	return s.requests.ListByUser(ctx, userID)
}

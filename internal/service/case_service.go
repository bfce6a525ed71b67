package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/case-portal/internal/domain"
	"github.com/spec-kit/case-portal/internal/events"
	"github.com/spec-kit/case-portal/internal/repository"
	apperrors "github.com/spec-kit/case-portal/pkg/util"
)

const publicIDPrefix = "ICE"

// CaseService owns case records: lookup, creation with public id generation,
// and status changes.
type CaseService struct {
	cases      repository.CaseRepository
	dispatcher events.Dispatcher
	now        func() time.Time
	randSeq    func() int
}

// CaseCreateInput describes the admin case creation payload.
type CaseCreateInput struct {
	Title           string
	Category        string
	LocationTag     *string
	Status          domain.CaseStatus
	PersonName      string
	PersonPhotoURL  *string
	ReasonSummary   *string
	SummaryPublic   *string
	SummaryInternal *string
}

// PublicCaseView is the projection returned to unauthenticated lookups.
type PublicCaseView struct {
	PublicID      string
	Status        domain.CaseStatus
	LocationTag   *string
	SummaryPublic *string
	CanChat       bool
}

// NewCaseService constructs the service.
func NewCaseService(cases repository.CaseRepository, dispatcher events.Dispatcher) *CaseService {
	return &CaseService{
		cases:      cases,
		dispatcher: dispatcher,
		now:        time.Now,
		randSeq:    func() int { return rand.Intn(1_000_000) },
	}
}

// FindByPublicID resolves a case by its human-readable identifier,
// case-insensitively.
func (s *CaseService) FindByPublicID(ctx context.Context, publicID string) (*domain.Case, error) {
	c, err := s.cases.GetByPublicID(ctx, strings.TrimSpace(publicID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("case", nil)
		}
		return nil, err
	}
	return c, nil
}

// PublicLookup returns the public projection of a case. CanChat reflects
// whether the caller is signed in; the internal summary is never included.
func (s *CaseService) PublicLookup(ctx context.Context, publicID string, authenticated bool) (*PublicCaseView, error) {
	c, err := s.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	return &PublicCaseView{
		PublicID:      c.PublicID,
		Status:        c.Status,
		LocationTag:   c.LocationTag,
		SummaryPublic: c.SummaryPublic,
		CanChat:       authenticated,
	}, nil
}

// CreateCase creates a case with a generated public id. On a duplicate-key
// collision from a concurrent generation it retries once with a random
// 6-digit suffix; that retry narrows the collision window but does not
// eliminate it.
func (s *CaseService) CreateCase(ctx context.Context, actor *domain.User, input CaseCreateInput) (*domain.Case, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("administrator role required")
	}
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Category) == "" || strings.TrimSpace(input.PersonName) == "" {
		return nil, apperrors.NewValidationError("title, category, and person name are required", nil)
	}

	status := input.Status
	if status == "" {
		status = domain.CaseStatusOpen
	}

	year := s.now().Year()
	publicID, err := s.GenerateNextPublicID(ctx, year)
	if err != nil {
		return nil, err
	}

	c := &domain.Case{
		PublicID:        publicID,
		Title:           strings.TrimSpace(input.Title),
		Category:        strings.TrimSpace(input.Category),
		LocationTag:     input.LocationTag,
		Status:          status,
		PersonName:      strings.TrimSpace(input.PersonName),
		PersonPhotoURL:  input.PersonPhotoURL,
		ReasonSummary:   input.ReasonSummary,
		SummaryPublic:   input.SummaryPublic,
		SummaryInternal: input.SummaryInternal,
		CreatedBy:       actor.ID,
	}

	if err := s.cases.Create(ctx, c); err != nil {
		if !repository.IsUniqueViolation(err) {
			return nil, err
		}
		c.PublicID = formatPublicID(year, s.randSeq())
		if err := s.cases.Create(ctx, c); err != nil {
			return nil, err
		}
	}

	if err := publish(ctx, s.dispatcher, events.Event{
		Type:        events.EventCaseCreated,
		ActorUserID: actor.ID,
		TargetType:  "case",
		TargetID:    target(c.ID),
		Meta:        map[string]any{"case_id": c.PublicID},
	}); err != nil {
		return nil, err
	}
	return c, nil
}

// GenerateNextPublicID finds the highest existing sequence for the year and
// increments it, zero-padded to six digits.
func (s *CaseService) GenerateNextPublicID(ctx context.Context, year int) (string, error) {
	prefix := fmt.Sprintf("%s-%d-", publicIDPrefix, year)
	latest, err := s.cases.LatestPublicIDForYearPrefix(ctx, prefix)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}

	seq := 0
	if latest != "" {
		parts := strings.Split(latest, "-")
		if len(parts) == 3 {
			if parsed, err := strconv.Atoi(parts[2]); err == nil {
				seq = parsed
			}
		}
	}
	return formatPublicID(year, seq+1), nil
}

// SetStatus overwrites the case status unconditionally. No transition order
// is enforced and unknown values are stored as given; only the admin role
// gate applies.
func (s *CaseService) SetStatus(ctx context.Context, actor *domain.User, casePublicID string, status domain.CaseStatus) error {
	if !actor.IsAdmin() {
		return apperrors.NewForbidden("administrator role required")
	}
	c, err := s.FindByPublicID(ctx, casePublicID)
	if err != nil {
		return err
	}
	if err := s.cases.SetStatus(ctx, c.ID, status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("case", nil)
		}
		return err
	}
	return publish(ctx, s.dispatcher, events.Event{
		Type:        events.EventCaseStatusUpdated,
		ActorUserID: actor.ID,
		TargetType:  "case",
		TargetID:    target(c.ID),
		Meta:        map[string]any{"status": status},
	})
}

// List returns cases for the admin index.
func (s *CaseService) List(ctx context.Context, actor *domain.User, limit, offset int) ([]domain.Case, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("administrator role required")
	}
	return s.cases.List(ctx, limit, offset)
}

func formatPublicID(year, seq int) string {
	return fmt.Sprintf("%s-%d-%06d", publicIDPrefix, year, seq)
}

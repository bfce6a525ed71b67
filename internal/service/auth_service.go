package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/case-portal/internal/auth"
	"github.com/spec-kit/case-portal/internal/domain"
	"github.com/spec-kit/case-portal/internal/events"
	"github.com/spec-kit/case-portal/internal/repository"
	apperrors "github.com/spec-kit/case-portal/pkg/util"
)

const minPasswordLength = 6

// AuthService coordinates registration, login, logout, and admin promotion.
type AuthService struct {
	users      repository.UserRepository
	sessions   *auth.SessionManager
	dispatcher events.Dispatcher
	bcryptCost int
}

// RegisterInput describes the account creation payload.
type RegisterInput struct {
	FullName        string
	Email           string
	Password        string
	ConfirmPassword string
}

// NewAuthService builds the service.
func NewAuthService(users repository.UserRepository, sessions *auth.SessionManager, dispatcher events.Dispatcher, bcryptCost int) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		dispatcher: dispatcher,
		bcryptCost: bcryptCost,
	}
}

// Register creates a user account and signs it in. New accounts always get
// the user role; admin is granted only through explicit promotion.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, *domain.Session, error) {
	fullName := strings.TrimSpace(input.FullName)
	email := strings.TrimSpace(strings.ToLower(input.Email))

	if fullName == "" || email == "" || input.Password == "" {
		return nil, nil, apperrors.NewValidationError("all fields are required", nil)
	}
	if len(input.Password) < minPasswordLength {
		return nil, nil, apperrors.NewValidationError("password must be at least 6 characters", nil)
	}
	if input.Password != input.ConfirmPassword {
		return nil, nil, apperrors.NewValidationError("passwords do not match", nil)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, nil, apperrors.NewConflict("an account with this email already exists", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, nil, err
	}

	user := &domain.User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	session, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	if err := publish(ctx, s.dispatcher, events.Event{
		Type:        events.EventUserRegistered,
		ActorUserID: user.ID,
		TargetType:  "user",
		TargetID:    target(user.ID),
	}); err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

// Login authenticates by email and password. Unknown emails and wrong
// passwords produce the same message.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *domain.Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, nil, apperrors.NewValidationError("email and password are required", nil)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewUnauthorized("invalid email or password")
		}
		return nil, nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, nil, apperrors.NewUnauthorized("invalid email or password")
	}

	session, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	if err := publish(ctx, s.dispatcher, events.Event{
		Type:        events.EventUserLoggedIn,
		ActorUserID: user.ID,
		TargetType:  "user",
		TargetID:    target(user.ID),
	}); err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

// Logout revokes the session token by deleting its row.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Destroy(ctx, token)
}

// PromoteUserToAdmin grants the admin role to the account matching the
// identifier (email, email local part, or full name). This is the only
// operation that changes a role.
func (s *AuthService) PromoteUserToAdmin(ctx context.Context, actor *domain.User, identifier string) (*domain.User, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("administrator role required")
	}

	identifier = strings.TrimSpace(strings.ToLower(identifier))
	if identifier == "" {
		return nil, apperrors.NewValidationError("enter a username or email", nil)
	}

	user, err := s.users.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}
	if user.Role == domain.RoleAdmin {
		return nil, apperrors.NewConflict(user.Email+" is already an admin", nil)
	}

	if err := s.users.SetRole(ctx, user.ID, domain.RoleAdmin); err != nil {
		return nil, err
	}
	user.Role = domain.RoleAdmin

	if err := publish(ctx, s.dispatcher, events.Event{
		Type:        events.EventAdminGranted,
		ActorUserID: actor.ID,
		TargetType:  "user",
		TargetID:    target(user.ID),
		Meta: map[string]any{
			"email":      user.Email,
			"identifier": identifier,
		},
	}); err != nil {
		return nil, err
	}
	return user, nil
}

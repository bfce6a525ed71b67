package auth

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/case-portal/internal/domain"
)

type memorySessionRepo struct {
	sessions map[string]*domain.Session
}

func newMemorySessionRepo() *memorySessionRepo {
	return &memorySessionRepo{sessions: make(map[string]*domain.Session)}
}

func (r *memorySessionRepo) Create(_ context.Context, session *domain.Session) error {
	clone := *session
	r.sessions[session.Token] = &clone
	return nil
}

func (r *memorySessionRepo) ResolveUser(_ context.Context, token string) (*domain.User, error) {
	session, ok := r.sessions[token]
	if !ok || session.Expired(time.Now()) {
		return nil, pgx.ErrNoRows
	}
	return &domain.User{ID: session.UserID}, nil
}

func (r *memorySessionRepo) DeleteByToken(_ context.Context, token string) error {
	delete(r.sessions, token)
	return nil
}

func (r *memorySessionRepo) DeleteExpired(_ context.Context) (int64, error) {
	return 0, nil
}

func TestSessionManagerIssueAndResolve(t *testing.T) {
	ctx := context.Background()
	repo := newMemorySessionRepo()
	manager := NewSessionManager(repo, time.Hour)

	session, err := manager.Issue(ctx, "user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if len(session.Token) != 64 {
		t.Errorf("token length = %d, want 64 hex chars", len(session.Token))
	}
	if remaining := time.Until(session.ExpiresAt); remaining < 59*time.Minute {
		t.Errorf("expiry too soon: %v remaining", remaining)
	}

	user, err := manager.Resolve(ctx, session.Token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if user.ID != "user-1" {
		t.Errorf("resolved user = %q, want user-1", user.ID)
	}

	other, err := manager.Issue(ctx, "user-1")
	if err != nil {
		t.Fatalf("second Issue: %v", err)
	}
	if other.Token == session.Token {
		t.Error("tokens must be unique per issue")
	}
}

func TestSessionManagerDestroy(t *testing.T) {
	ctx := context.Background()
	repo := newMemorySessionRepo()
	manager := NewSessionManager(repo, time.Hour)

	session, err := manager.Issue(ctx, "user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if err := manager.Destroy(ctx, session.Token); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if _, err := manager.Resolve(ctx, session.Token); err == nil {
		t.Error("destroyed token still resolves")
	}

	if err := manager.Destroy(ctx, ""); err != nil {
		t.Errorf("empty token Destroy: %v", err)
	}
}

func TestSessionManagerDefaultTTL(t *testing.T) {
	manager := NewSessionManager(newMemorySessionRepo(), 0)
	if got := manager.TTL(); got != 30*24*time.Hour {
		t.Errorf("default TTL = %v, want 720h", got)
	}
}

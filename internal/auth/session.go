package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/spec-kit/case-portal/internal/domain"
	"github.com/spec-kit/case-portal/internal/repository"
)

// SessionManager issues and resolves opaque DB-backed session tokens with a
// fixed lifetime. Logout revokes a token by deleting its row.
type SessionManager struct {
	sessions repository.SessionRepository
	ttl      time.Duration
}

// NewSessionManager builds a new manager.
func NewSessionManager(sessions repository.SessionRepository, ttl time.Duration) *SessionManager {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &SessionManager{sessions: sessions, ttl: ttl}
}

// Issue mints a random token and persists the session.
func (sm *SessionManager) Issue(ctx context.Context, userID string) (*domain.Session, error) {
	token, err := randomToken()
	if err != nil {
		return nil, err
	}

	session := &domain.Session{
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().Add(sm.ttl),
	}
	if err := sm.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Resolve returns the account owning a live token. Unknown and expired
// tokens both yield pgx.ErrNoRows from the repository.
func (sm *SessionManager) Resolve(ctx context.Context, token string) (*domain.User, error) {
	return sm.sessions.ResolveUser(ctx, token)
}

// Destroy deletes the session row, revoking the token immediately. Unknown
// tokens are a no-op.
func (sm *SessionManager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return sm.sessions.DeleteByToken(ctx, token)
}

// TTL exposes the configured session lifetime for cookie expiry.
func (sm *SessionManager) TTL() time.Duration {
	return sm.ttl
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

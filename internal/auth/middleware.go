package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/case-portal/internal/domain"
	apperrors "github.com/spec-kit/case-portal/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	User *domain.User
}

// AuthMiddleware resolves the session cookie and loads the principal.
type AuthMiddleware struct {
	sessions   *SessionManager
	cookieName string
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(sessions *SessionManager, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions, cookieName: cookieName}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token := c.Cookies(m.cookieName)
	if token == "" {
		return apperrors.NewUnauthorized("authentication required")
	}

	user, err := m.sessions.Resolve(c.UserContext(), token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("session expired or invalid")
		}
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, &Principal{User: user})
	return c.Next()
}

// Optional loads the principal when a valid session cookie is present but
// never rejects the request. Used by the public case lookup, which reveals
// chat availability to signed-in visitors.
func (m *AuthMiddleware) Optional(c *fiber.Ctx) error {
	token := c.Cookies(m.cookieName)
	if token != "" {
		if user, err := m.sessions.Resolve(c.UserContext(), token); err == nil {
			c.Locals(principalKey, &Principal{User: user})
		}
	}
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

package domain

import "time"

// Session is a server-issued opaque login token with a fixed expiry.
// Logout deletes the row, revoking the token immediately.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

package domain

import "time"

// Participant grants a user standing access to a case's details and
// messaging. Unique per (case, user); admins are never inserted since they
// see every case implicitly.
type Participant struct {
	ID        string
	CaseID    string
	UserID    string
	CreatedAt time.Time
}

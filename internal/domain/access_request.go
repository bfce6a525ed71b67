package domain

import (
	"errors"
	"time"
)

// AccessRequestStatus enumerates the request lifecycle. Pending is the only
// non-terminal state; approved and denied are immutable once set.
type AccessRequestStatus string

const (
	AccessRequestPending  AccessRequestStatus = "pending"
	AccessRequestApproved AccessRequestStatus = "approved"
	AccessRequestDenied   AccessRequestStatus = "denied"
)

// ErrRequestAlreadyReviewed signals a transition attempt out of a terminal
// state.
var ErrRequestAlreadyReviewed = errors.New("access request already reviewed")

// AccessRequest ties one user to one case while approval is pending. At most
// one request per (user, case) pair may exist, regardless of its status.
type AccessRequest struct {
	ID         string
	CaseID     string
	UserID     string
	Status     AccessRequestStatus
	Note       *string
	ReviewedBy *string
	ReviewedAt *time.Time
	CreatedAt  time.Time
}

// Terminal reports whether the request has been reviewed.
func (s AccessRequestStatus) Terminal() bool {
	return s == AccessRequestApproved || s == AccessRequestDenied
}

// Review transitions a pending request to a terminal state, stamping the
// reviewer. Any other transition is rejected.
func (r *AccessRequest) Review(next AccessRequestStatus, reviewerID string, at time.Time) error {
	if r.Status != AccessRequestPending {
		return ErrRequestAlreadyReviewed
	}
	if !next.Terminal() {
		return errors.New("review must set a terminal status")
	}
	r.Status = next
	r.ReviewedBy = &reviewerID
	r.ReviewedAt = &at
	return nil
}

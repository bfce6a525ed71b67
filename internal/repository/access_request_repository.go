package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/case-portal/internal/domain"
)

// AccessRequestRepository owns the access-request lifecycle rows.
type AccessRequestRepository interface {
	Create(ctx context.Context, req *domain.AccessRequest) error
	GetByCaseAndUser(ctx context.Context, caseID, userID string) (*domain.AccessRequest, error)
	// Approve transitions a pending request to approved and inserts the
	// participant row in one transaction. It reports false when the request
	// does not exist or is no longer pending.
	Approve(ctx context.Context, requestID, reviewerID string, at time.Time) (bool, error)
	// Deny transitions a pending request to denied. It reports false when the
	// request does not exist or is no longer pending.
	Deny(ctx context.Context, requestID, reviewerID string, at time.Time) (bool, error)
	ListPending(ctx context.Context) ([]domain.AccessRequest, error)
	ListByUser(ctx context.Context, userID string) ([]domain.AccessRequest, error)
}

type accessRequestRepository struct {
	pool *pgxpool.Pool
}

// NewAccessRequestRepository instantiates repository.
func NewAccessRequestRepository(pool *pgxpool.Pool) AccessRequestRepository {
	return &accessRequestRepository{pool: pool}
}

const accessRequestColumns = `id, case_id, user_id, status, note, reviewed_by, reviewed_at, created_at`

func (r *accessRequestRepository) Create(ctx context.Context, req *domain.AccessRequest) error {
	const query = `
        INSERT INTO access_requests (case_id, user_id, status, note)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		req.CaseID,
		req.UserID,
		req.Status,
		req.Note,
	).Scan(&req.ID, &req.CreatedAt)
}

func (r *accessRequestRepository) GetByCaseAndUser(ctx context.Context, caseID, userID string) (*domain.AccessRequest, error) {
	const query = `
        SELECT ` + accessRequestColumns + `
        FROM access_requests WHERE case_id=$1 AND user_id=$2 LIMIT 1`

	var req domain.AccessRequest
	if err := r.pool.QueryRow(ctx, query, caseID, userID).Scan(
		&req.ID,
		&req.CaseID,
		&req.UserID,
		&req.Status,
		&req.Note,
		&req.ReviewedBy,
		&req.ReviewedAt,
		&req.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *accessRequestRepository) Approve(ctx context.Context, requestID, reviewerID string, at time.Time) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// The status guard makes concurrent approvals race-safe: only one UPDATE
	// can see status='pending'.
	const update = `
        UPDATE access_requests
        SET status=$1, reviewed_by=$2, reviewed_at=$3
        WHERE id=$4 AND status=$5
        RETURNING case_id, user_id`

	var caseID, userID string
	if err := tx.QueryRow(ctx, update,
		domain.AccessRequestApproved, reviewerID, at,
		requestID, domain.AccessRequestPending,
	).Scan(&caseID, &userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}

	const insert = `
        INSERT INTO case_participants (case_id, user_id)
        VALUES ($1, $2)
        ON CONFLICT (case_id, user_id) DO NOTHING`
	if _, err := tx.Exec(ctx, insert, caseID, userID); err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (r *accessRequestRepository) Deny(ctx context.Context, requestID, reviewerID string, at time.Time) (bool, error) {
	const query = `
        UPDATE access_requests
        SET status=$1, reviewed_by=$2, reviewed_at=$3
        WHERE id=$4 AND status=$5`
	cmd, err := r.pool.Exec(ctx, query,
		domain.AccessRequestDenied, reviewerID, at,
		requestID, domain.AccessRequestPending,
	)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *accessRequestRepository) ListPending(ctx context.Context) ([]domain.AccessRequest, error) {
	const query = `
        SELECT ` + accessRequestColumns + `
        FROM access_requests WHERE status=$1 ORDER BY created_at ASC`
	return r.list(ctx, query, domain.AccessRequestPending)
}

func (r *accessRequestRepository) ListByUser(ctx context.Context, userID string) ([]domain.AccessRequest, error) {
	const query = `
        SELECT ` + accessRequestColumns + `
        FROM access_requests WHERE user_id=$1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

func (r *accessRequestRepository) list(ctx context.Context, query string, arg any) ([]domain.AccessRequest, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AccessRequest
	for rows.Next() {
		var req domain.AccessRequest
		if err := rows.Scan(
			&req.ID,
			&req.CaseID,
			&req.UserID,
			&req.Status,
			&req.Note,
			&req.ReviewedBy,
			&req.ReviewedAt,
			&req.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, req)
	}
	return result, rows.Err()
}

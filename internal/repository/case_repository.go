package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/case-portal/internal/domain"
)

// CaseRepository encapsulates case persistence.
type CaseRepository interface {
	Create(ctx context.Context, c *domain.Case) error
	GetByID(ctx context.Context, id string) (*domain.Case, error)
	GetByPublicID(ctx context.Context, publicID string) (*domain.Case, error)
	LatestPublicIDForYearPrefix(ctx context.Context, prefix string) (string, error)
	SetStatus(ctx context.Context, id string, status domain.CaseStatus) error
	List(ctx context.Context, limit, offset int) ([]domain.Case, error)
}

type caseRepository struct {
	pool *pgxpool.Pool
}

// NewCaseRepository instantiates repository.
func NewCaseRepository(pool *pgxpool.Pool) CaseRepository {
	return &caseRepository{pool: pool}
}

const caseColumns = `id, case_id, title, category, location_tag, status, person_name,
               person_photo_url, reason_summary, summary_public, summary_internal,
               created_by, created_at, updated_at`

func (r *caseRepository) Create(ctx context.Context, c *domain.Case) error {
	const query = `
        INSERT INTO cases (case_id, title, category, location_tag, status, person_name,
                           person_photo_url, reason_summary, summary_public, summary_internal, created_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		c.PublicID,
		c.Title,
		c.Category,
		c.LocationTag,
		c.Status,
		c.PersonName,
		c.PersonPhotoURL,
		c.ReasonSummary,
		c.SummaryPublic,
		c.SummaryInternal,
		c.CreatedBy,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *caseRepository) GetByID(ctx context.Context, id string) (*domain.Case, error) {
	const query = `SELECT ` + caseColumns + ` FROM cases WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *caseRepository) GetByPublicID(ctx context.Context, publicID string) (*domain.Case, error) {
	const query = `SELECT ` + caseColumns + ` FROM cases WHERE upper(case_id)=upper($1)`
	return r.fetchSingle(ctx, query, publicID)
}

// LatestPublicIDForYearPrefix returns the lexicographically highest public id
// matching prefix, or pgx.ErrNoRows when none exist yet.
func (r *caseRepository) LatestPublicIDForYearPrefix(ctx context.Context, prefix string) (string, error) {
	const query = `
        SELECT case_id FROM cases WHERE case_id LIKE $1 ORDER BY case_id DESC LIMIT 1`
	var publicID string
	if err := r.pool.QueryRow(ctx, query, prefix+"%").Scan(&publicID); err != nil {
		return "", err
	}
	return publicID, nil
}

func (r *caseRepository) SetStatus(ctx context.Context, id string, status domain.CaseStatus) error {
	const query = `UPDATE cases SET status=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *caseRepository) List(ctx context.Context, limit, offset int) ([]domain.Case, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const query = `SELECT ` + caseColumns + ` FROM cases ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Case
	for rows.Next() {
		var c domain.Case
		if err := scanCase(rows, &c); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *caseRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Case, error) {
	var c domain.Case
	if err := scanCase(r.pool.QueryRow(ctx, query, arg), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func scanCase(row pgx.Row, c *domain.Case) error {
	return row.Scan(
		&c.ID,
		&c.PublicID,
		&c.Title,
		&c.Category,
		&c.LocationTag,
		&c.Status,
		&c.PersonName,
		&c.PersonPhotoURL,
		&c.ReasonSummary,
		&c.SummaryPublic,
		&c.SummaryInternal,
		&c.CreatedBy,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
}

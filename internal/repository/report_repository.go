package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/case-portal/internal/domain"
)

// ReportRepository persists citizen incident reports.
type ReportRepository interface {
	Create(ctx context.Context, report *domain.Report) error
	CountByRefPrefix(ctx context.Context, prefix string) (int, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Report, error)
	ListAll(ctx context.Context, limit, offset int) ([]domain.Report, error)
	SetStatus(ctx context.Context, id string, status domain.ReportStatus) error
}

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository instantiates repository.
func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &reportRepository{pool: pool}
}

const reportColumns = `id, report_ref, user_id, related_case_id, report_type, location_tag,
               incident_datetime, description, status, created_at`

func (r *reportRepository) Create(ctx context.Context, report *domain.Report) error {
	const query = `
        INSERT INTO reports (report_ref, user_id, related_case_id, report_type, location_tag,
                             incident_datetime, description, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		report.Ref,
		report.UserID,
		report.RelatedCaseID,
		report.ReportType,
		report.LocationTag,
		report.IncidentDatetime,
		report.Description,
		report.Status,
	).Scan(&report.ID, &report.CreatedAt)
}

func (r *reportRepository) CountByRefPrefix(ctx context.Context, prefix string) (int, error) {
	const query = `SELECT COUNT(*) FROM reports WHERE report_ref LIKE $1`
	var count int
	if err := r.pool.QueryRow(ctx, query, prefix+"%").Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *reportRepository) ListByUser(ctx context.Context, userID string) ([]domain.Report, error) {
	const query = `SELECT ` + reportColumns + ` FROM reports WHERE user_id=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReports(rows)
}

func (r *reportRepository) ListAll(ctx context.Context, limit, offset int) ([]domain.Report, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const query = `SELECT ` + reportColumns + ` FROM reports ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReports(rows)
}

func (r *reportRepository) SetStatus(ctx context.Context, id string, status domain.ReportStatus) error {
	const query = `UPDATE reports SET status=$1 WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanReports(rows pgx.Rows) ([]domain.Report, error) {
	var result []domain.Report
	for rows.Next() {
		var report domain.Report
		if err := rows.Scan(
			&report.ID,
			&report.Ref,
			&report.UserID,
			&report.RelatedCaseID,
			&report.ReportType,
			&report.LocationTag,
			&report.IncidentDatetime,
			&report.Description,
			&report.Status,
			&report.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, report)
	}
	return result, rows.Err()
}

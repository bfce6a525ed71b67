package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ParticipantRepository owns the (case, user) membership relation.
type ParticipantRepository interface {
	// Ensure inserts the membership if absent. Safe to call repeatedly.
	Ensure(ctx context.Context, caseID, userID string) error
	Exists(ctx context.Context, caseID, userID string) (bool, error)
	CountByCase(ctx context.Context, caseID string) (int, error)
}

type participantRepository struct {
	pool *pgxpool.Pool
}

// NewParticipantRepository instantiates repository.
func NewParticipantRepository(pool *pgxpool.Pool) ParticipantRepository {
	return &participantRepository{pool: pool}
}

func (r *participantRepository) Ensure(ctx context.Context, caseID, userID string) error {
	const query = `
        INSERT INTO case_participants (case_id, user_id)
        VALUES ($1, $2)
        ON CONFLICT (case_id, user_id) DO NOTHING`
	_, err := r.pool.Exec(ctx, query, caseID, userID)
	return err
}

func (r *participantRepository) Exists(ctx context.Context, caseID, userID string) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM case_participants WHERE case_id=$1 AND user_id=$2
        )`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, caseID, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *participantRepository) CountByCase(ctx context.Context, caseID string) (int, error) {
	const query = `SELECT COUNT(*) FROM case_participants WHERE case_id=$1`
	var count int
	if err := r.pool.QueryRow(ctx, query, caseID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

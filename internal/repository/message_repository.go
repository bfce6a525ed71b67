package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/case-portal/internal/domain"
)

// MessageRepository manages the append-only per-case message timeline.
type MessageRepository interface {
	// Create appends the message and, when att is non-nil, its attachment in
	// one transaction: both rows become visible together or not at all.
	Create(ctx context.Context, msg *domain.Message, att *domain.Attachment) error
	// ListByCase returns messages ascending by creation time. Internal notes
	// are filtered out in SQL unless includeInternal is set.
	ListByCase(ctx context.Context, caseID string, includeInternal bool) ([]domain.Message, error)
}

type messageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository builds repository.
func NewMessageRepository(pool *pgxpool.Pool) MessageRepository {
	return &messageRepository{pool: pool}
}

func (r *messageRepository) Create(ctx context.Context, msg *domain.Message, att *domain.Attachment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const insertMsg = `
        INSERT INTO messages (case_id, sender_user_id, sender_role, body, is_internal_note)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	if err := tx.QueryRow(ctx, insertMsg,
		msg.CaseID,
		msg.SenderUserID,
		msg.SenderRole,
		msg.Body,
		msg.IsInternalNote,
	).Scan(&msg.ID, &msg.CreatedAt); err != nil {
		return err
	}

	if att != nil {
		const insertAtt = `
            INSERT INTO attachments (message_id, file_url, file_name, mime_type)
            VALUES ($1,$2,$3,$4)
            RETURNING id, created_at`
		att.MessageID = msg.ID
		if err := tx.QueryRow(ctx, insertAtt,
			att.MessageID,
			att.FileURL,
			att.FileName,
			att.MimeType,
		).Scan(&att.ID, &att.CreatedAt); err != nil {
			return err
		}
		msg.Attachment = att
	}

	return tx.Commit(ctx)
}

func (r *messageRepository) ListByCase(ctx context.Context, caseID string, includeInternal bool) ([]domain.Message, error) {
	const query = `
        SELECT m.id, m.case_id, m.sender_user_id, u.full_name, m.sender_role, m.body,
               m.is_internal_note, m.created_at,
               att.id, att.file_url, att.file_name, att.mime_type, att.created_at
        FROM messages m
        LEFT JOIN users u ON u.id = m.sender_user_id
        LEFT JOIN LATERAL (
            SELECT a.id, a.file_url, a.file_name, a.mime_type, a.created_at
            FROM attachments a
            WHERE a.message_id = m.id
            ORDER BY a.created_at DESC
            LIMIT 1
        ) att ON true
        WHERE m.case_id = $1
          AND (m.is_internal_note = false OR $2)
        ORDER BY m.created_at ASC`

	rows, err := r.pool.Query(ctx, query, caseID, includeInternal)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Message
	for rows.Next() {
		var (
			msg         domain.Message
			attID       *string
			attFileURL  *string
			attFileName *string
			attMimeType *string
			attCreated  *time.Time
		)
		if err := rows.Scan(
			&msg.ID,
			&msg.CaseID,
			&msg.SenderUserID,
			&msg.SenderName,
			&msg.SenderRole,
			&msg.Body,
			&msg.IsInternalNote,
			&msg.CreatedAt,
			&attID,
			&attFileURL,
			&attFileName,
			&attMimeType,
			&attCreated,
		); err != nil {
			return nil, err
		}
		if attID != nil {
			msg.Attachment = &domain.Attachment{
				ID:        *attID,
				MessageID: msg.ID,
				FileURL:   *attFileURL,
				FileName:  *attFileName,
				MimeType:  *attMimeType,
				CreatedAt: *attCreated,
			}
		}
		result = append(result, msg)
	}
	return result, rows.Err()
}

package messaging

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eduislas84/CuidarTek-Api/internal/platform/apperror"
	"github.com/eduislas84/CuidarTek-Api/internal/platform/db"
)

type messageRepoPG struct{ pool *pgxpool.Pool }

func NewMessageRepoPG(pool *pgxpool.Pool) MessageRepository {
	return &messageRepoPG{pool: pool}
}

const messageCols = `id, sender_id, recipient_id, body, read_at, created_at`

func scanMessage(row pgx.Row) (*Message, error) {
	var m Message
	err := row.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Body, &m.ReadAt, &m.CreatedAt)
	if err != nil {
		return nil, db.Classify(err)
	}
	return &m, nil
}

func (r *messageRepoPG) Create(ctx context.Context, m *Message) error {
	m.ID = uuid.New()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO messages (id, sender_id, recipient_id, body)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at`,
		m.ID, m.SenderID, m.RecipientID, m.Body)
	if err := row.Scan(&m.CreatedAt); err != nil {
		return db.Classify(err)
	}
	return nil
}

func (r *messageRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Message, error) {
	return scanMessage(r.pool.QueryRow(ctx, `SELECT `+messageCols+` FROM messages WHERE id = $1`, id))
}

func (r *messageRepoPG) Conversation(ctx context.Context, userA, userB uuid.UUID, limit, offset int) ([]*Message, int, error) {
	const where = `WHERE (sender_id = $1 AND recipient_id = $2)
	            OR (sender_id = $2 AND recipient_id = $1)`

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM messages `+where, userA, userB).Scan(&total); err != nil {
		return nil, 0, db.Classify(err)
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+messageCols+` FROM messages `+where+`
		ORDER BY created_at DESC, id ASC
		LIMIT $3 OFFSET $4`, userA, userB, limit, offset)
	if err != nil {
		return nil, 0, db.Classify(err)
	}
	defer rows.Close()
	var items []*Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, m)
	}
	return items, total, db.Classify(rows.Err())
}

func (r *messageRepoPG) MarkRead(ctx context.Context, id uuid.UUID) (*Message, error) {
	m, err := scanMessage(r.pool.QueryRow(ctx, `
		UPDATE messages SET read_at = NOW()
		WHERE id = $1 AND read_at IS NULL
		RETURNING `+messageCols, id))
	if err == nil {
		return m, nil
	}
	if errors.Is(err, apperror.ErrNotFound) {
		return r.GetByID(ctx, id)
	}
	return nil, err
}

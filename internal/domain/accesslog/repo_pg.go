package accesslog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eduislas84/CuidarTek-Api/internal/platform/db"
)

type entryRepoPG struct{ pool *pgxpool.Pool }

func NewEntryRepoPG(pool *pgxpool.Pool) EntryRepository {
	return &entryRepoPG{pool: pool}
}

const entryCols = `id, user_id, role, action, resource, path, method,
	ip_address, user_agent, status, request_id, created_at`

func scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.UserID, &e.Role, &e.Action, &e.Resource, &e.Path,
		&e.Method, &e.IPAddress, &e.UserAgent, &e.Status, &e.RequestID, &e.CreatedAt)
	if err != nil {
		return nil, db.Classify(err)
	}
	return &e, nil
}

func (r *entryRepoPG) Create(ctx context.Context, e *Entry) error {
	e.ID = uuid.New()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO access_logs
			(id, user_id, role, action, resource, path, method, ip_address,
			 user_agent, status, request_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING created_at`,
		e.ID, e.UserID, e.Role, e.Action, e.Resource, e.Path, e.Method,
		e.IPAddress, e.UserAgent, e.Status, e.RequestID)
	if err := row.Scan(&e.CreatedAt); err != nil {
		return db.Classify(err)
	}
	return nil
}

func (r *entryRepoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Entry, int, error) {
	where := `WHERE 1=1`
	var args []interface{}
	if f.UserID != uuid.Nil {
		args = append(args, f.UserID)
		where += fmt.Sprintf(` AND user_id = $%d`, len(args))
	}
	if f.Action != "" {
		args = append(args, f.Action)
		where += fmt.Sprintf(` AND action = $%d`, len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM access_logs `+where, args...).Scan(&total); err != nil {
		return nil, 0, db.Classify(err)
	}

	args = append(args, limit, offset)
	n := len(args)
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT `+entryCols+` FROM access_logs `+where+`
		ORDER BY created_at DESC, id ASC
		LIMIT $%d OFFSET $%d`, n-1, n), args...)
	if err != nil {
		return nil, 0, db.Classify(err)
	}
	defer rows.Close()
	var items []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, e)
	}
	return items, total, db.Classify(rows.Err())
}

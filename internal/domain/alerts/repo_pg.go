package alerts

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eduislas84/CuidarTek-Api/internal/platform/apperror"
	"github.com/eduislas84/CuidarTek-Api/internal/platform/db"
)

type alertRepoPG struct{ pool *pgxpool.Pool }

func NewAlertRepoPG(pool *pgxpool.Pool) AlertRepository {
	return &alertRepoPG{pool: pool}
}

const alertCols = `id, patient_id, severity, message, status, read_at, created_at`

func scanAlert(row pgx.Row) (*Alert, error) {
	var a Alert
	err := row.Scan(&a.ID, &a.PatientID, &a.Severity, &a.Message, &a.Status,
		&a.ReadAt, &a.CreatedAt)
	if err != nil {
		return nil, db.Classify(err)
	}
	return &a, nil
}

func (r *alertRepoPG) Create(ctx context.Context, a *Alert) error {
	a.ID = uuid.New()
	a.Status = AlertUnread
	row := r.pool.QueryRow(ctx, `
		INSERT INTO alerts (id, patient_id, severity, message, status)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at`,
		a.ID, a.PatientID, a.Severity, a.Message, a.Status)
	if err := row.Scan(&a.CreatedAt); err != nil {
		return db.Classify(err)
	}
	return nil
}

func (r *alertRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Alert, error) {
	return scanAlert(r.pool.QueryRow(ctx, `SELECT `+alertCols+` FROM alerts WHERE id = $1`, id))
}

func (r *alertRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, status AlertStatus, limit, offset int) ([]*Alert, int, error) {
	where := `WHERE patient_id = $1`
	args := []interface{}{patientID}
	if status != "" {
		args = append(args, status)
		where += ` AND status = $2`
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM alerts `+where, args...).Scan(&total); err != nil {
		return nil, 0, db.Classify(err)
	}

	args = append(args, limit, offset)
	n := len(args)
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT `+alertCols+` FROM alerts `+where+`
		ORDER BY created_at DESC, id ASC
		LIMIT $%d OFFSET $%d`, n-1, n), args...)
	if err != nil {
		return nil, 0, db.Classify(err)
	}
	defer rows.Close()
	var items []*Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, db.Classify(rows.Err())
}

// MarkRead is idempotent: a second acknowledgement returns the alert as-is.
func (r *alertRepoPG) MarkRead(ctx context.Context, id uuid.UUID) (*Alert, error) {
	a, err := scanAlert(r.pool.QueryRow(ctx, `
		UPDATE alerts SET status = $2, read_at = NOW()
		WHERE id = $1 AND status = $3
		RETURNING `+alertCols,
		id, AlertRead, AlertUnread))
	if err == nil {
		return a, nil
	}
	if errors.Is(err, apperror.ErrNotFound) {
		return r.GetByID(ctx, id)
	}
	return nil, err
}

func (r *alertRepoPG) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM alerts WHERE id = $1`, id)
	if err != nil {
		return false, db.Classify(err)
	}
	return tag.RowsAffected() > 0, nil
}

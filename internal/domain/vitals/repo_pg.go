package vitals

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eduislas84/CuidarTek-Api/internal/platform/db"
)

type readingRepoPG struct{ pool *pgxpool.Pool }

func NewReadingRepoPG(pool *pgxpool.Pool) ReadingRepository {
	return &readingRepoPG{pool: pool}
}

const readingCols = `id, patient_id, indicator_type, value, secondary_value,
	unit, notes, measured_at, created_at`

func scanReading(row pgx.Row) (*Reading, error) {
	var r Reading
	err := row.Scan(&r.ID, &r.PatientID, &r.Type, &r.Value, &r.Secondary,
		&r.Unit, &r.Notes, &r.MeasuredAt, &r.CreatedAt)
	if err != nil {
		return nil, db.Classify(err)
	}
	return &r, nil
}

func (p *readingRepoPG) Create(ctx context.Context, r *Reading) error {
	r.ID = uuid.New()
	row := p.pool.QueryRow(ctx, `
		INSERT INTO indicator_readings
			(id, patient_id, indicator_type, value, secondary_value, unit, notes, measured_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at`,
		r.ID, r.PatientID, r.Type, r.Value, r.Secondary, r.Unit, r.Notes, r.MeasuredAt)
	if err := row.Scan(&r.CreatedAt); err != nil {
		return db.Classify(err)
	}
	return nil
}

func (p *readingRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Reading, error) {
	return scanReading(p.pool.QueryRow(ctx, `SELECT `+readingCols+` FROM indicator_readings WHERE id = $1`, id))
}

func (p *readingRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, typ IndicatorType, limit, offset int) ([]*Reading, int, error) {
	where := `WHERE patient_id = $1`
	args := []interface{}{patientID}
	if typ != "" {
		args = append(args, typ)
		where += ` AND indicator_type = $2`
	}

	var total int
	if err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM indicator_readings `+where, args...).Scan(&total); err != nil {
		return nil, 0, db.Classify(err)
	}

	args = append(args, limit, offset)
	n := len(args)
	rows, err := p.pool.Query(ctx, fmt.Sprintf(`
		SELECT `+readingCols+` FROM indicator_readings `+where+`
		ORDER BY measured_at DESC, id ASC
		LIMIT $%d OFFSET $%d`, n-1, n), args...)
	if err != nil {
		return nil, 0, db.Classify(err)
	}
	defer rows.Close()
	var items []*Reading
	for rows.Next() {
		r, err := scanReading(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, r)
	}
	return items, total, db.Classify(rows.Err())
}

func (p *readingRepoPG) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := p.pool.Exec(ctx, `DELETE FROM indicator_readings WHERE id = $1`, id)
	if err != nil {
		return false, db.Classify(err)
	}
	return tag.RowsAffected() > 0, nil
}

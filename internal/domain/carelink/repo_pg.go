package carelink

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

type relationshipRepoPG struct{ pool *pgxpool.Pool }

func NewRelationshipRepoPG(pool *pgxpool.Pool) RelationshipRepository {
	return &relationshipRepoPG{pool: pool}
}

const linkCols = `id, patient_id, doctor_id, status, notes, created_at, updated_at`

func scanLink(row pgx.Row) (*CareLink, error) {
	var l CareLink
	err := row.Scan(&l.ID, &l.PatientID, &l.DoctorID, &l.Status, &l.Notes,
		&l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, db.Classify(err)
	}
	return &l, nil
}

func (r *relationshipRepoPG) InsertPending(ctx context.Context, patientID, doctorID uuid.UUID, notes *string) (*CareLink, error) {
	id := uuid.New()
	l, err := scanLink(r.pool.QueryRow(ctx, `
		INSERT INTO care_links (id, patient_id, doctor_id, status, notes)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING `+linkCols,
		id, patientID, doctorID, StatusPending, notes))
	if err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, fmt.Errorf("link already exists for patient %s and doctor %s: %w",
				patientID, doctorID, apperror.ErrConflict)
		}
		return nil, err
	}
	return l, nil
}

// CompareAndSetStatus is the one write path for status changes. The UPDATE is
// conditional on the current status, so of two racing writers exactly one
// matches the row and the other observes a stale state.
func (r *relationshipRepoPG) CompareAndSetStatus(ctx context.Context, id uuid.UUID, expected, next Status, notes *string) (*CareLink, error) {
	l, err := scanLink(r.pool.QueryRow(ctx, `
		UPDATE care_links
		SET status = $3, notes = COALESCE($4, notes), updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING `+linkCols,
		id, expected, next, notes))
	if err == nil {
		return l, nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}

	// Zero rows matched: absent row or stale expected status.
	current, getErr := r.GetByID(ctx, id)
	if getErr != nil {
		return nil, getErr
	}
	return nil, fmt.Errorf("link %s is %s, not %s: %w",
		id, current.Status, expected, apperror.ErrInvalidTransition)
}

func (r *relationshipRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*CareLink, error) {
	return scanLink(r.pool.QueryRow(ctx, `SELECT `+linkCols+` FROM care_links WHERE id = $1`, id))
}

func (r *relationshipRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, status Status) ([]*LinkWithDoctor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT cl.id, cl.patient_id, cl.doctor_id, cl.status, cl.notes,
		       cl.created_at, cl.updated_at, u.name, dp.specialty
		FROM care_links cl
		JOIN users u ON u.id = cl.doctor_id
		LEFT JOIN doctor_profiles dp ON dp.user_id = cl.doctor_id
		WHERE cl.patient_id = $1 AND cl.status = $2
		ORDER BY cl.created_at DESC, cl.id ASC`, patientID, status)
	if err != nil {
		return nil, db.Classify(err)
	}
	defer rows.Close()
	var items []*LinkWithDoctor
	for rows.Next() {
		var l LinkWithDoctor
		err := rows.Scan(&l.ID, &l.PatientID, &l.DoctorID, &l.Status, &l.Notes,
			&l.CreatedAt, &l.UpdatedAt, &l.DoctorName, &l.Specialty)
		if err != nil {
			return nil, db.Classify(err)
		}
		items = append(items, &l)
	}
	return items, db.Classify(rows.Err())
}

func (r *relationshipRepoPG) ListByDoctor(ctx context.Context, doctorID uuid.UUID, status Status) ([]*LinkWithPatient, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT cl.id, cl.patient_id, cl.doctor_id, cl.status, cl.notes,
		       cl.created_at, cl.updated_at, pp.user_id, u.name, pp.age
		FROM care_links cl
		JOIN patient_profiles pp ON pp.id = cl.patient_id
		JOIN users u ON u.id = pp.user_id
		WHERE cl.doctor_id = $1 AND cl.status = $2
		ORDER BY cl.created_at DESC, cl.id ASC`, doctorID, status)
	if err != nil {
		return nil, db.Classify(err)
	}
	defer rows.Close()
	var items []*LinkWithPatient
	for rows.Next() {
		var l LinkWithPatient
		err := rows.Scan(&l.ID, &l.PatientID, &l.DoctorID, &l.Status, &l.Notes,
			&l.CreatedAt, &l.UpdatedAt, &l.PatientUserID, &l.PatientName, &l.Age)
		if err != nil {
			return nil, db.Classify(err)
		}
		items = append(items, &l)
	}
	return items, db.Classify(rows.Err())
}

func (r *relationshipRepoPG) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM care_links WHERE id = $1`, id)
	if err != nil {
		return false, db.Classify(err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *relationshipRepoPG) ActiveLinkBetweenUsers(ctx context.Context, patientUserID, doctorUserID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM care_links cl
			JOIN patient_profiles pp ON pp.id = cl.patient_id
			WHERE pp.user_id = $1 AND cl.doctor_id = $2 AND cl.status = $3
		)`, patientUserID, doctorUserID, StatusActive).Scan(&exists)
	if err != nil {
		return false, db.Classify(err)
	}
	return exists, nil
}

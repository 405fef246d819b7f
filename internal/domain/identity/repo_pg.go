package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eduislas84/CuidarTek-Api/internal/platform/db"
)

// -- users --

type userRepoPG struct{ pool *pgxpool.Pool }

func NewUserRepoPG(pool *pgxpool.Pool) UserRepository {
	return &userRepoPG{pool: pool}
}

const userCols = `id, name, email, password_hash, role, status, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&u.Status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, db.Classify(err)
	}
	return &u, nil
}

func (r *userRepoPG) Create(ctx context.Context, u *User) error {
	u.ID = uuid.New()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, status)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at, updated_at`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.Status)
	if err := row.Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
		return db.Classify(err)
	}
	return nil
}

func (r *userRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id = $1`, id))
}

func (r *userRepoPG) GetByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE email = $1`, email))
}

// -- patient profiles --

type patientRepoPG struct{ pool *pgxpool.Pool }

func NewPatientRepoPG(pool *pgxpool.Pool) PatientRepository {
	return &patientRepoPG{pool: pool}
}

const patientCols = `id, user_id, age, sex, current_weight_kg, height_cm,
	chronic_conditions, medications, created_at, updated_at`

func scanPatient(row pgx.Row) (*PatientProfile, error) {
	var p PatientProfile
	err := row.Scan(&p.ID, &p.UserID, &p.Age, &p.Sex, &p.CurrentWeightKg,
		&p.HeightCm, &p.ChronicConditions, &p.Medications, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, db.Classify(err)
	}
	return &p, nil
}

func (r *patientRepoPG) Create(ctx context.Context, p *PatientProfile) error {
	p.ID = uuid.New()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO patient_profiles (id, user_id, age, sex, current_weight_kg,
			height_cm, chronic_conditions, medications)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at, updated_at`,
		p.ID, p.UserID, p.Age, p.Sex, p.CurrentWeightKg,
		p.HeightCm, p.ChronicConditions, p.Medications)
	if err := row.Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		return db.Classify(err)
	}
	return nil
}

func (r *patientRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*PatientProfile, error) {
	return scanPatient(r.pool.QueryRow(ctx, `SELECT `+patientCols+` FROM patient_profiles WHERE id = $1`, id))
}

func (r *patientRepoPG) GetByUserID(ctx context.Context, userID uuid.UUID) (*PatientProfile, error) {
	return scanPatient(r.pool.QueryRow(ctx, `SELECT `+patientCols+` FROM patient_profiles WHERE user_id = $1`, userID))
}

func (r *patientRepoPG) List(ctx context.Context, limit, offset int) ([]*PatientProfile, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patient_profiles`).Scan(&total); err != nil {
		return nil, 0, db.Classify(err)
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+patientCols+` FROM patient_profiles
		ORDER BY created_at DESC, id ASC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, db.Classify(err)
	}
	defer rows.Close()
	var items []*PatientProfile
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, db.Classify(rows.Err())
}

// Update applies only the fields present in upd, building the SET clause
// dynamically so omitted fields are left untouched.
func (r *patientRepoPG) Update(ctx context.Context, id uuid.UUID, upd PatientProfileUpdate) (*PatientProfile, error) {
	if upd.Empty() {
		return r.GetByID(ctx, id)
	}

	set := []string{"updated_at = NOW()"}
	args := []interface{}{id}
	add := func(col string, val interface{}) {
		args = append(args, val)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if upd.Age != nil {
		add("age", *upd.Age)
	}
	if upd.Sex != nil {
		add("sex", *upd.Sex)
	}
	if upd.CurrentWeightKg != nil {
		add("current_weight_kg", *upd.CurrentWeightKg)
	}
	if upd.HeightCm != nil {
		add("height_cm", *upd.HeightCm)
	}
	if upd.ChronicConditions != nil {
		add("chronic_conditions", *upd.ChronicConditions)
	}
	if upd.Medications != nil {
		add("medications", *upd.Medications)
	}

	query := `UPDATE patient_profiles SET ` + strings.Join(set, ", ") +
		` WHERE id = $1 RETURNING ` + patientCols
	return scanPatient(r.pool.QueryRow(ctx, query, args...))
}

func (r *patientRepoPG) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM patient_profiles WHERE id = $1`, id)
	if err != nil {
		return false, db.Classify(err)
	}
	return tag.RowsAffected() > 0, nil
}

// -- doctor profiles --

type doctorRepoPG struct{ pool *pgxpool.Pool }

func NewDoctorRepoPG(pool *pgxpool.Pool) DoctorRepository {
	return &doctorRepoPG{pool: pool}
}

const doctorCols = `id, user_id, specialty, license_number, office_phone, created_at, updated_at`

func scanDoctor(row pgx.Row) (*DoctorProfile, error) {
	var d DoctorProfile
	err := row.Scan(&d.ID, &d.UserID, &d.Specialty, &d.LicenseNumber,
		&d.OfficePhone, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, db.Classify(err)
	}
	return &d, nil
}

func (r *doctorRepoPG) Create(ctx context.Context, d *DoctorProfile) error {
	d.ID = uuid.New()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO doctor_profiles (id, user_id, specialty, license_number, office_phone)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at, updated_at`,
		d.ID, d.UserID, d.Specialty, d.LicenseNumber, d.OfficePhone)
	if err := row.Scan(&d.CreatedAt, &d.UpdatedAt); err != nil {
		return db.Classify(err)
	}
	return nil
}

func (r *doctorRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*DoctorProfile, error) {
	return scanDoctor(r.pool.QueryRow(ctx, `SELECT `+doctorCols+` FROM doctor_profiles WHERE id = $1`, id))
}

func (r *doctorRepoPG) GetByUserID(ctx context.Context, userID uuid.UUID) (*DoctorProfile, error) {
	return scanDoctor(r.pool.QueryRow(ctx, `SELECT `+doctorCols+` FROM doctor_profiles WHERE user_id = $1`, userID))
}

func (r *doctorRepoPG) List(ctx context.Context, limit, offset int) ([]*DoctorProfile, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM doctor_profiles`).Scan(&total); err != nil {
		return nil, 0, db.Classify(err)
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+doctorCols+` FROM doctor_profiles
		ORDER BY created_at DESC, id ASC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, db.Classify(err)
	}
	defer rows.Close()
	var items []*DoctorProfile
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, d)
	}
	return items, total, db.Classify(rows.Err())
}

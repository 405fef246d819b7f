package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/eduislas84/CuidarTek-Api/internal/platform/auth"
)

// User maps to the users table. One account per person; the role is fixed for
// the lifetime of the account.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         auth.Role `db:"role" json:"role"`
	Status       string    `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// PatientProfile maps to the patient_profiles table. Exactly one per user
// account; UserID is immutable after creation.
type PatientProfile struct {
	ID                uuid.UUID `db:"id" json:"id"`
	UserID            uuid.UUID `db:"user_id" json:"user_id"`
	Age               *int      `db:"age" json:"age,omitempty"`
	Sex               *string   `db:"sex" json:"sex,omitempty"`
	CurrentWeightKg   *float64  `db:"current_weight_kg" json:"current_weight_kg,omitempty"`
	HeightCm          *float64  `db:"height_cm" json:"height_cm,omitempty"`
	ChronicConditions *string   `db:"chronic_conditions" json:"chronic_conditions,omitempty"`
	Medications       *string   `db:"medications" json:"medications,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// PatientProfileUpdate carries a partial update: nil means "unchanged", so a
// caller can never clear a field by omitting it.
type PatientProfileUpdate struct {
	Age               *int     `json:"age"`
	Sex               *string  `json:"sex"`
	CurrentWeightKg   *float64 `json:"current_weight_kg"`
	HeightCm          *float64 `json:"height_cm"`
	ChronicConditions *string  `json:"chronic_conditions"`
	Medications       *string  `json:"medications"`
}

// Empty reports whether the update carries no fields.
func (u PatientProfileUpdate) Empty() bool {
	return u.Age == nil && u.Sex == nil && u.CurrentWeightKg == nil &&
		u.HeightCm == nil && u.ChronicConditions == nil && u.Medications == nil
}

// DoctorProfile maps to the doctor_profiles table.
type DoctorProfile struct {
	ID            uuid.UUID `db:"id" json:"id"`
	UserID        uuid.UUID `db:"user_id" json:"user_id"`
	Specialty     *string   `db:"specialty" json:"specialty,omitempty"`
	LicenseNumber *string   `db:"license_number" json:"license_number,omitempty"`
	OfficePhone   *string   `db:"office_phone" json:"office_phone,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Package carelink manages the lifecycle of patient and doctor care
// relationships: a patient requests a link to a doctor, the doctor approves
// or rejects it, and an active link is later ended by either party.
package carelink

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a care link.
//
//	pending -> active | rejected   (doctor decision)
//	active  -> ended               (either party)
//
// rejected and ended are terminal.
type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusRejected Status = "rejected"
	StatusEnded    Status = "ended"
)

// Valid reports whether s is a recognized status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusRejected, StatusEnded:
		return true
	}
	return false
}

// Terminal reports whether s has no outgoing transitions.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusEnded
}

// Decision is a doctor's verdict on a pending link.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// CareLink maps to the care_links table. PatientID references a patient
// profile; DoctorID references the doctor's user account. At most one row
// exists per (patient, doctor) pair regardless of status.
type CareLink struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	DoctorID  uuid.UUID `db:"doctor_id" json:"doctor_id"`
	Status    Status    `db:"status" json:"status"`
	Notes     *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// LinkWithDoctor is a care link joined with the doctor's identity, returned
// by patient-side listings.
type LinkWithDoctor struct {
	CareLink
	DoctorName string  `db:"doctor_name" json:"doctor_name"`
	Specialty  *string `db:"specialty" json:"specialty,omitempty"`
}

// LinkWithPatient is a care link joined with the patient's identity, returned
// by doctor-side listings.
type LinkWithPatient struct {
	CareLink
	PatientUserID uuid.UUID `db:"patient_user_id" json:"patient_user_id"`
	PatientName   string    `db:"patient_name" json:"patient_name"`
	Age           *int      `db:"age" json:"age,omitempty"`
}

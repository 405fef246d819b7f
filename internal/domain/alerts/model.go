// Package alerts manages per-patient health alerts raised when an indicator
// crosses a threshold or a caregiver flags something for attention.
package alerts

import (
	"time"

	"github.com/google/uuid"
)

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityCritical:
		return true
	}
	return false
}

type AlertStatus string

const (
	AlertUnread AlertStatus = "unread"
	AlertRead   AlertStatus = "read"
)

// Alert maps to the alerts table.
type Alert struct {
	ID        uuid.UUID   `db:"id" json:"id"`
	PatientID uuid.UUID   `db:"patient_id" json:"patient_id"`
	Severity  Severity    `db:"severity" json:"severity"`
	Message   string      `db:"message" json:"message"`
	Status    AlertStatus `db:"status" json:"status"`
	ReadAt    *time.Time  `db:"read_at" json:"read_at,omitempty"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
}

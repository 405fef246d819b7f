// Package vitals stores patient-reported health indicator readings.
package vitals

import (
	"time"

	"github.com/google/uuid"
)

// IndicatorType classifies a reading.
type IndicatorType string

const (
	IndicatorWeight        IndicatorType = "weight"
	IndicatorGlucose       IndicatorType = "glucose"
	IndicatorBloodPressure IndicatorType = "blood_pressure"
	IndicatorHeartRate     IndicatorType = "heart_rate"
)

func (t IndicatorType) Valid() bool {
	switch t {
	case IndicatorWeight, IndicatorGlucose, IndicatorBloodPressure, IndicatorHeartRate:
		return true
	}
	return false
}

// Reading maps to the indicator_readings table. Value carries the measurement;
// blood pressure uses Value for systolic and Secondary for diastolic.
type Reading struct {
	ID         uuid.UUID     `db:"id" json:"id"`
	PatientID  uuid.UUID     `db:"patient_id" json:"patient_id"`
	Type       IndicatorType `db:"indicator_type" json:"indicator_type"`
	Value      float64       `db:"value" json:"value"`
	Secondary  *float64      `db:"secondary_value" json:"secondary_value,omitempty"`
	Unit       string        `db:"unit" json:"unit"`
	Notes      *string       `db:"notes" json:"notes,omitempty"`
	MeasuredAt time.Time     `db:"measured_at" json:"measured_at"`
	CreatedAt  time.Time     `db:"created_at" json:"created_at"`
}

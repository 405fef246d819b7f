package vitals

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/eduislas84/CuidarTek-Api/internal/platform/apperror"
	"github.com/eduislas84/CuidarTek-Api/internal/platform/auth"
)

// PatientDirectory resolves a patient profile to its owning user account.
type PatientDirectory interface {
	PatientOwnerUserID(ctx context.Context, patientID uuid.UUID) (uuid.UUID, error)
}

type Service struct {
	readings ReadingRepository
	patients PatientDirectory
}

func NewService(readings ReadingRepository, patients PatientDirectory) *Service {
	return &Service{readings: readings, patients: patients}
}

// Record stores a new reading for the patient. Gated like a record update:
// the owning patient, any doctor, or an admin.
func (s *Service) Record(ctx context.Context, actor auth.Actor, r *Reading) (*Reading, error) {
	if !r.Type.Valid() {
		return nil, fmt.Errorf("unknown indicator type %q", r.Type)
	}
	if r.Type == IndicatorBloodPressure && r.Secondary == nil {
		return nil, fmt.Errorf("blood pressure requires a diastolic value")
	}

	owner, err := s.patients.PatientOwnerUserID(ctx, r.PatientID)
	if err != nil {
		return nil, err
	}
	if auth.Authorize(actor, auth.OpUpdatePatientRecord, auth.Target{OwnerUserID: owner}) != auth.Allow {
		return nil, fmt.Errorf("cannot record readings for this patient: %w", apperror.ErrForbidden)
	}

	if r.MeasuredAt.IsZero() {
		r.MeasuredAt = time.Now()
	}
	if err := s.readings.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// List returns the patient's readings, newest measurement first.
func (s *Service) List(ctx context.Context, actor auth.Actor, patientID uuid.UUID, typ IndicatorType, limit, offset int) ([]*Reading, int, error) {
	if typ != "" && !typ.Valid() {
		return nil, 0, fmt.Errorf("unknown indicator type %q", typ)
	}
	owner, err := s.patients.PatientOwnerUserID(ctx, patientID)
	if err != nil {
		return nil, 0, err
	}
	if auth.Authorize(actor, auth.OpViewPatientRecord, auth.Target{OwnerUserID: owner}) != auth.Allow {
		return nil, 0, fmt.Errorf("cannot view this patient's readings: %w", apperror.ErrForbidden)
	}
	return s.readings.ListByPatient(ctx, patientID, typ, limit, offset)
}

// Delete removes a reading. Same gate as recording one.
func (s *Service) Delete(ctx context.Context, actor auth.Actor, id uuid.UUID) error {
	r, err := s.readings.GetByID(ctx, id)
	if err != nil {
		return err
	}
	owner, err := s.patients.PatientOwnerUserID(ctx, r.PatientID)
	if err != nil {
		return err
	}
	if auth.Authorize(actor, auth.OpUpdatePatientRecord, auth.Target{OwnerUserID: owner}) != auth.Allow {
		return fmt.Errorf("cannot delete this reading: %w", apperror.ErrForbidden)
	}
	deleted, err := s.readings.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("reading %s: %w", id, apperror.ErrNotFound)
	}
	return nil
}

package alerts

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/eduislas84/CuidarTek-Api/internal/platform/apperror"
	"github.com/eduislas84/CuidarTek-Api/internal/platform/auth"
)

type PatientDirectory interface {
	PatientOwnerUserID(ctx context.Context, patientID uuid.UUID) (uuid.UUID, error)
}

type Service struct {
	alerts   AlertRepository
	patients PatientDirectory
}

func NewService(alerts AlertRepository, patients PatientDirectory) *Service {
	return &Service{alerts: alerts, patients: patients}
}

// Raise creates an unread alert for the patient. Doctors and admins only.
func (s *Service) Raise(ctx context.Context, actor auth.Actor, a *Alert) (*Alert, error) {
	if !a.Severity.Valid() {
		return nil, fmt.Errorf("unknown severity %q", a.Severity)
	}
	if a.Message == "" {
		return nil, fmt.Errorf("message is required")
	}
	if actor.Role != auth.RoleDoctor && actor.Role != auth.RoleAdmin {
		return nil, fmt.Errorf("only caregivers may raise alerts: %w", apperror.ErrForbidden)
	}
	if _, err := s.patients.PatientOwnerUserID(ctx, a.PatientID); err != nil {
		return nil, err
	}
	if err := s.alerts.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// List returns the patient's alerts, newest first.
func (s *Service) List(ctx context.Context, actor auth.Actor, patientID uuid.UUID, status AlertStatus, limit, offset int) ([]*Alert, int, error) {
	owner, err := s.patients.PatientOwnerUserID(ctx, patientID)
	if err != nil {
		return nil, 0, err
	}
	if auth.Authorize(actor, auth.OpViewPatientRecord, auth.Target{OwnerUserID: owner}) != auth.Allow {
		return nil, 0, fmt.Errorf("cannot view this patient's alerts: %w", apperror.ErrForbidden)
	}
	return s.alerts.ListByPatient(ctx, patientID, status, limit, offset)
}

// Acknowledge marks an alert read. Only the patient the alert belongs to, or
// an admin. Acknowledging twice is not an error.
func (s *Service) Acknowledge(ctx context.Context, actor auth.Actor, id uuid.UUID) (*Alert, error) {
	a, err := s.alerts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	owner, err := s.patients.PatientOwnerUserID(ctx, a.PatientID)
	if err != nil {
		return nil, err
	}
	if actor.Role != auth.RoleAdmin && actor.ID != owner {
		return nil, fmt.Errorf("cannot acknowledge another patient's alert: %w", apperror.ErrForbidden)
	}
	return s.alerts.MarkRead(ctx, id)
}

// Delete removes an alert. Doctors and admins only.
func (s *Service) Delete(ctx context.Context, actor auth.Actor, id uuid.UUID) error {
	if actor.Role != auth.RoleDoctor && actor.Role != auth.RoleAdmin {
		return fmt.Errorf("only caregivers may delete alerts: %w", apperror.ErrForbidden)
	}
	deleted, err := s.alerts.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("alert %s: %w", id, apperror.ErrNotFound)
	}
	return nil
}

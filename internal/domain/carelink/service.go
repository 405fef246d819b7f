package carelink

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/eduislas84/CuidarTek-Api/internal/platform/apperror"
	"github.com/eduislas84/CuidarTek-Api/internal/platform/auth"
)

// PatientDirectory resolves patient profiles to their owning user account.
type PatientDirectory interface {
	PatientOwnerUserID(ctx context.Context, patientID uuid.UUID) (uuid.UUID, error)
}

// DoctorDirectory answers whether a user account is a doctor.
type DoctorDirectory interface {
	IsDoctor(ctx context.Context, userID uuid.UUID) (bool, error)
}

// Service runs the care link workflow. Authorization is evaluated on every
// call; no decision is cached between operations.
type Service struct {
	links    RelationshipRepository
	patients PatientDirectory
	doctors  DoctorDirectory
}

func NewService(links RelationshipRepository, patients PatientDirectory, doctors DoctorDirectory) *Service {
	return &Service{links: links, patients: patients, doctors: doctors}
}

// RequestLink creates a pending link from the patient to the doctor. Only the
// patient who owns the profile may request, admins included in the refusal;
// one link per pair, ever, until an admin deletes it.
func (s *Service) RequestLink(ctx context.Context, actor auth.Actor, patientID, doctorID uuid.UUID, notes *string) (*CareLink, error) {
	owner, err := s.patients.PatientOwnerUserID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if actor.Role != auth.RolePatient || actor.ID != owner {
		return nil, fmt.Errorf("only the patient may request a link: %w", apperror.ErrForbidden)
	}

	isDoctor, err := s.doctors.IsDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if !isDoctor {
		return nil, fmt.Errorf("doctor %s: %w", doctorID, apperror.ErrNotFound)
	}

	return s.links.InsertPending(ctx, patientID, doctorID, notes)
}

// Decide resolves a pending link. Only the doctor named by the link may
// decide; any other caller gets Forbidden before state is inspected further.
func (s *Service) Decide(ctx context.Context, actor auth.Actor, linkID uuid.UUID, decision Decision, notes *string) (*CareLink, error) {
	var next Status
	switch decision {
	case DecisionApprove:
		next = StatusActive
	case DecisionReject:
		next = StatusRejected
	default:
		return nil, fmt.Errorf("unknown decision %q", decision)
	}

	link, err := s.links.GetByID(ctx, linkID)
	if err != nil {
		return nil, err
	}
	if actor.ID != link.DoctorID {
		return nil, fmt.Errorf("link %s belongs to another doctor: %w", linkID, apperror.ErrForbidden)
	}

	return s.links.CompareAndSetStatus(ctx, linkID, StatusPending, next, notes)
}

// End finalizes an active link. Either party, or an admin, may end it.
func (s *Service) End(ctx context.Context, actor auth.Actor, linkID uuid.UUID) (*CareLink, error) {
	link, err := s.links.GetByID(ctx, linkID)
	if err != nil {
		return nil, err
	}
	if !s.party(ctx, actor, link) {
		return nil, fmt.Errorf("not a party to link %s: %w", linkID, apperror.ErrForbidden)
	}

	return s.links.CompareAndSetStatus(ctx, linkID, StatusActive, StatusEnded, nil)
}

// party reports whether the actor is the link's doctor, the link's patient,
// or an admin.
func (s *Service) party(ctx context.Context, actor auth.Actor, link *CareLink) bool {
	if actor.Role == auth.RoleAdmin || actor.ID == link.DoctorID {
		return true
	}
	owner, err := s.patients.PatientOwnerUserID(ctx, link.PatientID)
	if err != nil {
		return false
	}
	return actor.ID == owner
}

// ListActiveForPatient returns the patient's active doctors, most recent
// first. Gated by the same rule as viewing the patient record.
func (s *Service) ListActiveForPatient(ctx context.Context, actor auth.Actor, patientID uuid.UUID) ([]*LinkWithDoctor, error) {
	owner, err := s.patients.PatientOwnerUserID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if auth.Authorize(actor, auth.OpViewPatientRecord, auth.Target{OwnerUserID: owner}) != auth.Allow {
		return nil, fmt.Errorf("cannot view this patient's doctors: %w", apperror.ErrForbidden)
	}
	return s.links.ListByPatient(ctx, patientID, StatusActive)
}

// ListPendingForDoctor returns the doctor's open requests, most recent first.
func (s *Service) ListPendingForDoctor(ctx context.Context, actor auth.Actor, doctorID uuid.UUID) ([]*LinkWithPatient, error) {
	if err := requireSelfOrAdmin(actor, doctorID); err != nil {
		return nil, err
	}
	return s.links.ListByDoctor(ctx, doctorID, StatusPending)
}

// ListActiveForDoctor returns the doctor's active patients, most recent first.
func (s *Service) ListActiveForDoctor(ctx context.Context, actor auth.Actor, doctorID uuid.UUID) ([]*LinkWithPatient, error) {
	if err := requireSelfOrAdmin(actor, doctorID); err != nil {
		return nil, err
	}
	return s.links.ListByDoctor(ctx, doctorID, StatusActive)
}

func requireSelfOrAdmin(actor auth.Actor, doctorID uuid.UUID) error {
	if actor.Role == auth.RoleAdmin {
		return nil
	}
	if actor.Role == auth.RoleDoctor && actor.ID == doctorID {
		return nil
	}
	return fmt.Errorf("cannot view another doctor's links: %w", apperror.ErrForbidden)
}

// DeleteRelationship hard-deletes a link regardless of status. Admin only;
// a second delete of the same id reports NotFound.
func (s *Service) DeleteRelationship(ctx context.Context, actor auth.Actor, linkID uuid.UUID) error {
	if actor.Role != auth.RoleAdmin {
		return fmt.Errorf("only admins may delete links: %w", apperror.ErrForbidden)
	}
	deleted, err := s.links.Delete(ctx, linkID)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("link %s: %w", linkID, apperror.ErrNotFound)
	}
	return nil
}

// HasActiveLink reports whether the two user accounts share an active care
// link. Used by messaging to gate conversations.
func (s *Service) HasActiveLink(ctx context.Context, patientUserID, doctorUserID uuid.UUID) (bool, error) {
	return s.links.ActiveLinkBetweenUsers(ctx, patientUserID, doctorUserID)
}

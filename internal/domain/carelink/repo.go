package carelink

import (
	"context"

	"github.com/google/uuid"
)

// RelationshipRepository is the durable store for care links. Every mutation
// is a single atomic statement; status transitions go through
// CompareAndSetStatus so that concurrent writers cannot silently overwrite
// each other.
type RelationshipRepository interface {
	// InsertPending creates a new pending link. Returns ErrConflict when a
	// link already exists for the pair, whatever its status.
	InsertPending(ctx context.Context, patientID, doctorID uuid.UUID, notes *string) (*CareLink, error)

	// CompareAndSetStatus transitions the link from expected to next in one
	// conditional update. Returns ErrNotFound when the link is absent and
	// ErrInvalidTransition when its status no longer matches expected. A
	// non-nil notes replaces the stored notes.
	CompareAndSetStatus(ctx context.Context, id uuid.UUID, expected, next Status, notes *string) (*CareLink, error)

	GetByID(ctx context.Context, id uuid.UUID) (*CareLink, error)

	// ListByPatient returns the patient's links with the given status, joined
	// with doctor identity, most recent first.
	ListByPatient(ctx context.Context, patientID uuid.UUID, status Status) ([]*LinkWithDoctor, error)

	// ListByDoctor returns the doctor's links with the given status, joined
	// with patient identity, most recent first.
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, status Status) ([]*LinkWithPatient, error)

	// Delete removes the link unconditionally. The bool reports whether a row
	// was deleted.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// ActiveLinkBetweenUsers reports whether the patient user and the doctor
	// user share an active link.
	ActiveLinkBetweenUsers(ctx context.Context, patientUserID, doctorUserID uuid.UUID) (bool, error)
}

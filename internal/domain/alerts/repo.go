package alerts

import (
	"context"

	"github.com/google/uuid"
)

type AlertRepository interface {
	Create(ctx context.Context, a *Alert) error
	GetByID(ctx context.Context, id uuid.UUID) (*Alert, error)
	// ListByPatient returns alerts newest first, optionally filtered by
	// status (empty means all).
	ListByPatient(ctx context.Context, patientID uuid.UUID, status AlertStatus, limit, offset int) ([]*Alert, int, error)
	// MarkRead flips an unread alert to read. Returns the stored alert
	// whether or not this call performed the flip.
	MarkRead(ctx context.Context, id uuid.UUID) (*Alert, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

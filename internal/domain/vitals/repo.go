package vitals

import (
	"context"

	"github.com/google/uuid"
)

type ReadingRepository interface {
	Create(ctx context.Context, r *Reading) error
	GetByID(ctx context.Context, id uuid.UUID) (*Reading, error)
	// ListByPatient returns readings newest measurement first, optionally
	// filtered by type (empty means all).
	ListByPatient(ctx context.Context, patientID uuid.UUID, typ IndicatorType, limit, offset int) ([]*Reading, int, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

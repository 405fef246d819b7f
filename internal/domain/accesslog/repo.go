package accesslog

import (
	"context"

	"github.com/google/uuid"
)

// Filter narrows a listing. Zero values mean "no constraint".
type Filter struct {
	UserID uuid.UUID
	Action string
}

type EntryRepository interface {
	Create(ctx context.Context, e *Entry) error
	// List returns entries newest first.
	List(ctx context.Context, f Filter, limit, offset int) ([]*Entry, int, error)
}

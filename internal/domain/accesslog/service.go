package accesslog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/eduislas84/CuidarTek-Api/internal/platform/apperror"
	"github.com/eduislas84/CuidarTek-Api/internal/platform/auth"
	"github.com/eduislas84/CuidarTek-Api/internal/platform/middleware"
)

type Service struct {
	entries EntryRepository
}

func NewService(entries EntryRepository) *Service {
	return &Service{entries: entries}
}

// RecordAccess implements middleware.AccessRecorder. It runs outside any
// request-scoped context so a slow insert cannot hold the response open.
func (s *Service) RecordAccess(entry middleware.AccessEntry) error {
	e := &Entry{
		Role:      entry.Role,
		Action:    entry.Action,
		Resource:  entry.Resource,
		Path:      entry.Path,
		Method:    entry.Method,
		IPAddress: entry.IPAddress,
		UserAgent: entry.UserAgent,
		Status:    entry.Status,
		RequestID: entry.RequestID,
	}
	if entry.UserID != "" {
		if uid, err := uuid.Parse(entry.UserID); err == nil {
			e.UserID = &uid
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.entries.Create(ctx, e)
}

// List returns access entries, newest first. Admins only.
func (s *Service) List(ctx context.Context, actor auth.Actor, f Filter, limit, offset int) ([]*Entry, int, error) {
	if actor.Role != auth.RoleAdmin {
		return nil, 0, fmt.Errorf("only admins may read access logs: %w", apperror.ErrForbidden)
	}
	return s.entries.List(ctx, f, limit, offset)
}

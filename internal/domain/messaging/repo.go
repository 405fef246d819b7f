package messaging

import (
	"context"

	"github.com/google/uuid"
)

type MessageRepository interface {
	Create(ctx context.Context, m *Message) error
	GetByID(ctx context.Context, id uuid.UUID) (*Message, error)
	// Conversation returns messages between the two users in either
	// direction, newest first.
	Conversation(ctx context.Context, userA, userB uuid.UUID, limit, offset int) ([]*Message, int, error)
	// MarkRead stamps read_at on an unread message. Idempotent.
	MarkRead(ctx context.Context, id uuid.UUID) (*Message, error)
}

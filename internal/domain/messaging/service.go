package messaging

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/eduislas84/CuidarTek-Api/internal/platform/apperror"
	"github.com/eduislas84/CuidarTek-Api/internal/platform/auth"
)

// CareLinkChecker answers whether a patient user and a doctor user share an
// active care link.
type CareLinkChecker interface {
	HasActiveLink(ctx context.Context, patientUserID, doctorUserID uuid.UUID) (bool, error)
}

type Service struct {
	messages MessageRepository
	links    CareLinkChecker
}

func NewService(messages MessageRepository, links CareLinkChecker) *Service {
	return &Service{messages: messages, links: links}
}

// Send delivers a message from the actor to the recipient. The two must share
// an active care link; admins may message anyone.
func (s *Service) Send(ctx context.Context, actor auth.Actor, recipientID uuid.UUID, body string) (*Message, error) {
	if body == "" {
		return nil, fmt.Errorf("message body is required")
	}
	if recipientID == uuid.Nil || recipientID == actor.ID {
		return nil, fmt.Errorf("invalid recipient")
	}

	if actor.Role != auth.RoleAdmin {
		linked, err := s.linked(ctx, actor, recipientID)
		if err != nil {
			return nil, err
		}
		if !linked {
			return nil, fmt.Errorf("no active care link with recipient: %w", apperror.ErrForbidden)
		}
	}

	m := &Message{SenderID: actor.ID, RecipientID: recipientID, Body: body}
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// linked checks the care link with the patient on the correct side for the
// actor's role.
func (s *Service) linked(ctx context.Context, actor auth.Actor, otherID uuid.UUID) (bool, error) {
	switch actor.Role {
	case auth.RolePatient:
		return s.links.HasActiveLink(ctx, actor.ID, otherID)
	case auth.RoleDoctor:
		return s.links.HasActiveLink(ctx, otherID, actor.ID)
	}
	return false, nil
}

// Conversation returns the exchange between the actor and the other user,
// newest first. Participants only; admins may read any conversation.
func (s *Service) Conversation(ctx context.Context, actor auth.Actor, otherID uuid.UUID, limit, offset int) ([]*Message, int, error) {
	if actor.ID == uuid.Nil {
		return nil, 0, fmt.Errorf("missing identity: %w", apperror.ErrForbidden)
	}
	return s.messages.Conversation(ctx, actor.ID, otherID, limit, offset)
}

// ConversationBetween lets an admin inspect any pair's exchange.
func (s *Service) ConversationBetween(ctx context.Context, actor auth.Actor, userA, userB uuid.UUID, limit, offset int) ([]*Message, int, error) {
	if actor.Role != auth.RoleAdmin {
		return nil, 0, fmt.Errorf("only admins may read other conversations: %w", apperror.ErrForbidden)
	}
	return s.messages.Conversation(ctx, userA, userB, limit, offset)
}

// MarkRead stamps a message as read. Recipient only.
func (s *Service) MarkRead(ctx context.Context, actor auth.Actor, id uuid.UUID) (*Message, error) {
	m, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.ID != m.RecipientID {
		return nil, fmt.Errorf("only the recipient may mark a message read: %w", apperror.ErrForbidden)
	}
	return s.messages.MarkRead(ctx, id)
}

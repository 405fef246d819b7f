package messaging

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/eduislas84/CuidarTek-Api/internal/platform/apperror"
	"github.com/eduislas84/CuidarTek-Api/internal/platform/auth"
)

type mockMessageRepo struct {
	messages map[uuid.UUID]*Message
	seq      int
}

func newMockMessageRepo() *mockMessageRepo {
	return &mockMessageRepo{messages: make(map[uuid.UUID]*Message)}
}

func (m *mockMessageRepo) Create(_ context.Context, msg *Message) error {
	m.seq++
	msg.ID = uuid.New()
	msg.CreatedAt = time.Date(2025, 6, 1, 12, 0, m.seq, 0, time.UTC)
	m.messages[msg.ID] = msg
	return nil
}

func (m *mockMessageRepo) GetByID(_ context.Context, id uuid.UUID) (*Message, error) {
	msg, ok := m.messages[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	return msg, nil
}

func (m *mockMessageRepo) Conversation(_ context.Context, a, b uuid.UUID, limit, offset int) ([]*Message, int, error) {
	var all []*Message
	for _, msg := range m.messages {
		if (msg.SenderID == a && msg.RecipientID == b) || (msg.SenderID == b && msg.RecipientID == a) {
			all = append(all, msg)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (m *mockMessageRepo) MarkRead(_ context.Context, id uuid.UUID) (*Message, error) {
	msg, ok := m.messages[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	if msg.ReadAt == nil {
		now := time.Now()
		msg.ReadAt = &now
	}
	return msg, nil
}

// mockLinks records active (patientUser, doctorUser) pairs.
type mockLinks map[[2]uuid.UUID]bool

func (m mockLinks) HasActiveLink(_ context.Context, patientUserID, doctorUserID uuid.UUID) (bool, error) {
	return m[[2]uuid.UUID{patientUserID, doctorUserID}], nil
}

func newMessagingFixture() (*Service, mockLinks, auth.Actor, auth.Actor) {
	repo := newMockMessageRepo()
	links := make(mockLinks)
	patient := auth.Actor{ID: uuid.New(), Role: auth.RolePatient}
	doctor := auth.Actor{ID: uuid.New(), Role: auth.RoleDoctor}
	links[[2]uuid.UUID{patient.ID, doctor.ID}] = true
	return NewService(repo, links), links, patient, doctor
}

func TestSendRequiresActiveLink(t *testing.T) {
	svc, _, patient, doctor := newMessagingFixture()
	ctx := context.Background()

	m, err := svc.Send(ctx, patient, doctor.ID, "hola doctora")
	if err != nil {
		t.Fatalf("patient send: %v", err)
	}
	if m.Read() {
		t.Error("new message should be unread")
	}

	// The doctor side of the same link also sends.
	if _, err := svc.Send(ctx, doctor, patient.ID, "hola"); err != nil {
		t.Fatalf("doctor send: %v", err)
	}

	// No link to this stranger in either direction.
	stranger := auth.Actor{ID: uuid.New(), Role: auth.RoleDoctor}
	if _, err := svc.Send(ctx, patient, stranger.ID, "hola"); !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("unlinked send: got %v, want ErrForbidden", err)
	}

	admin := auth.Actor{ID: uuid.New(), Role: auth.RoleAdmin}
	if _, err := svc.Send(ctx, admin, patient.ID, "aviso"); err != nil {
		t.Errorf("admin send: %v", err)
	}
}

func TestSendValidation(t *testing.T) {
	svc, _, patient, doctor := newMessagingFixture()
	ctx := context.Background()

	if _, err := svc.Send(ctx, patient, doctor.ID, ""); err == nil {
		t.Error("empty body should fail")
	}
	if _, err := svc.Send(ctx, patient, patient.ID, "yo"); err == nil {
		t.Error("self-send should fail")
	}
	if _, err := svc.Send(ctx, patient, uuid.Nil, "x"); err == nil {
		t.Error("nil recipient should fail")
	}
}

func TestConversationNewestFirst(t *testing.T) {
	svc, _, patient, doctor := newMessagingFixture()
	ctx := context.Background()

	for _, body := range []string{"first", "second", "third"} {
		if _, err := svc.Send(ctx, patient, doctor.ID, body); err != nil {
			t.Fatalf("send %q: %v", body, err)
		}
	}
	if _, err := svc.Send(ctx, doctor, patient.ID, "reply"); err != nil {
		t.Fatalf("reply: %v", err)
	}

	msgs, total, err := svc.Conversation(ctx, doctor, patient.ID, 10, 0)
	if err != nil {
		t.Fatalf("conversation: %v", err)
	}
	if total != 4 {
		t.Errorf("total = %d, want 4", total)
	}
	if msgs[0].Body != "reply" || msgs[3].Body != "first" {
		t.Errorf("wrong order: %q ... %q", msgs[0].Body, msgs[3].Body)
	}
}

func TestConversationBetweenAdminOnly(t *testing.T) {
	svc, _, patient, doctor := newMessagingFixture()
	ctx := context.Background()

	if _, err := svc.Send(ctx, patient, doctor.ID, "hola"); err != nil {
		t.Fatalf("send: %v", err)
	}

	if _, _, err := svc.ConversationBetween(ctx, doctor, patient.ID, doctor.ID, 10, 0); !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("doctor inspect: got %v, want ErrForbidden", err)
	}
	admin := auth.Actor{ID: uuid.New(), Role: auth.RoleAdmin}
	msgs, _, err := svc.ConversationBetween(ctx, admin, patient.ID, doctor.ID, 10, 0)
	if err != nil || len(msgs) != 1 {
		t.Errorf("admin inspect: %v, %d messages", err, len(msgs))
	}
}

func TestMarkReadRecipientOnly(t *testing.T) {
	svc, _, patient, doctor := newMessagingFixture()
	ctx := context.Background()

	m, err := svc.Send(ctx, patient, doctor.ID, "hola")
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if _, err := svc.MarkRead(ctx, patient, m.ID); !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("sender mark read: got %v, want ErrForbidden", err)
	}

	read, err := svc.MarkRead(ctx, doctor, m.ID)
	if err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if !read.Read() {
		t.Error("message should be read")
	}

	// Idempotent.
	if _, err := svc.MarkRead(ctx, doctor, m.ID); err != nil {
		t.Errorf("second mark read: %v", err)
	}
}

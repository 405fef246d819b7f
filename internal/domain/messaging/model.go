// Package messaging carries direct messages between a patient and one of
// their doctors. Sending requires an active care link between the two users.
package messaging

import (
	"time"

	"github.com/google/uuid"
)

// Message maps to the messages table. Sender and recipient are user accounts.
type Message struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	SenderID    uuid.UUID  `db:"sender_id" json:"sender_id"`
	RecipientID uuid.UUID  `db:"recipient_id" json:"recipient_id"`
	Body        string     `db:"body" json:"body"`
	ReadAt      *time.Time `db:"read_at" json:"read_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// Read reports whether the recipient has seen the message.
func (m *Message) Read() bool {
	return m.ReadAt != nil
}

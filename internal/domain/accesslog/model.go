// Package accesslog keeps an append-only trail of API accesses: who did
// what, to which resource, from where.
package accesslog

import (
	"time"

	"github.com/google/uuid"
)

// Entry maps to the access_logs table. UserID is nil for unauthenticated
// requests that still reached an audited route.
type Entry struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	UserID    *uuid.UUID `db:"user_id" json:"user_id,omitempty"`
	Role      string     `db:"role" json:"role"`
	Action    string     `db:"action" json:"action"`
	Resource  string     `db:"resource" json:"resource"`
	Path      string     `db:"path" json:"path"`
	Method    string     `db:"method" json:"method"`
	IPAddress string     `db:"ip_address" json:"ip_address"`
	UserAgent string     `db:"user_agent" json:"user_agent"`
	Status    int        `db:"status" json:"status"`
	RequestID string     `db:"request_id" json:"request_id"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

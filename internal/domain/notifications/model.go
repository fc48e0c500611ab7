package notifications

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeInfo    = "info"
	TypeSuccess = "success"
	TypeError   = "error"
)

// Notification is a persisted message for one user. The websocket push is a
// best-effort copy of the same payload; the row here is the durable one.
type Notification struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Message   string    `db:"message" json:"message"`
	Type      string    `db:"type" json:"type"`
	IsRead    bool      `db:"is_read" json:"is_read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

func ValidType(t string) bool {
	switch t {
	case TypeInfo, TypeSuccess, TypeError:
		return true
	}
	return false
}

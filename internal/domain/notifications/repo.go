package notifications

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	// ListByUser returns the user's notifications, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Notification, int, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

// Pusher delivers a real-time copy of a stored notification. The platform
// websocket hub provides the implementation.
type Pusher interface {
	Push(ctx context.Context, userID string, n *Notification) error
}

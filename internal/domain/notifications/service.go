package notifications

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Service struct {
	repo   Repository
	pusher Pusher
	logger zerolog.Logger
}

func NewService(repo Repository, pusher Pusher, logger zerolog.Logger) *Service {
	return &Service{repo: repo, pusher: pusher, logger: logger}
}

// Notify persists a notification and then pushes a real-time copy. The push
// is best-effort; a failed or absent websocket session never fails the call,
// the stored row is what the user catches up from.
func (s *Service) Notify(ctx context.Context, userID uuid.UUID, message, typ string) (*Notification, error) {
	if message == "" {
		return nil, fmt.Errorf("message is required")
	}
	if !ValidType(typ) {
		return nil, fmt.Errorf("invalid notification type %q", typ)
	}

	n := &Notification{UserID: userID, Message: message, Type: typ}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}

	if err := s.pusher.Push(ctx, userID.String(), n); err != nil {
		s.logger.Warn().Err(err).
			Str("user_id", userID.String()).
			Str("notification_id", n.ID.String()).
			Msg("notification stored but push failed")
	}
	return n, nil
}

// ListFor returns the actor's own notifications, newest first.
func (s *Service) ListFor(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Notification, int, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// MarkAllRead flips every unread notification of the actor and reports how
// many were flipped.
func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}

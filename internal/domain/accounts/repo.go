package accounts

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
}

// SequenceRepository is the year-scoped MRN counter. Next must be a single
// atomic increment-and-return provided by the storage layer; implementations
// must never read the counter and write it back from application code.
type SequenceRepository interface {
	Next(ctx context.Context, year string) (int64, error)
}

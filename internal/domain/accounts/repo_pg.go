package accounts

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const accountCols = `id, name, email, password_hash, role, mrn, specialization, created_at, updated_at`

func scanAccount(row pgx.Row) (*Account, error) {
	var a Account
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Role,
		&a.MRN, &a.Specialization, &a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

func (r *repoPG) Create(ctx context.Context, a *Account) error {
	a.ID = uuid.New()
	err := r.pool.QueryRow(ctx, `
		INSERT INTO account (id, name, email, password_hash, role, mrn, specialization)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at`,
		a.ID, a.Name, a.Email, a.PasswordHash, a.Role, a.MRN, a.Specialization,
	).Scan(&a.CreatedAt, &a.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
		return ErrEmailTaken
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	a, err := scanAccount(r.pool.QueryRow(ctx,
		`SELECT `+accountCols+` FROM account WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return a, err
}

func (r *repoPG) GetByEmail(ctx context.Context, email string) (*Account, error) {
	a, err := scanAccount(r.pool.QueryRow(ctx,
		`SELECT `+accountCols+` FROM account WHERE email = $1`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return a, err
}

type sequenceRepoPG struct{ pool *pgxpool.Pool }

func NewSequenceRepoPG(pool *pgxpool.Pool) SequenceRepository { return &sequenceRepoPG{pool: pool} }

// Next performs the upsert-increment in a single statement so concurrent
// registrations for the same year each observe a distinct, gapless value.
func (r *sequenceRepoPG) Next(ctx context.Context, year string) (int64, error) {
	var seq int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO sequence_counter (year, seq) VALUES ($1, 1)
		ON CONFLICT (year) DO UPDATE SET seq = sequence_counter.seq + 1
		RETURNING seq`, year).Scan(&seq)
	if err != nil {
		return 0, err
	}
	return seq, nil
}

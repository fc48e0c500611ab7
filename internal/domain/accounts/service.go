package accounts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// Clock returns the current time; injectable so the year-rollover behavior of
// MRN issuance is testable.
type Clock func() time.Time

type Service struct {
	accounts  Repository
	sequences SequenceRepository
	mrnPrefix string
	now       Clock
	logger    zerolog.Logger
}

func NewService(accounts Repository, sequences SequenceRepository, mrnPrefix string, logger zerolog.Logger) *Service {
	return &Service{
		accounts:  accounts,
		sequences: sequences,
		mrnPrefix: mrnPrefix,
		now:       time.Now,
		logger:    logger,
	}
}

// WithClock overrides the service clock.
func (s *Service) WithClock(now Clock) *Service {
	s.now = now
	return s
}

type RegisterInput struct {
	Name           string
	Email          string
	Password       string
	Role           string
	Specialization *string
}

// Register creates a new account. Patients get an MRN issued from the
// year-scoped sequencer before the account is written: if issuance fails the
// whole registration fails, so an account can never exist without its MRN.
// The reverse gap (sequence issued, account write fails) only burns a number,
// never uniqueness.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Account, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("name, email and password are required")
	}

	role := in.Role
	if role == "" {
		role = RolePatient
	}
	if role != RolePatient {
		return nil, ErrInvalidRole
	}

	if _, err := s.accounts.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	year := s.now().Format("2006")
	seq, err := s.sequences.Next(ctx, year)
	if err != nil {
		s.logger.Error().Err(err).Str("year", year).Msg("MRN issuance failed, aborting registration")
		return nil, fmt.Errorf("%w: %v", ErrSequencerUnavailable, err)
	}
	mrn := FormatMRN(s.mrnPrefix, year, seq)

	a := &Account{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role,
		MRN:          &mrn,
	}
	if err := s.accounts.Create(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info().Str("account_id", a.ID.String()).Str("mrn", mrn).Msg("patient registered")
	return a, nil
}

// CreateStaff creates a doctor or admin account. Staff carry no MRN.
func (s *Service) CreateStaff(ctx context.Context, in RegisterInput) (*Account, error) {
	if in.Role != RoleDoctor && in.Role != RoleAdmin {
		return nil, ErrInvalidRole
	}
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("name, email and password are required")
	}

	if _, err := s.accounts.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	a := &Account{
		Name:           in.Name,
		Email:          in.Email,
		PasswordHash:   string(hash),
		Role:           in.Role,
		Specialization: in.Specialization,
	}
	if err := s.accounts.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Login verifies credentials and returns the account.
func (s *Service) Login(ctx context.Context, email, password string) (*Account, error) {
	a, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Account, error) {
	return s.accounts.GetByID(ctx, id)
}

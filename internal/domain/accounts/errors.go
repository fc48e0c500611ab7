package accounts

import "errors"

var (
	// ErrEmailTaken marks a registration against an email that already has
	// an account.
	ErrEmailTaken = errors.New("an account with this email already exists")

	// ErrInvalidCredentials marks a failed login. The message is shared
	// between unknown-email and wrong-password on purpose.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrSequencerUnavailable marks an MRN counter store failure. The
	// enclosing registration must fail as a whole: no MRN, no account.
	ErrSequencerUnavailable = errors.New("medical record number sequencer unavailable")

	// ErrInvalidRole marks a role outside the {patient, doctor, admin} set
	// for the requested operation.
	ErrInvalidRole = errors.New("invalid role")

	// ErrNotFound marks an unknown account identifier.
	ErrNotFound = errors.New("account not found")
)

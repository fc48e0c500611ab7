package appointments

import "errors"

var (
	// ErrInvalidReference marks an appointment created against an account
	// that does not exist or is not a doctor.
	ErrInvalidReference = errors.New("doctor reference does not resolve to a doctor account")

	// ErrForbidden marks a role/ownership denial. No state changes.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound marks an unknown appointment identifier.
	ErrNotFound = errors.New("appointment not found")

	// ErrInvalidTransition marks a state precondition failure, including a
	// lost race between two conflicting transitions. The caller should
	// refetch and retry.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidStatus marks a status value outside the enumeration.
	ErrInvalidStatus = errors.New("invalid appointment status")
)

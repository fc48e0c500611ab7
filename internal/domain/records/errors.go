package records

import "errors"

var (
	// ErrInvalidReference marks a patient reference that does not resolve
	// to a patient account.
	ErrInvalidReference = errors.New("referenced patient does not exist")

	// ErrNotFound marks an unknown record or profile identifier.
	ErrNotFound = errors.New("not found")

	// ErrForbidden marks an actor reading or writing outside their scope.
	ErrForbidden = errors.New("forbidden")
)

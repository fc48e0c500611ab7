package appointments

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	// UpdateStatus applies the transition only if the stored status still
	// equals from. It reports whether the conditional write took effect; a
	// false return means another writer got there first.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	List(ctx context.Context, limit, offset int) ([]*Appointment, int, error)
}

// AccountDirectory resolves account references; the accounts domain provides
// the implementation.
type AccountDirectory interface {
	Lookup(ctx context.Context, id uuid.UUID) (*AccountInfo, error)
}

// Notifier consumes transition events. Delivery is best-effort; the workflow
// never fails a request over a notifier error.
type Notifier interface {
	AppointmentChanged(ctx context.Context, ev TransitionEvent) error
}

package appointments

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Service struct {
	appts              Repository
	accounts           AccountDirectory
	notifier           Notifier
	allowPatientDelete bool
	logger             zerolog.Logger
}

func NewService(appts Repository, accounts AccountDirectory, notifier Notifier, allowPatientDelete bool, logger zerolog.Logger) *Service {
	return &Service{
		appts:              appts,
		accounts:           accounts,
		notifier:           notifier,
		allowPatientDelete: allowPatientDelete,
		logger:             logger,
	}
}

// Create books a new appointment in state Pending. The doctor reference must
// resolve to an account with role doctor.
func (s *Service) Create(ctx context.Context, patientID, doctorID uuid.UUID, date, visitTime, reason string) (*Appointment, error) {
	if date == "" {
		return nil, fmt.Errorf("date is required")
	}
	if visitTime == "" {
		return nil, fmt.Errorf("time is required")
	}

	doctor, err := s.accounts.Lookup(ctx, doctorID)
	if err != nil || doctor == nil || doctor.Role != "doctor" {
		return nil, ErrInvalidReference
	}

	a := &Appointment{
		PatientID: patientID,
		DoctorID:  doctorID,
		Date:      date,
		Time:      visitTime,
		Reason:    reason,
		Status:    StatusPending,
	}
	if err := s.appts.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.appts.GetByID(ctx, id)
}

// Transition moves an appointment to a new status on behalf of an actor.
// The decision table in gate.go is consulted with the actor's role and
// ownership; the write itself is conditioned on the loaded status so that of
// two concurrent conflicting transitions exactly one applies. Re-submitting
// the current status is a no-op and emits no event.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, actor Principal, to Status) (*Appointment, error) {
	if !ValidStatus(to) {
		return nil, ErrInvalidStatus
	}

	a, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	isOwner := a.PatientID == actor.ID
	if actor.Role == "patient" && !isOwner {
		return nil, ErrForbidden
	}

	if a.Status == to {
		return a, nil
	}

	if !CanTransition(actor.Role, a.Status, to, isOwner) {
		// Distinguish "nobody may do this" from "not you": a transition
		// absent from the table is a state error, not a permission one.
		if !transitionExists(a.Status, to) {
			return nil, ErrInvalidTransition
		}
		return nil, ErrForbidden
	}

	applied, err := s.appts.UpdateStatus(ctx, id, a.Status, to)
	if err != nil {
		return nil, err
	}
	if !applied {
		// Lost the race: another writer moved the appointment first.
		return nil, ErrInvalidTransition
	}
	a.Status = to

	// The status write is durable; notification delivery is a best-effort
	// follow-up and never rolls it back.
	ev := TransitionEvent{
		AppointmentID: a.ID,
		PatientID:     a.PatientID,
		DoctorID:      a.DoctorID,
		NewStatus:     to,
		ActorName:     actor.Name,
	}
	if err := s.notifier.AppointmentChanged(ctx, ev); err != nil {
		s.logger.Error().Err(err).
			Str("appointment_id", a.ID.String()).
			Str("new_status", string(to)).
			Msg("transition applied but notification failed")
	}

	return a, nil
}

func transitionExists(from, to Status) bool {
	_, ok := allowedRoles[transition{from, to}]
	return ok
}

// Delete removes an appointment. Admin may always delete; the owning patient
// may when the loose delete policy is enabled. Deletion is not a transition
// and emits no event.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, actor Principal) error {
	a, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return err
	}

	switch {
	case actor.Role == "admin":
	case actor.Role == "patient" && s.allowPatientDelete && a.PatientID == actor.ID:
	default:
		return ErrForbidden
	}

	return s.appts.Delete(ctx, id)
}

// ListFor returns the appointments visible to the actor: own bookings for a
// patient, assigned visits for a doctor, everything for admin.
func (s *Service) ListFor(ctx context.Context, actor Principal, limit, offset int) ([]*Appointment, int, error) {
	switch actor.Role {
	case "patient":
		return s.appts.ListByPatient(ctx, actor.ID, limit, offset)
	case "doctor":
		return s.appts.ListByDoctor(ctx, actor.ID, limit, offset)
	default:
		return s.appts.List(ctx, limit, offset)
	}
}

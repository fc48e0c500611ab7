package notifications

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/smartclinic/api/internal/domain/appointments"
)

// Dispatcher turns appointment transition events into stored notifications
// for the patient. It implements appointments.Notifier.
type Dispatcher struct {
	svc    *Service
	logger zerolog.Logger
}

func NewDispatcher(svc *Service, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{svc: svc, logger: logger}
}

func (d *Dispatcher) AppointmentChanged(ctx context.Context, ev appointments.TransitionEvent) error {
	var typ, verb string
	switch ev.NewStatus {
	case appointments.StatusConfirmed:
		typ, verb = TypeSuccess, "confirmed"
	case appointments.StatusCancelled:
		typ, verb = TypeError, "cancelled"
	case appointments.StatusCompleted:
		typ, verb = TypeInfo, "completed"
	default:
		typ, verb = TypeInfo, "updated"
	}

	msg := fmt.Sprintf("Your appointment was %s by %s.", verb, ev.ActorName)
	if _, err := d.svc.Notify(ctx, ev.PatientID, msg, typ); err != nil {
		return fmt.Errorf("notify patient: %w", err)
	}
	return nil
}

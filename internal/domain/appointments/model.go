package appointments

import (
	"time"

	"github.com/google/uuid"
)

// Status is the appointment lifecycle state. Pending is the initial state;
// Completed and Cancelled are terminal.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusConfirmed Status = "Confirmed"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

var validStatuses = map[Status]bool{
	StatusPending:   true,
	StatusConfirmed: true,
	StatusCompleted: true,
	StatusCancelled: true,
}

// ValidStatus reports whether s is a member of the status enumeration.
func ValidStatus(s Status) bool {
	return validStatuses[s]
}

// Appointment links one patient and one doctor at a date/time.
type Appointment struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	DoctorID  uuid.UUID `db:"doctor_id" json:"doctor_id"`
	Date      string    `db:"visit_date" json:"date"`
	Time      string    `db:"visit_time" json:"time"`
	Reason    string    `db:"reason" json:"reason"`
	Status    Status    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TransitionEvent is produced when an appointment's status actually changes.
// It is the only coupling between the workflow and notification delivery.
type TransitionEvent struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	PatientID     uuid.UUID `json:"patient_id"`
	DoctorID      uuid.UUID `json:"doctor_id"`
	NewStatus     Status    `json:"new_status"`
	ActorName     string    `json:"actor_name"`
}

// Principal is the authenticated caller, as attached by the auth layer.
type Principal struct {
	ID   uuid.UUID
	Role string
	Name string
}

// AccountInfo is the minimal account projection the workflow needs from the
// account directory.
type AccountInfo struct {
	ID   uuid.UUID
	Name string
	Role string
}

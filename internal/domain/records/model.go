package records

import (
	"time"

	"github.com/google/uuid"
)

// ClinicalRecord is an immutable entry in a patient's history. Records are
// only ever created; corrections happen by appending a new record.
type ClinicalRecord struct {
	ID           uuid.UUID `db:"id" json:"id"`
	PatientID    uuid.UUID `db:"patient_id" json:"patient_id"`
	DoctorID     uuid.UUID `db:"doctor_id" json:"doctor_id"`
	Diagnosis    string    `db:"diagnosis" json:"diagnosis"`
	Prescription string    `db:"prescription" json:"prescription,omitempty"`
	Notes        string    `db:"notes" json:"notes,omitempty"`
	VisitDate    string    `db:"visit_date" json:"visit_date"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// PatientProfile carries clinical metadata plus visit aggregates. The
// metadata is maintained by staff through profile updates; the aggregate
// fields are owned by the record workflow and advance only through
// Repository.RecordVisit, never through profile updates.
type PatientProfile struct {
	PatientID           uuid.UUID  `db:"patient_id" json:"patient_id"`
	BloodGroup          *string    `db:"blood_group" json:"blood_group,omitempty"`
	Allergies           []string   `db:"allergies" json:"allergies,omitempty"`
	ChronicConditions   []string   `db:"chronic_conditions" json:"chronic_conditions,omitempty"`
	Medications         []string   `db:"medications" json:"medications,omitempty"`
	VaccinationStatus   *string    `db:"vaccination_status" json:"vaccination_status,omitempty"`
	AssignedDoctorID    *uuid.UUID `db:"assigned_doctor_id" json:"assigned_doctor_id,omitempty"`
	PreviousVisitsCount int64      `db:"previous_visits_count" json:"previous_visits_count"`
	LastVisitDate       *string    `db:"last_visit_date" json:"last_visit_date,omitempty"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updated_at"`
}

// ProfileUpdate is the metadata patch staff may apply. There is deliberately
// no way to express the aggregate fields here.
type ProfileUpdate struct {
	BloodGroup        *string    `json:"blood_group,omitempty"`
	Allergies         []string   `json:"allergies,omitempty"`
	ChronicConditions []string   `json:"chronic_conditions,omitempty"`
	Medications       []string   `json:"medications,omitempty"`
	VaccinationStatus *string    `json:"vaccination_status,omitempty"`
	AssignedDoctorID  *uuid.UUID `json:"assigned_doctor_id,omitempty"`
}

// AccountInfo is the slice of an account the record workflow needs.
type AccountInfo struct {
	ID   uuid.UUID
	Role string
}

package records

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, r *ClinicalRecord) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*ClinicalRecord, int, error)
}

// ProfileRepository stores patient profiles. RecordVisit must be a single
// atomic increment provided by the storage layer; the visit counter is never
// read back and rewritten from application code.
type ProfileRepository interface {
	Get(ctx context.Context, patientID uuid.UUID) (*PatientProfile, error)
	Update(ctx context.Context, patientID uuid.UUID, upd ProfileUpdate) (*PatientProfile, error)
	// RecordVisit bumps previous_visits_count by one and sets
	// last_visit_date, creating the profile row if it does not exist yet.
	RecordVisit(ctx context.Context, patientID uuid.UUID, visitDate string) error
}

// AccountDirectory resolves account references; the accounts domain provides
// the implementation.
type AccountDirectory interface {
	Lookup(ctx context.Context, id uuid.UUID) (*AccountInfo, error)
}

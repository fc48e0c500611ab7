package records

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Service struct {
	records  Repository
	profiles ProfileRepository
	accounts AccountDirectory
	logger   zerolog.Logger
}

func NewService(records Repository, profiles ProfileRepository, accounts AccountDirectory, logger zerolog.Logger) *Service {
	return &Service{
		records:  records,
		profiles: profiles,
		accounts: accounts,
		logger:   logger,
	}
}

// AddRecord appends a clinical record and then advances the patient's visit
// aggregate exactly once. The aggregate bump runs only after the record write
// is durable; if it fails the record stands and the miss is logged for
// reconciliation rather than rolling the record back.
func (s *Service) AddRecord(ctx context.Context, doctorID uuid.UUID, rec *ClinicalRecord) (*ClinicalRecord, error) {
	if rec.Diagnosis == "" {
		return nil, fmt.Errorf("diagnosis is required")
	}
	if rec.VisitDate == "" {
		return nil, fmt.Errorf("visit_date is required")
	}

	patient, err := s.accounts.Lookup(ctx, rec.PatientID)
	if err != nil || patient == nil || patient.Role != "patient" {
		return nil, ErrInvalidReference
	}

	rec.DoctorID = doctorID
	if err := s.records.Create(ctx, rec); err != nil {
		return nil, err
	}

	if err := s.profiles.RecordVisit(ctx, rec.PatientID, rec.VisitDate); err != nil {
		s.logger.Error().Err(err).
			Str("patient_id", rec.PatientID.String()).
			Str("record_id", rec.ID.String()).
			Msg("record created but visit aggregate update failed")
	}
	return rec, nil
}

// ListFor returns a patient's history. Patients see only their own.
func (s *Service) ListFor(ctx context.Context, actorID uuid.UUID, actorRole string, patientID uuid.UUID, limit, offset int) ([]*ClinicalRecord, int, error) {
	if actorRole == "patient" && actorID != patientID {
		return nil, 0, ErrForbidden
	}
	return s.records.ListByPatient(ctx, patientID, limit, offset)
}

// GetProfile returns the profile for a patient, materializing an empty one
// for patients that have no row yet.
func (s *Service) GetProfile(ctx context.Context, actorID uuid.UUID, actorRole string, patientID uuid.UUID) (*PatientProfile, error) {
	if actorRole == "patient" && actorID != patientID {
		return nil, ErrForbidden
	}

	p, err := s.profiles.Get(ctx, patientID)
	if errors.Is(err, ErrNotFound) {
		patient, lerr := s.accounts.Lookup(ctx, patientID)
		if lerr != nil || patient == nil || patient.Role != "patient" {
			return nil, ErrNotFound
		}
		return &PatientProfile{PatientID: patientID}, nil
	}
	return p, err
}

// UpdateProfile patches the clinical metadata. Only staff maintain it;
// the visit aggregates cannot be written through this path.
func (s *Service) UpdateProfile(ctx context.Context, actorRole string, patientID uuid.UUID, upd ProfileUpdate) (*PatientProfile, error) {
	if actorRole != "doctor" && actorRole != "admin" {
		return nil, ErrForbidden
	}

	patient, err := s.accounts.Lookup(ctx, patientID)
	if err != nil || patient == nil || patient.Role != "patient" {
		return nil, ErrInvalidReference
	}
	return s.profiles.Update(ctx, patientID, upd)
}

package records

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const recordCols = `id, patient_id, doctor_id, diagnosis, prescription, notes, visit_date, created_at`

func scanRecord(row pgx.Row) (*ClinicalRecord, error) {
	var rec ClinicalRecord
	err := row.Scan(&rec.ID, &rec.PatientID, &rec.DoctorID, &rec.Diagnosis,
		&rec.Prescription, &rec.Notes, &rec.VisitDate, &rec.CreatedAt)
	return &rec, err
}

func (r *repoPG) Create(ctx context.Context, rec *ClinicalRecord) error {
	rec.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO clinical_record (id, patient_id, doctor_id, diagnosis, prescription, notes, visit_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at`,
		rec.ID, rec.PatientID, rec.DoctorID, rec.Diagnosis, rec.Prescription, rec.Notes, rec.VisitDate,
	).Scan(&rec.CreatedAt)
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*ClinicalRecord, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM clinical_record WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+recordCols+` FROM clinical_record
		WHERE patient_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*ClinicalRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, rec)
	}
	return items, total, rows.Err()
}

type profileRepoPG struct{ pool *pgxpool.Pool }

func NewProfileRepoPG(pool *pgxpool.Pool) ProfileRepository { return &profileRepoPG{pool: pool} }

const profileCols = `patient_id, blood_group, allergies, chronic_conditions, medications, vaccination_status, assigned_doctor_id, previous_visits_count, last_visit_date, updated_at`

func scanProfile(row pgx.Row) (*PatientProfile, error) {
	var p PatientProfile
	err := row.Scan(&p.PatientID, &p.BloodGroup, &p.Allergies, &p.ChronicConditions,
		&p.Medications, &p.VaccinationStatus, &p.AssignedDoctorID,
		&p.PreviousVisitsCount, &p.LastVisitDate, &p.UpdatedAt)
	return &p, err
}

func (r *profileRepoPG) Get(ctx context.Context, patientID uuid.UUID) (*PatientProfile, error) {
	p, err := scanProfile(r.pool.QueryRow(ctx,
		`SELECT `+profileCols+` FROM patient_profile WHERE patient_id = $1`, patientID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

// Update patches the staff-maintained metadata. COALESCE keeps unset fields
// untouched; the aggregate columns are not reachable from here.
func (r *profileRepoPG) Update(ctx context.Context, patientID uuid.UUID, upd ProfileUpdate) (*PatientProfile, error) {
	p, err := scanProfile(r.pool.QueryRow(ctx, `
		INSERT INTO patient_profile (patient_id, blood_group, allergies, chronic_conditions, medications, vaccination_status, assigned_doctor_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (patient_id) DO UPDATE SET
			blood_group = COALESCE(EXCLUDED.blood_group, patient_profile.blood_group),
			allergies = COALESCE(EXCLUDED.allergies, patient_profile.allergies),
			chronic_conditions = COALESCE(EXCLUDED.chronic_conditions, patient_profile.chronic_conditions),
			medications = COALESCE(EXCLUDED.medications, patient_profile.medications),
			vaccination_status = COALESCE(EXCLUDED.vaccination_status, patient_profile.vaccination_status),
			assigned_doctor_id = COALESCE(EXCLUDED.assigned_doctor_id, patient_profile.assigned_doctor_id),
			updated_at = NOW()
		RETURNING `+profileCols,
		patientID, upd.BloodGroup, upd.Allergies, upd.ChronicConditions,
		upd.Medications, upd.VaccinationStatus, upd.AssignedDoctorID))
	return p, err
}

// RecordVisit is the single-statement aggregate bump: concurrent record
// creations for the same patient each add exactly one to the counter.
func (r *profileRepoPG) RecordVisit(ctx context.Context, patientID uuid.UUID, visitDate string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO patient_profile (patient_id, previous_visits_count, last_visit_date)
		VALUES ($1, 1, $2)
		ON CONFLICT (patient_id) DO UPDATE SET
			previous_visits_count = patient_profile.previous_visits_count + 1,
			last_visit_date = EXCLUDED.last_visit_date,
			updated_at = NOW()`,
		patientID, visitDate)
	return err
}

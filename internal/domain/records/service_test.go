package records

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	mu       sync.Mutex
	items    []*ClinicalRecord
	failNext error
}

func (m *mockRepo) Create(_ context.Context, rec *ClinicalRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}
	rec.ID = uuid.New()
	rec.CreatedAt = time.Now()
	cp := *rec
	m.items = append(m.items, &cp)
	return nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*ClinicalRecord, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*ClinicalRecord
	for _, rec := range m.items {
		if rec.PatientID == patientID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	total := len(out)
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, total, nil
}

// mockProfileRepo mirrors the storage contract: RecordVisit is one atomic
// increment per call.
type mockProfileRepo struct {
	mu        sync.Mutex
	profiles  map[uuid.UUID]*PatientProfile
	failVisit bool
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{profiles: make(map[uuid.UUID]*PatientProfile)}
}

func (m *mockProfileRepo) Get(_ context.Context, patientID uuid.UUID) (*PatientProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[patientID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockProfileRepo) Update(_ context.Context, patientID uuid.UUID, upd ProfileUpdate) (*PatientProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[patientID]
	if !ok {
		p = &PatientProfile{PatientID: patientID}
		m.profiles[patientID] = p
	}
	if upd.BloodGroup != nil {
		p.BloodGroup = upd.BloodGroup
	}
	if upd.Allergies != nil {
		p.Allergies = upd.Allergies
	}
	if upd.ChronicConditions != nil {
		p.ChronicConditions = upd.ChronicConditions
	}
	if upd.Medications != nil {
		p.Medications = upd.Medications
	}
	if upd.VaccinationStatus != nil {
		p.VaccinationStatus = upd.VaccinationStatus
	}
	if upd.AssignedDoctorID != nil {
		p.AssignedDoctorID = upd.AssignedDoctorID
	}
	p.UpdatedAt = time.Now()
	cp := *p
	return &cp, nil
}

func (m *mockProfileRepo) RecordVisit(_ context.Context, patientID uuid.UUID, visitDate string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failVisit {
		return errors.New("connection refused")
	}
	p, ok := m.profiles[patientID]
	if !ok {
		p = &PatientProfile{PatientID: patientID}
		m.profiles[patientID] = p
	}
	p.PreviousVisitsCount++
	p.LastVisitDate = &visitDate
	return nil
}

type mockDirectory struct {
	accounts map[uuid.UUID]*AccountInfo
}

func (m *mockDirectory) Lookup(_ context.Context, id uuid.UUID) (*AccountInfo, error) {
	a, ok := m.accounts[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return a, nil
}

type fixture struct {
	svc      *Service
	records  *mockRepo
	profiles *mockProfileRepo
	patient  uuid.UUID
	doctor   uuid.UUID
}

func newFixture() *fixture {
	patient := uuid.New()
	doctor := uuid.New()
	records := &mockRepo{}
	profiles := newMockProfileRepo()
	dir := &mockDirectory{accounts: map[uuid.UUID]*AccountInfo{
		patient: {ID: patient, Role: "patient"},
		doctor:  {ID: doctor, Role: "doctor"},
	}}
	return &fixture{
		svc:      NewService(records, profiles, dir, zerolog.Nop()),
		records:  records,
		profiles: profiles,
		patient:  patient,
		doctor:   doctor,
	}
}

func TestAddRecordAdvancesAggregate(t *testing.T) {
	f := newFixture()

	rec, err := f.svc.AddRecord(context.Background(), f.doctor, &ClinicalRecord{
		PatientID: f.patient,
		Diagnosis: "Seasonal allergies",
		VisitDate: "2026-03-01",
	})
	require.NoError(t, err)
	assert.Equal(t, f.doctor, rec.DoctorID)

	p, err := f.svc.GetProfile(context.Background(), f.doctor, "doctor", f.patient)
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.PreviousVisitsCount)
	require.NotNil(t, p.LastVisitDate)
	assert.Equal(t, "2026-03-01", *p.LastVisitDate)
}

func TestAddRecordConcurrentCountMatches(t *testing.T) {
	f := newFixture()

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.svc.AddRecord(context.Background(), f.doctor, &ClinicalRecord{
				PatientID: f.patient,
				Diagnosis: fmt.Sprintf("Visit %d", i),
				VisitDate: "2026-03-01",
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	items, total, err := f.svc.ListFor(context.Background(), f.doctor, "doctor", f.patient, 100, 0)
	require.NoError(t, err)
	assert.Len(t, items, n)
	assert.Equal(t, n, total)

	p, err := f.svc.GetProfile(context.Background(), f.doctor, "doctor", f.patient)
	require.NoError(t, err)
	assert.Equal(t, int64(n), p.PreviousVisitsCount, "visit count must equal record count")
}

func TestAddRecordUnknownPatient(t *testing.T) {
	f := newFixture()

	_, err := f.svc.AddRecord(context.Background(), f.doctor, &ClinicalRecord{
		PatientID: uuid.New(),
		Diagnosis: "Seasonal allergies",
		VisitDate: "2026-03-01",
	})
	assert.ErrorIs(t, err, ErrInvalidReference)

	// A doctor account is not a valid record subject either.
	_, err = f.svc.AddRecord(context.Background(), f.doctor, &ClinicalRecord{
		PatientID: f.doctor,
		Diagnosis: "Seasonal allergies",
		VisitDate: "2026-03-01",
	})
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestAddRecordAggregateFailureKeepsRecord(t *testing.T) {
	f := newFixture()
	f.profiles.failVisit = true

	rec, err := f.svc.AddRecord(context.Background(), f.doctor, &ClinicalRecord{
		PatientID: f.patient,
		Diagnosis: "Seasonal allergies",
		VisitDate: "2026-03-01",
	})
	require.NoError(t, err, "the record write is durable even when the aggregate bump fails")
	assert.NotEqual(t, uuid.Nil, rec.ID)

	_, total, err := f.svc.ListFor(context.Background(), f.doctor, "doctor", f.patient, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestListForPatientScope(t *testing.T) {
	f := newFixture()
	other := uuid.New()

	_, _, err := f.svc.ListFor(context.Background(), f.patient, "patient", other, 10, 0)
	assert.ErrorIs(t, err, ErrForbidden)

	_, _, err = f.svc.ListFor(context.Background(), f.patient, "patient", f.patient, 10, 0)
	assert.NoError(t, err)
}

func TestGetProfileMaterializesEmpty(t *testing.T) {
	f := newFixture()

	p, err := f.svc.GetProfile(context.Background(), f.patient, "patient", f.patient)
	require.NoError(t, err)
	assert.Equal(t, int64(0), p.PreviousVisitsCount)
	assert.Nil(t, p.LastVisitDate)

	_, err = f.svc.GetProfile(context.Background(), f.doctor, "doctor", uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProfileMetadataOnly(t *testing.T) {
	f := newFixture()

	_, err := f.svc.AddRecord(context.Background(), f.doctor, &ClinicalRecord{
		PatientID: f.patient,
		Diagnosis: "Checkup",
		VisitDate: "2026-03-01",
	})
	require.NoError(t, err)

	bg := "O+"
	p, err := f.svc.UpdateProfile(context.Background(), "doctor", f.patient, ProfileUpdate{
		BloodGroup: &bg,
		Allergies:  []string{"penicillin"},
	})
	require.NoError(t, err)
	require.NotNil(t, p.BloodGroup)
	assert.Equal(t, bg, *p.BloodGroup)
	assert.Equal(t, []string{"penicillin"}, p.Allergies)
	assert.Equal(t, int64(1), p.PreviousVisitsCount, "metadata update must not touch the aggregate")

	// Only staff maintain the profile metadata.
	_, err = f.svc.UpdateProfile(context.Background(), "patient", f.patient, ProfileUpdate{BloodGroup: &bg})
	assert.ErrorIs(t, err, ErrForbidden)
}

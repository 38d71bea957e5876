package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Stranger261/hospital-er-api/internal/model"
)

// PatientStore is an in-memory PatientRepository.
type PatientStore struct {
	mu       sync.Mutex
	patients map[uuid.UUID]*model.Patient
	records  map[uuid.UUID][]*model.MedicalRecord
	tempSeq  int64
	mrnSeq   int64
}

func NewPatientStore() *PatientStore {
	return &PatientStore{
		patients: make(map[uuid.UUID]*model.Patient),
		records:  make(map[uuid.UUID][]*model.MedicalRecord),
	}
}

func (s *PatientStore) Create(_ context.Context, patient *model.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *patient
	s.patients[patient.ID] = &cp
	return nil
}

func (s *PatientStore) Get(_ context.Context, id uuid.UUID) (*model.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.patients[id]
	if !ok || p.DeletedAt != nil {
		return nil, errNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *PatientStore) Update(_ context.Context, patient *model.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.patients[patient.ID]; !ok {
		return errNotFound
	}
	cp := *patient
	s.patients[patient.ID] = &cp
	return nil
}

func (s *PatientStore) Deactivate(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.patients[id]
	if !ok {
		return errNotFound
	}
	p.Status = string(model.PatientStatusInactive)
	now := time.Now()
	p.DeletedAt = &now
	return nil
}

func (s *PatientStore) List(_ context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*model.Patient
	for _, p := range s.patients {
		if p.DeletedAt != nil {
			continue
		}
		if filters != nil {
			if filters.Status != "" && p.Status != string(filters.Status) {
				continue
			}
			if filters.TemporaryOnly && !p.IsTemporary() {
				continue
			}
			if term := strings.ToLower(filters.SearchTerm); term != "" {
				hay := strings.ToLower(p.FirstName + " " + p.LastName + " " + p.MRN)
				if !strings.Contains(hay, term) {
					continue
				}
			}
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MRN < out[j].MRN })
	return out, nil
}

func (s *PatientStore) NextTempSequence(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tempSeq++
	return s.tempSeq, nil
}

func (s *PatientStore) NextMRNSequence(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mrnSeq++
	return s.mrnSeq, nil
}

func (s *PatientStore) GetMedicalRecords(_ context.Context, patientID uuid.UUID) ([]*model.MedicalRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs := s.records[patientID]
	out := make([]*model.MedicalRecord, 0, len(recs))
	for _, r := range recs {
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func (s *PatientStore) AddMedicalRecord(_ context.Context, record *model.MedicalRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *record
	s.records[record.PatientID] = append(s.records[record.PatientID], &cp)
	return nil
}

// StaffStore is an in-memory StaffRepository.
type StaffStore struct {
	mu    sync.Mutex
	staff map[uuid.UUID]*model.Staff
}

func NewStaffStore() *StaffStore {
	return &StaffStore{staff: make(map[uuid.UUID]*model.Staff)}
}

func (s *StaffStore) Create(_ context.Context, staff *model.Staff) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *staff
	s.staff[staff.ID] = &cp
	return nil
}

func (s *StaffStore) Get(_ context.Context, id uuid.UUID) (*model.Staff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.staff[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *StaffStore) GetByEmail(_ context.Context, email string) (*model.Staff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.staff {
		if strings.EqualFold(m.Email, email) {
			cp := *m
			return &cp, nil
		}
	}
	return nil, errNotFound
}

// Package memory provides map-backed implementations of the repository
// interfaces. The service tests run against these instead of Postgres; the
// stores mirror the row-level semantics of the postgres package (nil for
// missing triage/disposition lookups, least-loaded ordering for doctors).
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Stranger261/hospital-er-api/internal/model"
)

var errNotFound = errors.New("no rows in result set")

// VisitStore is an in-memory VisitRepository.
type VisitStore struct {
	mu     sync.Mutex
	visits map[uuid.UUID]*model.ERVisit
	seq    map[int]int64
}

func NewVisitStore() *VisitStore {
	return &VisitStore{
		visits: make(map[uuid.UUID]*model.ERVisit),
		seq:    make(map[int]int64),
	}
}

func (s *VisitStore) Create(_ context.Context, visit *model.ERVisit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *visit
	s.visits[visit.ID] = &cp
	return nil
}

func (s *VisitStore) Get(_ context.Context, id uuid.UUID) (*model.ERVisit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.visits[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *v
	return &cp, nil
}

func (s *VisitStore) List(_ context.Context, filters *model.ERVisitFilters) ([]*model.ERVisit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*model.ERVisit
	for _, v := range s.visits {
		if filters != nil {
			if filters.Status != "" && v.ERStatus != filters.Status {
				continue
			}
			if filters.TriageLevel != 0 && v.TriageLevel != filters.TriageLevel {
				continue
			}
			if filters.PatientID != uuid.Nil && v.PatientID != filters.PatientID {
				continue
			}
			if !filters.Date.IsZero() {
				y1, m1, d1 := v.ArrivalTime.Date()
				y2, m2, d2 := filters.Date.Date()
				if y1 != y2 || m1 != m2 || d1 != d2 {
					continue
				}
			}
			if filters.Active && v.ERStatus.IsTerminal() {
				continue
			}
		}
		cp := *v
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		li, lj := out[i].TriageLevel, out[j].TriageLevel
		if li == 0 {
			li = 6
		}
		if lj == 0 {
			lj = 6
		}
		if li != lj {
			return li < lj
		}
		return out[i].ArrivalTime.Before(out[j].ArrivalTime)
	})
	return out, nil
}

func (s *VisitStore) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*model.ERVisit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*model.ERVisit
	for _, v := range s.visits {
		if v.PatientID == patientID {
			cp := *v
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ArrivalTime.After(out[j].ArrivalTime)
	})
	return out, nil
}

func (s *VisitStore) UpdateStatus(_ context.Context, id uuid.UUID, status model.ERStatus, dispositionType *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.visits[id]
	if !ok {
		return errNotFound
	}
	v.ERStatus = status
	if dispositionType != nil {
		v.DispositionType = dispositionType
	}
	v.UpdatedAt = time.Now()
	return nil
}

func (s *VisitStore) SetDoctor(_ context.Context, id uuid.UUID, doctorID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.visits[id]
	if !ok {
		return errNotFound
	}
	v.ERDoctorID = &doctorID
	return nil
}

func (s *VisitStore) ClearDoctor(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.visits[id]
	if !ok {
		return errNotFound
	}
	v.ERDoctorID = nil
	return nil
}

func (s *VisitStore) SetTriage(_ context.Context, id uuid.UUID, triageID uuid.UUID, triageLevel int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.visits[id]
	if !ok {
		return errNotFound
	}
	v.TriageID = &triageID
	v.TriageLevel = triageLevel
	return nil
}

func (s *VisitStore) TransferToPatient(_ context.Context, fromPatientID, toPatientID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.visits {
		if v.PatientID == fromPatientID {
			v.PatientID = toPatientID
		}
	}
	return nil
}

func (s *VisitStore) NextERSequence(_ context.Context, year int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq[year]++
	return s.seq[year], nil
}

func (s *VisitStore) CountsByStatusAndLevel(_ context.Context, since time.Time) (*model.BoardStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := &model.BoardStats{
		ByStatus:      make(map[string]int),
		ByTriageLevel: make(map[int]int),
	}
	var waitSum float64
	var waiting int
	now := time.Now()
	for _, v := range s.visits {
		if v.ArrivalTime.Before(since) {
			continue
		}
		stats.Total++
		stats.ByStatus[string(v.ERStatus)]++
		if v.TriageLevel > 0 {
			stats.ByTriageLevel[v.TriageLevel]++
		}
		if v.ERStatus == model.ERStatusWaiting {
			waitSum += now.Sub(v.ArrivalTime).Minutes()
			waiting++
			if v.TriageID == nil {
				stats.PendingTriage++
			}
		}
		if v.TriageID != nil && v.ERDoctorID == nil && !v.ERStatus.IsTerminal() {
			stats.PendingAssign++
		}
	}
	if waiting > 0 {
		stats.AvgWaitMinutes = waitSum / float64(waiting)
	}
	return stats, nil
}

// TriageStore is an in-memory TriageRepository.
type TriageStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]*model.TriageRecord
}

func NewTriageStore() *TriageStore {
	return &TriageStore{records: make(map[uuid.UUID]*model.TriageRecord)}
}

func (s *TriageStore) Create(_ context.Context, triage *model.TriageRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *triage
	s.records[triage.ID] = &cp
	return nil
}

func (s *TriageStore) Get(_ context.Context, id uuid.UUID) (*model.TriageRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.records[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *TriageStore) GetByVisit(_ context.Context, visitID uuid.UUID) (*model.TriageRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.records {
		if t.VisitID == visitID {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *TriageStore) Update(_ context.Context, triage *model.TriageRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[triage.ID]; !ok {
		return errNotFound
	}
	cp := *triage
	s.records[triage.ID] = &cp
	return nil
}

// TreatmentStore is an in-memory TreatmentRepository.
type TreatmentStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]*model.TreatmentRecord
}

func NewTreatmentStore() *TreatmentStore {
	return &TreatmentStore{records: make(map[uuid.UUID]*model.TreatmentRecord)}
}

func (s *TreatmentStore) Create(_ context.Context, treatment *model.TreatmentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *treatment
	s.records[treatment.ID] = &cp
	return nil
}

func (s *TreatmentStore) Get(_ context.Context, id uuid.UUID) (*model.TreatmentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.records[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *TreatmentStore) Update(_ context.Context, treatment *model.TreatmentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[treatment.ID]; !ok {
		return errNotFound
	}
	cp := *treatment
	s.records[treatment.ID] = &cp
	return nil
}

func (s *TreatmentStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return errNotFound
	}
	delete(s.records, id)
	return nil
}

func (s *TreatmentStore) ListByVisit(_ context.Context, visitID uuid.UUID) ([]*model.TreatmentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.TreatmentRecord
	for _, t := range s.records {
		if t.VisitID == visitID {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// DispositionStore is an in-memory DispositionRepository.
type DispositionStore struct {
	mu      sync.Mutex
	byVisit map[uuid.UUID]*model.Disposition
}

func NewDispositionStore() *DispositionStore {
	return &DispositionStore{byVisit: make(map[uuid.UUID]*model.Disposition)}
}

func (s *DispositionStore) Create(_ context.Context, disposition *model.Disposition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *disposition
	s.byVisit[disposition.VisitID] = &cp
	return nil
}

func (s *DispositionStore) GetByVisit(_ context.Context, visitID uuid.UUID) (*model.Disposition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.byVisit[visitID]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

// DoctorStore is an in-memory DoctorRepository. List returns doctors ordered
// least-loaded first, matching the auto-dispatch contract.
type DoctorStore struct {
	mu      sync.Mutex
	doctors map[uuid.UUID]*model.ERDoctor
}

func NewDoctorStore() *DoctorStore {
	return &DoctorStore{doctors: make(map[uuid.UUID]*model.ERDoctor)}
}

func (s *DoctorStore) Create(_ context.Context, doctor *model.ERDoctor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *doctor
	s.doctors[doctor.ID] = &cp
	return nil
}

func (s *DoctorStore) Get(_ context.Context, id uuid.UUID) (*model.ERDoctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.doctors[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *d
	return &cp, nil
}

func (s *DoctorStore) List(_ context.Context, filters *model.ERDoctorFilters) ([]*model.ERDoctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*model.ERDoctor
	for _, d := range s.doctors {
		if filters != nil {
			if filters.OnShiftOnly && !d.IsOnShift {
				continue
			}
			if filters.AvailableOnly && (!d.IsOnShift || !d.IsAvailable) {
				continue
			}
		}
		cp := *d
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ActivePatients != out[j].ActivePatients {
			return out[i].ActivePatients < out[j].ActivePatients
		}
		return out[i].LastName < out[j].LastName
	})
	return out, nil
}

func (s *DoctorStore) SetShift(_ context.Context, id uuid.UUID, onShift bool, start, end *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.doctors[id]
	if !ok {
		return errNotFound
	}
	d.IsOnShift = onShift
	d.IsAvailable = onShift
	d.ShiftStart = start
	d.ShiftEnd = end
	return nil
}

func (s *DoctorStore) SetAvailability(_ context.Context, id uuid.UUID, available bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.doctors[id]
	if !ok {
		return errNotFound
	}
	d.IsAvailable = available
	return nil
}

func (s *DoctorStore) IncrementActivePatients(_ context.Context, id uuid.UUID, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.doctors[id]
	if !ok {
		return errNotFound
	}
	d.ActivePatients += delta
	if d.ActivePatients < 0 {
		d.ActivePatients = 0
	}
	return nil
}

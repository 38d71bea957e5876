package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Stranger261/hospital-er-api/internal/model"
)

// BedStore is an in-memory BedRepository.
type BedStore struct {
	mu     sync.Mutex
	floors map[uuid.UUID]*model.Floor
	rooms  map[uuid.UUID]*model.Room
	beds   map[uuid.UUID]*model.Bed
}

func NewBedStore() *BedStore {
	return &BedStore{
		floors: make(map[uuid.UUID]*model.Floor),
		rooms:  make(map[uuid.UUID]*model.Room),
		beds:   make(map[uuid.UUID]*model.Bed),
	}
}

func (s *BedStore) CreateFloor(_ context.Context, floor *model.Floor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *floor
	s.floors[floor.ID] = &cp
	return nil
}

func (s *BedStore) CreateRoom(_ context.Context, room *model.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *room
	s.rooms[room.ID] = &cp
	return nil
}

func (s *BedStore) CreateBed(_ context.Context, bed *model.Bed) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *bed
	s.beds[bed.ID] = &cp
	return nil
}

func (s *BedStore) ListFloors(_ context.Context) ([]*model.Floor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Floor
	for _, f := range s.floors {
		cp := *f
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (s *BedStore) ListRooms(_ context.Context, floorID uuid.UUID) ([]*model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Room
	for _, r := range s.rooms {
		if r.FloorID == floorID {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoomNumber < out[j].RoomNumber })
	return out, nil
}

func (s *BedStore) ListBeds(_ context.Context, roomID uuid.UUID, availableOnly bool) ([]*model.Bed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Bed
	for _, b := range s.beds {
		if b.RoomID != roomID {
			continue
		}
		if availableOnly && b.Status != model.BedStatusAvailable {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out, nil
}

func (s *BedStore) Get(_ context.Context, id uuid.UUID) (*model.Bed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.beds[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *BedStore) SetStatus(_ context.Context, id uuid.UUID, status model.BedStatus, patientID *uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.beds[id]
	if !ok {
		return errNotFound
	}
	b.Status = status
	b.PatientID = patientID
	return nil
}

// AllergyStore is an in-memory AllergyRepository.
type AllergyStore struct {
	mu        sync.Mutex
	allergies map[uuid.UUID]*model.Allergy
}

func NewAllergyStore() *AllergyStore {
	return &AllergyStore{allergies: make(map[uuid.UUID]*model.Allergy)}
}

func (s *AllergyStore) Create(_ context.Context, allergy *model.Allergy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *allergy
	s.allergies[allergy.ID] = &cp
	return nil
}

func (s *AllergyStore) Get(_ context.Context, id uuid.UUID) (*model.Allergy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.allergies[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *AllergyStore) Update(_ context.Context, allergy *model.Allergy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.allergies[allergy.ID]; !ok {
		return errNotFound
	}
	cp := *allergy
	s.allergies[allergy.ID] = &cp
	return nil
}

func (s *AllergyStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.allergies[id]; !ok {
		return errNotFound
	}
	delete(s.allergies, id)
	return nil
}

func (s *AllergyStore) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*model.Allergy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Allergy
	for _, a := range s.allergies {
		if a.PatientID == patientID {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// AppointmentStore is an in-memory AppointmentRepository.
type AppointmentStore struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]*model.Appointment
}

func NewAppointmentStore() *AppointmentStore {
	return &AppointmentStore{appointments: make(map[uuid.UUID]*model.Appointment)}
}

func (s *AppointmentStore) Create(_ context.Context, appointment *model.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *appointment
	s.appointments[appointment.ID] = &cp
	return nil
}

func (s *AppointmentStore) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.appointments[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *AppointmentStore) Update(_ context.Context, appointment *model.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.appointments[appointment.ID]; !ok {
		return errNotFound
	}
	cp := *appointment
	s.appointments[appointment.ID] = &cp
	return nil
}

func (s *AppointmentStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.appointments[id]; !ok {
		return errNotFound
	}
	delete(s.appointments, id)
	return nil
}

func (s *AppointmentStore) List(_ context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Appointment
	for _, a := range s.appointments {
		if filters != nil {
			if filters.PatientID != uuid.Nil && a.PatientID != filters.PatientID {
				continue
			}
			if filters.DoctorID != uuid.Nil && a.DoctorID != filters.DoctorID {
				continue
			}
			if filters.Status != "" && a.Status != filters.Status {
				continue
			}
			if !filters.StartDate.IsZero() && a.StartTime.Before(filters.StartDate) {
				continue
			}
			if !filters.EndDate.IsZero() && a.StartTime.After(filters.EndDate) {
				continue
			}
		}
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (s *AppointmentStore) CheckConflict(_ context.Context, doctorID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.appointments {
		if a.DoctorID != doctorID || a.Status == model.AppointmentStatusCancelled {
			continue
		}
		if excludeID != nil && a.ID == *excludeID {
			continue
		}
		if start.Before(a.EndTime) && end.After(a.StartTime) {
			return true, nil
		}
	}
	return false, nil
}

// OutboxStore is an in-memory OutboxRepository. It records every emitted
// event, which the workflow tests use to assert on board notifications.
type OutboxStore struct {
	mu     sync.Mutex
	events []*model.OutboxEvent
}

func NewOutboxStore() *OutboxStore {
	return &OutboxStore{}
}

func (s *OutboxStore) Create(_ context.Context, event *model.OutboxEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *event
	s.events = append(s.events, &cp)
	return nil
}

func (s *OutboxStore) GetPendingEventsWithLock(_ context.Context, limit int) ([]*model.OutboxEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	var out []*model.OutboxEvent
	for _, e := range s.events {
		if e.Status != string(model.OutboxStatusPending) {
			continue
		}
		if e.RetryAt != nil && e.RetryAt.After(now) {
			continue
		}
		cp := *e
		out = append(out, &cp)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *OutboxStore) UpdateStatus(_ context.Context, id uuid.UUID, status string, errorMessage *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.events {
		if e.ID == id {
			e.Status = status
			e.ErrorMessage = errorMessage
			now := time.Now()
			e.UpdatedAt = now
			if status == string(model.OutboxStatusProcessed) {
				e.ProcessedAt = &now
			}
			return nil
		}
	}
	return errNotFound
}

func (s *OutboxStore) DeleteProcessedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var kept []*model.OutboxEvent
	var removed int64
	for _, e := range s.events {
		if e.Status == string(model.OutboxStatusProcessed) && e.ProcessedAt != nil && e.ProcessedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	s.events = kept
	return removed, nil
}

// Events returns a snapshot of everything recorded, newest last.
func (s *OutboxStore) Events() []*model.OutboxEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.OutboxEvent, 0, len(s.events))
	for _, e := range s.events {
		cp := *e
		out = append(out, &cp)
	}
	return out
}

// EventTypes returns the event types recorded, in emission order.
func (s *OutboxStore) EventTypes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	types := make([]string, 0, len(s.events))
	for _, e := range s.events {
		types = append(types, e.EventType)
	}
	return types
}

package assignment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/Stranger261/hospital-er-api/internal/model"
	"github.com/Stranger261/hospital-er-api/internal/repository"
	"github.com/Stranger261/hospital-er-api/internal/service/event"
	apperrors "github.com/Stranger261/hospital-er-api/pkg/errors"
	"github.com/Stranger261/hospital-er-api/pkg/metrics"
)

// Service assigns ER doctors to triaged visits. Category-1 visits are
// dispatched automatically; everything else goes through manual selection.
// Either path moves the visit to in_treatment.
// directoryTTL bounds how stale the cached full directory listing may be.
// Shift and assignment mutations invalidate it eagerly.
const directoryTTL = 10 * time.Second

const directoryKey = "doctors:all"

type Service struct {
	visitRepo  repository.VisitRepository
	doctorRepo repository.DoctorRepository
	events     *event.Service
	metrics    *metrics.Metrics
	directory  *gocache.Cache
}

func NewService(
	visitRepo repository.VisitRepository,
	doctorRepo repository.DoctorRepository,
	events *event.Service,
	metrics *metrics.Metrics,
) *Service {
	return &Service{
		visitRepo:  visitRepo,
		doctorRepo: doctorRepo,
		events:     events,
		metrics:    metrics,
		directory:  gocache.New(directoryTTL, 2*directoryTTL),
	}
}

// AutoAssign dispatches the least-loaded available doctor to a category-1
// visit without operator input.
func (s *Service) AutoAssign(ctx context.Context, visitID uuid.UUID) (*model.ERDoctor, error) {
	visit, err := s.assignableVisit(ctx, visitID)
	if err != nil {
		return nil, err
	}

	doctors, err := s.doctorRepo.List(ctx, &model.ERDoctorFilters{AvailableOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list available doctors: %w", err)
	}
	if len(doctors) == 0 {
		return nil, apperrors.Conflict("no doctors are available for dispatch")
	}

	// List is ordered least-loaded first.
	doctor := doctors[0]
	if err := s.assign(ctx, visit, doctor); err != nil {
		return nil, err
	}

	s.metrics.AssignmentsTotal.WithLabelValues("auto").Inc()
	return doctor, nil
}

// ManualAssign assigns the doctor the nurse selected. Off-shift doctors are
// rejected; busy doctors are accepted, since queuing a patient on an
// occupied doctor is a legitimate ED decision.
func (s *Service) ManualAssign(ctx context.Context, visitID uuid.UUID, doctorID uuid.UUID) (*model.ERDoctor, error) {
	visit, err := s.assignableVisit(ctx, visitID)
	if err != nil {
		return nil, err
	}

	doctor, err := s.doctorRepo.Get(ctx, doctorID)
	if err != nil {
		return nil, apperrors.NotFound("doctor", err)
	}
	if doctor.Availability() == model.DoctorOffShift {
		return nil, apperrors.Conflict(fmt.Sprintf("doctor %s %s is not on shift", doctor.FirstName, doctor.LastName))
	}

	if err := s.assign(ctx, visit, doctor); err != nil {
		return nil, err
	}

	s.metrics.AssignmentsTotal.WithLabelValues("manual").Inc()
	return doctor, nil
}

// Release detaches the doctor from a visit, freeing their slot. The visit
// keeps its status; this supports handovers mid-treatment.
func (s *Service) Release(ctx context.Context, visitID uuid.UUID) error {
	visit, err := s.visitRepo.Get(ctx, visitID)
	if err != nil {
		return apperrors.NotFound("visit", err)
	}
	if visit.ERDoctorID == nil {
		return apperrors.Conflict("visit has no assigned doctor")
	}

	doctorID := *visit.ERDoctorID
	if err := s.visitRepo.ClearDoctor(ctx, visitID); err != nil {
		return fmt.Errorf("failed to clear visit doctor: %w", err)
	}
	if err := s.doctorRepo.IncrementActivePatients(ctx, doctorID, -1); err != nil {
		return fmt.Errorf("failed to decrement doctor load: %w", err)
	}
	s.directory.Delete(directoryKey)

	s.events.Emit(ctx, model.EventDoctorReleased, map[string]interface{}{
		"visit_id":  visitID,
		"doctor_id": doctorID,
	})
	return nil
}

// ListDoctors returns the directory, classified for the selection UI. The
// full unfiltered listing is cached briefly since the selection dialog polls
// it; filtered queries always hit the repository.
func (s *Service) ListDoctors(ctx context.Context, filters *model.ERDoctorFilters) ([]*model.ERDoctor, error) {
	unfiltered := filters == nil || (!filters.OnShiftOnly && !filters.AvailableOnly)
	if unfiltered {
		if cached, ok := s.directory.Get(directoryKey); ok {
			return cached.([]*model.ERDoctor), nil
		}
	}

	doctors, err := s.doctorRepo.List(ctx, filters)
	if err != nil {
		return nil, err
	}
	if unfiltered {
		s.directory.Set(directoryKey, doctors, gocache.DefaultExpiration)
	}
	return doctors, nil
}

// StartShift marks a doctor on shift and available.
func (s *Service) StartShift(ctx context.Context, doctorID uuid.UUID) error {
	doctor, err := s.doctorRepo.Get(ctx, doctorID)
	if err != nil {
		return apperrors.NotFound("doctor", err)
	}
	if doctor.IsOnShift {
		return apperrors.Conflict("doctor is already on shift")
	}
	now := time.Now()
	if err := s.doctorRepo.SetShift(ctx, doctorID, true, &now, nil); err != nil {
		return err
	}
	s.directory.Delete(directoryKey)
	return nil
}

// EndShift takes a doctor off shift.
func (s *Service) EndShift(ctx context.Context, doctorID uuid.UUID) error {
	doctor, err := s.doctorRepo.Get(ctx, doctorID)
	if err != nil {
		return apperrors.NotFound("doctor", err)
	}
	if !doctor.IsOnShift {
		return apperrors.Conflict("doctor is not on shift")
	}
	now := time.Now()
	if err := s.doctorRepo.SetShift(ctx, doctorID, false, doctor.ShiftStart, &now); err != nil {
		return err
	}
	s.directory.Delete(directoryKey)
	return nil
}

// SetAvailability toggles whether an on-shift doctor can take new patients.
func (s *Service) SetAvailability(ctx context.Context, doctorID uuid.UUID, available bool) error {
	doctor, err := s.doctorRepo.Get(ctx, doctorID)
	if err != nil {
		return apperrors.NotFound("doctor", err)
	}
	if !doctor.IsOnShift {
		return apperrors.Conflict("doctor is not on shift")
	}
	if err := s.doctorRepo.SetAvailability(ctx, doctorID, available); err != nil {
		return err
	}
	s.directory.Delete(directoryKey)
	return nil
}

// assignableVisit loads the visit and enforces the sequencing rule:
// assignment requires a triage record and a non-terminal, unassigned visit.
func (s *Service) assignableVisit(ctx context.Context, visitID uuid.UUID) (*model.ERVisit, error) {
	visit, err := s.visitRepo.Get(ctx, visitID)
	if err != nil {
		return nil, apperrors.NotFound("visit", err)
	}
	if visit.ERStatus.IsTerminal() {
		return nil, apperrors.Conflict(fmt.Sprintf("visit %s is already %s", visit.ERNumber, visit.ERStatus))
	}
	if visit.TriageID == nil {
		return nil, apperrors.Conflict("visit must be triaged before a doctor can be assigned")
	}
	if visit.ERDoctorID != nil {
		return nil, apperrors.Conflict("visit already has an assigned doctor")
	}
	return visit, nil
}

func (s *Service) assign(ctx context.Context, visit *model.ERVisit, doctor *model.ERDoctor) error {
	if err := s.visitRepo.SetDoctor(ctx, visit.ID, doctor.ID); err != nil {
		return fmt.Errorf("failed to set visit doctor: %w", err)
	}
	if err := s.visitRepo.UpdateStatus(ctx, visit.ID, model.ERStatusInTreatment, nil); err != nil {
		return fmt.Errorf("failed to move visit to treatment: %w", err)
	}
	if err := s.doctorRepo.IncrementActivePatients(ctx, doctor.ID, 1); err != nil {
		return fmt.Errorf("failed to increment doctor load: %w", err)
	}
	s.directory.Delete(directoryKey)

	s.events.Emit(ctx, model.EventDoctorAssigned, map[string]interface{}{
		"visit_id":  visit.ID,
		"doctor_id": doctor.ID,
	})
	return nil
}

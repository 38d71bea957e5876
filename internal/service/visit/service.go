package visit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Stranger261/hospital-er-api/internal/model"
	"github.com/Stranger261/hospital-er-api/internal/repository"
	apperrors "github.com/Stranger261/hospital-er-api/pkg/errors"
)

// Service owns the visit lifecycle: status transitions, the board queries
// and the per-visit action set. It is the single authority on what a visit
// may do next.
type Service struct {
	visitRepo   repository.VisitRepository
	patientRepo repository.PatientRepository
	doctorRepo  repository.DoctorRepository
	triageRepo  repository.TriageRepository
}

func NewService(
	visitRepo repository.VisitRepository,
	patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository,
	triageRepo repository.TriageRepository,
) *Service {
	return &Service{
		visitRepo:   visitRepo,
		patientRepo: patientRepo,
		doctorRepo:  doctorRepo,
		triageRepo:  triageRepo,
	}
}

// CreateVisit opens a new visit in waiting for an existing patient. The ER
// number is generated here, one sequence per year.
func (s *Service) CreateVisit(ctx context.Context, patientID uuid.UUID, req *model.CreateERVisitRequest) (*model.ERVisit, error) {
	if _, err := s.patientRepo.Get(ctx, patientID); err != nil {
		return nil, apperrors.NotFound("patient", err)
	}

	now := time.Now()
	arrival := now
	if req.ArrivalTime != nil {
		arrival = *req.ArrivalTime
	}

	triageLevel := req.TriageLevel
	if triageLevel == 0 {
		// Untriaged walk-ins default to urgent-but-stable until a nurse
		// records a real category.
		triageLevel = 3
	}

	seq, err := s.visitRepo.NextERSequence(ctx, arrival.Year())
	if err != nil {
		return nil, fmt.Errorf("failed to allocate er number: %w", err)
	}

	visit := &model.ERVisit{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		ERNumber:       fmt.Sprintf("ER-%d-%05d", arrival.Year(), seq),
		PatientID:      patientID,
		TriageLevel:    triageLevel,
		ChiefComplaint: req.ChiefComplaint,
		ArrivalMode:    req.ArrivalMode,
		ArrivalTime:    arrival,
		ERStatus:       model.ERStatusWaiting,
	}

	if err := s.visitRepo.Create(ctx, visit); err != nil {
		return nil, fmt.Errorf("failed to create visit: %w", err)
	}
	return visit, nil
}

// GetVisit returns a visit enriched with its patient, doctor and triage
// record, with the waiting time recomputed.
func (s *Service) GetVisit(ctx context.Context, id uuid.UUID) (*model.ERVisit, error) {
	visit, err := s.visitRepo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("visit", err)
	}
	s.enrich(ctx, visit)
	return visit, nil
}

// ListBoard returns the visits matching the board's filter tab, enriched and
// ordered by severity then arrival.
func (s *Service) ListBoard(ctx context.Context, filters *model.ERVisitFilters) ([]*model.ERVisit, error) {
	visits, err := s.visitRepo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}
	for _, v := range visits {
		s.enrich(ctx, v)
	}
	return visits, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.ERVisit, error) {
	visits, err := s.visitRepo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list visits by patient: %w", err)
	}
	now := time.Now()
	for _, v := range visits {
		v.CurrentWaitingTime = v.WaitingMinutes(now)
	}
	return visits, nil
}

// Transition moves a visit to the next status, enforcing the forward-only
// graph. Terminal visits reject every transition.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, next model.ERStatus, dispositionType *string) (*model.ERVisit, error) {
	if !next.Valid() {
		return nil, apperrors.Validation("status", fmt.Sprintf("unknown status %q", next))
	}

	visit, err := s.visitRepo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("visit", err)
	}

	if visit.ERStatus.IsTerminal() {
		return nil, apperrors.Conflict(fmt.Sprintf("visit %s is already %s", visit.ERNumber, visit.ERStatus))
	}
	if !visit.ERStatus.CanTransition(next) {
		return nil, apperrors.Conflict(fmt.Sprintf("cannot move visit from %s to %s", visit.ERStatus, next))
	}

	if err := s.visitRepo.UpdateStatus(ctx, id, next, dispositionType); err != nil {
		return nil, fmt.Errorf("failed to update visit status: %w", err)
	}

	visit.ERStatus = next
	visit.DispositionType = dispositionType
	return visit, nil
}

// AvailableActions computes the row-level action set the board may offer for
// a visit. Terminal visits get none; assignment is only offered once triage
// exists.
func (s *Service) AvailableActions(visit *model.ERVisit, patient *model.Patient) []model.VisitAction {
	if visit.ERStatus.IsTerminal() {
		return nil
	}

	var actions []model.VisitAction

	if patient != nil && patient.IsTemporary() {
		actions = append(actions, model.VisitActionIdentify)
	}

	switch visit.ERStatus {
	case model.ERStatusWaiting:
		if visit.TriageID == nil {
			actions = append(actions, model.VisitActionTriage)
		} else if visit.ERDoctorID == nil {
			actions = append(actions, model.VisitActionAssign)
		}
	case model.ERStatusInTreatment:
		actions = append(actions, model.VisitActionTreat, model.VisitActionDispose)
	}

	return actions
}

// enrich attaches joined records and the recomputed waiting time. Join
// failures degrade to a bare visit rather than failing the board.
func (s *Service) enrich(ctx context.Context, visit *model.ERVisit) {
	visit.CurrentWaitingTime = visit.WaitingMinutes(time.Now())

	if patient, err := s.patientRepo.Get(ctx, visit.PatientID); err == nil {
		visit.Patient = patient
	}
	if visit.ERDoctorID != nil {
		if doctor, err := s.doctorRepo.Get(ctx, *visit.ERDoctorID); err == nil {
			visit.ERDoctor = doctor
		}
	}
	if visit.TriageID != nil {
		if triage, err := s.triageRepo.Get(ctx, *visit.TriageID); err == nil {
			visit.Triage = triage
		}
	}
}

package disposition

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Stranger261/hospital-er-api/config"
	"github.com/Stranger261/hospital-er-api/internal/email"
	"github.com/Stranger261/hospital-er-api/internal/model"
	"github.com/Stranger261/hospital-er-api/internal/repository"
	"github.com/Stranger261/hospital-er-api/internal/service/event"
	apperrors "github.com/Stranger261/hospital-er-api/pkg/errors"
	"github.com/Stranger261/hospital-er-api/pkg/logger"
	"github.com/Stranger261/hospital-er-api/pkg/metrics"
	"github.com/Stranger261/hospital-er-api/pkg/redislock"
)

// Service closes out ER visits. A disposition is the single terminal write
// for a visit: it records the outcome, moves the visit to the matching
// terminal status and frees the treating doctor.
type Service struct {
	dispositionRepo repository.DispositionRepository
	visitRepo       repository.VisitRepository
	doctorRepo      repository.DoctorRepository
	bedRepo         repository.BedRepository
	locker          redislock.Locker
	notifier        email.Notifier
	events          *event.Service
	metrics         *metrics.Metrics
	logger          *logger.Logger

	enabledOutcomes map[model.DispositionOutcome]bool
}

func NewService(
	dispositionRepo repository.DispositionRepository,
	visitRepo repository.VisitRepository,
	doctorRepo repository.DoctorRepository,
	bedRepo repository.BedRepository,
	locker redislock.Locker,
	notifier email.Notifier,
	events *event.Service,
	m *metrics.Metrics,
	log *logger.Logger,
	cfg config.ERConfig,
) *Service {
	enabled := make(map[model.DispositionOutcome]bool, len(cfg.EnabledOutcomes))
	for _, o := range cfg.EnabledOutcomes {
		enabled[model.DispositionOutcome(o)] = true
	}
	return &Service{
		dispositionRepo: dispositionRepo,
		visitRepo:       visitRepo,
		doctorRepo:      doctorRepo,
		bedRepo:         bedRepo,
		locker:          locker,
		notifier:        notifier,
		events:          events,
		metrics:         m,
		logger:          log.WithComponent("disposition"),
		enabledOutcomes: enabled,
	}
}

// EnabledOutcomes lists the outcomes clients may offer, in canonical order.
func (s *Service) EnabledOutcomes() []model.DispositionOutcome {
	all := []model.DispositionOutcome{
		model.OutcomeDischarged,
		model.OutcomeAdmitted,
		model.OutcomeTransferred,
		model.OutcomeLeftAMA,
		model.OutcomeDeceased,
	}
	out := make([]model.DispositionOutcome, 0, len(all))
	for _, o := range all {
		if s.enabledOutcomes[o] {
			out = append(out, o)
		}
	}
	return out
}

// Dispose closes the visit with the requested outcome.
func (s *Service) Dispose(ctx context.Context, visitID uuid.UUID, actor model.Actor, req *model.DispositionRequest) (*model.Disposition, error) {
	if !req.Outcome.Valid() {
		return nil, apperrors.Validation("outcome", fmt.Sprintf("unknown outcome %q", req.Outcome))
	}
	if !s.enabledOutcomes[req.Outcome] {
		return nil, apperrors.Conflict(fmt.Sprintf("outcome %q is not enabled", req.Outcome))
	}

	visit, err := s.visitRepo.Get(ctx, visitID)
	if err != nil {
		return nil, apperrors.NotFound("visit", err)
	}
	if visit.ERStatus.IsTerminal() {
		return nil, apperrors.Conflict(fmt.Sprintf("visit %s is already closed", visit.ERNumber))
	}
	if visit.ERStatus != model.ERStatusInTreatment {
		return nil, apperrors.Conflict(fmt.Sprintf("visit %s must be in treatment before disposition", visit.ERNumber))
	}
	if existing, err := s.dispositionRepo.GetByVisit(ctx, visitID); err == nil && existing != nil {
		return nil, apperrors.Conflict(fmt.Sprintf("visit %s already has a disposition", visit.ERNumber))
	}

	disposition := &model.Disposition{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		VisitID:     visitID,
		Outcome:     req.Outcome,
		DecidedByID: actor.StaffID,
		DisposedAt:  time.Now(),
		Notes:       req.Notes,
	}

	if err := s.applyOutcomeFields(disposition, req); err != nil {
		return nil, err
	}

	if req.Outcome == model.OutcomeAdmitted {
		err = s.locker.WithBedLock(ctx, *disposition.BedID, func(ctx context.Context) error {
			return s.admitToBed(ctx, visit, disposition)
		})
		if errors.Is(err, redislock.ErrNotAcquired) {
			return nil, apperrors.Conflict("bed is being assigned to another patient")
		}
		if err != nil {
			return nil, err
		}
	} else {
		if err := s.finalize(ctx, visit, disposition); err != nil {
			return nil, err
		}
	}

	if visit.ERDoctorID != nil {
		if err := s.doctorRepo.IncrementActivePatients(ctx, *visit.ERDoctorID, -1); err != nil {
			s.logger.Error(err, "failed to decrement doctor load", "doctor_id", visit.ERDoctorID)
		}
	}

	s.metrics.DispositionsTotal.WithLabelValues(string(req.Outcome)).Inc()
	s.events.Emit(ctx, model.EventVisitDisposed, map[string]interface{}{
		"visit_id":  visitID,
		"er_number": visit.ERNumber,
		"outcome":   req.Outcome,
	})

	if err := s.notifier.NotifyDisposition(visit, disposition); err != nil {
		s.logger.Error(err, "failed to send disposition notification", "er_number", visit.ERNumber)
	}

	return disposition, nil
}

func (s *Service) GetByVisit(ctx context.Context, visitID uuid.UUID) (*model.Disposition, error) {
	disposition, err := s.dispositionRepo.GetByVisit(ctx, visitID)
	if err != nil {
		return nil, apperrors.NotFound("disposition", err)
	}
	return disposition, nil
}

// admitToBed runs inside the bed lock: re-checks availability, occupies the
// bed and writes the disposition.
func (s *Service) admitToBed(ctx context.Context, visit *model.ERVisit, disposition *model.Disposition) error {
	bed, err := s.bedRepo.Get(ctx, *disposition.BedID)
	if err != nil {
		return apperrors.NotFound("bed", err)
	}
	if bed.Status != model.BedStatusAvailable {
		return apperrors.Conflict(fmt.Sprintf("bed %s is not available", bed.Label))
	}

	if err := s.bedRepo.SetStatus(ctx, bed.ID, model.BedStatusOccupied, &visit.PatientID); err != nil {
		return fmt.Errorf("failed to occupy bed: %w", err)
	}

	if err := s.finalize(ctx, visit, disposition); err != nil {
		// put the bed back so it is not stranded occupied
		if rbErr := s.bedRepo.SetStatus(ctx, bed.ID, model.BedStatusAvailable, nil); rbErr != nil {
			s.logger.Error(rbErr, "failed to release bed after admission failure", "bed_id", bed.ID)
		}
		return err
	}
	return nil
}

func (s *Service) finalize(ctx context.Context, visit *model.ERVisit, disposition *model.Disposition) error {
	if err := s.dispositionRepo.Create(ctx, disposition); err != nil {
		return fmt.Errorf("failed to create disposition: %w", err)
	}
	outcome := string(disposition.Outcome)
	if err := s.visitRepo.UpdateStatus(ctx, visit.ID, disposition.Outcome.Status(), &outcome); err != nil {
		return fmt.Errorf("failed to close visit: %w", err)
	}
	visit.ERStatus = disposition.Outcome.Status()
	return nil
}

// applyOutcomeFields validates and copies the field group the outcome
// requires; fields belonging to other outcomes are dropped.
func (s *Service) applyOutcomeFields(d *model.Disposition, req *model.DispositionRequest) error {
	switch req.Outcome {
	case model.OutcomeDischarged:
		if strings.TrimSpace(req.ConditionAtDischarge) == "" {
			return apperrors.Validation("condition_at_discharge", "condition at discharge is required")
		}
		dischargeType := req.DischargeType
		if dischargeType == "" {
			dischargeType = "home"
		}
		d.ConditionAtDischarge = &req.ConditionAtDischarge
		d.DischargeType = &dischargeType
		if req.FollowUpInstructions != "" {
			d.FollowUpInstructions = &req.FollowUpInstructions
		}

	case model.OutcomeAdmitted:
		if req.BedID == nil {
			return apperrors.Validation("bed_id", "a bed is required for admission")
		}
		if strings.TrimSpace(req.PrimaryDiagnosis) == "" {
			return apperrors.Validation("primary_diagnosis", "primary diagnosis is required")
		}
		d.BedID = req.BedID
		d.PrimaryDiagnosis = &req.PrimaryDiagnosis
		d.AdmittingDoctorID = req.AdmittingDoctorID
		d.EstimatedStayDays = req.EstimatedStayDays

	case model.OutcomeTransferred:
		if strings.TrimSpace(req.DestinationFacility) == "" {
			return apperrors.Validation("destination_facility", "destination facility is required")
		}
		if strings.TrimSpace(req.TransferReason) == "" {
			return apperrors.Validation("transfer_reason", "transfer reason is required")
		}
		d.DestinationFacility = &req.DestinationFacility
		d.TransferReason = &req.TransferReason
		if req.TransferMode != "" {
			d.TransferMode = &req.TransferMode
		}
		if req.TransferContact != "" {
			d.TransferContact = &req.TransferContact
		}

	case model.OutcomeLeftAMA:
		// only notes; nothing required beyond the outcome itself

	case model.OutcomeDeceased:
		timeOfDeath := time.Now()
		if req.TimeOfDeath != nil {
			timeOfDeath = *req.TimeOfDeath
		}
		if strings.TrimSpace(req.CauseOfDeath) == "" {
			return apperrors.Validation("cause_of_death", "cause of death is required")
		}
		d.TimeOfDeath = &timeOfDeath
		d.CauseOfDeath = &req.CauseOfDeath
	}
	return nil
}

package treatment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Stranger261/hospital-er-api/internal/model"
	"github.com/Stranger261/hospital-er-api/internal/repository"
	"github.com/Stranger261/hospital-er-api/internal/service/event"
	apperrors "github.com/Stranger261/hospital-er-api/pkg/errors"
)

// Service manages treatment records for visits in treatment. The medication
// fields only survive on types the catalog flags as carrying medication.
type Service struct {
	treatmentRepo repository.TreatmentRepository
	visitRepo     repository.VisitRepository
	events        *event.Service
}

func NewService(
	treatmentRepo repository.TreatmentRepository,
	visitRepo repository.VisitRepository,
	events *event.Service,
) *Service {
	return &Service{
		treatmentRepo: treatmentRepo,
		visitRepo:     visitRepo,
		events:        events,
	}
}

// CreateTreatment records a treatment for an in-treatment visit.
func (s *Service) CreateTreatment(ctx context.Context, visitID uuid.UUID, actor model.Actor, req *model.CreateTreatmentRequest) (*model.TreatmentRecord, error) {
	treatmentType, err := s.validateTypeAndDescription(req.TreatmentType, req.Description)
	if err != nil {
		return nil, err
	}

	visit, err := s.visitRepo.Get(ctx, visitID)
	if err != nil {
		return nil, apperrors.NotFound("visit", err)
	}
	if visit.ERStatus != model.ERStatusInTreatment {
		return nil, apperrors.Conflict(fmt.Sprintf("visit %s is not in treatment", visit.ERNumber))
	}

	now := time.Now()
	performedAt := now
	if req.PerformedAt != nil {
		performedAt = *req.PerformedAt
	}

	treatment := &model.TreatmentRecord{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		VisitID:        visitID,
		RecordedByID:   actor.StaffID,
		TreatmentType:  req.TreatmentType,
		Description:    req.Description,
		MedicationName: req.MedicationName,
		Dosage:         req.Dosage,
		Route:          req.Route,
		PerformedAt:    performedAt,
		Notes:          req.Notes,
	}
	if !treatmentType.RequiresMedication {
		treatment.ClearMedicationFields()
	}

	if err := s.treatmentRepo.Create(ctx, treatment); err != nil {
		return nil, fmt.Errorf("failed to create treatment: %w", err)
	}

	s.events.Emit(ctx, model.EventTreatmentChanged, map[string]interface{}{
		"visit_id":     visitID,
		"treatment_id": treatment.ID,
		"action":       "created",
	})
	return treatment, nil
}

// UpdateTreatment revises a record. Switching to a non-medication type
// clears the medication fields even if the request still carries them. Once
// the visit closes, its treatment history is read-only.
func (s *Service) UpdateTreatment(ctx context.Context, id uuid.UUID, req *model.UpdateTreatmentRequest) (*model.TreatmentRecord, error) {
	treatment, err := s.treatmentRepo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("treatment record", err)
	}
	if err := s.requireOpenVisit(ctx, treatment.VisitID); err != nil {
		return nil, err
	}

	if req.TreatmentType != nil {
		treatment.TreatmentType = *req.TreatmentType
	}
	if req.Description != nil {
		treatment.Description = *req.Description
	}

	treatmentType, err := s.validateTypeAndDescription(treatment.TreatmentType, treatment.Description)
	if err != nil {
		return nil, err
	}

	if req.MedicationName != nil {
		treatment.MedicationName = req.MedicationName
	}
	if req.Dosage != nil {
		treatment.Dosage = req.Dosage
	}
	if req.Route != nil {
		treatment.Route = req.Route
	}
	if req.PerformedAt != nil {
		treatment.PerformedAt = *req.PerformedAt
	}
	if req.Notes != nil {
		treatment.Notes = *req.Notes
	}

	if !treatmentType.RequiresMedication {
		treatment.ClearMedicationFields()
	}

	if err := s.treatmentRepo.Update(ctx, treatment); err != nil {
		return nil, fmt.Errorf("failed to update treatment: %w", err)
	}

	s.events.Emit(ctx, model.EventTreatmentChanged, map[string]interface{}{
		"visit_id":     treatment.VisitID,
		"treatment_id": treatment.ID,
		"action":       "updated",
	})
	return treatment, nil
}

// DeleteTreatment removes a record. Deletion is destructive and must carry
// the explicit confirmation flag, the same contract allergy deletion uses.
func (s *Service) DeleteTreatment(ctx context.Context, id uuid.UUID, confirmed bool) error {
	if !confirmed {
		return apperrors.Conflict("deleting a treatment record requires confirmation")
	}

	treatment, err := s.treatmentRepo.Get(ctx, id)
	if err != nil {
		return apperrors.NotFound("treatment record", err)
	}
	if err := s.requireOpenVisit(ctx, treatment.VisitID); err != nil {
		return err
	}

	if err := s.treatmentRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete treatment: %w", err)
	}

	s.events.Emit(ctx, model.EventTreatmentChanged, map[string]interface{}{
		"visit_id":     treatment.VisitID,
		"treatment_id": treatment.ID,
		"action":       "deleted",
	})
	return nil
}

// requireOpenVisit rejects mutations against a visit that has reached a
// terminal status.
func (s *Service) requireOpenVisit(ctx context.Context, visitID uuid.UUID) error {
	visit, err := s.visitRepo.Get(ctx, visitID)
	if err != nil {
		return apperrors.NotFound("visit", err)
	}
	if visit.ERStatus.IsTerminal() {
		return apperrors.Conflict(fmt.Sprintf("visit %s is already %s", visit.ERNumber, visit.ERStatus))
	}
	return nil
}

func (s *Service) ListByVisit(ctx context.Context, visitID uuid.UUID) ([]*model.TreatmentRecord, error) {
	return s.treatmentRepo.ListByVisit(ctx, visitID)
}

// ListTypes exposes the canonical treatment-type catalog.
func (s *Service) ListTypes() []model.TreatmentType {
	return model.TreatmentTypes
}

func (s *Service) validateTypeAndDescription(typeName, description string) (model.TreatmentType, error) {
	if strings.TrimSpace(typeName) == "" {
		return model.TreatmentType{}, apperrors.Validation("treatment_type", "treatment type is required")
	}
	treatmentType, ok := model.TreatmentTypeFor(typeName)
	if !ok {
		return model.TreatmentType{}, apperrors.Validation("treatment_type", fmt.Sprintf("unknown treatment type %q", typeName))
	}
	if strings.TrimSpace(description) == "" {
		return model.TreatmentType{}, apperrors.Validation("description", "description is required")
	}
	return treatmentType, nil
}

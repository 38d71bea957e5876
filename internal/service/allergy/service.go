package allergy

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Stranger261/hospital-er-api/internal/model"
	"github.com/Stranger261/hospital-er-api/internal/repository"
	apperrors "github.com/Stranger261/hospital-er-api/pkg/errors"
)

// Service manages patient allergy records. Deletion is gated behind an
// explicit confirmation flag because dropping an allergy silently is a
// clinical safety hazard.
type Service struct {
	allergyRepo repository.AllergyRepository
	patientRepo repository.PatientRepository
}

func NewService(allergyRepo repository.AllergyRepository, patientRepo repository.PatientRepository) *Service {
	return &Service{allergyRepo: allergyRepo, patientRepo: patientRepo}
}

func (s *Service) Create(ctx context.Context, patientID uuid.UUID, req *model.CreateAllergyRequest) (*model.Allergy, error) {
	if _, err := s.patientRepo.Get(ctx, patientID); err != nil {
		return nil, apperrors.NotFound("patient", err)
	}

	severity := model.AllergySeverity(req.Severity)
	if !severity.Valid() {
		return nil, apperrors.Validation("severity", fmt.Sprintf("unknown severity %q", req.Severity))
	}

	now := time.Now()
	allergy := &model.Allergy{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		PatientID: patientID,
		Allergen:  req.Allergen,
		Reaction:  req.Reaction,
		Severity:  severity,
		Notes:     req.Notes,
	}
	if err := s.allergyRepo.Create(ctx, allergy); err != nil {
		return nil, fmt.Errorf("failed to create allergy: %w", err)
	}
	return allergy, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateAllergyRequest) (*model.Allergy, error) {
	allergy, err := s.allergyRepo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("allergy", err)
	}

	if req.Allergen != nil {
		allergy.Allergen = *req.Allergen
	}
	if req.Reaction != nil {
		allergy.Reaction = *req.Reaction
	}
	if req.Severity != nil {
		severity := model.AllergySeverity(*req.Severity)
		if !severity.Valid() {
			return nil, apperrors.Validation("severity", fmt.Sprintf("unknown severity %q", *req.Severity))
		}
		allergy.Severity = severity
	}
	if req.Notes != nil {
		allergy.Notes = *req.Notes
	}
	allergy.UpdatedAt = time.Now()

	if err := s.allergyRepo.Update(ctx, allergy); err != nil {
		return nil, fmt.Errorf("failed to update allergy: %w", err)
	}
	return allergy, nil
}

// Delete removes an allergy. Callers must pass confirmed=true.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, confirmed bool) error {
	if !confirmed {
		return apperrors.Conflict("deleting an allergy requires confirmation")
	}
	if _, err := s.allergyRepo.Get(ctx, id); err != nil {
		return apperrors.NotFound("allergy", err)
	}
	if err := s.allergyRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete allergy: %w", err)
	}
	return nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Allergy, error) {
	allergies, err := s.allergyRepo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list allergies: %w", err)
	}
	return allergies, nil
}

package patient

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Stranger261/hospital-er-api/internal/model"
	"github.com/Stranger261/hospital-er-api/internal/repository"
	apperrors "github.com/Stranger261/hospital-er-api/pkg/errors"
)

// Service covers the patient record surface outside of intake: lookup,
// search, demographic updates, medical history and allergies.
type Service struct {
	patientRepo repository.PatientRepository
	allergyRepo repository.AllergyRepository
}

func NewService(patientRepo repository.PatientRepository, allergyRepo repository.AllergyRepository) *Service {
	return &Service{patientRepo: patientRepo, allergyRepo: allergyRepo}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	patient, err := s.patientRepo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("patient", err)
	}
	return patient, nil
}

func (s *Service) Search(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	patients, err := s.patientRepo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to search patients: %w", err)
	}
	return patients, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.patientRepo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("patient", err)
	}

	if req.FirstName != nil {
		patient.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		patient.LastName = *req.LastName
	}
	if req.DateOfBirth != nil {
		patient.DateOfBirth = req.DateOfBirth
	}
	if req.Gender != nil {
		patient.Gender = *req.Gender
	}
	if req.Phone != nil {
		patient.Phone = *req.Phone
	}
	if req.Email != nil {
		patient.Email = *req.Email
	}
	if req.Address != nil {
		patient.Address = *req.Address
	}
	if req.Status != nil {
		patient.Status = *req.Status
	}
	patient.UpdatedAt = time.Now()

	if err := s.patientRepo.Update(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to update patient: %w", err)
	}
	return patient, nil
}

func (s *Service) GetMedicalRecords(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalRecord, error) {
	if _, err := s.patientRepo.Get(ctx, patientID); err != nil {
		return nil, apperrors.NotFound("patient", err)
	}
	records, err := s.patientRepo.GetMedicalRecords(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load medical records: %w", err)
	}
	return records, nil
}

func (s *Service) AddMedicalRecord(ctx context.Context, patientID uuid.UUID, actor model.Actor, req *model.CreateMedicalRecordRequest) (*model.MedicalRecord, error) {
	if _, err := s.patientRepo.Get(ctx, patientID); err != nil {
		return nil, apperrors.NotFound("patient", err)
	}

	now := time.Now()
	record := &model.MedicalRecord{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		PatientID:       patientID,
		Type:            req.Type,
		Description:     req.Description,
		Diagnosis:       req.Diagnosis,
		MedicationsJSON: req.Medications,
		RecordedBy:      actor.StaffID,
		RecordedAt:      now,
	}
	if err := s.patientRepo.AddMedicalRecord(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to add medical record: %w", err)
	}
	return record, nil
}

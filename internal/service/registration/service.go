package registration

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Stranger261/hospital-er-api/config"
	"github.com/Stranger261/hospital-er-api/internal/model"
	"github.com/Stranger261/hospital-er-api/internal/repository"
	"github.com/Stranger261/hospital-er-api/internal/service/event"
	"github.com/Stranger261/hospital-er-api/internal/service/visit"
	apperrors "github.com/Stranger261/hospital-er-api/pkg/errors"
	"github.com/Stranger261/hospital-er-api/pkg/logger"
	"github.com/Stranger261/hospital-er-api/pkg/metrics"
)

// Service handles patient intake: registering known and unidentified
// patients, face recognition lookups and later re-identification of
// temporary records.
type Service struct {
	patientRepo repository.PatientRepository
	visitRepo   repository.VisitRepository
	visits      *visit.Service
	matcher     FaceMatcher
	events      *event.Service
	metrics     *metrics.Metrics
	logger      *logger.Logger

	matchThreshold float64
}

func NewService(
	patientRepo repository.PatientRepository,
	visitRepo repository.VisitRepository,
	visits *visit.Service,
	matcher FaceMatcher,
	events *event.Service,
	m *metrics.Metrics,
	log *logger.Logger,
	cfg config.ERConfig,
) *Service {
	return &Service{
		patientRepo:    patientRepo,
		visitRepo:      visitRepo,
		visits:         visits,
		matcher:        matcher,
		events:         events,
		metrics:        m,
		logger:         log.WithComponent("registration"),
		matchThreshold: cfg.MatchThreshold,
	}
}

// RegisterKnown opens a visit for an identified patient. The caller either
// references an existing patient or supplies full demographics for a new
// one; exactly one of the two must be set.
func (s *Service) RegisterKnown(ctx context.Context, actor model.Actor, req *model.RegisterKnownRequest) (*model.ERVisit, error) {
	if (req.PatientID == nil) == (req.Person == nil) {
		return nil, apperrors.Validation("patient_id", "exactly one of patient_id or person must be provided")
	}

	var patientID uuid.UUID
	if req.PatientID != nil {
		patient, err := s.patientRepo.Get(ctx, *req.PatientID)
		if err != nil {
			return nil, apperrors.NotFound("patient", err)
		}
		patientID = patient.ID
	} else {
		patient, err := s.createPatient(ctx, req.Person)
		if err != nil {
			return nil, err
		}
		patientID = patient.ID
	}

	return s.openVisit(ctx, patientID, &req.Visit)
}

// RegisterUnknown opens a visit for an unidentified patient, creating a
// temporary record carrying whatever is observable plus optional face data.
func (s *Service) RegisterUnknown(ctx context.Context, actor model.Actor, req *model.RegisterUnknownRequest) (*model.ERVisit, error) {
	seq, err := s.patientRepo.NextTempSequence(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate temporary mrn: %w", err)
	}

	mrn := model.NewTempMRN(seq)
	now := time.Now()
	patient := &model.Patient{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		MRN:           mrn,
		FirstName:     "Unknown",
		LastName:      mrn,
		Gender:        req.Temporary.Gender,
		Status:        string(model.PatientStatusActive),
		EstimatedAge:  req.Temporary.EstimatedAge,
		Description:   req.Temporary.Description,
		FaceImageData: req.FaceData,
	}
	if err := s.patientRepo.Create(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to create temporary patient: %w", err)
	}

	return s.openVisit(ctx, patient.ID, &req.Visit)
}

// RecognizeByFace searches active patients for a face match. A confidence
// below the threshold is reported as no match, never as an error.
func (s *Service) RecognizeByFace(ctx context.Context, req *model.RecognizeFaceRequest) (*model.MatchResult, error) {
	candidates, err := s.patientRepo.List(ctx, &model.PatientFilters{Status: model.PatientStatusActive})
	if err != nil {
		return nil, fmt.Errorf("failed to list match candidates: %w", err)
	}

	patient, confidence, err := s.matcher.BestMatch(ctx, req.ImageBase64, candidates)
	if err != nil {
		return nil, fmt.Errorf("face match failed: %w", err)
	}
	if patient == nil || confidence < s.matchThreshold {
		return &model.MatchResult{Matched: false}, nil
	}

	records, err := s.patientRepo.GetMedicalRecords(ctx, patient.ID)
	if err != nil {
		s.logger.Error(err, "failed to load medical records for match", "patient_id", patient.ID)
	}

	return &model.MatchResult{
		Matched:        true,
		Patient:        patient,
		Confidence:     confidence,
		MedicalRecords: records,
	}, nil
}

// Identify resolves a temporary patient. Two mutually exclusive paths:
// linking to an existing real record moves the temporary record's visits
// over and deactivates it; supplying real demographics rewrites the
// temporary record in place, dropping the TEMP- MRN.
func (s *Service) Identify(ctx context.Context, tempPatientID uuid.UUID, actor model.Actor, req *model.IdentifyRequest) (*model.Patient, error) {
	if (req.RealPatientID == nil) == (req.RealPersonData == nil) {
		return nil, apperrors.Validation("real_patient_id", "exactly one of real_patient_id or real_person_data must be provided")
	}

	temp, err := s.patientRepo.Get(ctx, tempPatientID)
	if err != nil {
		return nil, apperrors.NotFound("patient", err)
	}
	if !temp.IsTemporary() {
		return nil, apperrors.Conflict(fmt.Sprintf("patient %s is not a temporary record", temp.MRN))
	}

	var resolved *model.Patient
	if req.RealPatientID != nil {
		resolved, err = s.linkToExisting(ctx, temp, *req.RealPatientID)
	} else {
		resolved, err = s.rewriteInPlace(ctx, temp, req.RealPersonData)
	}
	if err != nil {
		return nil, err
	}

	s.events.Emit(ctx, model.EventVisitIdentified, map[string]interface{}{
		"temp_patient_id": tempPatientID,
		"patient_id":      resolved.ID,
		"mrn":             resolved.MRN,
	})
	return resolved, nil
}

func (s *Service) linkToExisting(ctx context.Context, temp *model.Patient, realID uuid.UUID) (*model.Patient, error) {
	if realID == temp.ID {
		return nil, apperrors.Validation("real_patient_id", "cannot identify a patient as itself")
	}
	real, err := s.patientRepo.Get(ctx, realID)
	if err != nil {
		return nil, apperrors.NotFound("patient", err)
	}
	if real.IsTemporary() {
		return nil, apperrors.Conflict("cannot identify against another temporary record")
	}

	if err := s.visitRepo.TransferToPatient(ctx, temp.ID, real.ID); err != nil {
		return nil, fmt.Errorf("failed to transfer visits: %w", err)
	}
	if err := s.patientRepo.Deactivate(ctx, temp.ID); err != nil {
		return nil, fmt.Errorf("failed to deactivate temporary patient: %w", err)
	}
	return real, nil
}

func (s *Service) rewriteInPlace(ctx context.Context, temp *model.Patient, person *model.CreatePatientRequest) (*model.Patient, error) {
	mrn, err := s.nextMRN(ctx)
	if err != nil {
		return nil, err
	}

	temp.MRN = mrn
	temp.FirstName = person.FirstName
	temp.LastName = person.LastName
	temp.DateOfBirth = person.DateOfBirth
	temp.Gender = person.Gender
	temp.Phone = person.Phone
	temp.Email = person.Email
	temp.Address = person.Address
	temp.UpdatedAt = time.Now()

	if err := s.patientRepo.Update(ctx, temp); err != nil {
		return nil, fmt.Errorf("failed to update patient: %w", err)
	}
	return temp, nil
}

func (s *Service) createPatient(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return nil, apperrors.Validation("name", "first and last name are required")
	}

	mrn, err := s.nextMRN(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	patient := &model.Patient{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		MRN:         mrn,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: req.DateOfBirth,
		Gender:      req.Gender,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
		Status:      string(model.PatientStatusActive),
	}
	if err := s.patientRepo.Create(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}
	return patient, nil
}

func (s *Service) nextMRN(ctx context.Context) (string, error) {
	seq, err := s.patientRepo.NextMRNSequence(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to allocate mrn: %w", err)
	}
	return fmt.Sprintf("MRN-%d-%06d", time.Now().Year(), seq), nil
}

func (s *Service) openVisit(ctx context.Context, patientID uuid.UUID, req *model.CreateERVisitRequest) (*model.ERVisit, error) {
	v, err := s.visits.CreateVisit(ctx, patientID, req)
	if err != nil {
		return nil, err
	}

	s.metrics.VisitsRegistered.Inc()
	s.events.Emit(ctx, model.EventVisitRegistered, map[string]interface{}{
		"visit_id":   v.ID,
		"er_number":  v.ERNumber,
		"patient_id": patientID,
	})
	return v, nil
}

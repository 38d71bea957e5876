package triage

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Stranger261/hospital-er-api/internal/model"
	"github.com/Stranger261/hospital-er-api/internal/repository"
	"github.com/Stranger261/hospital-er-api/internal/service/event"
	apperrors "github.com/Stranger261/hospital-er-api/pkg/errors"
	"github.com/Stranger261/hospital-er-api/pkg/metrics"
)

// Service records the one triage assessment each visit gets and hands the
// caller off to the correct assignment path.
type Service struct {
	triageRepo repository.TriageRepository
	visitRepo  repository.VisitRepository
	events     *event.Service
	metrics    *metrics.Metrics
}

func NewService(
	triageRepo repository.TriageRepository,
	visitRepo repository.VisitRepository,
	events *event.Service,
	metrics *metrics.Metrics,
) *Service {
	return &Service{
		triageRepo: triageRepo,
		visitRepo:  visitRepo,
		events:     events,
		metrics:    metrics,
	}
}

// RecordTriage saves the triage assessment for a waiting visit. On success
// the visit's triage level is updated to the recorded category and the
// result names the assignment path to follow: auto-dispatch for category 1,
// manual selection otherwise.
func (s *Service) RecordTriage(ctx context.Context, visitID uuid.UUID, actor model.Actor, req *model.CreateTriageRequest) (*model.TriageResult, error) {
	if err := validateAssessment(req); err != nil {
		return nil, err
	}

	visit, err := s.visitRepo.Get(ctx, visitID)
	if err != nil {
		return nil, apperrors.NotFound("visit", err)
	}
	if visit.ERStatus.IsTerminal() {
		return nil, apperrors.Conflict(fmt.Sprintf("visit %s is already %s", visit.ERNumber, visit.ERStatus))
	}
	if visit.TriageID != nil {
		return nil, apperrors.Conflict(fmt.Sprintf("visit %s is already triaged", visit.ERNumber))
	}

	now := time.Now()
	triage := &model.TriageRecord{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		VisitID:            visitID,
		TriageNurseID:      actor.StaffID,
		PresentingSymptoms: req.PresentingSymptoms,
		Consciousness:      model.ConsciousnessLevel(req.Consciousness),
		PainScale:          req.PainScale,
		BloodPressure:      req.BloodPressure,
		HeartRate:          req.HeartRate,
		RespiratoryRate:    req.RespiratoryRate,
		Temperature:        req.Temperature,
		OxygenSaturation:   req.OxygenSaturation,
		Notes:              req.Notes,
		AssessedAt:         now,
	}
	if !triage.SetCategory(req.TriageCategory) {
		return nil, apperrors.Validation("triage_category", fmt.Sprintf("invalid triage category %d", req.TriageCategory))
	}

	if err := s.triageRepo.Create(ctx, triage); err != nil {
		return nil, fmt.Errorf("failed to save triage: %w", err)
	}
	if err := s.visitRepo.SetTriage(ctx, visitID, triage.ID, triage.TriageCategory); err != nil {
		return nil, fmt.Errorf("failed to link triage to visit: %w", err)
	}

	s.metrics.TriagesRecorded.WithLabelValues(strconv.Itoa(triage.TriageCategory)).Inc()
	s.events.Emit(ctx, model.EventTriageRecorded, map[string]interface{}{
		"visit_id":        visitID,
		"triage_category": triage.TriageCategory,
		"triage_color":    triage.TriageColor,
	})

	// The directive is decided by the level at save time, not the level the
	// visit arrived with.
	directive := model.DirectiveSelectDoctor
	if triage.TriageCategory == 1 {
		directive = model.DirectiveAutoAssign
	}

	return &model.TriageResult{
		Triage:    triage,
		Directive: directive,
	}, nil
}

// UpdateTriage revises an existing assessment. Category and color stay in
// lockstep here as well, and a closed visit's assessment is read-only.
func (s *Service) UpdateTriage(ctx context.Context, visitID uuid.UUID, req *model.CreateTriageRequest) (*model.TriageRecord, error) {
	if err := validateAssessment(req); err != nil {
		return nil, err
	}

	visit, err := s.visitRepo.Get(ctx, visitID)
	if err != nil {
		return nil, apperrors.NotFound("visit", err)
	}
	if visit.ERStatus.IsTerminal() {
		return nil, apperrors.Conflict(fmt.Sprintf("visit %s is already %s", visit.ERNumber, visit.ERStatus))
	}

	triage, err := s.triageRepo.GetByVisit(ctx, visitID)
	if err != nil {
		return nil, fmt.Errorf("failed to load triage: %w", err)
	}
	if triage == nil {
		return nil, apperrors.NotFound("triage record", nil)
	}

	if !triage.SetCategory(req.TriageCategory) {
		return nil, apperrors.Validation("triage_category", fmt.Sprintf("invalid triage category %d", req.TriageCategory))
	}
	triage.PresentingSymptoms = req.PresentingSymptoms
	triage.Consciousness = model.ConsciousnessLevel(req.Consciousness)
	triage.PainScale = req.PainScale
	triage.BloodPressure = req.BloodPressure
	triage.HeartRate = req.HeartRate
	triage.RespiratoryRate = req.RespiratoryRate
	triage.Temperature = req.Temperature
	triage.OxygenSaturation = req.OxygenSaturation
	triage.Notes = req.Notes

	if err := s.triageRepo.Update(ctx, triage); err != nil {
		return nil, fmt.Errorf("failed to update triage: %w", err)
	}
	if err := s.visitRepo.SetTriage(ctx, visitID, triage.ID, triage.TriageCategory); err != nil {
		return nil, fmt.Errorf("failed to sync visit triage level: %w", err)
	}

	return triage, nil
}

// validateAssessment applies the request-level checks shared by record and
// update: every saved assessment meets them, no matter which path wrote it.
func validateAssessment(req *model.CreateTriageRequest) error {
	if strings.TrimSpace(req.PresentingSymptoms) == "" {
		return apperrors.Validation("presenting_symptoms", "presenting symptoms are required")
	}
	if !model.ConsciousnessLevel(req.Consciousness).Valid() {
		return apperrors.Validation("consciousness", fmt.Sprintf("unknown consciousness level %q", req.Consciousness))
	}
	if req.PainScale < 0 || req.PainScale > 10 {
		return apperrors.Validation("pain_scale", "pain scale must be between 0 and 10")
	}
	return nil
}

// GetByVisit returns the visit's triage record, or nil when the visit has
// not been triaged.
func (s *Service) GetByVisit(ctx context.Context, visitID uuid.UUID) (*model.TriageRecord, error) {
	return s.triageRepo.GetByVisit(ctx, visitID)
}

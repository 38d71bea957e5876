package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Stranger261/hospital-er-api/internal/model"
	"github.com/Stranger261/hospital-er-api/internal/repository"
)

type triageRepository struct {
	db *sqlx.DB
}

func NewTriageRepository(db *sqlx.DB) repository.TriageRepository {
	return &triageRepository{db: db}
}

const triageColumns = `
	id, visit_id, triage_nurse_id, triage_category, triage_color,
	presenting_symptoms, consciousness, pain_scale, blood_pressure,
	heart_rate, respiratory_rate, temperature, oxygen_saturation,
	notes, assessed_at, created_at, updated_at, deleted_at
`

func (r *triageRepository) Create(ctx context.Context, triage *model.TriageRecord) error {
	query := `
		INSERT INTO triage_records (
			id, visit_id, triage_nurse_id, triage_category, triage_color,
			presenting_symptoms, consciousness, pain_scale, blood_pressure,
			heart_rate, respiratory_rate, temperature, oxygen_saturation,
			notes, assessed_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err := r.db.ExecContext(ctx, query,
		triage.ID,
		triage.VisitID,
		triage.TriageNurseID,
		triage.TriageCategory,
		triage.TriageColor,
		triage.PresentingSymptoms,
		triage.Consciousness,
		triage.PainScale,
		triage.BloodPressure,
		triage.HeartRate,
		triage.RespiratoryRate,
		triage.Temperature,
		triage.OxygenSaturation,
		triage.Notes,
		triage.AssessedAt,
		triage.CreatedAt,
		triage.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create triage record: %w", err)
	}
	return nil
}

func (r *triageRepository) Get(ctx context.Context, id uuid.UUID) (*model.TriageRecord, error) {
	query := `SELECT ` + triageColumns + ` FROM triage_records WHERE id = $1 AND deleted_at IS NULL`

	var triage model.TriageRecord
	if err := r.db.GetContext(ctx, &triage, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("triage record not found")
		}
		return nil, fmt.Errorf("failed to get triage record: %w", err)
	}
	return &triage, nil
}

func (r *triageRepository) GetByVisit(ctx context.Context, visitID uuid.UUID) (*model.TriageRecord, error) {
	query := `SELECT ` + triageColumns + ` FROM triage_records WHERE visit_id = $1 AND deleted_at IS NULL`

	var triage model.TriageRecord
	if err := r.db.GetContext(ctx, &triage, query, visitID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get triage by visit: %w", err)
	}
	return &triage, nil
}

func (r *triageRepository) Update(ctx context.Context, triage *model.TriageRecord) error {
	query := `
		UPDATE triage_records
		SET triage_category = $1, triage_color = $2, presenting_symptoms = $3,
			consciousness = $4, pain_scale = $5, blood_pressure = $6,
			heart_rate = $7, respiratory_rate = $8, temperature = $9,
			oxygen_saturation = $10, notes = $11, updated_at = $12
		WHERE id = $13 AND deleted_at IS NULL
	`
	triage.UpdatedAt = time.Now()
	result, err := r.db.ExecContext(ctx, query,
		triage.TriageCategory,
		triage.TriageColor,
		triage.PresentingSymptoms,
		triage.Consciousness,
		triage.PainScale,
		triage.BloodPressure,
		triage.HeartRate,
		triage.RespiratoryRate,
		triage.Temperature,
		triage.OxygenSaturation,
		triage.Notes,
		triage.UpdatedAt,
		triage.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update triage record: %w", err)
	}
	return requireRowsAffected(result, "triage record")
}

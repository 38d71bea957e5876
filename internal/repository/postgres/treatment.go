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

type treatmentRepository struct {
	db *sqlx.DB
}

func NewTreatmentRepository(db *sqlx.DB) repository.TreatmentRepository {
	return &treatmentRepository{db: db}
}

const treatmentColumns = `
	id, visit_id, recorded_by_id, treatment_type, description,
	medication_name, dosage, route, performed_at, notes,
	created_at, updated_at, deleted_at
`

func (r *treatmentRepository) Create(ctx context.Context, treatment *model.TreatmentRecord) error {
	query := `
		INSERT INTO treatment_records (
			id, visit_id, recorded_by_id, treatment_type, description,
			medication_name, dosage, route, performed_at, notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		treatment.ID,
		treatment.VisitID,
		treatment.RecordedByID,
		treatment.TreatmentType,
		treatment.Description,
		treatment.MedicationName,
		treatment.Dosage,
		treatment.Route,
		treatment.PerformedAt,
		treatment.Notes,
		treatment.CreatedAt,
		treatment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create treatment record: %w", err)
	}
	return nil
}

func (r *treatmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.TreatmentRecord, error) {
	query := `SELECT ` + treatmentColumns + ` FROM treatment_records WHERE id = $1 AND deleted_at IS NULL`

	var treatment model.TreatmentRecord
	if err := r.db.GetContext(ctx, &treatment, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("treatment record not found")
		}
		return nil, fmt.Errorf("failed to get treatment record: %w", err)
	}
	return &treatment, nil
}

func (r *treatmentRepository) Update(ctx context.Context, treatment *model.TreatmentRecord) error {
	query := `
		UPDATE treatment_records
		SET treatment_type = $1, description = $2, medication_name = $3,
			dosage = $4, route = $5, performed_at = $6, notes = $7, updated_at = $8
		WHERE id = $9 AND deleted_at IS NULL
	`
	treatment.UpdatedAt = time.Now()
	result, err := r.db.ExecContext(ctx, query,
		treatment.TreatmentType,
		treatment.Description,
		treatment.MedicationName,
		treatment.Dosage,
		treatment.Route,
		treatment.PerformedAt,
		treatment.Notes,
		treatment.UpdatedAt,
		treatment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update treatment record: %w", err)
	}
	return requireRowsAffected(result, "treatment record")
}

func (r *treatmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE treatment_records SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete treatment record: %w", err)
	}
	return requireRowsAffected(result, "treatment record")
}

func (r *treatmentRepository) ListByVisit(ctx context.Context, visitID uuid.UUID) ([]*model.TreatmentRecord, error) {
	query := `SELECT ` + treatmentColumns + ` FROM treatment_records
		WHERE visit_id = $1 AND deleted_at IS NULL
		ORDER BY performed_at DESC`

	var treatments []*model.TreatmentRecord
	if err := r.db.SelectContext(ctx, &treatments, query, visitID); err != nil {
		return nil, fmt.Errorf("failed to list treatment records: %w", err)
	}
	return treatments, nil
}

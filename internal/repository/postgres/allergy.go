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

type allergyRepository struct {
	db *sqlx.DB
}

func NewAllergyRepository(db *sqlx.DB) repository.AllergyRepository {
	return &allergyRepository{db: db}
}

func (r *allergyRepository) Create(ctx context.Context, allergy *model.Allergy) error {
	query := `
		INSERT INTO allergies (
			id, patient_id, allergen, reaction, severity, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		allergy.ID,
		allergy.PatientID,
		allergy.Allergen,
		allergy.Reaction,
		allergy.Severity,
		allergy.Notes,
		allergy.CreatedAt,
		allergy.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create allergy: %w", err)
	}
	return nil
}

func (r *allergyRepository) Get(ctx context.Context, id uuid.UUID) (*model.Allergy, error) {
	query := `
		SELECT id, patient_id, allergen, reaction, severity, notes,
			created_at, updated_at, deleted_at
		FROM allergies
		WHERE id = $1 AND deleted_at IS NULL
	`
	var allergy model.Allergy
	if err := r.db.GetContext(ctx, &allergy, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("allergy not found")
		}
		return nil, fmt.Errorf("failed to get allergy: %w", err)
	}
	return &allergy, nil
}

func (r *allergyRepository) Update(ctx context.Context, allergy *model.Allergy) error {
	query := `
		UPDATE allergies
		SET allergen = $1, reaction = $2, severity = $3, notes = $4, updated_at = $5
		WHERE id = $6 AND deleted_at IS NULL
	`
	allergy.UpdatedAt = time.Now()
	result, err := r.db.ExecContext(ctx, query,
		allergy.Allergen,
		allergy.Reaction,
		allergy.Severity,
		allergy.Notes,
		allergy.UpdatedAt,
		allergy.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update allergy: %w", err)
	}
	return requireRowsAffected(result, "allergy")
}

func (r *allergyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE allergies SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete allergy: %w", err)
	}
	return requireRowsAffected(result, "allergy")
}

func (r *allergyRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Allergy, error) {
	query := `
		SELECT id, patient_id, allergen, reaction, severity, notes,
			created_at, updated_at, deleted_at
		FROM allergies
		WHERE patient_id = $1 AND deleted_at IS NULL
		ORDER BY severity DESC, allergen ASC
	`
	var allergies []*model.Allergy
	if err := r.db.SelectContext(ctx, &allergies, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list allergies: %w", err)
	}
	return allergies, nil
}

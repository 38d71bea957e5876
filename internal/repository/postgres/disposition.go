package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Stranger261/hospital-er-api/internal/model"
	"github.com/Stranger261/hospital-er-api/internal/repository"
)

type dispositionRepository struct {
	db *sqlx.DB
}

func NewDispositionRepository(db *sqlx.DB) repository.DispositionRepository {
	return &dispositionRepository{db: db}
}

func (r *dispositionRepository) Create(ctx context.Context, d *model.Disposition) error {
	query := `
		INSERT INTO dispositions (
			id, visit_id, outcome, decided_by_id, disposed_at, notes,
			condition_at_discharge, discharge_type, follow_up_instructions,
			bed_id, primary_diagnosis, admitting_doctor_id, estimated_stay_days,
			destination_facility, transfer_reason, transfer_mode, transfer_contact,
			time_of_death, cause_of_death, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21
		)
	`
	_, err := r.db.ExecContext(ctx, query,
		d.ID,
		d.VisitID,
		d.Outcome,
		d.DecidedByID,
		d.DisposedAt,
		d.Notes,
		d.ConditionAtDischarge,
		d.DischargeType,
		d.FollowUpInstructions,
		d.BedID,
		d.PrimaryDiagnosis,
		d.AdmittingDoctorID,
		d.EstimatedStayDays,
		d.DestinationFacility,
		d.TransferReason,
		d.TransferMode,
		d.TransferContact,
		d.TimeOfDeath,
		d.CauseOfDeath,
		d.CreatedAt,
		d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create disposition: %w", err)
	}
	return nil
}

func (r *dispositionRepository) GetByVisit(ctx context.Context, visitID uuid.UUID) (*model.Disposition, error) {
	query := `
		SELECT id, visit_id, outcome, decided_by_id, disposed_at, notes,
			condition_at_discharge, discharge_type, follow_up_instructions,
			bed_id, primary_diagnosis, admitting_doctor_id, estimated_stay_days,
			destination_facility, transfer_reason, transfer_mode, transfer_contact,
			time_of_death, cause_of_death, created_at, updated_at, deleted_at
		FROM dispositions
		WHERE visit_id = $1 AND deleted_at IS NULL
	`
	var d model.Disposition
	if err := r.db.GetContext(ctx, &d, query, visitID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get disposition: %w", err)
	}
	return &d, nil
}

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

type doctorRepository struct {
	db *sqlx.DB
}

func NewDoctorRepository(db *sqlx.DB) repository.DoctorRepository {
	return &doctorRepository{db: db}
}

const doctorColumns = `
	id, staff_id, first_name, last_name, specialization, is_on_shift,
	is_available, shift_start, shift_end, active_patients,
	created_at, updated_at, deleted_at
`

func (r *doctorRepository) Create(ctx context.Context, doctor *model.ERDoctor) error {
	query := `
		INSERT INTO er_doctors (
			id, staff_id, first_name, last_name, specialization, is_on_shift,
			is_available, shift_start, shift_end, active_patients,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		doctor.ID,
		doctor.StaffID,
		doctor.FirstName,
		doctor.LastName,
		doctor.Specialization,
		doctor.IsOnShift,
		doctor.IsAvailable,
		doctor.ShiftStart,
		doctor.ShiftEnd,
		doctor.ActivePatients,
		doctor.CreatedAt,
		doctor.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	return nil
}

func (r *doctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.ERDoctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM er_doctors WHERE id = $1 AND deleted_at IS NULL`

	var doctor model.ERDoctor
	if err := r.db.GetContext(ctx, &doctor, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("doctor not found")
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) List(ctx context.Context, filters *model.ERDoctorFilters) ([]*model.ERDoctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM er_doctors WHERE deleted_at IS NULL`

	if filters != nil {
		if filters.OnShiftOnly {
			query += " AND is_on_shift = TRUE"
		}
		if filters.AvailableOnly {
			query += " AND is_on_shift = TRUE AND is_available = TRUE"
		}
	}

	// Least-loaded first so the auto-assign path can pick the head of the
	// list.
	query += " ORDER BY active_patients ASC, last_name ASC"

	var doctors []*model.ERDoctor
	if err := r.db.SelectContext(ctx, &doctors, query); err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

func (r *doctorRepository) SetShift(ctx context.Context, id uuid.UUID, onShift bool, start, end *time.Time) error {
	query := `
		UPDATE er_doctors
		SET is_on_shift = $1, is_available = $2, shift_start = $3, shift_end = $4, updated_at = $5
		WHERE id = $6 AND deleted_at IS NULL
	`
	// Going on shift makes a doctor available; ending a shift clears both.
	result, err := r.db.ExecContext(ctx, query, onShift, onShift, start, end, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to set doctor shift: %w", err)
	}
	return requireRowsAffected(result, "doctor")
}

func (r *doctorRepository) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	query := `
		UPDATE er_doctors
		SET is_available = $1, updated_at = $2
		WHERE id = $3 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, available, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to set doctor availability: %w", err)
	}
	return requireRowsAffected(result, "doctor")
}

func (r *doctorRepository) IncrementActivePatients(ctx context.Context, id uuid.UUID, delta int) error {
	query := `
		UPDATE er_doctors
		SET active_patients = GREATEST(active_patients + $1, 0), updated_at = $2
		WHERE id = $3 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, delta, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update doctor load: %w", err)
	}
	return requireRowsAffected(result, "doctor")
}

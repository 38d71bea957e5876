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

type patientRepository struct {
	db *sqlx.DB
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

const patientColumns = `
	id, mrn, first_name, last_name, date_of_birth, gender, phone, email,
	address, status, estimated_age, description, face_image_data,
	created_at, updated_at, deleted_at
`

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (
			id, mrn, first_name, last_name, date_of_birth, gender, phone,
			email, address, status, estimated_age, description, face_image_data,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := r.db.ExecContext(ctx, query,
		patient.ID,
		patient.MRN,
		patient.FirstName,
		patient.LastName,
		patient.DateOfBirth,
		patient.Gender,
		patient.Phone,
		patient.Email,
		patient.Address,
		patient.Status,
		patient.EstimatedAge,
		patient.Description,
		patient.FaceImageData,
		patient.CreatedAt,
		patient.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1 AND deleted_at IS NULL`

	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("patient not found")
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `
		UPDATE patients
		SET mrn = $1, first_name = $2, last_name = $3, date_of_birth = $4,
			gender = $5, phone = $6, email = $7, address = $8, status = $9,
			estimated_age = $10, description = $11, updated_at = $12
		WHERE id = $13 AND deleted_at IS NULL
	`
	patient.UpdatedAt = time.Now()
	result, err := r.db.ExecContext(ctx, query,
		patient.MRN,
		patient.FirstName,
		patient.LastName,
		patient.DateOfBirth,
		patient.Gender,
		patient.Phone,
		patient.Email,
		patient.Address,
		patient.Status,
		patient.EstimatedAge,
		patient.Description,
		patient.UpdatedAt,
		patient.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	return requireRowsAffected(result, "patient")
}

func (r *patientRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE patients
		SET status = $1, updated_at = $2
		WHERE id = $3 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, model.PatientStatusInactive, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to deactivate patient: %w", err)
	}
	return requireRowsAffected(result, "patient")
}

func (r *patientRepository) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE deleted_at IS NULL`
	args := []interface{}{}
	argCount := 1

	if filters != nil {
		if filters.SearchTerm != "" {
			query += fmt.Sprintf(
				" AND (first_name ILIKE $%d OR last_name ILIKE $%d OR mrn ILIKE $%d)",
				argCount, argCount, argCount,
			)
			args = append(args, "%"+filters.SearchTerm+"%")
			argCount++
		}
		if filters.Status != "" {
			query += fmt.Sprintf(" AND status = $%d", argCount)
			args = append(args, filters.Status)
			argCount++
		}
		if filters.TemporaryOnly {
			query += " AND mrn LIKE 'TEMP-%'"
		}
	}

	query += " ORDER BY last_name ASC, first_name ASC"

	if filters != nil && filters.PageSize > 0 {
		offset := 0
		if filters.Page > 1 {
			offset = (filters.Page - 1) * filters.PageSize
		}
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1)
		args = append(args, filters.PageSize, offset)
	}

	var patients []*model.Patient
	if err := r.db.SelectContext(ctx, &patients, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (r *patientRepository) NextTempSequence(ctx context.Context) (int64, error) {
	if _, err := r.db.ExecContext(ctx, "CREATE SEQUENCE IF NOT EXISTS temp_mrn_seq"); err != nil {
		return 0, fmt.Errorf("failed to create temp mrn sequence: %w", err)
	}

	var seq int64
	if err := r.db.GetContext(ctx, &seq, "SELECT nextval('temp_mrn_seq')"); err != nil {
		return 0, fmt.Errorf("failed to get next temp mrn sequence: %w", err)
	}
	return seq, nil
}

func (r *patientRepository) NextMRNSequence(ctx context.Context) (int64, error) {
	if _, err := r.db.ExecContext(ctx, "CREATE SEQUENCE IF NOT EXISTS mrn_seq"); err != nil {
		return 0, fmt.Errorf("failed to create mrn sequence: %w", err)
	}

	var seq int64
	if err := r.db.GetContext(ctx, &seq, "SELECT nextval('mrn_seq')"); err != nil {
		return 0, fmt.Errorf("failed to get next mrn sequence: %w", err)
	}
	return seq, nil
}

func (r *patientRepository) GetMedicalRecords(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalRecord, error) {
	query := `
		SELECT id, patient_id, type, description, diagnosis, medications,
			recorded_by, recorded_at, created_at, updated_at, deleted_at
		FROM medical_records
		WHERE patient_id = $1 AND deleted_at IS NULL
		ORDER BY recorded_at DESC
	`
	var records []*model.MedicalRecord
	if err := r.db.SelectContext(ctx, &records, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to get medical records: %w", err)
	}
	return records, nil
}

func (r *patientRepository) AddMedicalRecord(ctx context.Context, record *model.MedicalRecord) error {
	query := `
		INSERT INTO medical_records (
			id, patient_id, type, description, diagnosis, medications,
			recorded_by, recorded_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.PatientID,
		record.Type,
		record.Description,
		record.Diagnosis,
		record.MedicationsJSON,
		record.RecordedBy,
		record.RecordedAt,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add medical record: %w", err)
	}
	return nil
}

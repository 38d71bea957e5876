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

type visitRepository struct {
	db *sqlx.DB
}

func NewVisitRepository(db *sqlx.DB) repository.VisitRepository {
	return &visitRepository{db: db}
}

const visitColumns = `
	id, er_number, patient_id, triage_level, chief_complaint,
	arrival_mode, arrival_time, er_status, er_doctor_id, triage_id,
	disposition_type, created_at, updated_at, deleted_at
`

func (r *visitRepository) Create(ctx context.Context, visit *model.ERVisit) error {
	query := `
		INSERT INTO er_visits (
			id, er_number, patient_id, triage_level, chief_complaint,
			arrival_mode, arrival_time, er_status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		visit.ID,
		visit.ERNumber,
		visit.PatientID,
		visit.TriageLevel,
		visit.ChiefComplaint,
		visit.ArrivalMode,
		visit.ArrivalTime,
		visit.ERStatus,
		visit.CreatedAt,
		visit.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create visit: %w", err)
	}
	return nil
}

func (r *visitRepository) Get(ctx context.Context, id uuid.UUID) (*model.ERVisit, error) {
	query := `SELECT ` + visitColumns + ` FROM er_visits WHERE id = $1 AND deleted_at IS NULL`

	var visit model.ERVisit
	if err := r.db.GetContext(ctx, &visit, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("visit not found")
		}
		return nil, fmt.Errorf("failed to get visit: %w", err)
	}
	return &visit, nil
}

func (r *visitRepository) List(ctx context.Context, filters *model.ERVisitFilters) ([]*model.ERVisit, error) {
	query := `SELECT ` + visitColumns + ` FROM er_visits WHERE deleted_at IS NULL`
	args := []interface{}{}
	argCount := 1

	if filters != nil {
		if filters.Status != "" {
			query += fmt.Sprintf(" AND er_status = $%d", argCount)
			args = append(args, filters.Status)
			argCount++
		}
		if filters.TriageLevel > 0 {
			query += fmt.Sprintf(" AND triage_level = $%d", argCount)
			args = append(args, filters.TriageLevel)
			argCount++
		}
		if filters.PatientID != uuid.Nil {
			query += fmt.Sprintf(" AND patient_id = $%d", argCount)
			args = append(args, filters.PatientID)
			argCount++
		}
		if !filters.Date.IsZero() {
			query += fmt.Sprintf(" AND arrival_time >= $%d AND arrival_time < $%d", argCount, argCount+1)
			day := filters.Date.Truncate(24 * time.Hour)
			args = append(args, day, day.Add(24*time.Hour))
			argCount += 2
		}
		if filters.Active {
			query += " AND er_status IN ('waiting', 'in_treatment')"
		}
	}

	query += " ORDER BY triage_level ASC, arrival_time ASC"

	var visits []*model.ERVisit
	if err := r.db.SelectContext(ctx, &visits, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}
	return visits, nil
}

func (r *visitRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.ERVisit, error) {
	query := `SELECT ` + visitColumns + ` FROM er_visits
		WHERE patient_id = $1 AND deleted_at IS NULL
		ORDER BY arrival_time DESC`

	var visits []*model.ERVisit
	if err := r.db.SelectContext(ctx, &visits, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list visits by patient: %w", err)
	}
	return visits, nil
}

func (r *visitRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ERStatus, dispositionType *string) error {
	query := `
		UPDATE er_visits
		SET er_status = $1, disposition_type = $2, updated_at = $3
		WHERE id = $4 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, status, dispositionType, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update visit status: %w", err)
	}
	return requireRowsAffected(result, "visit")
}

func (r *visitRepository) SetDoctor(ctx context.Context, id uuid.UUID, doctorID uuid.UUID) error {
	query := `
		UPDATE er_visits
		SET er_doctor_id = $1, updated_at = $2
		WHERE id = $3 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, doctorID, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to set visit doctor: %w", err)
	}
	return requireRowsAffected(result, "visit")
}

func (r *visitRepository) ClearDoctor(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE er_visits
		SET er_doctor_id = NULL, updated_at = $1
		WHERE id = $2 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to clear visit doctor: %w", err)
	}
	return requireRowsAffected(result, "visit")
}

func (r *visitRepository) SetTriage(ctx context.Context, id uuid.UUID, triageID uuid.UUID, triageLevel int) error {
	query := `
		UPDATE er_visits
		SET triage_id = $1, triage_level = $2, updated_at = $3
		WHERE id = $4 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, triageID, triageLevel, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to set visit triage: %w", err)
	}
	return requireRowsAffected(result, "visit")
}

func (r *visitRepository) TransferToPatient(ctx context.Context, fromPatientID, toPatientID uuid.UUID) error {
	query := `
		UPDATE er_visits
		SET patient_id = $1, updated_at = $2
		WHERE patient_id = $3 AND deleted_at IS NULL
	`
	if _, err := r.db.ExecContext(ctx, query, toPatientID, time.Now(), fromPatientID); err != nil {
		return fmt.Errorf("failed to transfer visits: %w", err)
	}
	return nil
}

// NextERSequence reserves the next number for a human-readable ER number,
// one sequence per calendar year.
func (r *visitRepository) NextERSequence(ctx context.Context, year int) (int64, error) {
	seqName := fmt.Sprintf("er_number_seq_%d", year)
	if _, err := r.db.ExecContext(ctx, fmt.Sprintf("CREATE SEQUENCE IF NOT EXISTS %s", seqName)); err != nil {
		return 0, fmt.Errorf("failed to create er sequence: %w", err)
	}

	var seq int64
	if err := r.db.GetContext(ctx, &seq, fmt.Sprintf("SELECT nextval('%s')", seqName)); err != nil {
		return 0, fmt.Errorf("failed to get next er sequence: %w", err)
	}
	return seq, nil
}

func (r *visitRepository) CountsByStatusAndLevel(ctx context.Context, since time.Time) (*model.BoardStats, error) {
	stats := &model.BoardStats{
		ByStatus:      make(map[string]int),
		ByTriageLevel: make(map[int]int),
	}

	type row struct {
		Status      string `db:"er_status"`
		TriageLevel int    `db:"triage_level"`
		Count       int    `db:"count"`
	}

	var rows []row
	query := `
		SELECT er_status, triage_level, COUNT(*) AS count
		FROM er_visits
		WHERE arrival_time >= $1 AND deleted_at IS NULL
		GROUP BY er_status, triage_level
	`
	if err := r.db.SelectContext(ctx, &rows, query, since); err != nil {
		return nil, fmt.Errorf("failed to count visits: %w", err)
	}

	for _, rw := range rows {
		stats.Total += rw.Count
		stats.ByStatus[rw.Status] += rw.Count
		stats.ByTriageLevel[rw.TriageLevel] += rw.Count
	}

	var avg sql.NullFloat64
	avgQuery := `
		SELECT AVG(EXTRACT(EPOCH FROM (NOW() - arrival_time)) / 60)
		FROM er_visits
		WHERE er_status = 'waiting' AND arrival_time >= $1 AND deleted_at IS NULL
	`
	if err := r.db.GetContext(ctx, &avg, avgQuery, since); err != nil {
		return nil, fmt.Errorf("failed to compute average wait: %w", err)
	}
	if avg.Valid {
		stats.AvgWaitMinutes = avg.Float64
	}

	pendingQuery := `
		SELECT
			COUNT(*) FILTER (WHERE triage_id IS NULL) AS pending_triage,
			COUNT(*) FILTER (WHERE triage_id IS NOT NULL AND er_doctor_id IS NULL) AS pending_assign
		FROM er_visits
		WHERE er_status = 'waiting' AND arrival_time >= $1 AND deleted_at IS NULL
	`
	var pending struct {
		PendingTriage int `db:"pending_triage"`
		PendingAssign int `db:"pending_assign"`
	}
	if err := r.db.GetContext(ctx, &pending, pendingQuery, since); err != nil {
		return nil, fmt.Errorf("failed to count pending visits: %w", err)
	}
	stats.PendingTriage = pending.PendingTriage
	stats.PendingAssign = pending.PendingAssign

	return stats, nil
}

func requireRowsAffected(result sql.Result, resource string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%s not found", resource)
	}
	return nil
}

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

type bedRepository struct {
	db *sqlx.DB
}

func NewBedRepository(db *sqlx.DB) repository.BedRepository {
	return &bedRepository{db: db}
}

func (r *bedRepository) ListFloors(ctx context.Context) ([]*model.Floor, error) {
	query := `
		SELECT id, name, number, created_at, updated_at, deleted_at
		FROM floors
		WHERE deleted_at IS NULL
		ORDER BY number ASC
	`
	var floors []*model.Floor
	if err := r.db.SelectContext(ctx, &floors, query); err != nil {
		return nil, fmt.Errorf("failed to list floors: %w", err)
	}
	return floors, nil
}

func (r *bedRepository) ListRooms(ctx context.Context, floorID uuid.UUID) ([]*model.Room, error) {
	query := `
		SELECT id, floor_id, room_number, ward, capacity, created_at, updated_at, deleted_at
		FROM rooms
		WHERE floor_id = $1 AND deleted_at IS NULL
		ORDER BY room_number ASC
	`
	var rooms []*model.Room
	if err := r.db.SelectContext(ctx, &rooms, query, floorID); err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

func (r *bedRepository) ListBeds(ctx context.Context, roomID uuid.UUID, availableOnly bool) ([]*model.Bed, error) {
	query := `
		SELECT id, room_id, label, status, patient_id, created_at, updated_at, deleted_at
		FROM beds
		WHERE room_id = $1 AND deleted_at IS NULL
	`
	if availableOnly {
		query += " AND status = 'available'"
	}
	query += " ORDER BY label ASC"

	var beds []*model.Bed
	if err := r.db.SelectContext(ctx, &beds, query, roomID); err != nil {
		return nil, fmt.Errorf("failed to list beds: %w", err)
	}
	return beds, nil
}

func (r *bedRepository) Get(ctx context.Context, id uuid.UUID) (*model.Bed, error) {
	query := `
		SELECT id, room_id, label, status, patient_id, created_at, updated_at, deleted_at
		FROM beds
		WHERE id = $1 AND deleted_at IS NULL
	`
	var bed model.Bed
	if err := r.db.GetContext(ctx, &bed, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("bed not found")
		}
		return nil, fmt.Errorf("failed to get bed: %w", err)
	}

	// Joined descriptors for the browse and admit responses.
	roomQuery := `
		SELECT id, floor_id, room_number, ward, capacity, created_at, updated_at, deleted_at
		FROM rooms WHERE id = $1
	`
	var room model.Room
	if err := r.db.GetContext(ctx, &room, roomQuery, bed.RoomID); err == nil {
		bed.Room = &room

		floorQuery := `
			SELECT id, name, number, created_at, updated_at, deleted_at
			FROM floors WHERE id = $1
		`
		var floor model.Floor
		if err := r.db.GetContext(ctx, &floor, floorQuery, room.FloorID); err == nil {
			bed.Floor = &floor
		}
	}

	return &bed, nil
}

func (r *bedRepository) CreateFloor(ctx context.Context, floor *model.Floor) error {
	query := `
		INSERT INTO floors (id, name, number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.db.ExecContext(ctx, query, floor.ID, floor.Name, floor.Number, floor.CreatedAt, floor.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create floor: %w", err)
	}
	return nil
}

func (r *bedRepository) CreateRoom(ctx context.Context, room *model.Room) error {
	query := `
		INSERT INTO rooms (id, floor_id, room_number, ward, capacity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := r.db.ExecContext(ctx, query,
		room.ID, room.FloorID, room.RoomNumber, room.Ward, room.Capacity, room.CreatedAt, room.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}
	return nil
}

func (r *bedRepository) CreateBed(ctx context.Context, bed *model.Bed) error {
	query := `
		INSERT INTO beds (id, room_id, label, status, patient_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := r.db.ExecContext(ctx, query,
		bed.ID, bed.RoomID, bed.Label, bed.Status, bed.PatientID, bed.CreatedAt, bed.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create bed: %w", err)
	}
	return nil
}

func (r *bedRepository) SetStatus(ctx context.Context, id uuid.UUID, status model.BedStatus, patientID *uuid.UUID) error {
	query := `
		UPDATE beds
		SET status = $1, patient_id = $2, updated_at = $3
		WHERE id = $4 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, status, patientID, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to set bed status: %w", err)
	}
	return requireRowsAffected(result, "bed")
}

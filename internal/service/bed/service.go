package bed

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Stranger261/hospital-er-api/internal/model"
	"github.com/Stranger261/hospital-er-api/internal/repository"
	apperrors "github.com/Stranger261/hospital-er-api/pkg/errors"
)

// Service exposes the floor > room > bed browse hierarchy used by the admit
// dialog. Occupancy changes happen in the disposition flow; this service
// only covers browsing and maintenance state.
type Service struct {
	bedRepo repository.BedRepository
}

func NewService(bedRepo repository.BedRepository) *Service {
	return &Service{bedRepo: bedRepo}
}

func (s *Service) ListFloors(ctx context.Context) ([]*model.Floor, error) {
	floors, err := s.bedRepo.ListFloors(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list floors: %w", err)
	}
	return floors, nil
}

func (s *Service) ListRooms(ctx context.Context, floorID uuid.UUID) ([]*model.Room, error) {
	rooms, err := s.bedRepo.ListRooms(ctx, floorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

// ListBeds returns the beds in a room, optionally only those available for
// admission.
func (s *Service) ListBeds(ctx context.Context, roomID uuid.UUID, availableOnly bool) ([]*model.Bed, error) {
	beds, err := s.bedRepo.ListBeds(ctx, roomID, availableOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list beds: %w", err)
	}
	return beds, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Bed, error) {
	bed, err := s.bedRepo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("bed", err)
	}
	return bed, nil
}

// SetMaintenance toggles a bed in and out of maintenance. Occupied beds
// cannot be taken down.
func (s *Service) SetMaintenance(ctx context.Context, id uuid.UUID, underMaintenance bool) (*model.Bed, error) {
	bed, err := s.bedRepo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("bed", err)
	}

	if underMaintenance {
		if bed.Status == model.BedStatusOccupied {
			return nil, apperrors.Conflict(fmt.Sprintf("bed %s is occupied", bed.Label))
		}
		bed.Status = model.BedStatusMaintenance
	} else {
		if bed.Status != model.BedStatusMaintenance {
			return nil, apperrors.Conflict(fmt.Sprintf("bed %s is not under maintenance", bed.Label))
		}
		bed.Status = model.BedStatusAvailable
	}

	if err := s.bedRepo.SetStatus(ctx, bed.ID, bed.Status, nil); err != nil {
		return nil, fmt.Errorf("failed to update bed status: %w", err)
	}
	return bed, nil
}

// Release frees an occupied bed, typically on inpatient discharge.
func (s *Service) Release(ctx context.Context, id uuid.UUID) (*model.Bed, error) {
	bed, err := s.bedRepo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("bed", err)
	}
	if bed.Status != model.BedStatusOccupied {
		return nil, apperrors.Conflict(fmt.Sprintf("bed %s is not occupied", bed.Label))
	}

	if err := s.bedRepo.SetStatus(ctx, bed.ID, model.BedStatusAvailable, nil); err != nil {
		return nil, fmt.Errorf("failed to release bed: %w", err)
	}
	bed.Status = model.BedStatusAvailable
	bed.PatientID = nil
	return bed, nil
}

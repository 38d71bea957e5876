package bed

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stranger261/hospital-er-api/internal/model"
	"github.com/Stranger261/hospital-er-api/internal/repository/memory"
	apperrors "github.com/Stranger261/hospital-er-api/pkg/errors"
)

func seedBed(t *testing.T, store *memory.BedStore, status model.BedStatus) *model.Bed {
	t.Helper()
	bed := &model.Bed{
		Base:   model.Base{ID: uuid.New()},
		RoomID: uuid.New(),
		Label:  "205-A",
		Status: status,
	}
	if status == model.BedStatusOccupied {
		patientID := uuid.New()
		bed.PatientID = &patientID
	}
	require.NoError(t, store.CreateBed(context.Background(), bed))
	return bed
}

func TestListBedsAvailableOnly(t *testing.T) {
	store := memory.NewBedStore()
	svc := NewService(store)
	roomID := uuid.New()

	for i, status := range []model.BedStatus{model.BedStatusAvailable, model.BedStatusOccupied, model.BedStatusMaintenance} {
		bed := &model.Bed{
			Base:   model.Base{ID: uuid.New()},
			RoomID: roomID,
			Label:  string(rune('A' + i)),
			Status: status,
		}
		require.NoError(t, store.CreateBed(context.Background(), bed))
	}

	all, err := svc.ListBeds(context.Background(), roomID, false)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	available, err := svc.ListBeds(context.Background(), roomID, true)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, model.BedStatusAvailable, available[0].Status)
}

func TestSetMaintenance(t *testing.T) {
	t.Run("available bed goes down and comes back", func(t *testing.T) {
		store := memory.NewBedStore()
		svc := NewService(store)
		bed := seedBed(t, store, model.BedStatusAvailable)

		down, err := svc.SetMaintenance(context.Background(), bed.ID, true)
		require.NoError(t, err)
		assert.Equal(t, model.BedStatusMaintenance, down.Status)

		up, err := svc.SetMaintenance(context.Background(), bed.ID, false)
		require.NoError(t, err)
		assert.Equal(t, model.BedStatusAvailable, up.Status)
	})

	t.Run("occupied bed cannot go down", func(t *testing.T) {
		store := memory.NewBedStore()
		svc := NewService(store)
		bed := seedBed(t, store, model.BedStatusOccupied)

		_, err := svc.SetMaintenance(context.Background(), bed.ID, true)
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrConflict, appErr.Code)
	})

	t.Run("available bed cannot leave maintenance", func(t *testing.T) {
		store := memory.NewBedStore()
		svc := NewService(store)
		bed := seedBed(t, store, model.BedStatusAvailable)

		_, err := svc.SetMaintenance(context.Background(), bed.ID, false)
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrConflict, appErr.Code)
	})
}

func TestRelease(t *testing.T) {
	store := memory.NewBedStore()
	svc := NewService(store)

	occupied := seedBed(t, store, model.BedStatusOccupied)
	released, err := svc.Release(context.Background(), occupied.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BedStatusAvailable, released.Status)
	assert.Nil(t, released.PatientID)

	_, err = svc.Release(context.Background(), occupied.ID)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}

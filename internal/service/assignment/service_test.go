package assignment

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stranger261/hospital-er-api/internal/model"
	"github.com/Stranger261/hospital-er-api/internal/repository/memory"
	"github.com/Stranger261/hospital-er-api/internal/service/event"
	apperrors "github.com/Stranger261/hospital-er-api/pkg/errors"
	"github.com/Stranger261/hospital-er-api/pkg/logger"
	"github.com/Stranger261/hospital-er-api/pkg/metrics"
)

var testMetrics = metrics.NewMetrics("test_assignment", "service")

type fixture struct {
	svc     *Service
	visits  *memory.VisitStore
	doctors *memory.DoctorStore
	outbox  *memory.OutboxStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	visits := memory.NewVisitStore()
	doctors := memory.NewDoctorStore()
	outbox := memory.NewOutboxStore()
	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	events := event.NewService(outbox, log)
	return &fixture{
		svc:     NewService(visits, doctors, events, testMetrics),
		visits:  visits,
		doctors: doctors,
		outbox:  outbox,
	}
}

func (f *fixture) seedVisit(t *testing.T, triaged bool) *model.ERVisit {
	t.Helper()
	visit := &model.ERVisit{
		Base:        model.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		ERNumber:    "ER-2026-00042",
		PatientID:   uuid.New(),
		ArrivalTime: time.Now().Add(-10 * time.Minute),
		ERStatus:    model.ERStatusWaiting,
	}
	if triaged {
		triageID := uuid.New()
		visit.TriageID = &triageID
		visit.TriageLevel = 1
	}
	require.NoError(t, f.visits.Create(context.Background(), visit))
	return visit
}

func (f *fixture) seedDoctor(t *testing.T, lastName string, onShift, available bool, load int) *model.ERDoctor {
	t.Helper()
	doctor := &model.ERDoctor{
		Base:           model.Base{ID: uuid.New()},
		StaffID:        uuid.New(),
		FirstName:      "Ana",
		LastName:       lastName,
		Specialization: "Emergency Medicine",
		IsOnShift:      onShift,
		IsAvailable:    available,
		ActivePatients: load,
	}
	require.NoError(t, f.doctors.Create(context.Background(), doctor))
	return doctor
}

func TestAutoAssignPicksLeastLoadedAvailableDoctor(t *testing.T) {
	f := newFixture(t)
	visit := f.seedVisit(t, true)
	f.seedDoctor(t, "Reyes", true, true, 3)
	leastLoaded := f.seedDoctor(t, "Santos", true, true, 1)
	f.seedDoctor(t, "Cruz", true, false, 0)   // busy, skipped by auto
	f.seedDoctor(t, "Lopez", false, false, 0) // off shift

	doctor, err := f.svc.AutoAssign(context.Background(), visit.ID)
	require.NoError(t, err)
	assert.Equal(t, leastLoaded.ID, doctor.ID)

	updated, err := f.visits.Get(context.Background(), visit.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ERStatusInTreatment, updated.ERStatus)
	require.NotNil(t, updated.ERDoctorID)
	assert.Equal(t, leastLoaded.ID, *updated.ERDoctorID)

	fresh, err := f.doctors.Get(context.Background(), leastLoaded.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, fresh.ActivePatients)
	assert.Contains(t, f.outbox.EventTypes(), model.EventDoctorAssigned)
}

func TestAutoAssignWithNoAvailableDoctors(t *testing.T) {
	f := newFixture(t)
	visit := f.seedVisit(t, true)
	f.seedDoctor(t, "Cruz", true, false, 2)
	f.seedDoctor(t, "Lopez", false, false, 0)

	_, err := f.svc.AutoAssign(context.Background(), visit.ID)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}

func TestAssignRequiresTriageFirst(t *testing.T) {
	f := newFixture(t)
	visit := f.seedVisit(t, false)
	doctor := f.seedDoctor(t, "Reyes", true, true, 0)

	_, err := f.svc.ManualAssign(context.Background(), visit.ID, doctor.ID)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
	assert.Contains(t, appErr.Message, "triaged")

	_, err = f.svc.AutoAssign(context.Background(), visit.ID)
	appErr, ok = apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}

func TestManualAssignAcceptsBusyDoctor(t *testing.T) {
	f := newFixture(t)
	visit := f.seedVisit(t, true)
	busy := f.seedDoctor(t, "Cruz", true, false, 4)

	doctor, err := f.svc.ManualAssign(context.Background(), visit.ID, busy.ID)
	require.NoError(t, err)
	assert.Equal(t, busy.ID, doctor.ID)

	updated, err := f.visits.Get(context.Background(), visit.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ERStatusInTreatment, updated.ERStatus)
}

func TestManualAssignRejectsOffShiftDoctor(t *testing.T) {
	f := newFixture(t)
	visit := f.seedVisit(t, true)
	offShift := f.seedDoctor(t, "Lopez", false, false, 0)

	_, err := f.svc.ManualAssign(context.Background(), visit.ID, offShift.ID)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
	assert.Contains(t, appErr.Message, "not on shift")
}

func TestAssignRejectsAlreadyAssignedVisit(t *testing.T) {
	f := newFixture(t)
	visit := f.seedVisit(t, true)
	first := f.seedDoctor(t, "Reyes", true, true, 0)
	second := f.seedDoctor(t, "Santos", true, true, 0)

	_, err := f.svc.ManualAssign(context.Background(), visit.ID, first.ID)
	require.NoError(t, err)

	_, err = f.svc.ManualAssign(context.Background(), visit.ID, second.ID)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}

func TestReleaseClearsDoctorAndLoad(t *testing.T) {
	f := newFixture(t)
	visit := f.seedVisit(t, true)
	doctor := f.seedDoctor(t, "Reyes", true, true, 0)

	_, err := f.svc.ManualAssign(context.Background(), visit.ID, doctor.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.Release(context.Background(), visit.ID))

	updated, err := f.visits.Get(context.Background(), visit.ID)
	require.NoError(t, err)
	assert.Nil(t, updated.ERDoctorID)
	assert.Equal(t, model.ERStatusInTreatment, updated.ERStatus, "release keeps the visit in treatment")

	fresh, err := f.doctors.Get(context.Background(), doctor.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, fresh.ActivePatients)
	assert.Contains(t, f.outbox.EventTypes(), model.EventDoctorReleased)
}

func TestReleaseWithoutAssignedDoctor(t *testing.T) {
	f := newFixture(t)
	visit := f.seedVisit(t, true)

	err := f.svc.Release(context.Background(), visit.ID)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}

func TestShiftLifecycle(t *testing.T) {
	f := newFixture(t)
	doctor := f.seedDoctor(t, "Reyes", false, false, 0)
	ctx := context.Background()

	require.NoError(t, f.svc.StartShift(ctx, doctor.ID))
	fresh, err := f.doctors.Get(ctx, doctor.ID)
	require.NoError(t, err)
	assert.True(t, fresh.IsOnShift)
	assert.True(t, fresh.IsAvailable)

	err = f.svc.StartShift(ctx, doctor.ID)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)

	require.NoError(t, f.svc.SetAvailability(ctx, doctor.ID, false))
	fresh, err = f.doctors.Get(ctx, doctor.ID)
	require.NoError(t, err)
	assert.False(t, fresh.IsAvailable)

	require.NoError(t, f.svc.EndShift(ctx, doctor.ID))
	fresh, err = f.doctors.Get(ctx, doctor.ID)
	require.NoError(t, err)
	assert.False(t, fresh.IsOnShift)

	err = f.svc.SetAvailability(ctx, doctor.ID, true)
	appErr, ok = apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}

func TestListDoctorsDirectoryCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedDoctor(t, "Reyes", true, true, 0)

	doctors, err := f.svc.ListDoctors(ctx, nil)
	require.NoError(t, err)
	require.Len(t, doctors, 1)

	// A doctor added behind the service's back is invisible until the
	// cache is invalidated or expires.
	late := f.seedDoctor(t, "Tan", false, false, 0)
	doctors, err = f.svc.ListDoctors(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, doctors, 1)

	// Filtered listings bypass the cache entirely.
	onShift, err := f.svc.ListDoctors(ctx, &model.ERDoctorFilters{OnShiftOnly: true})
	require.NoError(t, err)
	assert.Len(t, onShift, 1)

	// Any shift mutation drops the cached directory.
	require.NoError(t, f.svc.StartShift(ctx, late.ID))
	doctors, err = f.svc.ListDoctors(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, doctors, 2)
}

package triage

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

var testMetrics = metrics.NewMetrics("test_triage", "service")

type fixture struct {
	svc     *Service
	visits  *memory.VisitStore
	triages *memory.TriageStore
	outbox  *memory.OutboxStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	visits := memory.NewVisitStore()
	triages := memory.NewTriageStore()
	outbox := memory.NewOutboxStore()
	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	events := event.NewService(outbox, log)
	return &fixture{
		svc:     NewService(triages, visits, events, testMetrics),
		visits:  visits,
		triages: triages,
		outbox:  outbox,
	}
}

func (f *fixture) seedVisit(t *testing.T, status model.ERStatus) *model.ERVisit {
	t.Helper()
	visit := &model.ERVisit{
		Base:           model.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		ERNumber:       "ER-2026-00001",
		PatientID:      uuid.New(),
		ChiefComplaint: "chest pain",
		ArrivalMode:    string(model.ArrivalModeWalkIn),
		ArrivalTime:    time.Now().Add(-20 * time.Minute),
		ERStatus:       status,
	}
	require.NoError(t, f.visits.Create(context.Background(), visit))
	return visit
}

func validRequest(category int) *model.CreateTriageRequest {
	return &model.CreateTriageRequest{
		TriageCategory:     category,
		PresentingSymptoms: "crushing chest pain radiating to left arm",
		Consciousness:      string(model.ConsciousnessAlert),
		PainScale:          8,
		BloodPressure:      "150/95",
		HeartRate:          "110",
	}
}

func TestRecordTriageDirectiveByCategory(t *testing.T) {
	nurse := model.Actor{StaffID: uuid.New(), Role: model.StaffRoleNurse}

	t.Run("category 1 directs auto dispatch", func(t *testing.T) {
		f := newFixture(t)
		visit := f.seedVisit(t, model.ERStatusWaiting)

		result, err := f.svc.RecordTriage(context.Background(), visit.ID, nurse, validRequest(1))
		require.NoError(t, err)
		assert.Equal(t, model.DirectiveAutoAssign, result.Directive)
		assert.Equal(t, model.TriageColorRed, result.Triage.TriageColor)
		assert.Equal(t, nurse.StaffID, result.Triage.TriageNurseID)
	})

	t.Run("categories 2 through 5 direct manual selection", func(t *testing.T) {
		for category := 2; category <= 5; category++ {
			f := newFixture(t)
			visit := f.seedVisit(t, model.ERStatusWaiting)

			result, err := f.svc.RecordTriage(context.Background(), visit.ID, nurse, validRequest(category))
			require.NoError(t, err)
			assert.Equal(t, model.DirectiveSelectDoctor, result.Directive, "category %d", category)
		}
	})
}

func TestRecordTriageUpdatesVisit(t *testing.T) {
	f := newFixture(t)
	visit := f.seedVisit(t, model.ERStatusWaiting)
	nurse := model.Actor{StaffID: uuid.New(), Role: model.StaffRoleNurse}

	result, err := f.svc.RecordTriage(context.Background(), visit.ID, nurse, validRequest(3))
	require.NoError(t, err)

	updated, err := f.visits.Get(context.Background(), visit.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.TriageID)
	assert.Equal(t, result.Triage.ID, *updated.TriageID)
	assert.Equal(t, 3, updated.TriageLevel)
	assert.Contains(t, f.outbox.EventTypes(), model.EventTriageRecorded)
}

func TestRecordTriageValidation(t *testing.T) {
	f := newFixture(t)
	visit := f.seedVisit(t, model.ERStatusWaiting)
	nurse := model.Actor{StaffID: uuid.New()}

	t.Run("blank symptoms rejected", func(t *testing.T) {
		req := validRequest(2)
		req.PresentingSymptoms = "   "
		_, err := f.svc.RecordTriage(context.Background(), visit.ID, nurse, req)
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrValidation, appErr.Code)
		assert.Equal(t, "presenting_symptoms", appErr.Field)
	})

	t.Run("unknown consciousness rejected", func(t *testing.T) {
		req := validRequest(2)
		req.Consciousness = "sleepy"
		_, err := f.svc.RecordTriage(context.Background(), visit.ID, nurse, req)
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrValidation, appErr.Code)
	})

	t.Run("pain scale out of range rejected", func(t *testing.T) {
		req := validRequest(2)
		req.PainScale = 11
		_, err := f.svc.RecordTriage(context.Background(), visit.ID, nurse, req)
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrValidation, appErr.Code)
	})

	t.Run("invalid category rejected", func(t *testing.T) {
		_, err := f.svc.RecordTriage(context.Background(), visit.ID, nurse, validRequest(6))
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrValidation, appErr.Code)
		assert.Equal(t, "triage_category", appErr.Field)
	})
}

func TestRecordTriageConflicts(t *testing.T) {
	nurse := model.Actor{StaffID: uuid.New()}

	t.Run("already triaged visit rejected", func(t *testing.T) {
		f := newFixture(t)
		visit := f.seedVisit(t, model.ERStatusWaiting)
		_, err := f.svc.RecordTriage(context.Background(), visit.ID, nurse, validRequest(2))
		require.NoError(t, err)

		_, err = f.svc.RecordTriage(context.Background(), visit.ID, nurse, validRequest(3))
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrConflict, appErr.Code)
	})

	t.Run("terminal visit rejected", func(t *testing.T) {
		f := newFixture(t)
		visit := f.seedVisit(t, model.ERStatusDischarged)
		_, err := f.svc.RecordTriage(context.Background(), visit.ID, nurse, validRequest(2))
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrConflict, appErr.Code)
	})

	t.Run("unknown visit rejected", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.RecordTriage(context.Background(), uuid.New(), nurse, validRequest(2))
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
	})
}

func TestUpdateTriageKeepsCategoryAndColorInLockstep(t *testing.T) {
	f := newFixture(t)
	visit := f.seedVisit(t, model.ERStatusWaiting)
	nurse := model.Actor{StaffID: uuid.New()}

	_, err := f.svc.RecordTriage(context.Background(), visit.ID, nurse, validRequest(4))
	require.NoError(t, err)

	req := validRequest(2)
	updated, err := f.svc.UpdateTriage(context.Background(), visit.ID, req)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.TriageCategory)
	assert.Equal(t, model.TriageColorOrange, updated.TriageColor)

	fresh, err := f.visits.Get(context.Background(), visit.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, fresh.TriageLevel)
}

func TestUpdateTriageWithoutRecord(t *testing.T) {
	f := newFixture(t)
	visit := f.seedVisit(t, model.ERStatusWaiting)

	_, err := f.svc.UpdateTriage(context.Background(), visit.ID, validRequest(2))
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
}

func TestUpdateTriageRejectsClosedVisit(t *testing.T) {
	f := newFixture(t)
	visit := f.seedVisit(t, model.ERStatusWaiting)
	nurse := model.Actor{StaffID: uuid.New()}

	_, err := f.svc.RecordTriage(context.Background(), visit.ID, nurse, validRequest(3))
	require.NoError(t, err)
	require.NoError(t, f.visits.UpdateStatus(context.Background(), visit.ID, model.ERStatusInTreatment, nil))
	require.NoError(t, f.visits.UpdateStatus(context.Background(), visit.ID, model.ERStatusDischarged, nil))

	_, err = f.svc.UpdateTriage(context.Background(), visit.ID, validRequest(1))
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)

	// Neither the assessment nor the visit's level moved.
	triage, err := f.triages.GetByVisit(context.Background(), visit.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, triage.TriageCategory)
	fresh, err := f.visits.Get(context.Background(), visit.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, fresh.TriageLevel)
}

func TestUpdateTriageValidatesVitals(t *testing.T) {
	f := newFixture(t)
	visit := f.seedVisit(t, model.ERStatusWaiting)
	nurse := model.Actor{StaffID: uuid.New()}

	_, err := f.svc.RecordTriage(context.Background(), visit.ID, nurse, validRequest(3))
	require.NoError(t, err)

	req := validRequest(3)
	req.Consciousness = "asleep"
	_, err = f.svc.UpdateTriage(context.Background(), visit.ID, req)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrValidation, appErr.Code)
	assert.Equal(t, "consciousness", appErr.Field)

	req = validRequest(3)
	req.PainScale = 11
	_, err = f.svc.UpdateTriage(context.Background(), visit.ID, req)
	appErr, ok = apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrValidation, appErr.Code)
	assert.Equal(t, "pain_scale", appErr.Field)
}

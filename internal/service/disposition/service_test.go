package disposition

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stranger261/hospital-er-api/config"
	"github.com/Stranger261/hospital-er-api/internal/email"
	"github.com/Stranger261/hospital-er-api/internal/model"
	"github.com/Stranger261/hospital-er-api/internal/repository/memory"
	"github.com/Stranger261/hospital-er-api/internal/service/event"
	apperrors "github.com/Stranger261/hospital-er-api/pkg/errors"
	"github.com/Stranger261/hospital-er-api/pkg/logger"
	"github.com/Stranger261/hospital-er-api/pkg/metrics"
	"github.com/Stranger261/hospital-er-api/pkg/redislock"
)

var testMetrics = metrics.NewMetrics("test_disposition", "service")

var allOutcomes = []string{"discharged", "admitted", "transferred", "left_ama", "deceased"}

type fixture struct {
	svc          *Service
	visits       *memory.VisitStore
	doctors      *memory.DoctorStore
	beds         *memory.BedStore
	dispositions *memory.DispositionStore
	outbox       *memory.OutboxStore
}

func newFixture(t *testing.T, enabledOutcomes []string) *fixture {
	t.Helper()
	visits := memory.NewVisitStore()
	doctors := memory.NewDoctorStore()
	beds := memory.NewBedStore()
	dispositions := memory.NewDispositionStore()
	outbox := memory.NewOutboxStore()
	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	svc := NewService(
		dispositions,
		visits,
		doctors,
		beds,
		redislock.NoopLocker{},
		email.NoopNotifier{},
		event.NewService(outbox, log),
		testMetrics,
		log,
		config.ERConfig{EnabledOutcomes: enabledOutcomes},
	)
	return &fixture{
		svc:          svc,
		visits:       visits,
		doctors:      doctors,
		beds:         beds,
		dispositions: dispositions,
		outbox:       outbox,
	}
}

func (f *fixture) seedVisit(t *testing.T, status model.ERStatus, doctorID *uuid.UUID) *model.ERVisit {
	t.Helper()
	visit := &model.ERVisit{
		Base:        model.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		ERNumber:    "ER-2026-00099",
		PatientID:   uuid.New(),
		ArrivalTime: time.Now().Add(-2 * time.Hour),
		ERStatus:    status,
		ERDoctorID:  doctorID,
	}
	require.NoError(t, f.visits.Create(context.Background(), visit))
	return visit
}

func (f *fixture) seedBed(t *testing.T, status model.BedStatus) *model.Bed {
	t.Helper()
	bed := &model.Bed{
		Base:   model.Base{ID: uuid.New()},
		RoomID: uuid.New(),
		Label:  "301-B",
		Status: status,
	}
	require.NoError(t, f.beds.CreateBed(context.Background(), bed))
	return bed
}

func TestDisposeDischarged(t *testing.T) {
	f := newFixture(t, allOutcomes)
	doctor := &model.ERDoctor{Base: model.Base{ID: uuid.New()}, IsOnShift: true, ActivePatients: 2}
	require.NoError(t, f.doctors.Create(context.Background(), doctor))
	visit := f.seedVisit(t, model.ERStatusInTreatment, &doctor.ID)
	actor := model.Actor{StaffID: uuid.New(), Role: model.StaffRoleDoctor}

	disposition, err := f.svc.Dispose(context.Background(), visit.ID, actor, &model.DispositionRequest{
		Outcome:              model.OutcomeDischarged,
		ConditionAtDischarge: "stable",
	})
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeDischarged, disposition.Outcome)
	require.NotNil(t, disposition.DischargeType)
	assert.Equal(t, "home", *disposition.DischargeType, "discharge type defaults to home")

	closed, err := f.visits.Get(context.Background(), visit.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ERStatusDischarged, closed.ERStatus)
	require.NotNil(t, closed.DispositionType)
	assert.Equal(t, "discharged", *closed.DispositionType)

	fresh, err := f.doctors.Get(context.Background(), doctor.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.ActivePatients, "treating doctor is freed")
	assert.Contains(t, f.outbox.EventTypes(), model.EventVisitDisposed)
}

func TestDisposeAdmittedOccupiesBed(t *testing.T) {
	f := newFixture(t, allOutcomes)
	visit := f.seedVisit(t, model.ERStatusInTreatment, nil)
	bed := f.seedBed(t, model.BedStatusAvailable)
	actor := model.Actor{StaffID: uuid.New()}

	disposition, err := f.svc.Dispose(context.Background(), visit.ID, actor, &model.DispositionRequest{
		Outcome:          model.OutcomeAdmitted,
		BedID:            &bed.ID,
		PrimaryDiagnosis: "community acquired pneumonia",
	})
	require.NoError(t, err)
	require.NotNil(t, disposition.BedID)
	assert.Equal(t, bed.ID, *disposition.BedID)

	occupied, err := f.beds.Get(context.Background(), bed.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BedStatusOccupied, occupied.Status)
	require.NotNil(t, occupied.PatientID)
	assert.Equal(t, visit.PatientID, *occupied.PatientID)

	closed, err := f.visits.Get(context.Background(), visit.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ERStatusAdmitted, closed.ERStatus)
}

func TestDisposeAdmittedRejectsUnavailableBed(t *testing.T) {
	f := newFixture(t, allOutcomes)
	visit := f.seedVisit(t, model.ERStatusInTreatment, nil)
	bed := f.seedBed(t, model.BedStatusOccupied)
	actor := model.Actor{StaffID: uuid.New()}

	_, err := f.svc.Dispose(context.Background(), visit.ID, actor, &model.DispositionRequest{
		Outcome:          model.OutcomeAdmitted,
		BedID:            &bed.ID,
		PrimaryDiagnosis: "sepsis",
	})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)

	open, err := f.visits.Get(context.Background(), visit.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ERStatusInTreatment, open.ERStatus, "visit stays open when admission fails")
}

func TestDisposeRequiredFieldsPerOutcome(t *testing.T) {
	actor := model.Actor{StaffID: uuid.New()}

	cases := []struct {
		name  string
		req   *model.DispositionRequest
		field string
	}{
		{
			name:  "discharged without condition",
			req:   &model.DispositionRequest{Outcome: model.OutcomeDischarged},
			field: "condition_at_discharge",
		},
		{
			name:  "admitted without bed",
			req:   &model.DispositionRequest{Outcome: model.OutcomeAdmitted, PrimaryDiagnosis: "CHF"},
			field: "bed_id",
		},
		{
			name: "admitted without diagnosis",
			req: func() *model.DispositionRequest {
				bedID := uuid.New()
				return &model.DispositionRequest{Outcome: model.OutcomeAdmitted, BedID: &bedID}
			}(),
			field: "primary_diagnosis",
		},
		{
			name:  "transferred without destination",
			req:   &model.DispositionRequest{Outcome: model.OutcomeTransferred, TransferReason: "needs cath lab"},
			field: "destination_facility",
		},
		{
			name:  "transferred without reason",
			req:   &model.DispositionRequest{Outcome: model.OutcomeTransferred, DestinationFacility: "St. Luke's"},
			field: "transfer_reason",
		},
		{
			name:  "deceased without cause",
			req:   &model.DispositionRequest{Outcome: model.OutcomeDeceased},
			field: "cause_of_death",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, allOutcomes)
			visit := f.seedVisit(t, model.ERStatusInTreatment, nil)

			_, err := f.svc.Dispose(context.Background(), visit.ID, actor, tc.req)
			appErr, ok := apperrors.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperrors.ErrValidation, appErr.Code)
			assert.Equal(t, tc.field, appErr.Field)
		})
	}
}

func TestDisposeLeftAMARequiresNothingExtra(t *testing.T) {
	f := newFixture(t, allOutcomes)
	visit := f.seedVisit(t, model.ERStatusInTreatment, nil)
	actor := model.Actor{StaffID: uuid.New()}

	disposition, err := f.svc.Dispose(context.Background(), visit.ID, actor, &model.DispositionRequest{
		Outcome: model.OutcomeLeftAMA,
		Notes:   "patient left against advice after counselling",
	})
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeLeftAMA, disposition.Outcome)

	closed, err := f.visits.Get(context.Background(), visit.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ERStatusLeftAMA, closed.ERStatus)
}

func TestDisposeDeceasedDefaultsTimeOfDeath(t *testing.T) {
	f := newFixture(t, allOutcomes)
	visit := f.seedVisit(t, model.ERStatusInTreatment, nil)
	actor := model.Actor{StaffID: uuid.New()}

	before := time.Now()
	disposition, err := f.svc.Dispose(context.Background(), visit.ID, actor, &model.DispositionRequest{
		Outcome:      model.OutcomeDeceased,
		CauseOfDeath: "cardiac arrest",
	})
	require.NoError(t, err)
	require.NotNil(t, disposition.TimeOfDeath)
	assert.False(t, disposition.TimeOfDeath.Before(before))
}

func TestDisposeDisabledOutcome(t *testing.T) {
	f := newFixture(t, []string{"discharged", "admitted", "deceased"})
	visit := f.seedVisit(t, model.ERStatusInTreatment, nil)
	actor := model.Actor{StaffID: uuid.New()}

	_, err := f.svc.Dispose(context.Background(), visit.ID, actor, &model.DispositionRequest{
		Outcome:             model.OutcomeTransferred,
		DestinationFacility: "St. Luke's",
		TransferReason:      "specialist care",
	})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)

	assert.Equal(t, []model.DispositionOutcome{
		model.OutcomeDischarged,
		model.OutcomeAdmitted,
		model.OutcomeDeceased,
	}, f.svc.EnabledOutcomes())
}

func TestDisposeStateConflicts(t *testing.T) {
	actor := model.Actor{StaffID: uuid.New()}
	req := &model.DispositionRequest{Outcome: model.OutcomeDischarged, ConditionAtDischarge: "stable"}

	t.Run("waiting visit rejected", func(t *testing.T) {
		f := newFixture(t, allOutcomes)
		visit := f.seedVisit(t, model.ERStatusWaiting, nil)
		_, err := f.svc.Dispose(context.Background(), visit.ID, actor, req)
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrConflict, appErr.Code)
	})

	t.Run("closed visit rejected", func(t *testing.T) {
		f := newFixture(t, allOutcomes)
		visit := f.seedVisit(t, model.ERStatusDischarged, nil)
		_, err := f.svc.Dispose(context.Background(), visit.ID, actor, req)
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrConflict, appErr.Code)
	})

	t.Run("second disposition rejected", func(t *testing.T) {
		f := newFixture(t, allOutcomes)
		visit := f.seedVisit(t, model.ERStatusInTreatment, nil)
		_, err := f.svc.Dispose(context.Background(), visit.ID, actor, req)
		require.NoError(t, err)

		_, err = f.svc.Dispose(context.Background(), visit.ID, actor, req)
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrConflict, appErr.Code)
	})

	t.Run("unknown outcome rejected", func(t *testing.T) {
		f := newFixture(t, allOutcomes)
		visit := f.seedVisit(t, model.ERStatusInTreatment, nil)
		_, err := f.svc.Dispose(context.Background(), visit.ID, actor, &model.DispositionRequest{Outcome: "eloped"})
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrValidation, appErr.Code)
	})
}

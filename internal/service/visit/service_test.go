package visit

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stranger261/hospital-er-api/internal/model"
	"github.com/Stranger261/hospital-er-api/internal/repository/memory"
	apperrors "github.com/Stranger261/hospital-er-api/pkg/errors"
)

type fixture struct {
	svc      *Service
	visits   *memory.VisitStore
	patients *memory.PatientStore
	doctors  *memory.DoctorStore
	triages  *memory.TriageStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	visits := memory.NewVisitStore()
	patients := memory.NewPatientStore()
	doctors := memory.NewDoctorStore()
	triages := memory.NewTriageStore()
	return &fixture{
		svc:      NewService(visits, patients, doctors, triages),
		visits:   visits,
		patients: patients,
		doctors:  doctors,
		triages:  triages,
	}
}

func (f *fixture) seedPatient(t *testing.T, mrn string) *model.Patient {
	t.Helper()
	patient := &model.Patient{
		Base:      model.Base{ID: uuid.New()},
		MRN:       mrn,
		FirstName: "Juan",
		LastName:  "Santos",
		Status:    string(model.PatientStatusActive),
	}
	require.NoError(t, f.patients.Create(context.Background(), patient))
	return patient
}

func TestCreateVisit(t *testing.T) {
	f := newFixture(t)
	patient := f.seedPatient(t, "MRN-2026-000001")

	v, err := f.svc.CreateVisit(context.Background(), patient.ID, &model.CreateERVisitRequest{
		ChiefComplaint: "fever and cough",
		ArrivalMode:    string(model.ArrivalModeWalkIn),
	})
	require.NoError(t, err)
	assert.Equal(t, model.ERStatusWaiting, v.ERStatus)
	assert.Equal(t, 3, v.TriageLevel, "untriaged arrivals default to level 3")
	assert.Regexp(t, `^ER-\d{4}-\d{5}$`, v.ERNumber)

	second, err := f.svc.CreateVisit(context.Background(), patient.ID, &model.CreateERVisitRequest{
		ChiefComplaint: "follow up",
		ArrivalMode:    string(model.ArrivalModeWalkIn),
		TriageLevel:    2,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, second.TriageLevel)
	assert.NotEqual(t, v.ERNumber, second.ERNumber)
}

func TestCreateVisitUnknownPatient(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreateVisit(context.Background(), uuid.New(), &model.CreateERVisitRequest{
		ChiefComplaint: "fever",
		ArrivalMode:    string(model.ArrivalModeWalkIn),
	})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
}

func TestTransitionGraph(t *testing.T) {
	f := newFixture(t)
	patient := f.seedPatient(t, "MRN-2026-000002")

	t.Run("waiting to in_treatment allowed", func(t *testing.T) {
		v, err := f.svc.CreateVisit(context.Background(), patient.ID, &model.CreateERVisitRequest{
			ChiefComplaint: "sprain", ArrivalMode: string(model.ArrivalModeWalkIn),
		})
		require.NoError(t, err)

		moved, err := f.svc.Transition(context.Background(), v.ID, model.ERStatusInTreatment, nil)
		require.NoError(t, err)
		assert.Equal(t, model.ERStatusInTreatment, moved.ERStatus)
	})

	t.Run("waiting cannot skip to a terminal status", func(t *testing.T) {
		v, err := f.svc.CreateVisit(context.Background(), patient.ID, &model.CreateERVisitRequest{
			ChiefComplaint: "sprain", ArrivalMode: string(model.ArrivalModeWalkIn),
		})
		require.NoError(t, err)

		_, err = f.svc.Transition(context.Background(), v.ID, model.ERStatusDischarged, nil)
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrConflict, appErr.Code)
	})

	t.Run("terminal visits reject every transition", func(t *testing.T) {
		v, err := f.svc.CreateVisit(context.Background(), patient.ID, &model.CreateERVisitRequest{
			ChiefComplaint: "sprain", ArrivalMode: string(model.ArrivalModeWalkIn),
		})
		require.NoError(t, err)
		_, err = f.svc.Transition(context.Background(), v.ID, model.ERStatusInTreatment, nil)
		require.NoError(t, err)
		outcome := "discharged"
		_, err = f.svc.Transition(context.Background(), v.ID, model.ERStatusDischarged, &outcome)
		require.NoError(t, err)

		for _, next := range []model.ERStatus{model.ERStatusWaiting, model.ERStatusInTreatment, model.ERStatusAdmitted} {
			_, err := f.svc.Transition(context.Background(), v.ID, next, nil)
			appErr, ok := apperrors.AsAppError(err)
			require.True(t, ok, "to %s", next)
			assert.Equal(t, apperrors.ErrConflict, appErr.Code, "to %s", next)
		}
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		v, err := f.svc.CreateVisit(context.Background(), patient.ID, &model.CreateERVisitRequest{
			ChiefComplaint: "sprain", ArrivalMode: string(model.ArrivalModeWalkIn),
		})
		require.NoError(t, err)

		_, err = f.svc.Transition(context.Background(), v.ID, "on_hold", nil)
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrValidation, appErr.Code)
	})
}

func TestAvailableActions(t *testing.T) {
	f := newFixture(t)
	triageID := uuid.New()
	doctorID := uuid.New()

	regular := &model.Patient{Base: model.Base{ID: uuid.New()}, MRN: "MRN-2026-000005"}
	temporary := &model.Patient{Base: model.Base{ID: uuid.New()}, MRN: "TEMP-000001"}

	cases := []struct {
		name    string
		visit   *model.ERVisit
		patient *model.Patient
		want    []model.VisitAction
	}{
		{
			name:    "waiting untriaged offers triage",
			visit:   &model.ERVisit{ERStatus: model.ERStatusWaiting},
			patient: regular,
			want:    []model.VisitAction{model.VisitActionTriage},
		},
		{
			name:    "waiting triaged offers assign",
			visit:   &model.ERVisit{ERStatus: model.ERStatusWaiting, TriageID: &triageID},
			patient: regular,
			want:    []model.VisitAction{model.VisitActionAssign},
		},
		{
			name:    "in treatment offers treat and dispose",
			visit:   &model.ERVisit{ERStatus: model.ERStatusInTreatment, TriageID: &triageID, ERDoctorID: &doctorID},
			patient: regular,
			want:    []model.VisitAction{model.VisitActionTreat, model.VisitActionDispose},
		},
		{
			name:    "temporary patient adds identify",
			visit:   &model.ERVisit{ERStatus: model.ERStatusWaiting},
			patient: temporary,
			want:    []model.VisitAction{model.VisitActionIdentify, model.VisitActionTriage},
		},
		{
			name:    "terminal visit offers nothing",
			visit:   &model.ERVisit{ERStatus: model.ERStatusDeceased, TriageID: &triageID},
			patient: temporary,
			want:    nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, f.svc.AvailableActions(tc.visit, tc.patient))
		})
	}
}

func TestListBoardFiltersAndEnrichment(t *testing.T) {
	f := newFixture(t)
	patient := f.seedPatient(t, "MRN-2026-000003")

	critical, err := f.svc.CreateVisit(context.Background(), patient.ID, &model.CreateERVisitRequest{
		ChiefComplaint: "chest pain",
		ArrivalMode:    string(model.ArrivalModeAmbulance),
		TriageLevel:    1,
	})
	require.NoError(t, err)

	minor, err := f.svc.CreateVisit(context.Background(), patient.ID, &model.CreateERVisitRequest{
		ChiefComplaint: "minor cut",
		ArrivalMode:    string(model.ArrivalModeWalkIn),
		TriageLevel:    5,
	})
	require.NoError(t, err)

	_, err = f.svc.Transition(context.Background(), minor.ID, model.ERStatusInTreatment, nil)
	require.NoError(t, err)
	outcome := "discharged"
	_, err = f.svc.Transition(context.Background(), minor.ID, model.ERStatusDischarged, &outcome)
	require.NoError(t, err)

	board, err := f.svc.ListBoard(context.Background(), &model.ERVisitFilters{Active: true})
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.Equal(t, critical.ID, board[0].ID)
	require.NotNil(t, board[0].Patient, "board rows carry the joined patient")
	assert.Equal(t, patient.MRN, board[0].Patient.MRN)

	all, err := f.svc.ListBoard(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, critical.ID, all[0].ID, "severity orders the board")
}

func TestGetVisitRecomputesWaitingTime(t *testing.T) {
	f := newFixture(t)
	patient := f.seedPatient(t, "MRN-2026-000004")
	arrival := time.Now().Add(-90 * time.Minute)

	v, err := f.svc.CreateVisit(context.Background(), patient.ID, &model.CreateERVisitRequest{
		ChiefComplaint: "headache",
		ArrivalMode:    string(model.ArrivalModeWalkIn),
		ArrivalTime:    &arrival,
	})
	require.NoError(t, err)

	got, err := f.svc.GetVisit(context.Background(), v.ID)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, got.CurrentWaitingTime, 90)
}

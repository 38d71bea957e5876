package appointment

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
	patients *memory.PatientStore
	doctors  *memory.DoctorStore
}

func newFixture(t *testing.T) (*fixture, *model.Patient, *model.ERDoctor) {
	t.Helper()
	appointments := memory.NewAppointmentStore()
	patients := memory.NewPatientStore()
	doctors := memory.NewDoctorStore()

	patient := &model.Patient{Base: model.Base{ID: uuid.New()}, MRN: "MRN-2026-000001", Status: string(model.PatientStatusActive)}
	require.NoError(t, patients.Create(context.Background(), patient))
	doctor := &model.ERDoctor{Base: model.Base{ID: uuid.New()}, LastName: "Reyes", IsOnShift: true}
	require.NoError(t, doctors.Create(context.Background(), doctor))

	return &fixture{
		svc:      NewService(appointments, patients, doctors),
		patients: patients,
		doctors:  doctors,
	}, patient, doctor
}

func createRequest(patientID, doctorID uuid.UUID, start time.Time) *model.CreateAppointmentRequest {
	return &model.CreateAppointmentRequest{
		PatientID:  patientID,
		DoctorID:   doctorID,
		Department: "Cardiology",
		StartTime:  start,
		EndTime:    start.Add(30 * time.Minute),
		Reason:     "post-discharge follow up",
	}
}

func TestCreateAppointment(t *testing.T) {
	f, patient, doctor := newFixture(t)
	start := time.Now().Add(24 * time.Hour)

	appt, err := f.svc.Create(context.Background(), createRequest(patient.ID, doctor.ID, start))
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusScheduled, appt.Status)
	assert.Equal(t, doctor.ID, appt.DoctorID)
}

func TestCreateAppointmentValidation(t *testing.T) {
	f, patient, doctor := newFixture(t)
	start := time.Now().Add(24 * time.Hour)

	t.Run("end before start rejected", func(t *testing.T) {
		req := createRequest(patient.ID, doctor.ID, start)
		req.EndTime = start.Add(-time.Hour)
		_, err := f.svc.Create(context.Background(), req)
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrValidation, appErr.Code)
	})

	t.Run("unknown patient rejected", func(t *testing.T) {
		_, err := f.svc.Create(context.Background(), createRequest(uuid.New(), doctor.ID, start))
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
	})
}

func TestCreateAppointmentConflict(t *testing.T) {
	f, patient, doctor := newFixture(t)
	start := time.Now().Add(24 * time.Hour)

	_, err := f.svc.Create(context.Background(), createRequest(patient.ID, doctor.ID, start))
	require.NoError(t, err)

	overlapping := createRequest(patient.ID, doctor.ID, start.Add(15*time.Minute))
	_, err = f.svc.Create(context.Background(), overlapping)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)

	// a different slot for the same doctor is fine
	_, err = f.svc.Create(context.Background(), createRequest(patient.ID, doctor.ID, start.Add(2*time.Hour)))
	assert.NoError(t, err)
}

func TestUpdateAppointment(t *testing.T) {
	f, patient, doctor := newFixture(t)
	start := time.Now().Add(24 * time.Hour)

	appt, err := f.svc.Create(context.Background(), createRequest(patient.ID, doctor.ID, start))
	require.NoError(t, err)

	t.Run("rescheduling the same appointment is not a self conflict", func(t *testing.T) {
		newStart := start.Add(10 * time.Minute)
		newEnd := newStart.Add(30 * time.Minute)
		updated, err := f.svc.Update(context.Background(), appt.ID, &model.UpdateAppointmentRequest{
			StartTime: &newStart,
			EndTime:   &newEnd,
		})
		require.NoError(t, err)
		assert.Equal(t, newStart, updated.StartTime)
	})

	t.Run("cancelling requires a reason", func(t *testing.T) {
		cancelled := model.AppointmentStatusCancelled
		_, err := f.svc.Update(context.Background(), appt.ID, &model.UpdateAppointmentRequest{Status: &cancelled})
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrValidation, appErr.Code)

		reason := "patient request"
		updated, err := f.svc.Update(context.Background(), appt.ID, &model.UpdateAppointmentRequest{
			Status:       &cancelled,
			CancelReason: &reason,
		})
		require.NoError(t, err)
		assert.Equal(t, model.AppointmentStatusCancelled, updated.Status)
	})

	t.Run("cancelled appointment is frozen", func(t *testing.T) {
		note := "late note"
		_, err := f.svc.Update(context.Background(), appt.ID, &model.UpdateAppointmentRequest{Notes: &note})
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrConflict, appErr.Code)
	})
}

func TestListAppointmentsByDoctor(t *testing.T) {
	f, patient, doctor := newFixture(t)
	other := &model.ERDoctor{Base: model.Base{ID: uuid.New()}, LastName: "Santos", IsOnShift: true}
	require.NoError(t, f.doctors.Create(context.Background(), other))
	start := time.Now().Add(24 * time.Hour)

	_, err := f.svc.Create(context.Background(), createRequest(patient.ID, doctor.ID, start))
	require.NoError(t, err)
	_, err = f.svc.Create(context.Background(), createRequest(patient.ID, other.ID, start))
	require.NoError(t, err)

	mine, err := f.svc.List(context.Background(), &model.AppointmentFilters{DoctorID: doctor.ID})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, doctor.ID, mine[0].DoctorID)
}

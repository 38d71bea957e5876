package allergy

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

func newTestService(t *testing.T) (*Service, *model.Patient) {
	t.Helper()
	allergies := memory.NewAllergyStore()
	patients := memory.NewPatientStore()
	patient := &model.Patient{Base: model.Base{ID: uuid.New()}, MRN: "MRN-2026-000001", Status: string(model.PatientStatusActive)}
	require.NoError(t, patients.Create(context.Background(), patient))
	return NewService(allergies, patients), patient
}

func TestCreateAllergy(t *testing.T) {
	svc, patient := newTestService(t)

	allergy, err := svc.Create(context.Background(), patient.ID, &model.CreateAllergyRequest{
		Allergen: "Penicillin",
		Reaction: "anaphylaxis",
		Severity: "severe",
	})
	require.NoError(t, err)
	assert.Equal(t, model.AllergySeveritySevere, allergy.Severity)

	listed, err := svc.ListByPatient(context.Background(), patient.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestCreateAllergyUnknownSeverity(t *testing.T) {
	svc, patient := newTestService(t)

	_, err := svc.Create(context.Background(), patient.ID, &model.CreateAllergyRequest{
		Allergen: "Latex",
		Reaction: "rash",
		Severity: "fatal",
	})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrValidation, appErr.Code)
}

func TestDeleteAllergyRequiresConfirmation(t *testing.T) {
	svc, patient := newTestService(t)

	allergy, err := svc.Create(context.Background(), patient.ID, &model.CreateAllergyRequest{
		Allergen: "Aspirin",
		Reaction: "hives",
		Severity: "moderate",
	})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), allergy.ID, false)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)

	require.NoError(t, svc.Delete(context.Background(), allergy.ID, true))

	listed, err := svc.ListByPatient(context.Background(), patient.ID)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

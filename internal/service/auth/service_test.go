package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stranger261/hospital-er-api/internal/model"
	"github.com/Stranger261/hospital-er-api/internal/repository/memory"
	"github.com/Stranger261/hospital-er-api/pkg/auth"
	apperrors "github.com/Stranger261/hospital-er-api/pkg/errors"
	"github.com/Stranger261/hospital-er-api/pkg/security"
)

func newTestService(t *testing.T) (*Service, *memory.StaffStore) {
	t.Helper()
	staff := memory.NewStaffStore()
	hasher := security.NewBcryptHasher(4)
	jwt := auth.NewJWTService("test-secret-do-not-use", time.Hour)
	return NewService(staff, hasher, jwt), staff
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateStaff(ctx, "nurse@hospital.local", "Liza", "Ramos", "supersecret1", model.StaffRoleNurse)
	require.NoError(t, err)
	assert.Equal(t, "active", created.Status)
	assert.NotEqual(t, "supersecret1", created.PasswordHash)

	t.Run("valid credentials issue a token", func(t *testing.T) {
		token, err := svc.Login(ctx, &model.LoginRequest{Email: "nurse@hospital.local", Password: "supersecret1"})
		require.NoError(t, err)
		assert.NotEmpty(t, token.AccessToken)
		assert.Equal(t, int64(3600), token.ExpiresIn)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		_, err := svc.Login(ctx, &model.LoginRequest{Email: "nurse@hospital.local", Password: "wrongpassword"})
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
	})

	t.Run("unknown account reports the same error", func(t *testing.T) {
		_, err := svc.Login(ctx, &model.LoginRequest{Email: "ghost@hospital.local", Password: "supersecret1"})
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
	})
}

func TestLoginInactiveAccount(t *testing.T) {
	svc, staffStore := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateStaff(ctx, "former@hospital.local", "Paolo", "Garcia", "supersecret1", model.StaffRoleDoctor)
	require.NoError(t, err)
	created.Status = "disabled"
	require.NoError(t, staffStore.Create(ctx, created))

	_, err = svc.Login(ctx, &model.LoginRequest{Email: "former@hospital.local", Password: "supersecret1"})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
}

func TestCreateStaffDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateStaff(ctx, "admin@hospital.local", "Ana", "Reyes", "supersecret1", model.StaffRoleAdmin)
	require.NoError(t, err)

	_, err = svc.CreateStaff(ctx, "admin@hospital.local", "Ana", "Reyes", "supersecret1", model.StaffRoleAdmin)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}

func TestCreateStaffShortPassword(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateStaff(context.Background(), "new@hospital.local", "Ben", "Cruz", "short", model.StaffRoleNurse)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrValidation, appErr.Code)
}

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Stranger261/hospital-er-api/internal/model"
	"github.com/Stranger261/hospital-er-api/internal/repository"
	"github.com/Stranger261/hospital-er-api/pkg/auth"
	apperrors "github.com/Stranger261/hospital-er-api/pkg/errors"
	"github.com/Stranger261/hospital-er-api/pkg/security"
)

// Service authenticates staff and issues session tokens.
type Service struct {
	staffRepo repository.StaffRepository
	hasher    security.PasswordHasher
	jwt       auth.JWTService
}

func NewService(staffRepo repository.StaffRepository, hasher security.PasswordHasher, jwt auth.JWTService) *Service {
	return &Service{staffRepo: staffRepo, hasher: hasher, jwt: jwt}
}

// Login verifies credentials and returns a signed session token. Lookup and
// comparison failures collapse to the same error so the response does not
// reveal which accounts exist.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	staff, err := s.staffRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperrors.Unauthorized(model.ErrInvalidCredentials)
	}
	if staff.Status != "active" {
		return nil, apperrors.Unauthorized(model.ErrInvalidCredentials)
	}
	if err := s.hasher.Compare(staff.PasswordHash, req.Password); err != nil {
		return nil, apperrors.Unauthorized(model.ErrInvalidCredentials)
	}

	token, err := s.jwt.GenerateToken(staff)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &model.TokenResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.jwt.Expiry() / time.Second),
	}, nil
}

// CreateStaff registers a staff account. Only admins may call this; the
// handler enforces the role check.
func (s *Service) CreateStaff(ctx context.Context, email, firstName, lastName, password string, role model.StaffRole) (*model.Staff, error) {
	if _, err := s.staffRepo.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.Conflict(fmt.Sprintf("staff with email %s already exists", email))
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperrors.Validation("password", err.Error())
	}

	now := time.Now()
	staff := &model.Staff{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		Role:         role,
		PasswordHash: hash,
		Status:       "active",
	}
	if err := s.staffRepo.Create(ctx, staff); err != nil {
		return nil, fmt.Errorf("failed to create staff: %w", err)
	}
	return staff, nil
}

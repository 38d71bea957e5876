package model

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type StaffRole string

const (
	StaffRoleNurse  StaffRole = "nurse"
	StaffRoleDoctor StaffRole = "doctor"
	StaffRoleAdmin  StaffRole = "admin"
)

// Staff is an authenticated hospital user. Every mutating workflow operation
// records the acting staff member; there are no default actor ids.
type Staff struct {
	Base
	Email        string    `db:"email" json:"email"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	Role         StaffRole `db:"role" json:"role"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Status       string    `db:"status" json:"status"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

var ErrInvalidCredentials = errors.New("invalid credentials")

// StaffClaims are the JWT claims carried by a staff session token.
type StaffClaims struct {
	jwt.RegisteredClaims
	StaffID uuid.UUID `json:"staff_id"`
	Email   string    `json:"email"`
	Role    StaffRole `json:"role"`
}

// Actor identifies the staff member performing a request, extracted from the
// session token by the auth middleware.
type Actor struct {
	StaffID uuid.UUID
	Email   string
	Role    StaffRole
}

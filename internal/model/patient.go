package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TempMRNPrefix marks a temporary record created for an unidentified patient.
const TempMRNPrefix = "TEMP-"

type PatientStatus string

const (
	PatientStatusActive   PatientStatus = "active"
	PatientStatusInactive PatientStatus = "inactive"
)

type Patient struct {
	Base
	MRN           string     `db:"mrn" json:"mrn"`
	FirstName     string     `db:"first_name" json:"first_name"`
	LastName      string     `db:"last_name" json:"last_name"`
	DateOfBirth   *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Gender        string     `db:"gender" json:"gender,omitempty"`
	Phone         string     `db:"phone" json:"phone,omitempty"`
	Email         string     `db:"email" json:"email,omitempty"`
	Address       string     `db:"address" json:"address,omitempty"`
	Status        string     `db:"status" json:"status"`
	EstimatedAge  *int       `db:"estimated_age" json:"estimated_age,omitempty"`
	Description   string     `db:"description" json:"description,omitempty"`
	FaceImageData *string    `db:"face_image_data" json:"-"`
}

// IsTemporary reports whether the patient is an unidentified placeholder
// record awaiting re-identification.
func (p *Patient) IsTemporary() bool {
	return strings.HasPrefix(p.MRN, TempMRNPrefix)
}

func (p *Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// NewTempMRN builds a temporary MRN from a sequence number.
func NewTempMRN(seq int64) string {
	return fmt.Sprintf("%s%06d", TempMRNPrefix, seq)
}

type CreatePatientRequest struct {
	FirstName   string     `json:"first_name" binding:"required"`
	LastName    string     `json:"last_name" binding:"required"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Gender      string     `json:"gender"`
	Phone       string     `json:"phone"`
	Email       string     `json:"email" binding:"omitempty,email"`
	Address     string     `json:"address"`
}

type UpdatePatientRequest struct {
	FirstName   *string    `json:"first_name"`
	LastName    *string    `json:"last_name"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Gender      *string    `json:"gender"`
	Phone       *string    `json:"phone"`
	Email       *string    `json:"email" binding:"omitempty,email"`
	Address     *string    `json:"address"`
	Status      *string    `json:"status"`
}

type PatientFilters struct {
	SearchTerm    string
	Status        PatientStatus
	TemporaryOnly bool
	Pagination
}

// TemporaryInfo describes an unidentified patient at registration time.
type TemporaryInfo struct {
	EstimatedAge *int   `json:"estimated_age"`
	Gender       string `json:"gender"`
	Description  string `json:"description"`
}

// MatchResult is what the face matcher returns. A no-match is a valid
// outcome, not an error.
type MatchResult struct {
	Matched        bool             `json:"matched"`
	Patient        *Patient         `json:"patient,omitempty"`
	Confidence     float64          `json:"confidence,omitempty"`
	MedicalRecords []*MedicalRecord `json:"medical_records,omitempty"`
}

type RegisterKnownRequest struct {
	PatientID *uuid.UUID            `json:"patient_id"`
	Person    *CreatePatientRequest `json:"person"`
	Visit     CreateERVisitRequest  `json:"visit" binding:"required"`
}

type RegisterUnknownRequest struct {
	Temporary TemporaryInfo        `json:"temporary"`
	Visit     CreateERVisitRequest `json:"visit" binding:"required"`
	FaceData  *string              `json:"face_data"`
}

// IdentifyRequest resolves a temporary record. Exactly one of RealPatientID
// or RealPersonData must be set; the two paths are mutually exclusive.
type IdentifyRequest struct {
	RealPatientID  *uuid.UUID            `json:"real_patient_id"`
	RealPersonData *CreatePatientRequest `json:"real_person_data"`
}

type RecognizeFaceRequest struct {
	ImageBase64 string `json:"image_base64" binding:"required"`
}

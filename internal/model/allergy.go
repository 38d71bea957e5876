package model

import (
	"github.com/google/uuid"
)

type AllergySeverity string

const (
	AllergySeverityMild     AllergySeverity = "mild"
	AllergySeverityModerate AllergySeverity = "moderate"
	AllergySeveritySevere   AllergySeverity = "severe"
)

func (s AllergySeverity) Valid() bool {
	switch s {
	case AllergySeverityMild, AllergySeverityModerate, AllergySeveritySevere:
		return true
	}
	return false
}

type Allergy struct {
	Base
	PatientID uuid.UUID       `db:"patient_id" json:"patient_id"`
	Allergen  string          `db:"allergen" json:"allergen"`
	Reaction  string          `db:"reaction" json:"reaction"`
	Severity  AllergySeverity `db:"severity" json:"severity"`
	Notes     string          `db:"notes" json:"notes,omitempty"`
}

type CreateAllergyRequest struct {
	Allergen string `json:"allergen" binding:"required"`
	Reaction string `json:"reaction" binding:"required"`
	Severity string `json:"severity" binding:"required,oneof=mild moderate severe"`
	Notes    string `json:"notes"`
}

type UpdateAllergyRequest struct {
	Allergen *string `json:"allergen"`
	Reaction *string `json:"reaction"`
	Severity *string `json:"severity" binding:"omitempty,oneof=mild moderate severe"`
	Notes    *string `json:"notes"`
}

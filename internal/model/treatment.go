package model

import (
	"time"

	"github.com/google/uuid"
)

// TreatmentType is the canonical catalog entry for a kind of treatment. The
// RequiresMedication flag decides whether the medication fields are accepted
// or forced null.
type TreatmentType struct {
	Name               string `json:"name"`
	RequiresMedication bool   `json:"requires_medication"`
}

// TreatmentTypes is the single source of truth for selectable treatment
// types. Handlers expose it; the service validates against it.
var TreatmentTypes = []TreatmentType{
	{Name: "Medication", RequiresMedication: true},
	{Name: "IV Fluids", RequiresMedication: true},
	{Name: "Wound Care", RequiresMedication: false},
	{Name: "Procedure", RequiresMedication: false},
	{Name: "Imaging", RequiresMedication: false},
	{Name: "Lab Work", RequiresMedication: false},
	{Name: "Observation", RequiresMedication: false},
	{Name: "Other", RequiresMedication: false},
}

// TreatmentTypeFor looks up a catalog entry by name.
func TreatmentTypeFor(name string) (TreatmentType, bool) {
	for _, t := range TreatmentTypes {
		if t.Name == name {
			return t, true
		}
	}
	return TreatmentType{}, false
}

type TreatmentRecord struct {
	Base
	VisitID        uuid.UUID `db:"visit_id" json:"visit_id"`
	RecordedByID   uuid.UUID `db:"recorded_by_id" json:"recorded_by_id"`
	TreatmentType  string    `db:"treatment_type" json:"treatment_type"`
	Description    string    `db:"description" json:"description"`
	MedicationName *string   `db:"medication_name" json:"medication_name,omitempty"`
	Dosage         *string   `db:"dosage" json:"dosage,omitempty"`
	Route          *string   `db:"route" json:"route,omitempty"`
	PerformedAt    time.Time `db:"performed_at" json:"performed_at"`
	Notes          string    `db:"notes" json:"notes,omitempty"`
}

// ClearMedicationFields nulls the medication-only fields. Called whenever the
// treatment type does not carry medication so stale values never persist.
func (t *TreatmentRecord) ClearMedicationFields() {
	t.MedicationName = nil
	t.Dosage = nil
	t.Route = nil
}

type CreateTreatmentRequest struct {
	TreatmentType  string     `json:"treatment_type" binding:"required"`
	Description    string     `json:"description" binding:"required"`
	MedicationName *string    `json:"medication_name"`
	Dosage         *string    `json:"dosage"`
	Route          *string    `json:"route"`
	PerformedAt    *time.Time `json:"performed_at"`
	Notes          string     `json:"notes"`
}

type UpdateTreatmentRequest struct {
	TreatmentType  *string    `json:"treatment_type"`
	Description    *string    `json:"description"`
	MedicationName *string    `json:"medication_name"`
	Dosage         *string    `json:"dosage"`
	Route          *string    `json:"route"`
	PerformedAt    *time.Time `json:"performed_at"`
	Notes          *string    `json:"notes"`
}

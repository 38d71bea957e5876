package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type MedicalRecord struct {
	Base
	PatientID       uuid.UUID       `db:"patient_id" json:"patient_id"`
	Type            string          `db:"type" json:"type"`
	Description     string          `db:"description" json:"description"`
	Diagnosis       string          `db:"diagnosis" json:"diagnosis"`
	MedicationsJSON json.RawMessage `db:"medications" json:"medications,omitempty"`
	RecordedBy      uuid.UUID       `db:"recorded_by" json:"recorded_by"`
	RecordedAt      time.Time       `db:"recorded_at" json:"recorded_at"`
}

type CreateMedicalRecordRequest struct {
	Type        string          `json:"type" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Diagnosis   string          `json:"diagnosis"`
	Medications json.RawMessage `json:"medications"`
}

package model

import (
	"time"

	"github.com/google/uuid"
)

// DispositionOutcome is a terminal workflow outcome key.
type DispositionOutcome string

const (
	OutcomeDischarged  DispositionOutcome = "discharged"
	OutcomeAdmitted    DispositionOutcome = "admitted"
	OutcomeTransferred DispositionOutcome = "transferred"
	OutcomeLeftAMA     DispositionOutcome = "left_ama"
	OutcomeDeceased    DispositionOutcome = "deceased"
)

func (o DispositionOutcome) Valid() bool {
	switch o {
	case OutcomeDischarged, OutcomeAdmitted, OutcomeTransferred, OutcomeLeftAMA, OutcomeDeceased:
		return true
	}
	return false
}

// Status returns the visit status a confirmed outcome produces.
func (o DispositionOutcome) Status() ERStatus {
	return ERStatus(o)
}

// Disposition is the single terminal record written when a visit leaves the
// department. Which fields are populated depends on the outcome.
type Disposition struct {
	Base
	VisitID     uuid.UUID          `db:"visit_id" json:"visit_id"`
	Outcome     DispositionOutcome `db:"outcome" json:"outcome"`
	DecidedByID uuid.UUID          `db:"decided_by_id" json:"decided_by_id"`
	DisposedAt  time.Time          `db:"disposed_at" json:"disposed_at"`
	Notes       string             `db:"notes" json:"notes,omitempty"`

	// discharged
	ConditionAtDischarge *string `db:"condition_at_discharge" json:"condition_at_discharge,omitempty"`
	DischargeType        *string `db:"discharge_type" json:"discharge_type,omitempty"`
	FollowUpInstructions *string `db:"follow_up_instructions" json:"follow_up_instructions,omitempty"`

	// admitted
	BedID             *uuid.UUID `db:"bed_id" json:"bed_id,omitempty"`
	PrimaryDiagnosis  *string    `db:"primary_diagnosis" json:"primary_diagnosis,omitempty"`
	AdmittingDoctorID *uuid.UUID `db:"admitting_doctor_id" json:"admitting_doctor_id,omitempty"`
	EstimatedStayDays *int       `db:"estimated_stay_days" json:"estimated_stay_days,omitempty"`

	// transferred
	DestinationFacility *string `db:"destination_facility" json:"destination_facility,omitempty"`
	TransferReason      *string `db:"transfer_reason" json:"transfer_reason,omitempty"`
	TransferMode        *string `db:"transfer_mode" json:"transfer_mode,omitempty"`
	TransferContact     *string `db:"transfer_contact" json:"transfer_contact,omitempty"`

	// deceased
	TimeOfDeath  *time.Time `db:"time_of_death" json:"time_of_death,omitempty"`
	CauseOfDeath *string    `db:"cause_of_death" json:"cause_of_death,omitempty"`
}

// DispositionRequest carries every outcome's fields; the service validates
// the set the chosen outcome requires and ignores the rest.
type DispositionRequest struct {
	Outcome DispositionOutcome `json:"outcome" binding:"required"`
	Notes   string             `json:"notes"`

	ConditionAtDischarge string `json:"condition_at_discharge"`
	DischargeType        string `json:"discharge_type"`
	FollowUpInstructions string `json:"follow_up_instructions"`

	BedID             *uuid.UUID `json:"bed_id"`
	PrimaryDiagnosis  string     `json:"primary_diagnosis"`
	AdmittingDoctorID *uuid.UUID `json:"admitting_doctor_id"`
	EstimatedStayDays *int       `json:"estimated_stay_days"`

	DestinationFacility string `json:"destination_facility"`
	TransferReason      string `json:"transfer_reason"`
	TransferMode        string `json:"transfer_mode"`
	TransferContact     string `json:"transfer_contact"`

	TimeOfDeath  *time.Time `json:"time_of_death"`
	CauseOfDeath string     `json:"cause_of_death"`
}

package model

import (
	"time"

	"github.com/google/uuid"
)

type ERStatus string

const (
	ERStatusWaiting     ERStatus = "waiting"
	ERStatusInTreatment ERStatus = "in_treatment"
	ERStatusAdmitted    ERStatus = "admitted"
	ERStatusDischarged  ERStatus = "discharged"
	ERStatusTransferred ERStatus = "transferred"
	ERStatusLeftAMA     ERStatus = "left_ama"
	ERStatusDeceased    ERStatus = "deceased"
)

// erTransitions is the forward-only status graph. Terminal statuses have no
// outgoing edges; the service rejects anything not listed here.
var erTransitions = map[ERStatus][]ERStatus{
	ERStatusWaiting: {ERStatusInTreatment},
	ERStatusInTreatment: {
		ERStatusAdmitted,
		ERStatusDischarged,
		ERStatusTransferred,
		ERStatusLeftAMA,
		ERStatusDeceased,
	},
}

// CanTransition reports whether moving from s to next is a valid forward step.
func (s ERStatus) CanTransition(next ERStatus) bool {
	for _, allowed := range erTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status is a disposition outcome. A terminal
// visit accepts no further workflow actions.
func (s ERStatus) IsTerminal() bool {
	switch s {
	case ERStatusAdmitted, ERStatusDischarged, ERStatusTransferred, ERStatusLeftAMA, ERStatusDeceased:
		return true
	}
	return false
}

func (s ERStatus) Valid() bool {
	switch s {
	case ERStatusWaiting, ERStatusInTreatment,
		ERStatusAdmitted, ERStatusDischarged, ERStatusTransferred, ERStatusLeftAMA, ERStatusDeceased:
		return true
	}
	return false
}

type ArrivalMode string

const (
	ArrivalModeWalkIn    ArrivalMode = "walk_in"
	ArrivalModeAmbulance ArrivalMode = "ambulance"
	ArrivalModePolice    ArrivalMode = "police"
	ArrivalModeTransfer  ArrivalMode = "transfer"
)

type ERVisit struct {
	Base
	ERNumber        string     `db:"er_number" json:"er_number"`
	PatientID       uuid.UUID  `db:"patient_id" json:"patient_id"`
	TriageLevel     int        `db:"triage_level" json:"triage_level"`
	ChiefComplaint  string     `db:"chief_complaint" json:"chief_complaint"`
	ArrivalMode     string     `db:"arrival_mode" json:"arrival_mode"`
	ArrivalTime     time.Time  `db:"arrival_time" json:"arrival_time"`
	ERStatus        ERStatus   `db:"er_status" json:"er_status"`
	ERDoctorID      *uuid.UUID `db:"er_doctor_id" json:"er_doctor_id,omitempty"`
	TriageID        *uuid.UUID `db:"triage_id" json:"triage_id,omitempty"`
	DispositionType *string    `db:"disposition_type" json:"disposition_type,omitempty"`

	// Joined for board display, not persisted on the visit row.
	Patient  *Patient      `db:"-" json:"patient,omitempty"`
	ERDoctor *ERDoctor     `db:"-" json:"er_doctor,omitempty"`
	Triage   *TriageRecord `db:"-" json:"triage,omitempty"`

	// CurrentWaitingTime is minutes since arrival, recomputed on every read.
	CurrentWaitingTime int `db:"-" json:"current_waiting_time"`
}

// WaitingMinutes recomputes the waiting time from arrival to now.
func (v *ERVisit) WaitingMinutes(now time.Time) int {
	m := int(now.Sub(v.ArrivalTime).Minutes())
	if m < 0 {
		return 0
	}
	return m
}

// VisitAction is a workflow step the board may offer for a visit.
type VisitAction string

const (
	VisitActionTriage   VisitAction = "triage"
	VisitActionAssign   VisitAction = "assign"
	VisitActionTreat    VisitAction = "treat"
	VisitActionDispose  VisitAction = "dispose"
	VisitActionIdentify VisitAction = "identify"
)

type CreateERVisitRequest struct {
	ChiefComplaint string     `json:"chief_complaint" binding:"required"`
	ArrivalMode    string     `json:"arrival_mode" binding:"required,arrivalmode"`
	ArrivalTime    *time.Time `json:"arrival_time"`
	TriageLevel    int        `json:"triage_level" binding:"omitempty,min=1,max=5"`
}

type UpdateERStatusRequest struct {
	Status          ERStatus `json:"status" binding:"required"`
	DispositionType *string  `json:"disposition_type"`
}

type ERVisitFilters struct {
	Status      ERStatus
	TriageLevel int
	PatientID   uuid.UUID
	Date        time.Time
	Active      bool
}

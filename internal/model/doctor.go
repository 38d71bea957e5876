package model

import (
	"time"

	"github.com/google/uuid"
)

// DoctorAvailability classifies a doctor for the assignment step.
type DoctorAvailability string

const (
	DoctorAvailable DoctorAvailability = "available"
	DoctorBusy      DoctorAvailability = "busy"
	DoctorOffShift  DoctorAvailability = "off_shift"
)

type ERDoctor struct {
	Base
	StaffID        uuid.UUID  `db:"staff_id" json:"staff_id"`
	FirstName      string     `db:"first_name" json:"first_name"`
	LastName       string     `db:"last_name" json:"last_name"`
	Specialization string     `db:"specialization" json:"specialization"`
	IsOnShift      bool       `db:"is_on_shift" json:"is_on_shift"`
	IsAvailable    bool       `db:"is_available" json:"is_available"`
	ShiftStart     *time.Time `db:"shift_start" json:"shift_start,omitempty"`
	ShiftEnd       *time.Time `db:"shift_end" json:"shift_end,omitempty"`
	ActivePatients int        `db:"active_patients" json:"active_patients"`
}

// Availability derives the assignment-step classification: available needs
// both flags, busy is on shift only.
func (d *ERDoctor) Availability() DoctorAvailability {
	switch {
	case d.IsOnShift && d.IsAvailable:
		return DoctorAvailable
	case d.IsOnShift:
		return DoctorBusy
	default:
		return DoctorOffShift
	}
}

type AssignDoctorRequest struct {
	DoctorID uuid.UUID `json:"doctor_id" binding:"required"`
}

type ERDoctorFilters struct {
	OnShiftOnly   bool
	AvailableOnly bool
}

package model

import (
	"time"

	"github.com/google/uuid"
)

type TriageColor string

const (
	TriageColorRed    TriageColor = "red"
	TriageColorOrange TriageColor = "orange"
	TriageColorYellow TriageColor = "yellow"
	TriageColorGreen  TriageColor = "green"
	TriageColorBlue   TriageColor = "blue"
)

// triageColors is the fixed category-to-color mapping. Category 1 is the most
// severe. Color is always derived from category, never set on its own.
var triageColors = map[int]TriageColor{
	1: TriageColorRed,
	2: TriageColorOrange,
	3: TriageColorYellow,
	4: TriageColorGreen,
	5: TriageColorBlue,
}

// TriageColorFor returns the color for a category, and whether the category
// is a valid one.
func TriageColorFor(category int) (TriageColor, bool) {
	c, ok := triageColors[category]
	return c, ok
}

type ConsciousnessLevel string

const (
	ConsciousnessAlert        ConsciousnessLevel = "alert"
	ConsciousnessVerbal       ConsciousnessLevel = "verbal"
	ConsciousnessPain         ConsciousnessLevel = "pain"
	ConsciousnessUnresponsive ConsciousnessLevel = "unresponsive"
)

func (c ConsciousnessLevel) Valid() bool {
	switch c {
	case ConsciousnessAlert, ConsciousnessVerbal, ConsciousnessPain, ConsciousnessUnresponsive:
		return true
	}
	return false
}

type TriageRecord struct {
	Base
	VisitID            uuid.UUID          `db:"visit_id" json:"visit_id"`
	TriageNurseID      uuid.UUID          `db:"triage_nurse_id" json:"triage_nurse_id"`
	TriageCategory     int                `db:"triage_category" json:"triage_category"`
	TriageColor        TriageColor        `db:"triage_color" json:"triage_color"`
	PresentingSymptoms string             `db:"presenting_symptoms" json:"presenting_symptoms"`
	Consciousness      ConsciousnessLevel `db:"consciousness" json:"consciousness"`
	PainScale          int                `db:"pain_scale" json:"pain_scale"`
	BloodPressure      string             `db:"blood_pressure" json:"blood_pressure"`
	HeartRate          string             `db:"heart_rate" json:"heart_rate"`
	RespiratoryRate    string             `db:"respiratory_rate" json:"respiratory_rate"`
	Temperature        string             `db:"temperature" json:"temperature"`
	OxygenSaturation   string             `db:"oxygen_saturation" json:"oxygen_saturation"`
	Notes              string             `db:"notes" json:"notes,omitempty"`
	AssessedAt         time.Time          `db:"assessed_at" json:"assessed_at"`
}

// SetCategory updates category and color together. The two fields are never
// written independently.
func (t *TriageRecord) SetCategory(category int) bool {
	color, ok := TriageColorFor(category)
	if !ok {
		return false
	}
	t.TriageCategory = category
	t.TriageColor = color
	return true
}

type CreateTriageRequest struct {
	TriageCategory     int    `json:"triage_category" binding:"required,min=1,max=5"`
	PresentingSymptoms string `json:"presenting_symptoms" binding:"required"`
	Consciousness      string `json:"consciousness" binding:"required,oneof=alert verbal pain unresponsive"`
	PainScale          int    `json:"pain_scale" binding:"min=0,max=10"`
	BloodPressure      string `json:"blood_pressure"`
	HeartRate          string `json:"heart_rate"`
	RespiratoryRate    string `json:"respiratory_rate"`
	Temperature        string `json:"temperature"`
	OxygenSaturation   string `json:"oxygen_saturation"`
	Notes              string `json:"notes"`
}

// AssignmentDirective tells the caller which assignment path follows a saved
// triage: level 1 dispatches a doctor immediately, everything else goes
// through manual selection.
type AssignmentDirective string

const (
	DirectiveAutoAssign   AssignmentDirective = "auto_assign"
	DirectiveSelectDoctor AssignmentDirective = "select_doctor"
)

type TriageResult struct {
	Triage    *TriageRecord       `json:"triage"`
	Directive AssignmentDirective `json:"directive"`
}

package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "PENDING"
	OutboxStatusProcessed OutboxStatus = "PROCESSED"
	OutboxStatusFailed    OutboxStatus = "FAILED"
)

// OutboxEvent is a board change recorded in the same transaction as the
// mutation that caused it. A worker publishes pending events to the pub/sub
// channel the live board subscribes to.
type OutboxEvent struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	EventType    string          `db:"event_type" json:"event_type"`
	Payload      json.RawMessage `db:"payload" json:"payload"`
	Status       string          `db:"status" json:"status"`
	ErrorMessage *string         `db:"error_message" json:"error_message,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	ProcessedAt  *time.Time      `db:"processed_at" json:"processed_at,omitempty"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
	RetryCount   int             `db:"retry_count" json:"retry_count"`
	RetryAt      *time.Time      `db:"retry_at" json:"retry_at,omitempty"`
}

// Board event types emitted by the workflow services.
const (
	EventVisitRegistered  = "er.visit.registered"
	EventVisitIdentified  = "er.visit.identified"
	EventTriageRecorded   = "er.triage.recorded"
	EventDoctorAssigned   = "er.doctor.assigned"
	EventDoctorReleased   = "er.doctor.released"
	EventTreatmentChanged = "er.treatment.changed"
	EventVisitDisposed    = "er.visit.disposed"
)

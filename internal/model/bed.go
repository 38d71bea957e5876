package model

import (
	"github.com/google/uuid"
)

type BedStatus string

const (
	BedStatusAvailable   BedStatus = "available"
	BedStatusOccupied    BedStatus = "occupied"
	BedStatusMaintenance BedStatus = "maintenance"
)

type Floor struct {
	Base
	Name   string `db:"name" json:"name"`
	Number int    `db:"number" json:"number"`
}

type Room struct {
	Base
	FloorID    uuid.UUID `db:"floor_id" json:"floor_id"`
	RoomNumber string    `db:"room_number" json:"room_number"`
	Ward       string    `db:"ward" json:"ward"`
	Capacity   int       `db:"capacity" json:"capacity"`
}

type Bed struct {
	Base
	RoomID    uuid.UUID  `db:"room_id" json:"room_id"`
	Label     string     `db:"label" json:"label"`
	Status    BedStatus  `db:"status" json:"status"`
	PatientID *uuid.UUID `db:"patient_id" json:"patient_id,omitempty"`

	// Joined for hierarchical browse responses.
	Room  *Room  `db:"-" json:"room,omitempty"`
	Floor *Floor `db:"-" json:"floor,omitempty"`
}

// BedInfo is the descriptive payload the admit outcome carries alongside the
// bed id.
type BedInfo struct {
	Ward       string `json:"ward"`
	FloorName  string `json:"floor_name"`
	RoomNumber string `json:"room_number"`
	Label      string `json:"label"`
}

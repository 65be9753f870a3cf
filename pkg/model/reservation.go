package model

import (
	"time"

	"yoyaku/pkg/timeslot"
)

// Reservation books one piece of equipment for one user on one calendar day
// across a contiguous run of time slots. TimeSlots is persisted and
// transmitted in canonical catalog order. Only IsCheckedOut may change after
// creation.
type Reservation struct {
	ID           string              `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Date         string              `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
	UserID       string              `json:"userId" bson:"user_id" validate:"required"`
	EquipmentID  string              `json:"equipmentId" bson:"equipment_id" validate:"required"`
	TimeSlots    []timeslot.TimeSlot `json:"timeSlots" bson:"time_slots" validate:"required,min=1,unique,dive,catalog_slot"`
	IsCheckedOut bool                `json:"isCheckedOut" bson:"is_checked_out"`
	CreatedAt    time.Time           `json:"createdAt" bson:"created_at" validate:"omitempty"`
}

// ReservationUpdate carries the only mutation a reservation supports: the
// admin checkout toggle.
type ReservationUpdate struct {
	IsCheckedOut *bool `json:"isCheckedOut" validate:"required"`
}

// SlotLock is an advisory lock serializing concurrent reservation creation
// for one equipment/day pair. Expired locks are reaped by a TTL index.
type SlotLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

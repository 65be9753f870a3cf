// Package events defines the reservation lifecycle events published to
// Kafka for downstream notification.
package events

import (
	"time"

	"yoyaku/pkg/timeslot"
)

const (
	TopicReservations = "yoyaku.reservations"

	TypeReservationCreated = "reservation.created"
	TypeReservationDeleted = "reservation.deleted"
	TypeReservationSwept   = "reservation.swept"
)

// ReservationEvent is the payload for every reservation lifecycle event.
// Swept events carry no user context beyond what the reservation held.
type ReservationEvent struct {
	ReservationID string              `json:"reservation_id"`
	Date          string              `json:"date"`
	UserID        string              `json:"user_id"`
	EquipmentID   string              `json:"equipment_id"`
	TimeSlots     []timeslot.TimeSlot `json:"time_slots"`
	OccurredAt    time.Time           `json:"occurred_at"`
}

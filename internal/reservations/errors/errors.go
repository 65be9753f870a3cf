package errors

import "errors"

var (
	ErrNotFound  = errors.New("reservation not found")
	ErrInvalidID = errors.New("invalid reservation id")

	// ErrSlotTaken is surfaced by the write-time re-check or by the unique
	// slot index when a concurrent submission won the slot first.
	ErrSlotTaken = errors.New("time slot already reserved")

	// ErrLockHeld means another submission for the same equipment and day
	// is in flight.
	ErrLockHeld = errors.New("reservation for this equipment and day is being processed")
)

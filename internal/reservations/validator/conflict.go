package validator

import (
	"yoyaku/pkg/dateutil"
	"yoyaku/pkg/model"
	"yoyaku/pkg/timeslot"
)

// HasConflict reports whether the candidate collides with any existing
// reservation. A collision requires the same equipment, the same day and at
// least one shared time slot; the candidate's own id is ignored so that a
// stored reservation never conflicts with itself.
func HasConflict(candidate *model.Reservation, existing []*model.Reservation) bool {
	return FirstConflict(candidate, existing) != nil
}

// FirstConflict returns the first existing reservation the candidate
// collides with, or nil when the candidate is free.
func FirstConflict(candidate *model.Reservation, existing []*model.Reservation) *model.Reservation {
	for _, r := range existing {
		if r.ID != "" && r.ID == candidate.ID {
			continue
		}
		if r.EquipmentID != candidate.EquipmentID {
			continue
		}
		if !dateutil.SameDay(r.Date, candidate.Date) {
			continue
		}
		if timeslot.Intersects(r.TimeSlots, candidate.TimeSlots) {
			return r
		}
	}
	return nil
}

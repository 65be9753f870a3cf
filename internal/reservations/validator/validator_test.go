package validator

import (
	"testing"

	apperrors "yoyaku/pkg/errors"
	"yoyaku/pkg/model"
	"yoyaku/pkg/timeslot"
)

func reservation(id, equipmentID, date string, slots ...timeslot.TimeSlot) *model.Reservation {
	return &model.Reservation{
		ID:          id,
		Date:        date,
		UserID:      "u1",
		EquipmentID: equipmentID,
		TimeSlots:   slots,
	}
}

func TestValidateMissingFields(t *testing.T) {
	rv := NewReservationValidator()

	tests := []struct {
		name      string
		candidate *model.Reservation
	}{
		{"no date", &model.Reservation{UserID: "u1", EquipmentID: "e1", TimeSlots: []timeslot.TimeSlot{timeslot.Period1}}},
		{"no user", &model.Reservation{Date: "2024-06-10", EquipmentID: "e1", TimeSlots: []timeslot.TimeSlot{timeslot.Period1}}},
		{"no equipment", &model.Reservation{Date: "2024-06-10", UserID: "u1", TimeSlots: []timeslot.TimeSlot{timeslot.Period1}}},
		{"no slots", &model.Reservation{Date: "2024-06-10", UserID: "u1", EquipmentID: "e1"}},
		{"empty slots", reservation("", "e1", "2024-06-10")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rv.Validate(tt.candidate, nil)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if got := apperrors.Reason(err); got != apperrors.ReasonMissingFields {
				t.Errorf("reason = %q, want %q", got, apperrors.ReasonMissingFields)
			}
		})
	}
}

func TestValidateSlotRules(t *testing.T) {
	rv := NewReservationValidator()

	tests := []struct {
		name       string
		slots      []timeslot.TimeSlot
		wantReason string
	}{
		{"single slot ok", []timeslot.TimeSlot{timeslot.Period3}, ""},
		{"contiguous across lunch", []timeslot.TimeSlot{timeslot.Period2, timeslot.Lunch, timeslot.Period3}, ""},
		{"full day", timeslot.Order, ""},
		{"unknown slot", []timeslot.TimeSlot{"6"}, apperrors.ReasonNonContiguousSlots},
		{"gap", []timeslot.TimeSlot{timeslot.Period1, timeslot.Period3}, apperrors.ReasonNonContiguousSlots},
		{"skipped lunch", []timeslot.TimeSlot{timeslot.Period2, timeslot.Period3}, apperrors.ReasonNonContiguousSlots},
		{"duplicate slot", []timeslot.TimeSlot{timeslot.Period1, timeslot.Period1}, apperrors.ReasonNonContiguousSlots},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rv.Validate(reservation("", "e1", "2024-06-10", tt.slots...), nil)
			if tt.wantReason == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if got := apperrors.Reason(err); got != tt.wantReason {
				t.Errorf("reason = %q, want %q", got, tt.wantReason)
			}
		})
	}
}

func TestValidateConflict(t *testing.T) {
	rv := NewReservationValidator()

	existing := []*model.Reservation{
		reservation("r1", "e1", "2024-06-10", timeslot.Period2, timeslot.Lunch),
	}

	tests := []struct {
		name         string
		candidate    *model.Reservation
		wantConflict bool
	}{
		{"overlapping slot", reservation("", "e1", "2024-06-10", timeslot.Lunch, timeslot.Period3), true},
		{"same day free slots", reservation("", "e1", "2024-06-10", timeslot.Period4, timeslot.Period5), false},
		{"other equipment", reservation("", "e2", "2024-06-10", timeslot.Period2), false},
		{"other day", reservation("", "e1", "2024-06-11", timeslot.Period2), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rv.Validate(tt.candidate, existing)
			if tt.wantConflict {
				if err == nil {
					t.Fatal("expected conflict error, got nil")
				}
				if got := apperrors.Reason(err); got != apperrors.ReasonSlotConflict {
					t.Errorf("reason = %q, want %q", got, apperrors.ReasonSlotConflict)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestFirstConflictIgnoresSelf(t *testing.T) {
	stored := reservation("r1", "e1", "2024-06-10", timeslot.Period1)
	if FirstConflict(stored, []*model.Reservation{stored}) != nil {
		t.Error("a reservation must not conflict with itself")
	}
}

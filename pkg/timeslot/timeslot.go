// Package timeslot defines the fixed catalog of bookable periods within a
// day and the ordering rules reservations must follow. The catalog order is
// significant: contiguity of a slot set is defined over catalog positions,
// not over slot identifiers.
package timeslot

import (
	"fmt"
	"sort"
)

// TimeSlot identifies one bookable period within a day.
type TimeSlot string

const (
	Period1   TimeSlot = "1"
	Period2   TimeSlot = "2"
	Lunch     TimeSlot = "lunch"
	Period3   TimeSlot = "3"
	Period4   TimeSlot = "4"
	Period5   TimeSlot = "5"
	Overnight TimeSlot = "overnight"
)

// Order is the fixed catalog in booking order. Overnight is terminal: it has
// no successor within the same day.
var Order = []TimeSlot{Period1, Period2, Lunch, Period3, Period4, Period5, Overnight}

var positions = func() map[TimeSlot]int {
	m := make(map[TimeSlot]int, len(Order))
	for i, s := range Order {
		m[s] = i
	}
	return m
}()

// Index returns the catalog position of slot. An unknown slot id is a
// programming error and panics.
func Index(slot TimeSlot) int {
	pos, ok := positions[slot]
	if !ok {
		panic(fmt.Sprintf("timeslot: unknown slot id %q", slot))
	}
	return pos
}

// Valid reports whether slot is part of the catalog.
func Valid(slot TimeSlot) bool {
	_, ok := positions[slot]
	return ok
}

// Sort returns a copy of slots in canonical catalog order.
func Sort(slots []TimeSlot) []TimeSlot {
	sorted := make([]TimeSlot, len(slots))
	copy(sorted, slots)
	sort.Slice(sorted, func(i, j int) bool {
		return Index(sorted[i]) < Index(sorted[j])
	})
	return sorted
}

// Contiguous reports whether the slots form one unbroken run in catalog
// order. Positions of the sorted slots must be strictly consecutive: a gap
// of two catalog positions fails even when the slots look adjacent by label
// ({"1","lunch"} is rejected, {"lunch","3"} is accepted). Single-slot sets
// always pass; duplicate slot ids never do.
func Contiguous(slots []TimeSlot) bool {
	if len(slots) <= 1 {
		return true
	}
	sorted := Sort(slots)
	for i := 1; i < len(sorted); i++ {
		if Index(sorted[i])-Index(sorted[i-1]) != 1 {
			return false
		}
	}
	return true
}

// Intersects reports whether the two slot sets share at least one slot id.
func Intersects(a, b []TimeSlot) bool {
	set := make(map[TimeSlot]struct{}, len(a))
	for _, s := range a {
		set[s] = struct{}{}
	}
	for _, s := range b {
		if _, ok := set[s]; ok {
			return true
		}
	}
	return false
}

// Strings converts slots for storage and transport.
func Strings(slots []TimeSlot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = string(s)
	}
	return out
}

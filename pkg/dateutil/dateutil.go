// Package dateutil centralizes calendar-day handling. Every day comparison
// in the system goes through this package and is evaluated in one fixed
// reference timezone, so the retention sweeper and the conflict checker
// always agree on what "today" is regardless of the client machine's zone.
package dateutil

import (
	"fmt"
	"time"
)

// DayFormat is the wire format for calendar days.
const DayFormat = "2006-01-02"

// ReferenceZone is the canonical timezone for all day arithmetic.
const ReferenceZone = "Asia/Tokyo"

var location = func() *time.Location {
	loc, err := time.LoadLocation(ReferenceZone)
	if err != nil {
		// The reference zone is part of the IANA database shipped with Go.
		panic(fmt.Sprintf("dateutil: cannot load %s: %v", ReferenceZone, err))
	}
	return loc
}()

// Location returns the canonical reference location.
func Location() *time.Location {
	return location
}

// ParseDay parses an ISO calendar-day string in the reference timezone.
func ParseDay(day string) (time.Time, error) {
	t, err := time.ParseInLocation(DayFormat, day, location)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid calendar day %q: %w", day, err)
	}
	return t, nil
}

// FormatDay renders t as an ISO calendar-day string in the reference zone.
func FormatDay(t time.Time) string {
	return t.In(location).Format(DayFormat)
}

// Today returns the current calendar day in the reference zone.
func Today() string {
	return FormatDay(time.Now())
}

// SameDay reports whether a and b name the same calendar day.
func SameDay(a, b string) bool {
	return truncate(a).Equal(truncate(b))
}

// BeforeDay reports whether day a falls strictly before day b.
func BeforeDay(a, b string) bool {
	return truncate(a).Before(truncate(b))
}

// Cutoff returns the day exactly days calendar days before reference.
func Cutoff(reference string, days int) (string, error) {
	ref, err := ParseDay(reference)
	if err != nil {
		return "", err
	}
	return FormatDay(ref.AddDate(0, 0, -days)), nil
}

// truncate normalizes a day string to midnight in the reference zone.
// Malformed input collapses to the zero time, which compares unequal to any
// valid day; validation of wire input happens before comparisons are made.
func truncate(day string) time.Time {
	t, err := ParseDay(day)
	if err != nil {
		return time.Time{}
	}
	return t
}

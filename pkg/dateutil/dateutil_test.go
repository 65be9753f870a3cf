package dateutil

import (
	"testing"
	"time"
)

func TestParseDay(t *testing.T) {
	day, err := ParseDay("2024-06-10")
	if err != nil {
		t.Fatalf("ParseDay returned error: %v", err)
	}
	if day.Year() != 2024 || day.Month() != time.June || day.Day() != 10 {
		t.Errorf("ParseDay = %v, want 2024-06-10", day)
	}
	if day.Location().String() != ReferenceZone {
		t.Errorf("ParseDay location = %s, want %s", day.Location(), ReferenceZone)
	}

	if _, err := ParseDay("2024/06/10"); err == nil {
		t.Error("ParseDay accepted a malformed day string")
	}
	if _, err := ParseDay(""); err == nil {
		t.Error("ParseDay accepted an empty day string")
	}
}

func TestSameDay(t *testing.T) {
	if !SameDay("2024-07-01", "2024-07-01") {
		t.Error("identical days reported as different")
	}
	if SameDay("2024-07-01", "2024-07-02") {
		t.Error("different days reported as same")
	}
	if SameDay("not-a-day", "2024-07-01") {
		t.Error("malformed day compared equal to a valid day")
	}
}

func TestBeforeDay(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"2024-06-02", "2024-06-03", true},
		{"2024-06-03", "2024-06-03", false},
		{"2024-06-04", "2024-06-03", false},
		{"2023-12-31", "2024-01-01", true},
	}
	for _, tt := range tests {
		if got := BeforeDay(tt.a, tt.b); got != tt.want {
			t.Errorf("BeforeDay(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCutoff(t *testing.T) {
	got, err := Cutoff("2024-06-10", 7)
	if err != nil {
		t.Fatalf("Cutoff returned error: %v", err)
	}
	if got != "2024-06-03" {
		t.Errorf("Cutoff(2024-06-10, 7) = %s, want 2024-06-03", got)
	}

	// Month boundaries stay on calendar days, not 24h multiples.
	got, err = Cutoff("2024-03-03", 7)
	if err != nil {
		t.Fatalf("Cutoff returned error: %v", err)
	}
	if got != "2024-02-25" {
		t.Errorf("Cutoff(2024-03-03, 7) = %s, want 2024-02-25", got)
	}

	if _, err := Cutoff("bad", 7); err == nil {
		t.Error("Cutoff accepted a malformed reference day")
	}
}

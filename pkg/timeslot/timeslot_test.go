package timeslot

import (
	"reflect"
	"testing"
)

func TestIndex_CatalogOrder(t *testing.T) {
	expected := []TimeSlot{"1", "2", "lunch", "3", "4", "5", "overnight"}
	if !reflect.DeepEqual(Order, expected) {
		t.Fatalf("catalog order = %v, want %v", Order, expected)
	}
	for i, slot := range Order {
		if Index(slot) != i {
			t.Errorf("Index(%q) = %d, want %d", slot, Index(slot), i)
		}
	}
}

func TestIndex_UnknownSlotPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Index on unknown slot did not panic")
		}
	}()
	Index("6")
}

func TestContiguous(t *testing.T) {
	tests := []struct {
		name  string
		slots []TimeSlot
		want  bool
	}{
		{"single slot", []TimeSlot{"3"}, true},
		{"empty set", nil, true},
		{"adjacent pair", []TimeSlot{"1", "2"}, true},
		{"period into lunch", []TimeSlot{"2", "lunch"}, true},
		{"lunch into period", []TimeSlot{"lunch", "3"}, true},
		{"run across lunch", []TimeSlot{"1", "2", "lunch"}, true},
		{"afternoon run", []TimeSlot{"lunch", "3", "4", "5"}, true},
		{"full day", []TimeSlot{"1", "2", "lunch", "3", "4", "5"}, true},
		{"into overnight", []TimeSlot{"5", "overnight"}, true},
		{"unsorted input", []TimeSlot{"4", "3", "lunch"}, true},
		{"gap over lunch", []TimeSlot{"1", "lunch"}, false},
		{"gap in afternoon", []TimeSlot{"2", "4"}, false},
		{"skip lunch", []TimeSlot{"2", "3"}, false},
		{"duplicate slot", []TimeSlot{"3", "3"}, false},
		{"ends far apart", []TimeSlot{"1", "overnight"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Contiguous(tt.slots); got != tt.want {
				t.Errorf("Contiguous(%v) = %v, want %v", tt.slots, got, tt.want)
			}
		})
	}
}

func TestSort_CanonicalOrder(t *testing.T) {
	got := Sort([]TimeSlot{"5", "lunch", "3", "1"})
	want := []TimeSlot{"1", "lunch", "3", "5"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Sort = %v, want %v", got, want)
	}
}

func TestSort_DoesNotMutateInput(t *testing.T) {
	in := []TimeSlot{"4", "2"}
	Sort(in)
	if !reflect.DeepEqual(in, []TimeSlot{"4", "2"}) {
		t.Fatalf("Sort mutated its input: %v", in)
	}
}

func TestIntersects(t *testing.T) {
	tests := []struct {
		name string
		a, b []TimeSlot
		want bool
	}{
		{"one shared slot", []TimeSlot{"1", "2"}, []TimeSlot{"2", "3"}, true},
		{"identical sets", []TimeSlot{"lunch"}, []TimeSlot{"lunch"}, true},
		{"disjoint", []TimeSlot{"1"}, []TimeSlot{"2"}, false},
		{"empty candidate", nil, []TimeSlot{"1"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Intersects(tt.a, tt.b); got != tt.want {
				t.Errorf("Intersects(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

// ABOUTME: Tests for the Weekdays schedule set and day-list conversions.
// ABOUTME: Covers parsing, sorting, deduplication, and legacy primary-day derivation.
package models

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestDaysListFromString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []int
	}{
		{"empty", "", []int{}},
		{"single", "4", []int{4}},
		{"unsorted", "1,3,0", []int{0, 1, 3}},
		{"duplicates", "3,3,1,1", []int{1, 3}},
		{"spaces", " 2 , 5", []int{2, 5}},
		{"invalid tokens dropped", "1,x,9,-1,6", []int{1, 6}},
		{"trailing comma", "0,", []int{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DaysListFromString(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DaysListFromString(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDaysListRoundTripIsOrderIndependent(t *testing.T) {
	inputs := []string{"1,3,0", "0,1,3", "3,0,1,1", "6,5,4,3,2,1,0", "", "2"}
	for _, in := range inputs {
		once := DaysListToString(DaysListFromString(in))
		twice := DaysListToString(DaysListFromString(once))
		if once != twice {
			t.Errorf("round trip of %q not idempotent: %q then %q", in, once, twice)
		}
	}

	a := DaysListToString(DaysListFromString("1,3,0"))
	b := DaysListToString(DaysListFromString("3,0,1"))
	if a != b || a != "0,1,3" {
		t.Errorf("permutations should normalise to 0,1,3: got %q and %q", a, b)
	}
}

func TestDaysListToString(t *testing.T) {
	if got := DaysListToString([]int{5, 1, 1, 3}); got != "1,3,5" {
		t.Errorf("DaysListToString = %q, want %q", got, "1,3,5")
	}
	if got := DaysListToString(nil); got != "" {
		t.Errorf("DaysListToString(nil) = %q, want empty", got)
	}
}

func TestWeekdaysContains(t *testing.T) {
	w := ParseWeekdays("1,3,0")
	if !w.Contains(1) {
		t.Error("expected Contains(1) to be true")
	}
	if w.Contains(2) {
		t.Error("expected Contains(2) to be false")
	}
	if w.Contains(7) || w.Contains(-1) {
		t.Error("out-of-range days must never be contained")
	}
}

func TestWeekdaysPrimary(t *testing.T) {
	if got := ParseWeekdays("5,2,6").Primary(); got != 2 {
		t.Errorf("Primary() = %d, want 2", got)
	}
	if got := Weekdays(0).Primary(); got != Unscheduled {
		t.Errorf("Primary() of empty = %d, want %d", got, Unscheduled)
	}
}

func TestWeekdaysAddRemove(t *testing.T) {
	w := NewWeekdays(1).Add(4).Add(4).Remove(1)
	if got := w.String(); got != "4" {
		t.Errorf("String() = %q, want %q", got, "4")
	}
	if w.Add(9) != w {
		t.Error("Add of out-of-range day should be a no-op")
	}
}

func TestWeekdaysJSON(t *testing.T) {
	r := NewRoutine(1, "Legs").WithDays(3, 1)
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var got Routine
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if got.Days != r.Days {
		t.Errorf("Days mismatch after JSON: got %v, want %v", got.Days, r.Days)
	}
}

func TestDayNames(t *testing.T) {
	if DayName(0) != "Sunday" || DayName(6) != "Saturday" || DayName(-1) != "Unscheduled" {
		t.Error("DayName returned unexpected values")
	}
	if ShortDayName(1) != "Mon" || ShortDayName(8) != "N/A" {
		t.Error("ShortDayName returned unexpected values")
	}

	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"mon", 1, true},
		{"Wednesday", 3, true},
		{"0", 0, true},
		{"7", 7, false},
		{"x", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseDayName(tt.in)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("ParseDayName(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestRoutineScheduleHelpers(t *testing.T) {
	r := NewRoutine(1, "Full body")
	r.Days = ParseWeekdays("1,3,0")

	if got := r.DaysList(); !reflect.DeepEqual(got, []int{0, 1, 3}) {
		t.Errorf("DaysList() = %v, want [0 1 3]", got)
	}
	if !r.ContainsDay(1) || r.ContainsDay(2) {
		t.Error("ContainsDay mismatch")
	}
	if r.PrimaryDay() != 0 || !r.IsScheduled() {
		t.Error("expected scheduled routine with primary day 0")
	}
}

// ABOUTME: Weekdays is the canonical schedule of a routine: a set of days 0-6 (Sun-Sat).
// ABOUTME: Converts to and from the comma-joined day list persisted for routines.
package models

import (
	"strconv"
	"strings"
)

// Unscheduled is the legacy single-day value for a routine with no days.
const Unscheduled = -1

// Weekdays is a set of day indices, Sunday = 0 through Saturday = 6.
type Weekdays uint8

// NewWeekdays builds a set from day indices, ignoring values outside 0-6.
func NewWeekdays(days ...int) Weekdays {
	var w Weekdays
	for _, d := range days {
		w = w.Add(d)
	}
	return w
}

// ParseWeekdays reads a comma-separated list of day indices.
// Tokens that are not digits in 0-6 are dropped.
func ParseWeekdays(s string) Weekdays {
	var w Weekdays
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		d, err := strconv.Atoi(tok)
		if err != nil {
			continue
		}
		w = w.Add(d)
	}
	return w
}

// Add returns the set with day d included.
func (w Weekdays) Add(d int) Weekdays {
	if d < 0 || d > 6 {
		return w
	}
	return w | 1<<uint(d)
}

// Remove returns the set with day d excluded.
func (w Weekdays) Remove(d int) Weekdays {
	if d < 0 || d > 6 {
		return w
	}
	return w &^ (1 << uint(d))
}

// Contains reports whether day d is in the set.
func (w Weekdays) Contains(d int) bool {
	if d < 0 || d > 6 {
		return false
	}
	return w&(1<<uint(d)) != 0
}

// IsScheduled reports whether at least one day is set.
func (w Weekdays) IsScheduled() bool {
	return w&0x7f != 0
}

// List returns the days in ascending order.
func (w Weekdays) List() []int {
	days := []int{}
	for d := 0; d <= 6; d++ {
		if w.Contains(d) {
			days = append(days, d)
		}
	}
	return days
}

// Primary returns the lowest day in the set, or Unscheduled when empty.
func (w Weekdays) Primary() int {
	for d := 0; d <= 6; d++ {
		if w.Contains(d) {
			return d
		}
	}
	return Unscheduled
}

// String returns the sorted comma-joined form, "" for an empty set.
func (w Weekdays) String() string {
	days := w.List()
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}

// DaysListFromString parses a comma-joined day list into sorted, unique days.
func DaysListFromString(s string) []int {
	return ParseWeekdays(s).List()
}

// DaysListToString joins days into the sorted, deduplicated persisted form.
func DaysListToString(days []int) string {
	return NewWeekdays(days...).String()
}

var dayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// DayName returns the full English name for a day index.
func DayName(d int) string {
	if d < 0 || d > 6 {
		return "Unscheduled"
	}
	return dayNames[d]
}

// ShortDayName returns the three-letter name for a day index.
func ShortDayName(d int) string {
	if d < 0 || d > 6 {
		return "N/A"
	}
	return dayNames[d][:3]
}

// ParseDayName maps a day name or index ("mon", "Monday", "1") to its index.
func ParseDayName(s string) (int, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if d, err := strconv.Atoi(s); err == nil {
		return d, d >= 0 && d <= 6
	}
	if len(s) < 3 {
		return 0, false
	}
	for i, name := range dayNames {
		if strings.HasPrefix(strings.ToLower(name), s) {
			return i, true
		}
	}
	return 0, false
}

// MarshalText implements encoding.TextMarshaler using the persisted form.
func (w Weekdays) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (w *Weekdays) UnmarshalText(b []byte) error {
	*w = ParseWeekdays(string(b))
	return nil
}

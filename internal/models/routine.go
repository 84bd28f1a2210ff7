// ABOUTME: WorkoutRoutine model owned by a user.
// ABOUTME: Days is the only schedule field; legacy columns are a storage concern.
package models

import "time"

// Routine is a named workout scheduled on zero or more weekdays.
type Routine struct {
	ID          int64     `json:"id" yaml:"id"`
	UserID      int64     `json:"user_id" yaml:"user_id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Days        Weekdays  `json:"days" yaml:"days"`
	IsCompleted bool      `json:"is_completed" yaml:"is_completed"`
	LocationID  *int64    `json:"location_id,omitempty" yaml:"location_id,omitempty"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
}

// NewRoutine creates an unscheduled routine for a user.
func NewRoutine(userID int64, name string) *Routine {
	return &Routine{
		UserID: userID,
		Name:   name,
	}
}

// WithDescription sets the description.
func (r *Routine) WithDescription(desc string) *Routine {
	r.Description = desc
	return r
}

// WithDays replaces the schedule.
func (r *Routine) WithDays(days ...int) *Routine {
	r.Days = NewWeekdays(days...)
	return r
}

// WithLocation sets the location reference.
func (r *Routine) WithLocation(locationID int64) *Routine {
	r.LocationID = &locationID
	return r
}

// DaysList returns the scheduled days in ascending order.
func (r *Routine) DaysList() []int {
	return r.Days.List()
}

// ContainsDay reports whether the routine is scheduled on day d.
func (r *Routine) ContainsDay(d int) bool {
	return r.Days.Contains(d)
}

// IsScheduled reports whether the routine has any day set.
func (r *Routine) IsScheduled() bool {
	return r.Days.IsScheduled()
}

// PrimaryDay returns the first scheduled day, or Unscheduled.
func (r *Routine) PrimaryDay() int {
	return r.Days.Primary()
}

// ABOUTME: WorkoutRoutine CRUD and filtered readers for SQLite storage.
// ABOUTME: Maps the Weekdays set onto the legacy day_of_week and the days_of_week list columns.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/harperreed/fitlife/internal/models"
)

const routineColumns = `id, user_id, name, description, day_of_week, days_of_week,
	is_completed, location_id, created_at, updated_at`

// routineOrder sorts by first scheduled day, newest first within a day.
const routineOrder = "ORDER BY day_of_week, created_at DESC, id DESC"

func routineRefs(r *models.Routine) map[string]*int64 {
	userID := r.UserID
	return map[string]*int64{"user_id": &userID, "location_id": r.LocationID}
}

// encodeDays returns the legacy single day and the persisted day list.
func encodeDays(days models.Weekdays) (int, string) {
	return days.Primary(), days.String()
}

// decodeDays prefers the day list and falls back to the legacy single day.
func decodeDays(legacy int, list string) models.Weekdays {
	if list != "" {
		return models.ParseWeekdays(list)
	}
	return models.NewWeekdays(legacy)
}

// InsertRoutine stores a new routine and assigns its ID, overwriting any ID
// already set on r.
func (w *Writer) InsertRoutine(r *models.Routine) error {
	refs := routineRefs(r)
	if err := w.checkRefs(tableRoutines, refs); err != nil {
		return fmt.Errorf("insert routine: %w", err)
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = w.now
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = r.CreatedAt
	}

	day, days := encodeDays(r.Days)
	res, err := w.exec(`
		INSERT INTO workout_routines (user_id, name, description, day_of_week, days_of_week,
			is_completed, location_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.UserID, r.Name, r.Description, day, days, boolInt(r.IsCompleted),
		nullInt64(r.LocationID), toMillis(r.CreatedAt), toMillis(r.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert routine: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert routine: %w", err)
	}
	r.ID = id
	w.touch(tableRoutines, id, refs)
	return nil
}

// UpdateRoutine replaces every column of an existing routine and bumps UpdatedAt.
func (w *Writer) UpdateRoutine(r *models.Routine) error {
	before, err := w.loadRefs(tableRoutines, r.ID)
	if err != nil {
		return fmt.Errorf("update routine: %w", err)
	}
	after := routineRefs(r)
	if err := w.checkRefs(tableRoutines, after); err != nil {
		return fmt.Errorf("update routine: %w", err)
	}
	r.UpdatedAt = w.now

	day, days := encodeDays(r.Days)
	_, err = w.exec(`
		UPDATE workout_routines SET user_id = ?, name = ?, description = ?, day_of_week = ?,
			days_of_week = ?, is_completed = ?, location_id = ?, created_at = ?, updated_at = ?
		WHERE id = ?
	`, r.UserID, r.Name, r.Description, day, days, boolInt(r.IsCompleted),
		nullInt64(r.LocationID), toMillis(r.CreatedAt), toMillis(r.UpdatedAt), r.ID)
	if err != nil {
		return fmt.Errorf("update routine: %w", err)
	}
	w.touchUpdate(tableRoutines, r.ID, before, after)
	return nil
}

// SetRoutineCompleted patches the completion flag.
func (w *Writer) SetRoutineCompleted(id int64, completed bool) error {
	refs, err := w.loadRefs(tableRoutines, id)
	if err != nil {
		return fmt.Errorf("set routine completed: %w", err)
	}
	_, err = w.exec("UPDATE workout_routines SET is_completed = ?, updated_at = ? WHERE id = ?",
		boolInt(completed), toMillis(w.now), id)
	if err != nil {
		return fmt.Errorf("set routine completed: %w", err)
	}
	w.touch(tableRoutines, id, refs)
	return nil
}

// SetRoutineLocation patches the location reference; nil clears it.
func (w *Writer) SetRoutineLocation(id int64, locationID *int64) error {
	before, err := w.loadRefs(tableRoutines, id)
	if err != nil {
		return fmt.Errorf("set routine location: %w", err)
	}
	after := map[string]*int64{"user_id": before["user_id"], "location_id": locationID}
	if err := w.checkRefs(tableRoutines, after); err != nil {
		return fmt.Errorf("set routine location: %w", err)
	}
	_, err = w.exec("UPDATE workout_routines SET location_id = ?, updated_at = ? WHERE id = ?",
		nullInt64(locationID), toMillis(w.now), id)
	if err != nil {
		return fmt.Errorf("set routine location: %w", err)
	}
	w.touchUpdate(tableRoutines, id, before, after)
	return nil
}

// DeleteRoutine removes a routine together with its exercises and their equipment.
func (w *Writer) DeleteRoutine(id int64) error {
	if err := w.deleteRow(tableRoutines, id); err != nil {
		return fmt.Errorf("delete routine: %w", err)
	}
	return nil
}

// RoutineByID returns a routine or ErrNotFound.
func (r *Reader) RoutineByID(id int64) (*models.Routine, error) {
	r.dependOnRow(tableRoutines, id)
	rt, err := scanRoutine(r.queryRow("SELECT "+routineColumns+" FROM workout_routines WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(tableRoutines, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get routine: %w", err)
	}
	return rt, nil
}

// RoutinesByUser returns a user's routines by first day, then newest first.
func (r *Reader) RoutinesByUser(userID int64) ([]models.Routine, error) {
	r.dependOnRef(tableRoutines, "user_id", userID)
	return r.listRoutines("SELECT "+routineColumns+" FROM workout_routines WHERE user_id = ? "+routineOrder, userID)
}

// RoutinesByDay returns the user's routines whose schedule contains day.
func (r *Reader) RoutinesByDay(userID int64, day int) ([]models.Routine, error) {
	return r.filterRoutines(userID, func(rt *models.Routine) bool { return rt.ContainsDay(day) })
}

// ScheduledRoutines returns the user's routines with at least one day.
func (r *Reader) ScheduledRoutines(userID int64) ([]models.Routine, error) {
	return r.filterRoutines(userID, func(rt *models.Routine) bool { return rt.IsScheduled() })
}

// PendingRoutines returns scheduled routines not yet completed.
func (r *Reader) PendingRoutines(userID int64) ([]models.Routine, error) {
	return r.filterRoutines(userID, func(rt *models.Routine) bool {
		return rt.IsScheduled() && !rt.IsCompleted
	})
}

// RoutinesByLocation returns routines at a location, across users.
func (r *Reader) RoutinesByLocation(locationID int64) ([]models.Routine, error) {
	r.dependOnRef(tableRoutines, "location_id", locationID)
	return r.listRoutines("SELECT "+routineColumns+" FROM workout_routines WHERE location_id = ? "+routineOrder, locationID)
}

// CompletedRoutineCount counts the user's scheduled routines marked completed.
func (r *Reader) CompletedRoutineCount(userID int64) (int, error) {
	routines, err := r.filterRoutines(userID, func(rt *models.Routine) bool {
		return rt.IsScheduled() && rt.IsCompleted
	})
	return len(routines), err
}

// ScheduledRoutineCount counts the user's scheduled routines.
func (r *Reader) ScheduledRoutineCount(userID int64) (int, error) {
	routines, err := r.ScheduledRoutines(userID)
	return len(routines), err
}

func (r *Reader) filterRoutines(userID int64, keep func(*models.Routine) bool) ([]models.Routine, error) {
	all, err := r.RoutinesByUser(userID)
	if err != nil {
		return nil, err
	}
	out := []models.Routine{}
	for i := range all {
		if keep(&all[i]) {
			out = append(out, all[i])
		}
	}
	return out, nil
}

func (r *Reader) listRoutines(q string, args ...any) ([]models.Routine, error) {
	rows, err := r.query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list routines: %w", err)
	}
	defer rows.Close()

	routines := []models.Routine{}
	for rows.Next() {
		rt, err := scanRoutine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan routine: %w", err)
		}
		r.dependOnRow(tableRoutines, rt.ID)
		routines = append(routines, *rt)
	}
	return routines, rows.Err()
}

func scanRoutine(s scanner) (*models.Routine, error) {
	var rt models.Routine
	var legacyDay int
	var days string
	var completed int
	var location sql.NullInt64
	var created, updated int64
	err := s.Scan(&rt.ID, &rt.UserID, &rt.Name, &rt.Description, &legacyDay, &days,
		&completed, &location, &created, &updated)
	if err != nil {
		return nil, err
	}
	rt.Days = decodeDays(legacyDay, days)
	rt.IsCompleted = completed != 0
	rt.LocationID = int64Ptr(location)
	rt.CreatedAt = fromMillis(created)
	rt.UpdatedAt = fromMillis(updated)
	return &rt, nil
}

// ABOUTME: Workout facade for routines: CRUD, save-with-exercises, patchers, and live queries.
// ABOUTME: Exercise and equipment operations on the same facade live in exercises.go.
package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/harperreed/fitlife/internal/live"
	"github.com/harperreed/fitlife/internal/models"
	"github.com/harperreed/fitlife/internal/storage"
)

// WorkoutRepository is the facade for routines, exercises and equipment.
type WorkoutRepository struct {
	facade
}

// NewWorkoutRepository creates the workout facade.
func NewWorkoutRepository(db *storage.DB, opts *Options) *WorkoutRepository {
	return &WorkoutRepository{facade: newFacade(db, opts)}
}

// normalizeRoutine trims text and drops any schedule bits outside 0-6.
func normalizeRoutine(r *models.Routine) (*models.Routine, *Rejection) {
	name, named := cleanName(r.Name)
	if !named {
		return nil, newRejection(ReasonInvalidInput, "routine name is required")
	}
	out := *r
	out.Name = name
	out.Description = strings.TrimSpace(r.Description)
	out.Days = models.NewWeekdays(r.Days.List()...)
	return &out, nil
}

// CreateRoutine stores a new routine and returns it with its ID.
func (wr *WorkoutRepository) CreateRoutine(ctx context.Context, r *models.Routine) (Result[*models.Routine], error) {
	const op = "create routine"
	routine, rej := normalizeRoutine(r)
	if rej != nil {
		return fromError[*models.Routine](wr.logger, op, rej, "")
	}
	routine.ID = 0
	if err := wr.db.Update(ctx, func(w *storage.Writer) error { return w.InsertRoutine(routine) }); err != nil {
		return fromError[*models.Routine](wr.logger, op, err, "")
	}
	return ok(routine)
}

// UpdateRoutine replaces a stored routine.
func (wr *WorkoutRepository) UpdateRoutine(ctx context.Context, r *models.Routine) (Result[*models.Routine], error) {
	const op = "update routine"
	routine, rej := normalizeRoutine(r)
	if rej != nil {
		return fromError[*models.Routine](wr.logger, op, rej, "")
	}
	if err := wr.db.Update(ctx, func(w *storage.Writer) error { return w.UpdateRoutine(routine) }); err != nil {
		return fromError[*models.Routine](wr.logger, op, err, ReasonRoutineNotFound)
	}
	return ok(routine)
}

// SaveRoutine inserts or updates a routine and replaces its exercises and
// their equipment, all in one transaction. Exercises are ordered by their
// position in the slice; equipment without a category gets a guessed one.
func (wr *WorkoutRepository) SaveRoutine(ctx context.Context, r *models.Routine, exercises []models.ExerciseWithEquipment) (Result[*models.RoutineWithExercisesAndEquipment], error) {
	const op = "save routine"
	routine, rej := normalizeRoutine(r)
	if rej != nil {
		return fromError[*models.RoutineWithExercisesAndEquipment](wr.logger, op, rej, "")
	}
	items, rej := normalizeExerciseList(exercises)
	if rej != nil {
		return fromError[*models.RoutineWithExercisesAndEquipment](wr.logger, op, rej, "")
	}

	var saved *models.RoutineWithExercisesAndEquipment
	err := wr.db.Update(ctx, func(w *storage.Writer) error {
		var err error
		if routine.ID == 0 {
			err = w.InsertRoutine(routine)
		} else {
			err = w.UpdateRoutine(routine)
		}
		if err != nil {
			return err
		}
		if err := w.ReplaceRoutineExercises(routine.ID, items); err != nil {
			return err
		}
		saved, err = w.RoutineWithExercisesAndEquipment(routine.ID)
		return err
	})
	if err != nil {
		return fromError[*models.RoutineWithExercisesAndEquipment](wr.logger, op, err, ReasonRoutineNotFound)
	}
	wr.logger.Info("routine saved", "id", saved.Routine.ID, "exercises", len(saved.Exercises))
	return ok(saved)
}

// DeleteRoutine removes a routine with its exercises and equipment.
func (wr *WorkoutRepository) DeleteRoutine(ctx context.Context, id int64) (Result[struct{}], error) {
	if err := wr.db.Update(ctx, func(w *storage.Writer) error { return w.DeleteRoutine(id) }); err != nil {
		return fromError[struct{}](wr.logger, "delete routine", err, ReasonRoutineNotFound)
	}
	return ok(struct{}{})
}

// UpdateRoutineCompletionStatus marks a routine done or not done.
func (wr *WorkoutRepository) UpdateRoutineCompletionStatus(ctx context.Context, id int64, completed bool) (Result[struct{}], error) {
	err := wr.db.Update(ctx, func(w *storage.Writer) error { return w.SetRoutineCompleted(id, completed) })
	if err != nil {
		return fromError[struct{}](wr.logger, "update routine completion", err, ReasonRoutineNotFound)
	}
	return ok(struct{}{})
}

// UpdateRoutineLocation sets the routine's location; nil clears it.
func (wr *WorkoutRepository) UpdateRoutineLocation(ctx context.Context, id int64, locationID *int64) (Result[struct{}], error) {
	err := wr.db.Update(ctx, func(w *storage.Writer) error { return w.SetRoutineLocation(id, locationID) })
	if err != nil {
		return fromError[struct{}](wr.logger, "update routine location", err, ReasonRoutineNotFound)
	}
	return ok(struct{}{})
}

// UpdateRoutineSchedule replaces the days a routine is scheduled on.
func (wr *WorkoutRepository) UpdateRoutineSchedule(ctx context.Context, id int64, days models.Weekdays) (Result[*models.Routine], error) {
	const op = "update routine schedule"
	var routine *models.Routine
	err := wr.db.Update(ctx, func(w *storage.Writer) error {
		var err error
		routine, err = w.RoutineByID(id)
		if err != nil {
			return err
		}
		routine.Days = models.NewWeekdays(days.List()...)
		return w.UpdateRoutine(routine)
	})
	if err != nil {
		return fromError[*models.Routine](wr.logger, op, err, ReasonRoutineNotFound)
	}
	return ok(routine)
}

// GetRoutine returns a routine, or nil when there is none.
func (wr *WorkoutRepository) GetRoutine(ctx context.Context, id int64) (*models.Routine, error) {
	return lookup(ctx, wr.db, func(r *storage.Reader) (*models.Routine, error) { return r.RoutineByID(id) })
}

// RoutinesByUser returns a snapshot of the user's routines.
func (wr *WorkoutRepository) RoutinesByUser(ctx context.Context, userID int64) ([]models.Routine, error) {
	return storage.Get(ctx, wr.db, func(r *storage.Reader) ([]models.Routine, error) { return r.RoutinesByUser(userID) })
}

// RoutineWithExercisesAndEquipment returns the full aggregate, or nil when
// the routine does not exist.
func (wr *WorkoutRepository) RoutineWithExercisesAndEquipment(ctx context.Context, id int64) (*models.RoutineWithExercisesAndEquipment, error) {
	return lookup(ctx, wr.db, func(r *storage.Reader) (*models.RoutineWithExercisesAndEquipment, error) {
		return r.RoutineWithExercisesAndEquipment(id)
	})
}

// RoutineWithLocation returns the routine and its location, or nil when the
// routine does not exist.
func (wr *WorkoutRepository) RoutineWithLocation(ctx context.Context, id int64) (*models.RoutineWithLocation, error) {
	return lookup(ctx, wr.db, func(r *storage.Reader) (*models.RoutineWithLocation, error) {
		return r.RoutineWithLocation(id)
	})
}

// WatchRoutines streams the user's routines by first day, newest first.
func (wr *WorkoutRepository) WatchRoutines(ctx context.Context, userID int64) *live.Subscription[[]models.Routine] {
	return watch(ctx, wr.db, wr.logger, "routines", func(r *storage.Reader) ([]models.Routine, error) {
		return r.RoutinesByUser(userID)
	})
}

// WatchRoutinesByDay streams the user's routines scheduled on day.
func (wr *WorkoutRepository) WatchRoutinesByDay(ctx context.Context, userID int64, day int) *live.Subscription[[]models.Routine] {
	return watch(ctx, wr.db, wr.logger, "routines by day", func(r *storage.Reader) ([]models.Routine, error) {
		return r.RoutinesByDay(userID, day)
	})
}

// WatchScheduledRoutines streams routines with at least one day.
func (wr *WorkoutRepository) WatchScheduledRoutines(ctx context.Context, userID int64) *live.Subscription[[]models.Routine] {
	return watch(ctx, wr.db, wr.logger, "scheduled routines", func(r *storage.Reader) ([]models.Routine, error) {
		return r.ScheduledRoutines(userID)
	})
}

// WatchPendingRoutines streams scheduled routines not yet completed.
func (wr *WorkoutRepository) WatchPendingRoutines(ctx context.Context, userID int64) *live.Subscription[[]models.Routine] {
	return watch(ctx, wr.db, wr.logger, "pending routines", func(r *storage.Reader) ([]models.Routine, error) {
		return r.PendingRoutines(userID)
	})
}

// WatchRoutinesByLocation streams routines held at a location.
func (wr *WorkoutRepository) WatchRoutinesByLocation(ctx context.Context, locationID int64) *live.Subscription[[]models.Routine] {
	return watch(ctx, wr.db, wr.logger, "routines by location", func(r *storage.Reader) ([]models.Routine, error) {
		return r.RoutinesByLocation(locationID)
	})
}

// WatchRoutinesWithLocations streams the user's located routines with their locations.
func (wr *WorkoutRepository) WatchRoutinesWithLocations(ctx context.Context, userID int64) *live.Subscription[[]models.RoutineWithLocation] {
	return watch(ctx, wr.db, wr.logger, "routines with locations", func(r *storage.Reader) ([]models.RoutineWithLocation, error) {
		return r.RoutinesWithLocations(userID)
	})
}

// WatchRoutine streams one routine; nil while it is absent.
func (wr *WorkoutRepository) WatchRoutine(ctx context.Context, id int64) *live.Subscription[*models.Routine] {
	return watch(ctx, wr.db, wr.logger, "routine", func(r *storage.Reader) (*models.Routine, error) {
		return optional(r.RoutineByID(id))
	})
}

// WatchRoutineWithExercises streams a routine and its ordered exercises.
func (wr *WorkoutRepository) WatchRoutineWithExercises(ctx context.Context, id int64) *live.Subscription[*models.RoutineWithExercises] {
	return watch(ctx, wr.db, wr.logger, "routine with exercises", func(r *storage.Reader) (*models.RoutineWithExercises, error) {
		return optional(r.RoutineWithExercises(id))
	})
}

// WatchRoutinesWithExercises streams every routine of the user with exercises.
func (wr *WorkoutRepository) WatchRoutinesWithExercises(ctx context.Context, userID int64) *live.Subscription[[]models.RoutineWithExercises] {
	return watch(ctx, wr.db, wr.logger, "routines with exercises", func(r *storage.Reader) ([]models.RoutineWithExercises, error) {
		return r.RoutinesWithExercises(userID)
	})
}

// WatchRoutineWithExercisesAndEquipment streams the full aggregate of one routine.
func (wr *WorkoutRepository) WatchRoutineWithExercisesAndEquipment(ctx context.Context, id int64) *live.Subscription[*models.RoutineWithExercisesAndEquipment] {
	return watch(ctx, wr.db, wr.logger, "routine aggregate", func(r *storage.Reader) (*models.RoutineWithExercisesAndEquipment, error) {
		return optional(r.RoutineWithExercisesAndEquipment(id))
	})
}

// WatchScheduledRoutinesWithEquipment streams the aggregates of scheduled routines.
func (wr *WorkoutRepository) WatchScheduledRoutinesWithEquipment(ctx context.Context, userID int64) *live.Subscription[[]models.RoutineWithExercisesAndEquipment] {
	return watch(ctx, wr.db, wr.logger, "scheduled aggregates", func(r *storage.Reader) ([]models.RoutineWithExercisesAndEquipment, error) {
		return r.ScheduledRoutinesWithEquipment(userID)
	})
}

// RoutineStats is the completion summary shown on the home screen.
type RoutineStats struct {
	Scheduled int `json:"scheduled"`
	Completed int `json:"completed"`
}

// Stats returns a snapshot of the user's routine counts.
func (wr *WorkoutRepository) Stats(ctx context.Context, userID int64) (RoutineStats, error) {
	return storage.Get(ctx, wr.db, routineStats(userID))
}

// WatchStats streams the user's scheduled and completed routine counts.
func (wr *WorkoutRepository) WatchStats(ctx context.Context, userID int64) *live.Subscription[RoutineStats] {
	return watch(ctx, wr.db, wr.logger, "routine stats", routineStats(userID))
}

func routineStats(userID int64) func(r *storage.Reader) (RoutineStats, error) {
	return func(r *storage.Reader) (RoutineStats, error) {
		var s RoutineStats
		var err error
		if s.Scheduled, err = r.ScheduledRoutineCount(userID); err != nil {
			return s, fmt.Errorf("count scheduled: %w", err)
		}
		if s.Completed, err = r.CompletedRoutineCount(userID); err != nil {
			return s, fmt.Errorf("count completed: %w", err)
		}
		return s, nil
	}
}

// ABOUTME: Relation resolver composing routines with exercises, equipment, and location.
// ABOUTME: Runs on a Reader so one aggregate always comes from one snapshot.
package storage

import (
	"errors"

	"github.com/harperreed/fitlife/internal/models"
)

// RoutineWithExercises resolves a routine and its ordered exercises.
func (r *Reader) RoutineWithExercises(routineID int64) (*models.RoutineWithExercises, error) {
	rt, err := r.RoutineByID(routineID)
	if err != nil {
		return nil, err
	}
	exercises, err := r.ExercisesByRoutine(rt.ID)
	if err != nil {
		return nil, err
	}
	return &models.RoutineWithExercises{Routine: *rt, Exercises: exercises}, nil
}

// RoutinesWithExercises resolves every routine of a user, in routine order.
func (r *Reader) RoutinesWithExercises(userID int64) ([]models.RoutineWithExercises, error) {
	routines, err := r.RoutinesByUser(userID)
	if err != nil {
		return nil, err
	}
	out := make([]models.RoutineWithExercises, 0, len(routines))
	for _, rt := range routines {
		exercises, err := r.ExercisesByRoutine(rt.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, models.RoutineWithExercises{Routine: rt, Exercises: exercises})
	}
	return out, nil
}

// ExercisesWithEquipment resolves a routine's exercises with their equipment.
func (r *Reader) ExercisesWithEquipment(routineID int64) ([]models.ExerciseWithEquipment, error) {
	exercises, err := r.ExercisesByRoutine(routineID)
	if err != nil {
		return nil, err
	}
	out := make([]models.ExerciseWithEquipment, 0, len(exercises))
	for _, ex := range exercises {
		eq, err := r.EquipmentByExercise(ex.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, models.ExerciseWithEquipment{Exercise: ex, Equipment: eq})
	}
	return out, nil
}

// RoutineWithExercisesAndEquipment resolves the full three-level aggregate.
func (r *Reader) RoutineWithExercisesAndEquipment(routineID int64) (*models.RoutineWithExercisesAndEquipment, error) {
	rt, err := r.RoutineByID(routineID)
	if err != nil {
		return nil, err
	}
	exercises, err := r.ExercisesWithEquipment(rt.ID)
	if err != nil {
		return nil, err
	}
	return &models.RoutineWithExercisesAndEquipment{Routine: *rt, Exercises: exercises}, nil
}

// ScheduledRoutinesWithEquipment resolves the full aggregate of every scheduled routine.
func (r *Reader) ScheduledRoutinesWithEquipment(userID int64) ([]models.RoutineWithExercisesAndEquipment, error) {
	routines, err := r.ScheduledRoutines(userID)
	if err != nil {
		return nil, err
	}
	out := make([]models.RoutineWithExercisesAndEquipment, 0, len(routines))
	for _, rt := range routines {
		exercises, err := r.ExercisesWithEquipment(rt.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, models.RoutineWithExercisesAndEquipment{Routine: rt, Exercises: exercises})
	}
	return out, nil
}

// RoutineWithLocation resolves a routine and its location. Location is nil
// when the routine has none.
func (r *Reader) RoutineWithLocation(routineID int64) (*models.RoutineWithLocation, error) {
	rt, err := r.RoutineByID(routineID)
	if err != nil {
		return nil, err
	}
	return r.attachLocation(*rt)
}

// RoutinesWithLocations resolves the user's routines that reference a location.
func (r *Reader) RoutinesWithLocations(userID int64) ([]models.RoutineWithLocation, error) {
	routines, err := r.filterRoutines(userID, func(rt *models.Routine) bool { return rt.LocationID != nil })
	if err != nil {
		return nil, err
	}
	out := make([]models.RoutineWithLocation, 0, len(routines))
	for _, rt := range routines {
		rl, err := r.attachLocation(rt)
		if err != nil {
			return nil, err
		}
		out = append(out, *rl)
	}
	return out, nil
}

func (r *Reader) attachLocation(rt models.Routine) (*models.RoutineWithLocation, error) {
	out := &models.RoutineWithLocation{Routine: rt}
	if rt.LocationID == nil {
		return out, nil
	}
	loc, err := r.LocationByID(*rt.LocationID)
	if errors.Is(err, ErrNotFound) {
		return out, nil
	}
	if err != nil {
		return nil, err
	}
	out.Location = loc
	return out, nil
}

// ABOUTME: Workout facade operations for exercises and equipment scoped to a routine.
// ABOUTME: Includes reordering, batch equipment insert with guessed categories, and the checklist.
package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/harperreed/fitlife/internal/live"
	"github.com/harperreed/fitlife/internal/models"
	"github.com/harperreed/fitlife/internal/storage"
)

// normalizeExercise trims text. New exercises get defaults for zero sets and
// reps; updates must carry positive values, like UpdateExerciseDetails.
func normalizeExercise(e *models.Exercise, isNew bool) (*models.Exercise, *Rejection) {
	name, named := cleanName(e.Name)
	if !named {
		return nil, newRejection(ReasonInvalidInput, "exercise name is required")
	}
	if e.Sets < 0 || e.Reps < 0 {
		return nil, newRejection(ReasonInvalidInput, "sets and reps must not be negative")
	}
	if !isNew && (e.Sets == 0 || e.Reps == 0) {
		return nil, newRejection(ReasonInvalidInput, "sets and reps must be positive")
	}
	out := *e
	out.Name = name
	out.Instructions = strings.TrimSpace(e.Instructions)
	if out.Sets == 0 {
		out.Sets = models.DefaultSets
	}
	if out.Reps == 0 {
		out.Reps = models.DefaultReps
	}
	if out.Emoji == "" {
		out.Emoji = models.DefaultEmoji
	}
	return &out, nil
}

// normalizeEquipment trims the name, guesses a category when none is set and
// rejects categories outside the enumeration.
func normalizeEquipment(e models.Equipment) (models.Equipment, *Rejection) {
	name, named := cleanName(e.Name)
	if !named {
		return e, newRejection(ReasonInvalidInput, "equipment name is required")
	}
	e.Name = name
	if e.Category == "" {
		e.Category = models.GuessEquipmentCategory(name)
		return e, nil
	}
	category, known := models.ParseEquipmentCategory(string(e.Category))
	if !known {
		return e, newRejection(ReasonInvalidInput, "unknown equipment category "+string(e.Category))
	}
	e.Category = category
	return e, nil
}

// normalizeExerciseList copies the list so the caller's values are never
// mutated, and orders exercises by slice position.
func normalizeExerciseList(in []models.ExerciseWithEquipment) ([]models.ExerciseWithEquipment, *Rejection) {
	out := make([]models.ExerciseWithEquipment, 0, len(in))
	for i, item := range in {
		ex, rej := normalizeExercise(&item.Exercise, true)
		if rej != nil {
			return nil, rej
		}
		ex.OrderIndex = i
		eq := make([]models.Equipment, 0, len(item.Equipment))
		for _, e := range item.Equipment {
			e, rej := normalizeEquipment(e)
			if rej != nil {
				return nil, rej
			}
			eq = append(eq, e)
		}
		out = append(out, models.ExerciseWithEquipment{Exercise: *ex, Equipment: eq})
	}
	return out, nil
}

// AddExercise appends an exercise to a routine. A zero OrderIndex places it last.
func (wr *WorkoutRepository) AddExercise(ctx context.Context, e *models.Exercise) (Result[*models.Exercise], error) {
	const op = "add exercise"
	ex, rej := normalizeExercise(e, true)
	if rej != nil {
		return fromError[*models.Exercise](wr.logger, op, rej, "")
	}
	ex.ID = 0
	err := wr.db.Update(ctx, func(w *storage.Writer) error {
		if ex.OrderIndex == 0 {
			n, err := w.ExerciseCount(ex.RoutineID)
			if err != nil {
				return err
			}
			ex.OrderIndex = n
		}
		return w.InsertExercise(ex)
	})
	if err != nil {
		return fromError[*models.Exercise](wr.logger, op, err, "")
	}
	return ok(ex)
}

// InsertExercises adds several exercises to a routine in one transaction.
func (wr *WorkoutRepository) InsertExercises(ctx context.Context, routineID int64, exercises []*models.Exercise) (Result[[]models.Exercise], error) {
	const op = "insert exercises"
	batch := make([]*models.Exercise, 0, len(exercises))
	for _, e := range exercises {
		ex, rej := normalizeExercise(e, true)
		if rej != nil {
			return fromError[[]models.Exercise](wr.logger, op, rej, "")
		}
		ex.ID = 0
		ex.RoutineID = routineID
		batch = append(batch, ex)
	}

	err := wr.db.Update(ctx, func(w *storage.Writer) error { return w.InsertExercises(batch) })
	if err != nil {
		return fromError[[]models.Exercise](wr.logger, op, err, "")
	}
	out := make([]models.Exercise, len(batch))
	for i, ex := range batch {
		out[i] = *ex
	}
	return ok(out)
}

// UpdateExercise replaces a stored exercise.
func (wr *WorkoutRepository) UpdateExercise(ctx context.Context, e *models.Exercise) (Result[*models.Exercise], error) {
	const op = "update exercise"
	ex, rej := normalizeExercise(e, false)
	if rej != nil {
		return fromError[*models.Exercise](wr.logger, op, rej, "")
	}
	if err := wr.db.Update(ctx, func(w *storage.Writer) error { return w.UpdateExercise(ex) }); err != nil {
		return fromError[*models.Exercise](wr.logger, op, err, ReasonExerciseNotFound)
	}
	return ok(ex)
}

// UpdateExerciseCompletionStatus marks an exercise done or not done.
func (wr *WorkoutRepository) UpdateExerciseCompletionStatus(ctx context.Context, id int64, completed bool) (Result[struct{}], error) {
	err := wr.db.Update(ctx, func(w *storage.Writer) error { return w.SetExerciseCompleted(id, completed) })
	if err != nil {
		return fromError[struct{}](wr.logger, "update exercise completion", err, ReasonExerciseNotFound)
	}
	return ok(struct{}{})
}

// UpdateExerciseDetails patches sets, reps and instructions.
func (wr *WorkoutRepository) UpdateExerciseDetails(ctx context.Context, id int64, sets, reps int, instructions string) (Result[struct{}], error) {
	const op = "update exercise details"
	if sets <= 0 || reps <= 0 {
		return reject[struct{}](wr.logger, op, ReasonInvalidInput, "sets and reps must be positive")
	}
	err := wr.db.Update(ctx, func(w *storage.Writer) error {
		return w.UpdateExerciseDetails(id, sets, reps, strings.TrimSpace(instructions))
	})
	if err != nil {
		return fromError[struct{}](wr.logger, op, err, ReasonExerciseNotFound)
	}
	return ok(struct{}{})
}

// ReorderExercises sets the display order of a routine's exercises to the
// order of ids, which must name every exercise of the routine exactly once.
func (wr *WorkoutRepository) ReorderExercises(ctx context.Context, routineID int64, ids []int64) (Result[[]models.Exercise], error) {
	const op = "reorder exercises"
	var ordered []models.Exercise
	err := wr.db.Update(ctx, func(w *storage.Writer) error {
		if _, err := w.RoutineByID(routineID); err != nil {
			return err
		}
		current, err := w.ExercisesByRoutine(routineID)
		if err != nil {
			return err
		}
		owned := make(map[int64]bool, len(current))
		for _, ex := range current {
			owned[ex.ID] = true
		}
		if len(ids) != len(current) {
			return newRejection(ReasonInvalidInput, fmt.Sprintf("expected %d exercise ids, got %d", len(current), len(ids)))
		}
		for i, id := range ids {
			if !owned[id] {
				return newRejection(ReasonInvalidInput, fmt.Sprintf("exercise %d is not in routine %d or is repeated", id, routineID))
			}
			delete(owned, id)
			if err := w.SetExerciseOrder(id, i); err != nil {
				return err
			}
		}
		ordered, err = w.ExercisesByRoutine(routineID)
		return err
	})
	if err != nil {
		return fromError[[]models.Exercise](wr.logger, op, err, ReasonRoutineNotFound)
	}
	return ok(ordered)
}

// DeleteExercise removes an exercise and its equipment.
func (wr *WorkoutRepository) DeleteExercise(ctx context.Context, id int64) (Result[struct{}], error) {
	if err := wr.db.Update(ctx, func(w *storage.Writer) error { return w.DeleteExercise(id) }); err != nil {
		return fromError[struct{}](wr.logger, "delete exercise", err, ReasonExerciseNotFound)
	}
	return ok(struct{}{})
}

// DeleteExercisesByRoutine removes every exercise of a routine.
func (wr *WorkoutRepository) DeleteExercisesByRoutine(ctx context.Context, routineID int64) (Result[struct{}], error) {
	err := wr.db.Update(ctx, func(w *storage.Writer) error {
		if _, err := w.RoutineByID(routineID); err != nil {
			return err
		}
		return w.DeleteExercisesByRoutine(routineID)
	})
	if err != nil {
		return fromError[struct{}](wr.logger, "delete exercises", err, ReasonRoutineNotFound)
	}
	return ok(struct{}{})
}

// GetExercise returns an exercise, or nil when there is none.
func (wr *WorkoutRepository) GetExercise(ctx context.Context, id int64) (*models.Exercise, error) {
	return lookup(ctx, wr.db, func(r *storage.Reader) (*models.Exercise, error) { return r.ExerciseByID(id) })
}

// ExercisesByRoutine returns a snapshot of a routine's exercises in order.
func (wr *WorkoutRepository) ExercisesByRoutine(ctx context.Context, routineID int64) ([]models.Exercise, error) {
	return storage.Get(ctx, wr.db, func(r *storage.Reader) ([]models.Exercise, error) {
		return r.ExercisesByRoutine(routineID)
	})
}

// WatchExercises streams a routine's exercises in order.
func (wr *WorkoutRepository) WatchExercises(ctx context.Context, routineID int64) *live.Subscription[[]models.Exercise] {
	return watch(ctx, wr.db, wr.logger, "exercises", func(r *storage.Reader) ([]models.Exercise, error) {
		return r.ExercisesByRoutine(routineID)
	})
}

// WatchExercisesWithEquipment streams a routine's exercises with their equipment.
func (wr *WorkoutRepository) WatchExercisesWithEquipment(ctx context.Context, routineID int64) *live.Subscription[[]models.ExerciseWithEquipment] {
	return watch(ctx, wr.db, wr.logger, "exercises with equipment", func(r *storage.Reader) ([]models.ExerciseWithEquipment, error) {
		return r.ExercisesWithEquipment(routineID)
	})
}

// ExerciseProgress is a routine's exercise completion count.
type ExerciseProgress struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

// WatchExerciseProgress streams the total and completed exercise counts of a routine.
func (wr *WorkoutRepository) WatchExerciseProgress(ctx context.Context, routineID int64) *live.Subscription[ExerciseProgress] {
	return watch(ctx, wr.db, wr.logger, "exercise progress", func(r *storage.Reader) (ExerciseProgress, error) {
		var p ExerciseProgress
		var err error
		if p.Total, err = r.ExerciseCount(routineID); err != nil {
			return p, err
		}
		p.Completed, err = r.CompletedExerciseCount(routineID)
		return p, err
	})
}

// AddEquipment attaches equipment by name to an exercise, guessing each
// category from the name. Blank names are skipped.
func (wr *WorkoutRepository) AddEquipment(ctx context.Context, exerciseID int64, names []string) (Result[[]models.Equipment], error) {
	const op = "add equipment"
	var items []*models.Equipment
	for _, n := range names {
		e, rej := normalizeEquipment(models.Equipment{ExerciseID: exerciseID, Name: n})
		if rej != nil {
			continue
		}
		items = append(items, &e)
	}
	if len(items) == 0 {
		return reject[[]models.Equipment](wr.logger, op, ReasonInvalidInput, "no equipment names given")
	}

	if err := wr.db.Update(ctx, func(w *storage.Writer) error { return w.InsertEquipmentList(items) }); err != nil {
		return fromError[[]models.Equipment](wr.logger, op, err, "")
	}
	out := make([]models.Equipment, len(items))
	for i, e := range items {
		out[i] = *e
	}
	return ok(out)
}

// AddEquipmentItem attaches one item. The category is guessed only when empty.
func (wr *WorkoutRepository) AddEquipmentItem(ctx context.Context, e *models.Equipment) (Result[*models.Equipment], error) {
	const op = "add equipment item"
	item, rej := normalizeEquipment(*e)
	if rej != nil {
		return fromError[*models.Equipment](wr.logger, op, rej, "")
	}
	item.ID = 0
	if err := wr.db.Update(ctx, func(w *storage.Writer) error { return w.InsertEquipment(&item) }); err != nil {
		return fromError[*models.Equipment](wr.logger, op, err, "")
	}
	return ok(&item)
}

// UpdateEquipment replaces stored equipment.
func (wr *WorkoutRepository) UpdateEquipment(ctx context.Context, e *models.Equipment) (Result[*models.Equipment], error) {
	const op = "update equipment"
	item, rej := normalizeEquipment(*e)
	if rej != nil {
		return fromError[*models.Equipment](wr.logger, op, rej, "")
	}
	if err := wr.db.Update(ctx, func(w *storage.Writer) error { return w.UpdateEquipment(&item) }); err != nil {
		return fromError[*models.Equipment](wr.logger, op, err, ReasonEquipmentNotFound)
	}
	return ok(&item)
}

// SetEquipmentChecked persists the checklist tick for one item.
func (wr *WorkoutRepository) SetEquipmentChecked(ctx context.Context, id int64, checked bool) (Result[struct{}], error) {
	err := wr.db.Update(ctx, func(w *storage.Writer) error { return w.SetEquipmentChecked(id, checked) })
	if err != nil {
		return fromError[struct{}](wr.logger, "set equipment checked", err, ReasonEquipmentNotFound)
	}
	return ok(struct{}{})
}

// DeleteEquipment removes one item.
func (wr *WorkoutRepository) DeleteEquipment(ctx context.Context, id int64) (Result[struct{}], error) {
	if err := wr.db.Update(ctx, func(w *storage.Writer) error { return w.DeleteEquipment(id) }); err != nil {
		return fromError[struct{}](wr.logger, "delete equipment", err, ReasonEquipmentNotFound)
	}
	return ok(struct{}{})
}

// WatchEquipment streams the equipment of one exercise.
func (wr *WorkoutRepository) WatchEquipment(ctx context.Context, exerciseID int64) *live.Subscription[[]models.Equipment] {
	return watch(ctx, wr.db, wr.logger, "equipment", func(r *storage.Reader) ([]models.Equipment, error) {
		return r.EquipmentByExercise(exerciseID)
	})
}

// Checklist returns a snapshot of the equipment the user's scheduled routines need.
func (wr *WorkoutRepository) Checklist(ctx context.Context, userID int64) ([]models.Equipment, error) {
	return storage.Get(ctx, wr.db, func(r *storage.Reader) ([]models.Equipment, error) {
		return r.EquipmentForUser(userID)
	})
}

// ChecklistByCategory returns a snapshot of the checklist limited to one category.
func (wr *WorkoutRepository) ChecklistByCategory(ctx context.Context, userID int64, category models.EquipmentCategory) ([]models.Equipment, error) {
	return storage.Get(ctx, wr.db, func(r *storage.Reader) ([]models.Equipment, error) {
		return r.EquipmentForUserByCategory(userID, category)
	})
}

// WatchChecklist streams the user's equipment checklist.
func (wr *WorkoutRepository) WatchChecklist(ctx context.Context, userID int64) *live.Subscription[[]models.Equipment] {
	return watch(ctx, wr.db, wr.logger, "checklist", func(r *storage.Reader) ([]models.Equipment, error) {
		return r.EquipmentForUser(userID)
	})
}

// WatchChecklistByCategory streams the checklist limited to one category.
func (wr *WorkoutRepository) WatchChecklistByCategory(ctx context.Context, userID int64, category models.EquipmentCategory) *live.Subscription[[]models.Equipment] {
	return watch(ctx, wr.db, wr.logger, "checklist by category", func(r *storage.Reader) ([]models.Equipment, error) {
		return r.EquipmentForUserByCategory(userID, category)
	})
}

// ABOUTME: Exercise CRUD, batch insert, and per-routine readers for SQLite storage.
// ABOUTME: Exercises are listed by order_index; deleting one removes its equipment.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/harperreed/fitlife/internal/models"
)

const exerciseColumns = `id, routine_id, name, sets, reps, instructions, image_emoji,
	image_resource_name, image_uri, is_completed, order_index`

func exerciseRefs(e *models.Exercise) map[string]*int64 {
	routineID := e.RoutineID
	return map[string]*int64{"routine_id": &routineID}
}

// InsertExercise stores a new exercise and assigns its ID, overwriting any
// ID already set on e.
func (w *Writer) InsertExercise(e *models.Exercise) error {
	refs := exerciseRefs(e)
	if err := w.checkRefs(tableExercises, refs); err != nil {
		return fmt.Errorf("insert exercise: %w", err)
	}
	if e.Emoji == "" {
		e.Emoji = models.DefaultEmoji
	}
	res, err := w.exec(`
		INSERT INTO exercises (routine_id, name, sets, reps, instructions, image_emoji,
			image_resource_name, image_uri, is_completed, order_index)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.RoutineID, e.Name, e.Sets, e.Reps, e.Instructions, e.Emoji,
		e.PresetImage, e.Image.Encode(), boolInt(e.IsCompleted), e.OrderIndex)
	if err != nil {
		return fmt.Errorf("insert exercise: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert exercise: %w", err)
	}
	e.ID = id
	w.touch(tableExercises, id, refs)
	return nil
}

// InsertExercises stores several exercises in the current transaction.
func (w *Writer) InsertExercises(exercises []*models.Exercise) error {
	for _, e := range exercises {
		if err := w.InsertExercise(e); err != nil {
			return err
		}
	}
	return nil
}

// UpdateExercise replaces every column of an existing exercise.
func (w *Writer) UpdateExercise(e *models.Exercise) error {
	before, err := w.loadRefs(tableExercises, e.ID)
	if err != nil {
		return fmt.Errorf("update exercise: %w", err)
	}
	after := exerciseRefs(e)
	if err := w.checkRefs(tableExercises, after); err != nil {
		return fmt.Errorf("update exercise: %w", err)
	}
	_, err = w.exec(`
		UPDATE exercises SET routine_id = ?, name = ?, sets = ?, reps = ?, instructions = ?,
			image_emoji = ?, image_resource_name = ?, image_uri = ?, is_completed = ?, order_index = ?
		WHERE id = ?
	`, e.RoutineID, e.Name, e.Sets, e.Reps, e.Instructions, e.Emoji,
		e.PresetImage, e.Image.Encode(), boolInt(e.IsCompleted), e.OrderIndex, e.ID)
	if err != nil {
		return fmt.Errorf("update exercise: %w", err)
	}
	w.touchUpdate(tableExercises, e.ID, before, after)
	return nil
}

// SetExerciseCompleted patches the completion flag.
func (w *Writer) SetExerciseCompleted(id int64, completed bool) error {
	return w.patchExercise(id, "set exercise completed",
		"UPDATE exercises SET is_completed = ? WHERE id = ?", boolInt(completed), id)
}

// UpdateExerciseDetails patches sets, reps and instructions.
func (w *Writer) UpdateExerciseDetails(id int64, sets, reps int, instructions string) error {
	return w.patchExercise(id, "update exercise details",
		"UPDATE exercises SET sets = ?, reps = ?, instructions = ? WHERE id = ?", sets, reps, instructions, id)
}

// SetExerciseOrder patches the display order key.
func (w *Writer) SetExerciseOrder(id int64, orderIndex int) error {
	return w.patchExercise(id, "set exercise order",
		"UPDATE exercises SET order_index = ? WHERE id = ?", orderIndex, id)
}

func (w *Writer) patchExercise(id int64, op, q string, args ...any) error {
	refs, err := w.loadRefs(tableExercises, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := w.exec(q, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	w.touch(tableExercises, id, refs)
	return nil
}

// DeleteExercise removes an exercise and its equipment.
func (w *Writer) DeleteExercise(id int64) error {
	if err := w.deleteRow(tableExercises, id); err != nil {
		return fmt.Errorf("delete exercise: %w", err)
	}
	return nil
}

// DeleteExercisesByRoutine removes every exercise of a routine.
func (w *Writer) DeleteExercisesByRoutine(routineID int64) error {
	ids, err := w.childIDs(Relation{Child: tableExercises, Column: "routine_id"}, routineID)
	if err != nil {
		return fmt.Errorf("delete exercises by routine: %w", err)
	}
	for _, id := range ids {
		if err := w.DeleteExercise(id); err != nil {
			return err
		}
	}
	return nil
}

// ReplaceRoutineExercises swaps a routine's exercises and their equipment for
// a new set. The equipment of each exercise is inserted after its exercise.
func (w *Writer) ReplaceRoutineExercises(routineID int64, exercises []models.ExerciseWithEquipment) error {
	if err := w.DeleteExercisesByRoutine(routineID); err != nil {
		return err
	}
	for i := range exercises {
		ex := &exercises[i].Exercise
		ex.ID = 0
		ex.RoutineID = routineID
		if err := w.InsertExercise(ex); err != nil {
			return err
		}
		for j := range exercises[i].Equipment {
			eq := &exercises[i].Equipment[j]
			eq.ID = 0
			eq.ExerciseID = ex.ID
			if err := w.InsertEquipment(eq); err != nil {
				return err
			}
		}
	}
	return nil
}

// ExerciseByID returns an exercise or ErrNotFound.
func (r *Reader) ExerciseByID(id int64) (*models.Exercise, error) {
	r.dependOnRow(tableExercises, id)
	e, err := scanExercise(r.queryRow("SELECT "+exerciseColumns+" FROM exercises WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(tableExercises, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get exercise: %w", err)
	}
	return e, nil
}

// ExercisesByRoutine returns a routine's exercises by order_index.
func (r *Reader) ExercisesByRoutine(routineID int64) ([]models.Exercise, error) {
	r.dependOnRef(tableExercises, "routine_id", routineID)
	rows, err := r.query("SELECT "+exerciseColumns+" FROM exercises WHERE routine_id = ? ORDER BY order_index, id", routineID)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	defer rows.Close()

	exercises := []models.Exercise{}
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		r.dependOnRow(tableExercises, e.ID)
		exercises = append(exercises, *e)
	}
	return exercises, rows.Err()
}

// ExerciseCount counts a routine's exercises.
func (r *Reader) ExerciseCount(routineID int64) (int, error) {
	return r.countExercises(routineID, false)
}

// CompletedExerciseCount counts a routine's completed exercises.
func (r *Reader) CompletedExerciseCount(routineID int64) (int, error) {
	return r.countExercises(routineID, true)
}

func (r *Reader) countExercises(routineID int64, completedOnly bool) (int, error) {
	r.dependOnRef(tableExercises, "routine_id", routineID)
	q := "SELECT COUNT(*) FROM exercises WHERE routine_id = ?"
	if completedOnly {
		q += " AND is_completed = 1"
	}
	var n int
	if err := r.queryRow(q, routineID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count exercises: %w", err)
	}
	return n, nil
}

func scanExercise(s scanner) (*models.Exercise, error) {
	var e models.Exercise
	var preset, image sql.NullString
	var completed int
	err := s.Scan(&e.ID, &e.RoutineID, &e.Name, &e.Sets, &e.Reps, &e.Instructions, &e.Emoji,
		&preset, &image, &completed, &e.OrderIndex)
	if err != nil {
		return nil, err
	}
	e.PresetImage = stringPtr(preset)
	e.Image = models.ParseImageRef(image.String)
	e.IsCompleted = completed != 0
	return &e, nil
}

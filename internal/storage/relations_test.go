// ABOUTME: Tests for delete policies: cascade through owned rows and set-null for locations.
// ABOUTME: Also checks that a failed multi-row write leaves prior rows untouched.
package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/harperreed/fitlife/internal/models"
)

func TestRelationsMatchSchemaPolicy(t *testing.T) {
	db := setupTestDB(t)

	for _, rel := range Relations {
		rows, err := db.db.Query("SELECT \"from\", \"table\", on_delete FROM pragma_foreign_key_list(?)", rel.Child)
		if err != nil {
			t.Fatalf("foreign_key_list(%s): %v", rel.Child, err)
		}
		found := false
		for rows.Next() {
			var from, parent, onDelete string
			if err := rows.Scan(&from, &parent, &onDelete); err != nil {
				t.Fatalf("scan: %v", err)
			}
			if from != rel.Column {
				continue
			}
			found = true
			if parent != rel.Parent {
				t.Errorf("%s.%s references %s, want %s", rel.Child, rel.Column, parent, rel.Parent)
			}
			want := "CASCADE"
			if rel.OnDelete == SetNull {
				want = "SET NULL"
			}
			if onDelete != want {
				t.Errorf("%s.%s on delete = %s, want %s", rel.Child, rel.Column, onDelete, want)
			}
		}
		rows.Close()
		if !found {
			t.Errorf("no SQL foreign key for %s.%s", rel.Child, rel.Column)
		}
	}
}

func TestDeleteUserCascades(t *testing.T) {
	db := setupTestDB(t)
	u := seedUser(t, db, "a@x.com")
	keep := seedUser(t, db, "b@x.com")

	loc := seedLocation(t, db, u.ID, "Gym")
	r := models.NewRoutine(u.ID, "Push").WithDays(1).WithLocation(loc.ID)
	mustUpdate(t, db, func(w *Writer) error { return w.InsertRoutine(r) })
	seedExercise(t, db, r.ID, "Bench press", "Bench", "Barbell")

	other := seedRoutine(t, db, keep.ID, "Theirs", 2)
	seedExercise(t, db, other.ID, "Squat", "Rack")

	mustUpdate(t, db, func(w *Writer) error { return w.DeleteUser(u.ID) })

	if n := countRows(t, db, tableUsers, "id = ?", u.ID); n != 0 {
		t.Errorf("user rows = %d, want 0", n)
	}
	if n := countRows(t, db, tableRoutines, "user_id = ?", u.ID); n != 0 {
		t.Errorf("routines = %d, want 0", n)
	}
	if n := countRows(t, db, tableLocations, "user_id = ?", u.ID); n != 0 {
		t.Errorf("locations = %d, want 0", n)
	}
	if n := countRows(t, db, tableExercises, ""); n != 1 {
		t.Errorf("exercises left = %d, want 1", n)
	}
	if n := countRows(t, db, tableEquipment, ""); n != 1 {
		t.Errorf("equipment left = %d, want 1", n)
	}
}

func TestDeleteRoutineRemovesExercisesAndEquipment(t *testing.T) {
	db := setupTestDB(t)
	u := seedUser(t, db, "a@x.com")
	r := seedRoutine(t, db, u.ID, "Legs", 1)
	ex := seedExercise(t, db, r.ID, "Squat", "Rack", "Belt")

	mustUpdate(t, db, func(w *Writer) error { return w.DeleteRoutine(r.ID) })

	if n := countRows(t, db, tableExercises, "routine_id = ?", r.ID); n != 0 {
		t.Errorf("exercises = %d, want 0", n)
	}
	if n := countRows(t, db, tableEquipment, "exercise_id = ?", ex.ID); n != 0 {
		t.Errorf("equipment = %d, want 0", n)
	}
	if n := countRows(t, db, tableUsers, ""); n != 1 {
		t.Errorf("users = %d, want 1", n)
	}
}

func TestDeleteExerciseRemovesEquipment(t *testing.T) {
	db := setupTestDB(t)
	u := seedUser(t, db, "a@x.com")
	r := seedRoutine(t, db, u.ID, "Legs", 1)
	ex := seedExercise(t, db, r.ID, "Squat", "Rack")
	seedExercise(t, db, r.ID, "Lunge", "Dumbbell")

	mustUpdate(t, db, func(w *Writer) error { return w.DeleteExercise(ex.ID) })

	if n := countRows(t, db, tableEquipment, ""); n != 1 {
		t.Errorf("equipment = %d, want 1", n)
	}
}

func TestDeleteLocationNullsRoutineReference(t *testing.T) {
	db := setupTestDB(t)
	u := seedUser(t, db, "a@x.com")
	loc := seedLocation(t, db, u.ID, "Park")
	r := models.NewRoutine(u.ID, "Run").WithDays(6).WithLocation(loc.ID)
	mustUpdate(t, db, func(w *Writer) error { return w.InsertRoutine(r) })

	mustUpdate(t, db, func(w *Writer) error { return w.DeleteLocation(loc.ID) })

	got := mustGet(t, db, func(rd *Reader) (*models.Routine, error) { return rd.RoutineByID(r.ID) })
	if got.LocationID != nil {
		t.Errorf("LocationID = %d, want nil", *got.LocationID)
	}
	if got.Name != "Run" || !got.ContainsDay(6) {
		t.Errorf("routine changed unexpectedly: %+v", got)
	}
}

func TestDeleteMissingRowIsNotFound(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	deletes := map[string]func(w *Writer) error{
		"user":      func(w *Writer) error { return w.DeleteUser(1) },
		"routine":   func(w *Writer) error { return w.DeleteRoutine(1) },
		"exercise":  func(w *Writer) error { return w.DeleteExercise(1) },
		"equipment": func(w *Writer) error { return w.DeleteEquipment(1) },
		"location":  func(w *Writer) error { return w.DeleteLocation(1) },
	}
	for name, fn := range deletes {
		t.Run(name, func(t *testing.T) {
			if err := db.Update(ctx, fn); !errors.Is(err, ErrNotFound) {
				t.Errorf("error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestReplaceRoutineExercises(t *testing.T) {
	db := setupTestDB(t)
	u := seedUser(t, db, "a@x.com")
	r := seedRoutine(t, db, u.ID, "Full body", 1)
	seedExercise(t, db, r.ID, "Old", "Mat")

	next := []models.ExerciseWithEquipment{
		{
			Exercise:  *models.NewExercise(0, "Deadlift").WithOrder(0),
			Equipment: []models.Equipment{*models.NewEquipment(0, "Barbell", models.CategoryWeights)},
		},
		{Exercise: *models.NewExercise(0, "Plank").WithOrder(1)},
	}
	mustUpdate(t, db, func(w *Writer) error { return w.ReplaceRoutineExercises(r.ID, next) })

	got := mustGet(t, db, func(rd *Reader) ([]models.ExerciseWithEquipment, error) {
		return rd.ExercisesWithEquipment(r.ID)
	})
	if len(got) != 2 || got[0].Exercise.Name != "Deadlift" || got[1].Exercise.Name != "Plank" {
		t.Fatalf("exercises = %+v", got)
	}
	if len(got[0].Equipment) != 1 || got[0].Equipment[0].Name != "Barbell" {
		t.Errorf("equipment = %+v", got[0].Equipment)
	}
	if n := countRows(t, db, tableEquipment, "name = ?", "Mat"); n != 0 {
		t.Errorf("old equipment left behind")
	}
}

func TestReplaceRoutineExercisesFailureKeepsPrior(t *testing.T) {
	db := setupTestDB(t)
	u := seedUser(t, db, "a@x.com")
	r := seedRoutine(t, db, u.ID, "Full body", 1)
	seedExercise(t, db, r.ID, "Kept", "Mat")

	err := db.Update(context.Background(), func(w *Writer) error {
		if err := w.ReplaceRoutineExercises(r.ID, []models.ExerciseWithEquipment{
			{Exercise: *models.NewExercise(0, "New")},
		}); err != nil {
			return err
		}
		// A later failure in the same transaction undoes the replacement.
		return w.InsertExercise(models.NewExercise(9999, "orphan"))
	})
	if !errors.Is(err, ErrConstraintViolation) {
		t.Fatalf("error = %v, want ErrConstraintViolation", err)
	}

	got := mustGet(t, db, func(rd *Reader) ([]models.Exercise, error) { return rd.ExercisesByRoutine(r.ID) })
	if len(got) != 1 || got[0].Name != "Kept" {
		t.Errorf("exercises after failed replace = %+v", got)
	}
	if n := countRows(t, db, tableEquipment, ""); n != 1 {
		t.Errorf("equipment = %d, want 1", n)
	}
}

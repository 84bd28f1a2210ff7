// ABOUTME: Tests for entity CRUD: users, routines, exercises, equipment, locations.
// ABOUTME: Covers foreign-key checks, unique email, not-found updates, and filtered readers.
package storage

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/harperreed/fitlife/internal/models"
)

func TestInsertAndGetUser(t *testing.T) {
	db := setupTestDB(t)

	u := models.NewUser("a@x.com", "hash", "Ann").WithProfilePhoto(models.LocalImage("profile/me.jpg"))
	mustUpdate(t, db, func(w *Writer) error { return w.InsertUser(u) })

	if u.ID == 0 {
		t.Fatal("expected ID to be assigned")
	}
	if u.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be stamped")
	}

	got := mustGet(t, db, func(r *Reader) (*models.User, error) { return r.UserByID(u.ID) })
	if got.Email != u.Email || got.Name != u.Name || got.Credential != "hash" {
		t.Errorf("user mismatch: got %+v", got)
	}
	if got.ProfilePhoto != u.ProfilePhoto {
		t.Errorf("ProfilePhoto = %+v, want %+v", got.ProfilePhoto, u.ProfilePhoto)
	}
	if !got.CreatedAt.Equal(u.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, u.CreatedAt)
	}

	var raw string
	if err := db.db.QueryRow("SELECT profile_photo_uri FROM users WHERE id = ?", u.ID).Scan(&raw); err != nil {
		t.Fatalf("raw select: %v", err)
	}
	if raw != "@filesDir/profile/me.jpg" {
		t.Errorf("stored photo = %q", raw)
	}
}

func TestUserIDsAreMonotonic(t *testing.T) {
	db := setupTestDB(t)
	a := seedUser(t, db, "a@x.com")
	mustUpdate(t, db, func(w *Writer) error { return w.DeleteUser(a.ID) })
	b := seedUser(t, db, "b@x.com")
	if b.ID <= a.ID {
		t.Errorf("ID %d reused or decreased after %d", b.ID, a.ID)
	}
}

func TestInsertAssignsFreshIDs(t *testing.T) {
	db := setupTestDB(t)
	u := seedUser(t, db, "a@x.com")

	first := models.NewRoutine(u.ID, "Leg Day")
	first.ID = 999
	mustUpdate(t, db, func(w *Writer) error { return w.InsertRoutine(first) })
	if first.ID == 999 || first.ID == 0 {
		t.Fatalf("ID = %d, want a store-assigned ID", first.ID)
	}

	second := models.NewRoutine(u.ID, "Push Day")
	second.ID = first.ID
	mustUpdate(t, db, func(w *Writer) error { return w.InsertRoutine(second) })
	if second.ID == first.ID {
		t.Errorf("second insert reused ID %d", first.ID)
	}

	_, err := Get(context.Background(), db, func(r *Reader) (*models.Routine, error) { return r.RoutineByID(999) })
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("RoutineByID(999) err = %v, want ErrNotFound", err)
	}
}

func TestDuplicateEmailIsConstraintViolation(t *testing.T) {
	db := setupTestDB(t)
	seedUser(t, db, "a@x.com")

	err := db.Update(context.Background(), func(w *Writer) error {
		return w.InsertUser(models.NewUser("a@x.com", "hash", "Again"))
	})
	if !errors.Is(err, ErrConstraintViolation) {
		t.Fatalf("error = %v, want ErrConstraintViolation", err)
	}
	var ce *ConstraintError
	if errors.As(err, &ce) && (ce.Table != "users" || ce.Column != "email") {
		t.Errorf("constraint detail = %s.%s, want users.email", ce.Table, ce.Column)
	}

	// Email match is case-sensitive.
	seedUser(t, db, "A@x.com")
	if n := countRows(t, db, tableUsers, ""); n != 2 {
		t.Errorf("users = %d, want 2", n)
	}
}

func TestUserLookups(t *testing.T) {
	db := setupTestDB(t)
	u := seedUser(t, db, "a@x.com")

	got := mustGet(t, db, func(r *Reader) (*models.User, error) { return r.UserByEmail("a@x.com") })
	if got.ID != u.ID {
		t.Errorf("UserByEmail ID = %d, want %d", got.ID, u.ID)
	}
	if exists := mustGet(t, db, func(r *Reader) (bool, error) { return r.EmailExists("nobody@x.com") }); exists {
		t.Error("EmailExists(nobody) = true")
	}

	_, err := Get(context.Background(), db, func(r *Reader) (*models.User, error) { return r.UserByEmail("A@X.COM") })
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("UserByEmail(upper) error = %v, want ErrNotFound", err)
	}
}

func TestUpdateMissingRowsIsNotFound(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	tests := []struct {
		name string
		fn   func(w *Writer) error
	}{
		{"user", func(w *Writer) error { return w.UpdateUser(&models.User{ID: 99, Email: "x"}) }},
		{"routine", func(w *Writer) error { return w.UpdateRoutine(&models.Routine{ID: 99, UserID: 1}) }},
		{"exercise", func(w *Writer) error { return w.UpdateExercise(&models.Exercise{ID: 99, RoutineID: 1}) }},
		{"equipment", func(w *Writer) error { return w.UpdateEquipment(&models.Equipment{ID: 99, ExerciseID: 1}) }},
		{"location", func(w *Writer) error { return w.UpdateLocation(&models.Location{ID: 99, UserID: 1}) }},
		{"delete routine", func(w *Writer) error { return w.DeleteRoutine(99) }},
		{"routine completed", func(w *Writer) error { return w.SetRoutineCompleted(99, true) }},
		{"exercise details", func(w *Writer) error { return w.UpdateExerciseDetails(99, 1, 1, "") }},
		{"equipment checked", func(w *Writer) error { return w.SetEquipmentChecked(99, true) }},
		{"profile photo", func(w *Writer) error { return w.SetProfilePhoto(99, models.ImageRef{}) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := db.Update(ctx, tt.fn); !errors.Is(err, ErrNotFound) {
				t.Errorf("error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestInsertWithMissingParentIsConstraintViolation(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	u := seedUser(t, db, "a@x.com")
	missing := int64(404)

	tests := []struct {
		name   string
		column string
		fn     func(w *Writer) error
	}{
		{"routine user", "user_id", func(w *Writer) error { return w.InsertRoutine(models.NewRoutine(missing, "x")) }},
		{"routine location", "location_id", func(w *Writer) error {
			return w.InsertRoutine(models.NewRoutine(u.ID, "x").WithLocation(missing))
		}},
		{"exercise routine", "routine_id", func(w *Writer) error { return w.InsertExercise(models.NewExercise(missing, "x")) }},
		{"equipment exercise", "exercise_id", func(w *Writer) error {
			return w.InsertEquipment(models.NewEquipment(missing, "x", ""))
		}},
		{"location user", "user_id", func(w *Writer) error { return w.InsertLocation(models.NewLocation(missing, "x", 0, 0)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := db.Update(ctx, tt.fn)
			if !errors.Is(err, ErrConstraintViolation) {
				t.Fatalf("error = %v, want ErrConstraintViolation", err)
			}
			var ce *ConstraintError
			if !errors.As(err, &ce) || ce.Column != tt.column {
				t.Errorf("constraint column = %v, want %s", ce, tt.column)
			}
		})
	}
}

func TestRoutineDaysAreWrittenToBothColumns(t *testing.T) {
	db := setupTestDB(t)
	u := seedUser(t, db, "a@x.com")
	r := seedRoutine(t, db, u.ID, "Full body", 3, 1, 0)

	var legacy int
	var list string
	if err := db.db.QueryRow("SELECT day_of_week, days_of_week FROM workout_routines WHERE id = ?", r.ID).Scan(&legacy, &list); err != nil {
		t.Fatalf("raw select: %v", err)
	}
	if legacy != 0 || list != "0,1,3" {
		t.Errorf("stored days = %d, %q; want 0, \"0,1,3\"", legacy, list)
	}

	got := mustGet(t, db, func(r2 *Reader) (*models.Routine, error) { return r2.RoutineByID(r.ID) })
	if !reflect.DeepEqual(got.DaysList(), []int{0, 1, 3}) {
		t.Errorf("DaysList() = %v, want [0 1 3]", got.DaysList())
	}
	if !got.ContainsDay(1) || got.ContainsDay(2) {
		t.Error("ContainsDay mismatch")
	}

	unscheduled := seedRoutine(t, db, u.ID, "Someday")
	if err := db.db.QueryRow("SELECT day_of_week FROM workout_routines WHERE id = ?", unscheduled.ID).Scan(&legacy); err != nil {
		t.Fatalf("raw select: %v", err)
	}
	if legacy != -1 {
		t.Errorf("unscheduled day_of_week = %d, want -1", legacy)
	}
}

func TestRoutineReaders(t *testing.T) {
	db := setupTestDB(t)
	u := seedUser(t, db, "a@x.com")
	other := seedUser(t, db, "b@x.com")

	mon := seedRoutine(t, db, u.ID, "Monday", 1)
	monWed := seedRoutine(t, db, u.ID, "Mon and Wed", 1, 3)
	none := seedRoutine(t, db, u.ID, "Unscheduled")
	seedRoutine(t, db, other.ID, "Not mine", 1)

	mustUpdate(t, db, func(w *Writer) error { return w.SetRoutineCompleted(mon.ID, true) })

	names := func(rs []models.Routine) []string {
		out := []string{}
		for _, r := range rs {
			out = append(out, r.Name)
		}
		return out
	}

	all := mustGet(t, db, func(r *Reader) ([]models.Routine, error) { return r.RoutinesByUser(u.ID) })
	// day_of_week ascending, then newest first
	if want := []string{none.Name, monWed.Name, mon.Name}; !reflect.DeepEqual(names(all), want) {
		t.Errorf("RoutinesByUser order = %v, want %v", names(all), want)
	}

	wed := mustGet(t, db, func(r *Reader) ([]models.Routine, error) { return r.RoutinesByDay(u.ID, 3) })
	if want := []string{monWed.Name}; !reflect.DeepEqual(names(wed), want) {
		t.Errorf("RoutinesByDay(3) = %v, want %v", names(wed), want)
	}

	scheduled := mustGet(t, db, func(r *Reader) ([]models.Routine, error) { return r.ScheduledRoutines(u.ID) })
	if len(scheduled) != 2 {
		t.Errorf("ScheduledRoutines = %v", names(scheduled))
	}

	pending := mustGet(t, db, func(r *Reader) ([]models.Routine, error) { return r.PendingRoutines(u.ID) })
	if want := []string{monWed.Name}; !reflect.DeepEqual(names(pending), want) {
		t.Errorf("PendingRoutines = %v, want %v", names(pending), want)
	}

	if n := mustGet(t, db, func(r *Reader) (int, error) { return r.CompletedRoutineCount(u.ID) }); n != 1 {
		t.Errorf("CompletedRoutineCount = %d, want 1", n)
	}
	if n := mustGet(t, db, func(r *Reader) (int, error) { return r.ScheduledRoutineCount(u.ID) }); n != 2 {
		t.Errorf("ScheduledRoutineCount = %d, want 2", n)
	}
}

func TestRoutineLocationPatch(t *testing.T) {
	db := setupTestDB(t)
	u := seedUser(t, db, "a@x.com")
	loc := seedLocation(t, db, u.ID, "Iron Gym")
	r := seedRoutine(t, db, u.ID, "Push", 2)

	mustUpdate(t, db, func(w *Writer) error { return w.SetRoutineLocation(r.ID, &loc.ID) })
	at := mustGet(t, db, func(rd *Reader) ([]models.Routine, error) { return rd.RoutinesByLocation(loc.ID) })
	if len(at) != 1 || at[0].ID != r.ID {
		t.Fatalf("RoutinesByLocation = %+v", at)
	}

	mustUpdate(t, db, func(w *Writer) error { return w.SetRoutineLocation(r.ID, nil) })
	got := mustGet(t, db, func(rd *Reader) (*models.Routine, error) { return rd.RoutineByID(r.ID) })
	if got.LocationID != nil {
		t.Errorf("LocationID = %v, want nil", *got.LocationID)
	}
	if !got.UpdatedAt.After(r.UpdatedAt) {
		t.Errorf("UpdatedAt not bumped: %v <= %v", got.UpdatedAt, r.UpdatedAt)
	}
}

func TestExerciseReadersAndPatches(t *testing.T) {
	db := setupTestDB(t)
	u := seedUser(t, db, "a@x.com")
	r := seedRoutine(t, db, u.ID, "Legs", 1)

	mustUpdate(t, db, func(w *Writer) error {
		return w.InsertExercises([]*models.Exercise{
			models.NewExercise(r.ID, "Lunge").WithOrder(5),
			models.NewExercise(r.ID, "Squat").WithOrder(1).WithPresetImage("squat"),
			models.NewExercise(r.ID, "Calf raise").WithOrder(5).WithImage(models.RemoteImage("https://x/c.png")),
		})
	})

	exercises := mustGet(t, db, func(rd *Reader) ([]models.Exercise, error) { return rd.ExercisesByRoutine(r.ID) })
	if len(exercises) != 3 {
		t.Fatalf("got %d exercises, want 3", len(exercises))
	}
	if exercises[0].Name != "Squat" || exercises[1].Name != "Lunge" || exercises[2].Name != "Calf raise" {
		t.Errorf("order = %s, %s, %s", exercises[0].Name, exercises[1].Name, exercises[2].Name)
	}
	if exercises[0].PresetImage == nil || *exercises[0].PresetImage != "squat" {
		t.Errorf("PresetImage = %v", exercises[0].PresetImage)
	}
	if exercises[2].Image.Kind != models.ImageRemote {
		t.Errorf("Image kind = %s, want remote", exercises[2].Image.Kind)
	}

	squat := exercises[0]
	mustUpdate(t, db, func(w *Writer) error {
		if err := w.UpdateExerciseDetails(squat.ID, 5, 5, "deep"); err != nil {
			return err
		}
		return w.SetExerciseCompleted(squat.ID, true)
	})
	got := mustGet(t, db, func(rd *Reader) (*models.Exercise, error) { return rd.ExerciseByID(squat.ID) })
	if got.Sets != 5 || got.Reps != 5 || got.Instructions != "deep" || !got.IsCompleted {
		t.Errorf("patched exercise = %+v", got)
	}

	if n := mustGet(t, db, func(rd *Reader) (int, error) { return rd.CompletedExerciseCount(r.ID) }); n != 1 {
		t.Errorf("CompletedExerciseCount = %d, want 1", n)
	}
	if n := mustGet(t, db, func(rd *Reader) (int, error) { return rd.ExerciseCount(r.ID) }); n != 3 {
		t.Errorf("ExerciseCount = %d, want 3", n)
	}
}

func TestEquipmentForUserChecklist(t *testing.T) {
	db := setupTestDB(t)
	u := seedUser(t, db, "a@x.com")

	scheduled := seedRoutine(t, db, u.ID, "Mon", 1)
	unscheduled := seedRoutine(t, db, u.ID, "Later")
	seedExercise(t, db, scheduled.ID, "Curl", "Dumbbell", "Gloves")
	seedExercise(t, db, scheduled.ID, "Plank", "Yoga Mat")
	seedExercise(t, db, unscheduled.ID, "Row", "Rowing machine")

	items := mustGet(t, db, func(r *Reader) ([]models.Equipment, error) { return r.EquipmentForUser(u.ID) })
	var got []string
	for _, e := range items {
		got = append(got, string(e.Category)+":"+e.Name)
	}
	want := []string{"ACCESSORIES:Gloves", "MATS:Yoga Mat", "WEIGHTS:Dumbbell"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("EquipmentForUser = %v, want %v", got, want)
	}

	mats := mustGet(t, db, func(r *Reader) ([]models.Equipment, error) {
		return r.EquipmentForUserByCategory(u.ID, models.CategoryMats)
	})
	if len(mats) != 1 || mats[0].Name != "Yoga Mat" {
		t.Errorf("EquipmentForUserByCategory(MATS) = %+v", mats)
	}

	mustUpdate(t, db, func(w *Writer) error { return w.SetEquipmentChecked(mats[0].ID, true) })
	got2 := mustGet(t, db, func(r *Reader) (*models.Equipment, error) { return r.EquipmentByID(mats[0].ID) })
	if !got2.IsChecked {
		t.Error("expected equipment to be checked")
	}
}

func TestLocationReaders(t *testing.T) {
	db := setupTestDB(t)
	u := seedUser(t, db, "a@x.com")

	mustUpdate(t, db, func(w *Writer) error {
		for _, l := range []*models.Location{
			models.NewLocation(u.ID, "Zen Yoga", 1, 1).WithType(models.LocationYogaStudio),
			models.NewLocation(u.ID, "Anytime Gym", 2, 2),
			models.NewLocation(u.ID, "Backyard", 3, 3).WithType(models.LocationHome).WithAddress("home"),
		} {
			if err := w.InsertLocation(l); err != nil {
				return err
			}
		}
		return nil
	})

	byName := mustGet(t, db, func(r *Reader) ([]models.Location, error) { return r.LocationsByUser(u.ID) })
	if len(byName) != 3 || byName[0].Name != "Anytime Gym" || byName[2].Name != "Zen Yoga" {
		t.Errorf("LocationsByUser order wrong: %+v", byName)
	}

	yoga := mustGet(t, db, func(r *Reader) ([]models.Location, error) {
		return r.LocationsByType(u.ID, models.LocationYogaStudio)
	})
	if len(yoga) != 1 || yoga[0].Name != "Zen Yoga" {
		t.Errorf("LocationsByType = %+v", yoga)
	}

	all := mustGet(t, db, func(r *Reader) ([]models.Location, error) { return r.AllLocationsForUser(u.ID) })
	if len(all) != 3 || all[0].Name != "Zen Yoga" {
		t.Errorf("AllLocationsForUser = %+v", all)
	}
}

func TestFailedUpdateWritesNothing(t *testing.T) {
	db := setupTestDB(t)
	u := seedUser(t, db, "a@x.com")

	err := db.Update(context.Background(), func(w *Writer) error {
		if err := w.InsertRoutine(models.NewRoutine(u.ID, "half written")); err != nil {
			return err
		}
		return w.InsertRoutine(models.NewRoutine(u.ID, "bad").WithLocation(777))
	})
	if !errors.Is(err, ErrConstraintViolation) {
		t.Fatalf("error = %v, want ErrConstraintViolation", err)
	}
	if n := countRows(t, db, tableRoutines, ""); n != 0 {
		t.Errorf("routines after rollback = %d, want 0", n)
	}
}

// ABOUTME: Tests for exercise and equipment operations on the workout facade.
// ABOUTME: Covers reordering, batch equipment with guessed categories, and the live checklist.
package repository

import (
	"context"
	"testing"

	"github.com/harperreed/fitlife/internal/models"
)

func newRoutine(t *testing.T, repos *Repositories, userID int64, days ...int) *models.Routine {
	t.Helper()
	res, err := repos.Workouts.CreateRoutine(context.Background(), models.NewRoutine(userID, "Routine").WithDays(days...))
	return mustOK(t, res, err)
}

func TestAddExerciseAppends(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()
	user := registerUser(t, repos, "a@x.com")
	routine := newRoutine(t, repos, user.ID, 1)

	for _, name := range []string{"Squat", "Lunge", "Bridge"} {
		res, err := repos.Workouts.AddExercise(ctx, &models.Exercise{RoutineID: routine.ID, Name: name})
		ex := mustOK(t, res, err)
		if ex.Sets != models.DefaultSets || ex.Reps != models.DefaultReps || ex.Emoji != models.DefaultEmoji {
			t.Errorf("defaults not applied: %+v", ex)
		}
	}

	list, err := repos.Workouts.ExercisesByRoutine(ctx, routine.ID)
	if err != nil {
		t.Fatalf("ExercisesByRoutine: %v", err)
	}
	var names []string
	for _, ex := range list {
		names = append(names, ex.Name)
	}
	if len(names) != 3 || names[0] != "Squat" || names[2] != "Bridge" {
		t.Errorf("order = %v", names)
	}

	res, err := repos.Workouts.AddExercise(ctx, models.NewExercise(999, "Orphan"))
	wantRejection(t, res, err, ReasonRoutineNotFound)
}

func TestInsertExercisesBatch(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()
	user := registerUser(t, repos, "a@x.com")
	routine := newRoutine(t, repos, user.ID)

	res, err := repos.Workouts.InsertExercises(ctx, routine.ID, []*models.Exercise{
		models.NewExercise(0, "A").WithOrder(0),
		models.NewExercise(0, "B").WithOrder(1),
	})
	inserted := mustOK(t, res, err)
	if len(inserted) != 2 || inserted[0].RoutineID != routine.ID || inserted[1].ID == 0 {
		t.Errorf("inserted = %+v", inserted)
	}

	res, err = repos.Workouts.InsertExercises(ctx, routine.ID, []*models.Exercise{
		models.NewExercise(0, "C"),
		models.NewExercise(0, ""),
	})
	wantRejection(t, res, err, ReasonInvalidInput)
	if list, _ := repos.Workouts.ExercisesByRoutine(ctx, routine.ID); len(list) != 2 {
		t.Errorf("exercises after rejected batch = %d, want 2", len(list))
	}
}

func TestReorderExercises(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()
	user := registerUser(t, repos, "a@x.com")
	routine := newRoutine(t, repos, user.ID, 1)

	var ids []int64
	for _, name := range []string{"A", "B", "C"} {
		res, err := repos.Workouts.AddExercise(ctx, &models.Exercise{RoutineID: routine.ID, Name: name})
		ids = append(ids, mustOK(t, res, err).ID)
	}

	res, err := repos.Workouts.ReorderExercises(ctx, routine.ID, []int64{ids[2], ids[0], ids[1]})
	ordered := mustOK(t, res, err)
	if ordered[0].Name != "C" || ordered[1].Name != "A" || ordered[2].Name != "B" {
		t.Errorf("reordered = %s %s %s", ordered[0].Name, ordered[1].Name, ordered[2].Name)
	}

	tests := []struct {
		name string
		ids  []int64
	}{
		{"missing one", []int64{ids[0], ids[1]}},
		{"repeated", []int64{ids[0], ids[0], ids[1]}},
		{"foreign id", []int64{ids[0], ids[1], 9999}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := repos.Workouts.ReorderExercises(ctx, routine.ID, tt.ids)
			wantRejection(t, res, err, ReasonInvalidInput)
		})
	}

	// A rejected reorder leaves the previous order.
	list, _ := repos.Workouts.ExercisesByRoutine(ctx, routine.ID)
	if list[0].Name != "C" {
		t.Errorf("order changed by rejected reorder: %s first", list[0].Name)
	}

	res, err = repos.Workouts.ReorderExercises(ctx, 404, nil)
	wantRejection(t, res, err, ReasonRoutineNotFound)
}

func TestExercisePatchers(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()
	user := registerUser(t, repos, "a@x.com")
	routine := newRoutine(t, repos, user.ID, 1)
	res, err := repos.Workouts.AddExercise(ctx, models.NewExercise(routine.ID, "Curl"))
	ex := mustOK(t, res, err)

	progress := repos.Workouts.WatchExerciseProgress(ctx, routine.ID)
	defer progress.Cancel()
	if p := receive(t, progress); p != (ExerciseProgress{Total: 1}) {
		t.Fatalf("initial progress = %+v", p)
	}

	done, err := repos.Workouts.UpdateExerciseCompletionStatus(ctx, ex.ID, true)
	mustOK(t, done, err)
	if p := receive(t, progress); p != (ExerciseProgress{Total: 1, Completed: 1}) {
		t.Errorf("progress = %+v", p)
	}

	details, err := repos.Workouts.UpdateExerciseDetails(ctx, ex.ID, 4, 8, "  slow  ")
	mustOK(t, details, err)
	// Counts are unchanged but the routine's exercises were written.
	if p := receive(t, progress); p != (ExerciseProgress{Total: 1, Completed: 1}) {
		t.Errorf("progress after details = %+v", p)
	}
	got, _ := repos.Workouts.GetExercise(ctx, ex.ID)
	if got.Sets != 4 || got.Reps != 8 || got.Instructions != "slow" {
		t.Errorf("details = %+v", got)
	}

	details, err = repos.Workouts.UpdateExerciseDetails(ctx, ex.ID, 0, 8, "")
	wantRejection(t, details, err, ReasonInvalidInput)
	details, err = repos.Workouts.UpdateExerciseDetails(ctx, 404, 1, 1, "")
	wantRejection(t, details, err, ReasonExerciseNotFound)

	gone, err := repos.Workouts.DeleteExercisesByRoutine(ctx, routine.ID)
	mustOK(t, gone, err)
	if p := receive(t, progress); p != (ExerciseProgress{}) {
		t.Errorf("progress after delete = %+v", p)
	}
}

func TestAddEquipmentGuessesCategories(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()
	user := registerUser(t, repos, "a@x.com")
	routine := newRoutine(t, repos, user.ID, 4)
	res, err := repos.Workouts.AddExercise(ctx, models.NewExercise(routine.ID, "Stretch"))
	ex := mustOK(t, res, err)

	eqRes, err := repos.Workouts.AddEquipment(ctx, ex.ID, []string{"Yoga Mat", " ", "Resistance Band", "Water bottle"})
	items := mustOK(t, eqRes, err)
	if len(items) != 3 {
		t.Fatalf("items = %+v", items)
	}
	want := []models.EquipmentCategory{models.CategoryMats, models.CategoryResistance, models.CategoryOther}
	for i, e := range items {
		if e.Category != want[i] {
			t.Errorf("%s category = %s, want %s", e.Name, e.Category, want[i])
		}
	}

	eqRes, err = repos.Workouts.AddEquipment(ctx, ex.ID, []string{""})
	wantRejection(t, eqRes, err, ReasonInvalidInput)
	eqRes, err = repos.Workouts.AddEquipment(ctx, 404, []string{"Mat"})
	wantRejection(t, eqRes, err, ReasonExerciseNotFound)

	itemRes, err := repos.Workouts.AddEquipmentItem(ctx, &models.Equipment{ExerciseID: ex.ID, Name: "Dumbbell", Category: models.CategoryOther})
	item := mustOK(t, itemRes, err)
	if item.Category != models.CategoryOther {
		t.Errorf("explicit category overridden: %s", item.Category)
	}
}

func TestWatchChecklist(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()
	user := registerUser(t, repos, "a@x.com")
	routine := newRoutine(t, repos, user.ID, 3)
	res, err := repos.Workouts.AddExercise(ctx, models.NewExercise(routine.ID, "Row"))
	ex := mustOK(t, res, err)

	sub := repos.Workouts.WatchChecklist(ctx, user.ID)
	defer sub.Cancel()
	weights := repos.Workouts.WatchChecklistByCategory(ctx, user.ID, models.CategoryWeights)
	defer weights.Cancel()

	if got := receive(t, sub); len(got) != 0 {
		t.Fatalf("initial checklist = %+v", got)
	}
	receive(t, weights)

	eqRes, err := repos.Workouts.AddEquipment(ctx, ex.ID, []string{"Kettlebell", "Gloves"})
	items := mustOK(t, eqRes, err)

	if got := receive(t, sub); len(got) != 2 || got[0].Name != "Gloves" {
		t.Errorf("checklist = %+v", got)
	}
	if got := receive(t, weights); len(got) != 1 || got[0].Name != "Kettlebell" {
		t.Errorf("weights = %+v", got)
	}

	del, err := repos.Workouts.DeleteEquipment(ctx, items[0].ID)
	mustOK(t, del, err)
	if got := receive(t, sub); len(got) != 1 {
		t.Errorf("checklist after delete = %+v", got)
	}

	unsched, err := repos.Workouts.UpdateRoutineSchedule(ctx, routine.ID, 0)
	mustOK(t, unsched, err)
	if got := receive(t, sub); len(got) != 0 {
		t.Errorf("checklist after unscheduling = %+v", got)
	}
}

func TestEquipmentCategoryMustBeKnown(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()
	user := registerUser(t, repos, "a@x.com")
	routine := newRoutine(t, repos, user.ID, 2)
	res, err := repos.Workouts.AddExercise(ctx, models.NewExercise(routine.ID, "Curl"))
	ex := mustOK(t, res, err)

	bogus, err := repos.Workouts.AddEquipmentItem(ctx, &models.Equipment{ExerciseID: ex.ID, Name: "Thing", Category: "BOGUS"})
	wantRejection(t, bogus, err, ReasonInvalidInput)

	lower, err := repos.Workouts.AddEquipmentItem(ctx, &models.Equipment{ExerciseID: ex.ID, Name: "Towel", Category: "accessories"})
	item := mustOK(t, lower, err)
	if item.Category != models.CategoryAccessories {
		t.Errorf("category = %q, want %q", item.Category, models.CategoryAccessories)
	}

	changed := *item
	changed.Category = "NOT_A_CATEGORY"
	upd, err := repos.Workouts.UpdateEquipment(ctx, &changed)
	wantRejection(t, upd, err, ReasonInvalidInput)

	items, err := repos.Workouts.Checklist(ctx, user.ID)
	if err != nil {
		t.Fatalf("Checklist: %v", err)
	}
	if len(items) != 1 || items[0].Category != models.CategoryAccessories {
		t.Errorf("checklist = %+v", items)
	}
}

func TestUpdateExerciseRequiresPositiveSetsAndReps(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()
	user := registerUser(t, repos, "a@x.com")
	routine := newRoutine(t, repos, user.ID)
	res, err := repos.Workouts.AddExercise(ctx, models.NewExercise(routine.ID, "Press").WithSetsReps(4, 8))
	ex := mustOK(t, res, err)

	for _, tc := range []struct{ sets, reps int }{{0, 8}, {4, 0}, {-1, 8}} {
		changed := *ex
		changed.Sets, changed.Reps = tc.sets, tc.reps
		upd, err := repos.Workouts.UpdateExercise(ctx, &changed)
		wantRejection(t, upd, err, ReasonInvalidInput)

		details, err := repos.Workouts.UpdateExerciseDetails(ctx, ex.ID, tc.sets, tc.reps, "")
		wantRejection(t, details, err, ReasonInvalidInput)
	}

	stored, err := repos.Workouts.GetExercise(ctx, ex.ID)
	if err != nil || stored == nil {
		t.Fatalf("GetExercise: %v", err)
	}
	if stored.Sets != 4 || stored.Reps != 8 {
		t.Errorf("stored = %dx%d, want 4x8", stored.Sets, stored.Reps)
	}
}

func TestChecklistByCategory(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()
	user := registerUser(t, repos, "a@x.com")
	routine := newRoutine(t, repos, user.ID, 5)
	res, err := repos.Workouts.AddExercise(ctx, models.NewExercise(routine.ID, "Swing"))
	ex := mustOK(t, res, err)
	eqRes, err := repos.Workouts.AddEquipment(ctx, ex.ID, []string{"Kettlebell", "Gloves", "Dumbbell"})
	mustOK(t, eqRes, err)

	weights, err := repos.Workouts.ChecklistByCategory(ctx, user.ID, models.CategoryWeights)
	if err != nil {
		t.Fatalf("ChecklistByCategory: %v", err)
	}
	if len(weights) != 2 || weights[0].Name != "Dumbbell" || weights[1].Name != "Kettlebell" {
		t.Errorf("weights = %+v", weights)
	}

	cardio, err := repos.Workouts.ChecklistByCategory(ctx, user.ID, models.CategoryCardio)
	if err != nil {
		t.Fatalf("ChecklistByCategory: %v", err)
	}
	if len(cardio) != 0 {
		t.Errorf("cardio = %+v", cardio)
	}
}

// ABOUTME: Tests for routine operations on the workout facade.
// ABOUTME: Covers validation, save-with-exercises atomicity, patchers, and live routine queries.
package repository

import (
	"context"
	"reflect"
	"testing"

	"github.com/harperreed/fitlife/internal/models"
)

func TestCreateRoutine(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()
	user := registerUser(t, repos, "a@x.com")

	res, err := repos.Workouts.CreateRoutine(ctx, models.NewRoutine(user.ID, "  Push day ").WithDays(3, 1, 1))
	routine := mustOK(t, res, err)
	if routine.ID == 0 || routine.Name != "Push day" {
		t.Errorf("routine = %+v", routine)
	}
	if !reflect.DeepEqual(routine.DaysList(), []int{1, 3}) {
		t.Errorf("days = %v", routine.DaysList())
	}

	res, err = repos.Workouts.CreateRoutine(ctx, models.NewRoutine(user.ID, "   "))
	wantRejection(t, res, err, ReasonInvalidInput)

	res, err = repos.Workouts.CreateRoutine(ctx, models.NewRoutine(999, "Orphan"))
	wantRejection(t, res, err, ReasonUserNotFound)

	res, err = repos.Workouts.CreateRoutine(ctx, models.NewRoutine(user.ID, "Nowhere").WithLocation(999))
	wantRejection(t, res, err, ReasonLocationNotFound)
}

func TestCreateRoutineDropsOutOfRangeDays(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()
	user := registerUser(t, repos, "a@x.com")

	r := models.NewRoutine(user.ID, "Odd")
	r.Days = models.Weekdays(0xff)
	res, err := repos.Workouts.CreateRoutine(ctx, r)
	routine := mustOK(t, res, err)
	if routine.Days.String() != "0,1,2,3,4,5,6" {
		t.Errorf("days = %q", routine.Days.String())
	}
}

func TestUpdateRoutineNotFound(t *testing.T) {
	repos, _ := setupRepos(t)
	user := registerUser(t, repos, "a@x.com")
	r := models.NewRoutine(user.ID, "Ghost")
	r.ID = 404
	res, err := repos.Workouts.UpdateRoutine(context.Background(), r)
	wantRejection(t, res, err, ReasonRoutineNotFound)
}

func saveSample(t *testing.T, repos *Repositories, userID int64) *models.RoutineWithExercisesAndEquipment {
	t.Helper()
	res, err := repos.Workouts.SaveRoutine(context.Background(),
		models.NewRoutine(userID, "Full body").WithDays(1, 5),
		[]models.ExerciseWithEquipment{
			{
				Exercise: *models.NewExercise(0, "Squat"),
				Equipment: []models.Equipment{
					{Name: "Barbell"},
					{Name: "Squat rack"},
				},
			},
			{
				Exercise:  *models.NewExercise(0, "Plank").WithSetsReps(3, 1),
				Equipment: []models.Equipment{{Name: "Yoga mat", Category: models.CategoryAccessories}},
			},
		})
	return mustOK(t, res, err)
}

func TestSaveRoutineInsertsAggregate(t *testing.T) {
	repos, _ := setupRepos(t)
	user := registerUser(t, repos, "a@x.com")

	saved := saveSample(t, repos, user.ID)
	if saved.Routine.ID == 0 || len(saved.Exercises) != 2 {
		t.Fatalf("saved = %+v", saved)
	}
	if saved.Exercises[0].Exercise.Name != "Squat" || saved.Exercises[0].Exercise.OrderIndex != 0 ||
		saved.Exercises[1].Exercise.OrderIndex != 1 {
		t.Errorf("exercise order = %+v", saved.Exercises)
	}

	cats := map[string]models.EquipmentCategory{}
	for _, e := range saved.AllEquipment() {
		cats[e.Name] = e.Category
	}
	want := map[string]models.EquipmentCategory{
		"Barbell":    models.CategoryWeights,
		"Squat rack": models.CategoryStrength,
		// An explicit category is kept even when the name suggests another.
		"Yoga mat": models.CategoryAccessories,
	}
	if !reflect.DeepEqual(cats, want) {
		t.Errorf("categories = %v, want %v", cats, want)
	}
}

func TestSaveRoutineReplacesExercises(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()
	user := registerUser(t, repos, "a@x.com")
	saved := saveSample(t, repos, user.ID)

	routine := saved.Routine
	routine.Name = "Lower body"
	res, err := repos.Workouts.SaveRoutine(ctx, &routine, []models.ExerciseWithEquipment{
		{Exercise: *models.NewExercise(0, "Lunge"), Equipment: []models.Equipment{{Name: "Dumbbell"}}},
	})
	next := mustOK(t, res, err)
	if next.Routine.ID != saved.Routine.ID || next.Routine.Name != "Lower body" {
		t.Errorf("routine = %+v", next.Routine)
	}
	if len(next.Exercises) != 1 || next.Exercises[0].Exercise.Name != "Lunge" {
		t.Errorf("exercises = %+v", next.Exercises)
	}

	checklist, err := repos.Workouts.Checklist(ctx, user.ID)
	if err != nil {
		t.Fatalf("Checklist: %v", err)
	}
	if len(checklist) != 1 || checklist[0].Name != "Dumbbell" {
		t.Errorf("checklist = %+v", checklist)
	}
}

func TestSaveRoutineFailureKeepsPriorExercises(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()
	user := registerUser(t, repos, "a@x.com")
	saved := saveSample(t, repos, user.ID)

	routine := saved.Routine
	routine.LocationID = new(int64)
	*routine.LocationID = 777
	res, err := repos.Workouts.SaveRoutine(ctx, &routine, []models.ExerciseWithEquipment{
		{Exercise: *models.NewExercise(0, "Replacement")},
	})
	wantRejection(t, res, err, ReasonLocationNotFound)

	agg, err := repos.Workouts.RoutineWithExercisesAndEquipment(ctx, saved.Routine.ID)
	if err != nil || agg == nil {
		t.Fatalf("aggregate = %+v, %v", agg, err)
	}
	if len(agg.Exercises) != 2 || agg.Exercises[0].Exercise.Name != "Squat" {
		t.Errorf("exercises after failed save = %+v", agg.Exercises)
	}
	if agg.Routine.LocationID != nil {
		t.Errorf("location was written: %v", *agg.Routine.LocationID)
	}
}

func TestSaveRoutineRejectsBlankExercise(t *testing.T) {
	repos, _ := setupRepos(t)
	user := registerUser(t, repos, "a@x.com")
	res, err := repos.Workouts.SaveRoutine(context.Background(), models.NewRoutine(user.ID, "R"),
		[]models.ExerciseWithEquipment{{Exercise: models.Exercise{Name: " "}}})
	wantRejection(t, res, err, ReasonInvalidInput)
}

func TestRoutinePatchers(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()
	user := registerUser(t, repos, "a@x.com")
	saved := saveSample(t, repos, user.ID)
	id := saved.Routine.ID

	done, err := repos.Workouts.UpdateRoutineCompletionStatus(ctx, id, true)
	mustOK(t, done, err)

	locRes, err := repos.Locations.AddLocation(ctx, models.NewLocation(user.ID, "Gym", 1, 2))
	loc := mustOK(t, locRes, err)
	moved, err := repos.Workouts.UpdateRoutineLocation(ctx, id, &loc.ID)
	mustOK(t, moved, err)

	sched, err := repos.Workouts.UpdateRoutineSchedule(ctx, id, models.NewWeekdays(0, 6))
	mustOK(t, sched, err)

	got, err := repos.Workouts.RoutineWithLocation(ctx, id)
	if err != nil || got == nil {
		t.Fatalf("RoutineWithLocation = %+v, %v", got, err)
	}
	if !got.Routine.IsCompleted || got.Location == nil || got.Location.Name != "Gym" {
		t.Errorf("patched routine = %+v", got)
	}
	if got.Routine.Days.String() != "0,6" {
		t.Errorf("days = %q", got.Routine.Days.String())
	}

	missing, err := repos.Workouts.UpdateRoutineCompletionStatus(ctx, 404, true)
	wantRejection(t, missing, err, ReasonRoutineNotFound)
	bad := int64(555)
	missing, err = repos.Workouts.UpdateRoutineLocation(ctx, id, &bad)
	wantRejection(t, missing, err, ReasonLocationNotFound)
}

func TestDeleteRoutine(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()
	user := registerUser(t, repos, "a@x.com")
	saved := saveSample(t, repos, user.ID)

	res, err := repos.Workouts.DeleteRoutine(ctx, saved.Routine.ID)
	mustOK(t, res, err)

	if r, err := repos.Workouts.GetRoutine(ctx, saved.Routine.ID); err != nil || r != nil {
		t.Errorf("GetRoutine after delete = %+v, %v", r, err)
	}
	if ex, err := repos.Workouts.GetExercise(ctx, saved.Exercises[0].Exercise.ID); err != nil || ex != nil {
		t.Errorf("exercise survived delete: %+v, %v", ex, err)
	}

	res, err = repos.Workouts.DeleteRoutine(ctx, saved.Routine.ID)
	wantRejection(t, res, err, ReasonRoutineNotFound)
}

func TestWatchRoutinesFilters(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()
	user := registerUser(t, repos, "a@x.com")

	byDay := repos.Workouts.WatchRoutinesByDay(ctx, user.ID, 2)
	defer byDay.Cancel()
	pending := repos.Workouts.WatchPendingRoutines(ctx, user.ID)
	defer pending.Cancel()
	stats := repos.Workouts.WatchStats(ctx, user.ID)
	defer stats.Cancel()

	if got := receive(t, byDay); len(got) != 0 {
		t.Fatalf("initial by day = %+v", got)
	}
	receive(t, pending)
	if s := receive(t, stats); s != (RoutineStats{}) {
		t.Fatalf("initial stats = %+v", s)
	}

	res, err := repos.Workouts.CreateRoutine(ctx, models.NewRoutine(user.ID, "Tuesday").WithDays(2))
	routine := mustOK(t, res, err)

	if got := receive(t, byDay); len(got) != 1 || got[0].ID != routine.ID {
		t.Errorf("by day = %+v", got)
	}
	if got := receive(t, pending); len(got) != 1 {
		t.Errorf("pending = %+v", got)
	}
	if s := receive(t, stats); s.Scheduled != 1 || s.Completed != 0 {
		t.Errorf("stats = %+v", s)
	}

	done, err := repos.Workouts.UpdateRoutineCompletionStatus(ctx, routine.ID, true)
	mustOK(t, done, err)
	if got := receive(t, pending); len(got) != 0 {
		t.Errorf("pending after completion = %+v", got)
	}
	if s := receive(t, stats); s.Completed != 1 {
		t.Errorf("stats after completion = %+v", s)
	}
}

func TestWatchRoutineAggregateSeesEquipmentWrite(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()
	user := registerUser(t, repos, "a@x.com")
	saved := saveSample(t, repos, user.ID)

	sub := repos.Workouts.WatchRoutineWithExercisesAndEquipment(ctx, saved.Routine.ID)
	defer sub.Cancel()
	if got := receive(t, sub); got == nil || len(got.AllEquipment()) != 3 {
		t.Fatalf("initial aggregate = %+v", got)
	}

	item := saved.Exercises[0].Equipment[0]
	res, err := repos.Workouts.SetEquipmentChecked(ctx, item.ID, true)
	mustOK(t, res, err)

	got := receive(t, sub)
	checked := 0
	for _, e := range got.AllEquipment() {
		if e.IsChecked {
			checked++
		}
	}
	if checked != 1 {
		t.Errorf("checked items = %d, want 1", checked)
	}

	del, err := repos.Workouts.DeleteRoutine(ctx, saved.Routine.ID)
	mustOK(t, del, err)
	if got := receive(t, sub); got != nil {
		t.Errorf("aggregate after delete = %+v, want nil", got)
	}
}

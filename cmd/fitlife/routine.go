// ABOUTME: CLI commands for workout routines.
// ABOUTME: Supports add, list, show, complete, schedule, location, stats, and delete subcommands.
package main

import (
	"fmt"

	"github.com/harperreed/fitlife/internal/models"
	"github.com/harperreed/fitlife/internal/repository"
	"github.com/spf13/cobra"
)

var (
	routineDays     string
	routineDesc     string
	routineLocation int64
	routineDay      string
	routinePending  bool
	routineUndo     bool
	routineClear    bool
)

var routineCmd = &cobra.Command{
	Use:     "routine",
	Aliases: []string{"r"},
	Short:   "Manage workout routines",
	Long: `Plan workout routines and schedule them on weekdays.

A routine holds ordered exercises, each with its own equipment. A routine can
be scheduled on any set of weekdays; days are names (mon, Tuesday) or indexes
where Sunday is 0.

WORKFLOW:

  1. Create a routine:   fitlife routine add "Leg Day" --days mon,thu
  2. Add exercises:      fitlife exercise add 1 Squat --sets 5 --reps 5
  3. View it:            fitlife routine show 1
  4. Mark it done:       fitlife routine complete 1

Deleting a routine deletes its exercises and their equipment.`,
}

// ownedRoutine loads a routine of the current user by id argument.
func ownedRoutine(cmd *cobra.Command, r *repository.Repositories, u *models.User, arg string) (*models.Routine, error) {
	id, err := parseID(arg)
	if err != nil {
		return nil, err
	}
	routine, err := r.Workouts.GetRoutine(cmd.Context(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to get routine: %w", err)
	}
	if routine == nil || routine.UserID != u.ID {
		return nil, fmt.Errorf("routine not found: %d", id)
	}
	return routine, nil
}

func session(cmd *cobra.Command) (*repository.Repositories, *models.User, error) {
	r, err := repos(cmd)
	if err != nil {
		return nil, nil, err
	}
	u, err := currentUser(cmd, r)
	if err != nil {
		return nil, nil, err
	}
	return r, u, nil
}

func printRoutine(cmd *cobra.Command, rt models.Routine) {
	status := "  "
	if rt.IsCompleted {
		status = success.Sprint("✓ ")
	}
	printf(cmd, "%s %s%s %s\n", idLabel(rt.ID), status, padRight(truncate(rt.Name, 24), 24), faint.Sprint(formatDays(rt.Days)))
}

var routineAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a routine",
	Long: `Create a routine for the --user account.

Examples:
  fitlife routine add "Leg Day" --days mon,thu
  fitlife routine add Swim --days 0 --location 2 --desc "Easy laps"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, u, err := session(cmd)
		if err != nil {
			return err
		}
		days, err := parseDays(routineDays)
		if err != nil {
			return err
		}

		rt := models.NewRoutine(u.ID, args[0]).WithDescription(routineDesc)
		rt.Days = days
		if routineLocation != 0 {
			rt.WithLocation(routineLocation)
		}

		saved, err := unwrap(r.Workouts.CreateRoutine(cmd.Context(), rt))
		if err != nil {
			return err
		}
		printOK(cmd, "Added routine %s", saved.Name)
		printf(cmd, "  %s %s\n", idLabel(saved.ID), formatDays(saved.Days))
		return nil
	},
}

var routineListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List routines",
	Long: `List the --user routines ordered by first scheduled day, newest first.

Examples:
  fitlife routine list
  fitlife routine list --day wed
  fitlife routine list --pending`,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, u, err := session(cmd)
		if err != nil {
			return err
		}

		day := models.Unscheduled
		if routineDay != "" {
			d, ok := models.ParseDayName(routineDay)
			if !ok {
				return fmt.Errorf("unknown day: %s", routineDay)
			}
			day = d
		}

		routines, err := r.Workouts.RoutinesByUser(cmd.Context(), u.ID)
		if err != nil {
			return fmt.Errorf("failed to list routines: %w", err)
		}

		shown := 0
		for _, rt := range routines {
			if day != models.Unscheduled && !rt.ContainsDay(day) {
				continue
			}
			if routinePending && (!rt.IsScheduled() || rt.IsCompleted) {
				continue
			}
			printRoutine(cmd, rt)
			shown++
		}
		if shown == 0 {
			printf(cmd, "No routines found.\n")
		}
		return nil
	},
}

var routineShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a routine with exercises, equipment and location",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, u, err := session(cmd)
		if err != nil {
			return err
		}
		rt, err := ownedRoutine(cmd, r, u, args[0])
		if err != nil {
			return err
		}
		agg, err := r.Workouts.RoutineWithExercisesAndEquipment(cmd.Context(), rt.ID)
		if err != nil {
			return fmt.Errorf("failed to get routine: %w", err)
		}
		withLoc, err := r.Workouts.RoutineWithLocation(cmd.Context(), rt.ID)
		if err != nil {
			return fmt.Errorf("failed to get routine location: %w", err)
		}

		heading.Fprintln(cmd.OutOrStdout(), agg.Routine.Name)
		printf(cmd, "  %s %s\n", idLabel(agg.Routine.ID), formatDays(agg.Routine.Days))
		if agg.Routine.Description != "" {
			printf(cmd, "  %s\n", agg.Routine.Description)
		}
		if withLoc != nil && withLoc.Location != nil {
			l := withLoc.Location
			printf(cmd, "  %s %s\n", l.LocationType.Emoji(), l.Name)
		}
		if agg.Routine.IsCompleted {
			success.Fprintln(cmd.OutOrStdout(), "  completed")
		}
		printf(cmd, "\n")

		if len(agg.Exercises) == 0 {
			printf(cmd, "No exercises yet.\n")
			return nil
		}
		for i, ex := range agg.Exercises {
			e := ex.Exercise
			box := "⬜"
			if e.IsCompleted {
				box = "✅"
			}
			printf(cmd, "%d. %s %s %s  %dx%d %s\n", i+1, box, e.Emoji, e.Name, e.Sets, e.Reps, idLabel(e.ID))
			if e.Instructions != "" {
				printf(cmd, "     %s\n", faint.Sprint(truncate(e.Instructions, 60)))
			}
			for _, eq := range ex.Equipment {
				printf(cmd, "     %s %s %s\n", eq.Category.Emoji(), eq.Name, idLabel(eq.ID))
			}
		}
		return nil
	},
}

var routineCompleteCmd = &cobra.Command{
	Use:     "complete <id>",
	Aliases: []string{"done"},
	Short:   "Mark a routine completed (--undo to reopen)",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, u, err := session(cmd)
		if err != nil {
			return err
		}
		rt, err := ownedRoutine(cmd, r, u, args[0])
		if err != nil {
			return err
		}
		if _, err := unwrap(r.Workouts.UpdateRoutineCompletionStatus(cmd.Context(), rt.ID, !routineUndo)); err != nil {
			return err
		}
		if routineUndo {
			printRemoved(cmd, "Reopened %s", rt.Name)
			return nil
		}
		printOK(cmd, "Completed %s", rt.Name)
		return nil
	},
}

var routineScheduleCmd = &cobra.Command{
	Use:   "schedule <id> <days>",
	Short: "Replace the days a routine is scheduled on",
	Long: `Replace the schedule of a routine. Pass "none" to unschedule it.

Examples:
  fitlife routine schedule 1 mon,wed,fri
  fitlife routine schedule 1 none`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, u, err := session(cmd)
		if err != nil {
			return err
		}
		rt, err := ownedRoutine(cmd, r, u, args[0])
		if err != nil {
			return err
		}
		var days models.Weekdays
		if args[1] != "none" {
			if days, err = parseDays(args[1]); err != nil {
				return err
			}
		}
		updated, err := unwrap(r.Workouts.UpdateRoutineSchedule(cmd.Context(), rt.ID, days))
		if err != nil {
			return err
		}
		printOK(cmd, "Scheduled %s: %s", updated.Name, formatDays(updated.Days))
		return nil
	},
}

var routineLocationCmd = &cobra.Command{
	Use:   "location <id> [location-id]",
	Short: "Set or clear (--clear) where a routine happens",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, u, err := session(cmd)
		if err != nil {
			return err
		}
		rt, err := ownedRoutine(cmd, r, u, args[0])
		if err != nil {
			return err
		}

		var locID *int64
		if !routineClear {
			if len(args) < 2 {
				return fmt.Errorf("location id required (or --clear)")
			}
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			locID = &id
		}
		if _, err := unwrap(r.Workouts.UpdateRoutineLocation(cmd.Context(), rt.ID, locID)); err != nil {
			return err
		}
		if locID == nil {
			printRemoved(cmd, "Cleared location of %s", rt.Name)
			return nil
		}
		printOK(cmd, "Moved %s to location %d", rt.Name, *locID)
		return nil
	},
}

var routineStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show scheduled and completed routine counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, u, err := session(cmd)
		if err != nil {
			return err
		}
		stats, err := r.Workouts.Stats(cmd.Context(), u.ID)
		if err != nil {
			return fmt.Errorf("failed to count routines: %w", err)
		}
		printf(cmd, "Completed %d of %d scheduled routines\n", stats.Completed, stats.Scheduled)
		return nil
	},
}

var routineDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a routine with its exercises and equipment",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, u, err := session(cmd)
		if err != nil {
			return err
		}
		rt, err := ownedRoutine(cmd, r, u, args[0])
		if err != nil {
			return err
		}
		if _, err := unwrap(r.Workouts.DeleteRoutine(cmd.Context(), rt.ID)); err != nil {
			return err
		}
		printRemoved(cmd, "Deleted routine %s", rt.Name)
		return nil
	},
}

func init() {
	routineAddCmd.Flags().StringVarP(&routineDays, "days", "d", "", "weekdays, e.g. mon,thu or 1,4")
	routineAddCmd.Flags().StringVar(&routineDesc, "desc", "", "description")
	routineAddCmd.Flags().Int64Var(&routineLocation, "location", 0, "saved location id")
	routineListCmd.Flags().StringVar(&routineDay, "day", "", "only routines on this weekday")
	routineListCmd.Flags().BoolVar(&routinePending, "pending", false, "only scheduled routines not yet completed")
	routineCompleteCmd.Flags().BoolVar(&routineUndo, "undo", false, "mark not completed")
	routineLocationCmd.Flags().BoolVar(&routineClear, "clear", false, "remove the location")

	routineCmd.AddCommand(routineAddCmd, routineListCmd, routineShowCmd, routineCompleteCmd,
		routineScheduleCmd, routineLocationCmd, routineStatsCmd, routineDeleteCmd)
	rootCmd.AddCommand(routineCmd)
}

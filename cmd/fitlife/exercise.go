// ABOUTME: CLI commands for exercises and their equipment.
// ABOUTME: Exercises belong to a routine; equipment belongs to an exercise.
package main

import (
	"fmt"

	"github.com/harperreed/fitlife/internal/models"
	"github.com/harperreed/fitlife/internal/repository"
	"github.com/spf13/cobra"
)

var (
	exerciseSets         int
	exerciseReps         int
	exerciseInstructions string
	exerciseEmoji        string
	exerciseUndo         bool
	equipmentCategory    string
	equipmentUndo        bool
)

var exerciseCmd = &cobra.Command{
	Use:     "exercise",
	Aliases: []string{"ex"},
	Short:   "Manage exercises in a routine",
	Long: `Add, reorder, and complete the exercises of a routine.

New exercises default to 3 sets of 10 reps and are appended to the routine.

EXAMPLES:

  fitlife exercise add 1 Squat --sets 5 --reps 5
  fitlife exercise list 1
  fitlife exercise reorder 1 3 1 2
  fitlife exercise done 2`,
}

// ownedExercise loads an exercise whose routine belongs to the current user.
func ownedExercise(cmd *cobra.Command, r *repository.Repositories, u *models.User, arg string) (*models.Exercise, error) {
	id, err := parseID(arg)
	if err != nil {
		return nil, err
	}
	ex, err := r.Workouts.GetExercise(cmd.Context(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to get exercise: %w", err)
	}
	if ex == nil {
		return nil, fmt.Errorf("exercise not found: %d", id)
	}
	if _, err := ownedRoutine(cmd, r, u, fmt.Sprint(ex.RoutineID)); err != nil {
		return nil, fmt.Errorf("exercise not found: %d", id)
	}
	return ex, nil
}

var exerciseAddCmd = &cobra.Command{
	Use:   "add <routine-id> <name>",
	Short: "Append an exercise to a routine",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, u, err := session(cmd)
		if err != nil {
			return err
		}
		rt, err := ownedRoutine(cmd, r, u, args[0])
		if err != nil {
			return err
		}

		ex := models.NewExercise(rt.ID, args[1]).WithSetsReps(exerciseSets, exerciseReps).WithInstructions(exerciseInstructions)
		if exerciseEmoji != "" {
			ex.Emoji = exerciseEmoji
		}
		saved, err := unwrap(r.Workouts.AddExercise(cmd.Context(), ex))
		if err != nil {
			return err
		}
		printOK(cmd, "Added %s to %s", saved.Name, rt.Name)
		printf(cmd, "  %s %dx%d\n", idLabel(saved.ID), saved.Sets, saved.Reps)
		return nil
	},
}

var exerciseListCmd = &cobra.Command{
	Use:     "list <routine-id>",
	Aliases: []string{"ls"},
	Short:   "List the exercises of a routine in order",
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
		exercises, err := r.Workouts.ExercisesByRoutine(cmd.Context(), rt.ID)
		if err != nil {
			return fmt.Errorf("failed to list exercises: %w", err)
		}
		if len(exercises) == 0 {
			printf(cmd, "No exercises found.\n")
			return nil
		}
		for _, e := range exercises {
			box := "⬜"
			if e.IsCompleted {
				box = "✅"
			}
			printf(cmd, "%s %s %s %s %dx%d\n", idLabel(e.ID), box, e.Emoji, padRight(e.Name, 20), e.Sets, e.Reps)
		}
		return nil
	},
}

var exerciseDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark an exercise completed (--undo to reopen)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, u, err := session(cmd)
		if err != nil {
			return err
		}
		ex, err := ownedExercise(cmd, r, u, args[0])
		if err != nil {
			return err
		}
		if _, err := unwrap(r.Workouts.UpdateExerciseCompletionStatus(cmd.Context(), ex.ID, !exerciseUndo)); err != nil {
			return err
		}
		if exerciseUndo {
			printRemoved(cmd, "Reopened %s", ex.Name)
			return nil
		}
		printOK(cmd, "Completed %s", ex.Name)
		return nil
	},
}

var exerciseEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change sets, reps and instructions of an exercise",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, u, err := session(cmd)
		if err != nil {
			return err
		}
		ex, err := ownedExercise(cmd, r, u, args[0])
		if err != nil {
			return err
		}

		sets, reps, instructions := ex.Sets, ex.Reps, ex.Instructions
		if cmd.Flags().Changed("sets") {
			sets = exerciseSets
		}
		if cmd.Flags().Changed("reps") {
			reps = exerciseReps
		}
		if cmd.Flags().Changed("instructions") {
			instructions = exerciseInstructions
		}
		if _, err := unwrap(r.Workouts.UpdateExerciseDetails(cmd.Context(), ex.ID, sets, reps, instructions)); err != nil {
			return err
		}
		printOK(cmd, "Updated %s: %dx%d", ex.Name, sets, reps)
		return nil
	},
}

var exerciseReorderCmd = &cobra.Command{
	Use:   "reorder <routine-id> <exercise-id>...",
	Short: "Set the order of every exercise in a routine",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, u, err := session(cmd)
		if err != nil {
			return err
		}
		rt, err := ownedRoutine(cmd, r, u, args[0])
		if err != nil {
			return err
		}
		ids := make([]int64, 0, len(args)-1)
		for _, a := range args[1:] {
			id, err := parseID(a)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}

		ordered, err := unwrap(r.Workouts.ReorderExercises(cmd.Context(), rt.ID, ids))
		if err != nil {
			return err
		}
		printOK(cmd, "Reordered %s", rt.Name)
		for i, e := range ordered {
			printf(cmd, "  %d. %s %s\n", i+1, e.Name, idLabel(e.ID))
		}
		return nil
	},
}

var exerciseDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete an exercise with its equipment",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, u, err := session(cmd)
		if err != nil {
			return err
		}
		ex, err := ownedExercise(cmd, r, u, args[0])
		if err != nil {
			return err
		}
		if _, err := unwrap(r.Workouts.DeleteExercise(cmd.Context(), ex.ID)); err != nil {
			return err
		}
		printRemoved(cmd, "Deleted exercise %s", ex.Name)
		return nil
	},
}

var equipmentCmd = &cobra.Command{
	Use:     "equipment",
	Aliases: []string{"eq"},
	Short:   "Manage equipment needed for exercises",
	Long: `Attach equipment to exercises and tick it off the checklist.

Without --category the category is guessed from the name: "Dumbbell" is
WEIGHTS, "Yoga Mat" is MATS, "Resistance Band" is RESISTANCE, and so on.

EXAMPLES:

  fitlife equipment add 2 Barbell "Lifting belt"
  fitlife equipment add 2 Towel --category ACCESSORIES
  fitlife equipment check 5
  fitlife checklist`,
}

var equipmentAddCmd = &cobra.Command{
	Use:   "add <exercise-id> <name>...",
	Short: "Attach equipment to an exercise",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, u, err := session(cmd)
		if err != nil {
			return err
		}
		ex, err := ownedExercise(cmd, r, u, args[0])
		if err != nil {
			return err
		}

		var items []models.Equipment
		if equipmentCategory != "" {
			category, ok := models.ParseEquipmentCategory(equipmentCategory)
			if !ok {
				return fmt.Errorf("unknown category: %s", equipmentCategory)
			}
			for _, name := range args[1:] {
				saved, err := unwrap(r.Workouts.AddEquipmentItem(cmd.Context(), models.NewEquipment(ex.ID, name, category)))
				if err != nil {
					return err
				}
				items = append(items, *saved)
			}
		} else {
			if items, err = unwrap(r.Workouts.AddEquipment(cmd.Context(), ex.ID, args[1:])); err != nil {
				return err
			}
		}

		printOK(cmd, "Added %d item(s) to %s", len(items), ex.Name)
		for _, e := range items {
			printf(cmd, "  %s %s %s %s\n", idLabel(e.ID), e.Category.Emoji(), e.Name, faint.Sprint(e.Category.DisplayName()))
		}
		return nil
	},
}

var equipmentCheckCmd = &cobra.Command{
	Use:   "check <id>",
	Short: "Tick equipment off the checklist (--undo to untick)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, _, err := session(cmd)
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if _, err := unwrap(r.Workouts.SetEquipmentChecked(cmd.Context(), id, !equipmentUndo)); err != nil {
			return err
		}
		if equipmentUndo {
			printRemoved(cmd, "Unchecked item %d", id)
			return nil
		}
		printOK(cmd, "Checked item %d", id)
		return nil
	},
}

var equipmentDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Remove equipment from its exercise",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, _, err := session(cmd)
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if _, err := unwrap(r.Workouts.DeleteEquipment(cmd.Context(), id)); err != nil {
			return err
		}
		printRemoved(cmd, "Deleted item %d", id)
		return nil
	},
}

func init() {
	exerciseAddCmd.Flags().IntVar(&exerciseSets, "sets", models.DefaultSets, "number of sets")
	exerciseAddCmd.Flags().IntVar(&exerciseReps, "reps", models.DefaultReps, "reps per set")
	exerciseAddCmd.Flags().StringVar(&exerciseInstructions, "instructions", "", "how to perform it")
	exerciseAddCmd.Flags().StringVar(&exerciseEmoji, "emoji", "", "display emoji")
	exerciseEditCmd.Flags().IntVar(&exerciseSets, "sets", models.DefaultSets, "number of sets")
	exerciseEditCmd.Flags().IntVar(&exerciseReps, "reps", models.DefaultReps, "reps per set")
	exerciseEditCmd.Flags().StringVar(&exerciseInstructions, "instructions", "", "how to perform it")
	exerciseDoneCmd.Flags().BoolVar(&exerciseUndo, "undo", false, "mark not completed")
	exerciseCmd.AddCommand(exerciseAddCmd, exerciseListCmd, exerciseDoneCmd, exerciseEditCmd, exerciseReorderCmd, exerciseDeleteCmd)

	equipmentAddCmd.Flags().StringVarP(&equipmentCategory, "category", "c", "", "category for every item (default: guessed)")
	equipmentCheckCmd.Flags().BoolVar(&equipmentUndo, "undo", false, "untick")
	equipmentCmd.AddCommand(equipmentAddCmd, equipmentCheckCmd, equipmentDeleteCmd)

	rootCmd.AddCommand(exerciseCmd, equipmentCmd)
}

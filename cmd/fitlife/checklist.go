// ABOUTME: CLI command printing the equipment checklist for scheduled routines.
// ABOUTME: Uses the same shareable text layout as the Markdown export.
package main

import (
	"fmt"

	"github.com/harperreed/fitlife/internal/models"
	"github.com/harperreed/fitlife/internal/storage"
	"github.com/spf13/cobra"
)

var checklistCategory string

var checklistCmd = &cobra.Command{
	Use:   "checklist",
	Short: "Show the equipment needed for scheduled routines",
	Long: `Show every piece of equipment used by the --user scheduled routines,
grouped by category, with a progress count of items already checked.

Unscheduled routines are left out. Tick items with 'fitlife equipment check'.

EXAMPLES:

  fitlife checklist
  fitlife checklist --category weights`,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, u, err := session(cmd)
		if err != nil {
			return err
		}
		var items []models.Equipment
		if checklistCategory != "" {
			category, ok := models.ParseEquipmentCategory(checklistCategory)
			if !ok {
				return fmt.Errorf("unknown category: %s", checklistCategory)
			}
			items, err = r.Workouts.ChecklistByCategory(cmd.Context(), u.ID, category)
		} else {
			items, err = r.Workouts.Checklist(cmd.Context(), u.ID)
		}
		if err != nil {
			return fmt.Errorf("failed to load checklist: %w", err)
		}

		printf(cmd, "%s", storage.ChecklistMarkdown(items))
		return nil
	},
}

func init() {
	checklistCmd.Flags().StringVarP(&checklistCategory, "category", "c", "", "only this category")
	rootCmd.AddCommand(checklistCmd)
}

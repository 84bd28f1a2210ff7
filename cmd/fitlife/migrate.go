// ABOUTME: CLI commands for the database file itself: migrate to the current schema, and reset.
// ABOUTME: Reset destroys all data and is only run with --yes.
package main

import (
	"errors"
	"fmt"

	"github.com/harperreed/fitlife/internal/storage"
	"github.com/spf13/cobra"
)

var resetYes bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Bring the database up to the current schema",
	Long: `Open the database and apply any pending schema migrations.

Every command migrates on open, so this is only needed to check the result.
Migration steps run in order, each in its own transaction:

  v1 -> v2   exercise images and user profile photos
  v2 -> v3   multi-day routine schedules (days_of_week)

A database written by a newer version is left untouched and reported as a
schema mismatch. Use 'fitlife reset --yes' to start over, or set
reset_on_mismatch = true in the config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.DB(cmd.Context())
		if err != nil {
			var mismatch *storage.SchemaMismatchError
			if errors.As(err, &mismatch) {
				warning.Fprintf(cmd.ErrOrStderr(), "Database schema v%d is newer than supported v%d\n", mismatch.Stored, mismatch.Target)
			}
			return fmt.Errorf("failed to open database: %w", err)
		}
		version, err := db.SchemaVersion(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}
		printOK(cmd, "Schema at v%d", version)
		printf(cmd, "  %s\n", faint.Sprint(db.Path()))
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the database and start empty",
	Long: `Delete the database file and create a new, empty one at the current schema.

CAUTION:

  This permanently deletes every user, routine, exercise, equipment item and
  location. There is no undo. Export first with 'fitlife export json'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetYes {
			return errors.New("refusing to reset without --yes")
		}
		path := cfg.GetDBPath()
		db, err := storage.Recreate(cmd.Context(), path, &storage.Options{Logger: logger})
		if err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}
		if err := db.Close(); err != nil {
			return err
		}
		printRemoved(cmd, "Reset %s", path)
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVar(&resetYes, "yes", false, "confirm deleting all data")
	rootCmd.AddCommand(migrateCmd, resetCmd)
}

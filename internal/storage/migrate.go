// ABOUTME: Schema versioning with PRAGMA user_version and the ordered migration chain.
// ABOUTME: Each step runs in its own transaction together with its version bump.

package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// CurrentVersion is the schema version this code reads and writes.
const CurrentVersion = 3

// migration moves the schema from one version to the next.
type migration struct {
	from, to int
	stmts    []string
}

// migrations only ever add columns with defaults; nothing is dropped or reordered.
var migrations = []migration{
	{
		from: 1, to: 2,
		stmts: []string{
			"ALTER TABLE exercises ADD COLUMN image_resource_name TEXT DEFAULT NULL",
			"ALTER TABLE exercises ADD COLUMN image_uri TEXT DEFAULT NULL",
			"ALTER TABLE users ADD COLUMN profile_photo_uri TEXT DEFAULT NULL",
		},
	},
	{
		from: 2, to: 3,
		stmts: []string{
			"ALTER TABLE workout_routines ADD COLUMN days_of_week TEXT NOT NULL DEFAULT ''",
		},
	},
}

// SchemaVersion reports the version recorded in the database file.
func (d *DB) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	if err := d.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}

// migrate brings the file to target, creating the base schema on a fresh file.
func (d *DB) migrate(ctx context.Context, target int) error {
	if target < 1 || target > CurrentVersion {
		return &SchemaMismatchError{Target: target, Reason: "unsupported target version"}
	}

	stored, err := d.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	if stored == 0 {
		hasTables, err := d.hasUserTables(ctx)
		if err != nil {
			return err
		}
		if hasTables {
			return &SchemaMismatchError{Stored: 0, Target: target, Reason: "tables exist without a version marker"}
		}
		if err := d.applyStep(ctx, 1, baseSchema); err != nil {
			return fmt.Errorf("create base schema: %w", err)
		}
		d.logger.Info("created schema", "version", 1, "path", d.dbPath)
		stored = 1
	}

	if stored > target {
		return &SchemaMismatchError{Stored: stored, Target: target, Reason: "database is newer than this build"}
	}

	for stored < target {
		m, ok := findMigration(stored)
		if !ok {
			return &SchemaMismatchError{Stored: stored, Target: target, Reason: "no migration path"}
		}
		if err := d.applyStep(ctx, m.to, m.stmts); err != nil {
			return fmt.Errorf("migrate %d to %d: %w", m.from, m.to, err)
		}
		d.logger.Info("applied migration", "from", m.from, "to", m.to)
		stored = m.to
	}
	return nil
}

func findMigration(from int) (migration, bool) {
	for _, m := range migrations {
		if m.from == from {
			return m, true
		}
	}
	return migration{}, false
}

// applyStep runs stmts and sets user_version atomically.
func (d *DB) applyStep(ctx context.Context, version int, stmts []string) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", version)); err != nil {
		return err
	}
	return tx.Commit()
}

func (d *DB) hasUserTables(ctx context.Context) (bool, error) {
	var n int
	err := d.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'",
	).Scan(&n)
	if err != nil && err != sql.ErrNoRows {
		return false, fmt.Errorf("inspect schema: %w", err)
	}
	return n > 0, nil
}

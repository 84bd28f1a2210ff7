// ABOUTME: Storage error taxonomy: constraint violations, missing rows, schema mismatches.
// ABOUTME: Translates modernc SQLite constraint failures into ErrConstraintViolation.
package storage

import (
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound is returned when an update or delete targets an absent id.
	ErrNotFound = errors.New("not found")
	// ErrConstraintViolation is returned when a foreign-key or unique rule is broken.
	ErrConstraintViolation = errors.New("constraint violation")
	// ErrSchemaMismatch is returned when the on-disk schema cannot be migrated.
	ErrSchemaMismatch = errors.New("schema mismatch")
)

// ConstraintError describes which rule a write broke.
type ConstraintError struct {
	Table  string
	Column string
	Reason string
}

func (e *ConstraintError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("constraint violation on %s.%s: %s", e.Table, e.Column, e.Reason)
	}
	return fmt.Sprintf("constraint violation: %s", e.Reason)
}

func (e *ConstraintError) Unwrap() error { return ErrConstraintViolation }

// SchemaMismatchError reports a stored version the code cannot reach the target from.
type SchemaMismatchError struct {
	Stored int
	Target int
	Reason string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("schema mismatch: stored version %d, target %d: %s", e.Stored, e.Target, e.Reason)
}

func (e *SchemaMismatchError) Unwrap() error { return ErrSchemaMismatch }

// notFound wraps ErrNotFound with the table and id.
func notFound(table string, id int64) error {
	return fmt.Errorf("%s %d: %w", table, id, ErrNotFound)
}

// translateError maps driver constraint failures onto the storage taxonomy.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var se *sqlite.Error
	if !errors.As(err, &se) || se.Code()&0xff != sqlite3.SQLITE_CONSTRAINT {
		return err
	}

	ce := &ConstraintError{Reason: se.Error()}
	// Messages look like "UNIQUE constraint failed: users.email".
	msg := se.Error()
	if i := strings.LastIndex(msg, "failed: "); i >= 0 {
		target, _, _ := strings.Cut(msg[i+len("failed: "):], ",")
		table, column, _ := strings.Cut(strings.TrimSpace(target), ".")
		if fields := strings.Fields(column); table != "" && len(fields) > 0 {
			ce.Table = table
			ce.Column = fields[0]
		}
	}
	return ce
}

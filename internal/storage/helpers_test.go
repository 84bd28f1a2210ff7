// ABOUTME: Shared test helpers for storage tests.
// ABOUTME: Opens file-backed databases in temp dirs with a deterministic clock.
package storage

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/harperreed/fitlife/internal/models"
)

var testEpoch = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

// tickingClock returns a clock that advances one second per call.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	t := testEpoch
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

// setupTestDB creates a current-version database in a temp directory.
func setupTestDB(t *testing.T) *DB {
	t.Helper()
	return openTestDB(t, filepath.Join(t.TempDir(), "fitlife.db"), nil)
}

func openTestDB(t *testing.T, path string, opts *Options) *DB {
	t.Helper()
	if opts == nil {
		opts = &Options{}
	}
	if opts.Now == nil {
		opts.Now = tickingClock()
	}
	db, err := Open(context.Background(), path, opts)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func mustUpdate(t *testing.T, db *DB, fn func(w *Writer) error) {
	t.Helper()
	if err := db.Update(context.Background(), fn); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
}

func mustGet[T any](t *testing.T, db *DB, fn func(r *Reader) (T, error)) T {
	t.Helper()
	v, err := Get(context.Background(), db, fn)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	return v
}

func seedUser(t *testing.T, db *DB, email string) *models.User {
	t.Helper()
	u := models.NewUser(email, "hash", "Test User")
	mustUpdate(t, db, func(w *Writer) error { return w.InsertUser(u) })
	return u
}

func seedRoutine(t *testing.T, db *DB, userID int64, name string, days ...int) *models.Routine {
	t.Helper()
	r := models.NewRoutine(userID, name).WithDays(days...)
	mustUpdate(t, db, func(w *Writer) error { return w.InsertRoutine(r) })
	return r
}

func seedExercise(t *testing.T, db *DB, routineID int64, name string, equipment ...string) *models.Exercise {
	t.Helper()
	e := models.NewExercise(routineID, name)
	mustUpdate(t, db, func(w *Writer) error {
		if err := w.InsertExercise(e); err != nil {
			return err
		}
		for _, n := range equipment {
			if err := w.InsertEquipment(models.NewEquipment(e.ID, n, models.GuessEquipmentCategory(n))); err != nil {
				return err
			}
		}
		return nil
	})
	return e
}

func seedLocation(t *testing.T, db *DB, userID int64, name string) *models.Location {
	t.Helper()
	l := models.NewLocation(userID, name, 41.88, -87.63)
	mustUpdate(t, db, func(w *Writer) error { return w.InsertLocation(l) })
	return l
}

func countRows(t *testing.T, db *DB, table, where string, args ...any) int {
	t.Helper()
	q := "SELECT COUNT(*) FROM " + table
	if where != "" {
		q += " WHERE " + where
	}
	var n int
	if err := db.db.QueryRow(q, args...).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

// ABOUTME: SQLite database connection and lifecycle management.
// ABOUTME: Uses modernc.org/sqlite (pure Go, no CGO required) and owns the live query engine.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/fitlife/internal/live"

	_ "modernc.org/sqlite"
)

// Options controls how a database is opened.
type Options struct {
	// TargetVersion is the schema version to migrate to. Zero means CurrentVersion.
	// Entity operations assume CurrentVersion; older targets are for tooling and tests.
	TargetVersion int

	// ResetOnMismatch destroys and recreates an empty database when the stored
	// schema cannot be migrated. Off unless the caller opts in.
	ResetOnMismatch bool

	// Logger receives migration and subscription logs. Nil discards them.
	Logger *log.Logger

	// Now stamps created_at and updated_at. Nil means time.Now.
	Now func() time.Time
}

func (o *Options) withDefaults() Options {
	var out Options
	if o != nil {
		out = *o
	}
	if out.TargetVersion == 0 {
		out.TargetVersion = CurrentVersion
	}
	if out.Logger == nil {
		out.Logger = log.New(io.Discard)
	}
	if out.Now == nil {
		out.Now = time.Now
	}
	return out
}

// DB wraps the SQLite database connection.
type DB struct {
	db      *sql.DB
	dbPath  string
	engine  *live.Engine
	logger  *log.Logger
	now     func() time.Time
	writeMu sync.Mutex
}

// Open opens or creates a SQLite database at the given path and migrates it
// to the target schema version before returning.
func Open(ctx context.Context, dbPath string, opts *Options) (*DB, error) {
	o := opts.withDefaults()

	// Ensure parent directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?"+pragmaQuery())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Set file permissions
	if err := os.Chmod(dbPath, 0600); err != nil && !os.IsNotExist(err) {
		_ = db.Close()
		return nil, fmt.Errorf("set database permissions: %w", err)
	}

	d := &DB{
		db:     db,
		dbPath: dbPath,
		engine: live.NewEngine(o.Logger),
		logger: o.Logger,
		now:    o.Now,
	}

	if err := d.migrate(ctx, o.TargetVersion); err != nil {
		_ = db.Close()
		if errors.Is(err, ErrSchemaMismatch) && o.ResetOnMismatch {
			o.Logger.Warn("schema mismatch, recreating database", "path", dbPath, "err", err)
			o.ResetOnMismatch = false
			return Recreate(ctx, dbPath, &o)
		}
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return d, nil
}

// Recreate deletes the database file and its WAL side files, then opens a
// fresh, empty database. All stored data is lost.
func Recreate(ctx context.Context, dbPath string, opts *Options) (*DB, error) {
	for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("remove %s: %w", filepath.Base(p), err)
		}
	}
	return Open(ctx, dbPath, opts)
}

// DataDir returns the default data directory following XDG spec.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "fitlife")
}

// DefaultDBPath returns the default database path following XDG spec.
func DefaultDBPath() string {
	return filepath.Join(DataDir(), "fitlife.db")
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.dbPath
}

// Engine returns the live query engine fed by this database's writes.
func (d *DB) Engine() *live.Engine {
	return d.engine
}

// Close stops all live subscriptions and closes the database connection.
func (d *DB) Close() error {
	if d.engine != nil {
		d.engine.Close()
	}
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// pragmaQuery returns DSN parameters applied to every pooled connection.
func pragmaQuery() string {
	pragmas := []string{
		"journal_mode(WAL)",
		"foreign_keys(1)",
		"busy_timeout(5000)",
		"synchronous(NORMAL)",
	}
	params := make([]string, len(pragmas))
	for i, p := range pragmas {
		params[i] = "_pragma=" + p
	}
	return strings.Join(params, "&")
}

// View runs fn inside one read transaction, so every read sees one snapshot.
func (d *DB) View(ctx context.Context, fn func(r *Reader) error) error {
	_, err := d.view(ctx, fn)
	return err
}

func (d *DB) view(ctx context.Context, fn func(r *Reader) error) (live.ReadSet, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin read: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	r := newReader(ctx, tx)
	if err := fn(r); err != nil {
		return r.reads, err
	}
	return r.reads, nil
}

// Update runs fn inside one write transaction. Writers are serialized; after a
// successful commit the changed keys are published to live subscriptions in
// commit order. If fn fails nothing is written and nothing is published.
func (d *DB) Update(ctx context.Context, fn func(w *Writer) error) error {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin write: %w", err)
	}

	w := &Writer{Reader: newReader(ctx, tx), now: d.now()}
	if err := fn(w); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", translateError(err))
	}

	d.engine.Publish(w.changed)
	return nil
}

// Get evaluates a read query once.
func Get[T any](ctx context.Context, d *DB, query func(r *Reader) (T, error)) (T, error) {
	var out T
	err := d.View(ctx, func(r *Reader) error {
		var err error
		out, err = query(r)
		return err
	})
	return out, err
}

// Watch turns a read query into a live subscription. The query runs in its
// own read transaction on every evaluation.
func Watch[T any](ctx context.Context, d *DB, query func(r *Reader) (T, error)) *live.Subscription[T] {
	return live.Subscribe(ctx, d.engine, func(ctx context.Context) (T, live.ReadSet, error) {
		var out T
		reads, err := d.view(ctx, func(r *Reader) error {
			var err error
			out, err = query(r)
			return err
		})
		return out, reads, err
	})
}

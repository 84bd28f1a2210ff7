// ABOUTME: Picks up commits made by other processes on the same database file.
// ABOUTME: Polls PRAGMA data_version on one connection and invalidates every table when it moves.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/harperreed/fitlife/internal/live"
)

// DefaultFollowInterval is how often FollowExternalWrites polls.
const DefaultFollowInterval = 500 * time.Millisecond

var allTables = []string{tableUsers, tableRoutines, tableExercises, tableEquipment, tableLocations}

// FollowExternalWrites blocks until ctx is done, re-evaluating live
// subscriptions whenever another connection commits to the file. It only
// knows that something changed, not which rows, so subscriptions re-run and
// deliver only results that differ. A zero interval means DefaultFollowInterval.
func (d *DB) FollowExternalWrites(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultFollowInterval
	}
	conn, err := d.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("follow writes: %w", err)
	}
	defer conn.Close()

	last, err := dataVersion(ctx, conn)
	if err != nil {
		return fmt.Errorf("follow writes: %w", err)
	}

	keys := make([]live.Key, len(allTables))
	for i, t := range allTables {
		keys[i] = live.Table(t)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		v, err := dataVersion(ctx, conn)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("follow writes: %w", err)
		}
		if v != last {
			last = v
			d.logger.Debug("external write detected", "path", d.dbPath, "data_version", v)
			d.engine.Invalidate(keys)
		}
	}
}

// dataVersion changes whenever a connection other than conn commits.
func dataVersion(ctx context.Context, conn *sql.Conn) (int64, error) {
	var v int64
	if err := conn.QueryRowContext(ctx, "PRAGMA data_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("read data_version: %w", err)
	}
	return v, nil
}

// ABOUTME: Reader and Writer transaction handles used by every entity operation.
// ABOUTME: Readers record the keys they observe; writers record the keys they change.
package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/harperreed/fitlife/internal/live"
)

// Reader is a read snapshot. Every query records what it depended on so a
// live subscription knows which writes invalidate it.
type Reader struct {
	ctx   context.Context
	tx    *sql.Tx
	reads live.ReadSet
}

func newReader(ctx context.Context, tx *sql.Tx) *Reader {
	return &Reader{ctx: ctx, tx: tx, reads: live.NewReadSet()}
}

func (r *Reader) query(q string, args ...any) (*sql.Rows, error) {
	return r.tx.QueryContext(r.ctx, q, args...)
}

func (r *Reader) queryRow(q string, args ...any) *sql.Row {
	return r.tx.QueryRowContext(r.ctx, q, args...)
}

func (r *Reader) dependOnRow(table string, id int64) {
	r.reads.Add(live.Row(table, id))
}

func (r *Reader) dependOnRef(table, column string, id int64) {
	r.reads.Add(live.Ref(table, column, id))
}

func (r *Reader) dependOnTable(table string) {
	r.reads.Add(live.Table(table))
}

// Writer is a write transaction. It can read, and its reads see its own writes.
type Writer struct {
	*Reader
	now     time.Time
	changed []live.Key
}

func (w *Writer) exec(q string, args ...any) (sql.Result, error) {
	res, err := w.tx.ExecContext(w.ctx, q, args...)
	return res, translateError(err)
}

// Now returns the timestamp used for every row stamped in this transaction.
func (w *Writer) Now() time.Time {
	return w.now
}

// touch records a changed row together with its foreign-key values.
func (w *Writer) touch(table string, id int64, refs map[string]*int64) {
	w.changed = append(w.changed, live.Row(table, id))
	for col, v := range refs {
		if v != nil {
			w.changed = append(w.changed, live.Ref(table, col, *v))
		}
	}
}

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullInt64(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

func int64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func stringPtr(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	v := n.String
	return &v
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// ABOUTME: Foreign-key relations with their delete policy, and the single delete routine.
// ABOUTME: Inserts and updates check references here; deletes cascade or null out from here.
package storage

import (
	"database/sql"
	"fmt"
	"strings"
)

// DeleteAction is what happens to a child row when its parent is deleted.
type DeleteAction int

const (
	Cascade DeleteAction = iota
	SetNull
)

func (a DeleteAction) String() string {
	if a == SetNull {
		return "set null"
	}
	return "cascade"
}

// Relation is one foreign key: Child.Column references Parent.id.
type Relation struct {
	Child    string
	Column   string
	Parent   string
	OnDelete DeleteAction
}

// Relations is the complete foreign-key policy. The SQL schema mirrors it.
var Relations = []Relation{
	{Child: tableRoutines, Column: "user_id", Parent: tableUsers, OnDelete: Cascade},
	{Child: tableRoutines, Column: "location_id", Parent: tableLocations, OnDelete: SetNull},
	{Child: tableExercises, Column: "routine_id", Parent: tableRoutines, OnDelete: Cascade},
	{Child: tableEquipment, Column: "exercise_id", Parent: tableExercises, OnDelete: Cascade},
	{Child: tableLocations, Column: "user_id", Parent: tableUsers, OnDelete: Cascade},
}

func relationsFrom(child string) []Relation {
	var out []Relation
	for _, rel := range Relations {
		if rel.Child == child {
			out = append(out, rel)
		}
	}
	return out
}

func relationsTo(parent string) []Relation {
	var out []Relation
	for _, rel := range Relations {
		if rel.Parent == parent {
			out = append(out, rel)
		}
	}
	return out
}

// checkRefs verifies every non-nil foreign key of a row points at a live parent.
func (w *Writer) checkRefs(table string, refs map[string]*int64) error {
	for _, rel := range relationsFrom(table) {
		v, ok := refs[rel.Column]
		if !ok || v == nil {
			continue
		}
		var exists bool
		q := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE id = ?)", rel.Parent)
		if err := w.queryRow(q, *v).Scan(&exists); err != nil {
			return fmt.Errorf("check %s.%s: %w", table, rel.Column, err)
		}
		if !exists {
			return &ConstraintError{
				Table:  table,
				Column: rel.Column,
				Reason: fmt.Sprintf("%s %d does not exist", rel.Parent, *v),
			}
		}
	}
	return nil
}

// loadRefs reads the foreign-key columns of one row. It returns ErrNotFound
// when the row is absent.
func (w *Writer) loadRefs(table string, id int64) (map[string]*int64, error) {
	rels := relationsFrom(table)
	if len(rels) == 0 {
		var exists bool
		q := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE id = ?)", table)
		if err := w.queryRow(q, id).Scan(&exists); err != nil {
			return nil, err
		}
		if !exists {
			return nil, notFound(table, id)
		}
		return map[string]*int64{}, nil
	}

	cols := make([]string, len(rels))
	vals := make([]sql.NullInt64, len(rels))
	dest := make([]any, len(rels))
	for i, rel := range rels {
		cols[i] = rel.Column
		dest[i] = &vals[i]
	}
	q := fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", strings.Join(cols, ", "), table)
	if err := w.queryRow(q, id).Scan(dest...); err != nil {
		if err == sql.ErrNoRows {
			return nil, notFound(table, id)
		}
		return nil, err
	}

	refs := make(map[string]*int64, len(rels))
	for i, col := range cols {
		refs[col] = int64Ptr(vals[i])
	}
	return refs, nil
}

// childIDs lists rows of rel.Child that reference parentID.
func (w *Writer) childIDs(rel Relation, parentID int64) ([]int64, error) {
	q := fmt.Sprintf("SELECT id FROM %s WHERE %s = ? ORDER BY id", rel.Child, rel.Column)
	rows, err := w.query(q, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// deleteRow removes one row and applies the delete policy of every relation
// pointing at it, depth first. Each affected row is recorded as changed.
func (w *Writer) deleteRow(table string, id int64) error {
	refs, err := w.loadRefs(table, id)
	if err != nil {
		return err
	}

	for _, rel := range relationsTo(table) {
		ids, err := w.childIDs(rel, id)
		if err != nil {
			return fmt.Errorf("list %s children: %w", rel.Child, err)
		}
		for _, childID := range ids {
			switch rel.OnDelete {
			case Cascade:
				if err := w.deleteRow(rel.Child, childID); err != nil {
					return err
				}
			case SetNull:
				if err := w.clearRef(rel, childID); err != nil {
					return err
				}
			}
		}
	}

	q := fmt.Sprintf("DELETE FROM %s WHERE id = ?", table)
	if _, err := w.exec(q, id); err != nil {
		return fmt.Errorf("delete %s %d: %w", table, id, err)
	}
	w.touch(table, id, refs)
	return nil
}

// clearRef nulls one child's reference. Both the old and the remaining
// references are recorded so owner-scoped queries notice.
func (w *Writer) clearRef(rel Relation, childID int64) error {
	refs, err := w.loadRefs(rel.Child, childID)
	if err != nil {
		return err
	}
	q := fmt.Sprintf("UPDATE %s SET %s = NULL WHERE id = ?", rel.Child, rel.Column)
	if _, err := w.exec(q, childID); err != nil {
		return fmt.Errorf("clear %s.%s: %w", rel.Child, rel.Column, err)
	}
	w.touch(rel.Child, childID, refs)
	return nil
}

// touchUpdate records a row whose references moved from before to after.
func (w *Writer) touchUpdate(table string, id int64, before, after map[string]*int64) {
	w.touch(table, id, before)
	w.touch(table, id, after)
}

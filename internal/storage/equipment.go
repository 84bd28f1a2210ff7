// ABOUTME: Equipment CRUD and the per-user checklist readers for SQLite storage.
// ABOUTME: The checklist walks scheduled routines so each visited row joins the read-set.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/harperreed/fitlife/internal/models"
)

const equipmentColumns = "id, exercise_id, name, category, is_checked"

func equipmentRefs(e *models.Equipment) map[string]*int64 {
	exerciseID := e.ExerciseID
	return map[string]*int64{"exercise_id": &exerciseID}
}

// InsertEquipment stores new equipment and assigns its ID, overwriting any
// ID already set on e.
func (w *Writer) InsertEquipment(e *models.Equipment) error {
	refs := equipmentRefs(e)
	if err := w.checkRefs(tableEquipment, refs); err != nil {
		return fmt.Errorf("insert equipment: %w", err)
	}
	if e.Category == "" {
		e.Category = models.CategoryOther
	}
	res, err := w.exec(`
		INSERT INTO equipment (exercise_id, name, category, is_checked)
		VALUES (?, ?, ?, ?)
	`, e.ExerciseID, e.Name, string(e.Category), boolInt(e.IsChecked))
	if err != nil {
		return fmt.Errorf("insert equipment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert equipment: %w", err)
	}
	e.ID = id
	w.touch(tableEquipment, id, refs)
	return nil
}

// InsertEquipmentList stores several items in the current transaction.
func (w *Writer) InsertEquipmentList(items []*models.Equipment) error {
	for _, e := range items {
		if err := w.InsertEquipment(e); err != nil {
			return err
		}
	}
	return nil
}

// UpdateEquipment replaces every column of existing equipment.
func (w *Writer) UpdateEquipment(e *models.Equipment) error {
	before, err := w.loadRefs(tableEquipment, e.ID)
	if err != nil {
		return fmt.Errorf("update equipment: %w", err)
	}
	after := equipmentRefs(e)
	if err := w.checkRefs(tableEquipment, after); err != nil {
		return fmt.Errorf("update equipment: %w", err)
	}
	_, err = w.exec("UPDATE equipment SET exercise_id = ?, name = ?, category = ?, is_checked = ? WHERE id = ?",
		e.ExerciseID, e.Name, string(e.Category), boolInt(e.IsChecked), e.ID)
	if err != nil {
		return fmt.Errorf("update equipment: %w", err)
	}
	w.touchUpdate(tableEquipment, e.ID, before, after)
	return nil
}

// SetEquipmentChecked patches the checked flag.
func (w *Writer) SetEquipmentChecked(id int64, checked bool) error {
	refs, err := w.loadRefs(tableEquipment, id)
	if err != nil {
		return fmt.Errorf("set equipment checked: %w", err)
	}
	if _, err := w.exec("UPDATE equipment SET is_checked = ? WHERE id = ?", boolInt(checked), id); err != nil {
		return fmt.Errorf("set equipment checked: %w", err)
	}
	w.touch(tableEquipment, id, refs)
	return nil
}

// DeleteEquipment removes one item.
func (w *Writer) DeleteEquipment(id int64) error {
	if err := w.deleteRow(tableEquipment, id); err != nil {
		return fmt.Errorf("delete equipment: %w", err)
	}
	return nil
}

// DeleteEquipmentByExercise removes all equipment of an exercise.
func (w *Writer) DeleteEquipmentByExercise(exerciseID int64) error {
	ids, err := w.childIDs(Relation{Child: tableEquipment, Column: "exercise_id"}, exerciseID)
	if err != nil {
		return fmt.Errorf("delete equipment by exercise: %w", err)
	}
	for _, id := range ids {
		if err := w.DeleteEquipment(id); err != nil {
			return err
		}
	}
	return nil
}

// EquipmentByID returns equipment or ErrNotFound.
func (r *Reader) EquipmentByID(id int64) (*models.Equipment, error) {
	r.dependOnRow(tableEquipment, id)
	e, err := scanEquipment(r.queryRow("SELECT "+equipmentColumns+" FROM equipment WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(tableEquipment, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get equipment: %w", err)
	}
	return e, nil
}

// EquipmentByExercise returns an exercise's equipment. Order is not significant.
func (r *Reader) EquipmentByExercise(exerciseID int64) ([]models.Equipment, error) {
	r.dependOnRef(tableEquipment, "exercise_id", exerciseID)
	rows, err := r.query("SELECT "+equipmentColumns+" FROM equipment WHERE exercise_id = ? ORDER BY id", exerciseID)
	if err != nil {
		return nil, fmt.Errorf("list equipment: %w", err)
	}
	defer rows.Close()

	items := []models.Equipment{}
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan equipment: %w", err)
		}
		r.dependOnRow(tableEquipment, e.ID)
		items = append(items, *e)
	}
	return items, rows.Err()
}

// EquipmentForUser returns the equipment needed by a user's scheduled
// routines, sorted by category name then equipment name.
func (r *Reader) EquipmentForUser(userID int64) ([]models.Equipment, error) {
	routines, err := r.ScheduledRoutines(userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]bool)
	items := []models.Equipment{}
	for _, rt := range routines {
		exercises, err := r.ExercisesByRoutine(rt.ID)
		if err != nil {
			return nil, err
		}
		for _, ex := range exercises {
			eq, err := r.EquipmentByExercise(ex.ID)
			if err != nil {
				return nil, err
			}
			for _, e := range eq {
				if !seen[e.ID] {
					seen[e.ID] = true
					items = append(items, e)
				}
			}
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Category != items[j].Category {
			return items[i].Category < items[j].Category
		}
		return items[i].Name < items[j].Name
	})
	return items, nil
}

// EquipmentForUserByCategory filters the checklist to one category.
func (r *Reader) EquipmentForUserByCategory(userID int64, category models.EquipmentCategory) ([]models.Equipment, error) {
	all, err := r.EquipmentForUser(userID)
	if err != nil {
		return nil, err
	}
	out := []models.Equipment{}
	for _, e := range all {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out, nil
}

func scanEquipment(s scanner) (*models.Equipment, error) {
	var e models.Equipment
	var category string
	var checked int
	if err := s.Scan(&e.ID, &e.ExerciseID, &e.Name, &category, &checked); err != nil {
		return nil, err
	}
	e.Category = models.EquipmentCategory(category)
	e.IsChecked = checked != 0
	return &e, nil
}

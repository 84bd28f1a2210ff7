// ABOUTME: GeoLocation CRUD and per-user readers for SQLite storage.
// ABOUTME: Deleting a location clears the reference on routines instead of deleting them.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/harperreed/fitlife/internal/models"
)

const locationColumns = "id, user_id, name, latitude, longitude, location_type, address, created_at"

func locationRefs(l *models.Location) map[string]*int64 {
	userID := l.UserID
	return map[string]*int64{"user_id": &userID}
}

// InsertLocation stores a new location and assigns its ID, overwriting any
// ID already set on l.
func (w *Writer) InsertLocation(l *models.Location) error {
	refs := locationRefs(l)
	if err := w.checkRefs(tableLocations, refs); err != nil {
		return fmt.Errorf("insert location: %w", err)
	}
	if l.LocationType == "" {
		l.LocationType = models.LocationGym
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = w.now
	}
	res, err := w.exec(`
		INSERT INTO geo_locations (user_id, name, latitude, longitude, location_type, address, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, l.UserID, l.Name, l.Latitude, l.Longitude, string(l.LocationType), l.Address, toMillis(l.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert location: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert location: %w", err)
	}
	l.ID = id
	w.touch(tableLocations, id, refs)
	return nil
}

// UpdateLocation replaces every column of an existing location.
func (w *Writer) UpdateLocation(l *models.Location) error {
	before, err := w.loadRefs(tableLocations, l.ID)
	if err != nil {
		return fmt.Errorf("update location: %w", err)
	}
	after := locationRefs(l)
	if err := w.checkRefs(tableLocations, after); err != nil {
		return fmt.Errorf("update location: %w", err)
	}
	_, err = w.exec(`
		UPDATE geo_locations SET user_id = ?, name = ?, latitude = ?, longitude = ?,
			location_type = ?, address = ?, created_at = ?
		WHERE id = ?
	`, l.UserID, l.Name, l.Latitude, l.Longitude, string(l.LocationType), l.Address, toMillis(l.CreatedAt), l.ID)
	if err != nil {
		return fmt.Errorf("update location: %w", err)
	}
	w.touchUpdate(tableLocations, l.ID, before, after)
	return nil
}

// DeleteLocation removes a location; routines that used it keep existing.
func (w *Writer) DeleteLocation(id int64) error {
	if err := w.deleteRow(tableLocations, id); err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	return nil
}

// LocationByID returns a location or ErrNotFound.
func (r *Reader) LocationByID(id int64) (*models.Location, error) {
	r.dependOnRow(tableLocations, id)
	l, err := scanLocation(r.queryRow("SELECT "+locationColumns+" FROM geo_locations WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(tableLocations, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get location: %w", err)
	}
	return l, nil
}

// LocationsByUser returns a user's locations sorted by name.
func (r *Reader) LocationsByUser(userID int64) ([]models.Location, error) {
	r.dependOnRef(tableLocations, "user_id", userID)
	return r.listLocations("SELECT "+locationColumns+" FROM geo_locations WHERE user_id = ? ORDER BY name, id", userID)
}

// LocationsByType returns a user's locations of one type sorted by name.
func (r *Reader) LocationsByType(userID int64, t models.LocationType) ([]models.Location, error) {
	r.dependOnRef(tableLocations, "user_id", userID)
	return r.listLocations("SELECT "+locationColumns+" FROM geo_locations WHERE user_id = ? AND location_type = ? ORDER BY name, id",
		userID, string(t))
}

// AllLocationsForUser returns a user's locations in storage order.
func (r *Reader) AllLocationsForUser(userID int64) ([]models.Location, error) {
	r.dependOnRef(tableLocations, "user_id", userID)
	return r.listLocations("SELECT "+locationColumns+" FROM geo_locations WHERE user_id = ? ORDER BY id", userID)
}

func (r *Reader) listLocations(q string, args ...any) ([]models.Location, error) {
	rows, err := r.query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	locations := []models.Location{}
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		r.dependOnRow(tableLocations, l.ID)
		locations = append(locations, *l)
	}
	return locations, rows.Err()
}

func scanLocation(s scanner) (*models.Location, error) {
	var l models.Location
	var lt string
	var created int64
	if err := s.Scan(&l.ID, &l.UserID, &l.Name, &l.Latitude, &l.Longitude, &lt, &l.Address, &created); err != nil {
		return nil, err
	}
	l.LocationType = models.LocationType(lt)
	l.CreatedAt = fromMillis(created)
	return &l, nil
}

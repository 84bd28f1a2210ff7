// ABOUTME: User CRUD operations for SQLite storage.
// ABOUTME: Email is unique at the index level; profile photos use the ImageRef codec.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/harperreed/fitlife/internal/models"
)

const userColumns = "id, email, password, name, profile_photo_uri, created_at"

// InsertUser stores a new user and assigns its ID. Any ID already set on u
// is overwritten; the store always picks the next one.
func (w *Writer) InsertUser(u *models.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = w.now
	}
	res, err := w.exec(`
		INSERT INTO users (email, password, name, profile_photo_uri, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, u.Email, u.Credential, u.Name, u.ProfilePhoto.Encode(), toMillis(u.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	u.ID = id
	w.touch(tableUsers, id, nil)
	return nil
}

// UpdateUser replaces every column of an existing user.
func (w *Writer) UpdateUser(u *models.User) error {
	if _, err := w.loadRefs(tableUsers, u.ID); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	_, err := w.exec(`
		UPDATE users SET email = ?, password = ?, name = ?, profile_photo_uri = ?, created_at = ?
		WHERE id = ?
	`, u.Email, u.Credential, u.Name, u.ProfilePhoto.Encode(), toMillis(u.CreatedAt), u.ID)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	w.touch(tableUsers, u.ID, nil)
	return nil
}

// SetProfilePhoto changes only the profile photo of a user.
func (w *Writer) SetProfilePhoto(userID int64, ref models.ImageRef) error {
	res, err := w.exec("UPDATE users SET profile_photo_uri = ? WHERE id = ?", ref.Encode(), userID)
	if err != nil {
		return fmt.Errorf("set profile photo: %w", err)
	}
	if err := requireAffected(res, tableUsers, userID); err != nil {
		return fmt.Errorf("set profile photo: %w", err)
	}
	w.touch(tableUsers, userID, nil)
	return nil
}

// DeleteUser removes a user with their routines, exercises, equipment and locations.
func (w *Writer) DeleteUser(id int64) error {
	if err := w.deleteRow(tableUsers, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// UserByID returns a user or ErrNotFound.
func (r *Reader) UserByID(id int64) (*models.User, error) {
	r.dependOnRow(tableUsers, id)
	u, err := scanUser(r.queryRow("SELECT "+userColumns+" FROM users WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(tableUsers, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// UserByEmail returns the user with an exact email match, or ErrNotFound.
func (r *Reader) UserByEmail(email string) (*models.User, error) {
	r.dependOnTable(tableUsers)
	u, err := scanUser(r.queryRow("SELECT "+userColumns+" FROM users WHERE email = ? LIMIT 1", email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %q: %w", email, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// EmailExists reports whether any user has this exact email.
func (r *Reader) EmailExists(email string) (bool, error) {
	r.dependOnTable(tableUsers)
	var exists bool
	if err := r.queryRow("SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)", email).Scan(&exists); err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return exists, nil
}

// AllUsers returns every user ordered by ID.
func (r *Reader) AllUsers() ([]models.User, error) {
	r.dependOnTable(tableUsers)
	rows, err := r.query("SELECT " + userColumns + " FROM users ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func scanUser(s scanner) (*models.User, error) {
	var u models.User
	var photo sql.NullString
	var created int64
	if err := s.Scan(&u.ID, &u.Email, &u.Credential, &u.Name, &photo, &created); err != nil {
		return nil, err
	}
	u.ProfilePhoto = models.ParseImageRef(photo.String)
	u.CreatedAt = fromMillis(created)
	return &u, nil
}

// requireAffected turns a zero-row update into ErrNotFound.
func requireAffected(res sql.Result, table string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound(table, id)
	}
	return nil
}

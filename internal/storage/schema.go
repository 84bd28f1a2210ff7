// ABOUTME: SQLite schema definition: the version 1 base tables for the five entities.
// ABOUTME: Later columns arrive only through the migration chain in migrate.go.
package storage

// Table names as stored on disk.
const (
	tableUsers     = "users"
	tableRoutines  = "workout_routines"
	tableExercises = "exercises"
	tableEquipment = "equipment"
	tableLocations = "geo_locations"
)

// baseSchema is the version 1 layout. A fresh database is created from it and
// then migrated forward, so new and upgraded files share one code path.
var baseSchema = []string{
	`CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL,
		password TEXT NOT NULL,
		name TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`,
	`CREATE UNIQUE INDEX idx_users_email ON users(email)`,

	`CREATE TABLE geo_locations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		location_type TEXT NOT NULL DEFAULT 'GYM',
		address TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX idx_geo_locations_user ON geo_locations(user_id)`,

	`CREATE TABLE workout_routines (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		day_of_week INTEGER NOT NULL DEFAULT -1,
		is_completed INTEGER NOT NULL DEFAULT 0,
		location_id INTEGER REFERENCES geo_locations(id) ON DELETE SET NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE INDEX idx_workout_routines_user ON workout_routines(user_id)`,
	`CREATE INDEX idx_workout_routines_location ON workout_routines(location_id)`,

	`CREATE TABLE exercises (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		routine_id INTEGER NOT NULL REFERENCES workout_routines(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		sets INTEGER NOT NULL DEFAULT 3,
		reps INTEGER NOT NULL DEFAULT 10,
		instructions TEXT NOT NULL DEFAULT '',
		image_emoji TEXT NOT NULL DEFAULT '💪',
		is_completed INTEGER NOT NULL DEFAULT 0,
		order_index INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX idx_exercises_routine ON exercises(routine_id)`,

	`CREATE TABLE equipment (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		exercise_id INTEGER NOT NULL REFERENCES exercises(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT 'OTHER',
		is_checked INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX idx_equipment_exercise ON equipment(exercise_id)`,
}

// ABOUTME: Repository facades over the entity store, one per aggregate.
// ABOUTME: Facades are built from an explicit *storage.DB handle; there is no global instance.
package repository

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/harperreed/fitlife/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

// Options configures the facades.
type Options struct {
	// Logger receives rejection and operation logs. Nil discards them.
	Logger *log.Logger
	// PasswordCost is the bcrypt cost for new credentials. Zero means bcrypt.DefaultCost.
	PasswordCost int
}

// Repositories bundles the three facades sharing one store.
type Repositories struct {
	Users     *UserRepository
	Workouts  *WorkoutRepository
	Locations *LocationRepository
}

// New builds every facade over db.
func New(db *storage.DB, opts *Options) *Repositories {
	return &Repositories{
		Users:     NewUserRepository(db, opts),
		Workouts:  NewWorkoutRepository(db, opts),
		Locations: NewLocationRepository(db, opts),
	}
}

type facade struct {
	db     *storage.DB
	logger *log.Logger
}

func newFacade(db *storage.DB, opts *Options) facade {
	logger := log.New(io.Discard)
	if opts != nil && opts.Logger != nil {
		logger = opts.Logger
	}
	return facade{db: db, logger: logger}
}

func passwordCost(opts *Options) int {
	if opts == nil || opts.PasswordCost == 0 {
		return bcrypt.DefaultCost
	}
	return opts.PasswordCost
}

// cleanName trims a display name; ok is false when nothing is left.
func cleanName(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}

// ABOUTME: User facade: registration, login, profile updates, and the live user list.
// ABOUTME: Credentials are bcrypt hashes; a duplicate email is a rejection, never an error.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/harperreed/fitlife/internal/live"
	"github.com/harperreed/fitlife/internal/models"
	"github.com/harperreed/fitlife/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository is the facade for user accounts.
type UserRepository struct {
	facade
	cost int
}

// NewUserRepository creates the user facade.
func NewUserRepository(db *storage.DB, opts *Options) *UserRepository {
	return &UserRepository{facade: newFacade(db, opts), cost: passwordCost(opts)}
}

// Register creates an account. The email is checked first; a registration
// that races past the check is stopped by the unique email index and
// reported with the same rejection.
func (u *UserRepository) Register(ctx context.Context, email, password, name string) (Result[*models.User], error) {
	const op = "register"
	email = strings.TrimSpace(email)
	name, named := cleanName(name)
	if email == "" || !strings.Contains(email, "@") {
		return reject[*models.User](u.logger, op, ReasonInvalidInput, "email is required")
	}
	if password == "" {
		return reject[*models.User](u.logger, op, ReasonInvalidInput, "password is required")
	}
	if !named {
		return reject[*models.User](u.logger, op, ReasonInvalidInput, "name is required")
	}

	exists, err := storage.Get(ctx, u.db, func(r *storage.Reader) (bool, error) {
		return r.EmailExists(email)
	})
	if err != nil {
		return Result[*models.User]{}, fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return reject[*models.User](u.logger, op, ReasonEmailRegistered, "")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), u.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return reject[*models.User](u.logger, op, ReasonInvalidInput, "password is too long")
	}
	if err != nil {
		return Result[*models.User]{}, fmt.Errorf("%s: hash password: %w", op, err)
	}

	user := models.NewUser(email, string(hash), name)
	if err := u.db.Update(ctx, func(w *storage.Writer) error {
		return w.InsertUser(user)
	}); err != nil {
		return fromError[*models.User](u.logger, op, err, "")
	}
	u.logger.Info("user registered", "id", user.ID)
	return ok(user)
}

// Login returns the user whose email and password match. Unknown emails and
// wrong passwords produce the same rejection.
func (u *UserRepository) Login(ctx context.Context, email, password string) (Result[*models.User], error) {
	const op = "login"
	user, err := u.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return Result[*models.User]{}, fmt.Errorf("%s: %w", op, err)
	}
	if user == nil {
		return reject[*models.User](u.logger, op, ReasonInvalidCredentials, "")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Credential), []byte(password)); err != nil {
		return reject[*models.User](u.logger, op, ReasonInvalidCredentials, "")
	}
	return ok(user)
}

// GetByID returns the user, or nil when there is none.
func (u *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return lookup(ctx, u.db, func(r *storage.Reader) (*models.User, error) { return r.UserByID(id) })
}

// GetByEmail returns the user with this exact email, or nil when there is none.
func (u *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return lookup(ctx, u.db, func(r *storage.Reader) (*models.User, error) { return r.UserByEmail(email) })
}

// UpdateUser replaces a stored user. An empty Credential keeps the stored one.
func (u *UserRepository) UpdateUser(ctx context.Context, user *models.User) (Result[*models.User], error) {
	const op = "update user"
	name, named := cleanName(user.Name)
	if !named {
		return reject[*models.User](u.logger, op, ReasonInvalidInput, "name is required")
	}
	updated := *user
	updated.Name = name
	updated.Email = strings.TrimSpace(user.Email)

	err := u.db.Update(ctx, func(w *storage.Writer) error {
		if updated.Credential == "" {
			stored, err := w.UserByID(updated.ID)
			if err != nil {
				return err
			}
			updated.Credential = stored.Credential
		}
		return w.UpdateUser(&updated)
	})
	if err != nil {
		return fromError[*models.User](u.logger, op, err, ReasonUserNotFound)
	}
	return ok(&updated)
}

// ChangePassword replaces the stored credential after checking the current one.
func (u *UserRepository) ChangePassword(ctx context.Context, id int64, current, next string) (Result[struct{}], error) {
	const op = "change password"
	if next == "" {
		return reject[struct{}](u.logger, op, ReasonInvalidInput, "password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), u.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return reject[struct{}](u.logger, op, ReasonInvalidInput, "password is too long")
	}
	if err != nil {
		return Result[struct{}]{}, fmt.Errorf("%s: hash password: %w", op, err)
	}

	err = u.db.Update(ctx, func(w *storage.Writer) error {
		user, err := w.UserByID(id)
		if err != nil {
			return err
		}
		if bcrypt.CompareHashAndPassword([]byte(user.Credential), []byte(current)) != nil {
			return newRejection(ReasonInvalidCredentials, "")
		}
		user.Credential = string(hash)
		return w.UpdateUser(user)
	})
	if err != nil {
		return fromError[struct{}](u.logger, op, err, ReasonUserNotFound)
	}
	return ok(struct{}{})
}

// UpdateProfilePhoto sets or clears the profile photo.
func (u *UserRepository) UpdateProfilePhoto(ctx context.Context, id int64, photo models.ImageRef) (Result[*models.User], error) {
	const op = "update profile photo"
	var user *models.User
	err := u.db.Update(ctx, func(w *storage.Writer) error {
		if err := w.SetProfilePhoto(id, photo); err != nil {
			return err
		}
		var err error
		user, err = w.UserByID(id)
		return err
	})
	if err != nil {
		return fromError[*models.User](u.logger, op, err, ReasonUserNotFound)
	}
	return ok(user)
}

// DeleteUser removes a user and everything they own.
func (u *UserRepository) DeleteUser(ctx context.Context, id int64) (Result[struct{}], error) {
	err := u.db.Update(ctx, func(w *storage.Writer) error { return w.DeleteUser(id) })
	if err != nil {
		return fromError[struct{}](u.logger, "delete user", err, ReasonUserNotFound)
	}
	u.logger.Info("user deleted", "id", id)
	return ok(struct{}{})
}

// AllUsers returns every user ordered by ID.
func (u *UserRepository) AllUsers(ctx context.Context) ([]models.User, error) {
	return storage.Get(ctx, u.db, func(r *storage.Reader) ([]models.User, error) { return r.AllUsers() })
}

// WatchAllUsers streams the user list, re-emitting after any user write.
func (u *UserRepository) WatchAllUsers(ctx context.Context) *live.Subscription[[]models.User] {
	return watch(ctx, u.db, u.logger, "all users", func(r *storage.Reader) ([]models.User, error) {
		return r.AllUsers()
	})
}

// WatchUser streams one user; the value is nil while the user is absent.
func (u *UserRepository) WatchUser(ctx context.Context, id int64) *live.Subscription[*models.User] {
	return watch(ctx, u.db, u.logger, "user", func(r *storage.Reader) (*models.User, error) {
		return optional(r.UserByID(id))
	})
}

// lookup runs a single-row read and maps ErrNotFound to a nil value.
func lookup[T any](ctx context.Context, db *storage.DB, query func(r *storage.Reader) (*T, error)) (*T, error) {
	return storage.Get(ctx, db, func(r *storage.Reader) (*T, error) {
		return optional(query(r))
	})
}

func optional[T any](v *T, err error) (*T, error) {
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	return v, err
}

func watch[T any](ctx context.Context, db *storage.DB, logger *log.Logger, name string, query func(r *storage.Reader) (T, error)) *live.Subscription[T] {
	sub := storage.Watch(ctx, db, query)
	logger.Debug("subscribed", "query", name, "subscription", sub.ID())
	return sub
}

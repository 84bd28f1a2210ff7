// ABOUTME: Location facade: saved workout places with live queries by user and type.
// ABOUTME: Deleting a location clears it from routines rather than deleting them.
package repository

import (
	"context"
	"strings"

	"github.com/harperreed/fitlife/internal/live"
	"github.com/harperreed/fitlife/internal/models"
	"github.com/harperreed/fitlife/internal/storage"
)

// LocationRepository is the facade for saved locations.
type LocationRepository struct {
	facade
}

// NewLocationRepository creates the location facade.
func NewLocationRepository(db *storage.DB, opts *Options) *LocationRepository {
	return &LocationRepository{facade: newFacade(db, opts)}
}

func normalizeLocation(l *models.Location) (*models.Location, *Rejection) {
	name, named := cleanName(l.Name)
	if !named {
		return nil, newRejection(ReasonInvalidInput, "location name is required")
	}
	if l.Latitude < -90 || l.Latitude > 90 || l.Longitude < -180 || l.Longitude > 180 {
		return nil, newRejection(ReasonInvalidInput, "coordinates out of range")
	}
	out := *l
	out.Name = name
	out.Address = strings.TrimSpace(l.Address)
	if out.LocationType == "" {
		out.LocationType = models.LocationGym
	}
	t, known := models.ParseLocationType(string(out.LocationType))
	if !known {
		return nil, newRejection(ReasonInvalidInput, "unknown location type "+string(out.LocationType))
	}
	out.LocationType = t
	return &out, nil
}

// AddLocation stores a new location for its user.
func (lr *LocationRepository) AddLocation(ctx context.Context, l *models.Location) (Result[*models.Location], error) {
	const op = "add location"
	loc, rej := normalizeLocation(l)
	if rej != nil {
		return fromError[*models.Location](lr.logger, op, rej, "")
	}
	loc.ID = 0
	if err := lr.db.Update(ctx, func(w *storage.Writer) error { return w.InsertLocation(loc) }); err != nil {
		return fromError[*models.Location](lr.logger, op, err, "")
	}
	return ok(loc)
}

// UpdateLocation replaces a stored location.
func (lr *LocationRepository) UpdateLocation(ctx context.Context, l *models.Location) (Result[*models.Location], error) {
	const op = "update location"
	loc, rej := normalizeLocation(l)
	if rej != nil {
		return fromError[*models.Location](lr.logger, op, rej, "")
	}
	if err := lr.db.Update(ctx, func(w *storage.Writer) error { return w.UpdateLocation(loc) }); err != nil {
		return fromError[*models.Location](lr.logger, op, err, ReasonLocationNotFound)
	}
	return ok(loc)
}

// DeleteLocation removes a location.
func (lr *LocationRepository) DeleteLocation(ctx context.Context, l *models.Location) (Result[struct{}], error) {
	return lr.DeleteLocationByID(ctx, l.ID)
}

// DeleteLocationByID removes a location; routines held there become unlocated.
func (lr *LocationRepository) DeleteLocationByID(ctx context.Context, id int64) (Result[struct{}], error) {
	if err := lr.db.Update(ctx, func(w *storage.Writer) error { return w.DeleteLocation(id) }); err != nil {
		return fromError[struct{}](lr.logger, "delete location", err, ReasonLocationNotFound)
	}
	return ok(struct{}{})
}

// GetLocation returns a location, or nil when there is none.
func (lr *LocationRepository) GetLocation(ctx context.Context, id int64) (*models.Location, error) {
	return lookup(ctx, lr.db, func(r *storage.Reader) (*models.Location, error) { return r.LocationByID(id) })
}

// AllLocationsForUser returns a one-shot snapshot of the user's locations.
func (lr *LocationRepository) AllLocationsForUser(ctx context.Context, userID int64) ([]models.Location, error) {
	return storage.Get(ctx, lr.db, func(r *storage.Reader) ([]models.Location, error) {
		return r.AllLocationsForUser(userID)
	})
}

// WatchLocations streams the user's locations sorted by name.
func (lr *LocationRepository) WatchLocations(ctx context.Context, userID int64) *live.Subscription[[]models.Location] {
	return watch(ctx, lr.db, lr.logger, "locations", func(r *storage.Reader) ([]models.Location, error) {
		return r.LocationsByUser(userID)
	})
}

// WatchLocationsByType streams the user's locations of one type.
func (lr *LocationRepository) WatchLocationsByType(ctx context.Context, userID int64, t models.LocationType) *live.Subscription[[]models.Location] {
	return watch(ctx, lr.db, lr.logger, "locations by type", func(r *storage.Reader) ([]models.Location, error) {
		return r.LocationsByType(userID, t)
	})
}

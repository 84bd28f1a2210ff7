// ABOUTME: GeoLocation model and LocationType enum for saved workout places.
// ABOUTME: Locations belong to a user; routines may reference one.
package models

import (
	"strings"
	"time"
)

// LocationType classifies a saved place. Values are persisted by name.
type LocationType string

const (
	LocationGym        LocationType = "GYM"
	LocationYogaStudio LocationType = "YOGA_STUDIO"
	LocationPark       LocationType = "PARK"
	LocationHome       LocationType = "HOME"
	LocationPool       LocationType = "POOL"
	LocationOther      LocationType = "OTHER"
)

// AllLocationTypes lists every location type in declaration order.
var AllLocationTypes = []LocationType{
	LocationGym, LocationYogaStudio, LocationPark, LocationHome, LocationPool, LocationOther,
}

var locationTypeInfo = map[LocationType]struct{ display, emoji string }{
	LocationGym:        {"Gym", "🏋️"},
	LocationYogaStudio: {"Yoga Studio", "🧘"},
	LocationPark:       {"Park", "🌳"},
	LocationHome:       {"Home", "🏠"},
	LocationPool:       {"Swimming Pool", "🏊"},
	LocationOther:      {"Other", "📍"},
}

// DisplayName returns the human label.
func (t LocationType) DisplayName() string {
	if info, ok := locationTypeInfo[t]; ok {
		return info.display
	}
	return locationTypeInfo[LocationOther].display
}

// Emoji returns the map marker icon.
func (t LocationType) Emoji() string {
	if info, ok := locationTypeInfo[t]; ok {
		return info.emoji
	}
	return locationTypeInfo[LocationOther].emoji
}

// ParseLocationType accepts a type name in any case ("yoga_studio", "POOL").
func ParseLocationType(s string) (LocationType, bool) {
	t := LocationType(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := locationTypeInfo[t]
	return t, ok
}

// Location is a saved place with coordinates.
type Location struct {
	ID           int64        `json:"id" yaml:"id"`
	UserID       int64        `json:"user_id" yaml:"user_id"`
	Name         string       `json:"name" yaml:"name"`
	Latitude     float64      `json:"latitude" yaml:"latitude"`
	Longitude    float64      `json:"longitude" yaml:"longitude"`
	LocationType LocationType `json:"location_type" yaml:"location_type"`
	Address      string       `json:"address,omitempty" yaml:"address,omitempty"`
	CreatedAt    time.Time    `json:"created_at" yaml:"created_at"`
}

// NewLocation creates a gym location at the given coordinates.
func NewLocation(userID int64, name string, lat, lng float64) *Location {
	return &Location{
		UserID:       userID,
		Name:         name,
		Latitude:     lat,
		Longitude:    lng,
		LocationType: LocationGym,
	}
}

// WithType sets the location type.
func (l *Location) WithType(t LocationType) *Location {
	l.LocationType = t
	return l
}

// WithAddress sets the street address.
func (l *Location) WithAddress(addr string) *Location {
	l.Address = addr
	return l
}

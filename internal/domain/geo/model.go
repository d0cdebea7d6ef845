package geo

import (
	"context"
	"errors"
)

var (
	// ErrNoMatch is returned when the geocoder has no feature for a query.
	ErrNoMatch = errors.New("no matching location")
	// ErrNoRoute is returned when the directions provider has no route candidate.
	ErrNoRoute = errors.New("no route between locations")
	// ErrUnauthorized signals the provider rejected the configured credentials.
	ErrUnauthorized = errors.New("provider rejected credentials")
	// ErrMissingAPIKey signals the provider key was never configured.
	ErrMissingAPIKey = errors.New("provider api key is not configured")
)

// Tier is the coarse cost level of a destination: 1 metro, 2 tourist city, 3 small town.
type Tier int

const (
	TierMetro   Tier = 1
	TierCity    Tier = 2
	TierTown    Tier = 3
	defaultTier      = TierCity
)

// Point is a resolved city.
type Point struct {
	Name      string  `json:"name"`
	Longitude float64 `json:"lon"`
	Latitude  float64 `json:"lat"`
	Tier      Tier    `json:"-"`
}

// ContextEntry is one administrative level from the geocoder (place, region, country...).
type ContextEntry struct {
	ID   string
	Text string
}

// Feature is the first geocoding match for a query.
type Feature struct {
	Name      string
	Longitude float64
	Latitude  float64
	// Context is nil when the provider returned no administrative context at all.
	Context []ContextEntry
}

// LineString is a GeoJSON geometry describing the driving path as [lon, lat] pairs.
type LineString struct {
	Type        string       `json:"type"`
	Coordinates [][2]float64 `json:"coordinates"`
}

// Directions is the primary driving route between two coordinates.
type Directions struct {
	DistanceKm float64
	Geometry   LineString
}

// Place is a point of interest returned by a category search.
type Place struct {
	Name      string
	Address   string
	Category  string
	Longitude float64
	Latitude  float64
}

// Provider abstracts the geocoding/directions vendor.
type Provider interface {
	Geocode(ctx context.Context, query string) (Feature, error)
	Directions(ctx context.Context, from, to Point) (Directions, error)
}

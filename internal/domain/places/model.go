// Package places finds points of interest around a destination city.
package places

import (
	"context"
	"time"

	"github.com/yanqian/trip-blueprint/internal/domain/geo"
)

// DefaultCategory is searched when the request names none.
const DefaultCategory = "tourist attraction"

// Request is bound from the query string.
type Request struct {
	City     string `form:"city" binding:"required"`
	Category string `form:"category" binding:"omitempty,max=64"`
}

// Place is one point of interest near the city centre.
type Place struct {
	Name       string  `json:"name"`
	Address    string  `json:"address,omitempty"`
	Category   string  `json:"category,omitempty"`
	Latitude   float64 `json:"lat"`
	Longitude  float64 `json:"lon"`
	DistanceKm float64 `json:"distanceKm"`
}

// Response lists places nearest first.
type Response struct {
	City     string  `json:"city"`
	Category string  `json:"category"`
	Places   []Place `json:"places"`
}

// CityResolver geocodes the requested city.
type CityResolver interface {
	ResolveCity(ctx context.Context, name string) (geo.Point, error)
}

// Searcher runs the point of interest lookup.
type Searcher interface {
	SearchPlaces(ctx context.Context, query string, near geo.Point, limit int) ([]geo.Place, error)
}

// Config wires runtime knobs for the places domain.
type Config struct {
	CacheTTL      time.Duration
	Limit         int
	MaxDistanceKm float64
}

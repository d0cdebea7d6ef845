package blueprint

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/trip-blueprint/internal/domain/forecast"
	"github.com/yanqian/trip-blueprint/internal/domain/geo"
)

// Request captures the payload accepted by the blueprint generator.
type Request struct {
	Origin          string `json:"origin" binding:"required"`
	DestinationName string `json:"destinationName" binding:"required"`
	DepartureDate   string `json:"departureDate" binding:"required,datetime=2006-01-02"`
	Duration        int    `json:"duration" binding:"required,min=1"`
	Travelers       int    `json:"travelers" binding:"required,min=1"`
}

// TripDetails identifies the trip a blueprint was generated for.
type TripDetails struct {
	Origin          string `json:"origin"`
	DestinationName string `json:"destinationName"`
	DepartureDate   string `json:"departureDate"`
	Duration        int    `json:"duration"`
	Travelers       int    `json:"travelers"`
}

// Route is the driving path between origin and destination.
type Route struct {
	DistanceKm  float64        `json:"distanceKm"`
	Origin      geo.Point      `json:"origin"`
	Destination geo.Point      `json:"destination"`
	Geometry    geo.LineString `json:"geometry"`
}

// FareOption is a per-person transport mode. CostPerPerson is nil when the mode is not viable.
type FareOption struct {
	CostPerPerson *int   `json:"costPerPerson"`
	Link          string `json:"link"`
}

// CarOption is priced for the whole party.
type CarOption struct {
	TotalCost int    `json:"totalCost"`
	Link      string `json:"link"`
}

// TransportOptions lists every transport mode considered.
type TransportOptions struct {
	Flight FareOption `json:"flight"`
	Bus    FareOption `json:"bus"`
	Car    CarOption  `json:"car"`
}

// Accommodation is the hotel estimate for the full stay.
type Accommodation struct {
	EstimatedTotalCost int    `json:"estimatedTotalCost"`
	Link               string `json:"link"`
}

// Budget summarises the whole trip.
type Budget struct {
	TotalEstimatedCost int `json:"totalEstimatedCost"`
	CostPerPerson      int `json:"costPerPerson"`
}

// Blueprint is the aggregate trip estimate. It is never mutated once generated.
type Blueprint struct {
	ID               string           `json:"id,omitempty"`
	TripDetails      TripDetails      `json:"tripDetails"`
	Route            Route            `json:"route"`
	WeatherForecast  []forecast.Day   `json:"weatherForecast"`
	TransportOptions TransportOptions `json:"transportOptions"`
	Accommodation    Accommodation    `json:"accommodation"`
	Budget           Budget           `json:"budget"`
	GeneratedAt      time.Time        `json:"generatedAt"`
}

// Cache stores generated blueprints for a fixed time-to-live.
type Cache interface {
	Get(ctx context.Context, key string) (Blueprint, bool, error)
	Set(ctx context.Context, key string, bp Blueprint, ttl time.Duration) error
}

// Archive keeps generated blueprints addressable by ID.
type Archive interface {
	Save(ctx context.Context, bp Blueprint) error
	Find(ctx context.Context, id uuid.UUID) (Blueprint, bool, error)
}

// Config wires runtime knobs for the blueprint domain.
type Config struct {
	CacheTTL time.Duration
	// BuildTimeout bounds one shared generation, independent of any single caller.
	BuildTimeout time.Duration
}

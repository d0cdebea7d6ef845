package geo

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Resolver turns free text city names into classified points and routes.
type Resolver struct {
	provider   Provider
	classifier *TierClassifier
	logger     *slog.Logger
}

// NewResolver wires a geocoding provider with the tier classifier.
func NewResolver(provider Provider, classifier *TierClassifier, logger *slog.Logger) *Resolver {
	return &Resolver{
		provider:   provider,
		classifier: classifier,
		logger:     logger.With("component", "geo.resolver"),
	}
}

// ResolveCity geocodes name and classifies its tier.
func (r *Resolver) ResolveCity(ctx context.Context, name string) (Point, error) {
	feature, err := r.provider.Geocode(ctx, strings.TrimSpace(name))
	if err != nil {
		return Point{}, err
	}
	tier, basis := r.classifier.Classify(feature.Context)
	if basis.Defaulted() {
		r.logger.Warn("tier derived from fallback", "query", name, "name", feature.Name, "tier", int(tier), "basis", string(basis))
	}
	return Point{
		Name:      feature.Name,
		Longitude: feature.Longitude,
		Latitude:  feature.Latitude,
		Tier:      tier,
	}, nil
}

// ResolveRoute returns the primary driving route between two points.
func (r *Resolver) ResolveRoute(ctx context.Context, from, to Point) (Directions, error) {
	directions, err := r.provider.Directions(ctx, from, to)
	if err != nil {
		return Directions{}, err
	}
	if len(directions.Geometry.Coordinates) == 0 && directions.DistanceKm == 0 {
		return Directions{}, fmt.Errorf("empty route: %w", ErrNoRoute)
	}
	return directions, nil
}

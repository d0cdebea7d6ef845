package places

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/yanqian/trip-blueprint/internal/domain/geo"
	apperrors "github.com/yanqian/trip-blueprint/pkg/errors"
)

const (
	defaultLimit         = 10
	defaultMaxDistanceKm = 50
	defaultCacheTTL      = 30 * time.Minute
	earthRadiusKm        = 6371.0
)

// Service exposes point of interest search.
type Service interface {
	PointsOfInterest(ctx context.Context, req Request) (Response, error)
}

type service struct {
	cfg      Config
	resolver CityResolver
	searcher Searcher
	cache    *cache.Cache
	logger   *slog.Logger
}

// NewService wires the places domain.
func NewService(cfg Config, resolver CityResolver, searcher Searcher, logger *slog.Logger) Service {
	if cfg.Limit <= 0 {
		cfg.Limit = defaultLimit
	}
	if cfg.MaxDistanceKm <= 0 {
		cfg.MaxDistanceKm = defaultMaxDistanceKm
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	return &service{
		cfg:      cfg,
		resolver: resolver,
		searcher: searcher,
		cache:    cache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		logger:   logger.With("component", "places.service"),
	}
}

func (s *service) PointsOfInterest(ctx context.Context, req Request) (Response, error) {
	city := strings.TrimSpace(req.City)
	if city == "" {
		return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, "city is required", nil)
	}
	category := strings.ToLower(strings.TrimSpace(req.Category))
	if category == "" {
		category = DefaultCategory
	}

	key := strings.ToLower(city) + "|" + category
	if cached, ok := s.cache.Get(key); ok {
		return cached.(Response), nil
	}

	center, err := s.resolver.ResolveCity(ctx, city)
	if err != nil {
		return Response{}, geoError(err, "could not find the city")
	}
	found, err := s.searcher.SearchPlaces(ctx, category, center, s.cfg.Limit)
	if err != nil {
		return Response{}, geoError(err, "could not find places")
	}

	resp := Response{City: center.Name, Category: category, Places: make([]Place, 0, len(found))}
	for _, p := range found {
		d := distanceKm(center.Latitude, center.Longitude, p.Latitude, p.Longitude)
		if d > s.cfg.MaxDistanceKm {
			continue
		}
		resp.Places = append(resp.Places, Place{
			Name:       p.Name,
			Address:    p.Address,
			Category:   p.Category,
			Latitude:   p.Latitude,
			Longitude:  p.Longitude,
			DistanceKm: math.Round(d*10) / 10,
		})
	}
	sort.SliceStable(resp.Places, func(i, j int) bool {
		return resp.Places[i].DistanceKm < resp.Places[j].DistanceKm
	})

	s.cache.SetDefault(key, resp)
	s.logger.Info("places found", "city", center.Name, "category", category, "count", len(resp.Places), "dropped", len(found)-len(resp.Places))
	return resp, nil
}

func geoError(err error, notFound string) error {
	switch {
	case errors.Is(err, geo.ErrMissingAPIKey):
		return apperrors.Wrap(apperrors.CodeConfiguration, "server configuration error: Mapbox API key is missing", err)
	case errors.Is(err, geo.ErrUnauthorized):
		return apperrors.Wrap(apperrors.CodeConfiguration, "server configuration error: invalid Mapbox API key", err)
	case errors.Is(err, geo.ErrNoMatch):
		return apperrors.Wrap(apperrors.CodeNotFound, notFound, err)
	}
	return apperrors.Wrap(apperrors.CodeUpstream, "failed to search places", err)
}

// distanceKm is the haversine great-circle distance.
func distanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

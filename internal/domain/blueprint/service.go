package blueprint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/yanqian/trip-blueprint/internal/domain/forecast"
	"github.com/yanqian/trip-blueprint/internal/domain/geo"
	"github.com/yanqian/trip-blueprint/internal/domain/pricing"
	apperrors "github.com/yanqian/trip-blueprint/pkg/errors"
	"github.com/yanqian/trip-blueprint/pkg/util"
)

const defaultBuildTimeout = 30 * time.Second

// Service exposes trip blueprint generation.
type Service interface {
	Generate(ctx context.Context, req Request) (Blueprint, error)
	Get(ctx context.Context, id string) (Blueprint, error)
}

// GeoResolver resolves cities and the route between them.
type GeoResolver interface {
	ResolveCity(ctx context.Context, name string) (geo.Point, error)
	ResolveRoute(ctx context.Context, from, to geo.Point) (geo.Directions, error)
}

type service struct {
	cfg     Config
	geo     GeoResolver
	weather forecast.Provider
	cache   Cache
	archive Archive
	clock   util.Clock
	newID   func() uuid.UUID
	flights singleflight.Group
	tracer  trace.Tracer
	logger  *slog.Logger
}

// NewService wires up the blueprint domain.
func NewService(cfg Config, resolver GeoResolver, weather forecast.Provider, cache Cache, archive Archive, clock util.Clock, logger *slog.Logger) Service {
	return &service{
		cfg:     cfg,
		geo:     resolver,
		weather: weather,
		cache:   cache,
		archive: archive,
		clock:   clock,
		newID:   uuid.New,
		tracer:  otel.Tracer("blueprint.service"),
		logger:  logger.With("component", "blueprint.service"),
	}
}

// CacheKey derives the cache entry key from the exact request tuple.
func CacheKey(d TripDetails) string {
	return fmt.Sprintf("trip_%s_%s_%s_%d_%d", d.Origin, d.DestinationName, d.DepartureDate, d.Duration, d.Travelers)
}

func (s *service) Generate(ctx context.Context, req Request) (Blueprint, error) {
	details, err := validateRequest(req)
	if err != nil {
		return Blueprint{}, err
	}

	key := CacheKey(details)
	if bp, ok := s.lookup(ctx, key); ok {
		s.logger.Info("blueprint cache hit", "key", key)
		return bp, nil
	}

	// Shared builds are detached from the caller that started them.
	ch := s.flights.DoChan(key, func() (any, error) {
		buildCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.buildTimeout())
		defer cancel()
		if bp, ok := s.lookup(buildCtx, key); ok {
			return bp, nil
		}
		bp, err := s.build(buildCtx, details)
		if err != nil {
			return Blueprint{}, err
		}
		if err := s.cache.Set(buildCtx, key, bp, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("blueprint cache write failed", "key", key, "error", err)
		}
		return bp, nil
	})

	select {
	case <-ctx.Done():
		return Blueprint{}, apperrors.Wrap(apperrors.CodeUpstream, "blueprint request cancelled", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return Blueprint{}, res.Err
		}
		if res.Shared {
			s.logger.Debug("blueprint generation shared with concurrent request", "key", key)
		}
		return res.Val.(Blueprint), nil
	}
}

func (s *service) buildTimeout() time.Duration {
	if s.cfg.BuildTimeout > 0 {
		return s.cfg.BuildTimeout
	}
	return defaultBuildTimeout
}

func (s *service) Get(ctx context.Context, id string) (Blueprint, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return Blueprint{}, apperrors.Wrap(apperrors.CodeInvalidInput, "blueprint id must be a UUID", err)
	}
	bp, found, err := s.archive.Find(ctx, parsed)
	if err != nil {
		return Blueprint{}, apperrors.Wrap(apperrors.CodeArchive, "blueprint lookup failed", err)
	}
	if !found {
		return Blueprint{}, apperrors.Wrap(apperrors.CodeNotFound, "blueprint not found", nil)
	}
	return bp, nil
}

func (s *service) lookup(ctx context.Context, key string) (Blueprint, bool) {
	bp, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("blueprint cache read failed", "key", key, "error", err)
		return Blueprint{}, false
	}
	return bp, ok
}

func (s *service) build(ctx context.Context, details TripDetails) (bp Blueprint, err error) {
	ctx, span := s.tracer.Start(ctx, "blueprint.build", trace.WithAttributes(
		attribute.String("trip.origin", details.Origin),
		attribute.String("trip.destination", details.DestinationName),
		attribute.Int("trip.duration", details.Duration),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, apperrors.Message(err))
		}
		span.End()
	}()

	start, err := util.ParseDate(details.DepartureDate)
	if err != nil {
		return Blueprint{}, apperrors.Wrap(apperrors.CodeInvalidInput, "departureDate must be formatted as YYYY-MM-DD", err)
	}

	var (
		destination, origin geo.Point
		destErr, originErr  error
		g                   errgroup.Group
	)
	g.Go(func() error {
		destination, destErr = s.geo.ResolveCity(ctx, details.DestinationName)
		return destErr
	})
	g.Go(func() error {
		origin, originErr = s.geo.ResolveCity(ctx, details.Origin)
		return originErr
	})
	_ = g.Wait()
	if destErr != nil {
		return Blueprint{}, locationError(destErr, true)
	}
	if originErr != nil {
		return Blueprint{}, locationError(originErr, false)
	}
	span.AddEvent("locations resolved")

	directions, err := s.geo.ResolveRoute(ctx, origin, destination)
	if err != nil {
		if cfgErr := geoConfigError(err); cfgErr != nil {
			return Blueprint{}, cfgErr
		}
		return Blueprint{}, apperrors.Wrap(apperrors.CodeUpstream, "failed to calculate route", err)
	}

	entries, err := s.weather.Forecast(ctx, destination.Latitude, destination.Longitude)
	if err != nil {
		if errors.Is(err, forecast.ErrMissingAPIKey) {
			return Blueprint{}, apperrors.Wrap(apperrors.CodeConfiguration, "server configuration error: weather API key is missing", err)
		}
		return Blueprint{}, apperrors.Wrap(apperrors.CodeUpstream, "failed to fetch weather forecast", err)
	}
	days := forecast.Normalize(entries, start, details.Duration, s.clock.Now())

	distance := directions.DistanceKm
	flight := pricing.FlightCost(distance)
	bus := pricing.BusCost(distance)
	car := pricing.CarCost(distance, 1, pricing.CarSedan)
	hotel := pricing.HotelCost(int(destination.Tier), details.Duration, pricing.RoomStandard)

	bp = Blueprint{
		TripDetails: TripDetails{
			Origin:          details.Origin,
			DestinationName: destination.Name,
			DepartureDate:   details.DepartureDate,
			Duration:        details.Duration,
			Travelers:       details.Travelers,
		},
		Route: Route{
			DistanceKm:  distance,
			Origin:      geo.Point{Name: details.Origin, Longitude: origin.Longitude, Latitude: origin.Latitude},
			Destination: geo.Point{Name: destination.Name, Longitude: destination.Longitude, Latitude: destination.Latitude},
			Geometry:    directions.Geometry,
		},
		WeatherForecast: days,
		TransportOptions: TransportOptions{
			Flight: FareOption{CostPerPerson: flight, Link: flightLink(details.Origin, destination.Name)},
			Bus:    FareOption{CostPerPerson: bus, Link: busLink(details.Origin, destination.Name)},
			Car:    CarOption{TotalCost: car, Link: carLink()},
		},
		Accommodation: Accommodation{
			EstimatedTotalCost: hotel,
			Link:               hotelLink(destination.Name),
		},
		Budget:      ComputeBudget(hotel, int(destination.Tier), details.Duration, details.Travelers, flight, bus, car),
		GeneratedAt: s.clock.Now().UTC(),
	}

	id := s.newID()
	bp.ID = id.String()
	if err := s.archive.Save(ctx, bp); err != nil {
		s.logger.Warn("blueprint archive failed, returning unarchived blueprint", "error", err)
		bp.ID = ""
	}

	s.logger.Info("blueprint generated",
		"origin", details.Origin,
		"destination", destination.Name,
		"distance_km", distance,
		"tier", int(destination.Tier),
		"total", bp.Budget.TotalEstimatedCost,
	)
	return bp, nil
}

func validateRequest(req Request) (TripDetails, error) {
	details := TripDetails{
		Origin:          strings.TrimSpace(req.Origin),
		DestinationName: strings.TrimSpace(req.DestinationName),
		DepartureDate:   strings.TrimSpace(req.DepartureDate),
		Duration:        req.Duration,
		Travelers:       req.Travelers,
	}
	switch {
	case details.Origin == "":
		return TripDetails{}, apperrors.Wrap(apperrors.CodeInvalidInput, "origin city is required", nil)
	case details.DestinationName == "":
		return TripDetails{}, apperrors.Wrap(apperrors.CodeInvalidInput, "destination city is required", nil)
	case details.Duration < 1:
		return TripDetails{}, apperrors.Wrap(apperrors.CodeInvalidInput, "duration must be at least 1 day", nil)
	case details.Travelers < 1:
		return TripDetails{}, apperrors.Wrap(apperrors.CodeInvalidInput, "travelers must be at least 1", nil)
	}
	if _, err := util.ParseDate(details.DepartureDate); err != nil {
		return TripDetails{}, apperrors.Wrap(apperrors.CodeInvalidInput, "departureDate must be formatted as YYYY-MM-DD", err)
	}
	return details, nil
}

func locationError(err error, destination bool) error {
	if cfgErr := geoConfigError(err); cfgErr != nil {
		return cfgErr
	}
	side := "origin"
	if destination {
		side = "destination"
	}
	if errors.Is(err, geo.ErrNoMatch) {
		code := apperrors.CodeOriginNotFound
		if destination {
			code = apperrors.CodeNotFound
		}
		return apperrors.Wrap(code, "could not find the "+side+" city", err)
	}
	return apperrors.Wrap(apperrors.CodeUpstream, "failed to find "+side+" location", err)
}

func geoConfigError(err error) error {
	switch {
	case errors.Is(err, geo.ErrMissingAPIKey):
		return apperrors.Wrap(apperrors.CodeConfiguration, "server configuration error: Mapbox API key is missing", err)
	case errors.Is(err, geo.ErrUnauthorized):
		return apperrors.Wrap(apperrors.CodeConfiguration, "server configuration error: invalid Mapbox API key", err)
	}
	return nil
}

package discovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"github.com/yanqian/trip-blueprint/internal/domain/forecast"
	"github.com/yanqian/trip-blueprint/internal/domain/pricing"
	apperrors "github.com/yanqian/trip-blueprint/pkg/errors"
)

const (
	otherCostPerTierDay = 1500
	defaultConcurrency  = 4
	defaultCacheTTL     = 10 * time.Minute
)

// Service exposes destination discovery.
type Service interface {
	Discover(ctx context.Context, req Request) (Response, error)
}

type service struct {
	cfg     Config
	weather WeatherProvider
	cache   *cache.Cache
	logger  *slog.Logger
}

// NewService wires the discovery domain.
func NewService(cfg Config, weather WeatherProvider, logger *slog.Logger) Service {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	if len(cfg.Destinations) == 0 {
		cfg.Destinations = DefaultDestinations
	}
	return &service{
		cfg:     cfg,
		weather: weather,
		cache:   cache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		logger:  logger.With("component", "discovery.service"),
	}
}

func (s *service) Discover(ctx context.Context, req Request) (Response, error) {
	pref, ok := ParsePreference(req.Weather)
	if !ok {
		return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, "weather must be one of Hot, Warm, Cool, Snowy", nil)
	}
	if req.Duration < 1 {
		return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, "duration must be at least 1 day", nil)
	}

	var (
		mu       sync.Mutex
		results  []Result
		failures int
		firstErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for _, dest := range s.cfg.Destinations {
		g.Go(func() error {
			cond, err := s.current(gctx, dest)
			if err != nil {
				if errors.Is(err, forecast.ErrMissingAPIKey) {
					return err
				}
				s.logger.Warn("current weather unavailable", "destination", dest.Name, "error", err)
				mu.Lock()
				failures++
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return nil
			}
			if !pref.Matches(cond.Temperature) {
				return nil
			}
			mu.Lock()
			results = append(results, Result{
				Name:                   dest.Name,
				Tier:                   dest.Tier,
				CurrentTemp:            cond.Temperature,
				WeatherDescription:     cond.Description,
				EstimatedCostPerPerson: EstimateCostPerPerson(dest.Tier, req.Duration),
			})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Response{}, apperrors.Wrap(apperrors.CodeConfiguration, "server configuration error: weather API key is missing", err)
	}
	if failures == len(s.cfg.Destinations) {
		return Response{}, apperrors.Wrap(apperrors.CodeUpstream, "failed to fetch current weather", firstErr)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].EstimatedCostPerPerson == results[j].EstimatedCostPerPerson {
			return results[i].Name < results[j].Name
		}
		return results[i].EstimatedCostPerPerson < results[j].EstimatedCostPerPerson
	})
	if results == nil {
		results = []Result{}
	}
	s.logger.Info("destinations discovered", "weather", string(pref), "duration", req.Duration, "matches", len(results))
	return Response{Weather: pref, Duration: req.Duration, Destinations: results}, nil
}

func (s *service) current(ctx context.Context, dest Destination) (Conditions, error) {
	key := cacheKey(dest)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(Conditions), nil
	}
	cond, err := s.weather.Current(ctx, dest.Latitude, dest.Longitude)
	if err != nil {
		return Conditions{}, fmt.Errorf("%s: %w", dest.Name, err)
	}
	s.cache.SetDefault(key, cond)
	return cond, nil
}

// EstimateCostPerPerson prices a standard-room stay plus daily spend for one traveler.
func EstimateCostPerPerson(tier, duration int) int {
	hotel := pricing.HotelCost(tier, duration, pricing.RoomStandard)
	return pricing.RoundTo(100, float64(hotel+otherCostPerTierDay*tier*duration))
}

func cacheKey(dest Destination) string {
	return strconv.FormatFloat(dest.Latitude, 'f', 4, 64) + "," + strconv.FormatFloat(dest.Longitude, 'f', 4, 64)
}

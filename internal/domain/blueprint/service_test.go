package blueprint

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/trip-blueprint/internal/domain/forecast"
	"github.com/yanqian/trip-blueprint/internal/domain/geo"
	apperrors "github.com/yanqian/trip-blueprint/pkg/errors"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type stubGeo struct {
	cities   map[string]geo.Point
	cityErr  map[string]error
	route    geo.Directions
	routeErr error
	calls    atomic.Int32

	// gate, when set, holds city lookups until closed; started closes on the first lookup.
	gate    chan struct{}
	started chan struct{}
	once    sync.Once
}

func (s *stubGeo) ResolveCity(ctx context.Context, name string) (geo.Point, error) {
	s.calls.Add(1)
	if s.gate != nil {
		s.once.Do(func() { close(s.started) })
		select {
		case <-s.gate:
		case <-ctx.Done():
			return geo.Point{}, ctx.Err()
		}
	}
	if err, ok := s.cityErr[name]; ok {
		return geo.Point{}, err
	}
	p, ok := s.cities[name]
	if !ok {
		return geo.Point{}, geo.ErrNoMatch
	}
	return p, nil
}

func (s *stubGeo) ResolveRoute(context.Context, geo.Point, geo.Point) (geo.Directions, error) {
	s.calls.Add(1)
	return s.route, s.routeErr
}

type stubWeather struct {
	entries []forecast.Entry
	err     error
	calls   atomic.Int32
}

func (s *stubWeather) Forecast(context.Context, float64, float64) ([]forecast.Entry, error) {
	s.calls.Add(1)
	return s.entries, s.err
}

type mapCache struct {
	mu    sync.Mutex
	items map[string]Blueprint
}

func (c *mapCache) Get(_ context.Context, key string) (Blueprint, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	bp, ok := c.items[key]
	return bp, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, bp Blueprint, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = bp
	return nil
}

type mapArchive struct {
	mu      sync.Mutex
	items   map[uuid.UUID]Blueprint
	saveErr error
}

func (a *mapArchive) Save(_ context.Context, bp Blueprint) error {
	if a.saveErr != nil {
		return a.saveErr
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.items[uuid.MustParse(bp.ID)] = bp
	return nil
}

func (a *mapArchive) Find(_ context.Context, id uuid.UUID) (Blueprint, bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	bp, ok := a.items[id]
	return bp, ok, nil
}

type fixture struct {
	svc     *service
	geo     *stubGeo
	weather *stubWeather
	cache   *mapCache
	archive *mapArchive
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	g := &stubGeo{
		cities: map[string]geo.Point{
			"Mumbai": {Name: "Mumbai, Maharashtra, India", Longitude: 72.88, Latitude: 19.07, Tier: geo.TierMetro},
			"Goa":    {Name: "Goa, India", Longitude: 74.12, Latitude: 15.3, Tier: geo.TierMetro},
		},
		route: geo.Directions{
			DistanceKm: 590,
			Geometry:   geo.LineString{Type: "LineString", Coordinates: [][2]float64{{72.88, 19.07}, {74.12, 15.3}}},
		},
	}
	w := &stubWeather{entries: []forecast.Entry{
		{Time: time.Date(2026, 11, 1, 9, 0, 0, 0, time.UTC), TempMax: 31, TempMin: 24, Description: "clear sky", Icon: "01d"},
		{Time: time.Date(2026, 11, 2, 9, 0, 0, 0, time.UTC), TempMax: 30, TempMin: 23, Description: "few clouds", Icon: "02d"},
	}}
	cache := &mapCache{items: map[string]Blueprint{}}
	archive := &mapArchive{items: map[uuid.UUID]Blueprint{}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := fixedClock{now: time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)}

	svc := NewService(Config{CacheTTL: time.Hour}, g, w, cache, archive, clock, logger).(*service)
	return &fixture{svc: svc, geo: g, weather: w, cache: cache, archive: archive}
}

func goaRequest() Request {
	return Request{Origin: "Mumbai", DestinationName: "Goa", DepartureDate: "2026-11-01", Duration: 2, Travelers: 2}
}

func TestGenerateBuildsBlueprint(t *testing.T) {
	f := newFixture(t)

	bp, err := f.svc.Generate(context.Background(), goaRequest())
	require.NoError(t, err)

	require.NotEmpty(t, bp.ID)
	require.Equal(t, "Goa, India", bp.TripDetails.DestinationName)
	require.Equal(t, "Mumbai", bp.TripDetails.Origin)
	require.Equal(t, "Mumbai", bp.Route.Origin.Name)
	require.Equal(t, 590.0, bp.Route.DistanceKm)
	require.Len(t, bp.WeatherForecast, 2)
	require.Equal(t, "2026-11-01", bp.WeatherForecast[0].Date)
	require.NotNil(t, bp.TransportOptions.Flight.CostPerPerson)
	require.NotNil(t, bp.TransportOptions.Bus.CostPerPerson)
	require.Contains(t, bp.TransportOptions.Flight.Link, "skyscanner")
	require.Contains(t, bp.Accommodation.Link, "booking.com")
	require.Positive(t, bp.Budget.TotalEstimatedCost)
	require.Zero(t, bp.Budget.TotalEstimatedCost%100)
	require.Zero(t, bp.Budget.CostPerPerson%100)

	stored, err := f.svc.Get(context.Background(), bp.ID)
	require.NoError(t, err)
	require.Equal(t, bp.Budget, stored.Budget)
}

func TestGenerateServesRepeatFromCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Generate(ctx, goaRequest())
	require.NoError(t, err)
	geoCalls, weatherCalls := f.geo.calls.Load(), f.weather.calls.Load()

	second, err := f.svc.Generate(ctx, goaRequest())
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, geoCalls, f.geo.calls.Load())
	require.Equal(t, weatherCalls, f.weather.calls.Load())
}

func TestGenerateSharedBuildSurvivesCallerCancellation(t *testing.T) {
	f := newFixture(t)
	f.geo.gate = make(chan struct{})
	f.geo.started = make(chan struct{})

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := f.svc.Generate(ctxA, goaRequest())
		errA <- err
	}()
	<-f.geo.started

	type result struct {
		bp  Blueprint
		err error
	}
	resB := make(chan result, 1)
	go func() {
		bp, err := f.svc.Generate(context.Background(), goaRequest())
		resB <- result{bp, err}
	}()

	cancelA()
	err := <-errA
	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)

	close(f.geo.gate)
	got := <-resB
	require.NoError(t, got.err)
	require.Equal(t, "Goa, India", got.bp.TripDetails.DestinationName)
	require.Len(t, f.cache.items, 1)
}

func TestGenerateDoesNotCacheFailures(t *testing.T) {
	f := newFixture(t)
	f.weather.err = errors.New("boom")

	_, err := f.svc.Generate(context.Background(), goaRequest())
	require.True(t, apperrors.IsCode(err, apperrors.CodeUpstream))
	require.Empty(t, f.cache.items)

	f.weather.err = nil
	_, err = f.svc.Generate(context.Background(), goaRequest())
	require.NoError(t, err)
	require.Len(t, f.cache.items, 1)
}

func TestGenerateErrorCodes(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *fixture)
		req   func() Request
		code  string
	}{
		{
			name:  "unknown destination",
			setup: func(*fixture) {},
			req: func() Request {
				r := goaRequest()
				r.DestinationName = "Atlantis"
				return r
			},
			code: apperrors.CodeNotFound,
		},
		{
			name:  "unknown origin",
			setup: func(*fixture) {},
			req: func() Request {
				r := goaRequest()
				r.Origin = "Nowhere"
				return r
			},
			code: apperrors.CodeOriginNotFound,
		},
		{
			name: "destination checked before origin",
			setup: func(f *fixture) {
				f.geo.cityErr = map[string]error{"Goa": errors.New("timeout")}
			},
			req: func() Request {
				r := goaRequest()
				r.Origin = "Nowhere"
				return r
			},
			code: apperrors.CodeUpstream,
		},
		{
			name: "rejected mapbox key",
			setup: func(f *fixture) {
				f.geo.cityErr = map[string]error{"Mumbai": geo.ErrUnauthorized}
			},
			req:  goaRequest,
			code: apperrors.CodeConfiguration,
		},
		{
			name:  "missing weather key",
			setup: func(f *fixture) { f.weather.err = forecast.ErrMissingAPIKey },
			req:   goaRequest,
			code:  apperrors.CodeConfiguration,
		},
		{
			name:  "no route",
			setup: func(f *fixture) { f.geo.routeErr = geo.ErrNoRoute },
			req:   goaRequest,
			code:  apperrors.CodeUpstream,
		},
		{
			name:  "bad date",
			setup: func(*fixture) {},
			req: func() Request {
				r := goaRequest()
				r.DepartureDate = "01/11/2026"
				return r
			},
			code: apperrors.CodeInvalidInput,
		},
		{
			name:  "zero travelers",
			setup: func(*fixture) {},
			req: func() Request {
				r := goaRequest()
				r.Travelers = 0
				return r
			},
			code: apperrors.CodeInvalidInput,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			tc.setup(f)
			_, err := f.svc.Generate(context.Background(), tc.req())
			require.Error(t, err)
			require.True(t, apperrors.IsCode(err, tc.code), "got %v", err)
		})
	}
}

func TestGenerateKeepsBlueprintWhenArchiveFails(t *testing.T) {
	f := newFixture(t)
	f.archive.saveErr = errors.New("db down")

	bp, err := f.svc.Generate(context.Background(), goaRequest())
	require.NoError(t, err)
	require.Empty(t, bp.ID)
	require.Positive(t, bp.Budget.TotalEstimatedCost)
}

func TestGetValidatesID(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Get(context.Background(), "not-a-uuid")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	_, err = f.svc.Get(context.Background(), uuid.NewString())
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestComputeBudget(t *testing.T) {
	t.Run("car only", func(t *testing.T) {
		b := ComputeBudget(5000, 2, 2, 2, nil, nil, 5000)
		require.Equal(t, Budget{TotalEstimatedCost: 22000, CostPerPerson: 11000}, b)
	})
	t.Run("cheapest mode wins", func(t *testing.T) {
		bus := 800
		flight := 4000
		b := ComputeBudget(2000, 1, 1, 1, &flight, &bus, 9000)
		require.Equal(t, 2000+1500+800, b.TotalEstimatedCost)
	})
	t.Run("per person rounded", func(t *testing.T) {
		b := ComputeBudget(1000, 1, 1, 3, nil, nil, 1000)
		require.Equal(t, 6500, b.TotalEstimatedCost)
		require.Equal(t, 2200, b.CostPerPerson)
	})
}

func TestCacheKey(t *testing.T) {
	key := CacheKey(TripDetails{Origin: "Mumbai", DestinationName: "Goa", DepartureDate: "2026-11-01", Duration: 2, Travelers: 2})
	require.Equal(t, "trip_Mumbai_Goa_2026-11-01_2_2", key)
}

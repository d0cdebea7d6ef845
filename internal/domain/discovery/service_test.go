package discovery

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/trip-blueprint/internal/domain/forecast"
	apperrors "github.com/yanqian/trip-blueprint/pkg/errors"
)

type stubWeather struct {
	mu    sync.Mutex
	temps map[float64]float64
	errs  map[float64]error
	calls int
}

func (s *stubWeather) Current(_ context.Context, lat, _ float64) (Conditions, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if err, ok := s.errs[lat]; ok {
		return Conditions{}, err
	}
	return Conditions{Temperature: s.temps[lat], Description: "clear sky"}, nil
}

var catalogue = []Destination{
	{Name: "Goa", Latitude: 1, Tier: 1},
	{Name: "Jaipur", Latitude: 2, Tier: 2},
	{Name: "Manali", Latitude: 3, Tier: 3},
	{Name: "Kochi", Latitude: 4, Tier: 2},
}

func newTestService(w WeatherProvider) Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(Config{Concurrency: 2, Destinations: catalogue}, w, logger)
}

func TestDiscoverFiltersAndSorts(t *testing.T) {
	w := &stubWeather{temps: map[float64]float64{1: 31, 2: 27, 3: 4, 4: 27}}
	svc := newTestService(w)

	resp, err := svc.Discover(context.Background(), Request{Weather: "hot", Duration: 2})
	require.NoError(t, err)
	require.Equal(t, PreferenceHot, resp.Weather)

	names := make([]string, 0, len(resp.Destinations))
	for _, d := range resp.Destinations {
		names = append(names, d.Name)
	}
	// ties break on name.
	require.Equal(t, []string{"Goa", "Jaipur", "Kochi"}, names)
	require.Equal(t, 10000, resp.Destinations[0].EstimatedCostPerPerson)
	require.Equal(t, 11000, resp.Destinations[1].EstimatedCostPerPerson)
}

func TestDiscoverCachesConditions(t *testing.T) {
	w := &stubWeather{temps: map[float64]float64{1: 5, 2: 5, 3: 5, 4: 5}}
	svc := newTestService(w)

	_, err := svc.Discover(context.Background(), Request{Weather: "Snowy", Duration: 1})
	require.NoError(t, err)
	_, err = svc.Discover(context.Background(), Request{Weather: "Cool", Duration: 1})
	require.NoError(t, err)
	require.Equal(t, len(catalogue), w.calls)
}

func TestDiscoverSkipsSingleFailures(t *testing.T) {
	w := &stubWeather{
		temps: map[float64]float64{1: 18, 2: 18, 3: 18, 4: 18},
		errs:  map[float64]error{2: errors.New("timeout")},
	}
	svc := newTestService(w)

	resp, err := svc.Discover(context.Background(), Request{Weather: "Warm", Duration: 3})
	require.NoError(t, err)
	require.Len(t, resp.Destinations, 3)
}

func TestDiscoverErrors(t *testing.T) {
	allFail := &stubWeather{errs: map[float64]error{1: errors.New("x"), 2: errors.New("x"), 3: errors.New("x"), 4: errors.New("x")}}
	_, err := newTestService(allFail).Discover(context.Background(), Request{Weather: "Warm", Duration: 1})
	require.True(t, apperrors.IsCode(err, apperrors.CodeUpstream))

	noKey := &stubWeather{errs: map[float64]error{1: forecast.ErrMissingAPIKey}}
	_, err = newTestService(noKey).Discover(context.Background(), Request{Weather: "Warm", Duration: 1})
	require.True(t, apperrors.IsCode(err, apperrors.CodeConfiguration))

	_, err = newTestService(&stubWeather{}).Discover(context.Background(), Request{Weather: "Tropical", Duration: 1})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestPreferenceBands(t *testing.T) {
	require.True(t, PreferenceHot.Matches(25))
	require.False(t, PreferenceHot.Matches(24.9))
	require.True(t, PreferenceWarm.Matches(29))
	require.True(t, PreferenceCool.Matches(0))
	require.True(t, PreferenceSnowy.Matches(-20))
	require.False(t, PreferenceSnowy.Matches(10.5))
}

func TestEstimateCostPerPerson(t *testing.T) {
	// hotel 2500*2 + 1500*2*2
	require.Equal(t, 11000, EstimateCostPerPerson(2, 2))
}

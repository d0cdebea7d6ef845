package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/trip-blueprint/internal/domain/blueprint"
	"github.com/yanqian/trip-blueprint/internal/domain/discovery"
	"github.com/yanqian/trip-blueprint/internal/domain/export"
	"github.com/yanqian/trip-blueprint/internal/domain/places"
	"github.com/yanqian/trip-blueprint/internal/domain/suggestion"
	"github.com/yanqian/trip-blueprint/internal/infra/config"
	apperrors "github.com/yanqian/trip-blueprint/pkg/errors"
)

const validPlan = `{"origin":"Mumbai","destinationName":"Goa","departureDate":"2026-11-01","duration":2,"travelers":2}`

func TestRouter_GenerateBlueprintSuccess(t *testing.T) {
	svc := &stubBlueprints{
		generateFn: func(_ context.Context, req blueprint.Request) (blueprint.Blueprint, error) {
			require.Equal(t, "Goa", req.DestinationName)
			require.Equal(t, 2, req.Travelers)
			return blueprint.Blueprint{ID: "abc", Budget: blueprint.Budget{TotalEstimatedCost: 22000, CostPerPerson: 11000}}, nil
		},
	}

	rec := performRequest(http.MethodPost, "/api/v1/plan/generate", validPlan, newRouterUnderTest(t, services{blueprints: svc}))
	require.Equal(t, http.StatusOK, rec.Code)

	var got blueprint.Blueprint
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, 22000, got.Budget.TotalEstimatedCost)
}

func TestRouter_GenerateBlueprintValidation(t *testing.T) {
	svc := &stubBlueprints{}

	rec := performRequest(http.MethodPost, "/api/v1/plan/generate", `{"origin":"Mumbai","duration":0}`, newRouterUnderTest(t, services{blueprints: svc}))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Zero(t, svc.calls)

	var body struct {
		Error struct {
			Code    string            `json:"code"`
			Message string            `json:"message"`
			Fields  map[string]string `json:"fields"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, apperrors.CodeInvalidInput, body.Error.Code)
	require.Contains(t, body.Error.Fields, "destinationName")
	require.Contains(t, body.Error.Fields, "departureDate")
	require.Contains(t, body.Error.Fields, "travelers")
}

func TestRouter_GenerateBlueprintMalformedJSON(t *testing.T) {
	rec := performRequest(http.MethodPost, "/api/v1/plan/generate", `{"origin":`, newRouterUnderTest(t, services{}))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, apperrors.CodeInvalidInput, errBody["error"]["code"])
}

func TestRouter_DomainErrorStatus(t *testing.T) {
	tests := []struct {
		code   string
		status int
	}{
		{apperrors.CodeInvalidInput, http.StatusBadRequest},
		{apperrors.CodeOriginNotFound, http.StatusBadRequest},
		{apperrors.CodeNotFound, http.StatusNotFound},
		{apperrors.CodeConfiguration, http.StatusInternalServerError},
		{apperrors.CodeUpstream, http.StatusBadGateway},
		{apperrors.CodeArchive, http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.code, func(t *testing.T) {
			svc := &stubBlueprints{
				generateFn: func(context.Context, blueprint.Request) (blueprint.Blueprint, error) {
					return blueprint.Blueprint{}, apperrors.Wrap(tc.code, "failed: "+tc.code, nil)
				},
			}
			rec := performRequest(http.MethodPost, "/api/v1/plan/generate", validPlan, newRouterUnderTest(t, services{blueprints: svc}))
			require.Equal(t, tc.status, rec.Code)

			errBody := decodeErrorBody(t, rec.Body.Bytes())
			require.Equal(t, tc.code, errBody["error"]["code"])
			require.Equal(t, "failed: "+tc.code, errBody["error"]["message"])
		})
	}
}

func TestRouter_GetBlueprint(t *testing.T) {
	svc := &stubBlueprints{
		getFn: func(_ context.Context, id string) (blueprint.Blueprint, error) {
			if id == "missing" {
				return blueprint.Blueprint{}, apperrors.Wrap(apperrors.CodeNotFound, "blueprint not found", nil)
			}
			return blueprint.Blueprint{ID: id}, nil
		},
	}
	server := newRouterUnderTest(t, services{blueprints: svc})

	rec := performRequest(http.MethodGet, "/api/v1/plan/blueprints/abc", "", server)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"id":"abc"`)

	rec = performRequest(http.MethodGet, "/api/v1/plan/blueprints/missing", "", server)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_DownloadPDF(t *testing.T) {
	exp := stubExport(func(_ context.Context, id string) (export.Document, error) {
		if id == "broken" {
			return export.Document{}, apperrors.Wrap(apperrors.CodeRender, "failed to render blueprint", nil)
		}
		return export.Document{Filename: "trip-" + id + ".pdf", MimeType: "application/pdf", Data: []byte("%PDF-1.3")}, nil
	})
	server := newRouterUnderTest(t, services{export: exp})

	rec := performRequest(http.MethodGet, "/api/v1/plan/blueprints/abc/pdf", "", server)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Header().Get("Content-Disposition"), "trip-abc.pdf")
	require.Equal(t, "%PDF-1.3", rec.Body.String())

	rec = performRequest(http.MethodGet, "/api/v1/plan/blueprints/broken/pdf", "", server)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRouter_SuggestionEndpoints(t *testing.T) {
	sugg := &stubSuggestions{
		itinerary: suggestion.ItineraryResponse{
			Suggestions: []suggestion.DayPlan{{Day: 1, Activities: []string{"Walk the beach"}}},
			Source:      suggestion.SourceFallback,
		},
		backpack: suggestion.BackpackResponse{Source: suggestion.SourceAI},
	}
	server := newRouterUnderTest(t, services{suggestions: sugg})

	rec := performRequest(http.MethodPost, "/api/v1/ai/suggest-itinerary",
		`{"destinationName":"Goa","duration":1,"weatherForecast":[{"date":"2026-11-01","description":"clear sky"}]}`, server)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Walk the beach")

	rec = performRequest(http.MethodPost, "/api/v1/ai/suggest-itinerary", `{"destinationName":"Goa","duration":1}`, server)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = performRequest(http.MethodPost, "/api/v1/ai/backpack-list", `{"destinationName":"Goa","duration":3,"travelers":2}`, server)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 2, sugg.backpackReq.Travelers)
}

func TestRouter_SuggestionDurationIsCapped(t *testing.T) {
	sugg := &stubSuggestions{}
	server := newRouterUnderTest(t, services{suggestions: sugg})

	rec := performRequest(http.MethodPost, "/api/v1/ai/suggest-itinerary",
		`{"destinationName":"Goa","duration":2000000,"weatherForecast":[]}`, server)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "must be at most 30")

	rec = performRequest(http.MethodPost, "/api/v1/ai/backpack-list", `{"destinationName":"Goa","duration":31,"travelers":2}`, server)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Zero(t, sugg.backpackReq.Duration)
}

func TestRouter_Places(t *testing.T) {
	var got places.Request
	svc := stubPlaces(func(_ context.Context, req places.Request) (places.Response, error) {
		got = req
		if req.City == "Atlantis" {
			return places.Response{}, apperrors.Wrap(apperrors.CodeNotFound, "could not find the city", nil)
		}
		return places.Response{City: req.City, Places: []places.Place{{Name: "Gateway of India"}}}, nil
	})
	server := newRouterUnderTest(t, services{places: svc})

	rec := performRequest(http.MethodGet, "/api/v1/places?city=Mumbai&category=monument", "", server)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "monument", got.Category)
	require.Contains(t, rec.Body.String(), "Gateway of India")

	rec = performRequest(http.MethodGet, "/api/v1/places?city=Atlantis", "", server)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = performRequest(http.MethodGet, "/api/v1/places", "", server)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, apperrors.CodeInvalidInput, decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])
}

func TestRouter_Discover(t *testing.T) {
	disc := stubDiscovery(func(_ context.Context, req discovery.Request) (discovery.Response, error) {
		return discovery.Response{Weather: req.Weather, Duration: req.Duration}, nil
	})
	server := newRouterUnderTest(t, services{discovery: disc})

	rec := performRequest(http.MethodPost, "/api/v1/search/discover", `{"weather":"Hot","duration":2}`, server)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = performRequest(http.MethodPost, "/api/v1/search/discover", `{"weather":"Humid","duration":2}`, server)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Contains(t, errBody["error"]["message"], "weather")
}

func TestRouter_RateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.HTTP.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1, Burst: 1}
	server := NewRouter(cfg, newTestHandler(services{}))

	rec := performRequest(http.MethodGet, "/healthz", "", server)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = performRequest(http.MethodGet, "/healthz", "", server)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestIPRateLimiterForgetsIdleClients(t *testing.T) {
	limiter := newIPRateLimiter(config.RateLimitConfig{RequestsPerMinute: 1, Burst: 1}, time.Minute)
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

	require.True(t, limiter.allow("10.0.0.1", now))
	require.False(t, limiter.allow("10.0.0.1", now))
	require.True(t, limiter.allow("10.0.0.2", now))

	later := now.Add(2 * time.Minute)
	require.True(t, limiter.allow("10.0.0.3", later))
	require.Len(t, limiter.visitors, 1)
}

func performRequest(method, path, body string, server *http.Server) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

type services struct {
	blueprints  blueprint.Service
	suggestions suggestion.Service
	discovery   discovery.Service
	export      export.Service
	places      places.Service
}

func newTestHandler(s services) *Handler {
	if s.blueprints == nil {
		s.blueprints = &stubBlueprints{}
	}
	if s.suggestions == nil {
		s.suggestions = &stubSuggestions{}
	}
	if s.discovery == nil {
		s.discovery = stubDiscovery(func(context.Context, discovery.Request) (discovery.Response, error) {
			return discovery.Response{}, nil
		})
	}
	if s.export == nil {
		s.export = stubExport(func(context.Context, string) (export.Document, error) {
			return export.Document{}, nil
		})
	}
	if s.places == nil {
		s.places = stubPlaces(func(context.Context, places.Request) (places.Response, error) {
			return places.Response{}, nil
		})
	}
	return NewHandler(s.blueprints, s.suggestions, s.discovery, s.export, s.places, newTestLogger())
}

func testConfig() *config.Config {
	return &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	}
}

func newRouterUnderTest(t *testing.T, s services) *http.Server {
	t.Helper()
	return NewRouter(testConfig(), newTestHandler(s))
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

type stubBlueprints struct {
	generateFn func(ctx context.Context, req blueprint.Request) (blueprint.Blueprint, error)
	getFn      func(ctx context.Context, id string) (blueprint.Blueprint, error)
	calls      int
}

func (s *stubBlueprints) Generate(ctx context.Context, req blueprint.Request) (blueprint.Blueprint, error) {
	s.calls++
	if s.generateFn != nil {
		return s.generateFn(ctx, req)
	}
	return blueprint.Blueprint{}, nil
}

func (s *stubBlueprints) Get(ctx context.Context, id string) (blueprint.Blueprint, error) {
	s.calls++
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return blueprint.Blueprint{}, nil
}

type stubSuggestions struct {
	itinerary   suggestion.ItineraryResponse
	backpack    suggestion.BackpackResponse
	backpackReq suggestion.BackpackRequest
}

func (s *stubSuggestions) SuggestItinerary(context.Context, suggestion.ItineraryRequest) (suggestion.ItineraryResponse, error) {
	return s.itinerary, nil
}

func (s *stubSuggestions) BackpackList(_ context.Context, req suggestion.BackpackRequest) (suggestion.BackpackResponse, error) {
	s.backpackReq = req
	return s.backpack, nil
}

type stubDiscovery func(ctx context.Context, req discovery.Request) (discovery.Response, error)

func (f stubDiscovery) Discover(ctx context.Context, req discovery.Request) (discovery.Response, error) {
	return f(ctx, req)
}

type stubExport func(ctx context.Context, id string) (export.Document, error)

func (f stubExport) PDF(ctx context.Context, id string) (export.Document, error) {
	return f(ctx, id)
}

type stubPlaces func(ctx context.Context, req places.Request) (places.Response, error)

func (f stubPlaces) PointsOfInterest(ctx context.Context, req places.Request) (places.Response, error) {
	return f(ctx, req)
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	out := make(map[string]map[string]string, len(body))
	for k, v := range body {
		out[k] = make(map[string]string, len(v))
		for field, val := range v {
			if s, ok := val.(string); ok {
				out[k][field] = s
			}
		}
	}
	return out
}

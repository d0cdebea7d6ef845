package suggestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/yanqian/trip-blueprint/pkg/errors"
	"github.com/yanqian/trip-blueprint/pkg/metrics"
)

var errNoGenerator = errors.New("no text generator configured")

// Service exposes AI assisted trip suggestions.
type Service interface {
	SuggestItinerary(ctx context.Context, req ItineraryRequest) (ItineraryResponse, error)
	BackpackList(ctx context.Context, req BackpackRequest) (BackpackResponse, error)
}

var durationMessage = fmt.Sprintf("duration must be between 1 and %d days", MaxTripDays)

// attempt is the outcome of one model call. A non-nil Reason selects the local generator.
type attempt[T any] struct {
	Value  T
	Usage  metrics.TokenUsage
	Reason error
}

func (a attempt[T]) OK() bool { return a.Reason == nil }

type service struct {
	thresholds Thresholds
	generator  TextGenerator
	rnd        Random
	tracer     trace.Tracer
	logger     *slog.Logger
}

// Option customises the service.
type Option func(*service)

// WithRandom injects the random source used by the local generator.
func WithRandom(rnd Random) Option {
	return func(s *service) { s.rnd = rnd }
}

// NewService wires the suggestion domain. generator may be nil, in which case every
// response comes from the local generator.
func NewService(cfg Config, generator TextGenerator, logger *slog.Logger, opts ...Option) Service {
	s := &service{
		generator: generator,
		rnd:       globalRandom{},
		tracer:    otel.Tracer("suggestion.service"),
		logger:    logger.With("component", "suggestion.service"),
	}
	s.thresholds = s.resolveThresholds(cfg.Thresholds)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) SuggestItinerary(ctx context.Context, req ItineraryRequest) (ItineraryResponse, error) {
	destination := strings.TrimSpace(req.DestinationName)
	if destination == "" {
		return ItineraryResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, "destinationName is required", nil)
	}
	if req.Duration < 1 || req.Duration > MaxTripDays {
		return ItineraryResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, durationMessage, nil)
	}

	res := ask(ctx, s, "suggestion.itinerary", itineraryPrompt(destination, req.Duration, req.WeatherForecast), func(text string) ([]DayPlan, error) {
		return parseItinerary(text, req.Duration)
	})
	if res.OK() {
		usage := res.Usage
		return ItineraryResponse{Suggestions: res.Value, Source: SourceAI, TokenUsage: &usage}, nil
	}
	s.logger.Warn("itinerary generation failed, using local generator", "destination", destination, "error", res.Reason)
	return ItineraryResponse{
		Suggestions: fallbackItinerary(destination, req.Duration, req.WeatherForecast, s.thresholds, s.rnd),
		Source:      SourceFallback,
	}, nil
}

func (s *service) BackpackList(ctx context.Context, req BackpackRequest) (BackpackResponse, error) {
	destination := strings.TrimSpace(req.DestinationName)
	if destination == "" {
		return BackpackResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, "destinationName is required", nil)
	}
	if req.Duration < 1 || req.Duration > MaxTripDays {
		return BackpackResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, durationMessage, nil)
	}
	if req.Travelers < 1 {
		return BackpackResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, "travelers must be at least 1", nil)
	}

	res := ask(ctx, s, "suggestion.backpack", backpackPrompt(destination, req.Duration, req.Travelers, req.WeatherForecast), parseBackpack)
	if res.OK() {
		usage := res.Usage
		return BackpackResponse{Categories: res.Value, Source: SourceAI, TokenUsage: &usage}, nil
	}
	s.logger.Warn("backpack generation failed, using local generator", "destination", destination, "error", res.Reason)
	return BackpackResponse{
		Categories: fallbackBackpack(req.Duration, req.Travelers, req.WeatherForecast, s.thresholds, s.rnd),
		Source:     SourceFallback,
	}, nil
}

// ask runs one prompt through the generator and parses the answer.
func ask[T any](ctx context.Context, s *service, spanName, prompt string, parse func(string) (T, error)) attempt[T] {
	if s.generator == nil {
		return attempt[T]{Reason: errNoGenerator}
	}
	ctx, span := s.tracer.Start(ctx, spanName, trace.WithAttributes(attribute.Int("prompt.length", len(prompt))))
	defer span.End()

	completion, err := s.generator.Generate(ctx, prompt)
	if err == nil && strings.TrimSpace(completion.Text) == "" {
		err = errors.New("empty completion")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		return attempt[T]{Reason: err}
	}
	value, err := parse(completion.Text)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "malformed completion")
		return attempt[T]{Reason: err}
	}
	usage := completion.Usage.Normalized()
	span.SetAttributes(attribute.Int("tokens.total", usage.TotalTokens))
	return attempt[T]{Value: value, Usage: usage}
}

func (s *service) resolveThresholds(set ThresholdSettings) Thresholds {
	pick := func(name string, v *float64, def float64) float64 {
		if v == nil {
			s.logger.Warn("weather threshold not configured, using default", "threshold", name, "value", def)
			return def
		}
		return *v
	}
	return Thresholds{
		HotMax:      pick("hotThreshold", set.HotMax, DefaultThresholds.HotMax),
		ColdMax:     pick("coldMaxThreshold", set.ColdMax, DefaultThresholds.ColdMax),
		ColdMin:     pick("coldMinThreshold", set.ColdMin, DefaultThresholds.ColdMin),
		PackColdMax: pick("packColdMaxThreshold", set.PackColdMax, DefaultThresholds.PackColdMax),
		PackColdMin: pick("packColdMinThreshold", set.PackColdMin, DefaultThresholds.PackColdMin),
	}
}

func itineraryPrompt(destination string, days int, forecast []DayWeather) string {
	return fmt.Sprintf(`You are an experienced travel planner.
Destination: %s.
Trip length: %d days.
Daily forecast:
%s

Plan a realistic itinerary with 2 to 4 short activities for each day from 1 to %d.
Reply with JSON only, shaped exactly like:
{"suggestions": [{"day": 1, "activities": ["...", "..."]}]}`, destination, days, weatherSummary(forecast), days)
}

func backpackPrompt(destination string, days, travelers int, forecast []DayWeather) string {
	return fmt.Sprintf(`You are a practical packing assistant.
Destination: %s.
Trip length: %d days.
Travelers: %d.
Daily forecast:
%s

Build a packing list grouped by category (clothing, toiletries, documents, electronics, health, extras).
Reply with JSON only, shaped exactly like:
{"categories": [{"category": "Clothing", "items": ["...", "..."]}]}`, destination, days, travelers, weatherSummary(forecast))
}

func weatherSummary(forecast []DayWeather) string {
	if len(forecast) == 0 {
		return "not available"
	}
	lines := make([]string, 0, len(forecast))
	for i, d := range forecast {
		lines = append(lines, fmt.Sprintf("Day %d: %s - %s (high %s°C, low %s°C)", i+1, d.Date, d.Description, formatTemp(d.TempMax), formatTemp(d.TempMin)))
	}
	return strings.Join(lines, "\n")
}

func formatTemp(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.0f", *v)
}

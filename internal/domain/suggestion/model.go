// Package suggestion produces itineraries and packing lists, from a generative model when
// one answers with well-formed JSON and from a weather-aware local generator otherwise.
package suggestion

import (
	"context"

	"github.com/yanqian/trip-blueprint/pkg/metrics"
)

// Source tells clients which generator produced a response.
type Source string

const (
	SourceAI       Source = "ai"
	SourceFallback Source = "fallback"
)

// DayWeather is one day of forecast as submitted by clients. Temperatures are optional.
type DayWeather struct {
	Date        string   `json:"date"`
	TempMax     *float64 `json:"temp_max"`
	TempMin     *float64 `json:"temp_min"`
	Description string   `json:"description"`
	Icon        string   `json:"icon,omitempty"`
}

// ItineraryRequest asks for day-by-day activities.
type ItineraryRequest struct {
	DestinationName string       `json:"destinationName" binding:"required"`
	Duration        int          `json:"duration" binding:"required,min=1,max=30"`
	WeatherForecast []DayWeather `json:"weatherForecast" binding:"required"`
}

// DayPlan lists the activities for one trip day.
type DayPlan struct {
	Day        int      `json:"day"`
	Activities []string `json:"activities"`
}

// ItineraryResponse is always returned once the request is valid.
type ItineraryResponse struct {
	Suggestions []DayPlan           `json:"suggestions"`
	Source      Source              `json:"source"`
	TokenUsage  *metrics.TokenUsage `json:"tokenUsage,omitempty"`
}

// BackpackRequest asks for a packing list.
type BackpackRequest struct {
	DestinationName string       `json:"destinationName" binding:"required"`
	Duration        int          `json:"duration" binding:"required,min=1,max=30"`
	Travelers       int          `json:"travelers" binding:"required,min=1"`
	WeatherForecast []DayWeather `json:"weatherForecast"`
}

// Category groups packing items.
type Category struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

// BackpackResponse is always returned once the request is valid.
type BackpackResponse struct {
	Categories []Category          `json:"categories"`
	Source     Source              `json:"source"`
	TokenUsage *metrics.TokenUsage `json:"tokenUsage,omitempty"`
}

// Completion is the raw text answer of a generative model.
type Completion struct {
	Text  string
	Usage metrics.TokenUsage
}

// TextGenerator sends a single prompt to a generative model.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (Completion, error)
}

// Random picks an index in [0, n). *rand.Rand from math/rand/v2 satisfies it.
type Random interface {
	IntN(n int) int
}

// MaxTripDays bounds the trip length accepted for suggestions.
const MaxTripDays = 30

// Thresholds tune the weather classification used by the local generator, in °C.
type Thresholds struct {
	HotMax      float64
	ColdMax     float64
	ColdMin     float64
	PackColdMax float64
	PackColdMin float64
}

// DefaultThresholds mirror the values the product has always used.
var DefaultThresholds = Thresholds{
	HotMax:      30,
	ColdMax:     10,
	ColdMin:     5,
	PackColdMax: 15,
	PackColdMin: 8,
}

// ThresholdSettings are the configured thresholds. A nil field is unset and takes the
// DefaultThresholds value; 0 is a valid setting.
type ThresholdSettings struct {
	HotMax      *float64
	ColdMax     *float64
	ColdMin     *float64
	PackColdMax *float64
	PackColdMin *float64
}

// Settings returns t with every threshold marked as configured.
func (t Thresholds) Settings() ThresholdSettings {
	return ThresholdSettings{
		HotMax:      &t.HotMax,
		ColdMax:     &t.ColdMax,
		ColdMin:     &t.ColdMin,
		PackColdMax: &t.PackColdMax,
		PackColdMin: &t.PackColdMin,
	}
}

// Config wires runtime knobs for the suggestion domain.
type Config struct {
	Thresholds ThresholdSettings
}

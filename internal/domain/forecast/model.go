package forecast

import (
	"context"
	"errors"
	"time"
)

// ErrMissingAPIKey signals the weather provider key was never configured.
var ErrMissingAPIKey = errors.New("weather api key is not configured")

const (
	// MaxDays is the forecast horizon of the 3-hourly provider feed.
	MaxDays = 5

	defaultIcon        = "02d"
	defaultDescription = "clear sky"
	placeholderText    = "No forecast data available"
	placeholderMax     = 25
	placeholderMin     = 15
)

// Entry is a single sub-daily reading from the weather provider.
type Entry struct {
	Time        time.Time
	TempMax     float64
	TempMin     float64
	Description string
	Icon        string
}

// Day is the per-day summary returned to API consumers.
type Day struct {
	Date        string  `json:"date"`
	TempMax     float64 `json:"temp_max"`
	TempMin     float64 `json:"temp_min"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
}

// Provider fetches the raw sub-daily forecast feed for a coordinate.
type Provider interface {
	Forecast(ctx context.Context, lat, lon float64) ([]Entry, error)
}

// Package discovery ranks catalogue destinations by how well their current weather fits a preference.
package discovery

import (
	"context"
	"strings"
	"time"
)

// Preference is the weather band a traveler is looking for.
type Preference string

const (
	PreferenceHot   Preference = "Hot"
	PreferenceWarm  Preference = "Warm"
	PreferenceCool  Preference = "Cool"
	PreferenceSnowy Preference = "Snowy"
)

// band is an inclusive temperature range in °C.
type band struct {
	min, max float64
}

var bands = map[Preference]band{
	PreferenceHot:   {min: 25, max: 60},
	PreferenceWarm:  {min: 15, max: 29},
	PreferenceCool:  {min: 0, max: 20},
	PreferenceSnowy: {min: -20, max: 10},
}

// ParsePreference matches a preference case-insensitively.
func ParsePreference(value string) (Preference, bool) {
	for p := range bands {
		if strings.EqualFold(string(p), strings.TrimSpace(value)) {
			return p, true
		}
	}
	return "", false
}

// Matches reports whether temp falls inside the preference band.
func (p Preference) Matches(temp float64) bool {
	b, ok := bands[p]
	if !ok {
		return false
	}
	return temp >= b.min && temp <= b.max
}

// Conditions is the current weather at a coordinate.
type Conditions struct {
	Temperature float64
	Description string
}

// WeatherProvider fetches current conditions.
type WeatherProvider interface {
	Current(ctx context.Context, lat, lon float64) (Conditions, error)
}

// Destination is a catalogue entry eligible for discovery.
type Destination struct {
	Name      string  `yaml:"name"`
	Latitude  float64 `yaml:"lat"`
	Longitude float64 `yaml:"lon"`
	Tier      int     `yaml:"tier"`
}

// Request is the discovery payload.
type Request struct {
	Weather  string `json:"weather" binding:"required,oneof=Hot Warm Cool Snowy"`
	Duration int    `json:"duration" binding:"required,min=1"`
}

// Result is a destination matching the requested weather.
type Result struct {
	Name                   string  `json:"name"`
	Tier                   int     `json:"tier"`
	CurrentTemp            float64 `json:"currentTemp"`
	WeatherDescription     string  `json:"weatherDescription"`
	EstimatedCostPerPerson int     `json:"estimatedCostPerPerson"`
}

// Response wraps the ranked destinations.
type Response struct {
	Weather      Preference `json:"weather"`
	Duration     int        `json:"duration"`
	Destinations []Result   `json:"destinations"`
}

// Config wires runtime knobs for discovery.
type Config struct {
	CacheTTL     time.Duration
	Concurrency  int
	Destinations []Destination
}

// DefaultDestinations is used when no catalogue is configured.
var DefaultDestinations = []Destination{
	{Name: "Goa", Latitude: 15.2993, Longitude: 74.124, Tier: 1},
	{Name: "Jaipur", Latitude: 26.9124, Longitude: 75.7873, Tier: 2},
	{Name: "Udaipur", Latitude: 24.5854, Longitude: 73.7125, Tier: 2},
	{Name: "Manali", Latitude: 32.2432, Longitude: 77.1892, Tier: 3},
	{Name: "Shimla", Latitude: 31.1048, Longitude: 77.1734, Tier: 2},
	{Name: "Gulmarg", Latitude: 34.0484, Longitude: 74.3805, Tier: 3},
	{Name: "Leh", Latitude: 34.1526, Longitude: 77.5771, Tier: 3},
	{Name: "Munnar", Latitude: 10.0889, Longitude: 77.0595, Tier: 3},
	{Name: "Ooty", Latitude: 11.4102, Longitude: 76.695, Tier: 3},
	{Name: "Darjeeling", Latitude: 27.041, Longitude: 88.2663, Tier: 3},
	{Name: "Rishikesh", Latitude: 30.0869, Longitude: 78.2676, Tier: 3},
	{Name: "Kochi", Latitude: 9.9312, Longitude: 76.2673, Tier: 2},
	{Name: "Pondicherry", Latitude: 11.9416, Longitude: 79.8083, Tier: 2},
	{Name: "Mumbai", Latitude: 19.076, Longitude: 72.8777, Tier: 1},
	{Name: "Delhi", Latitude: 28.7041, Longitude: 77.1025, Tier: 1},
	{Name: "Bangalore", Latitude: 12.9716, Longitude: 77.5946, Tier: 1},
}

package mapbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yanqian/trip-blueprint/internal/domain/geo"
)

const defaultBaseURL = "https://api.mapbox.com"

// Client talks to the Mapbox geocoding and directions APIs.
type Client struct {
	apiKey     string
	baseURL    string
	country    string
	httpClient *http.Client
}

// NewClient builds an API client. An empty key is accepted; calls then fail with geo.ErrMissingAPIKey.
func NewClient(apiKey, baseURL, country string, timeout time.Duration) *Client {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: strings.TrimRight(base, "/"),
		country: strings.TrimSpace(country),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Geocode returns the first feature matching query.
func (c *Client) Geocode(ctx context.Context, query string) (geo.Feature, error) {
	if c.apiKey == "" {
		return geo.Feature{}, geo.ErrMissingAPIKey
	}
	params := url.Values{}
	params.Set("access_token", c.apiKey)
	params.Set("limit", "1")
	if c.country != "" {
		params.Set("country", c.country)
	}
	endpoint := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json?%s", c.baseURL, url.PathEscape(query), params.Encode())

	var raw geocodeResponse
	if err := c.getJSON(ctx, endpoint, &raw); err != nil {
		return geo.Feature{}, fmt.Errorf("geocode %q: %w", query, err)
	}
	if len(raw.Features) == 0 {
		return geo.Feature{}, fmt.Errorf("geocode %q: %w", query, geo.ErrNoMatch)
	}
	return raw.Features[0].toDomain()
}

// SearchPlaces looks up points of interest matching query, biased towards near.
func (c *Client) SearchPlaces(ctx context.Context, query string, near geo.Point, limit int) ([]geo.Place, error) {
	if c.apiKey == "" {
		return nil, geo.ErrMissingAPIKey
	}
	params := url.Values{}
	params.Set("access_token", c.apiKey)
	params.Set("types", "poi")
	params.Set("proximity", formatCoord(near))
	params.Set("limit", strconv.Itoa(limit))
	if c.country != "" {
		params.Set("country", c.country)
	}
	endpoint := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json?%s", c.baseURL, url.PathEscape(query), params.Encode())

	var raw geocodeResponse
	if err := c.getJSON(ctx, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("search places %q: %w", query, err)
	}
	places := make([]geo.Place, 0, len(raw.Features))
	for _, f := range raw.Features {
		if len(f.Center) < 2 {
			continue
		}
		places = append(places, geo.Place{
			Name:      f.Text,
			Address:   f.placeAddress(),
			Category:  f.Properties.Category,
			Longitude: f.Center[0],
			Latitude:  f.Center[1],
		})
	}
	return places, nil
}

// Directions returns the primary driving route between two points.
func (c *Client) Directions(ctx context.Context, from, to geo.Point) (geo.Directions, error) {
	if c.apiKey == "" {
		return geo.Directions{}, geo.ErrMissingAPIKey
	}
	params := url.Values{}
	params.Set("geometries", "geojson")
	params.Set("access_token", c.apiKey)
	endpoint := fmt.Sprintf("%s/directions/v5/mapbox/driving/%s;%s?%s",
		c.baseURL, formatCoord(from), formatCoord(to), params.Encode())

	var raw directionsResponse
	if err := c.getJSON(ctx, endpoint, &raw); err != nil {
		return geo.Directions{}, fmt.Errorf("directions: %w", err)
	}
	if len(raw.Routes) == 0 {
		return geo.Directions{}, fmt.Errorf("directions: %w", geo.ErrNoRoute)
	}
	primary := raw.Routes[0]
	geometry := primary.Geometry
	if geometry.Type == "" {
		geometry.Type = "LineString"
	}
	return geo.Directions{
		DistanceKm: primary.Distance / 1000,
		Geometry:   geometry,
	}, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", stripURL(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return geo.ErrUnauthorized
	}
	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(payload))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type geocodeResponse struct {
	Features []feature `json:"features"`
}

type feature struct {
	Text       string         `json:"text"`
	PlaceName  string         `json:"place_name"`
	Center     []float64      `json:"center"`
	Context    []contextEntry `json:"context"`
	Properties struct {
		Category string `json:"category"`
		Address  string `json:"address"`
	} `json:"properties"`
}

// placeAddress prefers the street address and falls back to the full place name.
func (f feature) placeAddress() string {
	if f.Properties.Address != "" {
		return f.Properties.Address
	}
	return f.PlaceName
}

type contextEntry struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

func (f feature) toDomain() (geo.Feature, error) {
	if len(f.Center) < 2 {
		return geo.Feature{}, fmt.Errorf("feature %q has no center", f.Text)
	}
	out := geo.Feature{
		Name:      f.Text,
		Longitude: f.Center[0],
		Latitude:  f.Center[1],
	}
	if f.Context != nil {
		out.Context = make([]geo.ContextEntry, 0, len(f.Context))
		for _, entry := range f.Context {
			out.Context = append(out.Context, geo.ContextEntry{ID: entry.ID, Text: entry.Text})
		}
	}
	return out, nil
}

type directionsResponse struct {
	Routes []route `json:"routes"`
}

type route struct {
	Distance float64        `json:"distance"`
	Geometry geo.LineString `json:"geometry"`
}

func formatCoord(p geo.Point) string {
	return fmt.Sprintf("%g,%g", p.Longitude, p.Latitude)
}

// stripURL drops the request URL, which carries the API key, from transport errors.
func stripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s mapbox request: %w", urlErr.Op, urlErr.Err)
	}
	return err
}

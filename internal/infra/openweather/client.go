package openweather

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

	"github.com/yanqian/trip-blueprint/internal/domain/discovery"
	"github.com/yanqian/trip-blueprint/internal/domain/forecast"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5"

// Client fetches forecasts and current conditions from OpenWeatherMap.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient builds an API client. An empty key is accepted; calls then fail with forecast.ErrMissingAPIKey.
func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
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
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Forecast retrieves the 5 day / 3 hour feed for a coordinate.
func (c *Client) Forecast(ctx context.Context, lat, lon float64) ([]forecast.Entry, error) {
	var raw forecastResponse
	if err := c.get(ctx, "/forecast", lat, lon, &raw); err != nil {
		return nil, fmt.Errorf("weather forecast: %w", err)
	}
	entries := make([]forecast.Entry, 0, len(raw.List))
	for _, item := range raw.List {
		cond := item.condition()
		entries = append(entries, forecast.Entry{
			Time:        time.Unix(item.Dt, 0).UTC(),
			TempMax:     item.Main.TempMax,
			TempMin:     item.Main.TempMin,
			Description: cond.Description,
			Icon:        cond.Icon,
		})
	}
	return entries, nil
}

// Current retrieves the present conditions for a coordinate.
func (c *Client) Current(ctx context.Context, lat, lon float64) (discovery.Conditions, error) {
	var raw currentResponse
	if err := c.get(ctx, "/weather", lat, lon, &raw); err != nil {
		return discovery.Conditions{}, fmt.Errorf("current weather: %w", err)
	}
	cond := raw.condition()
	return discovery.Conditions{
		Temperature: raw.Main.Temp,
		Description: cond.Description,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, lat, lon float64, out any) error {
	if c.apiKey == "" {
		return forecast.ErrMissingAPIKey
	}
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("units", "metric")
	params.Set("appid", c.apiKey)
	endpoint := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", stripURL(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(payload))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type forecastResponse struct {
	List []forecastItem `json:"list"`
}

type forecastItem struct {
	Dt   int64 `json:"dt"`
	Main struct {
		TempMax float64 `json:"temp_max"`
		TempMin float64 `json:"temp_min"`
	} `json:"main"`
	Weather []condition `json:"weather"`
}

type currentResponse struct {
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []condition `json:"weather"`
}

type condition struct {
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

func (i forecastItem) condition() condition {
	if len(i.Weather) == 0 {
		return condition{}
	}
	return i.Weather[0]
}

func (r currentResponse) condition() condition {
	if len(r.Weather) == 0 {
		return condition{}
	}
	return r.Weather[0]
}

// stripURL drops the request URL, which carries the API key, from transport errors.
func stripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s openweather request: %w", urlErr.Op, urlErr.Err)
	}
	return err
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/yanqian/trip-blueprint/internal/domain/discovery"
	"github.com/yanqian/trip-blueprint/internal/domain/geo"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Mapbox     MapboxConfig     `yaml:"mapbox"`
	Weather    WeatherConfig    `yaml:"weather"`
	Geo        GeoConfig        `yaml:"geo"`
	Blueprint  BlueprintConfig  `yaml:"blueprint"`
	LLM        LLMConfig        `yaml:"llm"`
	Suggestion SuggestionConfig `yaml:"suggestion"`
	Discovery  DiscoveryConfig  `yaml:"discovery"`
	Places     PlacesConfig     `yaml:"places"`
	Export     ExportConfig     `yaml:"export"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// MapboxConfig configures geocoding and directions.
type MapboxConfig struct {
	APIKey  string        `yaml:"apiKey"`
	BaseURL string        `yaml:"baseUrl"`
	Country string        `yaml:"country"`
	Timeout time.Duration `yaml:"timeout"`
}

// WeatherConfig configures the OpenWeatherMap client.
type WeatherConfig struct {
	APIKey  string        `yaml:"apiKey"`
	BaseURL string        `yaml:"baseUrl"`
	Timeout time.Duration `yaml:"timeout"`
}

// GeoConfig controls tier classification.
type GeoConfig struct {
	MetroCities []string `yaml:"metroCities"`
}

// BlueprintConfig controls blueprint caching and archival.
type BlueprintConfig struct {
	CacheTTL          time.Duration  `yaml:"cacheTtl"`
	CacheMaxEntries   int            `yaml:"cacheMaxEntries"`
	ArchiveMaxEntries int            `yaml:"archiveMaxEntries"`
	BuildTimeout      time.Duration  `yaml:"buildTimeout"`
	Valkey            ValkeyConfig   `yaml:"valkey"`
	Postgres          PostgresConfig `yaml:"postgres"`
}

// ValkeyConfig contains connection information for cache storage.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// LLMConfig selects and configures the generative provider.
type LLMConfig struct {
	Provider    string        `yaml:"provider"`
	APIKey      string        `yaml:"apiKey"`
	BaseURL     string        `yaml:"baseUrl"`
	Model       string        `yaml:"model"`
	Temperature float32       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

// SuggestionConfig holds the local generator's weather thresholds in °C. Unset keys stay nil
// so the suggestion service can tell them apart from an explicit 0.
type SuggestionConfig struct {
	HotThreshold         *float64 `yaml:"hotThreshold"`
	ColdMaxThreshold     *float64 `yaml:"coldMaxThreshold"`
	ColdMinThreshold     *float64 `yaml:"coldMinThreshold"`
	PackColdMaxThreshold *float64 `yaml:"packColdMaxThreshold"`
	PackColdMinThreshold *float64 `yaml:"packColdMinThreshold"`
}

// DiscoveryConfig controls destination discovery.
type DiscoveryConfig struct {
	CacheTTL     time.Duration           `yaml:"cacheTtl"`
	Concurrency  int                     `yaml:"concurrency"`
	Destinations []discovery.Destination `yaml:"destinations"`
}

// PlacesConfig controls point of interest search.
type PlacesConfig struct {
	CacheTTL      time.Duration `yaml:"cacheTtl"`
	Limit         int           `yaml:"limit"`
	MaxDistanceKm float64       `yaml:"maxDistanceKm"`
}

// ExportConfig controls where rendered documents are kept.
type ExportConfig struct {
	Title string      `yaml:"title"`
	Minio MinioConfig `yaml:"minio"`
}

// MinioConfig contains S3-compatible storage settings.
type MinioConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
}

// LLM providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Load reads configuration from a YAML file, an optional .env file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// loadDotEnv exports variables from DOTENV_PATH (default .env) without overriding the real environment.
func loadDotEnv() error {
	path := os.Getenv("DOTENV_PATH")
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	envString("HTTP_ADDRESS", &cfg.HTTP.Address)
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	envBool("HTTP_RATE_LIMIT_ENABLED", &cfg.HTTP.RateLimit.Enabled)
	envInt("HTTP_RATE_LIMIT_RPM", &cfg.HTTP.RateLimit.RequestsPerMinute)
	envInt("HTTP_RATE_LIMIT_BURST", &cfg.HTTP.RateLimit.Burst)

	envString("MAPBOX_API_KEY", &cfg.Mapbox.APIKey)
	envString("MAPBOX_BASE_URL", &cfg.Mapbox.BaseURL)
	envString("MAPBOX_COUNTRY", &cfg.Mapbox.Country)

	envString("OPENWEATHERMAP_API_KEY", &cfg.Weather.APIKey)
	envString("OPENWEATHERMAP_BASE_URL", &cfg.Weather.BaseURL)

	if v := os.Getenv("GEO_METRO_CITIES"); v != "" {
		cfg.Geo.MetroCities = splitList(v)
	}

	envDuration("BLUEPRINT_CACHE_TTL", &cfg.Blueprint.CacheTTL)
	envInt("BLUEPRINT_CACHE_MAX_ENTRIES", &cfg.Blueprint.CacheMaxEntries)
	envInt("BLUEPRINT_ARCHIVE_MAX_ENTRIES", &cfg.Blueprint.ArchiveMaxEntries)
	envDuration("BLUEPRINT_BUILD_TIMEOUT", &cfg.Blueprint.BuildTimeout)
	envBool("BLUEPRINT_VALKEY_ENABLED", &cfg.Blueprint.Valkey.Enabled)
	envString("BLUEPRINT_VALKEY_ADDR", &cfg.Blueprint.Valkey.Addr)
	envString("BLUEPRINT_POSTGRES_DSN", &cfg.Blueprint.Postgres.DSN)

	envString("LLM_PROVIDER", &cfg.LLM.Provider)
	envString("GOOGLE_GEMINI_API_KEY", &cfg.LLM.APIKey)
	envString("LLM_API_KEY", &cfg.LLM.APIKey)
	envString("LLM_BASE_URL", &cfg.LLM.BaseURL)
	envString("LLM_MODEL", &cfg.LLM.Model)
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}

	envFloat("SUGGESTION_HOT_THRESHOLD", &cfg.Suggestion.HotThreshold)
	envFloat("SUGGESTION_COLD_MAX_THRESHOLD", &cfg.Suggestion.ColdMaxThreshold)
	envFloat("SUGGESTION_COLD_MIN_THRESHOLD", &cfg.Suggestion.ColdMinThreshold)
	envFloat("SUGGESTION_PACK_COLD_MAX_THRESHOLD", &cfg.Suggestion.PackColdMaxThreshold)
	envFloat("SUGGESTION_PACK_COLD_MIN_THRESHOLD", &cfg.Suggestion.PackColdMinThreshold)

	envDuration("DISCOVERY_CACHE_TTL", &cfg.Discovery.CacheTTL)
	envInt("DISCOVERY_CONCURRENCY", &cfg.Discovery.Concurrency)

	envDuration("PLACES_CACHE_TTL", &cfg.Places.CacheTTL)
	envInt("PLACES_LIMIT", &cfg.Places.Limit)

	envBool("EXPORT_MINIO_ENABLED", &cfg.Export.Minio.Enabled)
	envString("EXPORT_MINIO_ENDPOINT", &cfg.Export.Minio.Endpoint)
	envString("EXPORT_MINIO_ACCESS_KEY", &cfg.Export.Minio.AccessKey)
	envString("EXPORT_MINIO_SECRET_KEY", &cfg.Export.Minio.SecretKey)
	envString("EXPORT_MINIO_BUCKET", &cfg.Export.Minio.Bucket)
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envBool(key string, dst *bool) {
	if v := os.Getenv(key); v != "" {
		*dst = v == "1" || strings.EqualFold(v, "true")
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

func envFloat(key string, dst **float64) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = &parsed
		}
	}
}

func envDuration(key string, dst *time.Duration) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = parsed
		}
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:        ":8080",
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   60 * time.Second,
			AllowedOrigins: []string{"http://localhost:5173"},
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
		},
		Mapbox: MapboxConfig{
			BaseURL: "https://api.mapbox.com",
			Country: "IN",
			Timeout: 10 * time.Second,
		},
		Weather: WeatherConfig{
			BaseURL: "https://api.openweathermap.org/data/2.5",
			Timeout: 10 * time.Second,
		},
		Geo: GeoConfig{
			MetroCities: geo.DefaultMetroCities,
		},
		Blueprint: BlueprintConfig{
			CacheTTL:          time.Hour,
			CacheMaxEntries:   1000,
			ArchiveMaxEntries: 5000,
			BuildTimeout:      30 * time.Second,
			Valkey: ValkeyConfig{
				Prefix: "blueprint",
			},
			Postgres: PostgresConfig{
				MaxConns: 4,
			},
		},
		LLM: LLMConfig{
			Provider:    ProviderGemini,
			Model:       "gemini-flash-latest",
			Temperature: 0.7,
			Timeout:     60 * time.Second,
		},
		Discovery: DiscoveryConfig{
			CacheTTL:     10 * time.Minute,
			Concurrency:  4,
			Destinations: discovery.DefaultDestinations,
		},
		Places: PlacesConfig{
			CacheTTL:      30 * time.Minute,
			Limit:         10,
			MaxDistanceKm: 50,
		},
		Export: ExportConfig{
			Title: "Trip Blueprint",
			Minio: MinioConfig{
				Bucket: "trip-blueprints",
				Region: "auto",
			},
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.Blueprint.CacheTTL <= 0 {
		return errors.New("blueprint.cacheTtl must be positive")
	}
	if c.Blueprint.CacheMaxEntries < 0 {
		return errors.New("blueprint.cacheMaxEntries cannot be negative")
	}
	if c.Blueprint.ArchiveMaxEntries < 0 {
		return errors.New("blueprint.archiveMaxEntries cannot be negative")
	}
	if c.Blueprint.BuildTimeout <= 0 {
		return errors.New("blueprint.buildTimeout must be positive")
	}
	if c.Blueprint.Valkey.Enabled && strings.TrimSpace(c.Blueprint.Valkey.Addr) == "" {
		return errors.New("blueprint.valkey.addr cannot be empty when valkey cache is enabled")
	}
	switch c.LLM.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("llm.provider must be %q or %q", ProviderGemini, ProviderOpenAI)
	}
	if c.Discovery.Concurrency <= 0 {
		return errors.New("discovery.concurrency must be positive")
	}
	for _, d := range c.Discovery.Destinations {
		if strings.TrimSpace(d.Name) == "" {
			return errors.New("discovery.destinations entries need a name")
		}
		if d.Tier < 1 || d.Tier > 3 {
			return fmt.Errorf("discovery destination %q: tier must be 1, 2 or 3", d.Name)
		}
	}
	if c.Places.Limit < 1 || c.Places.Limit > 10 {
		return errors.New("places.limit must be between 1 and 10")
	}
	if c.Export.Minio.Enabled && (c.Export.Minio.Endpoint == "" || c.Export.Minio.Bucket == "") {
		return errors.New("export.minio.endpoint and bucket are required when minio is enabled")
	}
	return nil
}

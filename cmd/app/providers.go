package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/trip-blueprint/internal/domain/blueprint"
	"github.com/yanqian/trip-blueprint/internal/domain/discovery"
	"github.com/yanqian/trip-blueprint/internal/domain/export"
	"github.com/yanqian/trip-blueprint/internal/domain/geo"
	"github.com/yanqian/trip-blueprint/internal/domain/places"
	"github.com/yanqian/trip-blueprint/internal/domain/suggestion"
	"github.com/yanqian/trip-blueprint/internal/infra/blueprintcache"
	"github.com/yanqian/trip-blueprint/internal/infra/blueprintrepo"
	"github.com/yanqian/trip-blueprint/internal/infra/config"
	"github.com/yanqian/trip-blueprint/internal/infra/llm/chatgpt"
	"github.com/yanqian/trip-blueprint/internal/infra/llm/gemini"
	"github.com/yanqian/trip-blueprint/internal/infra/mapbox"
	"github.com/yanqian/trip-blueprint/internal/infra/objectstore"
	"github.com/yanqian/trip-blueprint/internal/infra/openweather"
	"github.com/yanqian/trip-blueprint/internal/infra/pdf"
	"github.com/yanqian/trip-blueprint/pkg/util"
)

func provideClock() util.Clock {
	return util.SystemClock{}
}

func provideMapboxClient(cfg *config.Config) *mapbox.Client {
	return mapbox.NewClient(cfg.Mapbox.APIKey, cfg.Mapbox.BaseURL, cfg.Mapbox.Country, cfg.Mapbox.Timeout)
}

func provideWeatherClient(cfg *config.Config) *openweather.Client {
	return openweather.NewClient(cfg.Weather.APIKey, cfg.Weather.BaseURL, cfg.Weather.Timeout)
}

func provideTierClassifier(cfg *config.Config) *geo.TierClassifier {
	return geo.NewTierClassifier(cfg.Geo.MetroCities)
}

func provideBlueprintConfig(cfg *config.Config) blueprint.Config {
	return blueprint.Config{CacheTTL: cfg.Blueprint.CacheTTL, BuildTimeout: cfg.Blueprint.BuildTimeout}
}

func provideBlueprintCache(cfg *config.Config, clock util.Clock, logger *slog.Logger) blueprint.Cache {
	fallback := blueprintcache.NewMemoryCache(clock, cfg.Blueprint.CacheMaxEntries)
	vcfg := cfg.Blueprint.Valkey
	if !vcfg.Enabled {
		return fallback
	}
	opt, err := buildValkeyOptions(vcfg.Addr)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
		return fallback
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
		return fallback
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory cache", "error", err)
		client.Close()
		return fallback
	}
	logger.Info("blueprint valkey cache enabled", "addr", vcfg.Addr)
	return blueprintcache.NewValkeyCache(client, vcfg.Prefix)
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

func provideBlueprintArchive(cfg *config.Config, logger *slog.Logger) blueprint.Archive {
	fallback := blueprintrepo.NewMemoryRepository(cfg.Blueprint.ArchiveMaxEntries)
	pcfg := cfg.Blueprint.Postgres
	dsn := strings.TrimSpace(pcfg.DSN)
	if dsn == "" {
		logger.Info("blueprint postgres dsn not set, using memory archive")
		return fallback
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory archive", "error", err)
		return fallback
	}
	if pcfg.MaxConns > 0 {
		poolConfig.MaxConns = pcfg.MaxConns
	}
	if pcfg.MinConns > 0 {
		poolConfig.MinConns = pcfg.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory archive", "error", err)
		return fallback
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory archive", "error", err)
		pool.Close()
		return fallback
	}
	repo := blueprintrepo.NewPostgresRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Error("blueprint schema setup failed, using memory archive", "error", err)
		pool.Close()
		return fallback
	}
	logger.Info("blueprint postgres archive enabled")
	return repo
}

// provideTextGenerator returns nil when no key is configured; the suggestion service then answers locally.
func provideTextGenerator(cfg *config.Config, logger *slog.Logger) (suggestion.TextGenerator, error) {
	llm := cfg.LLM
	if strings.TrimSpace(llm.APIKey) == "" {
		logger.Warn("llm api key not set, suggestions will use the local generator")
		return nil, nil
	}
	switch llm.Provider {
	case config.ProviderOpenAI:
		client, err := chatgpt.NewClient(llm.APIKey, llm.BaseURL, llm.Timeout)
		if err != nil {
			return nil, err
		}
		return chatgpt.NewGenerator(client, llm.Model, llm.Temperature, logger), nil
	default:
		return gemini.NewClient(context.Background(), llm.APIKey, llm.Model, llm.Temperature)
	}
}

func provideSuggestionConfig(cfg *config.Config) suggestion.Config {
	s := cfg.Suggestion
	return suggestion.Config{Thresholds: suggestion.ThresholdSettings{
		HotMax:      s.HotThreshold,
		ColdMax:     s.ColdMaxThreshold,
		ColdMin:     s.ColdMinThreshold,
		PackColdMax: s.PackColdMaxThreshold,
		PackColdMin: s.PackColdMinThreshold,
	}}
}

func provideSuggestionService(cfg suggestion.Config, generator suggestion.TextGenerator, logger *slog.Logger) suggestion.Service {
	return suggestion.NewService(cfg, generator, logger)
}

func provideDiscoveryConfig(cfg *config.Config) discovery.Config {
	return discovery.Config{
		CacheTTL:     cfg.Discovery.CacheTTL,
		Concurrency:  cfg.Discovery.Concurrency,
		Destinations: cfg.Discovery.Destinations,
	}
}

func providePlacesConfig(cfg *config.Config) places.Config {
	return places.Config{
		CacheTTL:      cfg.Places.CacheTTL,
		Limit:         cfg.Places.Limit,
		MaxDistanceKm: cfg.Places.MaxDistanceKm,
	}
}

func provideObjectStorage(cfg *config.Config, logger *slog.Logger) export.ObjectStorage {
	m := cfg.Export.Minio
	if !m.Enabled {
		return objectstore.NewMemoryStorage()
	}
	storage, err := objectstore.NewMinioStorage(m.Endpoint, m.AccessKey, m.SecretKey, m.Bucket, m.Region, logger)
	if err != nil {
		logger.Error("failed to create minio storage, falling back to memory", "error", err)
		return objectstore.NewMemoryStorage()
	}
	logger.Info("minio export storage enabled", "endpoint", m.Endpoint, "bucket", m.Bucket)
	return storage
}

func provideRenderer(cfg *config.Config) *pdf.Renderer {
	return pdf.NewRenderer(cfg.Export.Title)
}

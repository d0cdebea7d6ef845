//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/trip-blueprint/internal/bootstrap"
	"github.com/yanqian/trip-blueprint/internal/domain/blueprint"
	"github.com/yanqian/trip-blueprint/internal/domain/discovery"
	"github.com/yanqian/trip-blueprint/internal/domain/export"
	"github.com/yanqian/trip-blueprint/internal/domain/forecast"
	"github.com/yanqian/trip-blueprint/internal/domain/geo"
	"github.com/yanqian/trip-blueprint/internal/domain/places"
	"github.com/yanqian/trip-blueprint/internal/infra/config"
	"github.com/yanqian/trip-blueprint/internal/infra/mapbox"
	"github.com/yanqian/trip-blueprint/internal/infra/openweather"
	"github.com/yanqian/trip-blueprint/internal/infra/pdf"
	httpiface "github.com/yanqian/trip-blueprint/internal/interface/http"
	"github.com/yanqian/trip-blueprint/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideClock,
		provideMapboxClient,
		provideWeatherClient,
		provideTierClassifier,
		provideBlueprintConfig,
		provideBlueprintCache,
		provideBlueprintArchive,
		provideTextGenerator,
		provideSuggestionConfig,
		provideSuggestionService,
		provideDiscoveryConfig,
		providePlacesConfig,
		provideObjectStorage,
		provideRenderer,
		geo.NewResolver,
		blueprint.NewService,
		discovery.NewService,
		export.NewService,
		places.NewService,
		wire.Bind(new(geo.Provider), new(*mapbox.Client)),
		wire.Bind(new(blueprint.GeoResolver), new(*geo.Resolver)),
		wire.Bind(new(forecast.Provider), new(*openweather.Client)),
		wire.Bind(new(discovery.WeatherProvider), new(*openweather.Client)),
		wire.Bind(new(places.CityResolver), new(*geo.Resolver)),
		wire.Bind(new(places.Searcher), new(*mapbox.Client)),
		wire.Bind(new(export.BlueprintSource), new(blueprint.Service)),
		wire.Bind(new(export.Renderer), new(*pdf.Renderer)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}

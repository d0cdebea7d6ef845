package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/trip-blueprint/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(handler.logger),
		rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger),
	)

	router.GET("/healthz", handler.Health)

	api := router.Group("/api/v1")
	{
		api.GET("/healthz", handler.Health)

		plan := api.Group("/plan")
		plan.POST("/generate", handler.GenerateBlueprint)
		plan.GET("/blueprints/:id", handler.GetBlueprint)
		plan.GET("/blueprints/:id/pdf", handler.DownloadBlueprintPDF)

		ai := api.Group("/ai")
		ai.POST("/suggest-itinerary", handler.SuggestItinerary)
		ai.POST("/backpack-list", handler.BackpackList)

		api.POST("/search/discover", handler.Discover)
		api.GET("/places", handler.Places)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

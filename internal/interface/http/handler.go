package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/yanqian/trip-blueprint/internal/domain/blueprint"
	"github.com/yanqian/trip-blueprint/internal/domain/discovery"
	"github.com/yanqian/trip-blueprint/internal/domain/export"
	"github.com/yanqian/trip-blueprint/internal/domain/places"
	"github.com/yanqian/trip-blueprint/internal/domain/suggestion"
	apperrors "github.com/yanqian/trip-blueprint/pkg/errors"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	blueprintSvc  blueprint.Service
	suggestionSvc suggestion.Service
	discoverySvc  discovery.Service
	exportSvc     export.Service
	placesSvc     places.Service
	logger        *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(blueprintSvc blueprint.Service, suggestionSvc suggestion.Service, discoverySvc discovery.Service, exportSvc export.Service, placesSvc places.Service, logger *slog.Logger) *Handler {
	return &Handler{
		blueprintSvc:  blueprintSvc,
		suggestionSvc: suggestionSvc,
		discoverySvc:  discoverySvc,
		exportSvc:     exportSvc,
		placesSvc:     placesSvc,
		logger:        logger.With("component", "http.handler"),
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GenerateBlueprint builds (or serves from cache) a trip blueprint.
func (h *Handler) GenerateBlueprint(c *gin.Context) {
	var req blueprint.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, bindError(err))
		return
	}
	bp, err := h.blueprintSvc.Generate(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	c.JSON(http.StatusOK, bp)
}

// GetBlueprint returns an archived blueprint.
func (h *Handler) GetBlueprint(c *gin.Context) {
	bp, err := h.blueprintSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	c.JSON(http.StatusOK, bp)
}

// DownloadBlueprintPDF streams the PDF rendering of an archived blueprint.
func (h *Handler) DownloadBlueprintPDF(c *gin.Context) {
	doc, err := h.exportSvc.PDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	c.Data(http.StatusOK, doc.MimeType, doc.Data)
}

// SuggestItinerary returns day-by-day activities.
func (h *Handler) SuggestItinerary(c *gin.Context) {
	var req suggestion.ItineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, bindError(err))
		return
	}
	resp, err := h.suggestionSvc.SuggestItinerary(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// BackpackList returns a categorised packing list.
func (h *Handler) BackpackList(c *gin.Context) {
	var req suggestion.BackpackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, bindError(err))
		return
	}
	resp, err := h.suggestionSvc.BackpackList(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Discover ranks destinations by current weather.
func (h *Handler) Discover(c *gin.Context) {
	var req discovery.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, bindError(err))
		return
	}
	resp, err := h.discoverySvc.Discover(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Places lists points of interest around a city.
func (h *Handler) Places(c *gin.Context) {
	var req places.Request
	if err := c.ShouldBindQuery(&req); err != nil {
		abortWithError(c, bindError(err))
		return
	}
	resp, err := h.placesSvc.PointsOfInterest(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

var statusByCode = map[string]int{
	apperrors.CodeInvalidInput:   http.StatusBadRequest,
	apperrors.CodeOriginNotFound: http.StatusBadRequest,
	apperrors.CodeNotFound:       http.StatusNotFound,
	apperrors.CodeConfiguration:  http.StatusInternalServerError,
	apperrors.CodeUpstream:       http.StatusBadGateway,
	apperrors.CodeArchive:        http.StatusInternalServerError,
	apperrors.CodeRender:         http.StatusInternalServerError,
}

func domainError(err error) *HTTPError {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		status, ok := statusByCode[appErr.Code]
		if !ok {
			status = http.StatusInternalServerError
		}
		return NewHTTPError(status, appErr.Code, appErr.Message, err)
	}
	return NewHTTPError(http.StatusInternalServerError, "internal_error", "something went wrong", err)
}

// bindError converts binding failures into a 400 with per-field messages when available.
func bindError(err error) *HTTPError {
	httpErr := NewHTTPError(http.StatusBadRequest, apperrors.CodeInvalidInput, "request body is invalid", err)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		httpErr.Message = "request body is invalid: " + err.Error()
		return httpErr
	}
	httpErr.Fields = make(map[string]string, len(verrs))
	names := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name := jsonFieldName(fe.Field())
		httpErr.Fields[name] = fieldMessage(fe)
		names = append(names, name)
	}
	httpErr.Message = "invalid fields: " + strings.Join(names, ", ")
	return httpErr
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "datetime":
		return "must be a date formatted as YYYY-MM-DD"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "is invalid"
	}
}

// jsonFieldName lower-cases the first letter of a Go field name to match the JSON payload.
func jsonFieldName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

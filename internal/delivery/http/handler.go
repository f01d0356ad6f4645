package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/beautylens/backend/internal/domain"
	"github.com/beautylens/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	analysis  *usecase.AnalysisService
	migration *usecase.MigrationService
}

// NewHandler creates a new HTTP handler
func NewHandler(analysis *usecase.AnalysisService, migration *usecase.MigrationService) *Handler {
	return &Handler{analysis: analysis, migration: migration}
}

// analyzeRequest is the analyze endpoint request body
type analyzeRequest struct {
	ImageBase64 string `json:"imageBase64" binding:"required"`
	SkinType    string `json:"skinType,omitempty"`
	HairType    string `json:"hairType,omitempty"`
	AgeRange    string `json:"ageRange,omitempty"`
	Lifestyle   string `json:"lifestyle,omitempty"`
	Location    string `json:"location,omitempty"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "beautylens-backend",
		"version": "1.0.0",
	})
}

// Analyze handles one photo analysis request
func (h *Handler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": messageFor(domain.ErrInvalidRequest)})
		return
	}

	result, err := h.analysis.Analyze(c.Request.Context(), req.ImageBase64, domain.Profile{
		SkinType:  req.SkinType,
		HairType:  req.HairType,
		AgeRange:  req.AgeRange,
		Lifestyle: req.Lifestyle,
		Location:  req.Location,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetProduct returns one catalog record by id
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.analysis.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// ListProducts returns the full scan history
func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.analysis.ListProducts(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// SearchProducts returns catalog records matching the free-text query
func (h *Handler) SearchProducts(c *gin.Context) {
	products, err := h.analysis.SearchProducts(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// MigrateLegacy runs the one-time legacy compatibility-format migration
func (h *Handler) MigrateLegacy(c *gin.Context) {
	migrated, err := h.migration.MigrateLegacyCompatibility(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"migrated": migrated})
}

// writeError maps a domain error to an HTTP status and a localized
// user-facing message. Raw error details never cross this boundary.
func (h *Handler) writeError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": messageFor(err)})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrEmptyResponse),
		errors.Is(err, domain.ErrMalformedPayload),
		errors.Is(err, domain.ErrInvalidSchema),
		errors.Is(err, domain.ErrLowConfidence):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrVisionUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// messageFor returns the pre-localized user-facing message for an error
func messageFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return "Некорректный запрос."
	case errors.Is(err, domain.ErrProductNotFound):
		return "Продукт не найден."
	case errors.Is(err, domain.ErrVisionUnavailable):
		return "Сервис распознавания временно недоступен. Попробуйте ещё раз."
	case errors.Is(err, domain.ErrEmptyResponse):
		return "Не удалось распознать продукт. Попробуйте сделать фото крупнее и без бликов."
	case errors.Is(err, domain.ErrMalformedPayload):
		return "ИИ вернул некорректные данные. Попробуйте переснять фото."
	case errors.Is(err, domain.ErrInvalidSchema):
		return "Не удалось уверенно определить продукт. Попробуйте другой ракурс."
	case errors.Is(err, domain.ErrLowConfidence):
		return "Не удалось четко распознать продукт."
	case errors.Is(err, domain.ErrCacheCorrupted):
		return "Произошла ошибка при чтении результата. Попробуйте снова."
	case errors.Is(err, domain.ErrPersistence):
		return "Не удалось сохранить результат. Попробуйте снова."
	default:
		return "Произошла ошибка. Попробуйте снова чуть позже."
	}
}

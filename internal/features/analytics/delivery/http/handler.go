package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	apperrors "icefuse-kits-backend/internal/common/errors"
	"icefuse-kits-backend/internal/common/middleware"
	"icefuse-kits-backend/internal/features/analytics/models"
	"icefuse-kits-backend/internal/features/analytics/service"
	tokenmodels "icefuse-kits-backend/internal/features/token/models"
	tokenservice "icefuse-kits-backend/internal/features/token/service"
)

type AnalyticsHandler struct {
	service service.AnalyticsService
	tokens  tokenservice.TokenService
	rps     float64
	burst   int
	logger  zerolog.Logger
}

func NewAnalyticsHandler(service service.AnalyticsService, tokens tokenservice.TokenService, rps float64, burst int, logger zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
		tokens:  tokens,
		rps:     rps,
		burst:   burst,
		logger:  logger.With().Str("component", "analytics_handler").Logger(),
	}
}

func (h *AnalyticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	events := router.Group("/analytics")
	events.Use(middleware.RequireScope(h.tokens, tokenmodels.ScopeAnalyticsWrite, h.logger))
	events.Use(middleware.RateLimit(h.rps, h.burst, h.logger))
	events.POST("/events", h.ingestEvents)
}

type ingestRequest struct {
	Events []models.Event `json:"events" binding:"required"`
}

// @Summary Ingest analytics events
// @Description Accepts a batch of game server events and buffers them for asynchronous processing
// @Tags analytics
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ingestRequest true "Event batch"
// @Success 202 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 429 {object} map[string]interface{}
// @Router /analytics/events [post]
func (h *AnalyticsHandler) ingestEvents(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, h.logger, apperrors.NewValidationError("events", "invalid request body"))
		return
	}

	if len(req.Events) == 0 {
		middleware.AbortWithError(c, h.logger, apperrors.NewValidationError("events", "must not be empty"))
		return
	}

	accepted, err := h.service.Ingest(c.Request.Context(), req.Events)
	if err != nil {
		middleware.AbortWithError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success":  true,
		"accepted": accepted,
	})
}

package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	apperrors "icefuse-kits-backend/internal/common/errors"
	"icefuse-kits-backend/internal/common/middleware"
	"icefuse-kits-backend/internal/common/validation"
	"icefuse-kits-backend/internal/features/giveaway/models"
	"icefuse-kits-backend/internal/features/giveaway/models/dto"
	giveawayservice "icefuse-kits-backend/internal/features/giveaway/service"
	tokenmodels "icefuse-kits-backend/internal/features/token/models"
	tokenservice "icefuse-kits-backend/internal/features/token/service"
)

type GiveawayHandler struct {
	service giveawayservice.GiveawayService
	tokens  tokenservice.TokenService
	logger  zerolog.Logger
}

func NewGiveawayHandler(service giveawayservice.GiveawayService, tokens tokenservice.TokenService, logger zerolog.Logger) *GiveawayHandler {
	return &GiveawayHandler{
		service: service,
		tokens:  tokens,
		logger:  logger,
	}
}

func (h *GiveawayHandler) RegisterRoutes(router *gin.RouterGroup) {
	// Plugin-facing endpoints
	router.GET("/giveaway", middleware.RequireScope(h.tokens, tokenmodels.ScopeGiveawaysRead, h.logger), h.status)
	router.POST("/giveaway", middleware.RequireScope(h.tokens, tokenmodels.ScopeGiveawaysWrite, h.logger), h.submitEntry)

	// Admin endpoints
	giveaways := router.Group("/giveaways", middleware.RequireScope(h.tokens, tokenmodels.ScopeGiveawaysWrite, h.logger))
	{
		giveaways.POST("", h.create)
		giveaways.GET("", h.list)
		giveaways.GET("/:id", h.getByID)
		giveaways.PUT("/:id", h.update)
		giveaways.DELETE("/:id", h.delete)
		giveaways.GET("/:id/entries", h.getEntries)
	}
}

// reconcile runs the lifecycle processor before the actual request is
// served. There is no dependency on its success: failures are logged and the
// request proceeds against whatever state was reconciled.
func (h *GiveawayHandler) reconcile(c *gin.Context) {
	if err := h.service.ProcessLifecycle(c.Request.Context()); err != nil {
		h.logger.Error().
			Err(err).
			Str("request_id", middleware.GetRequestID(c)).
			Msg("Lifecycle pass failed")
	}
}

// @Summary Check giveaway status
// @Description Returns the currently active giveaway for the given server, or the most recently ended one for winner display
// @Tags giveaway
// @Produce json
// @Security BearerAuth
// @Param steamId query string false "Player SteamID64 (17 digits)"
// @Param server query string false "Server identifier"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /giveaway [get]
func (h *GiveawayHandler) status(c *gin.Context) {
	h.reconcile(c)

	steamID := c.Query("steamId")
	if steamID != "" && !validation.IsValidSteamID64(steamID) {
		middleware.AbortWithError(c, h.logger, apperrors.NewValidationError("steamId", "must be exactly 17 digits"))
		return
	}
	server := c.Query("server")

	status, err := h.service.CheckStatus(c.Request.Context(), steamID, server)
	if err != nil {
		middleware.AbortWithError(c, h.logger, err)
		return
	}

	entries := status.Entries
	if entries == nil {
		entries = []models.Entry{}
	}

	resp := gin.H{
		"success":  true,
		"active":   status.Active,
		"giveaway": status.Giveaway,
		"data":     entries,
		"count":    len(entries),
	}
	if status.HasEntered != nil {
		resp["hasEntered"] = *status.HasEntered
	}
	if status.Message != "" {
		resp["message"] = status.Message
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Submit a giveaway entry
// @Description Registers a player into the active giveaway for the submitting server
// @Tags giveaway
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body dto.EntryCreateRequest true "Entry payload"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /giveaway [post]
func (h *GiveawayHandler) submitEntry(c *gin.Context) {
	h.reconcile(c)

	var input dto.EntryCreateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.AbortWithError(c, h.logger, apperrors.New(apperrors.ErrCodeBadRequest, "Invalid request body"))
		return
	}

	entry, giveaway, err := h.service.SubmitEntry(c.Request.Context(), input)
	if err != nil {
		middleware.AbortWithError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    entry,
		"giveaway": gin.H{
			"id":   giveaway.ID,
			"name": giveaway.Name,
		},
	})
}

// @Summary Create a giveaway
// @Tags giveaways
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body dto.GiveawayCreateRequest true "Giveaway payload"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /giveaways [post]
func (h *GiveawayHandler) create(c *gin.Context) {
	var input dto.GiveawayCreateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.AbortWithError(c, h.logger, apperrors.New(apperrors.ErrCodeBadRequest, "Invalid request body"))
		return
	}

	giveaway, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		middleware.AbortWithError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": giveaway})
}

// @Summary List giveaways
// @Tags giveaways
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /giveaways [get]
func (h *GiveawayHandler) list(c *gin.Context) {
	h.reconcile(c)

	giveaways, err := h.service.List(c.Request.Context())
	if err != nil {
		middleware.AbortWithError(c, h.logger, err)
		return
	}
	if giveaways == nil {
		giveaways = []*models.Giveaway{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": giveaways, "count": len(giveaways)})
}

// @Summary Get a giveaway
// @Tags giveaways
// @Produce json
// @Security BearerAuth
// @Param id path string true "Giveaway ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /giveaways/{id} [get]
func (h *GiveawayHandler) getByID(c *gin.Context) {
	h.reconcile(c)

	giveaway, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.AbortWithError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": giveaway})
}

// @Summary Update a giveaway
// @Tags giveaways
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Giveaway ID"
// @Param input body dto.GiveawayUpdateRequest true "Giveaway payload"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /giveaways/{id} [put]
func (h *GiveawayHandler) update(c *gin.Context) {
	h.reconcile(c)

	var input dto.GiveawayUpdateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.AbortWithError(c, h.logger, apperrors.New(apperrors.ErrCodeBadRequest, "Invalid request body"))
		return
	}

	giveaway, err := h.service.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		middleware.AbortWithError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": giveaway})
}

// @Summary Delete a giveaway
// @Tags giveaways
// @Produce json
// @Security BearerAuth
// @Param id path string true "Giveaway ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /giveaways/{id} [delete]
func (h *GiveawayHandler) delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		middleware.AbortWithError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// @Summary List giveaway entries
// @Tags giveaways
// @Produce json
// @Security BearerAuth
// @Param id path string true "Giveaway ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /giveaways/{id}/entries [get]
func (h *GiveawayHandler) getEntries(c *gin.Context) {
	h.reconcile(c)

	entries, err := h.service.GetEntries(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.AbortWithError(c, h.logger, err)
		return
	}
	if entries == nil {
		entries = []models.Entry{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": entries, "count": len(entries)})
}

package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	apperrors "icefuse-kits-backend/internal/common/errors"
	"icefuse-kits-backend/internal/common/middleware"
	"icefuse-kits-backend/internal/features/token/models"
	tokenservice "icefuse-kits-backend/internal/features/token/service"
)

type TokenHandler struct {
	service tokenservice.TokenService
	logger  zerolog.Logger
}

func NewTokenHandler(service tokenservice.TokenService, logger zerolog.Logger) *TokenHandler {
	return &TokenHandler{service: service, logger: logger}
}

func (h *TokenHandler) RegisterRoutes(router *gin.RouterGroup) {
	tokens := router.Group("/tokens", middleware.RequireScope(h.service, models.ScopeTokensAdmin, h.logger))
	{
		tokens.POST("", h.create)
		tokens.GET("", h.list)
		tokens.DELETE("/:id", h.revoke)
	}
}

type createTokenRequest struct {
	Name   string   `json:"name" binding:"required"`
	Scopes []string `json:"scopes" binding:"required"`
}

// @Summary Create an API token
// @Description Mints a bearer token; the secret is returned once and never stored in plaintext
// @Tags tokens
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body createTokenRequest true "Token payload"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /tokens [post]
func (h *TokenHandler) create(c *gin.Context) {
	var input createTokenRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.AbortWithError(c, h.logger, apperrors.New(apperrors.ErrCodeBadRequest, "Invalid request body"))
		return
	}

	token, secret, err := h.service.CreateToken(c.Request.Context(), input.Name, input.Scopes)
	if err != nil {
		middleware.AbortWithError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    token,
		"token":   secret,
	})
}

// @Summary List API tokens
// @Tags tokens
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /tokens [get]
func (h *TokenHandler) list(c *gin.Context) {
	tokens, err := h.service.List(c.Request.Context())
	if err != nil {
		middleware.AbortWithError(c, h.logger, err)
		return
	}
	if tokens == nil {
		tokens = []*models.APIToken{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": tokens, "count": len(tokens)})
}

// @Summary Revoke an API token
// @Tags tokens
// @Produce json
// @Security BearerAuth
// @Param id path string true "Token ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /tokens/{id} [delete]
func (h *TokenHandler) revoke(c *gin.Context) {
	if err := h.service.Revoke(c.Request.Context(), c.Param("id")); err != nil {
		middleware.AbortWithError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

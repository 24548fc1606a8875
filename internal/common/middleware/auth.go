package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"icefuse-kits-backend/internal/common/errors"
	tokenmodels "icefuse-kits-backend/internal/features/token/models"
	tokenservice "icefuse-kits-backend/internal/features/token/service"
)

const tokenContextKey = "api_token"

// RequireScope authenticates the bearer token and checks it carries the
// required scope.
func RequireScope(tokens tokenservice.TokenService, scope string, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := bearerSecret(c)
		if secret == "" {
			AbortWithError(c, logger, errors.NewUnauthorizedError("bearer token required"))
			return
		}

		token, err := tokens.Authenticate(c.Request.Context(), secret)
		if err != nil {
			AbortWithError(c, logger, err)
			return
		}

		if !token.HasScope(scope) {
			AbortWithError(c, logger, errors.New(errors.ErrCodeMissingScope, "Token is missing the required scope").
				WithDetail("required_scope", scope))
			return
		}

		c.Set(tokenContextKey, token)
		c.Next()
	}
}

// GetToken returns the authenticated token from the request context, if any.
func GetToken(c *gin.Context) (*tokenmodels.APIToken, bool) {
	value, exists := c.Get(tokenContextKey)
	if !exists {
		return nil, false
	}
	token, ok := value.(*tokenmodels.APIToken)
	return token, ok
}

func bearerSecret(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

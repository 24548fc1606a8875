package middleware

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"icefuse-kits-backend/internal/common/errors"
)

// RateLimit enforces a per-token request rate. Unauthenticated requests fall
// back to a shared limiter keyed by client IP.
func RateLimit(rps float64, burst int, logger zerolog.Logger) gin.HandlerFunc {
	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)

	limiterFor := func(key string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		l, ok := limiters[key]
		if !ok {
			l = rate.NewLimiter(rate.Limit(rps), burst)
			limiters[key] = l
		}
		return l
	}

	return func(c *gin.Context) {
		key := c.ClientIP()
		if token, ok := GetToken(c); ok {
			key = token.ID
		}

		if !limiterFor(key).Allow() {
			AbortWithError(c, logger, errors.New(errors.ErrCodeRateLimit, "Rate limit exceeded"))
			return
		}

		c.Next()
	}
}

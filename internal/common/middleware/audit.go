package middleware

import (
	"github.com/gin-gonic/gin"

	"icefuse-kits-backend/internal/features/audit"
)

// Audit writes one audit log row per authenticated mutating request after the
// handler completes. Reads are not audited.
func Audit(recorder *audit.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method == "GET" || c.Request.Method == "HEAD" || c.Request.Method == "OPTIONS" {
			return
		}

		token, ok := GetToken(c)
		if !ok {
			return
		}

		recorder.Record(c.Request.Context(), token.ID, token.Name,
			c.Request.Method, c.FullPath(), gin.H{
				"status":     c.Writer.Status(),
				"request_id": GetRequestID(c),
			})
	}
}

package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"community-service/internal/telemetry"
)

const RequestIDKey = "request_id"

// RequestID reuses X-Request-ID or mints one, echoes it back and stores it on
// both the gin context and the request context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)
		c.Request = c.Request.WithContext(telemetry.WithRequestID(c.Request.Context(), requestID))
		c.Next()
	}
}

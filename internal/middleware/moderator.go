package middleware

import (
	"github.com/gin-gonic/gin"

	"community-service/internal/flash"
)

// RequireModerator lets through callers whose role can moderate.
func RequireModerator() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentActor(c).Role.CanModerate() {
			c.Next()
			return
		}
		flash.Redirect(c, "/", flash.Error, "You must be a moderator to access this page.")
		c.Abort()
	}
}

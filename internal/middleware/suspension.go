package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const SuspendedPath = "/account-suspended/"

var suspensionAllowlist = []string{SuspendedPath, "/logout/", "/static/", "/media/"}

// SuspensionGate sends suspended users to the suspension page. It must run
// after AuthMiddleware.
func SuspensionGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(ContextSuspended) {
			c.Next()
			return
		}
		path := c.Request.URL.Path
		for _, prefix := range suspensionAllowlist {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}
		c.Redirect(http.StatusFound, SuspendedPath)
		c.Abort()
	}
}

package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"community-service/internal/models"
)

// Keys the auth middleware sets on the gin context.
const (
	ContextUserID    = "userID"
	ContextUser      = "user"
	ContextRole      = "role"
	ContextSuspended = "suspended"
)

// TokenValidator verifies a bearer token and returns the user id it names.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (int, error)
}

// AccountResolver loads the account and profile for a user id.
type AccountResolver interface {
	Resolve(ctx context.Context, userID int) (models.User, models.Profile, error)
}

// AuthMiddleware validates the Authorization header and loads the caller's
// role and suspension state once for the rest of the request.
func AuthMiddleware(tokens TokenValidator, accounts AccountResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		userID, err := tokens.ValidateToken(c.Request.Context(), parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		user, profile, err := accounts.Resolve(c.Request.Context(), userID)
		if err != nil {
			log.Printf("auth: resolve account failed user_id=%d err=%v", userID, err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextUser, user)
		c.Set(ContextRole, profile.Role)
		c.Set(ContextSuspended, profile.IsSuspended)
		c.Next()
	}
}

// CurrentUser returns the authenticated account.
func CurrentUser(c *gin.Context) (models.User, bool) {
	val, ok := c.Get(ContextUser)
	if !ok {
		return models.User{}, false
	}
	user, ok := val.(models.User)
	return user, ok
}

// CurrentActor returns the caller's id and role.
func CurrentActor(c *gin.Context) models.Actor {
	role, _ := c.Get(ContextRole)
	r, _ := role.(models.Role)
	return models.Actor{ID: c.GetInt(ContextUserID), Role: r}
}

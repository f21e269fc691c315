package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"community-service/internal/middleware"
	"community-service/internal/models"
)

func requestIDFromContext(c *gin.Context) string {
	if id := c.GetString(middleware.RequestIDKey); id != "" {
		return id
	}

	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set(middleware.RequestIDKey, requestID)
	return requestID
}

func userIDFromContext(c *gin.Context) *string {
	if userID := c.GetInt(middleware.ContextUserID); userID != 0 {
		value := strconv.Itoa(userID)
		return &value
	}
	if header := c.GetHeader("X-User-ID"); header != "" {
		return &header
	}
	return nil
}

// currentUser aborts with 401 when the auth middleware did not run.
func currentUser(c *gin.Context) (models.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return models.User{}, false
	}
	return user, true
}

// queryID parses a required positive integer query parameter, answering 400
// when it is missing or malformed.
func queryID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Query(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// optionalQueryID returns nil when the parameter is absent or malformed.
func optionalQueryID(c *gin.Context, name string) *int {
	id, err := strconv.Atoi(c.Query(name))
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}

// formValue reads a field from a form body or a JSON body.
func formValue(c *gin.Context, name string) string {
	if value, ok := c.GetPostForm(name); ok {
		return value
	}
	if c.ContentType() == gin.MIMEJSON {
		var body map[string]interface{}
		if err := c.ShouldBindJSON(&body); err == nil {
			if value, ok := body[name].(string); ok {
				return value
			}
		}
	}
	return ""
}

package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"community-service/internal/flash"
	"community-service/internal/notifications"
)

// NotificationHandler serves the caller's inbox.
type NotificationHandler struct {
	inbox *notifications.Inbox
}

// NewNotificationHandler builds a NotificationHandler.
func NewNotificationHandler(inbox *notifications.Inbox) *NotificationHandler {
	return &NotificationHandler{inbox: inbox}
}

// List returns the latest notifications and the unread count.
func (h *NotificationHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	list, unread, err := h.inbox.List(c.Request.Context(), user.ID)
	if err != nil {
		log.Printf("list notifications failed: user_id=%d err=%v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": list, "unread_count": unread})
}

// ReadAll marks every notification read.
func (h *NotificationHandler) ReadAll(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if _, err := h.inbox.MarkAllRead(c.Request.Context(), user.ID); err != nil {
		log.Printf("mark notifications read failed: user_id=%d err=%v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update notifications"})
		return
	}
	flash.Redirect(c, "/notifications/", flash.Success, "All notifications marked as read.")
}

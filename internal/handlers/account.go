package handlers

import (
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"community-service/internal/accounts"
	"community-service/internal/flash"
)

// AccountHandler serves session and suspension pages.
type AccountHandler struct {
	accounts *accounts.Service
}

// NewAccountHandler builds an AccountHandler.
func NewAccountHandler(accounts *accounts.Service) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Messages drains queued flash messages.
func (h *AccountHandler) Messages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"messages": flash.Drain(c)})
}

// Logout clears the session cookie.
func (h *AccountHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		log.Printf("logout: session save failed: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

// Suspended explains why the caller cannot use the site. Active users are
// sent home.
func (h *AccountHandler) Suspended(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	_, profile, err := h.accounts.Resolve(c.Request.Context(), user.ID)
	if err != nil {
		log.Printf("suspension page: resolve failed user_id=%d err=%v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load account"})
		return
	}
	if !profile.IsSuspended {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"username":          user.Username,
		"suspension_reason": profile.SuspensionReason,
		"suspended_at":      profile.SuspendedAt,
	})
}

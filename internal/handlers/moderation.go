package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"community-service/internal/flash"
	"community-service/internal/middleware"
	"community-service/internal/moderation"
	"community-service/internal/repositories"
)

const (
	moderationPath     = "/moderation/"
	suspendedUsersPath = "/moderation/suspended-users/"
)

// ModerationHandler serves the moderator console. Routes are expected to sit
// behind middleware.RequireModerator.
type ModerationHandler struct {
	flags     *moderation.Flags
	moderator *moderation.Moderator
	users     repositories.UserRepository
}

// NewModerationHandler builds a ModerationHandler.
func NewModerationHandler(flags *moderation.Flags, moderator *moderation.Moderator, users repositories.UserRepository) *ModerationHandler {
	return &ModerationHandler{flags: flags, moderator: moderator, users: users}
}

// Dashboard lists pending flags and review statistics.
func (h *ModerationHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.flags.Dashboard(c.Request.Context(), middleware.CurrentActor(c))
	if h.respondError(c, err) {
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// RemovePost hides ?id=, closing ?flag= when given.
func (h *ModerationHandler) RemovePost(c *gin.Context) {
	postID, ok := queryID(c, "id")
	if !ok {
		return
	}

	post, err := h.moderator.RemovePost(c.Request.Context(), postID, middleware.CurrentActor(c), formValue(c, "reason"), optionalQueryID(c, "flag"))
	if h.respondError(c, err) {
		return
	}
	flash.Redirect(c, moderationPath, flash.Success, fmt.Sprintf("Post by %s has been removed.", h.username(c, post.UserID)))
}

// RemoveMessage hides ?id=, closing ?flag= when given.
func (h *ModerationHandler) RemoveMessage(c *gin.Context) {
	messageID, ok := queryID(c, "id")
	if !ok {
		return
	}

	msg, err := h.moderator.RemoveMessage(c.Request.Context(), messageID, middleware.CurrentActor(c), formValue(c, "reason"), optionalQueryID(c, "flag"))
	if h.respondError(c, err) {
		return
	}
	author := "system"
	if msg.SenderID != nil {
		author = h.username(c, *msg.SenderID)
	}
	flash.Redirect(c, moderationPath, flash.Success, fmt.Sprintf("Message by %s has been removed.", author))
}

// Dismiss closes ?id= with no action taken.
func (h *ModerationHandler) Dismiss(c *gin.Context) {
	flagID, ok := queryID(c, "id")
	if !ok {
		return
	}

	err := h.flags.Dismiss(c.Request.Context(), flagID, middleware.CurrentActor(c), formValue(c, "notes"))
	if h.respondError(c, err) {
		return
	}
	flash.Redirect(c, moderationPath, flash.Success, "Flag dismissed.")
}

// MarkActioned closes ?id= as handled outside the removal endpoints.
func (h *ModerationHandler) MarkActioned(c *gin.Context) {
	flagID, ok := queryID(c, "id")
	if !ok {
		return
	}

	err := h.flags.MarkActioned(c.Request.Context(), flagID, middleware.CurrentActor(c), formValue(c, "notes"))
	if h.respondError(c, err) {
		return
	}
	flash.Redirect(c, moderationPath, flash.Success, "Flag marked as actioned.")
}

// Suspend blocks ?id=, closing ?flag= when given.
func (h *ModerationHandler) Suspend(c *gin.Context) {
	userID, ok := queryID(c, "id")
	if !ok {
		return
	}
	flagID := optionalQueryID(c, "flag")

	user, err := h.moderator.Suspend(c.Request.Context(), userID, middleware.CurrentActor(c), formValue(c, "reason"), flagID)
	if errors.Is(err, moderation.ErrReasonRequired) {
		flash.Redirect(c, moderationPath, flash.Error, "Suspension reason is required.")
		return
	}
	if h.respondError(c, err) {
		return
	}
	flash.Redirect(c, moderationPath, flash.Success, fmt.Sprintf("User %s has been suspended.", user.Username))
}

// Reinstate lifts the suspension of ?id=.
func (h *ModerationHandler) Reinstate(c *gin.Context) {
	userID, ok := queryID(c, "id")
	if !ok {
		return
	}

	user, err := h.moderator.Reinstate(c.Request.Context(), userID, middleware.CurrentActor(c))
	if h.respondError(c, err) {
		return
	}
	flash.Redirect(c, suspendedUsersPath, flash.Success, fmt.Sprintf("User %s has been reinstated.", user.Username))
}

// SuspendedUsers lists every suspended account.
func (h *ModerationHandler) SuspendedUsers(c *gin.Context) {
	users, err := h.moderator.SuspendedUsers(c.Request.Context(), middleware.CurrentActor(c))
	if h.respondError(c, err) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"suspended_users": users})
}

func (h *ModerationHandler) username(c *gin.Context, userID int) string {
	user, err := h.users.GetUser(c.Request.Context(), userID)
	if err != nil {
		log.Printf("moderation: username lookup failed user_id=%d err=%v", userID, err)
		return "user #" + strconv.Itoa(userID)
	}
	return user.Username
}

func (h *ModerationHandler) respondError(c *gin.Context, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, moderation.ErrNotModerator):
		flash.Redirect(c, "/", flash.Error, "You must be a moderator to access this page.")
	case errors.Is(err, repositories.ErrPostNotFound),
		errors.Is(err, repositories.ErrMessageNotFound),
		errors.Is(err, repositories.ErrUserNotFound),
		errors.Is(err, moderation.ErrFlagNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, moderation.ErrFlagAlreadyResolved):
		flash.Redirect(c, moderationPath, flash.Info, "Flag was already resolved.")
	default:
		log.Printf("moderation request failed: path=%s err=%v", c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "moderation action failed"})
	}
	return true
}

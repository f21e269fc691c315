package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"community-service/internal/flash"
	"community-service/internal/repositories"
	"community-service/internal/social"
)

const friendsPath = "/friends/"

// FriendHandler serves the friend request workflow.
type FriendHandler struct {
	workflow *social.Workflow
	users    repositories.UserRepository
}

// NewFriendHandler builds a FriendHandler.
func NewFriendHandler(workflow *social.Workflow, users repositories.UserRepository) *FriendHandler {
	return &FriendHandler{workflow: workflow, users: users}
}

func profilePath(username string) string {
	return "/profiles/" + url.PathEscape(username)
}

// Overview lists friends and pending requests in both directions.
func (h *FriendHandler) Overview(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	overview, err := h.workflow.Overview(c.Request.Context(), user)
	if err != nil {
		log.Printf("friends overview failed: user_id=%d err=%v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load friends"})
		return
	}
	c.JSON(http.StatusOK, overview)
}

// Send issues a friend request to ?username=.
func (h *FriendHandler) Send(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	username := c.Query("username")
	target, err := h.users.GetUserByUsername(c.Request.Context(), username)
	if errors.Is(err, repositories.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
		return
	}

	_, err = h.workflow.Send(c.Request.Context(), user, target)
	var reverse *social.ReversePendingError
	switch {
	case err == nil:
		flash.Redirect(c, profilePath(target.Username), flash.Success, fmt.Sprintf("Friend request sent to %s!", target.Username))
	case errors.Is(err, social.ErrSelfRequest):
		flash.Redirect(c, profilePath(target.Username), flash.Error, "Cannot send request to yourself.")
	case errors.Is(err, social.ErrAlreadyFriends):
		flash.Redirect(c, profilePath(target.Username), flash.Info, fmt.Sprintf("Already friends with %s.", target.Username))
	case errors.Is(err, social.ErrRequestAlreadySent):
		flash.Redirect(c, profilePath(target.Username), flash.Info, "Friend request already sent.")
	case errors.As(err, &reverse):
		flash.Redirect(c, friendsPath, flash.Info, fmt.Sprintf("%s already sent you a request!", target.Username))
	default:
		log.Printf("friend request failed: from=%d to=%d err=%v", user.ID, target.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send friend request"})
	}
}

// Accept answers ?id= with yes.
func (h *FriendHandler) Accept(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	requestID, ok := queryID(c, "id")
	if !ok {
		return
	}

	resp, err := h.workflow.Accept(c.Request.Context(), requestID, user)
	if h.respondError(c, err) {
		return
	}
	flash.Redirect(c, friendsPath, flash.Success, fmt.Sprintf("Now friends with %s!", resp.Counterpart.Username))
}

// Reject answers ?id= with no.
func (h *FriendHandler) Reject(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	requestID, ok := queryID(c, "id")
	if !ok {
		return
	}

	_, err := h.workflow.Reject(c.Request.Context(), requestID, user)
	if h.respondError(c, err) {
		return
	}
	flash.Redirect(c, friendsPath, flash.Success, "Friend request rejected.")
}

// Unfriend removes the friendship with ?username=.
func (h *FriendHandler) Unfriend(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	friend, err := h.users.GetUserByUsername(c.Request.Context(), c.Query("username"))
	if errors.Is(err, repositories.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
		return
	}

	err = h.workflow.Unfriend(c.Request.Context(), user, friend)
	switch {
	case err == nil:
		flash.Redirect(c, friendsPath, flash.Success, fmt.Sprintf("No longer friends with %s.", friend.Username))
	case errors.Is(err, social.ErrNotFriends):
		flash.Redirect(c, friendsPath, flash.Info, fmt.Sprintf("You are not friends with %s.", friend.Username))
	default:
		log.Printf("unfriend failed: user_id=%d friend_id=%d err=%v", user.ID, friend.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove friend"})
	}
}

// respondError writes the response for a failed accept or reject and reports
// whether it did.
func (h *FriendHandler) respondError(c *gin.Context, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, social.ErrFriendRequestNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "friend request not found"})
	case errors.Is(err, social.ErrAlreadyProcessed):
		flash.Redirect(c, friendsPath, flash.Info, "Request already processed.")
	default:
		log.Printf("friend request response failed: err=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update friend request"})
	}
	return true
}

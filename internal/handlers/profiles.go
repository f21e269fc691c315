package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"community-service/internal/accounts"
	"community-service/internal/validation"
)

// ProfileHandler serves public profiles.
type ProfileHandler struct {
	accounts *accounts.Service
}

// NewProfileHandler builds a ProfileHandler.
func NewProfileHandler(accounts *accounts.Service) *ProfileHandler {
	return &ProfileHandler{accounts: accounts}
}

// Upsert creates or updates the caller's profile. It answers 201 on create
// and 200 on update.
func (h *ProfileHandler) Upsert(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var in accounts.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	info, created, err := h.accounts.UpsertProfile(c.Request.Context(), user, in)
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, verr)
		return
	case errors.Is(err, accounts.ErrProfileNotOwned):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	case err != nil:
		log.Printf("profile upsert failed: user_id=%d err=%v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save profile"})
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, info)
}

// Public returns the public fields of :username.
func (h *ProfileHandler) Public(c *gin.Context) {
	info, err := h.accounts.PublicProfile(c.Request.Context(), c.Param("username"))
	if errors.Is(err, accounts.ErrProfileNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}
	c.JSON(http.StatusOK, info)
}

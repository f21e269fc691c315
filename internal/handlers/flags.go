package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"community-service/internal/models"
	"community-service/internal/moderation"
	"community-service/internal/validation"
)

// FlagHandler accepts user reports.
type FlagHandler struct {
	flags *moderation.Flags
}

// NewFlagHandler builds a FlagHandler.
func NewFlagHandler(flags *moderation.Flags) *FlagHandler {
	return &FlagHandler{flags: flags}
}

type fileFlagRequest struct {
	Reason      models.FlagReason `json:"reason" form:"reason"`
	Description string            `json:"description" form:"description"`
}

// File reports ?type=&id= with a reason and description from the body.
func (h *FlagHandler) File(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req fileFlagRequest
	if err := c.ShouldBind(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	contentID, ok := queryID(c, "id")
	if !ok {
		return
	}
	flag, err := h.flags.File(c.Request.Context(), user.ID, moderation.FileInput{
		ContentType: models.ContentType(c.Query("type")),
		ContentID:   contentID,
		Reason:      req.Reason,
		Description: req.Description,
	})
	var verr *validation.Error
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, verr)
		return
	}
	if err != nil {
		log.Printf("file flag failed: reporter=%d err=%v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to file report"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"flag":    flag,
		"message": "Thank you for reporting. Our moderators will review this content.",
	})
}

// internal/interfaces/http/handlers/feedback.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-api/internal/config"
	"github.com/your-org/storefront-api/internal/domain/feedback"
	"gorm.io/gorm"
)

// FeedbackHandler handles the public feedback form
type FeedbackHandler struct {
	feedbackService *feedback.Service
	config          *config.Config
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(db *gorm.DB, cfg *config.Config) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackService: feedback.NewService(db, cfg),
		config:          cfg,
	}
}

// Create handles POST /feedback. Write-only: submissions are stored and
// never exposed through the API.
func (h *FeedbackHandler) Create(c *gin.Context) {
	var req feedback.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if _, err := h.feedbackService.Create(&req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store feedback"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Feedback submitted successfully",
	})
}

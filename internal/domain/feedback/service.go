// internal/domain/feedback/service.go
package feedback

import (
	"fmt"

	"github.com/your-org/storefront-api/internal/config"
	"gorm.io/gorm"
)

// Service handles feedback submissions
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new feedback service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreateRequest represents a feedback submission
type CreateRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Mobile  string `json:"mobile" binding:"required"`
	Comment string `json:"comment" binding:"required"`
}

// Create stores a feedback submission
func (s *Service) Create(req *CreateRequest) (*Feedback, error) {
	fb := Feedback{
		Name:    req.Name,
		Email:   req.Email,
		Mobile:  req.Mobile,
		Comment: req.Comment,
	}
	if err := s.db.Create(&fb).Error; err != nil {
		return nil, fmt.Errorf("failed to save feedback: %w", err)
	}
	return &fb, nil
}

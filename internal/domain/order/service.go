// internal/domain/order/service.go
package order

import (
	"errors"
	"fmt"

	"github.com/your-org/storefront-api/internal/config"
	"gorm.io/gorm"
)

// Domain errors surfaced to the HTTP layer.
var (
	ErrOrderNotFound = errors.New("order not found")
)

// Service handles order read paths and staff status updates. Orders are
// only ever created by the checkout service.
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new order service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ListRequest represents order list query parameters
type ListRequest struct {
	Page      int   `form:"page,default=1"`
	Limit     int   `form:"limit,default=20"`
	Shipped   *bool `form:"shipped"`
	Delivered *bool `form:"delivered"`
	Cancelled *bool `form:"cancelled"`
}

// UpdateStatusRequest carries the staff-settable status flags. The flags
// are independent; no ordering or mutual exclusion is imposed between
// them.
type UpdateStatusRequest struct {
	Shipped   *bool `json:"shipped"`
	Delivered *bool `json:"delivered"`
	Cancelled *bool `json:"cancelled"`
}

// ListResponse represents order list response with pagination
type ListResponse struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// ListOrders returns orders visible to the caller. Staff see every
// order; everyone else sees only their own.
func (s *Service) ListOrders(userID uint, isStaff bool, req *ListRequest) (*ListResponse, error) {
	var orders []Order
	var total int64

	query := s.db.Model(&Order{}).Preload("Items").Preload("Items.Product")

	if !isStaff {
		query = query.Where("user_id = ?", userID)
	}

	if req.Shipped != nil {
		query = query.Where("shipped = ?", *req.Shipped)
	}
	if req.Delivered != nil {
		query = query.Where("delivered = ?", *req.Delivered)
	}
	if req.Cancelled != nil {
		query = query.Where("cancelled = ?", *req.Cancelled)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 {
		req.Limit = 20
	}

	offset := (req.Page - 1) * req.Limit
	err := query.Order("placed_at DESC").Offset(offset).Limit(req.Limit).Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &ListResponse{
		Orders: orders,
		Pagination: Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    req.Page < totalPages,
			HasPrev:    req.Page > 1,
		},
	}, nil
}

// GetOrder retrieves a single order with its items
func (s *Service) GetOrder(id uint) (*Order, error) {
	var o Order
	err := s.db.Preload("Items").Preload("Items.Product").Where("id = ?", id).First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}
	return &o, nil
}

// UpdateStatus sets the provided status flags on an order. Only the
// flags present in the request change; total price and items are
// immutable after placement.
func (s *Service) UpdateStatus(id uint, req *UpdateStatusRequest) (*Order, error) {
	var o Order
	if err := s.db.Where("id = ?", id).First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Shipped != nil {
		updates["shipped"] = *req.Shipped
	}
	if req.Delivered != nil {
		updates["delivered"] = *req.Delivered
	}
	if req.Cancelled != nil {
		updates["cancelled"] = *req.Cancelled
	}

	if len(updates) > 0 {
		if err := s.db.Model(&o).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update order status: %w", err)
		}
	}

	return s.GetOrder(id)
}

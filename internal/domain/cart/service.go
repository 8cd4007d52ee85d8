// internal/domain/cart/service.go
package cart

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-api/internal/config"
	"github.com/your-org/storefront-api/internal/domain/catalog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Domain errors surfaced to the HTTP layer.
var (
	ErrCartNotFound    = errors.New("cart not found")
	ErrItemNotFound    = errors.New("cart item not found")
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// Service handles cart business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new cart service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// AddItemRequest represents add to cart request
type AddItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// UpdateItemRequest represents update cart item request
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// ItemView represents a cart item with its product and derived line total
type ItemView struct {
	ID        uint            `json:"id"`
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Product   catalog.Product `json:"product"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// CartView represents a cart with its items and derived totals
type CartView struct {
	ID         uuid.UUID       `json:"id"`
	Items      []ItemView      `json:"items"`
	TotalPrice decimal.Decimal `json:"total_price"`
	CreatedAt  time.Time       `json:"created_at"`
}

// CreateCart allocates a new empty cart with a freshly generated token
func (s *Service) CreateCart() (*Cart, error) {
	c := Cart{ID: uuid.New()}
	if err := s.db.Create(&c).Error; err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}
	return &c, nil
}

// GetCart returns a cart with all its items, product snapshots and
// derived line and cart totals
func (s *Service) GetCart(cartID uuid.UUID) (*CartView, error) {
	var c Cart
	err := s.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.id ASC")
		}).
		Preload("Items.Product").
		Where("id = ?", cartID).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}

	view := CartView{
		ID:         c.ID,
		Items:      make([]ItemView, len(c.Items)),
		TotalPrice: decimal.Zero,
		CreatedAt:  c.CreatedAt,
	}

	for i, item := range c.Items {
		lineTotal := item.Product.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		view.Items[i] = ItemView{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Product:   item.Product,
			LineTotal: lineTotal,
		}
		view.TotalPrice = view.TotalPrice.Add(lineTotal)
	}

	return &view, nil
}

// AddItem adds a product to the cart. Adding a product that is already
// in the cart increments the existing row's quantity; the (cart, product)
// pair is unique and the increment happens atomically in the database, so
// concurrent adds never produce duplicate rows.
func (s *Service) AddItem(cartID uuid.UUID, req *AddItemRequest) (*ItemView, error) {
	if req.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	var c Cart
	if err := s.db.Where("id = ?", cartID).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}

	var product catalog.Product
	if err := s.db.Where("id = ?", req.ProductID).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}

	item := CartItem{
		CartID:    cartID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity": gorm.Expr("cart_items.quantity + excluded.quantity"),
		}),
	}).Create(&item).Error
	if err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	// Re-read: on conflict the insert above updated an existing row, so
	// item.ID is not reliable.
	var stored CartItem
	err = s.db.Preload("Product").
		Where("cart_id = ? AND product_id = ?", cartID, req.ProductID).
		First(&stored).Error
	if err != nil {
		return nil, fmt.Errorf("failed to reload cart item: %w", err)
	}

	lineTotal := stored.Product.UnitPrice.Mul(decimal.NewFromInt(int64(stored.Quantity)))
	return &ItemView{
		ID:        stored.ID,
		ProductID: stored.ProductID,
		Quantity:  stored.Quantity,
		Product:   stored.Product,
		LineTotal: lineTotal,
	}, nil
}

// UpdateItemQuantity replaces the stored quantity of an item in the cart
func (s *Service) UpdateItemQuantity(cartID uuid.UUID, itemID uint, req *UpdateItemRequest) (*ItemView, error) {
	if req.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	result := s.db.Model(&CartItem{}).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Update("quantity", req.Quantity)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrItemNotFound
	}

	var stored CartItem
	if err := s.db.Preload("Product").Where("id = ?", itemID).First(&stored).Error; err != nil {
		return nil, fmt.Errorf("failed to reload cart item: %w", err)
	}

	lineTotal := stored.Product.UnitPrice.Mul(decimal.NewFromInt(int64(stored.Quantity)))
	return &ItemView{
		ID:        stored.ID,
		ProductID: stored.ProductID,
		Quantity:  stored.Quantity,
		Product:   stored.Product,
		LineTotal: lineTotal,
	}, nil
}

// RemoveItem deletes one item from the cart
func (s *Service) RemoveItem(cartID uuid.UUID, itemID uint) error {
	result := s.db.Where("id = ? AND cart_id = ?", itemID, cartID).Delete(&CartItem{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove cart item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

// DeleteCart removes a cart together with all its items
func (s *Service) DeleteCart(cartID uuid.UUID) error {
	tx := s.db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Where("cart_id = ?", cartID).Delete(&CartItem{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete cart items: %w", err)
	}

	result := tx.Where("id = ?", cartID).Delete(&Cart{})
	if result.Error != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete cart: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return ErrCartNotFound
	}

	return tx.Commit().Error
}

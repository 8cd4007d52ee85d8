// internal/domain/checkout/service.go
package checkout

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-api/internal/config"
	"github.com/your-org/storefront-api/internal/domain/cart"
	"github.com/your-org/storefront-api/internal/domain/order"
	"gorm.io/gorm"
)

// Domain errors surfaced to the HTTP layer. The two preconditions are
// distinct failures so clients can tell a stale token from an empty cart.
var (
	ErrCartNotFound = errors.New("cart does not exist")
	ErrEmptyCart    = errors.New("cart is empty")
)

// Service converts carts into orders. This is the only code path that
// creates Order rows.
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new checkout service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// PlaceOrder converts the cart into an order owned by userID, freezing
// every item's unit price at this instant, then destroys the cart. The
// whole conversion runs in one transaction: either the order and all of
// its items land and the cart is gone, or nothing changed and the call
// is safe to retry.
//
// When two checkouts race on the same cart, both may build an order, but
// the cart row can only be deleted once; the loser's delete affects zero
// rows and its transaction rolls back with ErrCartNotFound, so exactly
// one order is ever produced per cart.
func (s *Service) PlaceOrder(cartID uuid.UUID, userID uint) (*order.Order, error) {
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var c cart.Cart
	if err := tx.Where("id = ?", cartID).First(&c).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}

	// One consistent read of items together with their products.
	var items []cart.CartItem
	if err := tx.Preload("Product").Where("cart_id = ?", cartID).Find(&items).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to retrieve cart items: %w", err)
	}

	if len(items) == 0 {
		tx.Rollback()
		return nil, ErrEmptyCart
	}

	total := decimal.Zero
	orderItems := make([]order.OrderItem, len(items))
	for i, item := range items {
		lineTotal := item.Product.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(lineTotal)

		orderItems[i] = order.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.Product.UnitPrice, // frozen snapshot
		}
	}

	o := order.Order{
		UserID:     userID,
		PlacedAt:   time.Now().UTC(),
		TotalPrice: total,
		Shipped:    false,
		Delivered:  false,
		Cancelled:  false,
	}

	if err := tx.Create(&o).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	for i := range orderItems {
		orderItems[i].OrderID = o.ID
	}
	if err := tx.Create(&orderItems).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	if err := tx.Where("cart_id = ?", cartID).Delete(&cart.CartItem{}).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to delete cart items: %w", err)
	}

	// The single-winner gate: the cart row can only disappear once.
	result := tx.Where("id = ?", cartID).Delete(&cart.Cart{})
	if result.Error != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to delete cart: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return nil, ErrCartNotFound
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit checkout: %w", err)
	}

	// Return the fully populated order.
	var placed order.Order
	err := s.db.Preload("Items").Preload("Items.Product").Where("id = ?", o.ID).First(&placed).Error
	if err != nil {
		return nil, fmt.Errorf("failed to reload order: %w", err)
	}

	return &placed, nil
}

// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/your-org/storefront-api/internal/domain/catalog"
)

// Cart represents an anonymous shopping cart addressed by an opaque,
// non-sequential token. The token is the only credential needed to use
// the cart; it never changes after creation.
type Cart struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items,omitempty"`
}

// CartItem represents one product line in a cart. A cart holds at most
// one row per product; repeat adds increment the quantity.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CartID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_cart_product" json:"cart_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_product" json:"product_id"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Product catalog.Product `gorm:"foreignKey:ProductID" json:"product"`
}

// TableName overrides
func (Cart) TableName() string     { return "carts" }
func (CartItem) TableName() string { return "cart_items" }

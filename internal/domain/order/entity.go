// internal/domain/order/entity.go
package order

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-api/internal/domain/catalog"
)

// Order represents a placed order. TotalPrice is fixed at checkout time
// and never recomputed. The three status flags are independent booleans
// set by staff after placement; the order row itself is never deleted in
// normal operation.
type Order struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	UserID     uint            `gorm:"not null;index" json:"user_id"`
	PlacedAt   time.Time       `gorm:"not null" json:"placed_at"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total_price"`
	Shipped    bool            `gorm:"not null;default:false" json:"shipped"`
	Delivered  bool            `gorm:"not null;default:false" json:"delivered"`
	Cancelled  bool            `gorm:"not null;default:false" json:"cancelled"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	// Relationships
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// OrderItem freezes one cart line at purchase time. UnitPrice is a
// snapshot of the product price at checkout; later product edits must
// never change it.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"not null;index" json:"order_id"`
	ProductID uint            `gorm:"not null;index" json:"product_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"unit_price"`
	CreatedAt time.Time       `json:"created_at"`

	// Relationships
	Product catalog.Product `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"product,omitempty"`
}

// TableName overrides
func (Order) TableName() string     { return "orders" }
func (OrderItem) TableName() string { return "order_items" }

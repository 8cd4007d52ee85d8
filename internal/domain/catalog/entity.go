// internal/domain/catalog/entity.go
package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// taxMultiplier is applied to unit prices for display purposes only.
var taxMultiplier = decimal.RequireFromString("1.1")

// Category represents a product category
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"not null;size:255;index" json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Images   []CategoryImage `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"images,omitempty"`
	Products []Product       `gorm:"foreignKey:CategoryID" json:"products,omitempty"`
}

// Product represents the product entity
type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Title       string          `gorm:"not null;size:255" json:"title"`
	Description string          `gorm:"type:text" json:"description"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"unit_price"`
	Inventory   int             `gorm:"not null;default:0" json:"inventory"`
	CategoryID  uint            `gorm:"not null;index" json:"category_id"`
	CreatedAt   time.Time       `json:"created_at"`
	LastUpdate  time.Time       `gorm:"autoUpdateTime" json:"last_update"`

	// Relationships
	Category Category       `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"category"`
	Images   []ProductImage `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"images,omitempty"`
}

// ProductImage represents an image attached to a product
type ProductImage struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ProductID    uint      `gorm:"not null;index" json:"product_id"`
	Path         string    `gorm:"not null;size:500" json:"path"`
	OriginalName string    `gorm:"size:255" json:"original_name"`
	Size         int64     `gorm:"not null" json:"size"`
	CreatedAt    time.Time `json:"created_at"`
}

// CategoryImage represents an image attached to a category
type CategoryImage struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CategoryID   uint      `gorm:"not null;index" json:"category_id"`
	Path         string    `gorm:"not null;size:500" json:"path"`
	OriginalName string    `gorm:"size:255" json:"original_name"`
	Size         int64     `gorm:"not null" json:"size"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName overrides
func (Category) TableName() string      { return "categories" }
func (Product) TableName() string       { return "products" }
func (ProductImage) TableName() string  { return "product_images" }
func (CategoryImage) TableName() string { return "category_images" }

// PriceWithTax returns the display price including tax, rounded to two
// decimal places. Derived on every read, never stored.
func (p *Product) PriceWithTax() decimal.Decimal {
	return p.UnitPrice.Mul(taxMultiplier).Round(2)
}

// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-api/internal/domain/cart"
	"github.com/your-org/storefront-api/internal/domain/catalog"
	"github.com/your-org/storefront-api/internal/domain/feedback"
	"github.com/your-org/storefront-api/internal/domain/order"
	"github.com/your-org/storefront-api/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("Running database auto-migrations...")

	// Dependency order matters: parents before children
	models := []interface{}{
		&user.User{},

		&catalog.Category{},
		&catalog.CategoryImage{},
		&catalog.Product{},
		&catalog.ProductImage{},

		&cart.Cart{},
		&cart.CartItem{},

		&order.Order{},
		&order.OrderItem{},

		&feedback.Feedback{},
	}

	for _, model := range models {
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("Database auto-migrations completed")
	return nil
}

// CreateIndexes creates additional indexes for common query paths
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		// Product listing filters and sorts
		"CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id)",
		"CREATE INDEX IF NOT EXISTS idx_products_unit_price ON products(unit_price)",
		"CREATE INDEX IF NOT EXISTS idx_products_last_update ON products(last_update DESC)",

		// Order listing per customer and by status flags
		"CREATE INDEX IF NOT EXISTS idx_orders_user_placed ON orders(user_id, placed_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_flags ON orders(shipped, delivered, cancelled)",

		// Order items lookups
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_product ON order_items(product_id)",

		// Cart item lookups by cart
		"CREATE INDEX IF NOT EXISTS idx_cart_items_cart ON cart_items(cart_id)",
	}

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("Failed to create index: %v", err)
		}
	}

	return nil
}

// SeedInitialData inserts initial data into the database
func (m *Migration) SeedInitialData() error {
	log.Println("Seeding initial data...")

	if err := m.seedStaffUser(); err != nil {
		return fmt.Errorf("failed to seed staff user: %w", err)
	}

	if err := m.seedCatalog(); err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}

	log.Println("Initial data seeded")
	return nil
}

func (m *Migration) seedStaffUser() error {
	var existing user.User
	result := m.db.Where("email = ?", "staff@example.com").First(&existing)
	if result.Error == nil {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("staff1234"), 10)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	staff := user.User{
		Email:     "staff@example.com",
		Password:  string(hashedPassword),
		FirstName: "Staff",
		LastName:  "User",
		IsActive:  true,
		IsStaff:   true,
	}

	if err := m.db.Create(&staff).Error; err != nil {
		return fmt.Errorf("failed to create staff user: %w", err)
	}

	log.Println("Created staff user: staff@example.com")
	return nil
}

// seedCatalog creates a small demo catalog for development
func (m *Migration) seedCatalog() error {
	var categoryCount int64
	m.db.Model(&catalog.Category{}).Count(&categoryCount)
	if categoryCount > 0 {
		return nil
	}

	categories := []catalog.Category{
		{Title: "Electronics"},
		{Title: "Books"},
		{Title: "Home & Garden"},
	}

	for i := range categories {
		if err := m.db.Create(&categories[i]).Error; err != nil {
			return err
		}
	}

	products := []catalog.Product{
		{
			Title:       "Wireless Headphones",
			Description: "Over-ear wireless headphones with noise cancellation",
			UnitPrice:   decimal.RequireFromString("89.90"),
			Inventory:   40,
			CategoryID:  categories[0].ID,
		},
		{
			Title:       "Mechanical Keyboard",
			Description: "Compact mechanical keyboard with hot-swappable switches",
			UnitPrice:   decimal.RequireFromString("119.00"),
			Inventory:   25,
			CategoryID:  categories[0].ID,
		},
		{
			Title:       "The Go Programming Language",
			Description: "The definitive reference for working Go programmers",
			UnitPrice:   decimal.RequireFromString("35.50"),
			Inventory:   60,
			CategoryID:  categories[1].ID,
		},
		{
			Title:       "Ceramic Plant Pot",
			Description: "Hand-glazed ceramic pot with drainage tray",
			UnitPrice:   decimal.RequireFromString("14.25"),
			Inventory:   100,
			CategoryID:  categories[2].ID,
		},
	}

	for i := range products {
		if err := m.db.Create(&products[i]).Error; err != nil {
			return err
		}
	}

	log.Printf("Seeded %d categories and %d products", len(categories), len(products))
	return nil
}

// DropAllTables drops all tables (use with extreme caution)
func (m *Migration) DropAllTables() error {
	log.Println("WARNING: Dropping all database tables...")

	// Reverse dependency order
	tables := []string{
		"feedback",
		"order_items",
		"orders",
		"cart_items",
		"carts",
		"product_images",
		"products",
		"category_images",
		"categories",
		"users",
	}

	for _, table := range tables {
		if err := m.db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)).Error; err != nil {
			log.Printf("Failed to drop table %s: %v", table, err)
		}
	}

	return nil
}

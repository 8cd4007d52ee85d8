package checkout

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-api/internal/config"
	"github.com/your-org/storefront-api/internal/domain/cart"
	"github.com/your-org/storefront-api/internal/domain/catalog"
	"github.com/your-org/storefront-api/internal/domain/order"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&catalog.Category{},
		&catalog.Product{},
		&cart.Cart{},
		&cart.CartItem{},
		&order.Order{},
		&order.OrderItem{},
	))

	return db
}

func seedProduct(t *testing.T, db *gorm.DB, title, price string) catalog.Product {
	t.Helper()

	category := catalog.Category{Title: "Category for " + title}
	require.NoError(t, db.Create(&category).Error)

	product := catalog.Product{
		Title:      title,
		UnitPrice:  decimal.RequireFromString(price),
		Inventory:  10,
		CategoryID: category.ID,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func seedCartWithItems(t *testing.T, db *gorm.DB, items map[uint]int) uuid.UUID {
	t.Helper()

	c := cart.Cart{ID: uuid.New()}
	require.NoError(t, db.Create(&c).Error)

	for productID, qty := range items {
		require.NoError(t, db.Create(&cart.CartItem{
			CartID:    c.ID,
			ProductID: productID,
			Quantity:  qty,
		}).Error)
	}

	return c.ID
}

func TestPlaceOrder(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, &config.Config{})

	widget := seedProduct(t, db, "Widget", "10.00")
	gadget := seedProduct(t, db, "Gadget", "4.50")
	cartID := seedCartWithItems(t, db, map[uint]int{widget.ID: 3, gadget.ID: 2})

	placed, err := svc.PlaceOrder(cartID, 1)
	require.NoError(t, err)

	assert.Equal(t, uint(1), placed.UserID)
	assert.True(t, placed.TotalPrice.Equal(decimal.RequireFromString("39.00")),
		"total was %s", placed.TotalPrice)
	assert.Len(t, placed.Items, 2)
	assert.False(t, placed.Shipped)
	assert.False(t, placed.Delivered)
	assert.False(t, placed.Cancelled)

	// The cart and its items are gone.
	var carts, items int64
	db.Model(&cart.Cart{}).Count(&carts)
	db.Model(&cart.CartItem{}).Count(&items)
	assert.Equal(t, int64(0), carts)
	assert.Equal(t, int64(0), items)
}

func TestPlaceOrderCartNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, &config.Config{})

	_, err := svc.PlaceOrder(uuid.New(), 1)
	assert.ErrorIs(t, err, ErrCartNotFound)

	var orders int64
	db.Model(&order.Order{}).Count(&orders)
	assert.Equal(t, int64(0), orders)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, &config.Config{})

	cartID := seedCartWithItems(t, db, nil)

	_, err := svc.PlaceOrder(cartID, 1)
	assert.ErrorIs(t, err, ErrEmptyCart)

	// Nothing was created and the cart survives.
	var orders, carts int64
	db.Model(&order.Order{}).Count(&orders)
	db.Model(&cart.Cart{}).Count(&carts)
	assert.Equal(t, int64(0), orders)
	assert.Equal(t, int64(1), carts)
}

func TestPlaceOrderFreezesUnitPrices(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, &config.Config{})

	widget := seedProduct(t, db, "Widget", "10.00")
	cartID := seedCartWithItems(t, db, map[uint]int{widget.ID: 2})

	placed, err := svc.PlaceOrder(cartID, 1)
	require.NoError(t, err)

	// Edit the product after checkout.
	require.NoError(t, db.Model(&catalog.Product{}).
		Where("id = ?", widget.ID).
		Update("unit_price", decimal.RequireFromString("99.99")).Error)

	var reloaded order.Order
	require.NoError(t, db.Preload("Items").First(&reloaded, placed.ID).Error)

	require.Len(t, reloaded.Items, 1)
	assert.True(t, reloaded.Items[0].UnitPrice.Equal(decimal.RequireFromString("10.00")),
		"frozen unit price was %s", reloaded.Items[0].UnitPrice)
	assert.True(t, reloaded.TotalPrice.Equal(decimal.RequireFromString("20.00")),
		"frozen total was %s", reloaded.TotalPrice)
}

func TestPlaceOrderTwiceSecondLoses(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, &config.Config{})

	widget := seedProduct(t, db, "Widget", "10.00")
	cartID := seedCartWithItems(t, db, map[uint]int{widget.ID: 1})

	_, err := svc.PlaceOrder(cartID, 1)
	require.NoError(t, err)

	_, err = svc.PlaceOrder(cartID, 1)
	assert.ErrorIs(t, err, ErrCartNotFound)

	// Exactly one order exists.
	var orders int64
	db.Model(&order.Order{}).Count(&orders)
	assert.Equal(t, int64(1), orders)
}

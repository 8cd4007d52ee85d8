package order

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-api/internal/config"
	"github.com/your-org/storefront-api/internal/domain/catalog"
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
		&Order{},
		&OrderItem{},
	))

	return db
}

func seedOrder(t *testing.T, db *gorm.DB, userID uint, total string, placedAt time.Time) Order {
	t.Helper()

	o := Order{
		UserID:     userID,
		PlacedAt:   placedAt,
		TotalPrice: decimal.RequireFromString(total),
	}
	require.NoError(t, db.Create(&o).Error)
	return o
}

func TestListOrdersOwnOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, &config.Config{})

	now := time.Now().UTC()
	seedOrder(t, db, 1, "10.00", now)
	seedOrder(t, db, 1, "20.00", now.Add(-time.Hour))
	seedOrder(t, db, 2, "30.00", now)

	resp, err := svc.ListOrders(1, false, &ListRequest{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Len(t, resp.Orders, 2)
	for _, o := range resp.Orders {
		assert.Equal(t, uint(1), o.UserID)
	}

	// Newest first.
	assert.True(t, resp.Orders[0].TotalPrice.Equal(decimal.RequireFromString("10.00")))
}

func TestListOrdersStaffSeesAll(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, &config.Config{})

	now := time.Now().UTC()
	seedOrder(t, db, 1, "10.00", now)
	seedOrder(t, db, 2, "30.00", now)

	resp, err := svc.ListOrders(99, true, &ListRequest{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Len(t, resp.Orders, 2)
	assert.Equal(t, int64(2), resp.Pagination.Total)
}

func TestListOrdersFlagFilter(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, &config.Config{})

	now := time.Now().UTC()
	shipped := seedOrder(t, db, 1, "10.00", now)
	require.NoError(t, db.Model(&shipped).Update("shipped", true).Error)
	seedOrder(t, db, 1, "20.00", now)

	want := true
	resp, err := svc.ListOrders(1, false, &ListRequest{Page: 1, Limit: 20, Shipped: &want})
	require.NoError(t, err)
	require.Len(t, resp.Orders, 1)
	assert.Equal(t, shipped.ID, resp.Orders[0].ID)
}

func TestGetOrderNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, &config.Config{})

	_, err := svc.GetOrder(9999)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestUpdateStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, &config.Config{})

	o := seedOrder(t, db, 1, "10.00", time.Now().UTC())

	shipped := true
	updated, err := svc.UpdateStatus(o.ID, &UpdateStatusRequest{Shipped: &shipped})
	require.NoError(t, err)
	assert.True(t, updated.Shipped)
	assert.False(t, updated.Delivered)
	assert.False(t, updated.Cancelled)

	// Flags are independent: clearing one leaves the others alone.
	delivered := true
	off := false
	updated, err = svc.UpdateStatus(o.ID, &UpdateStatusRequest{Delivered: &delivered, Shipped: &off})
	require.NoError(t, err)
	assert.False(t, updated.Shipped)
	assert.True(t, updated.Delivered)

	// Total never changes through status updates.
	assert.True(t, updated.TotalPrice.Equal(decimal.RequireFromString("10.00")))
}

func TestUpdateStatusNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, &config.Config{})

	shipped := true
	_, err := svc.UpdateStatus(9999, &UpdateStatusRequest{Shipped: &shipped})
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

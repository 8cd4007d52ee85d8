package catalog

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-api/internal/config"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&Category{},
		&CategoryImage{},
		&Product{},
		&ProductImage{},
	))

	// Blocked product deletes count references in order_items.
	require.NoError(t, db.Exec(
		"CREATE TABLE IF NOT EXISTS order_items (id INTEGER PRIMARY KEY, order_id INTEGER, product_id INTEGER, quantity INTEGER, unit_price NUMERIC)",
	).Error)

	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	db := newTestDB(t)
	cfg := &config.Config{
		Upload: config.UploadConfig{
			MaxImageSize:      1024 * 1024,
			AllowedExtensions: []string{"jpg", "jpeg", "png", "gif"},
			LocalPath:         t.TempDir(),
		},
	}
	return NewService(db, cfg), db
}

func seedCategory(t *testing.T, db *gorm.DB, title string) Category {
	t.Helper()
	category := Category{Title: title}
	require.NoError(t, db.Create(&category).Error)
	return category
}

func seedProduct(t *testing.T, db *gorm.DB, categoryID uint, title, price string) Product {
	t.Helper()
	product := Product{
		Title:      title,
		UnitPrice:  decimal.RequireFromString(price),
		Inventory:  5,
		CategoryID: categoryID,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func TestPriceWithTaxRounding(t *testing.T) {
	cases := []struct {
		unitPrice string
		want      string
	}{
		{"10.00", "11.00"},
		{"4.50", "4.95"},
		{"1.00", "1.10"},
		{"9.99", "10.99"},  // 10.989 rounds up
		{"33.33", "36.66"}, // 36.663 rounds down
	}

	for _, tc := range cases {
		p := Product{UnitPrice: decimal.RequireFromString(tc.unitPrice)}
		got := p.PriceWithTax()
		assert.True(t, got.Equal(decimal.RequireFromString(tc.want)),
			"price_with_tax(%s) = %s, want %s", tc.unitPrice, got, tc.want)
	}
}

func TestCreateProduct(t *testing.T) {
	svc, db := newTestService(t)
	category := seedCategory(t, db, "Electronics")

	view, err := svc.CreateProduct(&ProductCreateRequest{
		Title:      "Widget",
		UnitPrice:  decimal.RequireFromString("10.00"),
		Inventory:  3,
		CategoryID: category.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Widget", view.Title)
	assert.True(t, view.PriceWithTax.Equal(decimal.RequireFromString("11.00")))
	assert.Equal(t, category.ID, view.Category.ID)
}

func TestCreateProductInvalidUnitPrice(t *testing.T) {
	svc, db := newTestService(t)
	category := seedCategory(t, db, "Electronics")

	_, err := svc.CreateProduct(&ProductCreateRequest{
		Title:      "Too cheap",
		UnitPrice:  decimal.RequireFromString("0.99"),
		CategoryID: category.ID,
	})
	assert.ErrorIs(t, err, ErrInvalidUnitPrice)
}

func TestCreateProductUnknownCategory(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateProduct(&ProductCreateRequest{
		Title:      "Orphan",
		UnitPrice:  decimal.RequireFromString("5.00"),
		CategoryID: 9999,
	})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestUpdateProductPartial(t *testing.T) {
	svc, db := newTestService(t)
	category := seedCategory(t, db, "Electronics")
	product := seedProduct(t, db, category.ID, "Widget", "10.00")

	newPrice := decimal.RequireFromString("12.00")
	view, err := svc.UpdateProduct(product.ID, &ProductUpdateRequest{UnitPrice: &newPrice})
	require.NoError(t, err)

	// Only the price changed.
	assert.Equal(t, "Widget", view.Title)
	assert.True(t, view.UnitPrice.Equal(newPrice))
	assert.True(t, view.PriceWithTax.Equal(decimal.RequireFromString("13.20")))
}

func TestUpdateProductNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	title := "Renamed"
	_, err := svc.UpdateProduct(9999, &ProductUpdateRequest{Title: &title})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestDeleteProductBlockedByOrders(t *testing.T) {
	svc, db := newTestService(t)
	category := seedCategory(t, db, "Electronics")
	product := seedProduct(t, db, category.ID, "Widget", "10.00")

	require.NoError(t, db.Exec(
		"INSERT INTO order_items (order_id, product_id, quantity, unit_price) VALUES (1, ?, 1, 10.00)",
		product.ID,
	).Error)

	assert.ErrorIs(t, svc.DeleteProduct(product.ID), ErrProductInUse)

	var count int64
	db.Model(&Product{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestDeleteProduct(t *testing.T) {
	svc, db := newTestService(t)
	category := seedCategory(t, db, "Electronics")
	product := seedProduct(t, db, category.ID, "Widget", "10.00")

	require.NoError(t, svc.DeleteProduct(product.ID))
	assert.ErrorIs(t, svc.DeleteProduct(product.ID), ErrProductNotFound)
}

func TestGetProductsFilterAndSort(t *testing.T) {
	svc, db := newTestService(t)
	electronics := seedCategory(t, db, "Electronics")
	books := seedCategory(t, db, "Books")

	seedProduct(t, db, electronics.ID, "Laptop", "500.00")
	seedProduct(t, db, electronics.ID, "Mouse", "20.00")
	seedProduct(t, db, books.ID, "Novel", "15.00")

	resp, err := svc.GetProducts(&ProductListRequest{
		Page:       1,
		Limit:      20,
		CategoryID: electronics.ID,
		SortBy:     "unit_price",
		SortOrder:  "asc",
	})
	require.NoError(t, err)
	require.Len(t, resp.Products, 2)
	assert.Equal(t, "Mouse", resp.Products[0].Title)
	assert.Equal(t, "Laptop", resp.Products[1].Title)
	assert.Equal(t, int64(2), resp.Pagination.Total)
}

func TestGetProductsSearch(t *testing.T) {
	svc, db := newTestService(t)
	category := seedCategory(t, db, "Electronics")
	seedProduct(t, db, category.ID, "Wireless Mouse", "20.00")
	seedProduct(t, db, category.ID, "Keyboard", "50.00")

	resp, err := svc.GetProducts(&ProductListRequest{Page: 1, Limit: 20, Search: "mouse"})
	require.NoError(t, err)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "Wireless Mouse", resp.Products[0].Title)
}

func TestGetProductsPriceRange(t *testing.T) {
	svc, db := newTestService(t)
	category := seedCategory(t, db, "Electronics")
	seedProduct(t, db, category.ID, "Cheap", "5.00")
	seedProduct(t, db, category.ID, "Mid", "50.00")
	seedProduct(t, db, category.ID, "Expensive", "500.00")

	resp, err := svc.GetProducts(&ProductListRequest{
		Page: 1, Limit: 20,
		MinPrice: "10", MaxPrice: "100",
	})
	require.NoError(t, err)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "Mid", resp.Products[0].Title)
}

func TestGetCategoriesProductCount(t *testing.T) {
	svc, db := newTestService(t)
	electronics := seedCategory(t, db, "Electronics")
	books := seedCategory(t, db, "Books")
	empty := seedCategory(t, db, "Empty")

	seedProduct(t, db, electronics.ID, "Laptop", "500.00")
	seedProduct(t, db, electronics.ID, "Mouse", "20.00")
	seedProduct(t, db, books.ID, "Novel", "15.00")

	views, err := svc.GetCategories()
	require.NoError(t, err)
	require.Len(t, views, 3)

	counts := make(map[uint]int64)
	for _, v := range views {
		counts[v.ID] = v.ProductCount
	}
	assert.Equal(t, int64(2), counts[electronics.ID])
	assert.Equal(t, int64(1), counts[books.ID])
	assert.Equal(t, int64(0), counts[empty.ID])

	// Ordered by title.
	assert.Equal(t, "Books", views[0].Title)
}

func TestDeleteCategoryBlockedByProducts(t *testing.T) {
	svc, db := newTestService(t)
	category := seedCategory(t, db, "Electronics")
	seedProduct(t, db, category.ID, "Laptop", "500.00")

	assert.ErrorIs(t, svc.DeleteCategory(category.ID), ErrCategoryInUse)
}

func TestDeleteCategory(t *testing.T) {
	svc, db := newTestService(t)
	category := seedCategory(t, db, "Empty")

	require.NoError(t, svc.DeleteCategory(category.ID))
	assert.ErrorIs(t, svc.DeleteCategory(category.ID), ErrCategoryNotFound)
}

func TestAddProductImage(t *testing.T) {
	svc, db := newTestService(t)
	category := seedCategory(t, db, "Electronics")
	product := seedProduct(t, db, category.ID, "Widget", "10.00")

	content := strings.NewReader("fake image bytes")
	image, err := svc.AddProductImage(product.ID, "photo.jpg", 16, content)
	require.NoError(t, err)
	assert.Equal(t, "photo.jpg", image.OriginalName)
	assert.NotEmpty(t, image.Path)
}

func TestAddProductImageTooLarge(t *testing.T) {
	svc, db := newTestService(t)
	category := seedCategory(t, db, "Electronics")
	product := seedProduct(t, db, category.ID, "Widget", "10.00")

	_, err := svc.AddProductImage(product.ID, "photo.jpg", 2*1024*1024, strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestAddProductImageBadExtension(t *testing.T) {
	svc, db := newTestService(t)
	category := seedCategory(t, db, "Electronics")
	product := seedProduct(t, db, category.ID, "Widget", "10.00")

	_, err := svc.AddProductImage(product.ID, "malware.exe", 16, strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrImageType)
}

// internal/domain/catalog/service.go
package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-api/internal/config"
	"gorm.io/gorm"
)

// Domain errors surfaced to the HTTP layer.
var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrInvalidUnitPrice = errors.New("unit price must be at least 1")
	ErrProductInUse     = errors.New("product is referenced by one or more orders")
	ErrCategoryInUse    = errors.New("category contains one or more products")
	ErrImageTooLarge    = errors.New("image exceeds the maximum allowed size")
	ErrImageType        = errors.New("image file type is not allowed")
)

var minUnitPrice = decimal.NewFromInt(1)

// Service handles catalog business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new catalog service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ProductListRequest represents product list query parameters
type ProductListRequest struct {
	Page       int    `form:"page,default=1"`
	Limit      int    `form:"limit,default=20"`
	CategoryID uint   `form:"category_id"`
	Search     string `form:"search"`
	MinPrice   string `form:"min_price"`
	MaxPrice   string `form:"max_price"`
	SortBy     string `form:"sort_by,default=last_update"`
	SortOrder  string `form:"sort_order,default=desc"`
}

// ProductCreateRequest represents product creation data
type ProductCreateRequest struct {
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
	Inventory   int             `json:"inventory" binding:"min=0"`
	CategoryID  uint            `json:"category_id" binding:"required"`
}

// ProductUpdateRequest represents product update data
type ProductUpdateRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	Inventory   *int             `json:"inventory"`
	CategoryID  *uint            `json:"category_id"`
}

// CategoryCreateRequest represents category creation data
type CategoryCreateRequest struct {
	Title string `json:"title" binding:"required"`
}

// CategoryUpdateRequest represents category update data
type CategoryUpdateRequest struct {
	Title string `json:"title" binding:"required"`
}

// ProductView is a product with its derived display price
type ProductView struct {
	Product
	PriceWithTax decimal.Decimal `json:"price_with_tax"`
}

// CategoryView is a category with its derived product count
type CategoryView struct {
	ID           uint            `json:"id"`
	Title        string          `json:"title"`
	ProductCount int64           `json:"product_count"`
	Images       []CategoryImage `json:"images,omitempty"`
}

// ProductListResponse represents product list response with pagination
type ProductListResponse struct {
	Products   []ProductView `json:"products"`
	Pagination Pagination    `json:"pagination"`
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

// GetProducts retrieves products with filtering, search and pagination
func (s *Service) GetProducts(req *ProductListRequest) (*ProductListResponse, error) {
	var products []Product
	var total int64

	query := s.db.Model(&Product{}).
		Preload("Category").
		Preload("Images")

	if req.CategoryID > 0 {
		query = query.Where("category_id = ?", req.CategoryID)
	}

	if req.Search != "" {
		search := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", search, search)
	}

	if req.MinPrice != "" {
		if min, err := decimal.NewFromString(req.MinPrice); err == nil {
			query = query.Where("unit_price >= ?", min)
		}
	}

	if req.MaxPrice != "" {
		if max, err := decimal.NewFromString(req.MaxPrice); err == nil {
			query = query.Where("unit_price <= ?", max)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	query = query.Order(s.buildOrderClause(req.SortBy, req.SortOrder))

	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 {
		req.Limit = 20
	}

	offset := (req.Page - 1) * req.Limit
	if err := query.Offset(offset).Limit(req.Limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	views := make([]ProductView, len(products))
	for i, p := range products {
		views[i] = ProductView{Product: p, PriceWithTax: p.PriceWithTax()}
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	pagination := Pagination{
		Page:       req.Page,
		Limit:      req.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    req.Page < totalPages,
		HasPrev:    req.Page > 1,
	}

	return &ProductListResponse{
		Products:   views,
		Pagination: pagination,
	}, nil
}

// GetProduct retrieves a single product by ID
func (s *Service) GetProduct(id uint) (*ProductView, error) {
	var product Product
	result := s.db.
		Preload("Category").
		Preload("Images").
		Where("id = ?", id).
		First(&product)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}

	return &ProductView{Product: product, PriceWithTax: product.PriceWithTax()}, nil
}

// CreateProduct creates a new product
func (s *Service) CreateProduct(req *ProductCreateRequest) (*ProductView, error) {
	if req.UnitPrice.LessThan(minUnitPrice) {
		return nil, ErrInvalidUnitPrice
	}

	var category Category
	if err := s.db.Where("id = ?", req.CategoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}

	product := Product{
		Title:       req.Title,
		Description: req.Description,
		UnitPrice:   req.UnitPrice,
		Inventory:   req.Inventory,
		CategoryID:  req.CategoryID,
	}

	if err := s.db.Create(&product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.db.Preload("Category").First(&product, product.ID)

	return &ProductView{Product: product, PriceWithTax: product.PriceWithTax()}, nil
}

// UpdateProduct updates an existing product
func (s *Service) UpdateProduct(id uint, req *ProductUpdateRequest) (*ProductView, error) {
	var product Product
	if err := s.db.Where("id = ?", id).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}

	updates := make(map[string]interface{})

	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.UnitPrice != nil {
		if req.UnitPrice.LessThan(minUnitPrice) {
			return nil, ErrInvalidUnitPrice
		}
		updates["unit_price"] = *req.UnitPrice
	}
	if req.Inventory != nil {
		updates["inventory"] = *req.Inventory
	}
	if req.CategoryID != nil {
		var category Category
		if err := s.db.Where("id = ?", *req.CategoryID).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, fmt.Errorf("failed to find category: %w", err)
		}
		updates["category_id"] = *req.CategoryID
	}

	if len(updates) > 0 {
		if err := s.db.Model(&product).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}

	s.db.Preload("Category").Preload("Images").First(&product, product.ID)

	return &ProductView{Product: product, PriceWithTax: product.PriceWithTax()}, nil
}

// DeleteProduct deletes a product unless an order still references it
func (s *Service) DeleteProduct(id uint) error {
	var referenced int64
	if err := s.db.Table("order_items").Where("product_id = ?", id).Count(&referenced).Error; err != nil {
		return fmt.Errorf("failed to check order references: %w", err)
	}
	if referenced > 0 {
		return ErrProductInUse
	}

	result := s.db.Where("id = ?", id).Delete(&Product{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// GetCategories retrieves all categories ordered by title, each with its
// derived product count
func (s *Service) GetCategories() ([]CategoryView, error) {
	type categoryRow struct {
		ID           uint
		Title        string
		ProductCount int64
	}

	var rows []categoryRow
	err := s.db.Model(&Category{}).
		Select("categories.id, categories.title, COUNT(products.id) AS product_count").
		Joins("LEFT JOIN products ON products.category_id = categories.id").
		Group("categories.id, categories.title").
		Order("categories.title ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve categories: %w", err)
	}

	ids := make([]uint, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}

	imagesByCategory := make(map[uint][]CategoryImage)
	if len(ids) > 0 {
		var images []CategoryImage
		if err := s.db.Where("category_id IN ?", ids).Find(&images).Error; err != nil {
			return nil, fmt.Errorf("failed to retrieve category images: %w", err)
		}
		for _, img := range images {
			imagesByCategory[img.CategoryID] = append(imagesByCategory[img.CategoryID], img)
		}
	}

	views := make([]CategoryView, len(rows))
	for i, row := range rows {
		views[i] = CategoryView{
			ID:           row.ID,
			Title:        row.Title,
			ProductCount: row.ProductCount,
			Images:       imagesByCategory[row.ID],
		}
	}

	return views, nil
}

// GetCategory retrieves a single category with its product count
func (s *Service) GetCategory(id uint) (*CategoryView, error) {
	var category Category
	if err := s.db.Preload("Images").Where("id = ?", id).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to retrieve category: %w", err)
	}

	var count int64
	if err := s.db.Model(&Product{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	return &CategoryView{
		ID:           category.ID,
		Title:        category.Title,
		ProductCount: count,
		Images:       category.Images,
	}, nil
}

// CreateCategory creates a new category
func (s *Service) CreateCategory(req *CategoryCreateRequest) (*Category, error) {
	category := Category{Title: req.Title}
	if err := s.db.Create(&category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return &category, nil
}

// UpdateCategory renames an existing category
func (s *Service) UpdateCategory(id uint, req *CategoryUpdateRequest) (*Category, error) {
	var category Category
	if err := s.db.Where("id = ?", id).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}

	if err := s.db.Model(&category).Update("title", req.Title).Error; err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return &category, nil
}

// DeleteCategory deletes a category unless products still reference it
func (s *Service) DeleteCategory(id uint) error {
	var referenced int64
	if err := s.db.Model(&Product{}).Where("category_id = ?", id).Count(&referenced).Error; err != nil {
		return fmt.Errorf("failed to check product references: %w", err)
	}
	if referenced > 0 {
		return ErrCategoryInUse
	}

	result := s.db.Where("id = ?", id).Delete(&Category{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// AddProductImage validates and stores an uploaded product image
func (s *Service) AddProductImage(productID uint, originalName string, size int64, r io.Reader) (*ProductImage, error) {
	var product Product
	if err := s.db.Where("id = ?", productID).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}

	path, err := s.storeImage(originalName, size, r)
	if err != nil {
		return nil, err
	}

	image := ProductImage{
		ProductID:    productID,
		Path:         path,
		OriginalName: originalName,
		Size:         size,
	}
	if err := s.db.Create(&image).Error; err != nil {
		return nil, fmt.Errorf("failed to save product image: %w", err)
	}

	return &image, nil
}

// AddCategoryImage validates and stores an uploaded category image
func (s *Service) AddCategoryImage(categoryID uint, originalName string, size int64, r io.Reader) (*CategoryImage, error) {
	var category Category
	if err := s.db.Where("id = ?", categoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}

	path, err := s.storeImage(originalName, size, r)
	if err != nil {
		return nil, err
	}

	image := CategoryImage{
		CategoryID:   categoryID,
		Path:         path,
		OriginalName: originalName,
		Size:         size,
	}
	if err := s.db.Create(&image).Error; err != nil {
		return nil, fmt.Errorf("failed to save category image: %w", err)
	}

	return &image, nil
}

// storeImage writes an upload to the local upload directory under a
// generated filename and returns the stored path.
func (s *Service) storeImage(originalName string, size int64, r io.Reader) (string, error) {
	if size > s.config.Upload.MaxImageSize {
		return "", ErrImageTooLarge
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(originalName), "."))
	allowed := false
	for _, e := range s.config.Upload.AllowedExtensions {
		if e == ext {
			allowed = true
			break
		}
	}
	if !allowed {
		return "", ErrImageType
	}

	if err := os.MkdirAll(s.config.Upload.LocalPath, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	filename := uuid.New().String() + "." + ext
	path := filepath.Join(s.config.Upload.LocalPath, filename)

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer out.Close()

	// Copy at most MaxImageSize+1 bytes so a lying Content-Length cannot
	// smuggle an oversized payload onto disk.
	written, err := io.Copy(out, io.LimitReader(r, s.config.Upload.MaxImageSize+1))
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write image file: %w", err)
	}
	if written > s.config.Upload.MaxImageSize {
		os.Remove(path)
		return "", ErrImageTooLarge
	}

	return path, nil
}

// buildOrderClause builds the ORDER BY clause for product sorting
func (s *Service) buildOrderClause(sortBy, sortOrder string) string {
	validSortFields := map[string]bool{
		"unit_price":  true,
		"last_update": true,
		"title":       true,
	}

	if !validSortFields[sortBy] {
		sortBy = "last_update"
	}

	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	return fmt.Sprintf("%s %s", sortBy, sortOrder)
}

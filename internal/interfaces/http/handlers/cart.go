// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/your-org/storefront-api/internal/config"
	"github.com/your-org/storefront-api/internal/domain/cart"
	"gorm.io/gorm"
)

// CartHandler handles cart endpoints. Carts are anonymous: the UUID in
// the path is the only credential.
type CartHandler struct {
	cartService *cart.Service
	config      *config.Config
}

// NewCartHandler creates a new cart handler
func NewCartHandler(db *gorm.DB, cfg *config.Config) *CartHandler {
	return &CartHandler{
		cartService: cart.NewService(db, cfg),
		config:      cfg,
	}
}

// CreateCart handles POST /carts
func (h *CartHandler) CreateCart(c *gin.Context) {
	newCart, err := h.cartService.CreateCart()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create cart"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Cart created successfully",
		"data":    newCart,
	})
}

// GetCart handles GET /carts/:cart_id
func (h *CartHandler) GetCart(c *gin.Context) {
	cartID, err := parseCartID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart ID"})
		return
	}

	view, err := h.cartService.GetCart(cartID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    view,
	})
}

// AddItem handles POST /carts/:cart_id/items
func (h *CartHandler) AddItem(c *gin.Context) {
	cartID, err := parseCartID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart ID"})
		return
	}

	var req cart.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	item, err := h.cartService.AddItem(cartID, &req)
	if err != nil {
		switch {
		case errors.Is(err, cart.ErrCartNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found"})
		case errors.Is(err, cart.ErrProductNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, cart.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Item added to cart",
		"data":    item,
	})
}

// UpdateItem handles PATCH /carts/:cart_id/items/:item_id
func (h *CartHandler) UpdateItem(c *gin.Context) {
	cartID, err := parseCartID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart ID"})
		return
	}

	itemID, err := parseIDParam(c, "item_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	var req cart.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	item, err := h.cartService.UpdateItemQuantity(cartID, itemID, &req)
	if err != nil {
		switch {
		case errors.Is(err, cart.ErrItemNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
		case errors.Is(err, cart.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update item"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated",
		"data":    item,
	})
}

// RemoveItem handles DELETE /carts/:cart_id/items/:item_id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	cartID, err := parseCartID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart ID"})
		return
	}

	itemID, err := parseIDParam(c, "item_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	if err := h.cartService.RemoveItem(cartID, itemID); err != nil {
		if errors.Is(err, cart.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart",
	})
}

// DeleteCart handles DELETE /carts/:cart_id
func (h *CartHandler) DeleteCart(c *gin.Context) {
	cartID, err := parseCartID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart ID"})
		return
	}

	if err := h.cartService.DeleteCart(cartID); err != nil {
		if errors.Is(err, cart.ErrCartNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart deleted successfully",
	})
}

// parseCartID parses the cart UUID path parameter
func parseCartID(c *gin.Context) (uuid.UUID, error) {
	return uuid.Parse(c.Param("cart_id"))
}

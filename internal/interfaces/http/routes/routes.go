// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/storefront-api/internal/config"
	"github.com/your-org/storefront-api/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-api/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// SetupRoutes wires the full API surface onto the given router group.
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	setupAuthRoutes(rg, db, cfg)
	setupCatalogRoutes(rg, db, cfg)
	setupCartRoutes(rg, db, cfg)
	setupOrderRoutes(rg, db, cfg)
	setupFeedbackRoutes(rg, db, cfg)
}

func setupAuthRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, cfg)

	auth := rg.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.GET("/profile", authHandler.GetProfile)
			protected.POST("/change-password", authHandler.ChangePassword)
		}
	}
}

func setupCatalogRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	productHandler := handlers.NewProductHandler(db, cfg)
	categoryHandler := handlers.NewCategoryHandler(db, cfg)

	products := rg.Group("/products")
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/:id", productHandler.GetProduct)

		staff := products.Group("")
		staff.Use(middleware.AuthMiddleware(cfg), middleware.StaffMiddleware())
		{
			staff.POST("", productHandler.CreateProduct)
			staff.PUT("/:id", productHandler.UpdateProduct)
			staff.DELETE("/:id", productHandler.DeleteProduct)
			staff.POST("/:id/images", productHandler.UploadImage)
		}
	}

	categories := rg.Group("/categories")
	{
		categories.GET("", categoryHandler.GetCategories)
		categories.GET("/:id", categoryHandler.GetCategory)

		staff := categories.Group("")
		staff.Use(middleware.AuthMiddleware(cfg), middleware.StaffMiddleware())
		{
			staff.POST("", categoryHandler.CreateCategory)
			staff.PUT("/:id", categoryHandler.UpdateCategory)
			staff.DELETE("/:id", categoryHandler.DeleteCategory)
			staff.POST("/:id/images", categoryHandler.UploadImage)
		}
	}
}

func setupCartRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	cartHandler := handlers.NewCartHandler(db, cfg)

	// No auth here; possession of the cart UUID is the credential.
	carts := rg.Group("/carts")
	{
		carts.POST("", cartHandler.CreateCart)
		carts.GET("/:cart_id", cartHandler.GetCart)
		carts.DELETE("/:cart_id", cartHandler.DeleteCart)
		carts.POST("/:cart_id/items", cartHandler.AddItem)
		carts.PATCH("/:cart_id/items/:item_id", cartHandler.UpdateItem)
		carts.DELETE("/:cart_id/items/:item_id", cartHandler.RemoveItem)
	}
}

func setupOrderRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	checkoutHandler := handlers.NewCheckoutHandler(db, cfg)
	orderHandler := handlers.NewOrderHandler(db, cfg)
	invoiceHandler := handlers.NewInvoiceHandler(db, cfg)

	checkout := rg.Group("/checkout")
	checkout.Use(middleware.AuthMiddleware(cfg))
	{
		checkout.POST("", checkoutHandler.PlaceOrder)
	}

	orders := rg.Group("/orders")
	orders.Use(middleware.AuthMiddleware(cfg))
	{
		orders.GET("", orderHandler.ListOrders)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.GET("/:id/invoice", invoiceHandler.GenerateInvoice)

		staff := orders.Group("")
		staff.Use(middleware.StaffMiddleware())
		{
			staff.PATCH("/:id", orderHandler.UpdateStatus)
		}
	}
}

func setupFeedbackRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	feedbackHandler := handlers.NewFeedbackHandler(db, cfg)

	rg.POST("/feedback", feedbackHandler.Create)
}

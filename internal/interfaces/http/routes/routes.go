// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/asaskevich/EventBus"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/rbac"
	"github.com/your-org/storefront-backend/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes
func SetupRoutes(router *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, bus EventBus.Bus, logger *logrus.Logger) error {
	resolver := rbac.NewResolver(db)

	productHandler, err := handlers.NewProductHandler(db, cfg)
	if err != nil {
		return err
	}

	setupAuthRoutes(router, db, redisClient, cfg, logger)
	setupProductRoutes(router, productHandler)
	setupCartRoutes(router, db, redisClient, cfg)
	setupOrderRoutes(router, db, redisClient, cfg, bus, logger)
	setupNotificationRoutes(router, db, cfg, logger)
	setupAdminRoutes(router, db, redisClient, cfg, bus, logger, resolver, productHandler)
	return nil
}

func setupAuthRoutes(router *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) {
	authHandler := handlers.NewAuthHandler(db, redisClient, cfg, logger)

	auth := router.Group("/auth")
	auth.Use(middleware.Session())
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.GET("/profile", authHandler.GetProfile)
			protected.PUT("/profile", authHandler.UpdateProfile)
			protected.PUT("/password", authHandler.ChangePassword)
		}
	}
}

func setupProductRoutes(router *gin.RouterGroup, productHandler *handlers.ProductHandler) {
	products := router.Group("/products")
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/currencies", productHandler.GetCurrencies)
		products.GET("/slug/:slug", productHandler.GetProductBySlug)
		products.GET("/:id", productHandler.GetProduct)
	}
}

func setupCartRoutes(router *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	cartHandler := handlers.NewCartHandler(db, redisClient, cfg)

	cart := router.Group("/cart")
	cart.Use(middleware.Session(), middleware.OptionalAuthMiddleware(cfg))
	{
		cart.GET("", cartHandler.GetCart)
		cart.DELETE("", cartHandler.ClearCart)
		cart.GET("/count", cartHandler.GetCartItemCount)
		cart.POST("/items", cartHandler.AddToCart)
		cart.PUT("/items", cartHandler.SetQuantity)
		cart.PATCH("/items", cartHandler.UpdateQuantity)
		cart.DELETE("/items/:product_id", cartHandler.RemoveFromCart)
	}
}

func setupOrderRoutes(router *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, bus EventBus.Bus, logger *logrus.Logger) {
	orderHandler := handlers.NewOrderHandler(db, redisClient, cfg, bus, logger)

	orders := router.Group("/orders")
	orders.Use(middleware.Session(), middleware.AuthMiddleware(cfg))
	{
		orders.POST("", orderHandler.CreateOrder)
		orders.GET("", orderHandler.GetOrders)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.POST("/:id/cancel", orderHandler.CancelOrder)
		orders.POST("/:id/refund", orderHandler.RequestRefund)
	}
}

func setupNotificationRoutes(router *gin.RouterGroup, db *gorm.DB, cfg *config.Config, logger *logrus.Logger) {
	notificationHandler := handlers.NewNotificationHandler(db, cfg, logger)

	notifications := router.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware(cfg))
	{
		notifications.GET("", notificationHandler.GetNotifications)
		notifications.GET("/unread", notificationHandler.GetUnreadCount)
		notifications.PUT("/:id/read", notificationHandler.MarkRead)
	}
}

// setupAdminRoutes gates each admin area behind the permission it requires,
// resolved from the caller's roles on every request.
func setupAdminRoutes(router *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, bus EventBus.Bus, logger *logrus.Logger, resolver *rbac.Resolver, productHandler *handlers.ProductHandler) {
	orderHandler := handlers.NewOrderHandler(db, redisClient, cfg, bus, logger)
	promotionHandler := handlers.NewPromotionHandler(db, cfg)
	roleHandler := handlers.NewRoleHandler(db, cfg)
	notificationHandler := handlers.NewNotificationHandler(db, cfg, logger)
	analyticsHandler := handlers.NewAnalyticsHandler(db, cfg)

	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg))
	{
		products := admin.Group("/products")
		products.Use(middleware.RequirePermissions(resolver, rbac.PermManageProducts))
		{
			products.POST("", productHandler.CreateProduct)
			products.PUT("/:id", productHandler.UpdateProduct)
			products.DELETE("/:id", productHandler.DeleteProduct)
		}

		orders := admin.Group("/orders")
		orders.Use(middleware.RequirePermissions(resolver, rbac.PermManageOrders))
		{
			orders.GET("", orderHandler.AdminGetOrders)
			orders.GET("/:id", orderHandler.AdminGetOrder)
			orders.PUT("/:id/status", orderHandler.UpdateOrderStatus)
			orders.POST("/:id/refund/approve", orderHandler.ApproveRefund)
		}

		promotions := admin.Group("/promotions")
		promotions.Use(middleware.RequirePermissions(resolver, rbac.PermManagePromotions))
		{
			promotions.GET("", promotionHandler.GetPromotions)
			promotions.GET("/:id", promotionHandler.GetPromotion)
			promotions.POST("", promotionHandler.CreatePromotion)
			promotions.PUT("/:id", promotionHandler.UpdatePromotion)
			promotions.DELETE("/:id", promotionHandler.DeletePromotion)
		}

		roles := admin.Group("")
		roles.Use(middleware.RequirePermissions(resolver, rbac.PermManageRoles))
		{
			roles.GET("/roles", roleHandler.GetRoles)
			roles.GET("/roles/:id", roleHandler.GetRole)
			roles.POST("/roles", roleHandler.CreateRole)
			roles.PUT("/roles/:id", roleHandler.UpdateRole)
			roles.DELETE("/roles/:id", roleHandler.DeleteRole)
			roles.GET("/permissions", roleHandler.GetPermissions)
			roles.POST("/permissions", roleHandler.CreatePermission)
			roles.DELETE("/permissions/:id", roleHandler.DeletePermission)
			roles.POST("/users/:id/roles", roleHandler.AssignRole)
			roles.DELETE("/users/:id/roles/:role_id", roleHandler.RevokeRole)
		}

		reports := admin.Group("")
		reports.Use(middleware.RequirePermissions(resolver, rbac.PermViewReports))
		{
			reports.GET("/analytics/sales", analyticsHandler.GetSalesSummary)
			reports.GET("/analytics/dashboard", analyticsHandler.GetDashboardStats)
			reports.GET("/notifications", notificationHandler.GetAdminFeed)
		}
	}
}

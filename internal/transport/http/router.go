package http

import (
	"net/http"

	"shop-service/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Services struct {
	Auth          service.AuthService
	Catalog       service.CatalogService
	Cart          service.CartService
	Orders        service.OrderService
	Customers     service.CustomerService
	Notifications service.NotificationService
}

func Router(svc Services, uploadDir string, log *zap.Logger) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Admin-Token"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.Static("/uploads", uploadDir)

	shop := NewShopHandler(svc.Catalog, svc.Cart, svc.Orders, log)
	auth := NewAuthHandler(svc.Auth, log)
	items := NewItemsHandler(svc.Catalog, uploadDir, log)
	orders := NewOrdersHandler(svc.Orders, svc.Customers, svc.Notifications, log)

	api := r.Group("/api/v1")

	store := api.Group("/shop", CartSession())
	{
		store.GET("/items", shop.ListItems)
		store.GET("/items/:id", shop.GetItem)
		store.GET("/categories", shop.Categories)
		store.GET("/cart", shop.GetCart)
		store.POST("/cart/items", shop.AddCartLine)
		store.DELETE("/cart/items/:id", shop.RemoveCartLine)
		store.DELETE("/cart", shop.ClearCart)
		store.POST("/checkout", shop.Checkout)
		store.GET("/orders/track/:number", shop.TrackOrder)
	}

	api.POST("/admin/login", auth.Login)

	admin := api.Group("/admin", AdminAuth(svc.Auth, log))
	{
		admin.POST("/logout", auth.Logout)
		admin.POST("/password", auth.ChangePassword)

		admin.GET("/dashboard", items.Dashboard)

		admin.GET("/items", items.List)
		admin.POST("/items", items.Create)
		admin.GET("/items/:id", items.Get)
		admin.PUT("/items/:id", items.Update)
		admin.DELETE("/items/:id", items.Delete)
		admin.POST("/items/:id/stock", items.AdjustStock)
		admin.POST("/items/:id/codes", items.RegenerateCodes)
		admin.POST("/items/:id/images", items.UploadImage)
		admin.DELETE("/items/:id/images/:imageID", items.DeleteImage)
		admin.GET("/items/:id/stock-logs", items.ItemStockLogs)
		admin.GET("/stock-logs", items.RecentStockLogs)
		admin.POST("/items/import", items.Import)
		admin.GET("/items/export", items.Export)

		admin.GET("/categories", items.ListCategories)
		admin.POST("/categories", items.CreateCategory)
		admin.PUT("/categories/:id", items.UpdateCategory)
		admin.DELETE("/categories/:id", items.DeleteCategory)

		admin.GET("/orders", orders.List)
		admin.GET("/orders/:id", orders.Get)
		admin.PUT("/orders/:id/status", orders.UpdateStatus)
		admin.PUT("/orders/:id/payment", orders.SetPaymentStatus)

		admin.GET("/customers", orders.ListCustomers)

		admin.GET("/notifications", orders.ListNotifications)
		admin.GET("/notifications/unread-count", orders.UnreadCount)
		admin.PUT("/notifications/:id/read", orders.MarkNotificationRead)
	}

	return r
}

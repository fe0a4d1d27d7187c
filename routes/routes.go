package routes

import (
	"net/http"

	"github.com/dankdeals/dankdeals-backend-go/handlers"
	customMiddleware "github.com/dankdeals/dankdeals-backend-go/middleware"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(e *echo.Echo) {
	// Public routes
	e.POST("/register", handlers.SignUp)
	e.POST("/login", handlers.LoginUser)
	e.GET("/products", handlers.GetProducts)
	e.GET("/products/:id", handlers.GetProduct)
	e.GET("/zones/quote", handlers.QuoteDeliveryFee)
	e.POST("/waitlist", handlers.JoinWaitlist)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Authenticated routes
	api := e.Group("/api")
	api.Use(customMiddleware.AuthMiddleware)

	// User routes
	api.GET("/users/me", handlers.GetUserProfile)
	api.PUT("/users/me", handlers.UpdateUserProfile)
	api.GET("/users/me/addresses", handlers.GetAddresses)
	api.POST("/users/me/addresses", handlers.CreateAddress)
	api.PUT("/users/me/addresses/:id", handlers.UpdateAddress)
	api.DELETE("/users/me/addresses/:id", handlers.DeleteAddress)

	// Cart routes
	api.GET("/cart", handlers.GetCart)
	api.POST("/cart", handlers.AddToCart)
	api.PUT("/cart/quantity", handlers.UpdateCartItemQuantity)
	api.DELETE("/cart/:productId", handlers.RemoveFromCart)

	// Order routes
	api.POST("/orders", handlers.CreateOrder)
	api.GET("/orders", handlers.GetMyOrders)
	api.GET("/orders/:id", handlers.GetOrder)
	// Polling route for order status
	api.GET("/orders/:id/status", handlers.GetOrderStatus)

	api.POST("/promos/validate", handlers.ValidatePromo)

	// Back-office routes
	admin := api.Group("/admin")
	admin.Use(customMiddleware.AdminMiddleware)

	admin.GET("/dashboard", handlers.GetDashboard)

	admin.POST("/products", handlers.CreateProduct)
	admin.PUT("/products/:id", handlers.UpdateProduct)
	admin.DELETE("/products/:id", handlers.DeleteProduct)

	admin.GET("/orders", handlers.ListOrders)
	admin.PUT("/orders/:id/status", handlers.UpdateOrderStatus)

	admin.GET("/promos", handlers.ListPromos)
	admin.POST("/promos", handlers.CreatePromo)
	admin.PUT("/promos/:id", handlers.UpdatePromo)

	admin.GET("/zones", handlers.ListZones)
	admin.POST("/zones", handlers.CreateZone)
	admin.PUT("/zones/:id", handlers.UpdateZone)

	admin.GET("/waitlist", handlers.ListWaitlist)
	admin.POST("/sms", handlers.BroadcastSMS)
	admin.POST("/waitlist/export", handlers.ExportWaitlist)
	admin.GET("/waitlist/backups", handlers.ListBackups)
	admin.GET("/waitlist/download", handlers.DownloadBackup)
}

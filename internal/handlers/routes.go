package handlers

import (
	"github.com/gin-gonic/gin"

	"storefront/internal/auth"
	"storefront/internal/middleware"
	"storefront/internal/services"
	"storefront/internal/store"
)

// Deps is everything the HTTP layer needs. Ping and PaymentKeyID may be
// left empty.
type Deps struct {
	Auth     *services.AuthService
	Cart     *services.CartService
	Products *services.ProductService
	Orders   *services.OrderService
	Admin    *services.AdminService

	Users  store.UserStore
	Tokens *auth.Tokens

	Ping         PingFunc
	PaymentKeyID string
}

// RegisterRoutes mounts the API under /api and the health check at the root.
func RegisterRoutes(r gin.IRouter, d Deps) {
	r.GET("/healthz", Health(d.Ping))

	protect := middleware.Protect(d.Users, d.Tokens)
	adminOnly := middleware.AdminOnly()

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", Register(d.Auth))
		authGroup.POST("/login", Login(d.Auth))
		authGroup.GET("/me", protect, GetMe(d.Auth))
		authGroup.PATCH("/update-profile", protect, UpdateProfile(d.Auth))
		authGroup.PATCH("/change-password", protect, ChangePassword(d.Auth))
		authGroup.DELETE("/delete-account", protect, DeleteAccount(d.Auth))
	}

	cart := api.Group("/cart", protect)
	{
		cart.GET("", GetCart(d.Cart))
		cart.POST("", AddToCart(d.Cart))
		cart.DELETE("", ClearCart(d.Cart))
		cart.PUT("/:productId", UpdateCartItem(d.Cart))
		cart.DELETE("/:productId", RemoveFromCart(d.Cart))
	}

	products := api.Group("/products")
	{
		products.GET("", GetProducts(d.Products))
		products.GET("/:id", GetProduct(d.Products))
		products.POST("", protect, adminOnly, CreateProduct(d.Products))
		products.PUT("/:id", protect, adminOnly, UpdateProduct(d.Products))
		products.DELETE("/:id", protect, adminOnly, DeleteProduct(d.Products))
	}

	orders := api.Group("/orders", protect)
	{
		createPayment := CreatePayment(d.Orders, d.PaymentKeyID)
		orders.POST("", CreateOrder(d.Orders))
		orders.POST("/create-payment", createPayment)
		orders.POST("/create-razorpay", createPayment)
		orders.GET("", GetMyOrders(d.Orders))
		orders.GET("/:id", GetOrder(d.Orders))
		orders.PATCH("/:id/payment", ConfirmPayment(d.Orders))
		orders.PATCH("/:id/status", adminOnly, UpdateOrderStatus(d.Orders))
	}

	admin := api.Group("/admin", protect, adminOnly)
	{
		admin.GET("/stats", GetDashboardStats(d.Admin))
		admin.GET("/users", GetAllUsers(d.Admin))
		admin.GET("/orders", GetAllOrders(d.Admin))
		admin.GET("/products", GetAllProducts(d.Admin))
		admin.PATCH("/users/:id/role", UpdateUserRole(d.Admin))
		admin.DELETE("/users/:id", DeleteUser(d.Admin))
	}
}

package client

import "storefront/internal/models"

// Resource types returned by the API. They alias the server models so
// callers outside this module can name them.
type (
	User           = models.User
	Profile        = models.Profile
	Role           = models.Role
	CartLine       = models.CartLine
	CartItem       = models.CartItem
	Product        = models.Product
	StringList     = models.StringList
	Order          = models.Order
	OrderItem      = models.OrderItem
	OrderStatus    = models.OrderStatus
	Purchaser      = models.Purchaser
	AdminOrder     = models.AdminOrder
	DashboardStats = models.DashboardStats
)

const (
	RoleUser  = models.RoleUser
	RoleAdmin = models.RoleAdmin

	StatusPending    = models.StatusPending
	StatusProcessing = models.StatusProcessing
	StatusShipped    = models.StatusShipped
	StatusDelivered  = models.StatusDelivered
	StatusCancelled  = models.StatusCancelled
)

package models

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

var orderStatuses = []OrderStatus{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}

func ParseOrderStatus(value string) (OrderStatus, error) {
	candidate := OrderStatus(strings.ToLower(strings.TrimSpace(value)))
	for _, status := range orderStatuses {
		if candidate == status {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown order status %q", value)
}

// AdminSettable reports whether an admin may move an order into s.
// Pending is only ever the initial state.
func (s OrderStatus) AdminSettable() bool {
	switch s {
	case StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// OrderItem is a frozen snapshot of a product at purchase time.
type OrderItem struct {
	ProductID string  `bson:"productId" json:"productId"`
	Name      string  `bson:"name" json:"name"`
	Size      float64 `bson:"size" json:"size"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	Price     float64 `bson:"price" json:"price"`
	Image     string  `bson:"image" json:"image"`
}

// Order defines the persisted order document.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderID         string             `bson:"orderId" json:"orderId"`
	User            primitive.ObjectID `bson:"user" json:"user"`
	UserEmail       string             `bson:"userEmail" json:"userEmail"`
	UserName        string             `bson:"userName" json:"userName"`
	Items           []OrderItem        `bson:"items" json:"items"`
	Total           float64            `bson:"total" json:"total"`
	ShippingAddress string             `bson:"shippingAddress" json:"shippingAddress"`
	PaymentMethod   string             `bson:"paymentMethod" json:"paymentMethod"`
	PaymentID       string             `bson:"paymentId,omitempty" json:"paymentId,omitempty"`
	Status          OrderStatus        `bson:"status" json:"status"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}

// Purchaser is the user summary attached to admin order listings.
type Purchaser struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// AdminOrder is an order with its purchaser populated. Purchaser is nil
// when the owning user no longer exists.
type AdminOrder struct {
	Order
	Purchaser *Purchaser `json:"purchaser"`
}

// DashboardStats backs the admin dashboard.
type DashboardStats struct {
	TotalUsers    int64   `json:"totalUsers"`
	TotalOrders   int64   `json:"totalOrders"`
	TotalProducts int64   `json:"totalProducts"`
	TotalRevenue  float64 `json:"totalRevenue"`
}

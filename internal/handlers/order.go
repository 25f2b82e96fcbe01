package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/services"
)

type orderItemRequest struct {
	ProductID string  `json:"productId" binding:"required"`
	Size      float64 `json:"size"`
	Quantity  int     `json:"quantity" binding:"required,min=1"`
}

type createOrderRequest struct {
	Items           []orderItemRequest `json:"items" binding:"required,min=1,dive"`
	ShippingAddress string             `json:"shippingAddress" binding:"required"`
	PaymentMethod   string             `json:"paymentMethod"`
}

type createPaymentRequest struct {
	Amount  float64 `json:"amount"`
	OrderID string  `json:"orderId"`
}

type confirmPaymentRequest struct {
	PaymentID string `json:"paymentId" binding:"required"`
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func CreateOrder(orderService *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /orders"
		defer handlePanic(c, route)

		userID, ok := currentUser(c, route)
		if !ok {
			return
		}

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		lines := make([]services.OrderLineInput, 0, len(req.Items))
		for _, item := range req.Items {
			lines = append(lines, services.OrderLineInput{
				ProductID: item.ProductID,
				Size:      item.Size,
				Quantity:  item.Quantity,
			})
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		order, err := orderService.Create(ctx, userID, services.CreateOrderInput{
			Items:           lines,
			ShippingAddress: req.ShippingAddress,
			PaymentMethod:   req.PaymentMethod,
		})
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		log.Printf("[%s] order %s created total=%.2f", route, order.OrderID, order.Total)
		respond(c, http.StatusCreated, gin.H{"order": order})
	}
}

// CreatePayment opens a gateway order. keyID is the public checkout key and
// is echoed back so the browser can open the payment widget.
func CreatePayment(orderService *services.OrderService, keyID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /orders/create-payment"
		defer handlePanic(c, route)

		userID, ok := currentUser(c, route)
		if !ok {
			return
		}

		var req createPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		handle, err := orderService.CreatePayment(ctx, userID, services.PaymentRequest{
			Amount:  req.Amount,
			OrderID: req.OrderID,
		})
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		payload := gin.H{
			"razorpayOrderId": handle.ID,
			"amount":          handle.Amount,
			"currency":        handle.Currency,
			"receipt":         handle.Receipt,
		}
		if handle.OrderID != "" {
			payload["orderId"] = handle.OrderID
		}
		if keyID != "" {
			payload["key"] = keyID
		}
		respond(c, http.StatusOK, payload)
	}
}

func GetMyOrders(orderService *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders"
		defer handlePanic(c, route)

		userID, ok := currentUser(c, route)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		orders, err := orderService.ListOwn(ctx, userID)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		respond(c, http.StatusOK, gin.H{"orders": orders})
	}
}

func GetOrder(orderService *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders/:id"
		defer handlePanic(c, route)

		userID, ok := currentUser(c, route)
		if !ok {
			return
		}
		id, ok := objectIDParam(c, route, "id", "Order not found")
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		order, err := orderService.GetOwn(ctx, userID, id)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		respond(c, http.StatusOK, gin.H{"order": order})
	}
}

func ConfirmPayment(orderService *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /orders/:id/payment"
		defer handlePanic(c, route)

		userID, ok := currentUser(c, route)
		if !ok {
			return
		}
		id, ok := objectIDParam(c, route, "id", "Order not found")
		if !ok {
			return
		}

		var req confirmPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		order, err := orderService.ConfirmPayment(ctx, userID, id, req.PaymentID)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		respond(c, http.StatusOK, gin.H{"order": order})
	}
}

// UpdateOrderStatus is addressed by the human-readable order id.
func UpdateOrderStatus(orderService *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /orders/:id/status"
		defer handlePanic(c, route)

		var req updateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		order, err := orderService.UpdateStatus(ctx, c.Param("id"), req.Status)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		log.Printf("[%s] order %s is now %s", route, order.OrderID, order.Status)
		respond(c, http.StatusOK, gin.H{"order": order})
	}
}

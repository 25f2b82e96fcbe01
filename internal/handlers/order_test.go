package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"

	"storefront/internal/payment"
)

func TestOrderCheckoutFlow(t *testing.T) {
	ctrl := gomock.NewController(t)
	gateway := payment.NewMockGateway(ctrl)
	s := newTestServer(t, gateway)

	admin, _ := s.signupAdmin(t, "admin@example.com")
	pegasus := s.createProduct(t, admin, "Pegasus", 19.99, 5)
	vomero := s.createProduct(t, admin, "Vomero", 150, 5)
	token, userID := s.signup(t, "grace@example.com")

	rec, resp := s.do(t, http.MethodPost, "/api/orders", token, gin.H{
		"items": []gin.H{
			{"productId": pegasus, "size": 9, "quantity": 3, "price": 0.01},
			{"productId": vomero, "size": 10, "quantity": 1},
		},
		"shippingAddress": "1 Harbor Rd",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := resp["order"].(map[string]interface{})
	assert.Equal(t, 209.97, order["total"])
	assert.Equal(t, "pending", order["status"])
	assert.Equal(t, userID, order["user"])
	assert.Regexp(t, `^ORD-\d+[0-9A-Z]{9}$`, order["orderId"])
	id := order["id"].(string)
	orderID := order["orderId"].(string)

	gateway.EXPECT().
		CreateOrder(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req payment.OrderRequest) (payment.GatewayOrder, error) {
			assert.Equal(t, int64(20997), req.AmountMinor)
			assert.Equal(t, "INR", req.Currency)
			assert.Regexp(t, `^receipt_\d+$`, req.Receipt)
			return payment.GatewayOrder{ID: "order_rzp_1", Amount: req.AmountMinor, Currency: req.Currency, Receipt: req.Receipt}, nil
		})

	rec, resp = s.do(t, http.MethodPost, "/api/orders/create-payment", token, gin.H{"amount": 1, "orderId": id})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "order_rzp_1", resp["razorpayOrderId"])
	assert.EqualValues(t, 20997, resp["amount"])
	assert.Equal(t, id, resp["orderId"])
	assert.Equal(t, "rzp_test_key", resp["key"])

	rec, resp = s.do(t, http.MethodPatch, "/api/orders/"+id+"/payment", token, gin.H{"paymentId": "pay_123"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "processing", resp["order"].(map[string]interface{})["status"])

	// repeating the confirmation is harmless
	rec, _ = s.do(t, http.MethodPatch, "/api/orders/"+id+"/payment", token, gin.H{"paymentId": "pay_123"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, resp = s.do(t, http.MethodPatch, "/api/orders/"+id+"/payment", token, gin.H{"paymentId": "pay_other"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, false, resp["success"])

	rec, resp = s.do(t, http.MethodPatch, "/api/orders/"+orderID+"/status", admin, gin.H{"status": "shipped"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "shipped", resp["order"].(map[string]interface{})["status"])

	rec, resp = s.do(t, http.MethodGet, "/api/orders", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, resp["orders"], 1)

	rec, resp = s.do(t, http.MethodGet, "/api/orders/"+id, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "shipped", resp["order"].(map[string]interface{})["status"])
}

func TestCreateOrder_Validation(t *testing.T) {
	s := newTestServer(t, nil)
	token, _ := s.signup(t, "grace@example.com")

	rec, resp := s.do(t, http.MethodPost, "/api/orders", token, gin.H{"items": []gin.H{}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	fields := errorFields(t, resp)
	assert.Contains(t, fields, "items")
	assert.Contains(t, fields, "shippingAddress")

	rec, resp = s.do(t, http.MethodPost, "/api/orders", token, gin.H{
		"items":           []gin.H{{"productId": "nope", "quantity": 1}},
		"shippingAddress": "1 Harbor Rd",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorFields(t, resp), "items.0.productId")

	rec, resp = s.do(t, http.MethodPost, "/api/orders", token, gin.H{
		"items":           []gin.H{{"productId": primitive.NewObjectID().Hex(), "quantity": 1}},
		"shippingAddress": "1 Harbor Rd",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Product not found", resp["message"])
}

func TestOrders_AreScopedToOwner(t *testing.T) {
	s := newTestServer(t, nil)
	admin, _ := s.signupAdmin(t, "admin@example.com")
	productID := s.createProduct(t, admin, "Pegasus", 120, 5)
	owner, _ := s.signup(t, "grace@example.com")
	other, _ := s.signup(t, "alan@example.com")

	_, resp := s.do(t, http.MethodPost, "/api/orders", owner, gin.H{
		"items":           []gin.H{{"productId": productID, "size": 9, "quantity": 1}},
		"shippingAddress": "1 Harbor Rd",
	})
	id := resp["order"].(map[string]interface{})["id"].(string)

	rec, resp := s.do(t, http.MethodGet, "/api/orders/"+id, other, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Order not found", resp["message"])

	rec, _ = s.do(t, http.MethodPatch, "/api/orders/"+id+"/payment", other, gin.H{"paymentId": "pay_1"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	_, resp = s.do(t, http.MethodGet, "/api/orders", other, nil)
	assert.Empty(t, resp["orders"])
}

func TestCreatePayment_Errors(t *testing.T) {
	s := newTestServer(t, nil)
	token, _ := s.signup(t, "grace@example.com")

	rec, resp := s.do(t, http.MethodPost, "/api/orders/create-payment", token, gin.H{"amount": 0.5})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid amount", resp["message"])

	rec, resp = s.do(t, http.MethodPost, "/api/orders/create-razorpay", token, gin.H{"amount": 10})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Payment gateway unavailable", resp["message"])
}

func TestUpdateOrderStatus_AdminOnly(t *testing.T) {
	s := newTestServer(t, nil)
	admin, _ := s.signupAdmin(t, "admin@example.com")
	customer, _ := s.signup(t, "grace@example.com")

	rec, _ := s.do(t, http.MethodPatch, "/api/orders/ORD-1/status", customer, gin.H{"status": "shipped"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, resp := s.do(t, http.MethodPatch, "/api/orders/ORD-1/status", admin, gin.H{"status": "lost"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid status", resp["message"])

	rec, resp = s.do(t, http.MethodPatch, "/api/orders/ORD-1/status", admin, gin.H{"status": "pending"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid status", resp["message"])

	rec, resp = s.do(t, http.MethodPatch, "/api/orders/ORD-1/status", admin, gin.H{"status": "delivered"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Order not found", resp["message"])
}

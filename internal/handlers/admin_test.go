package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAdminRoutes_RequireAdmin(t *testing.T) {
	s := newTestServer(t, nil)
	customer, _ := s.signup(t, "grace@example.com")

	for _, path := range []string{"/api/admin/stats", "/api/admin/users", "/api/admin/orders", "/api/admin/products"} {
		rec, resp := s.do(t, http.MethodGet, path, customer, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code, path)
		assert.Equal(t, "Not authorized as admin", resp["message"], path)
	}
}

func TestAdminDashboard(t *testing.T) {
	s := newTestServer(t, nil)
	admin, _ := s.signupAdmin(t, "admin@example.com")
	productID := s.createProduct(t, admin, "Pegasus", 100, 5)
	customer, _ := s.signup(t, "grace@example.com")

	for i := 0; i < 2; i++ {
		rec, _ := s.do(t, http.MethodPost, "/api/orders", customer, gin.H{
			"items":           []gin.H{{"productId": productID, "size": 9, "quantity": 1}},
			"shippingAddress": "1 Harbor Rd",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	_, resp := s.do(t, http.MethodGet, "/api/orders", customer, nil)
	cancelled := resp["orders"].([]interface{})[0].(map[string]interface{})["orderId"].(string)
	rec, _ := s.do(t, http.MethodPatch, "/api/orders/"+cancelled+"/status", admin, gin.H{"status": "cancelled"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, resp = s.do(t, http.MethodGet, "/api/admin/stats", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := resp["stats"].(map[string]interface{})
	assert.EqualValues(t, 2, stats["totalUsers"])
	assert.EqualValues(t, 2, stats["totalOrders"])
	assert.EqualValues(t, 1, stats["totalProducts"])
	assert.EqualValues(t, 100, stats["totalRevenue"])

	rec, resp = s.do(t, http.MethodGet, "/api/admin/orders", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	orders := resp["orders"].([]interface{})
	require.Len(t, orders, 2)
	purchaser := orders[0].(map[string]interface{})["purchaser"].(map[string]interface{})
	assert.Equal(t, "grace@example.com", purchaser["email"])

	rec, resp = s.do(t, http.MethodGet, "/api/admin/users", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, resp["users"], 2)

	rec, resp = s.do(t, http.MethodGet, "/api/admin/products", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, resp["products"], 1)
}

func TestUpdateUserRole(t *testing.T) {
	s := newTestServer(t, nil)
	admin, _ := s.signupAdmin(t, "admin@example.com")
	customer, customerID := s.signup(t, "grace@example.com")

	rec, resp := s.do(t, http.MethodPatch, "/api/admin/users/"+customerID+"/role", admin, gin.H{"role": "superuser"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid role", resp["message"])

	rec, resp = s.do(t, http.MethodPatch, "/api/admin/users/"+primitive.NewObjectID().Hex()+"/role", admin, gin.H{"role": "admin"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", resp["message"])

	rec, resp = s.do(t, http.MethodPatch, "/api/admin/users/"+customerID+"/role", admin, gin.H{"role": "admin"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", resp["user"].(map[string]interface{})["role"])

	// promotion is visible on the very next request
	rec, _ = s.do(t, http.MethodGet, "/api/admin/stats", customer, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteUser_CascadesOrders(t *testing.T) {
	s := newTestServer(t, nil)
	admin, _ := s.signupAdmin(t, "admin@example.com")
	productID := s.createProduct(t, admin, "Pegasus", 100, 5)
	customer, customerID := s.signup(t, "grace@example.com")

	rec, _ := s.do(t, http.MethodPost, "/api/orders", customer, gin.H{
		"items":           []gin.H{{"productId": productID, "size": 9, "quantity": 1}},
		"shippingAddress": "1 Harbor Rd",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, resp := s.do(t, http.MethodDelete, "/api/admin/users/"+customerID, admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User and all their orders have been permanently deleted", resp["message"])

	_, resp = s.do(t, http.MethodGet, "/api/admin/orders", admin, nil)
	assert.Empty(t, resp["orders"])

	rec, _ = s.do(t, http.MethodGet, "/api/cart", customer, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = s.do(t, http.MethodDelete, "/api/admin/users/"+customerID, admin, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func cartLines(t *testing.T, resp apiResponse) []interface{} {
	t.Helper()
	lines, ok := resp["cart"].([]interface{})
	require.True(t, ok, "expected cart array in %v", resp)
	return lines
}

func TestCart_Lifecycle(t *testing.T) {
	s := newTestServer(t, nil)
	admin, _ := s.signupAdmin(t, "admin@example.com")
	productID := s.createProduct(t, admin, "Pegasus", 120, 5)
	token, _ := s.signup(t, "grace@example.com")

	rec, resp := s.do(t, http.MethodGet, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, cartLines(t, resp))

	rec, resp = s.do(t, http.MethodPost, "/api/cart", token, gin.H{"productId": productID, "size": 9, "quantity": 2})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	lines := cartLines(t, resp)
	require.Len(t, lines, 1)
	line := lines[0].(map[string]interface{})
	assert.EqualValues(t, 2, line["quantity"])
	assert.Equal(t, "Pegasus", line["product"].(map[string]interface{})["name"])

	// same product and size merges into one line
	_, resp = s.do(t, http.MethodPost, "/api/cart", token, gin.H{"productId": productID, "size": 9})
	lines = cartLines(t, resp)
	require.Len(t, lines, 1)
	assert.EqualValues(t, 3, lines[0].(map[string]interface{})["quantity"])

	_, resp = s.do(t, http.MethodPost, "/api/cart", token, gin.H{"productId": productID, "size": 10})
	assert.Len(t, cartLines(t, resp), 2)

	rec, resp = s.do(t, http.MethodPut, "/api/cart/"+productID, token, gin.H{"size": 9, "quantity": 5})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 5, cartLines(t, resp)[0].(map[string]interface{})["quantity"])

	rec, resp = s.do(t, http.MethodDelete, "/api/cart/"+productID+"?size=10", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, cartLines(t, resp), 1)

	rec, resp = s.do(t, http.MethodDelete, "/api/cart/"+productID, token, gin.H{"size": 9})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, cartLines(t, resp))

	s.do(t, http.MethodPost, "/api/cart", token, gin.H{"productId": productID, "size": 8})
	rec, resp = s.do(t, http.MethodDelete, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, cartLines(t, resp))
}

func TestCart_Errors(t *testing.T) {
	s := newTestServer(t, nil)
	admin, _ := s.signupAdmin(t, "admin@example.com")
	soldOut := s.createProduct(t, admin, "Vaporfly", 250, 0)
	productID := s.createProduct(t, admin, "Pegasus", 120, 5)
	token, _ := s.signup(t, "grace@example.com")

	rec, resp := s.do(t, http.MethodPost, "/api/cart", token, gin.H{"productId": soldOut, "size": 9})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Product out of stock", resp["message"])

	rec, resp = s.do(t, http.MethodPost, "/api/cart", token, gin.H{"productId": primitive.NewObjectID().Hex(), "size": 9})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Product not found", resp["message"])

	rec, resp = s.do(t, http.MethodPost, "/api/cart", token, gin.H{"productId": productID, "size": 9, "quantity": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorFields(t, resp), "quantity")

	rec, resp = s.do(t, http.MethodPost, "/api/cart", token, gin.H{"productId": productID})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "size is required", errorFields(t, resp)["size"])

	rec, resp = s.do(t, http.MethodPut, "/api/cart/"+productID, token, gin.H{"size": 9, "quantity": 2})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Item not in cart", resp["message"])

	rec, _ = s.do(t, http.MethodDelete, "/api/cart/"+productID, token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCart_DropsDeletedProducts(t *testing.T) {
	s := newTestServer(t, nil)
	admin, _ := s.signupAdmin(t, "admin@example.com")
	productID := s.createProduct(t, admin, "Pegasus", 120, 5)
	token, _ := s.signup(t, "grace@example.com")

	s.do(t, http.MethodPost, "/api/cart", token, gin.H{"productId": productID, "size": 9})
	s.do(t, http.MethodDelete, "/api/products/"+productID, admin, nil)

	_, resp := s.do(t, http.MethodGet, "/api/cart", token, nil)
	assert.Empty(t, cartLines(t, resp))
}

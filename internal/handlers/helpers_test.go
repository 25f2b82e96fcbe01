package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/auth"
	"storefront/internal/cache"
	"storefront/internal/models"
	"storefront/internal/payment"
	"storefront/internal/services"
	"storefront/internal/store"
)

type apiResponse map[string]interface{}

type testServer struct {
	engine *gin.Engine
	store  *store.Memory
	cache  *cache.Memory
	pingOK bool
}

func newTestServer(t *testing.T, gateway payment.Gateway) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mem := store.NewMemory()
	c := cache.NewMemory()
	tokens := auth.NewTokens("test-secret", time.Hour)

	s := &testServer{store: mem, cache: c, pingOK: true}
	deps := Deps{
		Auth:     services.NewAuthService(mem.Users(), mem.Orders(), tokens, services.WithBcryptCost(bcrypt.MinCost)),
		Cart:     services.NewCartService(mem.Users(), mem.Products()),
		Products: services.NewProductService(mem.Products(), c, time.Hour, nil),
		Orders:   services.NewOrderService(mem.Orders(), mem.Users(), mem.Products(), gateway, "INR", nil),
		Admin:    services.NewAdminService(mem.Users(), mem.Orders(), mem.Products()),
		Users:    mem.Users(),
		Tokens:   tokens,
		Ping: func(context.Context) error {
			if !s.pingOK {
				return errors.New("connection refused")
			}
			return nil
		},
		PaymentKeyID: "rzp_test_key",
	}

	s.engine = gin.New()
	RegisterRoutes(s.engine, deps)
	return s
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	var resp apiResponse
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	}
	return rec, resp
}

// signup registers a customer and returns its token and id.
func (s *testServer) signup(t *testing.T, email string) (string, string) {
	t.Helper()
	rec, resp := s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"firstName": "Grace",
		"lastName":  "Hopper",
		"email":     email,
		"password":  "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	user := resp["user"].(map[string]interface{})
	return resp["token"].(string), user["id"].(string)
}

func (s *testServer) signupAdmin(t *testing.T, email string) (string, string) {
	t.Helper()
	token, id := s.signup(t, email)
	oid, err := primitive.ObjectIDFromHex(id)
	require.NoError(t, err)
	role := models.RoleAdmin
	_, err = s.store.Users().Update(context.Background(), oid, store.UserUpdate{Role: &role})
	require.NoError(t, err)
	return token, id
}

func (s *testServer) createProduct(t *testing.T, adminToken, name string, price float64, stock int) string {
	t.Helper()
	rec, resp := s.do(t, http.MethodPost, "/api/products", adminToken, gin.H{
		"name":          name,
		"description":   "Lightweight trainer",
		"price":         price,
		"image":         "https://img.example/" + name + ".jpg",
		"category":      "running",
		"brand":         "Acme",
		"sizes":         []float64{8, 9, 10},
		"stockQuantity": stock,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return resp["product"].(map[string]interface{})["id"].(string)
}

func errorFields(t *testing.T, resp apiResponse) map[string]interface{} {
	t.Helper()
	fields, ok := resp["errors"].(map[string]interface{})
	require.True(t, ok, "expected errors map in %v", resp)
	return fields
}

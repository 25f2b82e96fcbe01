package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/auth"
	"storefront/internal/cache"
	"storefront/internal/models"
	"storefront/internal/payment"
	"storefront/internal/store"
)

type testEnv struct {
	store    *store.Memory
	cache    *cache.Memory
	tokens   *auth.Tokens
	auth     *AuthService
	cart     *CartService
	products *ProductService
	orders   *OrderService
	admin    *AdminService
}

func newTestEnv(t *testing.T, gateway payment.Gateway) *testEnv {
	t.Helper()

	mem := store.NewMemory()
	c := cache.NewMemory()
	tokens := auth.NewTokens("test-secret", time.Hour)

	return &testEnv{
		store:    mem,
		cache:    c,
		tokens:   tokens,
		auth:     NewAuthService(mem.Users(), mem.Orders(), tokens, WithBcryptCost(bcrypt.MinCost)),
		cart:     NewCartService(mem.Users(), mem.Products()),
		products: NewProductService(mem.Products(), c, time.Hour, nil),
		orders:   NewOrderService(mem.Orders(), mem.Users(), mem.Products(), gateway, "INR", nil),
		admin:    NewAdminService(mem.Users(), mem.Orders(), mem.Products()),
	}
}

func (e *testEnv) register(t *testing.T, email string) primitive.ObjectID {
	t.Helper()
	session, err := e.auth.Register(context.Background(), RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     email,
		Password:  "secret1",
	})
	require.NoError(t, err)
	id, err := primitive.ObjectIDFromHex(session.User.ID)
	require.NoError(t, err)
	return id
}

func (e *testEnv) product(t *testing.T, name string, price float64) models.Product {
	t.Helper()
	stock := 10
	product, err := e.products.Create(context.Background(), ProductInput{
		Name:          name,
		Description:   "Runner",
		Price:         price,
		Image:         "https://img.example/" + name + ".jpg",
		Category:      "running",
		Brand:         "Acme",
		Sizes:         []float64{8, 9, 9.5},
		StockQuantity: &stock,
	})
	require.NoError(t, err)
	return product
}

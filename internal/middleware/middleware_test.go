package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/auth"
	"storefront/internal/models"
	"storefront/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newProtectedRouter(users store.UserStore, tokens *auth.Tokens) *gin.Engine {
	r := gin.New()
	r.GET("/me", Protect(users, tokens), func(c *gin.Context) {
		id, _ := UserIDFrom(c)
		role, _ := RoleFrom(c)
		c.JSON(http.StatusOK, gin.H{"id": id.Hex(), "role": role})
	})
	r.GET("/admin", Protect(users, tokens), AdminOnly(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func doGet(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestProtect(t *testing.T) {
	mem := store.NewMemory()
	tokens := auth.NewTokens("secret", time.Hour)
	user := &models.User{Email: "ada@example.com", Role: models.RoleUser}
	require.NoError(t, mem.Users().Create(context.Background(), user))
	r := newProtectedRouter(mem.Users(), tokens)

	w := doGet(r, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Not authorized, no token"}`, w.Body.String())

	w = doGet(r, "/me", "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	expired, err := auth.NewTokens("secret", -time.Minute).Issue(user.ID)
	require.NoError(t, err)
	w = doGet(r, "/me", expired)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	ghost, err := tokens.Issue(primitive.NewObjectID())
	require.NoError(t, err)
	w = doGet(r, "/me", ghost)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	valid, err := tokens.Issue(user.ID)
	require.NoError(t, err)
	w = doGet(r, "/me", valid)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"`+user.ID.Hex()+`","role":"user"}`, w.Body.String())
}

func TestAdminOnly(t *testing.T) {
	mem := store.NewMemory()
	tokens := auth.NewTokens("secret", time.Hour)
	ctx := context.Background()

	user := &models.User{Email: "ada@example.com", Role: models.RoleUser}
	admin := &models.User{Email: "root@example.com", Role: models.RoleAdmin}
	require.NoError(t, mem.Users().Create(ctx, user))
	require.NoError(t, mem.Users().Create(ctx, admin))
	r := newProtectedRouter(mem.Users(), tokens)

	userToken, err := tokens.Issue(user.ID)
	require.NoError(t, err)
	adminToken, err := tokens.Issue(admin.ID)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, doGet(r, "/admin", userToken).Code)
	assert.Equal(t, http.StatusNoContent, doGet(r, "/admin", adminToken).Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/admin", "").Code)

	// role is read live, so a demotion takes effect on the next request
	role := models.RoleUser
	_, err = mem.Users().Update(ctx, admin.ID, store.UserUpdate{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, doGet(r, "/admin", adminToken).Code)
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute)
	now := time.Now()
	limiter.now = func() time.Time { return now }

	r := gin.New()
	r.Use(limiter.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, doGet(r, "/ping", "").Code)
	assert.Equal(t, http.StatusOK, doGet(r, "/ping", "").Code)
	w := doGet(r, "/ping", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Too many requests")

	now = now.Add(30 * time.Second)
	assert.Equal(t, http.StatusOK, doGet(r, "/ping", "").Code)
}

func TestRequestMetricsPassesThrough(t *testing.T) {
	r := gin.New()
	r.Use(RequestMetrics(nil))
	r.GET("/teapot", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	assert.Equal(t, http.StatusTeapot, doGet(r, "/teapot", "").Code)
	assert.Equal(t, http.StatusNotFound, doGet(r, "/missing", "").Code)
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := doGet(r, "/ping", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-referrer", w.Header().Get("Referrer-Policy"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Contains(t, w.Header().Get("Strict-Transport-Security"), "max-age=15552000")
}

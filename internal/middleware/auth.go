package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/auth"
	"storefront/internal/models"
	"storefront/internal/store"
)

const (
	userIDKey = "userId"
	roleKey   = "role"
)

func abortWithMessage(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

// Protect verifies the bearer token and resolves it to a live user. The
// user id and role are stored on the context for later handlers.
func Protect(users store.UserStore, tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := auth.BearerToken(c.GetHeader("Authorization"))
		if !ok {
			log.Println("[AUTH] [ERROR] missing or malformed token")
			abortWithMessage(c, http.StatusUnauthorized, "Not authorized, no token")
			return
		}

		userID, err := tokens.Verify(raw)
		if err != nil {
			log.Println("[AUTH] [ERROR] token validation failed:", err)
			abortWithMessage(c, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		user, err := users.FindByID(ctx, userID)
		if errors.Is(err, store.ErrNotFound) {
			log.Println("[AUTH] [ERROR] token user no longer exists:", userID.Hex())
			abortWithMessage(c, http.StatusUnauthorized, "Not authorized, user not found")
			return
		}
		if err != nil {
			log.Println("[AUTH] [ERROR] user lookup failed:", err)
			abortWithMessage(c, http.StatusInternalServerError, "Server error")
			return
		}

		c.Set(userIDKey, user.ID)
		c.Set(roleKey, user.Role)
		c.Next()
	}
}

// AdminOnly must run after Protect.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if role, ok := RoleFrom(c); !ok || !role.IsAdmin() {
			log.Println("[AUTH] [ERROR] admin route denied")
			abortWithMessage(c, http.StatusForbidden, "Not authorized as admin")
			return
		}
		c.Next()
	}
}

func UserIDFrom(c *gin.Context) (primitive.ObjectID, bool) {
	value, ok := c.Get(userIDKey)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, ok := value.(primitive.ObjectID)
	return id, ok
}

func RoleFrom(c *gin.Context) (models.Role, bool) {
	value, ok := c.Get(roleKey)
	if !ok {
		return "", false
	}
	role, ok := value.(models.Role)
	return role, ok
}

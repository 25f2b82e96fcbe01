package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/services"
)

type addToCartRequest struct {
	ProductID string   `json:"productId" binding:"required"`
	Size      *float64 `json:"size" binding:"required"`
	Quantity  *int     `json:"quantity" binding:"omitempty,min=1"`
}

type updateCartRequest struct {
	Size     *float64 `json:"size" binding:"required"`
	Quantity *int     `json:"quantity" binding:"required"`
}

type removeFromCartRequest struct {
	Size *float64 `json:"size"`
}

func GetCart(cartService *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /cart"
		defer handlePanic(c, route)

		userID, ok := currentUser(c, route)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		cart, err := cartService.Get(ctx, userID)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		respond(c, http.StatusOK, gin.H{"cart": cart})
	}
}

func AddToCart(cartService *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /cart"
		defer handlePanic(c, route)

		userID, ok := currentUser(c, route)
		if !ok {
			return
		}

		var req addToCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		productID, err := primitive.ObjectIDFromHex(req.ProductID)
		if err != nil {
			respondWithError(c, http.StatusNotFound, route, "Product not found")
			return
		}

		quantity := 1
		if req.Quantity != nil {
			quantity = *req.Quantity
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		cart, err := cartService.Add(ctx, userID, productID, *req.Size, quantity)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		respond(c, http.StatusOK, gin.H{"cart": cart})
	}
}

func UpdateCartItem(cartService *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /cart/:productId"
		defer handlePanic(c, route)

		userID, ok := currentUser(c, route)
		if !ok {
			return
		}
		productID, ok := objectIDParam(c, route, "productId", "Item not in cart")
		if !ok {
			return
		}

		var req updateCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		cart, err := cartService.UpdateQuantity(ctx, userID, productID, *req.Size, *req.Quantity)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		respond(c, http.StatusOK, gin.H{"cart": cart})
	}
}

// RemoveFromCart takes the size from the query string or, failing that, the
// request body.
func RemoveFromCart(cartService *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cart/:productId"
		defer handlePanic(c, route)

		userID, ok := currentUser(c, route)
		if !ok {
			return
		}
		productID, ok := objectIDParam(c, route, "productId", "Item not in cart")
		if !ok {
			return
		}

		var size *float64
		if raw := c.Query("size"); raw != "" {
			parsed, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				respondValidationFields(c, route, map[string]string{"size": "size must be a number"})
				return
			}
			size = &parsed
		} else if c.Request.ContentLength > 0 {
			var req removeFromCartRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				respondValidationError(c, route, err)
				return
			}
			size = req.Size
		}
		if size == nil {
			respondValidationFields(c, route, map[string]string{"size": "size is required"})
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		cart, err := cartService.Remove(ctx, userID, productID, *size)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		respond(c, http.StatusOK, gin.H{"cart": cart})
	}
}

func ClearCart(cartService *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cart"
		defer handlePanic(c, route)

		userID, ok := currentUser(c, route)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		cart, err := cartService.Clear(ctx, userID)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		respond(c, http.StatusOK, gin.H{"cart": cart})
	}
}

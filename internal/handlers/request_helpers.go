package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/middleware"
	"storefront/internal/payment"
	"storefront/internal/services"
)

const handlerTimeout = 10 * time.Second

func handlePanic(c *gin.Context, route string) {
	if r := recover(); r != nil {
		log.Printf("[%s] panic recovered: %v", route, r)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
	}
}

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), handlerTimeout)
}

func respondWithError(c *gin.Context, status int, route string, message string) {
	log.Printf("[%s] returning error %d: %s", route, status, message)
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

// respond writes the success envelope with payload merged in.
func respond(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

func respondValidationFields(c *gin.Context, route string, fields map[string]string) {
	log.Printf("[%s] validation failed: %v", route, fields)
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": "Validation Error",
		"errors":  fields,
	})
}

func respondValidationError(c *gin.Context, route string, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make(map[string]string, len(validationErrors))
		for _, fieldError := range validationErrors {
			field := lowerCamel(fieldError.Field())
			if _, exists := fields[field]; exists {
				continue
			}
			fields[field] = validationMessage(field, fieldError)
		}
		respondValidationFields(c, route, fields)
		return
	}

	respondValidationFields(c, route, map[string]string{"body": "Invalid request body"})
}

func validationMessage(field string, fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "Invalid email address"
	case "min":
		if fieldError.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", field, fieldError.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fieldError.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fieldError.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fieldError.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fieldError.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

type errorMapping struct {
	target  error
	status  int
	message string
}

var serviceErrors = []errorMapping{
	{services.ErrEmailTaken, http.StatusBadRequest, "Email already registered"},
	{services.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
	{services.ErrWrongPassword, http.StatusUnauthorized, "Current password is incorrect"},
	{services.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{services.ErrProductNotFound, http.StatusNotFound, "Product not found"},
	{services.ErrOrderNotFound, http.StatusNotFound, "Order not found"},
	{services.ErrCartItemNotFound, http.StatusNotFound, "Item not in cart"},
	{services.ErrOutOfStock, http.StatusBadRequest, "Product out of stock"},
	{services.ErrInvalidStatus, http.StatusBadRequest, "Invalid status"},
	{services.ErrInvalidRole, http.StatusBadRequest, "Invalid role"},
	{services.ErrInvalidAmount, http.StatusBadRequest, "Invalid amount"},
	{services.ErrInvalidTransition, http.StatusConflict, "Order cannot move to the requested status"},
	{payment.ErrNotConfigured, http.StatusServiceUnavailable, "Payment gateway unavailable"},
}

// respondServiceError maps domain errors to client responses. Anything it
// does not recognise is logged and collapsed to a 500.
func respondServiceError(c *gin.Context, route string, err error) {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		respondValidationFields(c, route, validationErr.Fields)
		return
	}
	for _, mapping := range serviceErrors {
		if errors.Is(err, mapping.target) {
			respondWithError(c, mapping.status, route, mapping.message)
			return
		}
	}
	log.Printf("[%s] [ERROR] %v", route, err)
	respondWithError(c, http.StatusInternalServerError, route, "Server error")
}

func objectIDParam(c *gin.Context, route, name, notFound string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		respondWithError(c, http.StatusNotFound, route, notFound)
		return primitive.NilObjectID, false
	}
	return id, true
}

func currentUser(c *gin.Context, route string) (primitive.ObjectID, bool) {
	id, ok := middleware.UserIDFrom(c)
	if !ok {
		log.Printf("[%s] [ERROR] userId missing in context", route)
		respondWithError(c, http.StatusUnauthorized, route, "Not authorized")
		return primitive.NilObjectID, false
	}
	return id, true
}

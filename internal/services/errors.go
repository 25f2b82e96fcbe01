package services

import (
	"errors"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrCartItemNotFound   = errors.New("item not in cart")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrOutOfStock         = errors.New("product out of stock")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidTransition  = errors.New("order cannot move to the requested status")
)

// OutOfStockError names the product that blocked a cart add.
type OutOfStockError struct {
	ProductID primitive.ObjectID
	Name      string
}

func (e OutOfStockError) Error() string {
	return "product out of stock: " + e.Name
}

func (e OutOfStockError) Is(target error) bool {
	return target == ErrOutOfStock
}

// ProductNotFoundError carries the id that failed to resolve.
type ProductNotFoundError struct {
	ProductID string
}

func (e ProductNotFoundError) Error() string {
	return "product not found: " + e.ProductID
}

func (e ProductNotFoundError) Is(target error) bool {
	return target == ErrProductNotFound
}

// ValidationError reports per-field input problems.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func invalidField(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// fieldErrors collects validation messages; it returns nil when nothing was
// added.
type fieldErrors map[string]string

func (f fieldErrors) add(field, message string) {
	if _, exists := f[field]; !exists {
		f[field] = message
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}

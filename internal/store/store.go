// Package store holds the persistence contracts for users, products and
// orders, with a MongoDB implementation and an in-memory one for tests.
package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate key")
	// ErrStale is returned by conditional writes when the document exists
	// but no longer matches the expected state.
	ErrStale = errors.New("document state changed")
)

const queryTimeout = 5 * time.Second

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id primitive.ObjectID, update UserUpdate) (models.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// UserUpdate lists the user fields to overwrite. Nil fields are left as is.
type UserUpdate struct {
	FirstName    *string
	LastName     *string
	PasswordHash *string
	Role         *models.Role
	Cart         *[]models.CartLine
	LastLogin    *time.Time
}

func (u UserUpdate) empty() bool {
	return u.FirstName == nil && u.LastName == nil && u.PasswordHash == nil &&
		u.Role == nil && u.Cart == nil && u.LastLogin == nil
}

type ProductStore interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id primitive.ObjectID, update ProductUpdate) (models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ProductFilter narrows product listings. Zero values do not filter.
// Skip and Limit apply only when Limit > 0.
type ProductFilter struct {
	Category   string
	Search     string
	IsNew      bool
	IsFeatured bool
	Skip       int64
	Limit      int64
}

// ProductUpdate lists the product fields to overwrite. Nil fields are left
// as is.
type ProductUpdate struct {
	Name          *string
	Description   *string
	Price         *float64
	OriginalPrice *float64
	Image         *string
	Images        *[]string
	Category      *string
	Brand         *string
	Sizes         *[]float64
	Colors        *[]string
	Features      *[]string
	InStock       *bool
	StockQuantity *int
	IsNew         *bool
	IsFeatured    *bool
	Rating        *float64
}

type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Order, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	Count(ctx context.Context) (int64, error)
	Revenue(ctx context.Context) (float64, error)
	SetPayment(ctx context.Context, id primitive.ObjectID, paymentID string, from, to models.OrderStatus) (models.Order, error)
	SetStatusByOrderID(ctx context.Context, orderID string, status models.OrderStatus) (models.Order, error)
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

package services

import (
	"context"
	"errors"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
	"storefront/internal/store"
)

// CartService edits the caller's own cart. Every mutation rewrites the whole
// cart array; concurrent edits are last write wins.
type CartService struct {
	users    store.UserStore
	products store.ProductStore
}

func NewCartService(users store.UserStore, products store.ProductStore) *CartService {
	return &CartService{users: users, products: products}
}

func (s *CartService) loadCart(ctx context.Context, userID primitive.ObjectID) ([]models.CartLine, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user.Cart, nil
}

func (s *CartService) save(ctx context.Context, userID primitive.ObjectID, lines []models.CartLine) ([]models.CartItem, error) {
	if lines == nil {
		lines = []models.CartLine{}
	}
	user, err := s.users.Update(ctx, userID, store.UserUpdate{Cart: &lines})
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, user.Cart)
}

// resolve swaps product references for product data. Lines whose product
// was deleted are left out.
func (s *CartService) resolve(ctx context.Context, lines []models.CartLine) ([]models.CartItem, error) {
	items := make([]models.CartItem, 0, len(lines))
	for _, line := range lines {
		product, err := s.products.FindByID(ctx, line.Product)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		items = append(items, models.CartItem{Product: product, Size: line.Size, Quantity: line.Quantity})
	}
	return items, nil
}

func (s *CartService) Get(ctx context.Context, userID primitive.ObjectID) ([]models.CartItem, error) {
	lines, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, lines)
}

// Add merges quantity into an existing (product, size) line or appends a new
// one. The product must exist and be in stock.
func (s *CartService) Add(ctx context.Context, userID, productID primitive.ObjectID, size float64, quantity int) ([]models.CartItem, error) {
	line, err := models.NewCartLine(productID, size, quantity)
	if err != nil {
		return nil, invalidField("quantity", "Quantity must be at least 1")
	}

	product, err := s.products.FindByID(ctx, productID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ProductNotFoundError{ProductID: productID.Hex()}
	}
	if err != nil {
		return nil, err
	}
	if !product.InStock {
		return nil, OutOfStockError{ProductID: product.ID, Name: product.Name}
	}

	lines, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	log.Printf("[CART] [INFO] add product=%s size=%v qty=%d user=%s", productID.Hex(), size, quantity, userID.Hex())
	return s.save(ctx, userID, models.MergeCartLine(lines, line))
}

// UpdateQuantity sets the line quantity; zero or less removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID primitive.ObjectID, size float64, quantity int) ([]models.CartItem, error) {
	lines, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if quantity <= 0 {
		updated, _ := models.RemoveCartLine(lines, productID, size)
		return s.save(ctx, userID, updated)
	}

	updated, found := models.SetCartLineQuantity(lines, productID, size, quantity)
	if !found {
		return nil, ErrCartItemNotFound
	}
	return s.save(ctx, userID, updated)
}

func (s *CartService) Remove(ctx context.Context, userID, productID primitive.ObjectID, size float64) ([]models.CartItem, error) {
	lines, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	updated, _ := models.RemoveCartLine(lines, productID, size)
	return s.save(ctx, userID, updated)
}

func (s *CartService) Clear(ctx context.Context, userID primitive.ObjectID) ([]models.CartItem, error) {
	return s.save(ctx, userID, []models.CartLine{})
}

package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"
)

type cartResponse struct {
	Cart []CartItem `json:"cart"`
}

func (c *Client) Cart(ctx context.Context) ([]CartItem, error) {
	var resp cartResponse
	err := c.do(ctx, http.MethodGet, "/cart", nil, nil, &resp)
	return resp.Cart, err
}

func (c *Client) AddToCart(ctx context.Context, productID string, size float64, quantity int) ([]CartItem, error) {
	var resp cartResponse
	body := map[string]interface{}{"productId": productID, "size": size, "quantity": quantity}
	err := c.do(ctx, http.MethodPost, "/cart", nil, body, &resp)
	return resp.Cart, err
}

// UpdateCartItem sets the line quantity; zero or less removes the line.
func (c *Client) UpdateCartItem(ctx context.Context, productID string, size float64, quantity int) ([]CartItem, error) {
	var resp cartResponse
	body := map[string]interface{}{"size": size, "quantity": quantity}
	err := c.do(ctx, http.MethodPut, "/cart/"+url.PathEscape(productID), nil, body, &resp)
	return resp.Cart, err
}

func (c *Client) RemoveFromCart(ctx context.Context, productID string, size float64) ([]CartItem, error) {
	var resp cartResponse
	query := url.Values{"size": {strconv.FormatFloat(size, 'f', -1, 64)}}
	err := c.do(ctx, http.MethodDelete, "/cart/"+url.PathEscape(productID), query, nil, &resp)
	return resp.Cart, err
}

func (c *Client) ClearCart(ctx context.Context) ([]CartItem, error) {
	var resp cartResponse
	err := c.do(ctx, http.MethodDelete, "/cart", nil, nil, &resp)
	return resp.Cart, err
}

// CartState mirrors the caller's server-side cart. Every mutation replaces
// the local copy with the cart the server returns; a failed call leaves it
// untouched.
type CartState struct {
	client *Client

	mu    sync.RWMutex
	items []CartItem
}

func NewCartState(c *Client) *CartState {
	return &CartState{client: c}
}

func (s *CartState) replace(items []CartItem, err error) error {
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

func (s *CartState) Refresh(ctx context.Context) error {
	return s.replace(s.client.Cart(ctx))
}

func (s *CartState) Add(ctx context.Context, productID string, size float64, quantity int) error {
	return s.replace(s.client.AddToCart(ctx, productID, size, quantity))
}

func (s *CartState) Update(ctx context.Context, productID string, size float64, quantity int) error {
	return s.replace(s.client.UpdateCartItem(ctx, productID, size, quantity))
}

func (s *CartState) Remove(ctx context.Context, productID string, size float64) error {
	return s.replace(s.client.RemoveFromCart(ctx, productID, size))
}

func (s *CartState) Clear(ctx context.Context) error {
	return s.replace(s.client.ClearCart(ctx))
}

// Reset empties the mirror without a server call, e.g. after logout.
func (s *CartState) Reset() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
}

func (s *CartState) Items() []CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]CartItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *CartState) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

func (s *CartState) TotalPrice() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(decimal.NewFromFloat(item.Product.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total.Round(2).InexactFloat64()
}

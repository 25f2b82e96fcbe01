package client

import (
	"context"
	"net/http"
	"net/url"
)

type OrderLine struct {
	ProductID string  `json:"productId"`
	Size      float64 `json:"size"`
	Quantity  int     `json:"quantity"`
}

type OrderRequest struct {
	Items           []OrderLine `json:"items"`
	ShippingAddress string      `json:"shippingAddress"`
	PaymentMethod   string      `json:"paymentMethod,omitempty"`
}

// PaymentHandle is what the checkout widget needs. Amount is in minor
// currency units.
type PaymentHandle struct {
	RazorpayOrderID string `json:"razorpayOrderId"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	Receipt         string `json:"receipt"`
	OrderID         string `json:"orderId,omitempty"`
	Key             string `json:"key,omitempty"`
}

type orderResponse struct {
	Order Order `json:"order"`
}

type ordersResponse struct {
	Orders []Order `json:"orders"`
}

// OrderLinesFromCart turns the mirrored cart into order lines.
func OrderLinesFromCart(items []CartItem) []OrderLine {
	lines := make([]OrderLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, OrderLine{
			ProductID: item.Product.ID.Hex(),
			Size:      item.Size,
			Quantity:  item.Quantity,
		})
	}
	return lines
}

func (c *Client) CreateOrder(ctx context.Context, in OrderRequest) (Order, error) {
	var resp orderResponse
	err := c.do(ctx, http.MethodPost, "/orders", nil, in, &resp)
	return resp.Order, err
}

// CreatePayment opens a gateway order. With orderID set the server charges
// the stored order total and ignores amount.
func (c *Client) CreatePayment(ctx context.Context, amount float64, orderID string) (PaymentHandle, error) {
	body := map[string]interface{}{"amount": amount}
	if orderID != "" {
		body["orderId"] = orderID
	}
	var handle PaymentHandle
	err := c.do(ctx, http.MethodPost, "/orders/create-payment", nil, body, &handle)
	return handle, err
}

func (c *Client) ConfirmPayment(ctx context.Context, id, paymentID string) (Order, error) {
	var resp orderResponse
	body := map[string]string{"paymentId": paymentID}
	err := c.do(ctx, http.MethodPatch, "/orders/"+url.PathEscape(id)+"/payment", nil, body, &resp)
	return resp.Order, err
}

func (c *Client) Orders(ctx context.Context) ([]Order, error) {
	var resp ordersResponse
	err := c.do(ctx, http.MethodGet, "/orders", nil, nil, &resp)
	return resp.Orders, err
}

func (c *Client) Order(ctx context.Context, id string) (Order, error) {
	var resp orderResponse
	err := c.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(id), nil, nil, &resp)
	return resp.Order, err
}

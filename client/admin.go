package client

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) Stats(ctx context.Context) (DashboardStats, error) {
	var resp struct {
		Stats DashboardStats `json:"stats"`
	}
	err := c.do(ctx, http.MethodGet, "/admin/stats", nil, nil, &resp)
	return resp.Stats, err
}

func (c *Client) Users(ctx context.Context) ([]User, error) {
	var resp struct {
		Users []User `json:"users"`
	}
	err := c.do(ctx, http.MethodGet, "/admin/users", nil, nil, &resp)
	return resp.Users, err
}

func (c *Client) AllOrders(ctx context.Context) ([]AdminOrder, error) {
	var resp struct {
		Orders []AdminOrder `json:"orders"`
	}
	err := c.do(ctx, http.MethodGet, "/admin/orders", nil, nil, &resp)
	return resp.Orders, err
}

func (c *Client) AllProducts(ctx context.Context) ([]Product, error) {
	var resp productsResponse
	err := c.do(ctx, http.MethodGet, "/admin/products", nil, nil, &resp)
	return resp.Products, err
}

// UpdateOrderStatus addresses the order by its human-readable orderId.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID, status string) (Order, error) {
	var resp orderResponse
	body := map[string]string{"status": status}
	err := c.do(ctx, http.MethodPatch, "/orders/"+url.PathEscape(orderID)+"/status", nil, body, &resp)
	return resp.Order, err
}

func (c *Client) UpdateUserRole(ctx context.Context, userID, role string) (User, error) {
	var resp userResponse
	body := map[string]string{"role": role}
	err := c.do(ctx, http.MethodPatch, "/admin/users/"+url.PathEscape(userID)+"/role", nil, body, &resp)
	return resp.User, err
}

func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodDelete, "/admin/users/"+url.PathEscape(userID), nil, nil, nil)
}

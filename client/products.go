package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

type ProductQuery struct {
	Category   string
	Search     string
	IsNew      bool
	IsFeatured bool
	Page       int
	Limit      int
}

func (q ProductQuery) values() url.Values {
	values := url.Values{}
	if q.Category != "" {
		values.Set("category", q.Category)
	}
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	if q.IsNew {
		values.Set("isNew", "true")
	}
	if q.IsFeatured {
		values.Set("isFeatured", "true")
	}
	if q.Page > 0 && q.Limit > 0 {
		values.Set("page", strconv.Itoa(q.Page))
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	return values
}

// ProductList is a listing page. Source is "cache" or "db".
type ProductList struct {
	Products []Product `json:"products"`
	Source   string           `json:"source"`
	Page     int              `json:"page,omitempty"`
	Limit    int              `json:"limit,omitempty"`
}

type ProductResult struct {
	Product Product `json:"product"`
	Source  string         `json:"source"`
}

type ProductInput struct {
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	OriginalPrice float64   `json:"originalPrice,omitempty"`
	Image         string    `json:"image,omitempty"`
	Images        []string  `json:"images,omitempty"`
	Category      string    `json:"category"`
	Brand         string    `json:"brand"`
	Sizes         []float64 `json:"sizes,omitempty"`
	Colors        []string  `json:"colors,omitempty"`
	Features      []string  `json:"features,omitempty"`
	InStock       *bool     `json:"inStock,omitempty"`
	StockQuantity *int      `json:"stockQuantity,omitempty"`
	IsNew         bool      `json:"isNew,omitempty"`
	IsFeatured    bool      `json:"isFeatured,omitempty"`
	Rating        float64   `json:"rating,omitempty"`
}

// ProductPatch sends only the non-nil fields.
type ProductPatch struct {
	Name          *string    `json:"name,omitempty"`
	Description   *string    `json:"description,omitempty"`
	Price         *float64   `json:"price,omitempty"`
	OriginalPrice *float64   `json:"originalPrice,omitempty"`
	Image         *string    `json:"image,omitempty"`
	Images        *[]string  `json:"images,omitempty"`
	Category      *string    `json:"category,omitempty"`
	Brand         *string    `json:"brand,omitempty"`
	Sizes         *[]float64 `json:"sizes,omitempty"`
	Colors        *[]string  `json:"colors,omitempty"`
	Features      *[]string  `json:"features,omitempty"`
	InStock       *bool      `json:"inStock,omitempty"`
	StockQuantity *int       `json:"stockQuantity,omitempty"`
	IsNew         *bool      `json:"isNew,omitempty"`
	IsFeatured    *bool      `json:"isFeatured,omitempty"`
	Rating        *float64   `json:"rating,omitempty"`
}

type productResponse struct {
	Product Product `json:"product"`
}

type productsResponse struct {
	Products []Product `json:"products"`
}

func (c *Client) Products(ctx context.Context, q ProductQuery) (ProductList, error) {
	var list ProductList
	err := c.do(ctx, http.MethodGet, "/products", q.values(), nil, &list)
	return list, err
}

func (c *Client) Product(ctx context.Context, id string) (ProductResult, error) {
	var result ProductResult
	err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, nil, &result)
	return result, err
}

func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (Product, error) {
	var resp productResponse
	err := c.do(ctx, http.MethodPost, "/products", nil, in, &resp)
	return resp.Product, err
}

func (c *Client) UpdateProduct(ctx context.Context, id string, patch ProductPatch) (Product, error) {
	var resp productResponse
	err := c.do(ctx, http.MethodPut, "/products/"+url.PathEscape(id), nil, patch, &resp)
	return resp.Product, err
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), nil, nil, nil)
}

// Package payment creates checkout handles with the external payment
// gateway.
package payment

import (
	"context"
	"errors"
)

//go:generate mockgen -source=gateway.go -destination=mock_gateway.go -package=payment

var ErrNotConfigured = errors.New("payment gateway is not configured")

// OrderRequest is a gateway order in minor currency units.
type OrderRequest struct {
	AmountMinor int64
	Currency    string
	Receipt     string
}

// GatewayOrder is the handle the client uses to open the checkout widget.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status,omitempty"`
}

type Gateway interface {
	CreateOrder(ctx context.Context, req OrderRequest) (GatewayOrder, error)
}

// Disabled is used when no gateway credentials are configured.
type Disabled struct{}

func (Disabled) CreateOrder(context.Context, OrderRequest) (GatewayOrder, error) {
	return GatewayOrder{}, ErrNotConfigured
}

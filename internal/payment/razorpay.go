package payment

import (
	"context"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

type orderCreator interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

type Razorpay struct {
	orders orderCreator
}

func NewRazorpay(keyID, keySecret string) *Razorpay {
	client := razorpay.NewClient(keyID, keySecret)
	return &Razorpay{orders: client.Order}
}

func (r *Razorpay) CreateOrder(ctx context.Context, req OrderRequest) (GatewayOrder, error) {
	if err := ctx.Err(); err != nil {
		return GatewayOrder{}, err
	}

	body, err := r.orders.Create(map[string]interface{}{
		"amount":   req.AmountMinor,
		"currency": req.Currency,
		"receipt":  req.Receipt,
	}, nil)
	if err != nil {
		return GatewayOrder{}, fmt.Errorf("razorpay create order: %w", err)
	}

	id, _ := body["id"].(string)
	if id == "" {
		return GatewayOrder{}, fmt.Errorf("razorpay create order: response has no id")
	}

	order := GatewayOrder{
		ID:       id,
		Amount:   req.AmountMinor,
		Currency: req.Currency,
		Receipt:  req.Receipt,
	}
	if amount, ok := body["amount"].(float64); ok {
		order.Amount = int64(amount)
	}
	if currency, ok := body["currency"].(string); ok && currency != "" {
		order.Currency = currency
	}
	if receipt, ok := body["receipt"].(string); ok && receipt != "" {
		order.Receipt = receipt
	}
	if status, ok := body["status"].(string); ok {
		order.Status = status
	}
	return order, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/metrics"
	"storefront/internal/models"
	"storefront/internal/payment"
	"storefront/internal/store"
)

const (
	defaultPaymentMethod = "razorpay"
	orderIDAttempts      = 3
)

type OrderLineInput struct {
	ProductID string
	Size      float64
	Quantity  int
}

type CreateOrderInput struct {
	Items           []OrderLineInput
	ShippingAddress string
	PaymentMethod   string
}

// PaymentRequest asks for a gateway checkout handle. When OrderID names one
// of the caller's orders the amount comes from the stored total and Amount
// is ignored.
type PaymentRequest struct {
	Amount  float64
	OrderID string
}

type PaymentHandle struct {
	payment.GatewayOrder
	OrderID string `json:"orderId,omitempty"`
}

type OrderService struct {
	orders   store.OrderStore
	users    store.UserStore
	products store.ProductStore
	gateway  payment.Gateway
	currency string
	metrics  *metrics.AppMetrics
	now      func() time.Time
	newID    func(time.Time) string
}

func NewOrderService(orders store.OrderStore, users store.UserStore, products store.ProductStore, gateway payment.Gateway, currency string, m *metrics.AppMetrics) *OrderService {
	if gateway == nil {
		gateway = payment.Disabled{}
	}
	if currency == "" {
		currency = "INR"
	}
	return &OrderService{
		orders:   orders,
		users:    users,
		products: products,
		gateway:  gateway,
		currency: currency,
		metrics:  m,
		now:      time.Now,
		newID:    NewOrderID,
	}
}

// NewOrderID builds "ORD-<unix ms><9 uppercase alphanumerics>". It is meant
// for humans; the unique index on orderId catches the rare collision.
func NewOrderID(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:9]
	return "ORD-" + strconv.FormatInt(now.UnixMilli(), 10) + suffix
}

func validateOrderInput(in CreateOrderInput) error {
	problems := fieldErrors{}
	if len(in.Items) == 0 {
		problems.add("items", "At least one item is required")
	}
	for i, item := range in.Items {
		if _, err := primitive.ObjectIDFromHex(item.ProductID); err != nil {
			problems.add(fmt.Sprintf("items.%d.productId", i), "Invalid product id")
		}
		if item.Quantity < 1 {
			problems.add(fmt.Sprintf("items.%d.quantity", i), "Quantity must be at least 1")
		}
	}
	if strings.TrimSpace(in.ShippingAddress) == "" {
		problems.add("shippingAddress", "Shipping address is required")
	}
	return problems.err()
}

// Create prices every line from the current product, never from the
// client, and stores the order as pending.
func (s *OrderService) Create(ctx context.Context, userID primitive.ObjectID, in CreateOrderInput) (models.Order, error) {
	if err := validateOrderInput(in); err != nil {
		return models.Order{}, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return models.Order{}, ErrUserNotFound
	}
	if err != nil {
		return models.Order{}, err
	}

	items := make([]models.OrderItem, 0, len(in.Items))
	total := decimal.Zero
	for _, line := range in.Items {
		productID, _ := primitive.ObjectIDFromHex(line.ProductID)
		product, err := s.products.FindByID(ctx, productID)
		if errors.Is(err, store.ErrNotFound) {
			return models.Order{}, ProductNotFoundError{ProductID: line.ProductID}
		}
		if err != nil {
			return models.Order{}, err
		}

		price := decimal.NewFromFloat(product.Price)
		total = total.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		items = append(items, models.OrderItem{
			ProductID: product.ID.Hex(),
			Name:      product.Name,
			Size:      line.Size,
			Quantity:  line.Quantity,
			Price:     product.Price,
			Image:     product.MainImage(),
		})
	}

	paymentMethod := strings.TrimSpace(in.PaymentMethod)
	if paymentMethod == "" {
		paymentMethod = defaultPaymentMethod
	}

	now := s.now()
	order := models.Order{
		User:            user.ID,
		UserEmail:       user.Email,
		UserName:        user.FullName(),
		Items:           items,
		Total:           total.Round(2).InexactFloat64(),
		ShippingAddress: strings.TrimSpace(in.ShippingAddress),
		PaymentMethod:   paymentMethod,
		Status:          models.StatusPending,
		CreatedAt:       now,
	}

	for attempt := 1; ; attempt++ {
		order.ID = primitive.NilObjectID
		order.OrderID = s.newID(now)
		err = s.orders.Create(ctx, &order)
		if !errors.Is(err, store.ErrDuplicate) || attempt == orderIDAttempts {
			break
		}
		log.Println("[ORDER] [WARN] orderId collision, regenerating:", order.OrderID)
	}
	if err != nil {
		return models.Order{}, err
	}

	s.metrics.RecordOrder(ctx, order.Total, order.PaymentMethod)
	log.Printf("[ORDER] [INFO] order %s created for user %s total=%.2f", order.OrderID, userID.Hex(), order.Total)
	return order, nil
}

// CreatePayment opens a gateway order sized in minor currency units.
func (s *OrderService) CreatePayment(ctx context.Context, userID primitive.ObjectID, req PaymentRequest) (PaymentHandle, error) {
	amount := decimal.NewFromFloat(req.Amount)
	handle := PaymentHandle{}

	if strings.TrimSpace(req.OrderID) != "" {
		id, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.OrderID))
		if err != nil {
			return PaymentHandle{}, ErrOrderNotFound
		}
		order, err := s.GetOwn(ctx, userID, id)
		if err != nil {
			return PaymentHandle{}, err
		}
		if order.Status != models.StatusPending {
			return PaymentHandle{}, ErrInvalidTransition
		}
		amount = decimal.NewFromFloat(order.Total)
		handle.OrderID = order.ID.Hex()
	}

	if amount.LessThan(decimal.NewFromInt(1)) {
		return PaymentHandle{}, ErrInvalidAmount
	}

	minor := amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	gatewayOrder, err := s.gateway.CreateOrder(ctx, payment.OrderRequest{
		AmountMinor: minor,
		Currency:    s.currency,
		Receipt:     "receipt_" + strconv.FormatInt(s.now().UnixMilli(), 10),
	})
	if err != nil {
		return PaymentHandle{}, err
	}

	handle.GatewayOrder = gatewayOrder
	log.Printf("[ORDER] [INFO] payment order %s created amount=%d %s", gatewayOrder.ID, minor, s.currency)
	return handle, nil
}

func (s *OrderService) ListOwn(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// GetOwn hides other users' orders behind ErrOrderNotFound.
func (s *OrderService) GetOwn(ctx context.Context, userID, id primitive.ObjectID) (models.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return models.Order{}, ErrOrderNotFound
	}
	if err != nil {
		return models.Order{}, err
	}
	if order.User != userID {
		return models.Order{}, ErrOrderNotFound
	}
	return order, nil
}

// ConfirmPayment attaches the gateway payment reference and moves a pending
// order to processing. Repeating the call with the same reference is a
// no-op.
func (s *OrderService) ConfirmPayment(ctx context.Context, userID, id primitive.ObjectID, paymentID string) (models.Order, error) {
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return models.Order{}, invalidField("paymentId", "Payment id is required")
	}

	order, err := s.GetOwn(ctx, userID, id)
	if err != nil {
		return models.Order{}, err
	}

	switch {
	case order.Status == models.StatusPending:
	case order.Status == models.StatusProcessing && order.PaymentID == paymentID:
		return order, nil
	default:
		return models.Order{}, ErrInvalidTransition
	}

	updated, err := s.orders.SetPayment(ctx, id, paymentID, models.StatusPending, models.StatusProcessing)
	if errors.Is(err, store.ErrNotFound) {
		return models.Order{}, ErrOrderNotFound
	}
	if errors.Is(err, store.ErrStale) {
		return models.Order{}, ErrInvalidTransition
	}
	if err != nil {
		return models.Order{}, err
	}

	log.Printf("[ORDER] [INFO] payment %s confirmed for order %s", paymentID, updated.OrderID)
	return updated, nil
}

// UpdateStatus is the admin transition, addressed by the human-readable
// order id. Pending cannot be re-entered.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, status string) (models.Order, error) {
	next, err := models.ParseOrderStatus(status)
	if err != nil || !next.AdminSettable() {
		return models.Order{}, ErrInvalidStatus
	}

	order, err := s.orders.SetStatusByOrderID(ctx, strings.TrimSpace(orderID), next)
	if errors.Is(err, store.ErrNotFound) {
		return models.Order{}, ErrOrderNotFound
	}
	if err != nil {
		return models.Order{}, err
	}

	log.Printf("[ORDER] [INFO] order status updated: %s -> %s", order.OrderID, next)
	return order, nil
}

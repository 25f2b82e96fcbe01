package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
)

// Memory keeps users, products and orders in process. It backs the tests and
// local runs without a database.
type Memory struct {
	mu       sync.RWMutex
	users    map[primitive.ObjectID]models.User
	products map[primitive.ObjectID]models.Product
	orders   map[primitive.ObjectID]models.Order
}

func NewMemory() *Memory {
	return &Memory{
		users:    make(map[primitive.ObjectID]models.User),
		products: make(map[primitive.ObjectID]models.Product),
		orders:   make(map[primitive.ObjectID]models.Order),
	}
}

func (m *Memory) Users() UserStore       { return memoryUsers{m} }
func (m *Memory) Products() ProductStore { return memoryProducts{m} }
func (m *Memory) Orders() OrderStore     { return memoryOrders{m} }

type memoryUsers struct{ m *Memory }

func cloneUser(u models.User) models.User {
	u.Cart = append([]models.CartLine{}, u.Cart...)
	return u
}

func (s memoryUsers) Create(_ context.Context, user *models.User) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	for _, existing := range s.m.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.Cart == nil {
		user.Cart = []models.CartLine{}
	}
	s.m.users[user.ID] = cloneUser(*user)
	return nil
}

func (s memoryUsers) FindByID(_ context.Context, id primitive.ObjectID) (models.User, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	user, ok := s.m.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return cloneUser(user), nil
}

func (s memoryUsers) FindByEmail(_ context.Context, email string) (models.User, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	email = strings.TrimSpace(email)
	for _, user := range s.m.users {
		if strings.EqualFold(user.Email, email) {
			return cloneUser(user), nil
		}
	}
	return models.User{}, ErrNotFound
}

func (s memoryUsers) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if user, ok := s.m.users[id]; ok {
			users = append(users, cloneUser(user))
		}
	}
	return users, nil
}

func (s memoryUsers) List(_ context.Context) ([]models.User, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	users := make([]models.User, 0, len(s.m.users))
	for _, user := range s.m.users {
		users = append(users, cloneUser(user))
	}
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

func (s memoryUsers) Count(_ context.Context) (int64, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	return int64(len(s.m.users)), nil
}

func (s memoryUsers) Update(_ context.Context, id primitive.ObjectID, update UserUpdate) (models.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	user, ok := s.m.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	if update.empty() {
		return cloneUser(user), nil
	}
	if update.FirstName != nil {
		user.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		user.LastName = *update.LastName
	}
	if update.PasswordHash != nil {
		user.PasswordHash = *update.PasswordHash
	}
	if update.Role != nil {
		user.Role = *update.Role
	}
	if update.Cart != nil {
		user.Cart = append([]models.CartLine{}, (*update.Cart)...)
	}
	if update.LastLogin != nil {
		lastLogin := *update.LastLogin
		user.LastLogin = &lastLogin
	}
	user.UpdatedAt = time.Now()
	s.m.users[id] = user
	return cloneUser(user), nil
}

func (s memoryUsers) Delete(_ context.Context, id primitive.ObjectID) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	if _, ok := s.m.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.m.users, id)
	return nil
}

type memoryProducts struct{ m *Memory }

func matchesProduct(p models.Product, filter ProductFilter) bool {
	if category := strings.TrimSpace(filter.Category); category != "" && p.Category != category {
		return false
	}
	if search := strings.TrimSpace(filter.Search); search != "" &&
		!strings.Contains(strings.ToLower(p.Name), strings.ToLower(search)) {
		return false
	}
	if filter.IsNew && !p.IsNew {
		return false
	}
	if filter.IsFeatured && !p.IsFeatured {
		return false
	}
	return true
}

func (s memoryProducts) Create(_ context.Context, product *models.Product) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	product.Normalize()
	s.m.products[product.ID] = *product
	return nil
}

func (s memoryProducts) FindByID(_ context.Context, id primitive.ObjectID) (models.Product, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	product, ok := s.m.products[id]
	if !ok {
		return models.Product{}, ErrNotFound
	}
	return product, nil
}

func (s memoryProducts) List(_ context.Context, filter ProductFilter) ([]models.Product, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	products := make([]models.Product, 0, len(s.m.products))
	for _, product := range s.m.products {
		if matchesProduct(product, filter) {
			products = append(products, product)
		}
	}
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})

	if filter.Limit > 0 {
		start := filter.Skip
		if start > int64(len(products)) {
			start = int64(len(products))
		}
		end := start + filter.Limit
		if end > int64(len(products)) {
			end = int64(len(products))
		}
		products = products[start:end]
	}
	return products, nil
}

func (s memoryProducts) Count(_ context.Context) (int64, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	return int64(len(s.m.products)), nil
}

func (s memoryProducts) Update(_ context.Context, id primitive.ObjectID, update ProductUpdate) (models.Product, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	p, ok := s.m.products[id]
	if !ok {
		return models.Product{}, ErrNotFound
	}
	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Description != nil {
		p.Description = *update.Description
	}
	if update.Price != nil {
		p.Price = *update.Price
	}
	if update.OriginalPrice != nil {
		p.OriginalPrice = *update.OriginalPrice
	}
	if update.Image != nil {
		p.Image = *update.Image
	}
	if update.Images != nil {
		p.Images = models.StringList(*update.Images)
	}
	if update.Category != nil {
		p.Category = *update.Category
	}
	if update.Brand != nil {
		p.Brand = *update.Brand
	}
	if update.Sizes != nil {
		p.Sizes = *update.Sizes
	}
	if update.Colors != nil {
		p.Colors = models.StringList(*update.Colors)
	}
	if update.Features != nil {
		p.Features = models.StringList(*update.Features)
	}
	if update.InStock != nil {
		p.InStock = *update.InStock
	}
	if update.StockQuantity != nil {
		p.StockQuantity = *update.StockQuantity
	}
	if update.IsNew != nil {
		p.IsNew = *update.IsNew
	}
	if update.IsFeatured != nil {
		p.IsFeatured = *update.IsFeatured
	}
	if update.Rating != nil {
		p.Rating = *update.Rating
	}
	p.UpdatedAt = time.Now()
	p.Normalize()
	s.m.products[id] = p
	return p, nil
}

func (s memoryProducts) Delete(_ context.Context, id primitive.ObjectID) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	if _, ok := s.m.products[id]; !ok {
		return ErrNotFound
	}
	delete(s.m.products, id)
	return nil
}

type memoryOrders struct{ m *Memory }

func cloneOrder(o models.Order) models.Order {
	o.Items = append([]models.OrderItem{}, o.Items...)
	return o
}

func (s memoryOrders) Create(_ context.Context, order *models.Order) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	for _, existing := range s.m.orders {
		if existing.OrderID == order.OrderID {
			return ErrDuplicate
		}
	}
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	s.m.orders[order.ID] = cloneOrder(*order)
	return nil
}

func (s memoryOrders) FindByID(_ context.Context, id primitive.ObjectID) (models.Order, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	order, ok := s.m.orders[id]
	if !ok {
		return models.Order{}, ErrNotFound
	}
	return cloneOrder(order), nil
}

func (s memoryOrders) list(keep func(models.Order) bool) []models.Order {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	orders := make([]models.Order, 0)
	for _, order := range s.m.orders {
		if keep(order) {
			orders = append(orders, cloneOrder(order))
		}
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders
}

func (s memoryOrders) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return s.list(func(o models.Order) bool { return o.User == userID }), nil
}

func (s memoryOrders) ListAll(_ context.Context) ([]models.Order, error) {
	return s.list(func(models.Order) bool { return true }), nil
}

func (s memoryOrders) Count(_ context.Context) (int64, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	return int64(len(s.m.orders)), nil
}

func (s memoryOrders) Revenue(_ context.Context) (float64, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	var total float64
	for _, order := range s.m.orders {
		if order.Status != models.StatusCancelled {
			total += order.Total
		}
	}
	return total, nil
}

func (s memoryOrders) SetPayment(_ context.Context, id primitive.ObjectID, paymentID string, from, to models.OrderStatus) (models.Order, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	order, ok := s.m.orders[id]
	if !ok {
		return models.Order{}, ErrNotFound
	}
	if order.Status != from {
		return models.Order{}, ErrStale
	}
	order.PaymentID = paymentID
	order.Status = to
	s.m.orders[id] = order
	return cloneOrder(order), nil
}

func (s memoryOrders) SetStatusByOrderID(_ context.Context, orderID string, status models.OrderStatus) (models.Order, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	for id, order := range s.m.orders {
		if order.OrderID == orderID {
			order.Status = status
			s.m.orders[id] = order
			return cloneOrder(order), nil
		}
	}
	return models.Order{}, ErrNotFound
}

func (s memoryOrders) DeleteByUser(_ context.Context, userID primitive.ObjectID) (int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	var deleted int64
	for id, order := range s.m.orders {
		if order.User == userID {
			delete(s.m.orders, id)
			deleted++
		}
	}
	return deleted, nil
}

package services

import (
	"context"
	"errors"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"storefront/internal/models"
	"storefront/internal/store"
)

type AdminService struct {
	users    store.UserStore
	orders   store.OrderStore
	products store.ProductStore
}

func NewAdminService(users store.UserStore, orders store.OrderStore, products store.ProductStore) *AdminService {
	return &AdminService{users: users, orders: orders, products: products}
}

// Stats runs the four dashboard queries concurrently. Order count includes
// cancelled orders; revenue does not.
func (s *AdminService) Stats(ctx context.Context) (models.DashboardStats, error) {
	var stats models.DashboardStats
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.users.Count(ctx)
		stats.TotalUsers = n
		return err
	})
	g.Go(func() error {
		n, err := s.orders.Count(ctx)
		stats.TotalOrders = n
		return err
	})
	g.Go(func() error {
		n, err := s.products.Count(ctx)
		stats.TotalProducts = n
		return err
	})
	g.Go(func() error {
		revenue, err := s.orders.Revenue(ctx)
		stats.TotalRevenue = revenue
		return err
	})

	if err := g.Wait(); err != nil {
		return models.DashboardStats{}, err
	}
	return stats, nil
}

func (s *AdminService) Users(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// Orders lists every order newest first with its purchaser attached.
func (s *AdminService) Orders(ctx context.Context) ([]models.AdminOrder, error) {
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[primitive.ObjectID]struct{}, len(orders))
	ids := make([]primitive.ObjectID, 0, len(orders))
	for _, order := range orders {
		if _, ok := seen[order.User]; ok {
			continue
		}
		seen[order.User] = struct{}{}
		ids = append(ids, order.User)
	}

	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	purchasers := make(map[primitive.ObjectID]*models.Purchaser, len(users))
	for _, user := range users {
		purchasers[user.ID] = &models.Purchaser{
			ID:        user.ID.Hex(),
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Email:     user.Email,
		}
	}

	result := make([]models.AdminOrder, 0, len(orders))
	for _, order := range orders {
		result = append(result, models.AdminOrder{Order: order, Purchaser: purchasers[order.User]})
	}
	return result, nil
}

func (s *AdminService) Products(ctx context.Context) ([]models.Product, error) {
	return s.products.List(ctx, store.ProductFilter{})
}

func (s *AdminService) UpdateUserRole(ctx context.Context, userID primitive.ObjectID, role string) (models.User, error) {
	parsed, err := models.ParseRole(role)
	if err != nil {
		return models.User{}, ErrInvalidRole
	}

	user, err := s.users.Update(ctx, userID, store.UserUpdate{Role: &parsed})
	if errors.Is(err, store.ErrNotFound) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, err
	}

	log.Printf("[ADMIN] [INFO] user %s role set to %s", user.Email, parsed)
	return user, nil
}

// DeleteUser removes the user and every order they own.
func (s *AdminService) DeleteUser(ctx context.Context, userID primitive.ObjectID) error {
	return deleteUserCascade(ctx, s.users, s.orders, userID)
}

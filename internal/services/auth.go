package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/auth"
	"storefront/internal/models"
	"storefront/internal/store"
)

const defaultBcryptCost = 12

type AuthService struct {
	users      store.UserStore
	orders     store.OrderStore
	tokens     *auth.Tokens
	bcryptCost int
	now        func() time.Time
}

type AuthOption func(*AuthService)

// WithBcryptCost overrides the hashing cost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) AuthOption {
	return func(s *AuthService) { s.bcryptCost = cost }
}

func NewAuthService(users store.UserStore, orders store.OrderStore, tokens *auth.Tokens, opts ...AuthOption) *AuthService {
	s := &AuthService{
		users:      users,
		orders:     orders,
		tokens:     tokens,
		bcryptCost: defaultBcryptCost,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Session is what register and login hand back to the client.
type Session struct {
	Token string         `json:"token"`
	User  models.Profile `json:"user"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (Session, error) {
	email := normalizeEmail(in.Email)

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return Session{}, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return Session{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := &models.User{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		Cart:         []models.CartLine{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return Session{}, ErrEmailTaken
		}
		return Session{}, err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}

	log.Println("[AUTH] [INFO] user registered:", user.Email)
	return Session{Token: token, User: user.Profile()}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (Session, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Println("[AUTH] [ERROR] login invalid credentials for user")
		return Session{}, ErrInvalidCredentials
	}

	now := s.now()
	if _, err := s.users.Update(ctx, user.ID, store.UserUpdate{LastLogin: &now}); err != nil {
		log.Println("[AUTH] [ERROR] lastLogin update failed:", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}

	log.Println("[AUTH] [INFO] user login succeeded:", user.Email)
	return Session{Token: token, User: user.Profile()}, nil
}

func (s *AuthService) Me(ctx context.Context, userID primitive.ObjectID) (models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

type ProfileUpdate struct {
	FirstName *string
	LastName  *string
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, in ProfileUpdate) (models.User, error) {
	var update store.UserUpdate
	problems := fieldErrors{}

	if in.FirstName != nil {
		name := strings.TrimSpace(*in.FirstName)
		if len(name) < 2 {
			problems.add("firstName", "First name must be at least 2 characters")
		}
		update.FirstName = &name
	}
	if in.LastName != nil {
		name := strings.TrimSpace(*in.LastName)
		if len(name) < 2 {
			problems.add("lastName", "Last name must be at least 2 characters")
		}
		update.LastName = &name
	}
	if err := problems.err(); err != nil {
		return models.User{}, err
	}
	if update.FirstName == nil && update.LastName == nil {
		return models.User{}, invalidField("profile", "Nothing to update")
	}

	user, err := s.users.Update(ctx, userID, update)
	if errors.Is(err, store.ErrNotFound) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

func (s *AuthService) ChangePassword(ctx context.Context, userID primitive.ObjectID, current, next string) error {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	hashed := string(hash)
	if _, err := s.users.Update(ctx, userID, store.UserUpdate{PasswordHash: &hashed}); err != nil {
		return err
	}

	log.Println("[AUTH] [INFO] password changed for user:", user.Email)
	return nil
}

func (s *AuthService) DeleteAccount(ctx context.Context, userID primitive.ObjectID) error {
	return deleteUserCascade(ctx, s.users, s.orders, userID)
}

// deleteUserCascade removes the user's orders before the user so no order
// outlives its owner.
func deleteUserCascade(ctx context.Context, users store.UserStore, orders store.OrderStore, userID primitive.ObjectID) error {
	if _, err := users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	deleted, err := orders.DeleteByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("delete orders: %w", err)
	}

	if err := users.Delete(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	log.Printf("[AUTH] [INFO] user %s deleted with %d orders", userID.Hex(), deleted)
	return nil
}

// Command seed loads the demo catalog and makes sure an admin account
// exists.
package main

import (
	"context"
	_ "embed"
	"errors"
	"flag"
	"io"
	"log"
	"os"
	"time"

	"github.com/goccy/go-json"

	"storefront/internal/auth"
	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/models"
	"storefront/internal/services"
	"storefront/internal/store"
)

//go:embed catalog.json
var catalogJSON []byte

func main() {
	reset := flag.Bool("reset", true, "delete existing products before seeding")
	adminEmail := flag.String("admin-email", os.Getenv("ADMIN_EMAIL"), "admin account email")
	adminPassword := flag.String("admin-password", os.Getenv("ADMIN_PASSWORD"), "admin account password")
	flag.Parse()

	config.Load()
	cfg := config.AppEnv

	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.DBName)
	if err := database.EnsureIndexes(context.Background(), db); err != nil {
		log.Printf("[SEED] [WARN] index setup incomplete: %v", err)
	}

	productCache, err := cache.New(cfg.RedisURL)
	if err != nil {
		log.Fatalf("[SEED] [ERROR] %v", err)
	}
	if closer, ok := productCache.(io.Closer); ok {
		defer closer.Close()
	}

	products := store.NewMongoProducts(db)
	users := store.NewMongoUsers(db)
	productService := services.NewProductService(products, productCache, cfg.CacheTTL, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := seedCatalog(ctx, productService, products, *reset); err != nil {
		log.Fatalf("[SEED] [ERROR] catalog: %v", err)
	}

	if *adminEmail != "" && *adminPassword != "" {
		tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
		authService := services.NewAuthService(users, store.NewMongoOrders(db), tokens)
		if err := ensureAdmin(ctx, authService, users, *adminEmail, *adminPassword); err != nil {
			log.Fatalf("[SEED] [ERROR] admin: %v", err)
		}
	}

	log.Println("[SEED] [INFO] database seeded successfully")
}

func loadCatalog() ([]services.ProductInput, error) {
	var catalog []services.ProductInput
	if err := json.Unmarshal(catalogJSON, &catalog); err != nil {
		return nil, err
	}
	return catalog, nil
}

func seedCatalog(ctx context.Context, productService *services.ProductService, products store.ProductStore, reset bool) error {
	catalog, err := loadCatalog()
	if err != nil {
		return err
	}

	if reset {
		existing, err := products.List(ctx, store.ProductFilter{})
		if err != nil {
			return err
		}
		for _, product := range existing {
			if err := productService.Delete(ctx, product.ID); err != nil && !errors.Is(err, services.ErrProductNotFound) {
				return err
			}
		}
		log.Printf("[SEED] [INFO] removed %d products", len(existing))
	}

	for _, input := range catalog {
		if _, err := productService.Create(ctx, input); err != nil {
			return err
		}
	}
	log.Printf("[SEED] [INFO] inserted %d products", len(catalog))
	return nil
}

// ensureAdmin registers the account if needed and promotes it.
func ensureAdmin(ctx context.Context, authService *services.AuthService, users store.UserStore, email, password string) error {
	_, err := authService.Register(ctx, services.RegisterInput{
		FirstName: "Store",
		LastName:  "Admin",
		Email:     email,
		Password:  password,
	})
	if err != nil && !errors.Is(err, services.ErrEmailTaken) {
		return err
	}

	user, err := users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	role := models.RoleAdmin
	if _, err := users.Update(ctx, user.ID, store.UserUpdate{Role: &role}); err != nil {
		return err
	}
	log.Println("[SEED] [INFO] admin ready:", user.Email)
	return nil
}

package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"storefront/internal/auth"
	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/metrics"
	"storefront/internal/middleware"
	"storefront/internal/payment"
	"storefront/internal/services"
	"storefront/internal/store"
)

func main() {
	config.Load()
	cfg := config.AppEnv
	if missing := cfg.Validate(); len(missing) > 0 {
		log.Fatalf("[CONFIG] [ERROR] missing required settings: %s", strings.Join(missing, ", "))
	}

	ctx := context.Background()
	appMetrics, shutdownMetrics, err := metrics.Init(ctx, metrics.Config{
		Endpoint:    cfg.OTLPEndpoint,
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		log.Fatalf("[METRICS] [ERROR] init failed: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownMetrics(shutdownCtx); err != nil {
			log.Printf("[METRICS] [WARN] shutdown: %v", err)
		}
	}()

	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			log.Printf("[DB] [WARN] disconnect: %v", err)
		}
	}()

	db := client.Database(cfg.DBName)
	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureIndexes(ctx, db); err != nil {
		log.Printf("[DB] [WARN] index setup incomplete: %v", err)
	}

	productCache, err := cache.New(cfg.RedisURL)
	if err != nil {
		log.Fatalf("[CACHE] [ERROR] %v", err)
	}
	if closer, ok := productCache.(io.Closer); ok {
		defer closer.Close()
	}
	if pinger, ok := productCache.(interface{ Ping(context.Context) error }); ok {
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := pinger.Ping(pingCtx); err != nil {
			log.Printf("[CACHE] [WARN] redis unreachable, product reads will hit the database: %v", err)
		}
		cancel()
	}

	var gateway payment.Gateway = payment.Disabled{}
	if cfg.RazorpayKeyID != "" && cfg.RazorpayKeySecret != "" {
		gateway = payment.NewRazorpay(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	} else {
		log.Println("[PAYMENT] [WARN] razorpay keys not set, payments disabled")
	}

	users := store.NewMongoUsers(db)
	products := store.NewMongoProducts(db)
	orders := store.NewMongoOrders(db)
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)

	deps := handlers.Deps{
		Auth:     services.NewAuthService(users, orders, tokens),
		Cart:     services.NewCartService(users, products),
		Products: services.NewProductService(products, productCache, cfg.CacheTTL, appMetrics),
		Orders:   services.NewOrderService(orders, users, products, gateway, cfg.PaymentCurrency, appMetrics),
		Admin:    services.NewAdminService(users, orders, products),
		Users:    users,
		Tokens:   tokens,
		Ping: func(ctx context.Context) error {
			return database.Ping(ctx, client)
		},
		PaymentKeyID: cfg.RazorpayKeyID,
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      newRouter(cfg, appMetrics, deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("[HTTP] [INFO] listening on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[HTTP] [ERROR] server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[HTTP] [INFO] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[HTTP] [ERROR] forced shutdown: %v", err)
	}
}

func newRouter(cfg config.Config, appMetrics *metrics.AppMetrics, deps handlers.Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.ClientOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"X-Cache"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RequestMetrics(appMetrics))

	limiter := middleware.NewRateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)
	r.Use(limiter.Middleware())

	handlers.RegisterRoutes(r, deps)
	return r
}

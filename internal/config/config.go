package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	Port              string
	MongoURI          string
	DBName            string
	JWTSecret         string
	TokenTTL          time.Duration
	RedisURL          string
	CacheTTL          time.Duration
	RazorpayKeyID     string
	RazorpayKeySecret string
	PaymentCurrency   string
	ClientOrigin      string
	RateLimitMax      int
	RateLimitWindow   time.Duration
	OTLPEndpoint      string
	ServiceName       string
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = FromEnv()
}

// FromEnv reads the configuration from the process environment.
func FromEnv() Config {
	return Config{
		Port:              getEnvOrDefault("PORT", "5000"),
		MongoURI:          getEnvOrDefault("MONGODB_URI", "mongodb://localhost:27017"),
		DBName:            getEnvOrDefault("DB_NAME", "storefront"),
		JWTSecret:         getEnvOrDefault("JWT_SECRET", ""),
		TokenTTL:          getDurationEnv("TOKEN_TTL", 168, time.Hour),
		RedisURL:          normalizeRedisURL(getEnvOrDefault("REDIS_URL", "")),
		CacheTTL:          getDurationEnv("CACHE_TTL", 3600, time.Second),
		RazorpayKeyID:     getEnvOrDefault("RAZORPAY_KEY_ID", ""),
		RazorpayKeySecret: getEnvOrDefault("RAZORPAY_KEY_SECRET", ""),
		PaymentCurrency:   strings.ToUpper(getEnvOrDefault("PAYMENT_CURRENCY", "INR")),
		ClientOrigin:      getEnvOrDefault("CLIENT_ORIGIN", "http://localhost:5173"),
		RateLimitMax:      getIntEnv("RATE_LIMIT_MAX", 100),
		RateLimitWindow:   getDurationEnv("RATE_LIMIT_WINDOW", 10, time.Minute),
		OTLPEndpoint:      getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:       getEnvOrDefault("OTEL_SERVICE_NAME", "storefront"),
	}
}

// Validate reports settings the server cannot start without.
func (c Config) Validate() []string {
	var missing []string
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.MongoURI == "" {
		missing = append(missing, "MONGODB_URI")
	}
	return missing
}

// normalizeRedisURL upgrades Upstash URLs to TLS, which Upstash requires.
func normalizeRedisURL(raw string) string {
	if strings.HasPrefix(raw, "redis://") && strings.Contains(raw, "upstash.io") {
		return "rediss://" + strings.TrimPrefix(raw, "redis://")
	}
	return raw
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	return time.Duration(getIntEnv(key, defaultValue)) * unit
}

package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

var (
	APP_ENV     string
	PORT        string
	DB_URL      string
	JWT_SECRET  string
	APP_URL     string
	CORS_ORIGIN string
	LOG_LEVEL   string

	STRIPE_SECRET_KEY     string
	STRIPE_WEBHOOK_SECRET string
	STRIPE_PRICE_ID       string

	// BILLING_SIMULATION activates checkout without Stripe. Never allowed in production.
	BILLING_SIMULATION bool

	GOOGLE_CLIENT_ID         string
	GOOGLE_CLIENT_SECRET     string
	GOOGLE_REDIRECT_URL      string
	GOOGLE_FRONTEND_REDIRECT string

	REDIS_URL           string
	RATE_LIMIT_REQUESTS int
	RATE_LIMIT_WINDOW   time.Duration
)

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	APP_ENV = strings.ToLower(getEnv("APP_ENV", EnvDevelopment))
	PORT = getEnv("PORT", "8080")
	DB_URL = mustEnv("DB_URL")
	JWT_SECRET = mustEnv("JWT_SECRET")
	APP_URL = strings.TrimRight(getEnv("APP_URL", "http://localhost:5173"), "/")
	CORS_ORIGIN = getEnv("CORS_ORIGIN", APP_URL)
	LOG_LEVEL = getEnv("LOG_LEVEL", "")

	STRIPE_SECRET_KEY = getEnv("STRIPE_SECRET_KEY", "")
	STRIPE_WEBHOOK_SECRET = getEnv("STRIPE_WEBHOOK_SECRET", "")
	STRIPE_PRICE_ID = getEnv("STRIPE_PRICE_ID", "")
	BILLING_SIMULATION = getBool("BILLING_SIMULATION", false)

	GOOGLE_CLIENT_ID = getEnv("GOOGLE_CLIENT_ID", "")
	GOOGLE_CLIENT_SECRET = getEnv("GOOGLE_CLIENT_SECRET", "")
	GOOGLE_REDIRECT_URL = getEnv("GOOGLE_REDIRECT_URL", "")
	GOOGLE_FRONTEND_REDIRECT = getEnv("GOOGLE_FRONTEND_REDIRECT", "")

	REDIS_URL = getEnv("REDIS_URL", "")
	RATE_LIMIT_REQUESTS = getInt("RATE_LIMIT_REQUESTS", 10)
	RATE_LIMIT_WINDOW = getDuration("RATE_LIMIT_WINDOW", time.Minute)
}

// Validate rejects combinations that must not reach a running server.
func Validate() error {
	if BILLING_SIMULATION && IsProduction() {
		return errors.New("BILLING_SIMULATION cannot be enabled when APP_ENV=production")
	}
	if !BILLING_SIMULATION {
		if STRIPE_SECRET_KEY == "" {
			return errors.New("STRIPE_SECRET_KEY is required unless BILLING_SIMULATION=true")
		}
		if STRIPE_PRICE_ID == "" {
			return errors.New("STRIPE_PRICE_ID is required unless BILLING_SIMULATION=true")
		}
	}
	if RATE_LIMIT_REQUESTS <= 0 || RATE_LIMIT_WINDOW <= 0 {
		return errors.New("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

func IsProduction() bool {
	return APP_ENV == EnvProduction || APP_ENV == "prod"
}

func GoogleEnabled() bool {
	return GOOGLE_CLIENT_ID != "" && GOOGLE_CLIENT_SECRET != "" && GOOGLE_REDIRECT_URL != ""
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("Invalid boolean for %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return b
}

func getInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Invalid integer for %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Invalid duration for %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

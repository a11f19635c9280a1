package config

import (
	"os"
	"strconv"

	"chaotic_backend/internal/logger"

	"github.com/joho/godotenv"
)

// Config is resolved once at process start and held immutable.
type Config struct {
	AppPort     string
	DatabaseURL string
	JWTSecret   string

	// Redis (request rate limiting); empty addr disables the limiter.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Transport-level limits
	APIRateLimit      int
	APIRateWindowSec  int
	PurchaseRateLimit int
	PurchaseWindowSec int

	LogLevel string
	LogJSON  bool
}

// Load reads the configuration from the environment.
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	return &Config{
		AppPort:           port,
		DatabaseURL:       dbURL,
		JWTSecret:         jwtSecret,
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           redisDB,
		APIRateLimit:      envInt("API_RATE_LIMIT", 60),
		APIRateWindowSec:  envInt("API_RATE_WINDOW_SECONDS", 60),
		PurchaseRateLimit: envInt("PURCHASE_RATE_LIMIT", 10),
		PurchaseWindowSec: envInt("PURCHASE_RATE_WINDOW_SECONDS", 60),
		LogLevel:          envString("LOG_LEVEL", "info"),
		LogJSON:           os.Getenv("LOG_JSON") == "true",
	}
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

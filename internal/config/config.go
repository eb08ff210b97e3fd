package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const defaultRequestTimeout = 30 * time.Second

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string

	MongoURI    string
	MongoDBName string

	AppPort        string
	AppEnv         string
	RequestTimeout time.Duration
	ClientURL      string

	JWTSecret       string
	StripeSecretKey string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:          os.Getenv("DB_HOST"),
		DBUser:          os.Getenv("DB_USER"),
		DBPassword:      os.Getenv("DB_PASSWORD"),
		DBName:          os.Getenv("DB_NAME"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBSSLMode:       getEnv("DB_SSLMODE", "disable"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:     getEnv("MONGO_DB_NAME", "storefront"),
		AppPort:         getEnv("APP_PORT", "8080"),
		AppEnv:          getEnv("APP_ENV", "development"),
		RequestTimeout:  parseDuration(os.Getenv("REQUEST_TIMEOUT"), defaultRequestTimeout),
		ClientURL:       getEnv("CLIENT_URL", "http://localhost:3000"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parseDuration accepts Go durations ("15s") or a bare number of seconds.
func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if d, err := time.ParseDuration(raw + "s"); err == nil && d > 0 {
		return d
	}
	return fallback
}

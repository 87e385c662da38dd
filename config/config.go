package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the loaded configuration
type Config struct {
	Port           string
	Env            string
	CommerceAPIURL string
	RequestTimeout time.Duration
}

// Load reads configuration from the .env file and the environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	timeout, err := time.ParseDuration(getEnv("REQUEST_TIMEOUT", "10s"))
	if err != nil {
		timeout = 10 * time.Second
	}

	return Config{
		Port:           getEnv("PORT", "8087"),
		Env:            getEnv("APP_ENV", "development"),
		CommerceAPIURL: getEnv("COMMERCE_API_URL", "http://localhost:5000"),
		RequestTimeout: timeout,
	}
}

// Helper to get an environment variable or return a default
func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

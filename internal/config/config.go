package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds gateway configuration
type Config struct {
	Port            string
	BackendURL      string
	AllowedOrigins  string
	Environment     string // development, staging, production
	ListingPageSize int
	RefreshInterval time.Duration
	MaxInactivity   time.Duration
}

// Load loads configuration from environment variables
func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		BackendURL:      getEnv("BACKEND_URL", ""),
		AllowedOrigins:  getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		ListingPageSize: getEnvInt("LISTING_PAGE_SIZE", 10),
		RefreshInterval: getEnvDuration("SESSION_REFRESH_INTERVAL", 14*time.Minute),
		MaxInactivity:   getEnvDuration("SESSION_MAX_INACTIVITY", 60*time.Minute),
	}

	cfg.Validate()
	return cfg
}

// Validate checks configuration for correctness. A missing backend URL is
// a startup warning, not a hard failure; requests will fail until it is
// set, which the logs make obvious.
func (c *Config) Validate() {
	if c.BackendURL == "" {
		log.Println("WARNING: BACKEND_URL is not set; marketplace requests will fail")
		c.BackendURL = "http://localhost:5000"
	}

	if c.IsProduction() && c.AllowedOrigins != "" {
		log.Println("WARNING: Ensure ALLOWED_ORIGINS uses HTTPS in production")
	}

	if c.ListingPageSize < 1 {
		c.ListingPageSize = 10
	}
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev" || c.Environment == ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("Invalid %s value %q, using default %d", key, value, defaultValue)
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Invalid %s value %q, using default %s", key, value, defaultValue)
	}
	return defaultValue
}

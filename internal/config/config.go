package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DatabasePath string
	HTTPAddr     string
	APIToken     string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	dbPath := os.Getenv("ICEFISH_DB_PATH")
	if dbPath == "" {
		dbPath = "./icefish.db"
	}

	addr := os.Getenv("ICEFISH_HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	// Empty token disables API authentication.
	token := os.Getenv("ICEFISH_API_TOKEN")

	return &Config{
		DatabasePath: dbPath,
		HTTPAddr:     addr,
		APIToken:     token,
	}, nil
}

package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Seller is the issuing business profile. Every invoice copies these fields
// at creation time so that later profile edits leave issued invoices intact.
type Seller struct {
	Name    string
	Address string
	GSTIN   string
}

// Config holds all environment-driven settings, loaded once at startup and
// passed down explicitly (no package-level singletons).
type Config struct {
	Port      string
	DSN       string
	JWTSecret string

	// Initial operator credentials, used to seed the users table when empty.
	OperatorUsername string
	OperatorPassword string

	Seller Seller
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads configs/.env (when present) and the process environment.
func Load() (Config, error) {
	if err := godotenv.Load("configs/.env"); err != nil {
		fmt.Println("No configs/.env file found or error loading it")
	}

	dbHost := getenv("DB_HOST", "localhost")
	dbPort := getenv("DB_PORT", "5432")
	dbUser := getenv("DB_USER", "postgres")
	dbPassword := getenv("DB_PASSWORD", "postgres")
	dbName := getenv("DB_NAME", "postgres")
	dbSslMode := getenv("DB_SSLMODE", "disable")

	cfg := Config{
		Port:             getenv("PORT", "8080"),
		DSN:              "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode,
		JWTSecret:        os.Getenv("JWT_SECRET"),
		OperatorUsername: getenv("OPERATOR_USERNAME", "admin"),
		OperatorPassword: getenv("OPERATOR_PASSWORD", "admin123"),
		Seller: Seller{
			Name:    getenv("SELLER_NAME", "My Business"),
			Address: os.Getenv("SELLER_ADDRESS"),
			GSTIN:   os.Getenv("SELLER_GSTIN"),
		},
	}

	if cfg.JWTSecret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			return Config{}, fmt.Errorf("JWT_SECRET environment variable is required in release mode")
		}
		cfg.JWTSecret = "default_super_secret_key" // Development fallback only — DO NOT use in production
	}

	return cfg, nil
}

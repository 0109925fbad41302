package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string

	// Google service account (Sheets access)
	GoogleServiceAccountEmail string
	GooglePrivateKeyFile      string
	GoogleTokenURL            string
	SheetsSpreadsheetID       string
	SheetsRoutingRange        string

	// Kitchen ERP
	ERPBaseURL string
	ERPAPIKey  string

	// Chat automation platform
	ChatBaseURL string
	ChatAPIKey  string

	// SMTP notifications
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	StaffEmail   string
}

// LoadConfig creates a new Config instance with values from environment
// variables or Docker secrets. In development a .env file is loaded first
// so the service can run outside compose.
func LoadConfig() (*Config, error) {
	if IsDevelopment() {
		// Missing .env is fine; plain env vars still apply.
		_ = godotenv.Load()
	}

	cfg := &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		ServerHost: getEnv("SERVER_HOST", "0.0.0.0"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     envOrSecret("DB_USER", "db_user"),
		DBPassword: envOrSecret("DB_PASSWORD", "db_password"),
		DBName:     getEnv("DB_NAME", "pratofeito"),
		DBSSLMode:  getEnv("DB_SSL_MODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: envOrSecret("REDIS_PASSWORD", "redis_password"),
		RedisURL:      os.Getenv("REDIS_URL"),

		JWTSecret: envOrSecret("JWT_SECRET", "jwt_secret"),

		GoogleServiceAccountEmail: os.Getenv("GOOGLE_SA_EMAIL"),
		GooglePrivateKeyFile:      os.Getenv("GOOGLE_SA_KEY_FILE"),
		GoogleTokenURL:            getEnv("GOOGLE_TOKEN_URL", "https://oauth2.googleapis.com/token"),
		SheetsSpreadsheetID:       os.Getenv("SHEETS_SPREADSHEET_ID"),
		// Defaulted by the sheets sync from its column layout when unset.
		SheetsRoutingRange: os.Getenv("SHEETS_ROUTING_RANGE"),

		ERPBaseURL: os.Getenv("ERP_BASE_URL"),
		ERPAPIKey:  envOrSecret("ERP_API_KEY", "erp_api_key"),

		ChatBaseURL: os.Getenv("CHAT_BASE_URL"),
		ChatAPIKey:  envOrSecret("CHAT_API_KEY", "chat_api_key"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: envOrSecret("SMTP_PASSWORD", "smtp_password"),
		SMTPFrom:     os.Getenv("SMTP_FROM"),
		StaffEmail:   os.Getenv("STAFF_EMAIL"),
	}

	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid SMTP_PORT %q: %w", portStr, err)
		}
		cfg.SMTPPort = port
	}

	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		db, err := strconv.Atoi(dbStr)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB %q: %w", dbStr, err)
		}
		cfg.RedisDB = db
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// getEnv returns the environment variable value or a fallback
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envOrSecret prefers the environment variable and falls back to a
// Docker secret of the given name
func envOrSecret(envKey, secretName string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return readSecret(secretName)
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

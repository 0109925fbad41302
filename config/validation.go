package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that everything the server cannot run without is
// present. External-adapter settings are validated lazily by the adapter
// that needs them, so a deployment without, say, the chat platform still
// boots.
func ValidateConfig(cfg *Config) error {
	var errors []string

	if cfg.DBUser == "" {
		errors = append(errors, "DB_USER (or db_user secret) is required")
	}
	if cfg.DBPassword == "" {
		errors = append(errors, "DB_PASSWORD (or db_password secret) is required")
	}
	if cfg.DBName == "" {
		errors = append(errors, "DB_NAME is required")
	}
	if cfg.JWTSecret == "" {
		errors = append(errors, "JWT_SECRET (or jwt_secret secret) is required")
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "\n"))
	}

	return nil
}

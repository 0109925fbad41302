package types

import (
	"github.com/google/uuid"

	"github.com/pratofeito/backend/internal/models"
)

// TokenClaims is what a validated staff token carries.
type TokenClaims struct {
	UserID uuid.UUID
	Role   models.Role
}

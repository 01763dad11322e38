package service

import (
	"tradeport/internal/domain/entity"

	"github.com/google/uuid"
)

// AuthContext is the verified identity supplied to every mutating operation.
type AuthContext struct {
	UserID uuid.UUID
	Email  string
	Name   string
	Role   entity.Role
}

// TokenService issues and verifies signed credential tokens.
type TokenService interface {
	// Generate issues a signed token carrying the auth context claims.
	Generate(auth *AuthContext) (string, error)

	// Validate verifies a token and returns the auth context it carries.
	Validate(token string) (*AuthContext, error)
}

// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"tradeport/config"
	"tradeport/internal/domain/entity"
	"tradeport/internal/domain/service"
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	secret string        // Secret key for signing tokens.
	ttl    time.Duration // Time-to-live for issued tokens.
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	ttl := 24 * time.Hour
	if cfg.Auth != nil && cfg.Auth.TokenTTL > 0 {
		ttl = cfg.Auth.TokenTTL
	}

	return &jwtService{
		secret: cfg.SecretKey.Access,
		ttl:    ttl,
	}, nil
}

// Generate creates a signed token carrying the caller's identity claims.
func (s *jwtService) Generate(auth *service.AuthContext) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   auth.UserID.String(),     // Subject (who the token is for)
		"email": auth.Email,               // Login identity
		"name":  auth.Name,                // Display name
		"role":  auth.Role.String(),       // Stateless authorization
		"iat":   now.Unix(),               // Issued At
		"exp":   now.Add(s.ttl).Unix(),    // Expiration Time
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(s.secret))
}

// Validate checks a token string and reconstructs the identity it carries.
func (s *jwtService) Validate(tokenString string) (*service.AuthContext, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return []byte(s.secret), nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "parse token")
	}
	if !token.Valid {
		return nil, errors.New("token is not valid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("unexpected claims type")
	}

	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, errors.Wrap(err, "parse subject claim")
	}

	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	roleStr, _ := claims["role"].(string)
	role := entity.Role(roleStr)
	if !role.IsValid() {
		return nil, errors.Errorf("unknown role claim: %s", roleStr)
	}

	return &service.AuthContext{
		UserID: userID,
		Email:  email,
		Name:   name,
		Role:   role,
	}, nil
}

package middleware

import (
	"strings"

	deliverycontext "tradeport/internal/delivery/context"
	"tradeport/internal/delivery/http/response"
	"tradeport/internal/domain/entity"
	"tradeport/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware provides middleware for JWT authentication and authorization.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate is the core middleware function that validates the JWT access token.
// On success the verified identity is stored on both echo.Context and the
// request context for the handlers and services below.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "TOKEN_MISSING", "Authorization header is missing")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return response.Unauthorized(c, "TOKEN_INVALID", "Invalid token format, must be Bearer token")
		}

		auth, err := m.tokenSvc.Validate(tokenString)
		if err != nil {
			return response.Unauthorized(c, "TOKEN_INVALID", "Invalid or expired token")
		}

		c.Set(string(deliverycontext.KeyAuth), auth)

		return next(c)
	}
}

// RequireRole is a middleware factory that checks if the caller holds a
// specific role. It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireRole(requiredRole entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := GetAuth(c)
			if auth == nil {
				return response.Forbidden(c, "ROLE_MISSING", "Permission denied: identity information missing")
			}

			if auth.Role != requiredRole {
				return response.Forbidden(c, "ROLE_FORBIDDEN", "Permission denied: require '"+requiredRole.String()+"' role")
			}

			return next(c)
		}
	}
}

// GetAuth extracts the verified caller identity stored by Authenticate.
func GetAuth(c echo.Context) *service.AuthContext {
	auth, _ := c.Get(string(deliverycontext.KeyAuth)).(*service.AuthContext)

	return auth
}

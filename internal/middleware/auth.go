// Package middleware provides authentication and request-context middleware.
package middleware

import (
	"strings"

	"estate/internal/config"
	"estate/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var cfg *config.Config

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// principalFromClaims builds a Principal from the token claims issued by the
// external auth provider. Only "sub" is mandatory; profile claims may be absent.
func principalFromClaims(claims jwt.MapClaims) (models.Principal, bool) {
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return models.Principal{}, false
	}
	str := func(key string) string {
		if v, ok := claims[key].(string); ok {
			return v
		}
		return ""
	}
	return models.Principal{
		ID:     sub,
		Name:   str("name"),
		Email:  str("email"),
		Avatar: str("picture"),
		Phone:  str("phone"),
	}, true
}

func parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
	}
	return claims, nil
}

// AuthRequired is a middleware that enforces authentication for protected routes.
func AuthRequired(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authorization header required",
		})
	}

	// Extract token from "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid authorization header format",
		})
	}

	claims, err := parseToken(parts[1])
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or expired token",
		})
	}

	principal, ok := principalFromClaims(claims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid token structure - missing subject",
		})
	}

	c.Locals("principal", principal)
	c.Locals("userID", principal.ID)

	return c.Next()
}

// OptionalAuth extracts the principal when an Authorization header is present
// but lets unauthenticated requests through. Read endpoints use it to resolve
// per-user liked state without requiring a login.
func OptionalAuth(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Next()
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return c.Next()
	}
	claims, err := parseToken(parts[1])
	if err != nil {
		return c.Next()
	}
	if principal, ok := principalFromClaims(claims); ok {
		c.Locals("principal", principal)
		c.Locals("userID", principal.ID)
	}
	return c.Next()
}

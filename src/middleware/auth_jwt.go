package middleware

import (
	"strings"

	"Backend-FormGen/src/utils"

	"github.com/gofiber/fiber/v2"
)

func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(authHeader, "Bearer "), true
}

// AuthJWT ต้องมี access token ที่ถูกต้อง
func AuthJWT(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr, ok := bearerToken(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing or invalid Authorization header"})
		}

		claims, err := utils.ParseJWT(secret, tokenStr)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token", "detail": err.Error()})
		}

		c.Locals("userId", claims.Subject)
		c.Locals("email", claims.Email)
		return c.Next()
	}
}

// OptionalJWT attaches the identity when a valid token is present and never rejects.
func OptionalJWT(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tokenStr, ok := bearerToken(c); ok {
			if claims, err := utils.ParseJWT(secret, tokenStr); err == nil {
				c.Locals("userId", claims.Subject)
				c.Locals("email", claims.Email)
			}
		}
		return c.Next()
	}
}

// UserID returns the identity set by AuthJWT or OptionalJWT, "" when anonymous.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals("userId").(string)
	return id
}

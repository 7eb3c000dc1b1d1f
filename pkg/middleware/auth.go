package middleware

import (
	"strings"

	"restaurant-rag/pkg/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	LocalOperatorID   = "operatorID"
	LocalRestaurantID = "restaurantID"
	LocalEmail        = "email"
)

func AuthMiddleware(jwtManager *auth.JWTManager, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get(fiber.HeaderAuthorization)
		if token == "" {
			logger.Warn("Missing authorization token", zap.String("path", c.Path()))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization token required",
			})
		}
		token = strings.TrimPrefix(token, "Bearer ")

		claims, err := jwtManager.ValidateToken(token, auth.TokenTypeAccess)
		if err != nil {
			logger.Warn("Invalid token", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals(LocalOperatorID, claims.OperatorID)
		c.Locals(LocalRestaurantID, claims.RestaurantID)
		c.Locals(LocalEmail, claims.Email)

		return c.Next()
	}
}

// RestaurantID returns the restaurant the authenticated operator belongs to.
func RestaurantID(c *fiber.Ctx) int64 {
	id, _ := c.Locals(LocalRestaurantID).(int64)
	return id
}

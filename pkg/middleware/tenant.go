package middleware

import (
	"context"
	"errors"

	"restaurant-rag/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type RestaurantLookup interface {
	GetRestaurant(ctx context.Context, id int64) (*models.Restaurant, error)
}

// TenantGuard runs after AuthMiddleware. The :restaurantId route parameter
// must be the operator's own restaurant, and that restaurant must exist and
// be active.
func TenantGuard(restaurants RestaurantLookup, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("restaurantId")
		if err != nil || id <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid restaurant id",
			})
		}
		if int64(id) != RestaurantID(c) {
			logger.Warn("Tenant mismatch",
				zap.Int("requested_restaurant_id", id),
				zap.Int64("token_restaurant_id", RestaurantID(c)),
			)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Access to this restaurant is not allowed",
			})
		}

		r, err := restaurants.GetRestaurant(c.Context(), int64(id))
		if errors.Is(err, models.ErrNotFound) || (err == nil && !r.Active) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Restaurant not found",
			})
		}
		if err != nil {
			logger.Error("Failed to load restaurant", zap.Int("restaurant_id", id), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to load restaurant",
			})
		}
		return c.Next()
	}
}

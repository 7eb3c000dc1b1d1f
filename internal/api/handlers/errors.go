package handlers

import (
	"errors"

	"restaurant-rag/internal/service"
	"restaurant-rag/internal/vectorstore"
	"restaurant-rag/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// respondError maps service errors to HTTP statuses. Anything unknown is
// logged and answered with a generic 500 carrying fallback.
func respondError(c *fiber.Ctx, logger *zap.Logger, err error, fallback string) error {
	status := fiber.StatusInternalServerError
	msg := fallback

	switch {
	case errors.Is(err, service.ErrInvalidInput):
		status, msg = fiber.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrRestaurantNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrConversationNotFound),
		errors.Is(err, service.ErrKnowledgeEntryNotFound):
		status, msg = fiber.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrAssistantDisabled),
		errors.Is(err, service.ErrEmbeddingUnavailable):
		status, msg = fiber.StatusServiceUnavailable, err.Error()
	case errors.Is(err, vectorstore.ErrDimensionMismatch):
		msg = "Vector store is misconfigured"
	}

	if status >= fiber.StatusInternalServerError {
		logger.Error(fallback,
			zap.Int64("restaurant_id", middleware.RestaurantID(c)),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

package handlers

import (
	"restaurant-rag/internal/dto"
	"restaurant-rag/internal/service"
	"restaurant-rag/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AssistantHandler serves context enrichment, the assistant reply and search analytics.
type AssistantHandler struct {
	enrichmentService *service.EnrichmentService
	assistantService  *service.AssistantService
	analyticsService  *service.AnalyticsService
	logger            *zap.Logger
}

func NewAssistantHandler(
	enrichmentService *service.EnrichmentService,
	assistantService *service.AssistantService,
	analyticsService *service.AnalyticsService,
	logger *zap.Logger,
) *AssistantHandler {
	return &AssistantHandler{
		enrichmentService: enrichmentService,
		assistantService:  assistantService,
		analyticsService:  analyticsService,
		logger:            logger,
	}
}

// Enrich godoc
// @Summary Retrieve assistant context
// @Description Relevant products, knowledge entries and customer memories for one message
// @Tags assistant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param restaurantId path int true "Restaurant ID"
// @Param request body dto.EnrichRequest true "Message"
// @Success 200 {object} service.EnrichedContext
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/restaurants/{restaurantId}/enrich [post]
func (h *AssistantHandler) Enrich(c *fiber.Ctx) error {
	var req dto.EnrichRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ec, err := h.enrichmentService.Enrich(c.Context(), service.EnrichRequest{
		RestaurantID:   middleware.RestaurantID(c),
		Query:          req.Query,
		CustomerPhone:  req.CustomerPhone,
		ConversationID: req.ConversationID,
	})
	if err != nil {
		return respondError(c, h.logger, err, "Enrichment failed")
	}
	return c.JSON(ec)
}

// Reply godoc
// @Summary Generate an assistant reply
// @Description Enrich the message with semantic context and ask the language model for an answer
// @Tags assistant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param restaurantId path int true "Restaurant ID"
// @Param request body dto.AssistantReplyRequest true "Customer message"
// @Success 200 {object} service.AssistantReply
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/restaurants/{restaurantId}/assistant/reply [post]
func (h *AssistantHandler) Reply(c *fiber.Ctx) error {
	var req dto.AssistantReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	reply, err := h.assistantService.Reply(c.Context(), service.EnrichRequest{
		RestaurantID:   middleware.RestaurantID(c),
		Query:          req.Message,
		CustomerPhone:  req.CustomerPhone,
		ConversationID: req.ConversationID,
	})
	if err != nil {
		return respondError(c, h.logger, err, "Failed to generate reply")
	}
	return c.JSON(reply)
}

// Analytics godoc
// @Summary Search analytics
// @Description Most frequent queries and average search performance over the last days
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param restaurantId path int true "Restaurant ID"
// @Param days query int false "Window in days (1-365)" default(7)
// @Success 200 {object} models.SearchSummary
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/restaurants/{restaurantId}/analytics [get]
func (h *AssistantHandler) Analytics(c *fiber.Ctx) error {
	days := c.QueryInt("days", service.DefaultAnalyticsDays)

	summary, err := h.analyticsService.Summary(c.Context(), middleware.RestaurantID(c), days)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to load analytics")
	}
	return c.JSON(summary)
}

package handlers

import (
	"restaurant-rag/internal/dto"
	"restaurant-rag/internal/models"
	"restaurant-rag/internal/service"
	"restaurant-rag/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// KnowledgeHandler writes knowledge entries and customer memories.
type KnowledgeHandler struct {
	indexingService *service.IndexingService
	logger          *zap.Logger
}

func NewKnowledgeHandler(indexingService *service.IndexingService, logger *zap.Logger) *KnowledgeHandler {
	return &KnowledgeHandler{
		indexingService: indexingService,
		logger:          logger,
	}
}

func knowledgeInput(req *dto.KnowledgeRequest) service.KnowledgeInput {
	return service.KnowledgeInput{
		Question: req.Question,
		Answer:   req.Answer,
		Category: req.Category,
		Tags:     req.Tags,
		Priority: req.Priority,
		Active:   req.Active,
	}
}

func knowledgeResponse(e *models.KnowledgeEntry) dto.KnowledgeResponse {
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	return dto.KnowledgeResponse{
		ID:             e.ID.String(),
		Question:       e.Question,
		Answer:         e.Answer,
		Category:       e.Category,
		Tags:           tags,
		Priority:       e.Priority,
		Active:         e.Active,
		UsageCount:     e.UsageCount,
		EmbeddingModel: e.EmbeddingModel,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

// CreateKnowledge godoc
// @Summary Add a knowledge entry
// @Description Embed and store a question/answer pair for the restaurant
// @Tags knowledge
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param restaurantId path int true "Restaurant ID"
// @Param request body dto.KnowledgeRequest true "Knowledge entry"
// @Success 201 {object} dto.KnowledgeResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/restaurants/{restaurantId}/knowledge [post]
func (h *KnowledgeHandler) CreateKnowledge(c *fiber.Ctx) error {
	var req dto.KnowledgeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	entry, err := h.indexingService.CreateKnowledgeEntry(c.Context(), middleware.RestaurantID(c), knowledgeInput(&req))
	if err != nil {
		return respondError(c, h.logger, err, "Failed to create knowledge entry")
	}
	return c.Status(fiber.StatusCreated).JSON(knowledgeResponse(entry))
}

// UpdateKnowledge godoc
// @Summary Update a knowledge entry
// @Description Rewrite and re-embed an entry. Usage counters are kept.
// @Tags knowledge
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param restaurantId path int true "Restaurant ID"
// @Param id path string true "Entry ID"
// @Param request body dto.KnowledgeRequest true "Knowledge entry"
// @Success 200 {object} dto.KnowledgeResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/restaurants/{restaurantId}/knowledge/{id} [put]
func (h *KnowledgeHandler) UpdateKnowledge(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid entry id")
	}
	var req dto.KnowledgeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	entry, err := h.indexingService.UpdateKnowledgeEntry(c.Context(), middleware.RestaurantID(c), id, knowledgeInput(&req))
	if err != nil {
		return respondError(c, h.logger, err, "Failed to update knowledge entry")
	}
	return c.JSON(knowledgeResponse(entry))
}

// CreateMemory godoc
// @Summary Remember something about a customer
// @Description Store a preference, order, complaint or compliment. The customer comes from the conversation when one is given.
// @Tags memories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param restaurantId path int true "Restaurant ID"
// @Param request body dto.MemoryRequest true "Memory"
// @Success 201 {object} dto.MemoryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/restaurants/{restaurantId}/memories [post]
func (h *KnowledgeHandler) CreateMemory(c *fiber.Ctx) error {
	var req dto.MemoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	m, err := h.indexingService.StoreMemory(c.Context(), middleware.RestaurantID(c), service.MemoryInput{
		ConversationID:  req.ConversationID,
		CustomerPhone:   req.CustomerPhone,
		MemoryType:      models.MemoryType(req.MemoryType),
		Content:         req.Content,
		Summary:         req.Summary,
		ImportanceScore: req.ImportanceScore,
	})
	if err != nil {
		return respondError(c, h.logger, err, "Failed to store memory")
	}

	return c.Status(fiber.StatusCreated).JSON(dto.MemoryResponse{
		ID:              m.ID.String(),
		CustomerPhone:   m.CustomerPhone,
		MemoryType:      string(m.MemoryType),
		Content:         m.Content,
		Summary:         m.Summary,
		ImportanceScore: m.ImportanceScore,
		CreatedAt:       m.CreatedAt,
	})
}

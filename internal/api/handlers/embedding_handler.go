package handlers

import (
	"restaurant-rag/internal/dto"
	"restaurant-rag/internal/service"
	"restaurant-rag/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const embeddingPreviewSize = 8

type EmbeddingHandler struct {
	indexingService  *service.IndexingService
	searchService    *service.SearchService
	embeddingService *service.EmbeddingService
	assistantService *service.AssistantService
	logger           *zap.Logger
}

func NewEmbeddingHandler(
	indexingService *service.IndexingService,
	searchService *service.SearchService,
	embeddingService *service.EmbeddingService,
	assistantService *service.AssistantService,
	logger *zap.Logger,
) *EmbeddingHandler {
	return &EmbeddingHandler{
		indexingService:  indexingService,
		searchService:    searchService,
		embeddingService: embeddingService,
		assistantService: assistantService,
		logger:           logger,
	}
}

// IndexProducts godoc
// @Summary Rebuild product embeddings
// @Description Embed every available product of the restaurant. Unchanged products are skipped unless force is set.
// @Tags embeddings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param restaurantId path int true "Restaurant ID"
// @Param request body dto.ReindexRequest false "Reindex options"
// @Success 200 {object} service.IndexStats
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/restaurants/{restaurantId}/embeddings/products [post]
func (h *EmbeddingHandler) IndexProducts(c *fiber.Ctx) error {
	var req dto.ReindexRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
	}

	stats, err := h.indexingService.IndexProducts(c.Context(), middleware.RestaurantID(c), req.Force)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to index products")
	}
	return c.JSON(stats)
}

// IndexProduct godoc
// @Summary Re-embed one product
// @Tags embeddings
// @Produce json
// @Security BearerAuth
// @Param restaurantId path int true "Restaurant ID"
// @Param productId path int true "Product ID"
// @Success 200 {object} dto.ProductEmbeddingResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/restaurants/{restaurantId}/embeddings/products/{productId} [post]
func (h *EmbeddingHandler) IndexProduct(c *fiber.Ctx) error {
	productID, err := c.ParamsInt("productId")
	if err != nil || productID <= 0 {
		return badRequest(c, "Invalid product id")
	}

	e, err := h.indexingService.IndexProduct(c.Context(), middleware.RestaurantID(c), int64(productID))
	if err != nil {
		return respondError(c, h.logger, err, "Failed to index product")
	}
	return c.JSON(dto.ProductEmbeddingResponse{
		ProductID:      e.ProductID,
		Content:        e.Content,
		EmbeddingModel: e.EmbeddingModel,
		Dimension:      len(e.Embedding),
		UpdatedAt:      e.UpdatedAt,
	})
}

// Status godoc
// @Summary Vector search status
// @Description Embedding provider, dimension and which collections use the native search path
// @Tags vectors
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.VectorStatusResponse
// @Router /api/v1/vectors/status [get]
func (h *EmbeddingHandler) Status(c *fiber.Ctx) error {
	provider := h.embeddingService.Provider()
	caps := h.searchService.Capabilities()
	return c.JSON(dto.VectorStatusResponse{
		Provider:  provider.Name(),
		Model:     provider.Model(),
		Dimension: provider.Dimension(),
		NativeSearch: map[string]bool{
			"products":  caps.Products,
			"knowledge": caps.Knowledge,
			"memories":  caps.Memories,
		},
		Assistant: h.assistantService.Enabled(),
	})
}

// TestEmbedding godoc
// @Summary Embed a sample text
// @Description Run the configured provider once and return the first components of the vector
// @Tags vectors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.TestEmbeddingRequest true "Text to embed"
// @Success 200 {object} dto.TestEmbeddingResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/vectors/test-embedding [post]
func (h *EmbeddingHandler) TestEmbedding(c *fiber.Ctx) error {
	var req dto.TestEmbeddingRequest
	if err := c.BodyParser(&req); err != nil || req.Text == "" {
		return badRequest(c, "Text is required")
	}

	e := h.embeddingService.Embed(c.Context(), req.Text)
	preview := e.Vector
	if len(preview) > embeddingPreviewSize {
		preview = preview[:embeddingPreviewSize]
	}
	return c.JSON(dto.TestEmbeddingResponse{
		Model:      e.Model,
		Dimension:  len(e.Vector),
		Degraded:   e.Degraded,
		DurationMS: e.Duration.Milliseconds(),
		Preview:    preview,
	})
}

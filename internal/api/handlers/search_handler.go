package handlers

import (
	"restaurant-rag/internal/dto"
	"restaurant-rag/internal/service"
	"restaurant-rag/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type SearchHandler struct {
	searchService *service.SearchService
	logger        *zap.Logger
}

func NewSearchHandler(searchService *service.SearchService, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
		logger:        logger,
	}
}

func (h *SearchHandler) parse(c *fiber.Ctx) (service.SearchRequest, error) {
	var req dto.SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return service.SearchRequest{}, err
	}
	return service.SearchRequest{
		RestaurantID:   middleware.RestaurantID(c),
		Query:          req.Query,
		Limit:          req.Limit,
		Threshold:      req.Threshold,
		Category:       req.Category,
		ConversationID: req.ConversationID,
	}, nil
}

// SearchProducts godoc
// @Summary Semantic product search
// @Description Find available products whose description is closest to the query
// @Tags search
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param restaurantId path int true "Restaurant ID"
// @Param request body dto.SearchRequest true "Search request"
// @Success 200 {object} service.SearchResult[models.ProductMatch]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/v1/restaurants/{restaurantId}/search/products [post]
func (h *SearchHandler) SearchProducts(c *fiber.Ctx) error {
	req, err := h.parse(c)
	if err != nil {
		return badRequest(c, "Invalid request body")
	}
	res, err := h.searchService.SearchProducts(c.Context(), req)
	if err != nil {
		return respondError(c, h.logger, err, "Product search failed")
	}
	return c.JSON(res)
}

// SearchKnowledge godoc
// @Summary Semantic knowledge base search
// @Description Find active question/answer entries closest to the query
// @Tags search
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param restaurantId path int true "Restaurant ID"
// @Param request body dto.SearchRequest true "Search request"
// @Success 200 {object} service.SearchResult[models.KnowledgeMatch]
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/restaurants/{restaurantId}/search/knowledge [post]
func (h *SearchHandler) SearchKnowledge(c *fiber.Ctx) error {
	req, err := h.parse(c)
	if err != nil {
		return badRequest(c, "Invalid request body")
	}
	res, err := h.searchService.SearchKnowledge(c.Context(), req)
	if err != nil {
		return respondError(c, h.logger, err, "Knowledge search failed")
	}
	return c.JSON(res)
}

// SearchMemories godoc
// @Summary Customer memory search
// @Description Find what the restaurant remembers about one customer, most important first
// @Tags search
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param restaurantId path int true "Restaurant ID"
// @Param request body dto.MemorySearchRequest true "Memory search request"
// @Success 200 {object} service.SearchResult[models.MemoryMatch]
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/restaurants/{restaurantId}/search/memories [post]
func (h *SearchHandler) SearchMemories(c *fiber.Ctx) error {
	var req dto.MemorySearchRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	res, err := h.searchService.SearchMemories(c.Context(), service.SearchRequest{
		RestaurantID:   middleware.RestaurantID(c),
		Query:          req.Query,
		Limit:          req.Limit,
		Threshold:      req.Threshold,
		CustomerPhone:  req.CustomerPhone,
		ConversationID: req.ConversationID,
	})
	if err != nil {
		return respondError(c, h.logger, err, "Memory search failed")
	}
	return c.JSON(res)
}

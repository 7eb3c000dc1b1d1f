package service

import (
	"context"
	"errors"
	"fmt"

	"restaurant-rag/internal/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	enrichProductLimit   = 3
	enrichKnowledgeLimit = 2
	enrichMemoryLimit    = 2
)

type EnrichRequest struct {
	RestaurantID   int64
	Query          string
	CustomerPhone  string
	ConversationID *int64
}

type EnrichedContext struct {
	Products  []models.ProductMatch   `json:"products"`
	Knowledge []models.KnowledgeMatch `json:"knowledge"`
	Memories  []models.MemoryMatch    `json:"memories"`
}

func (c *EnrichedContext) Empty() bool {
	return len(c.Products) == 0 && len(c.Knowledge) == 0 && len(c.Memories) == 0
}

type EnrichmentService struct {
	search  *SearchService
	catalog Catalog
	logger  *zap.Logger
}

func NewEnrichmentService(search *SearchService, catalog Catalog, logger *zap.Logger) *EnrichmentService {
	return &EnrichmentService{
		search:  search,
		catalog: catalog,
		logger:  logger,
	}
}

// Enrich runs the three searches concurrently. A failing search leaves its
// slice empty instead of failing the whole call.
func (s *EnrichmentService) Enrich(ctx context.Context, req EnrichRequest) (*EnrichedContext, error) {
	if normalizeQuery(req.Query) == "" {
		return nil, fmt.Errorf("%w: query is empty", ErrInvalidInput)
	}

	phone := req.CustomerPhone
	if phone == "" && req.ConversationID != nil {
		conv, err := s.catalog.GetConversation(ctx, *req.ConversationID)
		switch {
		case err == nil && conv.RestaurantID == req.RestaurantID:
			phone = conv.CustomerPhone
		case err != nil && !errors.Is(err, models.ErrNotFound):
			s.logger.Warn("Failed to resolve conversation for enrichment",
				zap.Int64("conversation_id", *req.ConversationID),
				zap.Error(err),
			)
		}
	}

	out := &EnrichedContext{
		Products:  []models.ProductMatch{},
		Knowledge: []models.KnowledgeMatch{},
		Memories:  []models.MemoryMatch{},
	}
	base := SearchRequest{
		RestaurantID:   req.RestaurantID,
		Query:          req.Query,
		ConversationID: req.ConversationID,
	}

	var g errgroup.Group
	g.Go(func() error {
		r := base
		r.Limit = enrichProductLimit
		res, err := s.search.SearchProducts(ctx, r)
		if err != nil {
			s.logFailure(models.SearchDomainProducts, err)
			return nil
		}
		out.Products = res.Results
		return nil
	})
	g.Go(func() error {
		r := base
		r.Limit = enrichKnowledgeLimit
		res, err := s.search.SearchKnowledge(ctx, r)
		if err != nil {
			s.logFailure(models.SearchDomainKnowledge, err)
			return nil
		}
		out.Knowledge = res.Results
		return nil
	})
	if phone != "" {
		g.Go(func() error {
			r := base
			r.Limit = enrichMemoryLimit
			r.CustomerPhone = phone
			res, err := s.search.SearchMemories(ctx, r)
			if err != nil {
				s.logFailure(models.SearchDomainMemory, err)
				return nil
			}
			out.Memories = res.Results
			return nil
		})
	}
	_ = g.Wait()

	return out, nil
}

func (s *EnrichmentService) logFailure(domain models.SearchDomain, err error) {
	s.logger.Warn("Enrichment search failed",
		zap.String("search_type", string(domain)),
		zap.Error(err),
	)
}

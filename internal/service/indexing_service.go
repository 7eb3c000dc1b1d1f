package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"restaurant-rag/internal/models"
	"restaurant-rag/internal/vectorstore"
	"restaurant-rag/pkg/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultImportance = 0.5

type IndexStats struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`
}

type KnowledgeInput struct {
	Question string
	Answer   string
	Category string
	Tags     []string
	Priority int
	// Active defaults to true.
	Active *bool
}

type MemoryInput struct {
	ConversationID  *int64
	CustomerPhone   string
	MemoryType      models.MemoryType
	Content         string
	Summary         string
	ImportanceScore *float64
}

// IndexingService embeds and stores products, knowledge entries and memories.
// Every embedding is computed before the write transaction opens.
type IndexingService struct {
	store       vectorstore.Store
	catalog     Catalog
	embeddings  *EmbeddingService
	concurrency int
	logger      *zap.Logger
}

func NewIndexingService(
	store vectorstore.Store,
	catalog Catalog,
	embeddings *EmbeddingService,
	cfg *config.SearchConfig,
	logger *zap.Logger,
) *IndexingService {
	concurrency := cfg.IndexConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	return &IndexingService{
		store:       store,
		catalog:     catalog,
		embeddings:  embeddings,
		concurrency: concurrency,
		logger:      logger,
	}
}

// embedForWrite refuses degraded vectors so the index never stores noise.
func (s *IndexingService) embedForWrite(ctx context.Context, text string) (Embedding, error) {
	emb := s.embeddings.Embed(ctx, text)
	if emb.Degraded {
		return Embedding{}, ErrEmbeddingUnavailable
	}
	return emb, nil
}

// IndexProducts embeds every available product of a restaurant. Products
// whose content and model did not change are skipped unless force is set.
func (s *IndexingService) IndexProducts(ctx context.Context, restaurantID int64, force bool) (*IndexStats, error) {
	if _, err := activeRestaurant(ctx, s.catalog, restaurantID); err != nil {
		return nil, err
	}
	products, err := s.catalog.ListAvailableProducts(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	var (
		mu    sync.Mutex
		stats IndexStats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, p := range products {
		g.Go(func() error {
			outcome, err := s.indexProduct(gctx, p, force)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case errors.Is(err, vectorstore.ErrDimensionMismatch):
				return err
			case err != nil:
				stats.Errors++
				s.logger.Warn("Failed to index product",
					zap.Int64("restaurant_id", restaurantID),
					zap.Int64("product_id", p.ID),
					zap.Error(err),
				)
			case outcome == indexCreated:
				stats.Created++
			case outcome == indexUpdated:
				stats.Updated++
			default:
				stats.Skipped++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Info("Product index rebuilt",
		zap.Int64("restaurant_id", restaurantID),
		zap.Int("created", stats.Created),
		zap.Int("updated", stats.Updated),
		zap.Int("skipped", stats.Skipped),
		zap.Int("errors", stats.Errors),
	)
	return &stats, nil
}

// IndexProduct re-embeds one product of the restaurant.
func (s *IndexingService) IndexProduct(ctx context.Context, restaurantID, productID int64) (*models.ProductEmbedding, error) {
	if _, err := activeRestaurant(ctx, s.catalog, restaurantID); err != nil {
		return nil, err
	}
	p, err := s.catalog.GetProduct(ctx, productID)
	if errors.Is(err, models.ErrNotFound) || (err == nil && p.RestaurantID != restaurantID) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	content := models.ProductSourceText(p)
	emb, err := s.embedForWrite(ctx, content)
	if err != nil {
		return nil, err
	}
	e := &models.ProductEmbedding{
		ProductID:      p.ID,
		RestaurantID:   p.RestaurantID,
		Content:        content,
		Embedding:      emb.Vector,
		EmbeddingModel: emb.Model,
	}
	if _, err := s.store.UpsertProductEmbedding(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

type indexOutcome int

const (
	indexSkipped indexOutcome = iota
	indexCreated
	indexUpdated
)

func (s *IndexingService) indexProduct(ctx context.Context, p *models.Product, force bool) (indexOutcome, error) {
	content := models.ProductSourceText(p)
	if !force {
		current, err := s.store.GetProductEmbedding(ctx, p.ID)
		switch {
		case err == nil && current.Content == content && current.EmbeddingModel == s.embeddings.Provider().Model():
			return indexSkipped, nil
		case err != nil && !errors.Is(err, models.ErrNotFound):
			return indexSkipped, err
		}
	}

	emb, err := s.embedForWrite(ctx, content)
	if err != nil {
		return indexSkipped, err
	}
	inserted, err := s.store.UpsertProductEmbedding(ctx, &models.ProductEmbedding{
		ProductID:      p.ID,
		RestaurantID:   p.RestaurantID,
		Content:        content,
		Embedding:      emb.Vector,
		EmbeddingModel: emb.Model,
	})
	if err != nil {
		return indexSkipped, err
	}
	if inserted {
		return indexCreated, nil
	}
	return indexUpdated, nil
}

func (in *KnowledgeInput) validate() error {
	in.Question = strings.TrimSpace(sanitizeUTF8(in.Question))
	in.Answer = strings.TrimSpace(sanitizeUTF8(in.Answer))
	in.Category = strings.TrimSpace(in.Category)
	in.Tags = normalizeTags(in.Tags)
	if in.Question == "" || in.Answer == "" {
		return fmt.Errorf("%w: question and answer are required", ErrInvalidInput)
	}
	return nil
}

func (s *IndexingService) CreateKnowledgeEntry(ctx context.Context, restaurantID int64, in KnowledgeInput) (*models.KnowledgeEntry, error) {
	return s.writeKnowledge(ctx, restaurantID, uuid.New(), in)
}

// UpdateKnowledgeEntry rewrites and re-embeds an entry. Usage counters are kept.
func (s *IndexingService) UpdateKnowledgeEntry(ctx context.Context, restaurantID int64, id uuid.UUID, in KnowledgeInput) (*models.KnowledgeEntry, error) {
	if _, err := s.store.GetKnowledgeEntry(ctx, restaurantID, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrKnowledgeEntryNotFound
		}
		return nil, err
	}
	return s.writeKnowledge(ctx, restaurantID, id, in)
}

func (s *IndexingService) writeKnowledge(ctx context.Context, restaurantID int64, id uuid.UUID, in KnowledgeInput) (*models.KnowledgeEntry, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := activeRestaurant(ctx, s.catalog, restaurantID); err != nil {
		return nil, err
	}

	content := models.KnowledgeSourceText(in.Question, in.Answer, in.Tags)
	emb, err := s.embedForWrite(ctx, content)
	if err != nil {
		return nil, err
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}
	e := &models.KnowledgeEntry{
		ID:                id,
		RestaurantID:      restaurantID,
		Question:          in.Question,
		Answer:            in.Answer,
		Category:          in.Category,
		Tags:              in.Tags,
		SearchableContent: content,
		Embedding:         emb.Vector,
		EmbeddingModel:    emb.Model,
		Active:            active,
		Priority:          in.Priority,
	}
	if _, err := s.store.UpsertKnowledgeEntry(ctx, e); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrKnowledgeEntryNotFound
		}
		return nil, err
	}
	return e, nil
}

// StoreMemory remembers a fact about a customer. A referenced conversation
// must belong to the restaurant and supplies the customer phone.
func (s *IndexingService) StoreMemory(ctx context.Context, restaurantID int64, in MemoryInput) (*models.ConversationMemory, error) {
	if !in.MemoryType.Valid() {
		return nil, fmt.Errorf("%w: unknown memory type %q", ErrInvalidInput, in.MemoryType)
	}
	importance := defaultImportance
	if in.ImportanceScore != nil {
		importance = *in.ImportanceScore
	}
	if importance < 0 || importance > 1 {
		return nil, fmt.Errorf("%w: importance score must be within [0, 1]", ErrInvalidInput)
	}
	content := strings.TrimSpace(sanitizeUTF8(in.Content))
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	if _, err := activeRestaurant(ctx, s.catalog, restaurantID); err != nil {
		return nil, err
	}

	phone := strings.TrimSpace(in.CustomerPhone)
	if in.ConversationID != nil {
		conv, err := s.catalog.GetConversation(ctx, *in.ConversationID)
		if errors.Is(err, models.ErrNotFound) || (err == nil && conv.RestaurantID != restaurantID) {
			return nil, ErrConversationNotFound
		}
		if err != nil {
			return nil, err
		}
		phone = conv.CustomerPhone
	}
	if phone == "" {
		return nil, fmt.Errorf("%w: customer phone or conversation is required", ErrInvalidInput)
	}

	summary := strings.TrimSpace(sanitizeUTF8(in.Summary))
	emb, err := s.embedForWrite(ctx, models.MemorySourceText(content, summary))
	if err != nil {
		return nil, err
	}

	m := &models.ConversationMemory{
		RestaurantID:    restaurantID,
		ConversationID:  in.ConversationID,
		CustomerPhone:   phone,
		MemoryType:      in.MemoryType,
		Content:         content,
		Summary:         summary,
		ImportanceScore: importance,
		Embedding:       emb.Vector,
		EmbeddingModel:  emb.Model,
	}
	if _, err := s.store.UpsertMemory(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"restaurant-rag/internal/models"
	"restaurant-rag/internal/vectorstore"
	"restaurant-rag/pkg/config"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	defaultKnowledgeLimit = 3
	defaultMemoryLimit    = 3
)

type SearchRequest struct {
	RestaurantID int64
	Query        string
	Limit        int
	// Threshold overrides the domain default when set.
	Threshold      *float64
	Category       string
	CustomerPhone  string
	ConversationID *int64
}

type SearchResult[T any] struct {
	Results      []T               `json:"results"`
	SearchPath   models.SearchPath `json:"search_path"`
	Degraded     bool              `json:"degraded"`
	SearchTimeMS int64             `json:"search_time_ms"`
}

// SearchService runs semantic searches over products, knowledge entries and
// customer memories, and logs every search.
type SearchService struct {
	store      vectorstore.Store
	embeddings *EmbeddingService
	analytics  *AnalyticsService
	cfg        config.SearchConfig
	caps       atomic.Pointer[vectorstore.Capabilities]
	tracer     trace.Tracer
	logger     *zap.Logger
}

func NewSearchService(
	store vectorstore.Store,
	embeddings *EmbeddingService,
	analytics *AnalyticsService,
	cfg *config.SearchConfig,
	logger *zap.Logger,
) *SearchService {
	s := &SearchService{
		store:      store,
		embeddings: embeddings,
		analytics:  analytics,
		cfg:        *cfg,
		tracer:     otel.Tracer("restaurant-rag/service"),
		logger:     logger,
	}
	s.caps.Store(&vectorstore.Capabilities{})
	return s
}

// Init validates the stored vector dimension against the provider and
// probes the native search paths. A dimension mismatch is fatal.
func (s *SearchService) Init(ctx context.Context) error {
	if s.store.Dimension() != s.embeddings.Dimension() {
		return fmt.Errorf("%w: store expects %d dimensions, provider produces %d",
			vectorstore.ErrDimensionMismatch, s.store.Dimension(), s.embeddings.Dimension())
	}
	if err := s.store.EnsureDimension(ctx, s.embeddings.Provider().Model()); err != nil {
		return err
	}
	s.Reprobe(ctx)
	return nil
}

// Reprobe refreshes which collections use the native path.
func (s *SearchService) Reprobe(ctx context.Context) vectorstore.Capabilities {
	caps, err := s.store.ProbeNative(ctx)
	if err != nil {
		s.logger.Warn("Native search probe failed, using scan path only", zap.Error(err))
		caps = vectorstore.Capabilities{}
	}
	s.caps.Store(&caps)
	s.logger.Info("Native search capabilities",
		zap.Bool("products", caps.Products),
		zap.Bool("knowledge", caps.Knowledge),
		zap.Bool("memories", caps.Memories),
	)
	return caps
}

func (s *SearchService) Capabilities() vectorstore.Capabilities { return *s.caps.Load() }

func (s *SearchService) SearchProducts(ctx context.Context, req SearchRequest) (*SearchResult[models.ProductMatch], error) {
	return runSearch(ctx, s, domainSearch[models.ProductMatch]{
		domain:       models.SearchDomainProducts,
		threshold:    s.cfg.ProductThreshold,
		defaultLimit: s.cfg.DefaultLimit,
		nearest:      vectorstore.Searcher.NearestProducts,
		similarity:   func(m models.ProductMatch) float64 { return m.Similarity },
	}, req)
}

// SearchKnowledge searches active entries and bumps usage_count of every returned entry.
func (s *SearchService) SearchKnowledge(ctx context.Context, req SearchRequest) (*SearchResult[models.KnowledgeMatch], error) {
	return runSearch(ctx, s, domainSearch[models.KnowledgeMatch]{
		domain:       models.SearchDomainKnowledge,
		threshold:    s.cfg.KnowledgeThreshold,
		defaultLimit: defaultKnowledgeLimit,
		nearest:      vectorstore.Searcher.NearestKnowledge,
		similarity:   func(m models.KnowledgeMatch) float64 { return m.Similarity },
		id:           func(m models.KnowledgeMatch) uuid.UUID { return m.ID },
		increment:    s.store.IncrementKnowledgeUsage,
	}, req)
}

// SearchMemories ranks the memories of one customer by importance first.
// There is no similarity threshold unless the request sets one.
func (s *SearchService) SearchMemories(ctx context.Context, req SearchRequest) (*SearchResult[models.MemoryMatch], error) {
	if req.CustomerPhone == "" {
		return nil, fmt.Errorf("%w: customer phone is required", ErrInvalidInput)
	}
	req.Category = ""
	return runSearch(ctx, s, domainSearch[models.MemoryMatch]{
		domain:       models.SearchDomainMemory,
		threshold:    0,
		defaultLimit: defaultMemoryLimit,
		nearest:      vectorstore.Searcher.NearestMemories,
		similarity:   func(m models.MemoryMatch) float64 { return m.Similarity },
		id:           func(m models.MemoryMatch) uuid.UUID { return m.ID },
		increment:    s.store.IncrementMemoryAccess,
	}, req)
}

type domainSearch[T any] struct {
	domain       models.SearchDomain
	threshold    float64
	defaultLimit int
	nearest      func(vectorstore.Searcher, context.Context, vectorstore.Query) ([]T, error)
	similarity   func(T) float64
	// id and increment are set for collections with usage counters.
	id        func(T) uuid.UUID
	increment func(context.Context, []uuid.UUID) error
}

func (s *SearchService) limit(requested, def int) int {
	if requested <= 0 {
		requested = def
	}
	if s.cfg.MaxLimit > 0 && requested > s.cfg.MaxLimit {
		requested = s.cfg.MaxLimit
	}
	return requested
}

func runSearch[T any](ctx context.Context, s *SearchService, d domainSearch[T], req SearchRequest) (*SearchResult[T], error) {
	query := normalizeQuery(req.Query)
	if req.RestaurantID <= 0 {
		return nil, fmt.Errorf("%w: restaurant id must be positive", ErrInvalidInput)
	}
	if query == "" {
		return nil, fmt.Errorf("%w: query is empty", ErrInvalidInput)
	}
	threshold := d.threshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("%w: threshold must be within [0, 1]", ErrInvalidInput)
	}

	ctx, span := s.tracer.Start(ctx, "search."+string(d.domain), trace.WithAttributes(
		attribute.Int64("restaurant_id", req.RestaurantID),
	))
	defer span.End()

	start := time.Now()
	emb := s.embeddings.Embed(ctx, query)

	q := vectorstore.Query{
		RestaurantID:  req.RestaurantID,
		Vector:        emb.Vector,
		Limit:         s.limit(req.Limit, d.defaultLimit),
		Threshold:     threshold,
		Category:      req.Category,
		CustomerPhone: req.CustomerPhone,
	}
	searchCtx := ctx
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		searchCtx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}
	results, path, err := nearest(searchCtx, s, d, q)
	elapsed := time.Since(start)

	entry := &models.SearchLog{
		RestaurantID:    req.RestaurantID,
		ConversationID:  req.ConversationID,
		Query:           query,
		SearchType:      d.domain,
		Embedding:       emb.Vector,
		ResultsFound:    len(results),
		SearchTimeMS:    elapsed.Milliseconds(),
		EmbeddingTimeMS: emb.Duration.Milliseconds(),
		SearchPath:      path,
		Degraded:        emb.Degraded,
	}
	for _, r := range results {
		entry.TopSimilarity = max(entry.TopSimilarity, d.similarity(r))
	}
	s.analytics.Record(ctx, entry)

	span.SetAttributes(
		attribute.String("search.path", string(path)),
		attribute.Int("search.results", len(results)),
		attribute.Bool("search.degraded", emb.Degraded),
	)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if d.increment != nil && len(results) > 0 {
		ids := make([]uuid.UUID, len(results))
		for i, r := range results {
			ids[i] = d.id(r)
		}
		if err := d.increment(ctx, ids); err != nil {
			s.logger.Warn("Failed to update usage counters",
				zap.String("search_type", string(d.domain)),
				zap.Int("records", len(ids)),
				zap.Error(err),
			)
		}
	}

	s.logger.Debug("Search completed",
		zap.Int64("restaurant_id", req.RestaurantID),
		zap.String("search_type", string(d.domain)),
		zap.String("search_path", string(path)),
		zap.Int("results", len(results)),
		zap.Bool("degraded", emb.Degraded),
		zap.Duration("elapsed", elapsed),
	)

	if results == nil {
		results = []T{}
	}
	return &SearchResult[T]{
		Results:      results,
		SearchPath:   path,
		Degraded:     emb.Degraded,
		SearchTimeMS: elapsed.Milliseconds(),
	}, nil
}

// nearest tries the native path when the probe allows it, then the scan
// path. When both fail the search yields nothing. Only a dimension mismatch
// is returned as an error.
func nearest[T any](ctx context.Context, s *SearchService, d domainSearch[T], q vectorstore.Query) ([]T, models.SearchPath, error) {
	if s.Capabilities().Has(d.domain) {
		results, err := d.nearest(s.store.Native(), ctx, q)
		if err == nil {
			return results, models.SearchPathNative, nil
		}
		if errors.Is(err, vectorstore.ErrDimensionMismatch) {
			return nil, models.SearchPathNone, err
		}
		s.logger.Warn("Native search failed, falling back to scan",
			zap.String("search_type", string(d.domain)),
			zap.Error(err),
		)
	}

	results, err := d.nearest(s.store.Scan(), ctx, q)
	if err == nil {
		return results, models.SearchPathScan, nil
	}
	if errors.Is(err, vectorstore.ErrDimensionMismatch) {
		return nil, models.SearchPathNone, err
	}
	s.logger.Error("Search failed on every path",
		zap.String("search_type", string(d.domain)),
		zap.Int64("restaurant_id", q.RestaurantID),
		zap.Error(err),
	)
	return nil, models.SearchPathNone, nil
}

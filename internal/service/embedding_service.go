package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"restaurant-rag/internal/embedding"
	"restaurant-rag/pkg/config"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Embedding is the outcome of one embedding call. Vector is shared with the
// cache and must not be modified.
type Embedding struct {
	Vector   []float32
	Model    string
	Duration time.Duration
	Degraded bool
}

type EmbeddingService struct {
	provider embedding.Provider
	cache    *lru.Cache[string, []float32]
	timeout  time.Duration
	tracer   trace.Tracer
	logger   *zap.Logger
}

func NewEmbeddingService(provider embedding.Provider, cfg *config.EmbeddingConfig, logger *zap.Logger) (*EmbeddingService, error) {
	s := &EmbeddingService{
		provider: provider,
		timeout:  cfg.Timeout,
		tracer:   otel.Tracer("restaurant-rag/service"),
		logger:   logger,
	}
	if cfg.CacheSize > 0 {
		cache, err := lru.New[string, []float32](cfg.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("embedding cache: %w", err)
		}
		s.cache = cache
	}
	return s, nil
}

func (s *EmbeddingService) Provider() embedding.Provider { return s.provider }

func (s *EmbeddingService) Dimension() int { return s.provider.Dimension() }

// Embed never fails. When the provider errors or times out the result is a
// deterministic degraded vector of the right dimension.
func (s *EmbeddingService) Embed(ctx context.Context, text string) Embedding {
	text = strings.TrimSpace(sanitizeUTF8(text))
	start := time.Now()

	ctx, span := s.tracer.Start(ctx, "embedding.embed", trace.WithAttributes(
		attribute.String("embedding.provider", s.provider.Name()),
		attribute.Int("embedding.text_length", len(text)),
	))
	defer span.End()

	if s.cache != nil {
		if vec, ok := s.cache.Get(text); ok {
			span.SetAttributes(attribute.Bool("embedding.cached", true))
			return Embedding{Vector: vec, Model: s.provider.Model(), Duration: time.Since(start)}
		}
	}

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	vec, err := s.provider.Embed(callCtx, text)
	if err == nil && len(vec) != s.provider.Dimension() {
		err = fmt.Errorf("provider returned %d dimensions, want %d", len(vec), s.provider.Dimension())
	}
	if err != nil {
		s.logger.Warn("Embedding failed, using degraded vector",
			zap.String("provider", s.provider.Name()),
			zap.Int("text_length", len(text)),
			zap.Error(err),
		)
		span.SetAttributes(attribute.Bool("embedding.degraded", true))
		span.RecordError(err)
		return Embedding{
			Vector:   embedding.Degraded(text, s.provider.Dimension()),
			Model:    s.provider.Model(),
			Duration: time.Since(start),
			Degraded: true,
		}
	}

	if s.cache != nil {
		s.cache.Add(text, vec)
	}
	return Embedding{Vector: vec, Model: s.provider.Model(), Duration: time.Since(start)}
}

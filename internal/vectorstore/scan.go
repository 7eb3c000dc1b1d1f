package vectorstore

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"slices"

	"restaurant-rag/internal/models"
)

// ScanSearcher ranks candidates in process. It only needs elementary cosine
// math, so it works on any backend that can list a tenant's rows.
type ScanSearcher struct {
	src CandidateSource
	dim int
}

func NewScanSearcher(src CandidateSource, dim int) *ScanSearcher {
	return &ScanSearcher{src: src, dim: dim}
}

func (s *ScanSearcher) NearestProducts(ctx context.Context, q Query) ([]models.ProductMatch, error) {
	if err := CheckDimension(q.Vector, s.dim); err != nil {
		return nil, err
	}
	candidates, err := s.src.ProductCandidates(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("load product candidates: %w", err)
	}

	matches := make([]models.ProductMatch, 0, len(candidates))
	for _, c := range candidates {
		d, ok, err := s.score(q, c.Embedding)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", c.Match.ProductID, err)
		}
		if !ok {
			continue
		}
		m := c.Match
		m.Distance, m.Similarity = d, Similarity(d)
		matches = append(matches, m)
	}
	slices.SortStableFunc(matches, CompareProducts)
	return capLimit(matches, q.Limit), nil
}

func (s *ScanSearcher) NearestKnowledge(ctx context.Context, q Query) ([]models.KnowledgeMatch, error) {
	if err := CheckDimension(q.Vector, s.dim); err != nil {
		return nil, err
	}
	candidates, err := s.src.KnowledgeCandidates(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("load knowledge candidates: %w", err)
	}

	matches := make([]models.KnowledgeMatch, 0, len(candidates))
	for _, c := range candidates {
		d, ok, err := s.score(q, c.Embedding)
		if err != nil {
			return nil, fmt.Errorf("knowledge entry %s: %w", c.Match.ID, err)
		}
		if !ok {
			continue
		}
		m := c.Match
		m.Distance, m.Similarity = d, Similarity(d)
		matches = append(matches, m)
	}
	slices.SortStableFunc(matches, CompareKnowledge)
	return capLimit(matches, q.Limit), nil
}

func (s *ScanSearcher) NearestMemories(ctx context.Context, q Query) ([]models.MemoryMatch, error) {
	if err := CheckDimension(q.Vector, s.dim); err != nil {
		return nil, err
	}
	candidates, err := s.src.MemoryCandidates(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("load memory candidates: %w", err)
	}

	matches := make([]models.MemoryMatch, 0, len(candidates))
	for _, c := range candidates {
		d, ok, err := s.score(q, c.Embedding)
		if err != nil {
			return nil, fmt.Errorf("memory %s: %w", c.Match.ID, err)
		}
		if !ok {
			continue
		}
		m := c.Match
		m.Distance, m.Similarity = d, Similarity(d)
		matches = append(matches, m)
	}
	slices.SortStableFunc(matches, CompareMemories)
	return capLimit(matches, q.Limit), nil
}

// score returns the distance and whether the candidate passes the inclusive threshold.
func (s *ScanSearcher) score(q Query, embedding []float32) (float64, bool, error) {
	if err := CheckDimension(embedding, s.dim); err != nil {
		return 0, false, err
	}
	d := CosineDistance(q.Vector, embedding)
	return d, Similarity(d) >= q.Threshold, nil
}

// CompareProducts orders by distance, then product id.
func CompareProducts(a, b models.ProductMatch) int {
	if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
		return c
	}
	return cmp.Compare(a.ProductID, b.ProductID)
}

// CompareKnowledge orders by distance, then higher priority, then id.
func CompareKnowledge(a, b models.KnowledgeMatch) int {
	if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Priority, a.Priority); c != 0 {
		return c
	}
	return bytes.Compare(a.ID[:], b.ID[:])
}

// CompareMemories puts importance first: an important memory outranks a closer one.
func CompareMemories(a, b models.MemoryMatch) int {
	if c := cmp.Compare(b.ImportanceScore, a.ImportanceScore); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
		return c
	}
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return bytes.Compare(a.ID[:], b.ID[:])
}

func capLimit[T any](s []T, limit int) []T {
	if limit > 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}

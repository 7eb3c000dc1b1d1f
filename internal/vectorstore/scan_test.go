package vectorstore

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"restaurant-rag/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	products  []ProductCandidate
	knowledge []KnowledgeCandidate
	memories  []MemoryCandidate
	err       error
}

func (f *fakeSource) ProductCandidates(context.Context, Query) ([]ProductCandidate, error) {
	return f.products, f.err
}

func (f *fakeSource) KnowledgeCandidates(context.Context, Query) ([]KnowledgeCandidate, error) {
	return f.knowledge, f.err
}

func (f *fakeSource) MemoryCandidates(context.Context, Query) ([]MemoryCandidate, error) {
	return f.memories, f.err
}

func TestScanSearcher_ThresholdIsInclusive(t *testing.T) {
	query := []float32{1, 0, 0}
	near := []float32{0.8, 0.6, 0}
	src := &fakeSource{products: []ProductCandidate{
		{Match: models.ProductMatch{ProductID: 7, Name: "Arepa"}, Embedding: near},
	}}
	s := NewScanSearcher(src, 3)

	exact := Similarity(CosineDistance(query, near))

	got, err := s.NearestProducts(context.Background(), Query{Vector: query, Threshold: exact, Limit: 5})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, exact, got[0].Similarity)

	got, err = s.NearestProducts(context.Background(), Query{Vector: query, Threshold: math.Nextafter(exact, 2), Limit: 5})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestScanSearcher_SelfSimilarity(t *testing.T) {
	v := []float32{0.3, -0.2, 0.9, 0.1}
	src := &fakeSource{knowledge: []KnowledgeCandidate{
		{Match: models.KnowledgeMatch{ID: uuid.New(), Question: "¿Horario?"}, Embedding: v},
	}}
	s := NewScanSearcher(src, 4)

	got, err := s.NearestKnowledge(context.Background(), Query{Vector: v, Threshold: 0.99, Limit: 3})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, 1.0, got[0].Similarity, 1e-6)
	assert.GreaterOrEqual(t, got[0].Similarity, 0.99)
}

func TestScanSearcher_MemoryImportanceDominatesSimilarity(t *testing.T) {
	query := []float32{1, 0}
	important := MemoryCandidate{
		Match:     models.MemoryMatch{ID: uuid.New(), Content: "alérgico al maní", ImportanceScore: 0.9},
		Embedding: []float32{0.2, 0.98},
	}
	similar := MemoryCandidate{
		Match:     models.MemoryMatch{ID: uuid.New(), Content: "pidió arepas", ImportanceScore: 0.5},
		Embedding: []float32{0.9, 0.43},
	}
	s := NewScanSearcher(&fakeSource{memories: []MemoryCandidate{similar, important}}, 2)

	got, err := s.NearestMemories(context.Background(), Query{Vector: query, Limit: 2})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, important.Match.ID, got[0].ID)
	assert.Equal(t, similar.Match.ID, got[1].ID)
	assert.Less(t, got[0].Similarity, got[1].Similarity)
}

func TestScanSearcher_ProductTieBreakAndLimit(t *testing.T) {
	v := []float32{0, 1}
	src := &fakeSource{products: []ProductCandidate{
		{Match: models.ProductMatch{ProductID: 30}, Embedding: v},
		{Match: models.ProductMatch{ProductID: 10}, Embedding: v},
		{Match: models.ProductMatch{ProductID: 20}, Embedding: v},
		{Match: models.ProductMatch{ProductID: 5}, Embedding: []float32{1, 0}},
	}}
	s := NewScanSearcher(src, 2)

	got, err := s.NearestProducts(context.Background(), Query{Vector: v, Limit: 2})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(10), got[0].ProductID)
	assert.Equal(t, int64(20), got[1].ProductID)
}

func TestCompareKnowledge_PriorityBreaksDistanceTies(t *testing.T) {
	low := models.KnowledgeMatch{ID: uuid.New(), Priority: 1, Distance: 0.2}
	high := models.KnowledgeMatch{ID: uuid.New(), Priority: 5, Distance: 0.2}
	closer := models.KnowledgeMatch{ID: uuid.New(), Priority: 0, Distance: 0.1}

	assert.Negative(t, CompareKnowledge(high, low))
	assert.Negative(t, CompareKnowledge(closer, high))
}

func TestCompareMemories_NewestFirstOnTies(t *testing.T) {
	now := time.Now()
	older := models.MemoryMatch{ID: uuid.New(), ImportanceScore: 0.5, Distance: 0.3, CreatedAt: now.Add(-time.Hour)}
	newer := models.MemoryMatch{ID: uuid.New(), ImportanceScore: 0.5, Distance: 0.3, CreatedAt: now}

	assert.Negative(t, CompareMemories(newer, older))
}

func TestScanSearcher_DimensionMismatch(t *testing.T) {
	s := NewScanSearcher(&fakeSource{}, 3)
	_, err := s.NearestProducts(context.Background(), Query{Vector: []float32{1, 0}})
	assert.True(t, errors.Is(err, ErrDimensionMismatch))

	s = NewScanSearcher(&fakeSource{memories: []MemoryCandidate{
		{Match: models.MemoryMatch{ID: uuid.New()}, Embedding: []float32{1, 0}},
	}}, 3)
	_, err = s.NearestMemories(context.Background(), Query{Vector: []float32{1, 0, 0}})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestScanSearcher_SourceError(t *testing.T) {
	boom := errors.New("connection reset")
	s := NewScanSearcher(&fakeSource{err: boom}, 2)
	_, err := s.NearestKnowledge(context.Background(), Query{Vector: []float32{1, 0}})
	assert.ErrorIs(t, err, boom)
}

func TestSimilarity_Clamped(t *testing.T) {
	assert.Equal(t, 0.0, Similarity(1.7))
	assert.Equal(t, 1.0, Similarity(-0.0000001))
	assert.InDelta(t, 0.25, Similarity(0.75), 1e-12)
}

func TestCosineDistance_ZeroVector(t *testing.T) {
	assert.Equal(t, 1.0, CosineDistance([]float32{0, 0}, []float32{1, 0}))
}

func TestParseVector(t *testing.T) {
	v := []float32{0.5, -1.25, 3e-7}
	got, err := ParseVector(FormatVector(v))
	require.NoError(t, err)
	assert.Equal(t, v, got)

	_, err = ParseVector("0.5,1")
	assert.Error(t, err)
	_, err = ParseVector("[0.5,abc]")
	assert.Error(t, err)
}

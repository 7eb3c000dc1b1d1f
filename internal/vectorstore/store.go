// Package vectorstore defines how embedded records are stored and ranked,
// independent of the database backing them.
package vectorstore

import (
	"context"

	"restaurant-rag/internal/models"

	"github.com/google/uuid"
)

// Query is a tenant-scoped nearest-neighbour request.
type Query struct {
	RestaurantID  int64
	Vector        []float32
	Limit         int
	Threshold     float64
	Category      string // products and knowledge only
	CustomerPhone string // memories only
}

// Capabilities declares which collections have a native search path.
type Capabilities struct {
	Products  bool `json:"products"`
	Knowledge bool `json:"knowledge"`
	Memories  bool `json:"memories"`
}

func (c Capabilities) Has(domain models.SearchDomain) bool {
	switch domain {
	case models.SearchDomainProducts:
		return c.Products
	case models.SearchDomainKnowledge:
		return c.Knowledge
	case models.SearchDomainMemory:
		return c.Memories
	}
	return false
}

// Searcher returns ranked matches with Similarity and Distance filled in.
type Searcher interface {
	NearestProducts(ctx context.Context, q Query) ([]models.ProductMatch, error)
	NearestKnowledge(ctx context.Context, q Query) ([]models.KnowledgeMatch, error)
	NearestMemories(ctx context.Context, q Query) ([]models.MemoryMatch, error)
}

type ProductCandidate struct {
	Match     models.ProductMatch
	Embedding []float32
}

type KnowledgeCandidate struct {
	Match     models.KnowledgeMatch
	Embedding []float32
}

type MemoryCandidate struct {
	Match     models.MemoryMatch
	Embedding []float32
}

// CandidateSource loads every tenant-visible record of a collection together with
// its vector. Filters other than similarity are applied by the source.
type CandidateSource interface {
	ProductCandidates(ctx context.Context, q Query) ([]ProductCandidate, error)
	KnowledgeCandidates(ctx context.Context, q Query) ([]KnowledgeCandidate, error)
	MemoryCandidates(ctx context.Context, q Query) ([]MemoryCandidate, error)
}

// Store is the vector store accessor implemented by every database backend.
type Store interface {
	Dimension() int
	// EnsureDimension records the dimension and model on first use and fails
	// with ErrDimensionMismatch when the database was created with another dimension.
	EnsureDimension(ctx context.Context, model string) error
	ProbeNative(ctx context.Context) (Capabilities, error)
	Native() Searcher
	Scan() Searcher

	// Upserts report whether a new row was inserted.
	UpsertProductEmbedding(ctx context.Context, e *models.ProductEmbedding) (bool, error)
	UpsertKnowledgeEntry(ctx context.Context, e *models.KnowledgeEntry) (bool, error)
	UpsertMemory(ctx context.Context, m *models.ConversationMemory) (bool, error)

	GetProductEmbedding(ctx context.Context, productID int64) (*models.ProductEmbedding, error)
	GetKnowledgeEntry(ctx context.Context, restaurantID int64, id uuid.UUID) (*models.KnowledgeEntry, error)

	IncrementKnowledgeUsage(ctx context.Context, ids []uuid.UUID) error
	IncrementMemoryAccess(ctx context.Context, ids []uuid.UUID) error
}

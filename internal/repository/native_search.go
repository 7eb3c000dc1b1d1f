package repository

import (
	"context"

	"restaurant-rag/internal/models"
	"restaurant-rag/internal/vectorstore"

	"github.com/pgvector/pgvector-go"
)

const (
	matchProductsSQL = `SELECT product_id, name, description, category, price, content, distance
		FROM match_products($1, $2, $3, $4, $5)`
	matchKnowledgeSQL = `SELECT id, question, answer, category, tags, priority, usage_count, distance
		FROM match_knowledge($1, $2, $3, $4, $5)`
	matchMemoriesSQL = `SELECT id, memory_type, content, summary, importance_score, access_count, created_at, distance
		FROM match_memories($1, $2, $3, $4, $5)`
)

// nativeSearcher delegates ranking to the match_* SQL functions.
type nativeSearcher struct {
	store *VectorStore
}

func (n *nativeSearcher) NearestProducts(ctx context.Context, q vectorstore.Query) ([]models.ProductMatch, error) {
	if err := vectorstore.CheckDimension(q.Vector, n.store.dim); err != nil {
		return nil, err
	}
	rows, err := n.store.db.Query(ctx, matchProductsSQL,
		pgvector.NewVector(q.Vector), q.RestaurantID, q.Threshold, matchCount(q.Limit), optional(q.Category))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ProductMatch
	for rows.Next() {
		var m models.ProductMatch
		if err := rows.Scan(&m.ProductID, &m.Name, &m.Description, &m.Category, &m.Price, &m.Content, &m.Distance); err != nil {
			return nil, err
		}
		m.Similarity = vectorstore.Similarity(m.Distance)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (n *nativeSearcher) NearestKnowledge(ctx context.Context, q vectorstore.Query) ([]models.KnowledgeMatch, error) {
	if err := vectorstore.CheckDimension(q.Vector, n.store.dim); err != nil {
		return nil, err
	}
	rows, err := n.store.db.Query(ctx, matchKnowledgeSQL,
		pgvector.NewVector(q.Vector), q.RestaurantID, q.Threshold, matchCount(q.Limit), optional(q.Category))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.KnowledgeMatch
	for rows.Next() {
		var m models.KnowledgeMatch
		if err := rows.Scan(&m.ID, &m.Question, &m.Answer, &m.Category, &m.Tags, &m.Priority, &m.UsageCount, &m.Distance); err != nil {
			return nil, err
		}
		m.Similarity = vectorstore.Similarity(m.Distance)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (n *nativeSearcher) NearestMemories(ctx context.Context, q vectorstore.Query) ([]models.MemoryMatch, error) {
	if err := vectorstore.CheckDimension(q.Vector, n.store.dim); err != nil {
		return nil, err
	}
	rows, err := n.store.db.Query(ctx, matchMemoriesSQL,
		pgvector.NewVector(q.Vector), q.RestaurantID, q.CustomerPhone, q.Threshold, matchCount(q.Limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.MemoryMatch
	for rows.Next() {
		var (
			m          models.MemoryMatch
			memoryType string
		)
		if err := rows.Scan(&m.ID, &memoryType, &m.Content, &m.Summary, &m.ImportanceScore, &m.AccessCount, &m.CreatedAt, &m.Distance); err != nil {
			return nil, err
		}
		m.MemoryType = models.MemoryType(memoryType)
		m.Similarity = vectorstore.Similarity(m.Distance)
		out = append(out, m)
	}
	return out, rows.Err()
}

// matchCount maps "no limit" to the largest count the SQL functions accept.
func matchCount(limit int) int32 {
	if limit <= 0 {
		return 1<<31 - 1
	}
	return int32(limit)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

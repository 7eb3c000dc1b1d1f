package sqlitestore

import (
	"context"

	"restaurant-rag/internal/models"
	"restaurant-rag/internal/vectorstore"

	"github.com/Masterminds/squirrel"
)

// clampedSimilarity mirrors vectorstore.Similarity in SQL.
const clampedSimilarity = "MIN(1.0, MAX(0.0, 1.0 - distance))"

// nativeSearcher ranks inside SQLite with vec_cosine_distance.
type nativeSearcher struct {
	store *Store
}

// ranked wraps a candidate query with its distance column, then filters,
// orders and limits on the outer select.
func ranked(inner squirrel.SelectBuilder, embeddingColumn string, q vectorstore.Query, orderBy ...string) (string, []any, error) {
	inner = inner.Column(distanceFunction+"("+embeddingColumn+", ?) AS distance", vectorstore.FormatVector(q.Vector))
	outer := squirrel.Select("*").
		FromSelect(inner, "c").
		Where(clampedSimilarity+" >= ?", q.Threshold).
		OrderBy(orderBy...)
	if q.Limit > 0 {
		outer = outer.Limit(uint64(q.Limit))
	}
	return outer.ToSql()
}

func (n *nativeSearcher) NearestProducts(ctx context.Context, q vectorstore.Query) ([]models.ProductMatch, error) {
	if err := vectorstore.CheckDimension(q.Vector, n.store.dim); err != nil {
		return nil, err
	}
	query, args, err := ranked(productCandidateQuery(q), "pe.embedding", q, "distance ASC", "product_id ASC")
	if err != nil {
		return nil, err
	}
	var rows []productCandidateRow
	if err := n.store.read.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	out := make([]models.ProductMatch, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.match())
	}
	return out, nil
}

func (n *nativeSearcher) NearestKnowledge(ctx context.Context, q vectorstore.Query) ([]models.KnowledgeMatch, error) {
	if err := vectorstore.CheckDimension(q.Vector, n.store.dim); err != nil {
		return nil, err
	}
	query, args, err := ranked(knowledgeCandidateQuery(q), "embedding", q, "distance ASC", "priority DESC", "id ASC")
	if err != nil {
		return nil, err
	}
	var rows []knowledgeRow
	if err := n.store.read.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	out := make([]models.KnowledgeMatch, 0, len(rows))
	for _, r := range rows {
		m, err := r.match()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (n *nativeSearcher) NearestMemories(ctx context.Context, q vectorstore.Query) ([]models.MemoryMatch, error) {
	if err := vectorstore.CheckDimension(q.Vector, n.store.dim); err != nil {
		return nil, err
	}
	query, args, err := ranked(memoryCandidateQuery(q), "embedding", q,
		"importance_score DESC", "distance ASC", "created_at DESC", "id ASC")
	if err != nil {
		return nil, err
	}
	var rows []memoryRow
	if err := n.store.read.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	out := make([]models.MemoryMatch, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.match())
	}
	return out, nil
}

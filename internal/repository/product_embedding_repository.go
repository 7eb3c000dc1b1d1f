package repository

import (
	"context"
	"fmt"
	"time"

	"restaurant-rag/internal/models"
	"restaurant-rag/internal/vectorstore"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// UpsertProductEmbedding inserts or replaces the embedding of e.ProductID.
func (s *VectorStore) UpsertProductEmbedding(ctx context.Context, e *models.ProductEmbedding) (bool, error) {
	if err := vectorstore.CheckDimension(e.Embedding, s.dim); err != nil {
		return false, err
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	now := time.Now().UTC()

	query := squirrel.Insert("product_embeddings").
		Columns("id", "product_id", "restaurant_id", "content", "embedding", "embedding_model", "created_at", "updated_at").
		Values(e.ID, e.ProductID, e.RestaurantID, e.Content, pgvector.NewVector(e.Embedding), e.EmbeddingModel, now, now).
		Suffix(`ON CONFLICT (product_id) DO UPDATE SET
			restaurant_id = EXCLUDED.restaurant_id,
			content = EXCLUDED.content,
			embedding = EXCLUDED.embedding,
			embedding_model = EXCLUDED.embedding_model,
			updated_at = EXCLUDED.updated_at
			RETURNING id, created_at, updated_at, (xmax = 0)`).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return false, err
	}

	var inserted bool
	if err := s.db.QueryRow(ctx, sql, args...).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt, &inserted); err != nil {
		return false, fmt.Errorf("upsert product embedding %d: %w", e.ProductID, err)
	}
	return inserted, nil
}

func (s *VectorStore) GetProductEmbedding(ctx context.Context, productID int64) (*models.ProductEmbedding, error) {
	sql, args, err := squirrel.Select("id", "product_id", "restaurant_id", "content", "embedding", "embedding_model", "created_at", "updated_at").
		From("product_embeddings").
		Where(squirrel.Eq{"product_id": productID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var (
		e   models.ProductEmbedding
		vec pgvector.Vector
	)
	err = s.db.QueryRow(ctx, sql, args...).Scan(
		&e.ID, &e.ProductID, &e.RestaurantID, &e.Content, &vec, &e.EmbeddingModel, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	e.Embedding = vec.Slice()
	return &e, nil
}

func (s *VectorStore) ProductCandidates(ctx context.Context, q vectorstore.Query) ([]vectorstore.ProductCandidate, error) {
	query := squirrel.Select("p.id", "p.name", "p.description", "p.category", "p.price::DOUBLE PRECISION", "pe.content", "pe.embedding").
		From("product_embeddings pe").
		Join("products p ON p.id = pe.product_id").
		Where(squirrel.Eq{"pe.restaurant_id": q.RestaurantID, "p.restaurant_id": q.RestaurantID, "p.available": true}).
		PlaceholderFormat(squirrel.Dollar)
	if q.Category != "" {
		query = query.Where(squirrel.Eq{"p.category": q.Category})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []vectorstore.ProductCandidate
	for rows.Next() {
		var (
			c   vectorstore.ProductCandidate
			vec pgvector.Vector
		)
		if err := rows.Scan(&c.Match.ProductID, &c.Match.Name, &c.Match.Description, &c.Match.Category,
			&c.Match.Price, &c.Match.Content, &vec); err != nil {
			return nil, err
		}
		c.Embedding = vec.Slice()
		out = append(out, c)
	}
	return out, rows.Err()
}

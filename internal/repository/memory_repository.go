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

func (s *VectorStore) UpsertMemory(ctx context.Context, m *models.ConversationMemory) (bool, error) {
	if err := vectorstore.CheckDimension(m.Embedding, s.dim); err != nil {
		return false, err
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	now := time.Now().UTC()

	query := squirrel.Insert("conversation_memories").
		Columns("id", "restaurant_id", "conversation_id", "customer_phone", "memory_type", "content", "summary",
			"importance_score", "embedding", "embedding_model", "created_at", "updated_at").
		Values(m.ID, m.RestaurantID, m.ConversationID, m.CustomerPhone, string(m.MemoryType), m.Content, m.Summary,
			m.ImportanceScore, pgvector.NewVector(m.Embedding), m.EmbeddingModel, now, now).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			conversation_id = EXCLUDED.conversation_id,
			customer_phone = EXCLUDED.customer_phone,
			memory_type = EXCLUDED.memory_type,
			content = EXCLUDED.content,
			summary = EXCLUDED.summary,
			importance_score = EXCLUDED.importance_score,
			embedding = EXCLUDED.embedding,
			embedding_model = EXCLUDED.embedding_model,
			updated_at = EXCLUDED.updated_at
			WHERE conversation_memories.restaurant_id = EXCLUDED.restaurant_id
			RETURNING created_at, updated_at, access_count, (xmax = 0)`).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return false, err
	}

	var inserted bool
	err = s.db.QueryRow(ctx, sql, args...).Scan(&m.CreatedAt, &m.UpdatedAt, &m.AccessCount, &inserted)
	if err != nil {
		return false, fmt.Errorf("upsert memory %s: %w", m.ID, notFound(err))
	}
	return inserted, nil
}

func (s *VectorStore) MemoryCandidates(ctx context.Context, q vectorstore.Query) ([]vectorstore.MemoryCandidate, error) {
	sql, args, err := squirrel.Select("id", "memory_type", "content", "summary", "importance_score", "access_count", "created_at", "embedding").
		From("conversation_memories").
		Where(squirrel.Eq{"restaurant_id": q.RestaurantID, "customer_phone": q.CustomerPhone}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []vectorstore.MemoryCandidate
	for rows.Next() {
		var (
			c          vectorstore.MemoryCandidate
			memoryType string
			vec        pgvector.Vector
		)
		if err := rows.Scan(&c.Match.ID, &memoryType, &c.Match.Content, &c.Match.Summary,
			&c.Match.ImportanceScore, &c.Match.AccessCount, &c.Match.CreatedAt, &vec); err != nil {
			return nil, err
		}
		c.Match.MemoryType = models.MemoryType(memoryType)
		c.Embedding = vec.Slice()
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *VectorStore) IncrementMemoryAccess(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	sql, args, err := squirrel.Update("conversation_memories").
		Set("access_count", squirrel.Expr("access_count + 1")).
		Set("last_accessed", time.Now().UTC()).
		Where(squirrel.Eq{"id": ids}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, sql, args...)
	return err
}

package repository

import (
	"context"
	"fmt"
	"time"

	"restaurant-rag/internal/models"
	"restaurant-rag/internal/vectorstore"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"
)

var knowledgeColumns = []string{
	"id", "restaurant_id", "question", "answer", "category", "tags", "searchable_content",
	"embedding", "embedding_model", "usage_count", "last_used", "active", "priority", "created_at", "updated_at",
}

// UpsertKnowledgeEntry inserts a new entry or rewrites an existing one of the
// same restaurant. Usage counters survive the rewrite.
func (s *VectorStore) UpsertKnowledgeEntry(ctx context.Context, e *models.KnowledgeEntry) (bool, error) {
	if err := vectorstore.CheckDimension(e.Embedding, s.dim); err != nil {
		return false, err
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}
	now := time.Now().UTC()

	query := squirrel.Insert("knowledge_base").
		Columns("id", "restaurant_id", "question", "answer", "category", "tags", "searchable_content",
			"embedding", "embedding_model", "active", "priority", "created_at", "updated_at").
		Values(e.ID, e.RestaurantID, e.Question, e.Answer, e.Category, e.Tags, e.SearchableContent,
			pgvector.NewVector(e.Embedding), e.EmbeddingModel, e.Active, e.Priority, now, now).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			question = EXCLUDED.question,
			answer = EXCLUDED.answer,
			category = EXCLUDED.category,
			tags = EXCLUDED.tags,
			searchable_content = EXCLUDED.searchable_content,
			embedding = EXCLUDED.embedding,
			embedding_model = EXCLUDED.embedding_model,
			active = EXCLUDED.active,
			priority = EXCLUDED.priority,
			updated_at = EXCLUDED.updated_at
			WHERE knowledge_base.restaurant_id = EXCLUDED.restaurant_id
			RETURNING created_at, updated_at, usage_count, (xmax = 0)`).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return false, err
	}

	var inserted bool
	err = s.db.QueryRow(ctx, sql, args...).Scan(&e.CreatedAt, &e.UpdatedAt, &e.UsageCount, &inserted)
	if err != nil {
		return false, fmt.Errorf("upsert knowledge entry %s: %w", e.ID, notFound(err))
	}
	return inserted, nil
}

func (s *VectorStore) GetKnowledgeEntry(ctx context.Context, restaurantID int64, id uuid.UUID) (*models.KnowledgeEntry, error) {
	sql, args, err := squirrel.Select(knowledgeColumns...).
		From("knowledge_base").
		Where(squirrel.Eq{"id": id, "restaurant_id": restaurantID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	e, err := scanKnowledgeEntry(s.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, notFound(err)
	}
	return e, nil
}

func (s *VectorStore) ListKnowledgeEntries(ctx context.Context, restaurantID int64) ([]*models.KnowledgeEntry, error) {
	sql, args, err := squirrel.Select(knowledgeColumns...).
		From("knowledge_base").
		Where(squirrel.Eq{"restaurant_id": restaurantID}).
		OrderBy("priority DESC", "created_at ASC").
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

	var out []*models.KnowledgeEntry
	for rows.Next() {
		e, err := scanKnowledgeEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *VectorStore) KnowledgeCandidates(ctx context.Context, q vectorstore.Query) ([]vectorstore.KnowledgeCandidate, error) {
	query := squirrel.Select("id", "question", "answer", "category", "tags", "priority", "usage_count", "embedding").
		From("knowledge_base").
		Where(squirrel.Eq{"restaurant_id": q.RestaurantID, "active": true}).
		PlaceholderFormat(squirrel.Dollar)
	if q.Category != "" {
		query = query.Where(squirrel.Eq{"category": q.Category})
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

	var out []vectorstore.KnowledgeCandidate
	for rows.Next() {
		var (
			c   vectorstore.KnowledgeCandidate
			vec pgvector.Vector
		)
		if err := rows.Scan(&c.Match.ID, &c.Match.Question, &c.Match.Answer, &c.Match.Category,
			&c.Match.Tags, &c.Match.Priority, &c.Match.UsageCount, &vec); err != nil {
			return nil, err
		}
		c.Embedding = vec.Slice()
		out = append(out, c)
	}
	return out, rows.Err()
}

// IncrementKnowledgeUsage bumps usage_count in a single statement per call,
// so concurrent searches never lose an increment.
func (s *VectorStore) IncrementKnowledgeUsage(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	sql, args, err := squirrel.Update("knowledge_base").
		Set("usage_count", squirrel.Expr("usage_count + 1")).
		Set("last_used", time.Now().UTC()).
		Where(squirrel.Eq{"id": ids}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, sql, args...)
	return err
}

func scanKnowledgeEntry(row pgx.Row) (*models.KnowledgeEntry, error) {
	var (
		e   models.KnowledgeEntry
		vec pgvector.Vector
	)
	err := row.Scan(&e.ID, &e.RestaurantID, &e.Question, &e.Answer, &e.Category, &e.Tags, &e.SearchableContent,
		&vec, &e.EmbeddingModel, &e.UsageCount, &e.LastUsed, &e.Active, &e.Priority, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.Embedding = vec.Slice()
	return &e, nil
}

package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"restaurant-rag/internal/models"
	"restaurant-rag/internal/vectorstore"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// existing returns the restaurant owning id in table, or 0 when the row is new.
func existing(ctx context.Context, tx *sqlx.Tx, table, keyColumn string, key any) (int64, error) {
	q, args, err := squirrel.Select("restaurant_id").From(table).Where(squirrel.Eq{keyColumn: key}).ToSql()
	if err != nil {
		return 0, err
	}
	var owner int64
	err = tx.GetContext(ctx, &owner, q, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return owner, err
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *Store) UpsertProductEmbedding(ctx context.Context, e *models.ProductEmbedding) (bool, error) {
	if err := vectorstore.CheckDimension(e.Embedding, s.dim); err != nil {
		return false, err
	}
	now := s.now()
	var inserted bool

	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		var current struct {
			ID        uuid.UUID `db:"id"`
			CreatedAt int64     `db:"created_at"`
		}
		err := tx.GetContext(ctx, &current, "SELECT id, created_at FROM product_embeddings WHERE product_id = ?", e.ProductID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			if e.ID == uuid.Nil {
				e.ID = uuid.New()
			}
			q, args, err := squirrel.Insert("product_embeddings").
				Columns("id", "product_id", "restaurant_id", "content", "embedding", "embedding_model", "created_at", "updated_at").
				Values(e.ID, e.ProductID, e.RestaurantID, e.Content, vectorstore.FormatVector(e.Embedding), e.EmbeddingModel, now, now).
				ToSql()
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, q, args...); err != nil {
				return err
			}
			inserted = true
			e.CreatedAt = fromNanos(now)
		case err != nil:
			return err
		default:
			q, args, err := squirrel.Update("product_embeddings").
				Set("restaurant_id", e.RestaurantID).
				Set("content", e.Content).
				Set("embedding", vectorstore.FormatVector(e.Embedding)).
				Set("embedding_model", e.EmbeddingModel).
				Set("updated_at", now).
				Where(squirrel.Eq{"product_id": e.ProductID}).
				ToSql()
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, q, args...); err != nil {
				return err
			}
			e.ID = current.ID
			e.CreatedAt = fromNanos(current.CreatedAt)
		}
		e.UpdatedAt = fromNanos(now)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("upsert product embedding %d: %w", e.ProductID, err)
	}
	return inserted, nil
}

type productEmbeddingRow struct {
	ID             uuid.UUID `db:"id"`
	ProductID      int64     `db:"product_id"`
	RestaurantID   int64     `db:"restaurant_id"`
	Content        string    `db:"content"`
	Embedding      string    `db:"embedding"`
	EmbeddingModel string    `db:"embedding_model"`
	CreatedAt      int64     `db:"created_at"`
	UpdatedAt      int64     `db:"updated_at"`
}

func (s *Store) GetProductEmbedding(ctx context.Context, productID int64) (*models.ProductEmbedding, error) {
	q, args, err := squirrel.Select("id", "product_id", "restaurant_id", "content", "embedding", "embedding_model", "created_at", "updated_at").
		From("product_embeddings").
		Where(squirrel.Eq{"product_id": productID}).
		ToSql()
	if err != nil {
		return nil, err
	}
	var row productEmbeddingRow
	if err := s.read.GetContext(ctx, &row, q, args...); err != nil {
		return nil, notFound(err)
	}
	vec, err := vectorstore.ParseVector(row.Embedding)
	if err != nil {
		return nil, err
	}
	return &models.ProductEmbedding{
		ID:             row.ID,
		ProductID:      row.ProductID,
		RestaurantID:   row.RestaurantID,
		Content:        row.Content,
		Embedding:      vec,
		EmbeddingModel: row.EmbeddingModel,
		CreatedAt:      fromNanos(row.CreatedAt),
		UpdatedAt:      fromNanos(row.UpdatedAt),
	}, nil
}

type productCandidateRow struct {
	ProductID   int64   `db:"product_id"`
	Name        string  `db:"name"`
	Description string  `db:"description"`
	Category    string  `db:"category"`
	Price       float64 `db:"price"`
	Content     string  `db:"content"`
	Embedding   string  `db:"embedding"`
	Distance    float64 `db:"distance"`
}

func (r productCandidateRow) match() models.ProductMatch {
	return models.ProductMatch{
		ProductID:   r.ProductID,
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Price:       r.Price,
		Content:     r.Content,
		Distance:    r.Distance,
		Similarity:  vectorstore.Similarity(r.Distance),
	}
}

func productCandidateQuery(q vectorstore.Query) squirrel.SelectBuilder {
	query := squirrel.Select("p.id AS product_id", "p.name", "p.description", "p.category", "p.price", "pe.content", "pe.embedding").
		From("product_embeddings pe").
		Join("products p ON p.id = pe.product_id").
		Where(squirrel.Eq{"pe.restaurant_id": q.RestaurantID, "p.restaurant_id": q.RestaurantID, "p.available": true})
	if q.Category != "" {
		query = query.Where(squirrel.Eq{"p.category": q.Category})
	}
	return query
}

func (s *Store) ProductCandidates(ctx context.Context, q vectorstore.Query) ([]vectorstore.ProductCandidate, error) {
	query, args, err := productCandidateQuery(q).ToSql()
	if err != nil {
		return nil, err
	}
	var rows []productCandidateRow
	if err := s.read.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	out := make([]vectorstore.ProductCandidate, 0, len(rows))
	for _, r := range rows {
		vec, err := vectorstore.ParseVector(r.Embedding)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", r.ProductID, err)
		}
		m := r.match()
		m.Similarity, m.Distance = 0, 0
		out = append(out, vectorstore.ProductCandidate{Match: m, Embedding: vec})
	}
	return out, nil
}

// UpsertKnowledgeEntry rewrites an entry only when it belongs to the same
// restaurant. Usage counters survive the rewrite.
func (s *Store) UpsertKnowledgeEntry(ctx context.Context, e *models.KnowledgeEntry) (bool, error) {
	if err := vectorstore.CheckDimension(e.Embedding, s.dim); err != nil {
		return false, err
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}
	tags, err := json.Marshal(e.Tags)
	if err != nil {
		return false, err
	}
	now := s.now()
	var inserted bool

	err = s.inTx(ctx, func(tx *sqlx.Tx) error {
		owner, err := existing(ctx, tx, "knowledge_base", "id", e.ID)
		if err != nil {
			return err
		}
		if owner != 0 && owner != e.RestaurantID {
			return models.ErrNotFound
		}

		if owner == 0 {
			q, args, err := squirrel.Insert("knowledge_base").
				Columns("id", "restaurant_id", "question", "answer", "category", "tags", "searchable_content",
					"embedding", "embedding_model", "active", "priority", "created_at", "updated_at").
				Values(e.ID, e.RestaurantID, e.Question, e.Answer, e.Category, string(tags), e.SearchableContent,
					vectorstore.FormatVector(e.Embedding), e.EmbeddingModel, e.Active, e.Priority, now, now).
				ToSql()
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, q, args...); err != nil {
				return err
			}
			inserted = true
		} else {
			q, args, err := squirrel.Update("knowledge_base").
				Set("question", e.Question).
				Set("answer", e.Answer).
				Set("category", e.Category).
				Set("tags", string(tags)).
				Set("searchable_content", e.SearchableContent).
				Set("embedding", vectorstore.FormatVector(e.Embedding)).
				Set("embedding_model", e.EmbeddingModel).
				Set("active", e.Active).
				Set("priority", e.Priority).
				Set("updated_at", now).
				Where(squirrel.Eq{"id": e.ID}).
				ToSql()
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, q, args...); err != nil {
				return err
			}
		}

		var row struct {
			CreatedAt  int64 `db:"created_at"`
			UpdatedAt  int64 `db:"updated_at"`
			UsageCount int   `db:"usage_count"`
		}
		if err := tx.GetContext(ctx, &row, "SELECT created_at, updated_at, usage_count FROM knowledge_base WHERE id = ?", e.ID); err != nil {
			return err
		}
		e.CreatedAt, e.UpdatedAt, e.UsageCount = fromNanos(row.CreatedAt), fromNanos(row.UpdatedAt), row.UsageCount
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("upsert knowledge entry %s: %w", e.ID, err)
	}
	return inserted, nil
}

type knowledgeRow struct {
	ID                uuid.UUID     `db:"id"`
	RestaurantID      int64         `db:"restaurant_id"`
	Question          string        `db:"question"`
	Answer            string        `db:"answer"`
	Category          string        `db:"category"`
	Tags              string        `db:"tags"`
	SearchableContent string        `db:"searchable_content"`
	Embedding         string        `db:"embedding"`
	EmbeddingModel    string        `db:"embedding_model"`
	UsageCount        int           `db:"usage_count"`
	LastUsed          sql.NullInt64 `db:"last_used"`
	Active            bool          `db:"active"`
	Priority          int           `db:"priority"`
	CreatedAt         int64         `db:"created_at"`
	UpdatedAt         int64         `db:"updated_at"`
	Distance          float64       `db:"distance"`
}

func (r knowledgeRow) tags() ([]string, error) {
	var tags []string
	if err := json.Unmarshal([]byte(r.Tags), &tags); err != nil {
		return nil, fmt.Errorf("knowledge entry %s tags: %w", r.ID, err)
	}
	return tags, nil
}

func (r knowledgeRow) match() (models.KnowledgeMatch, error) {
	tags, err := r.tags()
	if err != nil {
		return models.KnowledgeMatch{}, err
	}
	return models.KnowledgeMatch{
		ID:         r.ID,
		Question:   r.Question,
		Answer:     r.Answer,
		Category:   r.Category,
		Tags:       tags,
		Priority:   r.Priority,
		UsageCount: r.UsageCount,
		Distance:   r.Distance,
		Similarity: vectorstore.Similarity(r.Distance),
	}, nil
}

var knowledgeColumns = []string{
	"id", "restaurant_id", "question", "answer", "category", "tags", "searchable_content",
	"embedding", "embedding_model", "usage_count", "last_used", "active", "priority", "created_at", "updated_at",
}

func (r knowledgeRow) entry() (*models.KnowledgeEntry, error) {
	tags, err := r.tags()
	if err != nil {
		return nil, err
	}
	vec, err := vectorstore.ParseVector(r.Embedding)
	if err != nil {
		return nil, err
	}
	return &models.KnowledgeEntry{
		ID:                r.ID,
		RestaurantID:      r.RestaurantID,
		Question:          r.Question,
		Answer:            r.Answer,
		Category:          r.Category,
		Tags:              tags,
		SearchableContent: r.SearchableContent,
		Embedding:         vec,
		EmbeddingModel:    r.EmbeddingModel,
		UsageCount:        r.UsageCount,
		LastUsed:          fromNullNanos(r.LastUsed),
		Active:            r.Active,
		Priority:          r.Priority,
		CreatedAt:         fromNanos(r.CreatedAt),
		UpdatedAt:         fromNanos(r.UpdatedAt),
	}, nil
}

func (s *Store) GetKnowledgeEntry(ctx context.Context, restaurantID int64, id uuid.UUID) (*models.KnowledgeEntry, error) {
	q, args, err := squirrel.Select(knowledgeColumns...).
		From("knowledge_base").
		Where(squirrel.Eq{"id": id, "restaurant_id": restaurantID}).
		ToSql()
	if err != nil {
		return nil, err
	}
	var row knowledgeRow
	if err := s.read.GetContext(ctx, &row, q, args...); err != nil {
		return nil, notFound(err)
	}
	return row.entry()
}

// ListKnowledgeEntries returns every entry of a restaurant, active or not.
func (s *Store) ListKnowledgeEntries(ctx context.Context, restaurantID int64) ([]*models.KnowledgeEntry, error) {
	q, args, err := squirrel.Select(knowledgeColumns...).
		From("knowledge_base").
		Where(squirrel.Eq{"restaurant_id": restaurantID}).
		OrderBy("priority DESC", "created_at ASC").
		ToSql()
	if err != nil {
		return nil, err
	}
	var rows []knowledgeRow
	if err := s.read.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	out := make([]*models.KnowledgeEntry, 0, len(rows))
	for _, r := range rows {
		e, err := r.entry()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func knowledgeCandidateQuery(q vectorstore.Query) squirrel.SelectBuilder {
	query := squirrel.Select("id", "question", "answer", "category", "tags", "priority", "usage_count", "embedding").
		From("knowledge_base").
		Where(squirrel.Eq{"restaurant_id": q.RestaurantID, "active": true})
	if q.Category != "" {
		query = query.Where(squirrel.Eq{"category": q.Category})
	}
	return query
}

func (s *Store) KnowledgeCandidates(ctx context.Context, q vectorstore.Query) ([]vectorstore.KnowledgeCandidate, error) {
	query, args, err := knowledgeCandidateQuery(q).ToSql()
	if err != nil {
		return nil, err
	}
	var rows []knowledgeRow
	if err := s.read.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	out := make([]vectorstore.KnowledgeCandidate, 0, len(rows))
	for _, r := range rows {
		m, err := r.match()
		if err != nil {
			return nil, err
		}
		vec, err := vectorstore.ParseVector(r.Embedding)
		if err != nil {
			return nil, fmt.Errorf("knowledge entry %s: %w", r.ID, err)
		}
		m.Similarity = 0
		out = append(out, vectorstore.KnowledgeCandidate{Match: m, Embedding: vec})
	}
	return out, nil
}

func (s *Store) IncrementKnowledgeUsage(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := squirrel.Update("knowledge_base").
		Set("usage_count", squirrel.Expr("usage_count + 1")).
		Set("last_used", s.now()).
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, q, args...)
	return err
}

func (s *Store) UpsertMemory(ctx context.Context, m *models.ConversationMemory) (bool, error) {
	if err := vectorstore.CheckDimension(m.Embedding, s.dim); err != nil {
		return false, err
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	now := s.now()
	var inserted bool

	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		owner, err := existing(ctx, tx, "conversation_memories", "id", m.ID)
		if err != nil {
			return err
		}
		if owner != 0 && owner != m.RestaurantID {
			return models.ErrNotFound
		}

		if owner == 0 {
			q, args, err := squirrel.Insert("conversation_memories").
				Columns("id", "restaurant_id", "conversation_id", "customer_phone", "memory_type", "content", "summary",
					"importance_score", "embedding", "embedding_model", "created_at", "updated_at").
				Values(m.ID, m.RestaurantID, m.ConversationID, m.CustomerPhone, string(m.MemoryType), m.Content, m.Summary,
					m.ImportanceScore, vectorstore.FormatVector(m.Embedding), m.EmbeddingModel, now, now).
				ToSql()
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, q, args...); err != nil {
				return err
			}
			inserted = true
		} else {
			q, args, err := squirrel.Update("conversation_memories").
				Set("conversation_id", m.ConversationID).
				Set("customer_phone", m.CustomerPhone).
				Set("memory_type", string(m.MemoryType)).
				Set("content", m.Content).
				Set("summary", m.Summary).
				Set("importance_score", m.ImportanceScore).
				Set("embedding", vectorstore.FormatVector(m.Embedding)).
				Set("embedding_model", m.EmbeddingModel).
				Set("updated_at", now).
				Where(squirrel.Eq{"id": m.ID}).
				ToSql()
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, q, args...); err != nil {
				return err
			}
		}

		var row struct {
			CreatedAt   int64 `db:"created_at"`
			UpdatedAt   int64 `db:"updated_at"`
			AccessCount int   `db:"access_count"`
		}
		if err := tx.GetContext(ctx, &row, "SELECT created_at, updated_at, access_count FROM conversation_memories WHERE id = ?", m.ID); err != nil {
			return err
		}
		m.CreatedAt, m.UpdatedAt, m.AccessCount = fromNanos(row.CreatedAt), fromNanos(row.UpdatedAt), row.AccessCount
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("upsert memory %s: %w", m.ID, err)
	}
	return inserted, nil
}

type memoryRow struct {
	ID              uuid.UUID `db:"id"`
	MemoryType      string    `db:"memory_type"`
	Content         string    `db:"content"`
	Summary         string    `db:"summary"`
	ImportanceScore float64   `db:"importance_score"`
	AccessCount     int       `db:"access_count"`
	CreatedAt       int64     `db:"created_at"`
	Embedding       string    `db:"embedding"`
	Distance        float64   `db:"distance"`
}

func (r memoryRow) match() models.MemoryMatch {
	return models.MemoryMatch{
		ID:              r.ID,
		MemoryType:      models.MemoryType(r.MemoryType),
		Content:         r.Content,
		Summary:         r.Summary,
		ImportanceScore: r.ImportanceScore,
		AccessCount:     r.AccessCount,
		CreatedAt:       fromNanos(r.CreatedAt),
		Distance:        r.Distance,
		Similarity:      vectorstore.Similarity(r.Distance),
	}
}

func memoryCandidateQuery(q vectorstore.Query) squirrel.SelectBuilder {
	return squirrel.Select("id", "memory_type", "content", "summary", "importance_score", "access_count", "created_at", "embedding").
		From("conversation_memories").
		Where(squirrel.Eq{"restaurant_id": q.RestaurantID, "customer_phone": q.CustomerPhone})
}

func (s *Store) MemoryCandidates(ctx context.Context, q vectorstore.Query) ([]vectorstore.MemoryCandidate, error) {
	query, args, err := memoryCandidateQuery(q).ToSql()
	if err != nil {
		return nil, err
	}
	var rows []memoryRow
	if err := s.read.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	out := make([]vectorstore.MemoryCandidate, 0, len(rows))
	for _, r := range rows {
		vec, err := vectorstore.ParseVector(r.Embedding)
		if err != nil {
			return nil, fmt.Errorf("memory %s: %w", r.ID, err)
		}
		m := r.match()
		m.Similarity = 0
		out = append(out, vectorstore.MemoryCandidate{Match: m, Embedding: vec})
	}
	return out, nil
}

func (s *Store) IncrementMemoryAccess(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := squirrel.Update("conversation_memories").
		Set("access_count", squirrel.Expr("access_count + 1")).
		Set("last_accessed", s.now()).
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, q, args...)
	return err
}

package sqlitestore

import (
	"context"
	"time"

	"restaurant-rag/internal/models"
	"restaurant-rag/internal/vectorstore"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

func (s *Store) InsertSearchLog(ctx context.Context, l *models.SearchLog) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = s.opts.Now().UTC()
	}
	var embedding *string
	if len(l.Embedding) > 0 {
		v := vectorstore.FormatVector(l.Embedding)
		embedding = &v
	}

	q, args, err := squirrel.Insert("search_logs").
		Columns("id", "restaurant_id", "conversation_id", "query", "search_type", "embedding", "results_found",
			"top_similarity", "search_time_ms", "embedding_time_ms", "search_path", "degraded", "created_at").
		Values(l.ID, l.RestaurantID, l.ConversationID, l.Query, string(l.SearchType), embedding, l.ResultsFound,
			l.TopSimilarity, l.SearchTimeMS, l.EmbeddingTimeMS, string(l.SearchPath), l.Degraded, l.CreatedAt.UnixNano()).
		ToSql()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, q, args...)
	return err
}

// ListSearchLogs returns the logs of a restaurant, oldest first.
func (s *Store) ListSearchLogs(ctx context.Context, restaurantID int64) ([]models.SearchLog, error) {
	var rows []struct {
		ID              uuid.UUID `db:"id"`
		ConversationID  *int64    `db:"conversation_id"`
		Query           string    `db:"query"`
		SearchType      string    `db:"search_type"`
		Embedding       *string   `db:"embedding"`
		ResultsFound    int       `db:"results_found"`
		TopSimilarity   float64   `db:"top_similarity"`
		SearchTimeMS    int64     `db:"search_time_ms"`
		EmbeddingTimeMS int64     `db:"embedding_time_ms"`
		SearchPath      string    `db:"search_path"`
		Degraded        bool      `db:"degraded"`
		CreatedAt       int64     `db:"created_at"`
	}
	err := s.read.SelectContext(ctx, &rows,
		`SELECT id, conversation_id, query, search_type, embedding, results_found, top_similarity,
			search_time_ms, embedding_time_ms, search_path, degraded, created_at
		 FROM search_logs WHERE restaurant_id = ? ORDER BY created_at ASC, id ASC`, restaurantID)
	if err != nil {
		return nil, err
	}

	out := make([]models.SearchLog, 0, len(rows))
	for _, r := range rows {
		l := models.SearchLog{
			ID:              r.ID,
			RestaurantID:    restaurantID,
			ConversationID:  r.ConversationID,
			Query:           r.Query,
			SearchType:      models.SearchDomain(r.SearchType),
			ResultsFound:    r.ResultsFound,
			TopSimilarity:   r.TopSimilarity,
			SearchTimeMS:    r.SearchTimeMS,
			EmbeddingTimeMS: r.EmbeddingTimeMS,
			SearchPath:      models.SearchPath(r.SearchPath),
			Degraded:        r.Degraded,
			CreatedAt:       fromNanos(r.CreatedAt),
		}
		if r.Embedding != nil {
			if l.Embedding, err = vectorstore.ParseVector(*r.Embedding); err != nil {
				return nil, err
			}
		}
		out = append(out, l)
	}
	return out, nil
}

func (s *Store) TopQueries(ctx context.Context, restaurantID int64, since time.Time, limit int) ([]models.QueryStat, error) {
	q, args, err := squirrel.Select("query", "COUNT(*) AS count", "COALESCE(AVG(top_similarity), 0.0) AS avg_similarity").
		From("search_logs").
		Where(squirrel.Eq{"restaurant_id": restaurantID}).
		Where(squirrel.GtOrEq{"created_at": since.UnixNano()}).
		GroupBy("query").
		OrderBy("count DESC", "query ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}
	stats := []models.QueryStat{}
	if err := s.read.SelectContext(ctx, &stats, q, args...); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Store) Performance(ctx context.Context, restaurantID int64, since time.Time) (models.PerformanceStats, error) {
	q, args, err := squirrel.Select(
		"COALESCE(AVG(search_time_ms), 0.0) AS avg_search_ms",
		"COALESCE(AVG(embedding_time_ms), 0.0) AS avg_embedding_ms",
		"COALESCE(AVG(results_found), 0.0) AS avg_results",
		"COUNT(*) AS total_searches",
	).
		From("search_logs").
		Where(squirrel.Eq{"restaurant_id": restaurantID}).
		Where(squirrel.GtOrEq{"created_at": since.UnixNano()}).
		ToSql()
	if err != nil {
		return models.PerformanceStats{}, err
	}
	var p models.PerformanceStats
	err = s.read.GetContext(ctx, &p, q, args...)
	return p, err
}

package repository

import (
	"context"
	"time"

	"restaurant-rag/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"
)

// SearchLogRepository stores search_logs rows. Rows are never updated.
type SearchLogRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewSearchLogRepository(db *pgxpool.Pool, logger *zap.Logger) *SearchLogRepository {
	return &SearchLogRepository{
		db:     db,
		logger: logger,
	}
}

func (r *SearchLogRepository) InsertSearchLog(ctx context.Context, l *models.SearchLog) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	var embedding *pgvector.Vector
	if len(l.Embedding) > 0 {
		v := pgvector.NewVector(l.Embedding)
		embedding = &v
	}

	sql, args, err := squirrel.Insert("search_logs").
		Columns("id", "restaurant_id", "conversation_id", "query", "search_type", "embedding", "results_found",
			"top_similarity", "search_time_ms", "embedding_time_ms", "search_path", "degraded", "created_at").
		Values(l.ID, l.RestaurantID, l.ConversationID, l.Query, string(l.SearchType), embedding, l.ResultsFound,
			l.TopSimilarity, l.SearchTimeMS, l.EmbeddingTimeMS, string(l.SearchPath), l.Degraded, l.CreatedAt).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *SearchLogRepository) TopQueries(ctx context.Context, restaurantID int64, since time.Time, limit int) ([]models.QueryStat, error) {
	sql, args, err := squirrel.Select("query", "COUNT(*) AS count", "COALESCE(AVG(top_similarity), 0)::DOUBLE PRECISION AS avg_similarity").
		From("search_logs").
		Where(squirrel.Eq{"restaurant_id": restaurantID}).
		Where(squirrel.GtOrEq{"created_at": since}).
		GroupBy("query").
		OrderBy("count DESC", "query ASC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := []models.QueryStat{}
	for rows.Next() {
		var s models.QueryStat
		if err := rows.Scan(&s.Query, &s.Count, &s.AvgSimilarity); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *SearchLogRepository) Performance(ctx context.Context, restaurantID int64, since time.Time) (models.PerformanceStats, error) {
	sql, args, err := squirrel.Select(
		"COALESCE(AVG(search_time_ms), 0)::DOUBLE PRECISION",
		"COALESCE(AVG(embedding_time_ms), 0)::DOUBLE PRECISION",
		"COALESCE(AVG(results_found), 0)::DOUBLE PRECISION",
		"COUNT(*)",
	).
		From("search_logs").
		Where(squirrel.Eq{"restaurant_id": restaurantID}).
		Where(squirrel.GtOrEq{"created_at": since}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return models.PerformanceStats{}, err
	}

	var p models.PerformanceStats
	err = r.db.QueryRow(ctx, sql, args...).Scan(&p.AvgSearchMS, &p.AvgEmbeddingMS, &p.AvgResults, &p.TotalSearches)
	return p, err
}

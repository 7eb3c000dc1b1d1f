package service

import (
	"context"
	"fmt"
	"time"

	"restaurant-rag/internal/models"

	"go.uber.org/zap"
)

const (
	DefaultAnalyticsDays = 7
	MaxAnalyticsDays     = 365
	topQueriesLimit      = 10
	recordTimeout        = 5 * time.Second
)

type AnalyticsService struct {
	store  SearchLogStore
	now    func() time.Time
	logger *zap.Logger
}

func NewAnalyticsService(store SearchLogStore, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{
		store:  store,
		now:    time.Now,
		logger: logger,
	}
}

// Record stores a search log. Failures are logged and never reach the
// caller, and request cancellation does not abort the write.
func (s *AnalyticsService) Record(ctx context.Context, l *models.SearchLog) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	if err := s.store.InsertSearchLog(ctx, l); err != nil {
		s.logger.Warn("Failed to record search log",
			zap.Int64("restaurant_id", l.RestaurantID),
			zap.String("search_type", string(l.SearchType)),
			zap.Error(err),
		)
	}
}

// Summary aggregates the last days of searches. days == 0 means the default window.
func (s *AnalyticsService) Summary(ctx context.Context, restaurantID int64, days int) (*models.SearchSummary, error) {
	if days == 0 {
		days = DefaultAnalyticsDays
	}
	if days < 1 || days > MaxAnalyticsDays {
		return nil, fmt.Errorf("%w: days must be between 1 and %d", ErrInvalidInput, MaxAnalyticsDays)
	}
	since := s.now().UTC().AddDate(0, 0, -days)

	top, err := s.store.TopQueries(ctx, restaurantID, since, topQueriesLimit)
	if err != nil {
		return nil, fmt.Errorf("top queries: %w", err)
	}
	perf, err := s.store.Performance(ctx, restaurantID, since)
	if err != nil {
		return nil, fmt.Errorf("search performance: %w", err)
	}

	return &models.SearchSummary{
		WindowDays:  days,
		TopQueries:  top,
		Performance: perf,
	}, nil
}

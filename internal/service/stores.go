package service

import (
	"context"
	"errors"
	"time"

	"restaurant-rag/internal/models"

	"github.com/google/uuid"
)

var (
	ErrRestaurantNotFound     = errors.New("restaurant not found")
	ErrProductNotFound        = errors.New("product not found")
	ErrConversationNotFound   = errors.New("conversation not found")
	ErrKnowledgeEntryNotFound = errors.New("knowledge entry not found")
	ErrInvalidInput           = errors.New("invalid input")
	// ErrEmbeddingUnavailable is returned by writes when only a degraded vector could be produced.
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")
	ErrAssistantDisabled    = errors.New("assistant is not configured")
)

// Catalog is the read side of restaurants, products and conversations.
type Catalog interface {
	GetRestaurant(ctx context.Context, id int64) (*models.Restaurant, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	ListAvailableProducts(ctx context.Context, restaurantID int64) ([]*models.Product, error)
	GetConversation(ctx context.Context, id int64) (*models.Conversation, error)
}

type SearchLogStore interface {
	InsertSearchLog(ctx context.Context, l *models.SearchLog) error
	TopQueries(ctx context.Context, restaurantID int64, since time.Time, limit int) ([]models.QueryStat, error)
	Performance(ctx context.Context, restaurantID int64, since time.Time) (models.PerformanceStats, error)
}

type OperatorStore interface {
	CreateOperator(ctx context.Context, op *models.Operator) error
	GetOperatorByEmail(ctx context.Context, email string) (*models.Operator, error)
	GetOperatorByID(ctx context.Context, id uuid.UUID) (*models.Operator, error)
}

// activeRestaurant maps a missing or inactive restaurant to ErrRestaurantNotFound.
func activeRestaurant(ctx context.Context, catalog Catalog, id int64) (*models.Restaurant, error) {
	r, err := catalog.GetRestaurant(ctx, id)
	if errors.Is(err, models.ErrNotFound) || (err == nil && !r.Active) {
		return nil, ErrRestaurantNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

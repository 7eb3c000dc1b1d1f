// Package app wires the configured database backend and the services on top
// of it for the server and the command line tool.
package app

import (
	"context"
	"fmt"

	"restaurant-rag/internal/models"
	"restaurant-rag/internal/repository"
	"restaurant-rag/internal/repository/sqlitestore"
	"restaurant-rag/internal/service"
	"restaurant-rag/internal/vectorstore"
	"restaurant-rag/pkg/config"
	"restaurant-rag/pkg/postgres"

	"go.uber.org/zap"
)

// CatalogWriter creates catalog rows. The catalog is owned by the ordering
// system; only fixtures and tests write it here.
type CatalogWriter interface {
	CreateRestaurant(ctx context.Context, r *models.Restaurant) error
	CreateProduct(ctx context.Context, p *models.Product) error
	CreateConversation(ctx context.Context, c *models.Conversation) error
}

type KnowledgeLister interface {
	ListKnowledgeEntries(ctx context.Context, restaurantID int64) ([]*models.KnowledgeEntry, error)
}

type Backend struct {
	Vectors    vectorstore.Store
	Catalog    service.Catalog
	Fixtures   CatalogWriter
	Knowledge  KnowledgeLister
	SearchLogs service.SearchLogStore
	Operators  service.OperatorStore
	Ping       func(ctx context.Context) error
	Close      func()
}

// OpenBackend connects to the configured database. dim is the embedding
// provider's dimension. Postgres migrations run first when enabled.
func OpenBackend(ctx context.Context, cfg *config.DatabaseConfig, dim int, logger *zap.Logger) (*Backend, error) {
	switch cfg.Driver {
	case config.DatabaseDriverSQLite:
		store, err := sqlitestore.Open(cfg.SQLitePath, dim, sqlitestore.Options{NativeSearch: cfg.NativeSearch}, logger)
		if err != nil {
			return nil, err
		}
		return &Backend{
			Vectors:    store,
			Catalog:    store,
			Fixtures:   store,
			Knowledge:  store,
			SearchLogs: store,
			Operators:  store,
			Ping:       store.Ping,
			Close:      func() { store.Close() },
		}, nil

	case config.DatabaseDriverPostgres:
		if cfg.AutoMigrate {
			if err := postgres.Migrate(cfg, logger); err != nil {
				return nil, fmt.Errorf("migrate: %w", err)
			}
		}
		pool, err := postgres.NewPool(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		vectors := repository.NewVectorStore(pool, dim, logger)
		if !cfg.NativeSearch {
			vectors.DisableNative()
		}
		catalog := repository.NewCatalogRepository(pool, logger)
		return &Backend{
			Vectors:    vectors,
			Catalog:    catalog,
			Fixtures:   catalog,
			Knowledge:  vectors,
			SearchLogs: repository.NewSearchLogRepository(pool, logger),
			Operators:  repository.NewOperatorRepository(pool, logger),
			Ping:       pool.Ping,
			Close:      pool.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
}

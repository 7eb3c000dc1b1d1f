// Command vectorctl administers the retrieval database: migrations, fixture
// seeding, product reindexing and search analytics.
package main

import (
	"context"
	"fmt"
	"os"

	"restaurant-rag/internal/app"
	"restaurant-rag/internal/embedding"
	"restaurant-rag/internal/service"
	"restaurant-rag/pkg/config"
	"restaurant-rag/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "vectorctl",
		Short:         "Manage restaurant embeddings and the knowledge base",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(migrateCmd())
	cmd.AddCommand(seedCmd())
	cmd.AddCommand(demoKnowledgeCmd())
	cmd.AddCommand(reindexCmd())
	cmd.AddCommand(analyticsCmd())
	return cmd
}

// env holds the services a command needs, built from the environment configuration.
type env struct {
	cfg       *config.Config
	logger    *zap.Logger
	backend   *app.Backend
	indexing  *service.IndexingService
	analytics *service.AnalyticsService
}

func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if err := logger.Init(cfg.Logger.Level, cfg.Logger.Encoding); err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, logger.Get(), nil
}

func openEnv(ctx context.Context) (*env, error) {
	cfg, appLogger, err := loadConfig()
	if err != nil {
		return nil, err
	}

	provider, err := embedding.New(&cfg.Embedding, appLogger)
	if err != nil {
		return nil, fmt.Errorf("embedding provider: %w", err)
	}
	backend, err := app.OpenBackend(ctx, &cfg.Database, provider.Dimension(), appLogger)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	embeddings, err := service.NewEmbeddingService(provider, &cfg.Embedding, appLogger)
	if err != nil {
		backend.Close()
		return nil, err
	}
	analytics := service.NewAnalyticsService(backend.SearchLogs, appLogger)
	// same dimension check the server performs at startup
	search := service.NewSearchService(backend.Vectors, embeddings, analytics, &cfg.Search, appLogger)
	if err := search.Init(ctx); err != nil {
		backend.Close()
		return nil, err
	}

	return &env{
		cfg:       cfg,
		logger:    appLogger,
		backend:   backend,
		indexing:  service.NewIndexingService(backend.Vectors, backend.Catalog, embeddings, &cfg.Search, appLogger),
		analytics: analytics,
	}, nil
}

func (e *env) close() {
	e.backend.Close()
	logger.Sync()
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restaurant-rag/internal/api"
	"restaurant-rag/internal/api/handlers"
	"restaurant-rag/internal/app"
	"restaurant-rag/internal/embedding"
	"restaurant-rag/internal/llm"
	"restaurant-rag/internal/service"
	"restaurant-rag/pkg/auth"
	"restaurant-rag/pkg/config"
	"restaurant-rag/pkg/logger"
	"restaurant-rag/pkg/tracing"

	"go.uber.org/zap"
)

// @title Restaurant RAG API
// @version 1.0
// @description Semantic search over restaurant menus, FAQ knowledge and customer memories
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@restaurant-rag.local

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

const shutdownTimeout = 10 * time.Second

// pingFunc adapts a backend health probe to handlers.Pinger.
type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logger.Level, cfg.Logger.Encoding); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting restaurant RAG service",
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("embedding_backend", cfg.Embedding.Backend))

	ctx := context.Background()

	shutdownTracing, err := tracing.Setup(ctx, cfg.Tracing, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to set up tracing", zap.Error(err))
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			appLogger.Error("Tracing shutdown error", zap.Error(err))
		}
	}()

	provider, err := embedding.New(&cfg.Embedding, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize embedding provider", zap.Error(err))
	}

	backend, err := app.OpenBackend(ctx, &cfg.Database, provider.Dimension(), appLogger)
	if err != nil {
		appLogger.Fatal("Failed to open database", zap.Error(err))
	}
	defer backend.Close()

	embeddingService, err := service.NewEmbeddingService(provider, &cfg.Embedding, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize embedding service", zap.Error(err))
	}
	analyticsService := service.NewAnalyticsService(backend.SearchLogs, appLogger)

	searchService := service.NewSearchService(backend.Vectors, embeddingService, analyticsService, &cfg.Search, appLogger)
	if err := searchService.Init(ctx); err != nil {
		appLogger.Fatal("Vector store does not match the embedding provider", zap.Error(err))
	}

	indexingService := service.NewIndexingService(backend.Vectors, backend.Catalog, embeddingService, &cfg.Search, appLogger)
	enrichmentService := service.NewEnrichmentService(searchService, backend.Catalog, appLogger)

	// without an API key the assistant reply endpoint answers 503
	var generator service.ReplyGenerator
	if cfg.GigaChat.APIKey != "" {
		gigaChat, err := llm.NewGigaChat(ctx, &cfg.GigaChat, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize GigaChat client", zap.Error(err))
		}
		defer gigaChat.Close()
		generator = gigaChat
	} else {
		appLogger.Warn("GIGACHAT_API_KEY is not set, assistant replies are disabled")
	}
	assistantService := service.NewAssistantService(enrichmentService, backend.Catalog, generator, appLogger)

	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration, cfg.JWT.RefreshExp)
	authService := service.NewAuthService(backend.Operators, backend.Catalog, jwtManager, appLogger)

	h := api.Handlers{
		Auth:      handlers.NewAuthHandler(authService, appLogger),
		Search:    handlers.NewSearchHandler(searchService, appLogger),
		Knowledge: handlers.NewKnowledgeHandler(indexingService, appLogger),
		Embedding: handlers.NewEmbeddingHandler(indexingService, searchService, embeddingService, assistantService, appLogger),
		Assistant: handlers.NewAssistantHandler(enrichmentService, assistantService, analyticsService, appLogger),
		Health:    handlers.NewHealthHandler(pingFunc(backend.Ping), appLogger),
	}

	server := api.SetupRouter(h, jwtManager, backend.Catalog, cfg.Server, appLogger)

	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := server.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := server.ShutdownWithTimeout(shutdownTimeout); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}

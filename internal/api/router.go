package api

import (
	"restaurant-rag/docs"
	"restaurant-rag/internal/api/handlers"
	"restaurant-rag/pkg/auth"
	"restaurant-rag/pkg/config"
	"restaurant-rag/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	Search    *handlers.SearchHandler
	Knowledge *handlers.KnowledgeHandler
	Embedding *handlers.EmbeddingHandler
	Assistant *handlers.AssistantHandler
	Health    *handlers.HealthHandler
}

func SetupRouter(
	h Handlers,
	jwtManager *auth.JWTManager,
	restaurants middleware.RestaurantLookup,
	serverCfg config.ServerConfig,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  serverCfg.ReadTimeout,
		WriteTimeout: serverCfg.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	// importing docs registers the swagger spec
	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/health", h.Health.Health)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", h.Auth.Register)
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Post("/refresh", h.Auth.RefreshToken)

	protected := app.Group("/api/v1", middleware.AuthMiddleware(jwtManager, appLogger))

	vectors := protected.Group("/vectors")
	vectors.Get("/status", h.Embedding.Status)
	vectors.Post("/test-embedding", h.Embedding.TestEmbedding)

	tenant := protected.Group("/restaurants/:restaurantId", middleware.TenantGuard(restaurants, appLogger))

	search := tenant.Group("/search")
	search.Post("/products", h.Search.SearchProducts)
	search.Post("/knowledge", h.Search.SearchKnowledge)
	search.Post("/memories", h.Search.SearchMemories)

	tenant.Post("/knowledge", h.Knowledge.CreateKnowledge)
	tenant.Put("/knowledge/:id", h.Knowledge.UpdateKnowledge)
	tenant.Post("/memories", h.Knowledge.CreateMemory)

	tenant.Post("/embeddings/products", h.Embedding.IndexProducts)
	tenant.Post("/embeddings/products/:productId", h.Embedding.IndexProduct)

	tenant.Get("/analytics", h.Assistant.Analytics)
	tenant.Post("/enrich", h.Assistant.Enrich)
	tenant.Post("/assistant/reply", h.Assistant.Reply)

	return app
}

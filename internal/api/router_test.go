package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"restaurant-rag/internal/api/handlers"
	"restaurant-rag/internal/dto"
	"restaurant-rag/internal/embedding"
	"restaurant-rag/internal/models"
	"restaurant-rag/internal/repository/sqlitestore"
	"restaurant-rag/internal/service"
	"restaurant-rag/pkg/auth"
	"restaurant-rag/pkg/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testServer struct {
	app        *fiber.App
	db         *sqlitestore.Store
	jwt        *auth.JWTManager
	restaurant *models.Restaurant
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()

	db, err := sqlitestore.Open(filepath.Join(t.TempDir(), "api.db"), embedding.LocalDimension,
		sqlitestore.Options{NativeSearch: true}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	searchCfg := &config.SearchConfig{ProductThreshold: 0.3, KnowledgeThreshold: 0.4, DefaultLimit: 5, MaxLimit: 50, IndexConcurrency: 2}
	embeddings, err := service.NewEmbeddingService(embedding.NewLocal(""), &config.EmbeddingConfig{Timeout: time.Second, CacheSize: 16}, logger)
	require.NoError(t, err)
	analytics := service.NewAnalyticsService(db, logger)
	search := service.NewSearchService(db, embeddings, analytics, searchCfg, logger)
	require.NoError(t, search.Init(ctx))
	indexing := service.NewIndexingService(db, db, embeddings, searchCfg, logger)
	enrichment := service.NewEnrichmentService(search, db, logger)
	assistant := service.NewAssistantService(enrichment, db, nil, logger)

	jwtManager := auth.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	authService := service.NewAuthService(db, db, jwtManager, logger)

	app := SetupRouter(Handlers{
		Auth:      handlers.NewAuthHandler(authService, logger),
		Search:    handlers.NewSearchHandler(search, logger),
		Knowledge: handlers.NewKnowledgeHandler(indexing, logger),
		Embedding: handlers.NewEmbeddingHandler(indexing, search, embeddings, assistant, logger),
		Assistant: handlers.NewAssistantHandler(enrichment, assistant, analytics, logger),
		Health:    handlers.NewHealthHandler(db, logger),
	}, jwtManager, db, config.ServerConfig{}, logger)

	restaurant := &models.Restaurant{Name: "La Fonda Paisa", Active: true}
	require.NoError(t, db.CreateRestaurant(ctx, restaurant))

	return &testServer{app: app, db: db, jwt: jwtManager, restaurant: restaurant}
}

func fmtPath(format string, restaurantID int64) string {
	return fmt.Sprintf(format, restaurantID)
}

func (s *testServer) token(t *testing.T, restaurantID int64) string {
	t.Helper()
	tok, err := s.jwt.GenerateToken("op-1", restaurantID, "caja@lafonda.co")
	require.NoError(t, err)
	return tok
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	status, body := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok","database":"ok"}`, string(body))
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	s := newTestServer(t)
	status, _ := s.do(t, http.MethodGet, "/api/v1/vectors/status", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	refresh, err := s.jwt.GenerateRefreshToken("op-1", s.restaurant.ID)
	require.NoError(t, err)
	status, _ = s.do(t, http.MethodGet, "/api/v1/vectors/status", refresh, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestTenantGuard(t *testing.T) {
	s := newTestServer(t)
	inactive := &models.Restaurant{Name: "Cerrado", Active: false}
	require.NoError(t, s.db.CreateRestaurant(context.Background(), inactive))

	path := "/api/v1/restaurants/%d/search/products"
	body := dto.SearchRequest{Query: "bandeja paisa"}

	status, _ := s.do(t, http.MethodPost, fmtPath(path, s.restaurant.ID), s.token(t, s.restaurant.ID+100), body)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = s.do(t, http.MethodPost, fmtPath(path, inactive.ID), s.token(t, inactive.ID), body)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = s.do(t, http.MethodPost, fmtPath(path, s.restaurant.ID), s.token(t, s.restaurant.ID), body)
	assert.Equal(t, http.StatusOK, status)
}

func TestSearchFlow(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	tok := s.token(t, s.restaurant.ID)
	require.NoError(t, s.db.CreateProduct(ctx, &models.Product{
		RestaurantID: s.restaurant.ID,
		Name:         "Bandeja Paisa",
		Description:  "Frijoles, arroz, carne y chicharrón",
		Category:     "Platos fuertes",
		Price:        28000,
		Available:    true,
	}))

	status, body := s.do(t, http.MethodPost, fmtPath("/api/v1/restaurants/%d/embeddings/products", s.restaurant.ID), tok, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var stats service.IndexStats
	require.NoError(t, json.Unmarshal(body, &stats))
	assert.Equal(t, 1, stats.Created)

	threshold := 0.2
	status, body = s.do(t, http.MethodPost, fmtPath("/api/v1/restaurants/%d/search/products", s.restaurant.ID), tok,
		dto.SearchRequest{Query: "bandeja paisa", Threshold: &threshold})
	require.Equal(t, http.StatusOK, status, string(body))
	var res service.SearchResult[models.ProductMatch]
	require.NoError(t, json.Unmarshal(body, &res))
	require.Len(t, res.Results, 1)
	assert.Equal(t, "Bandeja Paisa", res.Results[0].Name)

	status, body = s.do(t, http.MethodPost, fmtPath("/api/v1/restaurants/%d/search/products", s.restaurant.ID), tok,
		dto.SearchRequest{Query: "  "})
	assert.Equal(t, http.StatusBadRequest, status, string(body))

	status, body = s.do(t, http.MethodGet, fmtPath("/api/v1/restaurants/%d/analytics?days=7", s.restaurant.ID), tok, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var summary models.SearchSummary
	require.NoError(t, json.Unmarshal(body, &summary))
	assert.Equal(t, 1, summary.Performance.TotalSearches)

	status, _ = s.do(t, http.MethodGet, fmtPath("/api/v1/restaurants/%d/analytics?days=400", s.restaurant.ID), tok, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestKnowledgeAndMemoryEndpoints(t *testing.T) {
	s := newTestServer(t)
	tok := s.token(t, s.restaurant.ID)

	status, body := s.do(t, http.MethodPost, fmtPath("/api/v1/restaurants/%d/knowledge", s.restaurant.ID), tok,
		dto.KnowledgeRequest{Question: "¿Tienen domicilio?", Answer: "Sí, en toda la ciudad.", Tags: []string{"Domicilio"}})
	require.Equal(t, http.StatusCreated, status, string(body))
	var entry dto.KnowledgeResponse
	require.NoError(t, json.Unmarshal(body, &entry))
	assert.Equal(t, []string{"domicilio"}, entry.Tags)

	status, _ = s.do(t, http.MethodPut, fmtPath("/api/v1/restaurants/%d/knowledge/", s.restaurant.ID)+"not-a-uuid", tok,
		dto.KnowledgeRequest{Question: "a", Answer: "b"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(t, http.MethodPut, fmtPath("/api/v1/restaurants/%d/knowledge/", s.restaurant.ID)+entry.ID, tok,
		dto.KnowledgeRequest{Question: "¿Tienen domicilio?", Answer: "Sí, hasta las 9."})
	assert.Equal(t, http.StatusOK, status)

	status, body = s.do(t, http.MethodPost, fmtPath("/api/v1/restaurants/%d/memories", s.restaurant.ID), tok,
		dto.MemoryRequest{CustomerPhone: "555-0001", MemoryType: "preference", Content: "Sin cebolla"})
	require.Equal(t, http.StatusCreated, status, string(body))

	status, _ = s.do(t, http.MethodPost, fmtPath("/api/v1/restaurants/%d/memories", s.restaurant.ID), tok,
		dto.MemoryRequest{CustomerPhone: "555-0001", MemoryType: "gossip", Content: "x"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(t, http.MethodPost, fmtPath("/api/v1/restaurants/%d/embeddings/products/999", s.restaurant.ID), tok, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestWriteEndpoints_RejectIncompleteBodies(t *testing.T) {
	s := newTestServer(t)
	tok := s.token(t, s.restaurant.ID)

	status, body := s.do(t, http.MethodPost, fmtPath("/api/v1/restaurants/%d/knowledge", s.restaurant.ID), tok,
		dto.KnowledgeRequest{Question: "¿Tienen parqueadero?"})
	assert.Equal(t, http.StatusBadRequest, status, string(body))

	status, body = s.do(t, http.MethodPost, fmtPath("/api/v1/restaurants/%d/memories", s.restaurant.ID), tok,
		dto.MemoryRequest{CustomerPhone: "555-0001", MemoryType: "preference", Content: "   "})
	assert.Equal(t, http.StatusBadRequest, status, string(body))

	status, body = s.do(t, http.MethodPost, "/auth/register", "",
		dto.RegisterRequest{RestaurantID: s.restaurant.ID, Email: "caja@lafonda.co", Password: "corta"})
	assert.Equal(t, http.StatusBadRequest, status, string(body))
}

func TestVectorsAndAssistant(t *testing.T) {
	s := newTestServer(t)
	tok := s.token(t, s.restaurant.ID)

	status, body := s.do(t, http.MethodGet, "/api/v1/vectors/status", tok, nil)
	require.Equal(t, http.StatusOK, status)
	var st dto.VectorStatusResponse
	require.NoError(t, json.Unmarshal(body, &st))
	assert.Equal(t, embedding.LocalDimension, st.Dimension)
	assert.True(t, st.NativeSearch["products"])
	assert.False(t, st.Assistant)

	status, body = s.do(t, http.MethodPost, "/api/v1/vectors/test-embedding", tok, dto.TestEmbeddingRequest{Text: "arepa"})
	require.Equal(t, http.StatusOK, status)
	var te dto.TestEmbeddingResponse
	require.NoError(t, json.Unmarshal(body, &te))
	assert.Len(t, te.Preview, 8)
	assert.False(t, te.Degraded)

	status, _ = s.do(t, http.MethodPost, fmtPath("/api/v1/restaurants/%d/assistant/reply", s.restaurant.ID), tok,
		dto.AssistantReplyRequest{Message: "hola"})
	assert.Equal(t, http.StatusServiceUnavailable, status)

	status, body = s.do(t, http.MethodPost, fmtPath("/api/v1/restaurants/%d/enrich", s.restaurant.ID), tok,
		dto.EnrichRequest{Query: "hola"})
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"products":[],"knowledge":[],"memories":[]}`, string(body))
}

func TestAuthEndpoints(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodPost, "/auth/register", "",
		dto.RegisterRequest{RestaurantID: s.restaurant.ID, Email: "caja@lafonda.co", Password: "arepas-2024"})
	require.Equal(t, http.StatusCreated, status, string(body))

	status, _ = s.do(t, http.MethodPost, "/auth/register", "",
		dto.RegisterRequest{RestaurantID: s.restaurant.ID, Email: "caja@lafonda.co", Password: "arepas-2024"})
	assert.Equal(t, http.StatusConflict, status)

	status, body = s.do(t, http.MethodPost, "/auth/login", "", dto.LoginRequest{Email: "caja@lafonda.co", Password: "arepas-2024"})
	require.Equal(t, http.StatusOK, status)
	var resp dto.AuthResponse
	require.NoError(t, json.Unmarshal(body, &resp))

	status, _ = s.do(t, http.MethodGet, "/api/v1/vectors/status", resp.AccessToken, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = s.do(t, http.MethodPost, "/auth/login", "", dto.LoginRequest{Email: "caja@lafonda.co", Password: "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, status)
}

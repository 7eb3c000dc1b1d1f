package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"restaurant-rag/internal/embedding"
	"restaurant-rag/internal/models"
	"restaurant-rag/internal/repository/sqlitestore"
	"restaurant-rag/internal/vectorstore"
	"restaurant-rag/pkg/config"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testSearchConfig = config.SearchConfig{
	ProductThreshold:   0.3,
	KnowledgeThreshold: 0.4,
	DefaultLimit:       5,
	MaxLimit:           50,
	IndexConcurrency:   2,
}

var (
	testEmbeddingConfig = config.EmbeddingConfig{Timeout: time.Second, CacheSize: 64}
	testLogger          = zap.NewNop()
)

// failingProvider simulates an unreachable embedding backend.
type failingProvider struct{ dim int }

func (p failingProvider) Name() string   { return "failing" }
func (p failingProvider) Model() string  { return "failing-model" }
func (p failingProvider) Dimension() int { return p.dim }
func (p failingProvider) Embed(context.Context, string) ([]float32, error) {
	return nil, errors.New("connection refused")
}

// errSearcher fails every query with err.
type errSearcher struct{ err error }

func (e errSearcher) NearestProducts(context.Context, vectorstore.Query) ([]models.ProductMatch, error) {
	return nil, e.err
}

func (e errSearcher) NearestKnowledge(context.Context, vectorstore.Query) ([]models.KnowledgeMatch, error) {
	return nil, e.err
}

func (e errSearcher) NearestMemories(context.Context, vectorstore.Query) ([]models.MemoryMatch, error) {
	return nil, e.err
}

// swappedStore overrides the search paths of a real store.
type swappedStore struct {
	*sqlitestore.Store
	native vectorstore.Searcher
	scan   vectorstore.Searcher
}

func (s *swappedStore) Native() vectorstore.Searcher {
	if s.native != nil {
		return s.native
	}
	return s.Store.Native()
}

func (s *swappedStore) Scan() vectorstore.Searcher {
	if s.scan != nil {
		return s.scan
	}
	return s.Store.Scan()
}

type testEnv struct {
	db         *sqlitestore.Store
	store      vectorstore.Store
	embeddings *EmbeddingService
	analytics  *AnalyticsService
	search     *SearchService
	indexing   *IndexingService
	enrichment *EnrichmentService
	restaurant *models.Restaurant
}

type envOption func(*envSetup)

type envSetup struct {
	provider embedding.Provider
	wrap     func(*sqlitestore.Store) vectorstore.Store
}

func withProvider(p embedding.Provider) envOption {
	return func(s *envSetup) { s.provider = p }
}

func withStore(wrap func(*sqlitestore.Store) vectorstore.Store) envOption {
	return func(s *envSetup) { s.wrap = wrap }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	setup := envSetup{
		provider: embedding.NewLocal(""),
		wrap:     func(s *sqlitestore.Store) vectorstore.Store { return s },
	}
	for _, o := range opts {
		o(&setup)
	}

	logger := testLogger
	db, err := sqlitestore.Open(filepath.Join(t.TempDir(), "rag.db"), embedding.LocalDimension,
		sqlitestore.Options{NativeSearch: true}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	embeddings, err := NewEmbeddingService(setup.provider, &testEmbeddingConfig, logger)
	require.NoError(t, err)

	store := setup.wrap(db)
	analytics := NewAnalyticsService(db, logger)
	search := NewSearchService(store, embeddings, analytics, &testSearchConfig, logger)
	require.NoError(t, search.Init(context.Background()))

	restaurant := &models.Restaurant{Name: "La Fonda Paisa", Active: true}
	require.NoError(t, db.CreateRestaurant(context.Background(), restaurant))

	return &testEnv{
		db:         db,
		store:      store,
		embeddings: embeddings,
		analytics:  analytics,
		search:     search,
		indexing:   NewIndexingService(store, db, embeddings, &testSearchConfig, logger),
		enrichment: NewEnrichmentService(search, db, logger),
		restaurant: restaurant,
	}
}

func (e *testEnv) addProduct(t *testing.T, restaurantID int64, name, description, category string, price float64) *models.Product {
	t.Helper()
	p := &models.Product{RestaurantID: restaurantID, Name: name, Description: description, Category: category, Price: price, Available: true}
	require.NoError(t, e.db.CreateProduct(context.Background(), p))
	return p
}

func (e *testEnv) addRestaurant(t *testing.T, name string) *models.Restaurant {
	t.Helper()
	r := &models.Restaurant{Name: name, Active: true}
	require.NoError(t, e.db.CreateRestaurant(context.Background(), r))
	return r
}

func ptr[T any](v T) *T { return &v }

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"restaurant-rag/internal/embedding"
	"restaurant-rag/internal/repository/sqlitestore"
	"restaurant-rag/internal/service"
	"restaurant-rag/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestSeeder(t *testing.T) (*seeder, *sqlitestore.Store) {
	t.Helper()
	logger := zap.NewNop()
	store, err := sqlitestore.Open(filepath.Join(t.TempDir(), "seed.db"), embedding.LocalDimension,
		sqlitestore.Options{NativeSearch: true}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	embeddings, err := service.NewEmbeddingService(embedding.NewLocal(""),
		&config.EmbeddingConfig{Timeout: time.Second, CacheSize: 16}, logger)
	require.NoError(t, err)

	indexing := service.NewIndexingService(store, store, embeddings, &config.SearchConfig{IndexConcurrency: 2}, logger)
	return &seeder{fixtures: store, knowledge: store, indexing: indexing, logger: logger}, store
}

func TestParseFixtures_DemoFile(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "fixtures", "demo.yaml"))
	require.NoError(t, err)

	f, err := parseFixtures(data)
	require.NoError(t, err)
	require.Len(t, f.Restaurants, 1)
	assert.Equal(t, "Restaurante Demo", f.Restaurants[0].Name)
	assert.Len(t, f.Restaurants[0].Products, 9)
	assert.Len(t, f.Restaurants[0].Knowledge, 2)
}

func TestParseFixtures_RejectsUnnamedRestaurant(t *testing.T) {
	_, err := parseFixtures([]byte("restaurants:\n  - products: []\n"))
	assert.Error(t, err)
}

func TestParseKnowledge_DemoEntries(t *testing.T) {
	entries, err := parseKnowledge(demoKnowledgeYAML)
	require.NoError(t, err)
	require.Len(t, entries, 5)
	for _, e := range entries {
		assert.NotEmpty(t, e.Question)
		assert.NotEmpty(t, e.Answer)
		assert.NotEmpty(t, e.Tags)
	}
}

func TestSeedRestaurant(t *testing.T) {
	ctx := context.Background()
	s, store := newTestSeeder(t)

	data, err := os.ReadFile(filepath.Join("..", "..", "fixtures", "demo.yaml"))
	require.NoError(t, err)
	f, err := parseFixtures(data)
	require.NoError(t, err)

	report, err := s.seedRestaurant(ctx, f.Restaurants[0])
	require.NoError(t, err)
	assert.Equal(t, 9, report.Products)
	assert.Equal(t, 1, report.Conversations)
	require.NotNil(t, report.Index)
	assert.Equal(t, 9, report.Index.Created)
	assert.Equal(t, 2, report.KnowledgeCreated)

	r, err := store.GetRestaurant(ctx, report.RestaurantID)
	require.NoError(t, err)
	assert.True(t, r.Active)

	// demo entries overlap the fixture knowledge on two questions
	entries, err := parseKnowledge(demoKnowledgeYAML)
	require.NoError(t, err)
	created, skipped, err := s.seedKnowledge(ctx, report.RestaurantID, entries)
	require.NoError(t, err)
	assert.Equal(t, 3, created)
	assert.Equal(t, 2, skipped)

	created, skipped, err = s.seedKnowledge(ctx, report.RestaurantID, entries)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Equal(t, 5, skipped)

	all, err := store.ListKnowledgeEntries(ctx, report.RestaurantID)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestSeedRestaurant_InactiveIsNotIndexed(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSeeder(t)
	inactive := false

	report, err := s.seedRestaurant(ctx, restaurantFixture{
		Name:      "Cerrado",
		Active:    &inactive,
		Products:  []productFixture{{Name: "Tinto", Price: 2000, Category: "bebidas"}},
		Knowledge: []knowledgeFixture{{Question: "¿Abren hoy?", Answer: "No"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Products)
	assert.Nil(t, report.Index)
	assert.Zero(t, report.KnowledgeCreated)
}

func TestParseRestaurantID(t *testing.T) {
	id, err := parseRestaurantID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"0", "-1", "abc", ""} {
		_, err := parseRestaurantID(bad)
		assert.Error(t, err, bad)
	}
}

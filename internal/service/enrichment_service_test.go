package service

import (
	"context"
	"errors"
	"testing"

	"restaurant-rag/internal/models"
	"restaurant-rag/internal/repository/sqlitestore"
	"restaurant-rag/internal/vectorstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// knowledgeDown delegates to a working searcher except for knowledge queries.
type knowledgeDown struct {
	vectorstore.Searcher
}

func (knowledgeDown) NearestKnowledge(context.Context, vectorstore.Query) ([]models.KnowledgeMatch, error) {
	return nil, errors.New("knowledge table locked")
}

func seedEnrichment(t *testing.T, env *testEnv) *models.Conversation {
	t.Helper()
	ctx := context.Background()
	env.addProduct(t, env.restaurant.ID, "Bandeja Paisa", "Frijoles, arroz, carne y chicharrón", "Platos fuertes", 28000)
	_, err := env.indexing.IndexProducts(ctx, env.restaurant.ID, false)
	require.NoError(t, err)

	_, err = env.indexing.CreateKnowledgeEntry(ctx, env.restaurant.ID, KnowledgeInput{
		Question: "¿La bandeja paisa trae chicharrón?",
		Answer:   "Sí, trae chicharrón, frijoles, arroz y carne molida.",
	})
	require.NoError(t, err)

	conv := &models.Conversation{RestaurantID: env.restaurant.ID, CustomerPhone: "555-0001"}
	require.NoError(t, env.db.CreateConversation(ctx, conv))
	_, err = env.indexing.StoreMemory(ctx, env.restaurant.ID, MemoryInput{
		CustomerPhone: "555-0001",
		MemoryType:    models.MemoryTypePreference,
		Content:       "Pide la bandeja paisa sin chicharrón",
	})
	require.NoError(t, err)
	return conv
}

func TestEnrich_CollectsAllDomains(t *testing.T) {
	env := newTestEnv(t)
	conv := seedEnrichment(t, env)

	ec, err := env.enrichment.Enrich(context.Background(), EnrichRequest{
		RestaurantID:   env.restaurant.ID,
		Query:          "bandeja paisa con chicharrón",
		ConversationID: &conv.ID,
	})
	require.NoError(t, err)
	require.Len(t, ec.Products, 1)
	require.Len(t, ec.Knowledge, 1)
	require.Len(t, ec.Memories, 1)
	assert.Equal(t, "Pide la bandeja paisa sin chicharrón", ec.Memories[0].Content)
	assert.False(t, ec.Empty())

	logs, err := env.db.ListSearchLogs(context.Background(), env.restaurant.ID)
	require.NoError(t, err)
	assert.Len(t, logs, 3)
	for _, l := range logs {
		require.NotNil(t, l.ConversationID)
		assert.Equal(t, conv.ID, *l.ConversationID)
	}
}

func TestEnrich_SkipsMemoriesWithoutCustomer(t *testing.T) {
	env := newTestEnv(t)
	seedEnrichment(t, env)

	ec, err := env.enrichment.Enrich(context.Background(), EnrichRequest{
		RestaurantID: env.restaurant.ID,
		Query:        "bandeja paisa con chicharrón",
	})
	require.NoError(t, err)
	assert.NotNil(t, ec.Memories)
	assert.Empty(t, ec.Memories)
	assert.Len(t, ec.Products, 1)
}

func TestEnrich_PartialFailure(t *testing.T) {
	env := newTestEnv(t, withStore(func(s *sqlitestore.Store) vectorstore.Store {
		broken := knowledgeDown{Searcher: s.Native()}
		return &swappedStore{Store: s, native: broken, scan: knowledgeDown{Searcher: s.Scan()}}
	}))
	seedEnrichment(t, env)

	ec, err := env.enrichment.Enrich(context.Background(), EnrichRequest{
		RestaurantID:  env.restaurant.ID,
		Query:         "bandeja paisa con chicharrón",
		CustomerPhone: "555-0001",
	})
	require.NoError(t, err)
	assert.Len(t, ec.Products, 1)
	assert.Empty(t, ec.Knowledge)
	assert.Len(t, ec.Memories, 1)
}

func TestEnrich_RejectsEmptyQuery(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.enrichment.Enrich(context.Background(), EnrichRequest{RestaurantID: env.restaurant.ID, Query: " \n "})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

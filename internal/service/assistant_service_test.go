package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"restaurant-rag/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingGenerator struct {
	prompt  string
	message string
	reply   string
	err     error
}

func (g *recordingGenerator) Generate(_ context.Context, systemPrompt, message string) (string, error) {
	g.prompt = systemPrompt
	g.message = message
	return g.reply, g.err
}

func TestBuildSystemPrompt(t *testing.T) {
	ec := &EnrichedContext{
		Products: []models.ProductMatch{
			{Name: "Bandeja Paisa", Description: "Frijoles, arroz, carne", Price: 28000, Similarity: 0.87},
		},
		Knowledge: []models.KnowledgeMatch{
			{Question: "¿Tienen domicilio?", Answer: "Sí"},
		},
		Memories: []models.MemoryMatch{
			{Content: "Pide sin cebolla", MemoryType: models.MemoryTypePreference},
			{Content: "texto largo", Summary: "Alérgico al maní", MemoryType: models.MemoryTypeComplaint},
		},
	}

	prompt := BuildSystemPrompt("La Fonda Paisa", ec)
	assert.Contains(t, prompt, "La Fonda Paisa")
	assert.Contains(t, prompt, "PRODUCTOS MÁS RELEVANTES PARA ESTA CONSULTA:")
	assert.Contains(t, prompt, "• Bandeja Paisa - $28,000 - Frijoles, arroz, carne (relevancia: 0.9)")
	assert.Contains(t, prompt, "INFORMACIÓN RELEVANTE DEL RESTAURANTE:\nP: ¿Tienen domicilio?\nR: Sí")
	assert.Contains(t, prompt, "• Pide sin cebolla (preference)")
	assert.Contains(t, prompt, "• Alérgico al maní (complaint)")
	assert.True(t, strings.HasSuffix(prompt, "respuestas más precisas y personalizadas."))
}

func TestBuildSystemPrompt_EmptyContext(t *testing.T) {
	prompt := BuildSystemPrompt("La Fonda Paisa", &EnrichedContext{})
	assert.NotContains(t, prompt, "PRODUCTOS")
	assert.NotContains(t, prompt, "INSTRUCCIÓN ESPECIAL")
	assert.Equal(t, prompt, BuildSystemPrompt("La Fonda Paisa", nil))
}

func TestFormatPesos(t *testing.T) {
	assert.Equal(t, "0", formatPesos(0))
	assert.Equal(t, "950", formatPesos(950))
	assert.Equal(t, "28,000", formatPesos(28000))
	assert.Equal(t, "1,250,000", formatPesos(1250000))
	assert.Equal(t, "-3,500", formatPesos(-3500))
}

func TestAssistantReply(t *testing.T) {
	env := newTestEnv(t)
	seedEnrichment(t, env)
	gen := &recordingGenerator{reply: "  ¡Claro! La bandeja paisa cuesta $28,000.  "}
	assistant := NewAssistantService(env.enrichment, env.db, gen, testLogger)
	require.True(t, assistant.Enabled())

	reply, err := assistant.Reply(context.Background(), EnrichRequest{
		RestaurantID:  env.restaurant.ID,
		Query:         "bandeja  paisa con chicharrón",
		CustomerPhone: "555-0001",
	})
	require.NoError(t, err)
	assert.Equal(t, "¡Claro! La bandeja paisa cuesta $28,000.", reply.Reply)
	assert.Equal(t, "bandeja paisa con chicharrón", gen.message)
	assert.Contains(t, gen.prompt, "• Bandeja Paisa - $28,000")
	assert.Contains(t, gen.prompt, "RECORDAR SOBRE ESTE CLIENTE:")
	assert.Len(t, reply.Context.Memories, 1)
}

func TestAssistantReply_Errors(t *testing.T) {
	env := newTestEnv(t)

	disabled := NewAssistantService(env.enrichment, env.db, nil, testLogger)
	assert.False(t, disabled.Enabled())
	_, err := disabled.Reply(context.Background(), EnrichRequest{RestaurantID: env.restaurant.ID, Query: "hola"})
	assert.ErrorIs(t, err, ErrAssistantDisabled)

	failing := NewAssistantService(env.enrichment, env.db, &recordingGenerator{err: errors.New("quota exceeded")}, testLogger)
	_, err = failing.Reply(context.Background(), EnrichRequest{RestaurantID: env.restaurant.ID, Query: "hola"})
	assert.ErrorContains(t, err, "quota exceeded")

	_, err = failing.Reply(context.Background(), EnrichRequest{RestaurantID: 9999, Query: "hola"})
	assert.ErrorIs(t, err, ErrRestaurantNotFound)
}

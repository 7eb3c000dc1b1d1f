package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("EMBEDDING_BACKEND", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("SEARCH_PRODUCT_THRESHOLD", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EmbeddingBackendLocal, cfg.Embedding.Backend)
	assert.Equal(t, "local-hashing-384", cfg.Embedding.Model)
	assert.Equal(t, 0.3, cfg.Search.ProductThreshold)
	assert.Equal(t, 0.4, cfg.Search.KnowledgeThreshold)
	assert.Equal(t, 5, cfg.Search.DefaultLimit)
}

func TestLoad_RemoteBackendRequiresKey(t *testing.T) {
	t.Setenv("EMBEDDING_BACKEND", EmbeddingBackendRemote)
	t.Setenv("EMBEDDING_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EMBEDDING_API_KEY")

	t.Setenv("EMBEDDING_API_KEY", "sk-test")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "text-embedding-ada-002", cfg.Embedding.Model)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Embedding: EmbeddingConfig{Backend: "word2vec"},
		Database:  DatabaseConfig{Driver: "mysql"},
		Search:    SearchConfig{ProductThreshold: 1.5, KnowledgeThreshold: 0.4, DefaultLimit: 5, MaxLimit: 50},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "word2vec")
	assert.Contains(t, err.Error(), "mysql")
	assert.Contains(t, err.Error(), "thresholds")
	assert.Contains(t, err.Error(), "timeouts")
}

func TestDatabaseConfig_MigrationURL(t *testing.T) {
	c := DatabaseConfig{User: "u", Password: "p", Host: "db", Port: "5432", DBName: "rag", SSLMode: "disable"}
	assert.Equal(t, "pgx5://u:p@db:5432/rag?sslmode=disable", c.MigrationURL())
}

func TestLoad_RejectsMalformedNumbers(t *testing.T) {
	t.Setenv("EMBEDDING_BACKEND", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("SEARCH_PRODUCT_THRESHOLD", "0,3")
	t.Setenv("EMBEDDING_TIMEOUT_SECONDS", "ten")

	cfg, err := Load()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "SEARCH_PRODUCT_THRESHOLD")
	assert.Contains(t, err.Error(), "EMBEDDING_TIMEOUT_SECONDS")
}

func TestLoad_RejectsZeroTimeout(t *testing.T) {
	t.Setenv("EMBEDDING_BACKEND", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("SEARCH_TIMEOUT_SECONDS", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeouts")
}

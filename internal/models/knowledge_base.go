package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// KnowledgeEntry is a FAQ item of a restaurant: a question/answer pair with
// tags, embedded through its searchable content.
type KnowledgeEntry struct {
	ID                uuid.UUID  `db:"id"`
	RestaurantID      int64      `db:"restaurant_id"`
	Question          string     `db:"question"`
	Answer            string     `db:"answer"`
	Category          string     `db:"category"`
	Tags              []string   `db:"tags"`
	SearchableContent string     `db:"searchable_content"`
	Embedding         []float32  `db:"embedding"`
	EmbeddingModel    string     `db:"embedding_model"`
	UsageCount        int        `db:"usage_count"`
	LastUsed          *time.Time `db:"last_used"`
	Active            bool       `db:"active"`
	Priority          int        `db:"priority"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
}

// KnowledgeSourceText joins question, answer and tags into the text that gets embedded.
func KnowledgeSourceText(question, answer string, tags []string) string {
	parts := []string{strings.TrimSpace(question), strings.TrimSpace(answer)}
	if len(tags) > 0 {
		parts = append(parts, strings.Join(tags, " "))
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

type KnowledgeMatch struct {
	ID         uuid.UUID `json:"id"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Category   string    `json:"category"`
	Tags       []string  `json:"tags"`
	Priority   int       `json:"priority"`
	UsageCount int       `json:"usage_count"`
	Similarity float64   `json:"similarity"`
	Distance   float64   `json:"-"`
}

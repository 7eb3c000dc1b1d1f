package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type MemoryType string

const (
	MemoryTypePreference   MemoryType = "preference"
	MemoryTypeOrderHistory MemoryType = "order_history"
	MemoryTypeComplaint    MemoryType = "complaint"
	MemoryTypeCompliment   MemoryType = "compliment"
)

func (t MemoryType) Valid() bool {
	switch t {
	case MemoryTypePreference, MemoryTypeOrderHistory, MemoryTypeComplaint, MemoryTypeCompliment:
		return true
	}
	return false
}

// ConversationMemory is a fact about a customer remembered across conversations.
type ConversationMemory struct {
	ID              uuid.UUID  `db:"id"`
	RestaurantID    int64      `db:"restaurant_id"`
	ConversationID  *int64     `db:"conversation_id"`
	CustomerPhone   string     `db:"customer_phone"`
	MemoryType      MemoryType `db:"memory_type"`
	Content         string     `db:"content"`
	Summary         string     `db:"summary"`
	ImportanceScore float64    `db:"importance_score"`
	Embedding       []float32  `db:"embedding"`
	EmbeddingModel  string     `db:"embedding_model"`
	AccessCount     int        `db:"access_count"`
	LastAccessed    *time.Time `db:"last_accessed"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

func MemorySourceText(content, summary string) string {
	return strings.TrimSpace(content + " " + summary)
}

type MemoryMatch struct {
	ID              uuid.UUID  `json:"id"`
	MemoryType      MemoryType `json:"memory_type"`
	Content         string     `json:"content"`
	Summary         string     `json:"summary"`
	ImportanceScore float64    `json:"importance_score"`
	AccessCount     int        `json:"access_count"`
	CreatedAt       time.Time  `json:"created_at"`
	Similarity      float64    `json:"similarity"`
	Distance        float64    `json:"-"`
}

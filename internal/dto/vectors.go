package dto

import "time"

type KnowledgeRequest struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Category string   `json:"category,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Priority int      `json:"priority,omitempty"`
	Active   *bool    `json:"active,omitempty"`
}

type KnowledgeResponse struct {
	ID             string    `json:"id"`
	Question       string    `json:"question"`
	Answer         string    `json:"answer"`
	Category       string    `json:"category"`
	Tags           []string  `json:"tags"`
	Priority       int       `json:"priority"`
	Active         bool      `json:"active"`
	UsageCount     int       `json:"usage_count"`
	EmbeddingModel string    `json:"embedding_model"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type MemoryRequest struct {
	ConversationID  *int64   `json:"conversation_id,omitempty"`
	CustomerPhone   string   `json:"customer_phone,omitempty"`
	MemoryType      string   `json:"memory_type"`
	Content         string   `json:"content"`
	Summary         string   `json:"summary,omitempty"`
	ImportanceScore *float64 `json:"importance_score,omitempty"`
}

type MemoryResponse struct {
	ID              string    `json:"id"`
	CustomerPhone   string    `json:"customer_phone"`
	MemoryType      string    `json:"memory_type"`
	Content         string    `json:"content"`
	Summary         string    `json:"summary"`
	ImportanceScore float64   `json:"importance_score"`
	CreatedAt       time.Time `json:"created_at"`
}

type ProductEmbeddingResponse struct {
	ProductID      int64     `json:"product_id"`
	Content        string    `json:"content"`
	EmbeddingModel string    `json:"embedding_model"`
	Dimension      int       `json:"dimension"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type VectorStatusResponse struct {
	Provider     string          `json:"provider"`
	Model        string          `json:"model"`
	Dimension    int             `json:"dimension"`
	NativeSearch map[string]bool `json:"native_search"`
	Assistant    bool            `json:"assistant_enabled"`
}

type TestEmbeddingRequest struct {
	Text string `json:"text"`
}

type TestEmbeddingResponse struct {
	Model      string    `json:"model"`
	Dimension  int       `json:"dimension"`
	Degraded   bool      `json:"degraded"`
	DurationMS int64     `json:"duration_ms"`
	Preview    []float32 `json:"preview"`
}

type ReindexRequest struct {
	Force bool `json:"force"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

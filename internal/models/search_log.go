package models

import (
	"time"

	"github.com/google/uuid"
)

type SearchDomain string

const (
	SearchDomainProducts  SearchDomain = "products"
	SearchDomainKnowledge SearchDomain = "knowledge"
	SearchDomainMemory    SearchDomain = "memory"
)

type SearchPath string

const (
	SearchPathNative SearchPath = "native"
	SearchPathScan   SearchPath = "scan"
	// SearchPathNone marks a search where no path returned results because every path failed.
	SearchPathNone SearchPath = "none"
)

// SearchLog is written once per search and never updated.
type SearchLog struct {
	ID              uuid.UUID    `db:"id"`
	RestaurantID    int64        `db:"restaurant_id"`
	ConversationID  *int64       `db:"conversation_id"`
	Query           string       `db:"query"`
	SearchType      SearchDomain `db:"search_type"`
	Embedding       []float32    `db:"embedding"`
	ResultsFound    int          `db:"results_found"`
	TopSimilarity   float64      `db:"top_similarity"`
	SearchTimeMS    int64        `db:"search_time_ms"`
	EmbeddingTimeMS int64        `db:"embedding_time_ms"`
	SearchPath      SearchPath   `db:"search_path"`
	Degraded        bool         `db:"degraded"`
	CreatedAt       time.Time    `db:"created_at"`
}

type QueryStat struct {
	Query         string  `json:"query" db:"query"`
	Count         int     `json:"count" db:"count"`
	AvgSimilarity float64 `json:"avg_similarity" db:"avg_similarity"`
}

type PerformanceStats struct {
	AvgSearchMS    float64 `json:"avg_search_ms" db:"avg_search_ms"`
	AvgEmbeddingMS float64 `json:"avg_embedding_ms" db:"avg_embedding_ms"`
	AvgResults     float64 `json:"avg_results" db:"avg_results"`
	TotalSearches  int     `json:"total_searches" db:"total_searches"`
}

type SearchSummary struct {
	WindowDays  int              `json:"window_days"`
	TopQueries  []QueryStat      `json:"top_queries"`
	Performance PerformanceStats `json:"performance"`
}

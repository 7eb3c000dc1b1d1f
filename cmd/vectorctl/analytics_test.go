package main

import (
	"bytes"
	"testing"

	"restaurant-rag/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestPrintSummary(t *testing.T) {
	var out bytes.Buffer
	printSummary(&out, &models.SearchSummary{
		WindowDays: 7,
		TopQueries: []models.QueryStat{
			{Query: "bandeja paisa", Count: 4, AvgSimilarity: 0.412},
			{Query: "horario", Count: 1, AvgSimilarity: 0.6},
		},
		Performance: models.PerformanceStats{AvgSearchMS: 12, AvgEmbeddingMS: 1.5, AvgResults: 2, TotalSearches: 5},
	})

	text := out.String()
	assert.Contains(t, text, "Last 7 day(s): 5 searches")
	assert.Contains(t, text, "QUERY")
	assert.Contains(t, text, "bandeja paisa")
	assert.Contains(t, text, "0.412")
}

func TestPrintSummary_NoQueries(t *testing.T) {
	var out bytes.Buffer
	printSummary(&out, &models.SearchSummary{WindowDays: 30})
	assert.Contains(t, out.String(), "No queries recorded.")
}

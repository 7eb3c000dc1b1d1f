package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ProductEmbedding holds the vector of a single product. ProductID is the natural key.
type ProductEmbedding struct {
	ID             uuid.UUID `db:"id"`
	ProductID      int64     `db:"product_id"`
	RestaurantID   int64     `db:"restaurant_id"`
	Content        string    `db:"content"`
	Embedding      []float32 `db:"embedding"`
	EmbeddingModel string    `db:"embedding_model"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

type ProductMatch struct {
	ProductID   int64   `json:"product_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Content     string  `json:"content"`
	Similarity  float64 `json:"similarity"`
	Distance    float64 `json:"-"`
}

const (
	budgetPriceLimit  = 10000
	premiumPriceLimit = 25000
)

var cuisineTags = []struct {
	keyword string
	tags    string
}{
	{"bandeja", "típico tradicional colombiano completo"},
	{"empanada", "frito entrada aperitivo"},
	{"sancocho", "sopa caliente tradicional familiar"},
	{"arepa", "maíz tradicional desayuno"},
}

// PriceTier describes the price of a product in the words customers use to ask for it.
func PriceTier(price float64) string {
	switch {
	case price < budgetPriceLimit:
		return "económico barato accesible"
	case price > premiumPriceLimit:
		return "premium caro exclusivo"
	default:
		return "precio medio estándar"
	}
}

// ProductSourceText builds the searchable content of a product. Only the first
// matching dish keyword contributes cuisine tags.
func ProductSourceText(p *Product) string {
	parts := []string{p.Name}
	if p.Description != "" {
		parts = append(parts, p.Description)
	}
	if p.Category != "" {
		parts = append(parts, p.Category)
	}
	parts = append(parts, PriceTier(p.Price))

	name := strings.ToLower(p.Name)
	for _, c := range cuisineTags {
		if strings.Contains(name, c.keyword) {
			parts = append(parts, c.tags)
			break
		}
	}
	return strings.Join(parts, " ")
}

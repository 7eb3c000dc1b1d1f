package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ReplyGenerator produces the assistant's answer from a system prompt and
// the customer's message.
type ReplyGenerator interface {
	Generate(ctx context.Context, systemPrompt, message string) (string, error)
}

type AssistantReply struct {
	Reply   string           `json:"reply"`
	Context *EnrichedContext `json:"context"`
}

type AssistantService struct {
	enrichment *EnrichmentService
	catalog    Catalog
	generator  ReplyGenerator
	logger     *zap.Logger
}

// NewAssistantService accepts a nil generator; Reply then returns ErrAssistantDisabled.
func NewAssistantService(enrichment *EnrichmentService, catalog Catalog, generator ReplyGenerator, logger *zap.Logger) *AssistantService {
	return &AssistantService{
		enrichment: enrichment,
		catalog:    catalog,
		generator:  generator,
		logger:     logger,
	}
}

func (s *AssistantService) Enabled() bool { return s.generator != nil }

func (s *AssistantService) Reply(ctx context.Context, req EnrichRequest) (*AssistantReply, error) {
	if s.generator == nil {
		return nil, ErrAssistantDisabled
	}
	restaurant, err := activeRestaurant(ctx, s.catalog, req.RestaurantID)
	if err != nil {
		return nil, err
	}
	ec, err := s.enrichment.Enrich(ctx, req)
	if err != nil {
		return nil, err
	}

	prompt := BuildSystemPrompt(restaurant.Name, ec)
	reply, err := s.generator.Generate(ctx, prompt, normalizeQuery(req.Query))
	if err != nil {
		return nil, fmt.Errorf("generate reply: %w", err)
	}

	s.logger.Info("Assistant reply generated",
		zap.Int64("restaurant_id", req.RestaurantID),
		zap.Int("products", len(ec.Products)),
		zap.Int("knowledge", len(ec.Knowledge)),
		zap.Int("memories", len(ec.Memories)),
	)
	return &AssistantReply{Reply: strings.TrimSpace(reply), Context: ec}, nil
}

// BuildSystemPrompt renders the sales assistant instructions followed by
// whatever the semantic searches found for the current message.
func BuildSystemPrompt(restaurantName string, ec *EnrichedContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Eres un asistente virtual especializado en ventas para %s, un restaurante colombiano.\n\n", restaurantName)
	b.WriteString("TU OBJETIVO PRINCIPAL: Ayudar al cliente a realizar pedidos de comida de manera amigable y eficiente.\n")
	b.WriteString("Responde siempre en español, de forma breve y cálida. No inventes productos ni precios.")

	if ec == nil || ec.Empty() {
		return b.String()
	}

	if len(ec.Products) > 0 {
		b.WriteString("\n\nPRODUCTOS MÁS RELEVANTES PARA ESTA CONSULTA:")
		for _, p := range ec.Products {
			fmt.Fprintf(&b, "\n• %s - $%s", p.Name, formatPesos(p.Price))
			if p.Description != "" {
				fmt.Fprintf(&b, " - %s", p.Description)
			}
			fmt.Fprintf(&b, " (relevancia: %.1f)", p.Similarity)
		}
	}
	if len(ec.Knowledge) > 0 {
		b.WriteString("\n\nINFORMACIÓN RELEVANTE DEL RESTAURANTE:")
		for _, k := range ec.Knowledge {
			fmt.Fprintf(&b, "\nP: %s\nR: %s", k.Question, k.Answer)
		}
	}
	if len(ec.Memories) > 0 {
		b.WriteString("\n\nRECORDAR SOBRE ESTE CLIENTE:")
		for _, m := range ec.Memories {
			text := m.Summary
			if text == "" {
				text = m.Content
			}
			fmt.Fprintf(&b, "\n• %s (%s)", text, m.MemoryType)
		}
	}
	b.WriteString("\n\nINSTRUCCIÓN ESPECIAL: Usa la información de relevancia semántica arriba para dar respuestas más precisas y personalizadas.")
	return b.String()
}

// formatPesos renders a price without decimals and with comma thousands separators.
func formatPesos(price float64) string {
	digits := fmt.Sprintf("%.0f", price)
	neg := strings.HasPrefix(digits, "-")
	digits = strings.TrimPrefix(digits, "-")

	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

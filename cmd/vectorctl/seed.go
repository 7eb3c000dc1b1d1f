package main

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"restaurant-rag/internal/app"
	"restaurant-rag/internal/models"
	"restaurant-rag/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed demo_knowledge.yaml
var demoKnowledgeYAML []byte

type fixtureFile struct {
	Restaurants []restaurantFixture `yaml:"restaurants"`
}

type restaurantFixture struct {
	Name          string                `yaml:"name"`
	Active        *bool                 `yaml:"active"`
	Products      []productFixture      `yaml:"products"`
	Conversations []conversationFixture `yaml:"conversations"`
	Knowledge     []knowledgeFixture    `yaml:"knowledge"`
}

type productFixture struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Price       float64 `yaml:"price"`
	Category    string  `yaml:"category"`
	Available   *bool   `yaml:"available"`
}

type conversationFixture struct {
	CustomerPhone string `yaml:"customer_phone"`
}

type knowledgeFixture struct {
	Question string   `yaml:"question"`
	Answer   string   `yaml:"answer"`
	Category string   `yaml:"category"`
	Tags     []string `yaml:"tags"`
	Priority int      `yaml:"priority"`
}

func (k knowledgeFixture) input() service.KnowledgeInput {
	return service.KnowledgeInput{
		Question: k.Question,
		Answer:   k.Answer,
		Category: k.Category,
		Tags:     k.Tags,
		Priority: k.Priority,
	}
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func parseFixtures(data []byte) (*fixtureFile, error) {
	var f fixtureFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	for i, r := range f.Restaurants {
		if strings.TrimSpace(r.Name) == "" {
			return nil, fmt.Errorf("restaurant #%d has no name", i+1)
		}
	}
	return &f, nil
}

func parseKnowledge(data []byte) ([]knowledgeFixture, error) {
	var entries []knowledgeFixture
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse knowledge: %w", err)
	}
	return entries, nil
}

type seedReport struct {
	RestaurantID     int64
	Products         int
	Conversations    int
	Index            *service.IndexStats
	KnowledgeCreated int
	KnowledgeSkipped int
}

// seeder writes fixtures through the catalog and embeds them through the
// indexing service, so seeded rows look like rows written by the API.
type seeder struct {
	fixtures  app.CatalogWriter
	knowledge app.KnowledgeLister
	indexing  *service.IndexingService
	logger    *zap.Logger
}

func (s *seeder) seedRestaurant(ctx context.Context, rf restaurantFixture) (*seedReport, error) {
	r := &models.Restaurant{Name: rf.Name, Active: boolOr(rf.Active, true)}
	if err := s.fixtures.CreateRestaurant(ctx, r); err != nil {
		return nil, fmt.Errorf("create restaurant %q: %w", rf.Name, err)
	}
	report := &seedReport{RestaurantID: r.ID}

	for _, pf := range rf.Products {
		p := &models.Product{
			RestaurantID: r.ID,
			Name:         pf.Name,
			Description:  pf.Description,
			Price:        pf.Price,
			Category:     pf.Category,
			Available:    boolOr(pf.Available, true),
		}
		if err := s.fixtures.CreateProduct(ctx, p); err != nil {
			return nil, fmt.Errorf("create product %q: %w", pf.Name, err)
		}
		report.Products++
	}

	for _, cf := range rf.Conversations {
		c := &models.Conversation{RestaurantID: r.ID, CustomerPhone: cf.CustomerPhone}
		if err := s.fixtures.CreateConversation(ctx, c); err != nil {
			return nil, fmt.Errorf("create conversation: %w", err)
		}
		report.Conversations++
	}

	// inactive restaurants cannot be indexed or receive knowledge
	if !r.Active {
		return report, nil
	}

	stats, err := s.indexing.IndexProducts(ctx, r.ID, false)
	if err != nil {
		return nil, fmt.Errorf("index products: %w", err)
	}
	report.Index = stats

	report.KnowledgeCreated, report.KnowledgeSkipped, err = s.seedKnowledge(ctx, r.ID, rf.Knowledge)
	if err != nil {
		return nil, err
	}
	return report, nil
}

// seedKnowledge creates entries whose question is not yet present for the restaurant.
func (s *seeder) seedKnowledge(ctx context.Context, restaurantID int64, entries []knowledgeFixture) (created, skipped int, err error) {
	existing, err := s.knowledge.ListKnowledgeEntries(ctx, restaurantID)
	if err != nil {
		return 0, 0, fmt.Errorf("list knowledge: %w", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, e := range existing {
		seen[normalizeQuestion(e.Question)] = true
	}

	for _, k := range entries {
		key := normalizeQuestion(k.Question)
		if seen[key] {
			skipped++
			continue
		}
		if _, err := s.indexing.CreateKnowledgeEntry(ctx, restaurantID, k.input()); err != nil {
			return created, skipped, fmt.Errorf("create knowledge %q: %w", k.Question, err)
		}
		seen[key] = true
		created++
	}
	s.logger.Info("Knowledge seeded",
		zap.Int64("restaurant_id", restaurantID),
		zap.Int("created", created),
		zap.Int("skipped", skipped))
	return created, skipped, nil
}

func normalizeQuestion(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

func newSeeder(e *env) *seeder {
	return &seeder{
		fixtures:  e.backend.Fixtures,
		knowledge: e.backend.Knowledge,
		indexing:  e.indexing,
		logger:    e.logger,
	}
}

func seedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create restaurants, products and knowledge from a fixture file",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			fixtures, err := parseFixtures(data)
			if err != nil {
				return err
			}

			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			s := newSeeder(e)
			for _, rf := range fixtures.Restaurants {
				report, err := s.seedRestaurant(cmd.Context(), rf)
				if err != nil {
					return err
				}
				fmt.Printf("%s: id=%d products=%d conversations=%d knowledge=%d\n",
					rf.Name, report.RestaurantID, report.Products, report.Conversations, report.KnowledgeCreated)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "fixtures/demo.yaml", "fixture file")
	return cmd
}

func demoKnowledgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo-knowledge [restaurantId]",
		Short: "Add the demo FAQ entries to a restaurant, skipping questions it already has",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			restaurantID, err := parseRestaurantID(args[0])
			if err != nil {
				return err
			}
			entries, err := parseKnowledge(demoKnowledgeYAML)
			if err != nil {
				return err
			}

			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			created, skipped, err := newSeeder(e).seedKnowledge(cmd.Context(), restaurantID, entries)
			if err != nil {
				return err
			}
			fmt.Printf("entries_created=%d skipped=%d total_entries=%d\n", created, skipped, len(entries))
			return nil
		},
	}
}

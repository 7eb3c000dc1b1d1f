package repository

import (
	"context"
	"errors"
	"fmt"

	"restaurant-rag/internal/models"
	"restaurant-rag/internal/vectorstore"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var nativeFunctions = map[string]models.SearchDomain{
	"match_products":  models.SearchDomainProducts,
	"match_knowledge": models.SearchDomainKnowledge,
	"match_memories":  models.SearchDomainMemory,
}

// VectorStore keeps product embeddings, knowledge entries and conversation
// memories in Postgres with pgvector columns.
type VectorStore struct {
	db             *pgxpool.Pool
	dim            int
	nativeDisabled bool
	logger         *zap.Logger
}

func NewVectorStore(db *pgxpool.Pool, dim int, logger *zap.Logger) *VectorStore {
	return &VectorStore{
		db:     db,
		dim:    dim,
		logger: logger,
	}
}

func (s *VectorStore) Dimension() int { return s.dim }

// DisableNative makes ProbeNative report no native paths, so every search scans.
func (s *VectorStore) DisableNative() { s.nativeDisabled = true }

func (s *VectorStore) EnsureDimension(ctx context.Context, model string) error {
	insert, args, err := squirrel.Insert("vector_settings").
		Columns("id", "dimension", "embedding_model").
		Values(1, s.dim, model).
		Suffix("ON CONFLICT (id) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx, insert, args...); err != nil {
		return fmt.Errorf("record vector settings: %w", err)
	}

	var (
		dim       int
		prevModel string
	)
	err = s.db.QueryRow(ctx, "SELECT dimension, embedding_model FROM vector_settings WHERE id = 1").Scan(&dim, &prevModel)
	if err != nil {
		return fmt.Errorf("read vector settings: %w", err)
	}
	if dim != s.dim {
		return fmt.Errorf("%w: database stores %d-dimensional vectors (%s), provider produces %d",
			vectorstore.ErrDimensionMismatch, dim, prevModel, s.dim)
	}
	if prevModel != model {
		s.logger.Warn("Embedding model differs from the one the index was built with",
			zap.String("index_model", prevModel),
			zap.String("provider_model", model),
		)
	}
	return nil
}

// ProbeNative reports which match_* functions are installed.
func (s *VectorStore) ProbeNative(ctx context.Context) (vectorstore.Capabilities, error) {
	if s.nativeDisabled {
		return vectorstore.Capabilities{}, nil
	}
	names := make([]string, 0, len(nativeFunctions))
	for name := range nativeFunctions {
		names = append(names, name)
	}
	query, args, err := squirrel.Select("proname").
		From("pg_proc").
		Where(squirrel.Eq{"proname": names}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return vectorstore.Capabilities{}, err
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return vectorstore.Capabilities{}, fmt.Errorf("probe native search: %w", err)
	}
	defer rows.Close()

	var caps vectorstore.Capabilities
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return vectorstore.Capabilities{}, err
		}
		switch nativeFunctions[name] {
		case models.SearchDomainProducts:
			caps.Products = true
		case models.SearchDomainKnowledge:
			caps.Knowledge = true
		case models.SearchDomainMemory:
			caps.Memories = true
		}
	}
	return caps, rows.Err()
}

func (s *VectorStore) Native() vectorstore.Searcher { return &nativeSearcher{store: s} }

func (s *VectorStore) Scan() vectorstore.Searcher { return vectorstore.NewScanSearcher(s, s.dim) }

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}
	return err
}

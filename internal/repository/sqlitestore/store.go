// Package sqlitestore is the embedded SQLite backend used for local runs,
// the admin CLI and tests. Vectors are stored as "[a,b,...]" text and the
// native search path is a registered vec_cosine_distance SQL function.
package sqlitestore

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"sync"
	"time"

	"restaurant-rag/internal/models"
	"restaurant-rag/internal/vectorstore"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"modernc.org/sqlite"
)

const (
	distanceFunction = "vec_cosine_distance"
	readConns        = 4
)

var registerOnce sync.Once
var registerErr error

// registerFunctions installs vec_cosine_distance for every connection opened afterwards.
func registerFunctions() error {
	registerOnce.Do(func() {
		registerErr = sqlite.RegisterDeterministicScalarFunction(distanceFunction, 2,
			func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
				a, err := vectorArg(args[0])
				if err != nil {
					return nil, err
				}
				b, err := vectorArg(args[1])
				if err != nil {
					return nil, err
				}
				if len(a) != len(b) {
					return nil, fmt.Errorf("%s: %d vs %d dimensions", distanceFunction, len(a), len(b))
				}
				return vectorstore.CosineDistance(a, b), nil
			})
	})
	return registerErr
}

func vectorArg(v driver.Value) ([]float32, error) {
	switch t := v.(type) {
	case string:
		return vectorstore.ParseVector(t)
	case []byte:
		return vectorstore.ParseVector(string(t))
	}
	return nil, fmt.Errorf("%s: unsupported argument %T", distanceFunction, v)
}

type Options struct {
	// NativeSearch exposes vec_cosine_distance as the native search path.
	NativeSearch bool
	// Now stamps created_at/updated_at. Defaults to time.Now.
	Now func() time.Time
}

// Store implements the vector store, catalog, search log and operator
// repositories on one SQLite database.
type Store struct {
	// db is the single writer connection. read is a query_only pool; WAL
	// lets it run alongside the writer.
	db     *sqlx.DB
	read   *sqlx.DB
	dim    int
	opts   Options
	logger *zap.Logger
}

func Open(path string, dim int, opts Options, logger *zap.Logger) (*Store, error) {
	if err := registerFunctions(); err != nil {
		return nil, fmt.Errorf("register sqlite functions: %w", err)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	db, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, dim: dim, opts: opts, logger: logger}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	// opened after migrate so the file is already in WAL mode
	read, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=query_only(1)")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open sqlite reader: %w", err)
	}
	read.SetMaxOpenConns(readConns)
	s.read = read

	logger.Info("SQLite store opened", zap.String("path", path), zap.Int("dimension", dim))
	return s, nil
}

func (s *Store) Close() error {
	return errors.Join(s.read.Close(), s.db.Close())
}

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Dimension() int { return s.dim }

func (s *Store) EnsureDimension(ctx context.Context, model string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO vector_settings (id, dimension, embedding_model, created_at) VALUES (1, ?, ?, ?)
		 ON CONFLICT (id) DO NOTHING`, s.dim, model, s.now())
	if err != nil {
		return fmt.Errorf("record vector settings: %w", err)
	}

	var settings struct {
		Dimension int    `db:"dimension"`
		Model     string `db:"embedding_model"`
	}
	if err := s.db.GetContext(ctx, &settings, "SELECT dimension, embedding_model FROM vector_settings WHERE id = 1"); err != nil {
		return fmt.Errorf("read vector settings: %w", err)
	}
	if settings.Dimension != s.dim {
		return fmt.Errorf("%w: database stores %d-dimensional vectors (%s), provider produces %d",
			vectorstore.ErrDimensionMismatch, settings.Dimension, settings.Model, s.dim)
	}
	if settings.Model != model {
		s.logger.Warn("Embedding model differs from the one the index was built with",
			zap.String("index_model", settings.Model),
			zap.String("provider_model", model),
		)
	}
	return nil
}

// ProbeNative checks that vec_cosine_distance is callable on this connection.
func (s *Store) ProbeNative(ctx context.Context) (vectorstore.Capabilities, error) {
	if !s.opts.NativeSearch {
		return vectorstore.Capabilities{}, nil
	}
	var d float64
	if err := s.read.GetContext(ctx, &d, "SELECT "+distanceFunction+"('[1,0]', '[1,0]')"); err != nil {
		s.logger.Warn("Native vector search unavailable", zap.Error(err))
		return vectorstore.Capabilities{}, nil
	}
	return vectorstore.Capabilities{Products: true, Knowledge: true, Memories: true}, nil
}

func (s *Store) Native() vectorstore.Searcher { return &nativeSearcher{store: s} }

func (s *Store) Scan() vectorstore.Searcher { return vectorstore.NewScanSearcher(s, s.dim) }

func (s *Store) now() int64 { return s.opts.Now().UTC().UnixNano() }

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrNotFound
	}
	return err
}

func fromNanos(n int64) time.Time { return time.Unix(0, n).UTC() }

func fromNullNanos(n sql.NullInt64) *time.Time {
	if !n.Valid {
		return nil
	}
	t := fromNanos(n.Int64)
	return &t
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS restaurants (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		active INTEGER NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		restaurant_id INTEGER NOT NULL REFERENCES restaurants (id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price REAL NOT NULL DEFAULT 0,
		category TEXT NOT NULL DEFAULT '',
		available INTEGER NOT NULL DEFAULT 1
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_restaurant ON products (restaurant_id)`,
	`CREATE TABLE IF NOT EXISTS conversations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		restaurant_id INTEGER NOT NULL REFERENCES restaurants (id) ON DELETE CASCADE,
		customer_phone TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS operators (
		id TEXT PRIMARY KEY,
		restaurant_id INTEGER NOT NULL REFERENCES restaurants (id) ON DELETE CASCADE,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS vector_settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		dimension INTEGER NOT NULL,
		embedding_model TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS product_embeddings (
		id TEXT PRIMARY KEY,
		product_id INTEGER NOT NULL UNIQUE REFERENCES products (id) ON DELETE CASCADE,
		restaurant_id INTEGER NOT NULL,
		content TEXT NOT NULL,
		embedding TEXT NOT NULL,
		embedding_model TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_product_embeddings_restaurant ON product_embeddings (restaurant_id)`,
	`CREATE TABLE IF NOT EXISTS knowledge_base (
		id TEXT PRIMARY KEY,
		restaurant_id INTEGER NOT NULL,
		question TEXT NOT NULL,
		answer TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT '[]',
		searchable_content TEXT NOT NULL,
		embedding TEXT NOT NULL,
		embedding_model TEXT NOT NULL,
		usage_count INTEGER NOT NULL DEFAULT 0,
		last_used INTEGER,
		active INTEGER NOT NULL DEFAULT 1,
		priority INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_knowledge_base_restaurant ON knowledge_base (restaurant_id)`,
	`CREATE TABLE IF NOT EXISTS conversation_memories (
		id TEXT PRIMARY KEY,
		restaurant_id INTEGER NOT NULL,
		conversation_id INTEGER,
		customer_phone TEXT NOT NULL,
		memory_type TEXT NOT NULL,
		content TEXT NOT NULL,
		summary TEXT NOT NULL DEFAULT '',
		importance_score REAL NOT NULL DEFAULT 0.5,
		embedding TEXT NOT NULL,
		embedding_model TEXT NOT NULL,
		access_count INTEGER NOT NULL DEFAULT 0,
		last_accessed INTEGER,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_memories_customer ON conversation_memories (restaurant_id, customer_phone)`,
	`CREATE TABLE IF NOT EXISTS search_logs (
		id TEXT PRIMARY KEY,
		restaurant_id INTEGER NOT NULL,
		conversation_id INTEGER,
		query TEXT NOT NULL,
		search_type TEXT NOT NULL,
		embedding TEXT,
		results_found INTEGER NOT NULL,
		top_similarity REAL NOT NULL,
		search_time_ms INTEGER NOT NULL,
		embedding_time_ms INTEGER NOT NULL,
		search_path TEXT NOT NULL,
		degraded INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_search_logs_restaurant_created ON search_logs (restaurant_id, created_at)`,
}

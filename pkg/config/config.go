package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	EmbeddingBackendLocal  = "local"
	EmbeddingBackendRemote = "remote"

	DatabaseDriverPostgres = "postgres"
	DatabaseDriverSQLite   = "sqlite"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	GigaChat  GigaChatConfig
	Embedding EmbeddingConfig
	Search    SearchConfig
	Logger    LoggerConfig
	Tracing   TracingConfig
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Driver      string
	Host        string
	Port        string
	User        string
	Password    string
	DBName      string
	SSLMode     string
	SQLitePath  string
	AutoMigrate bool
	// NativeSearch disables the database-side search functions when false.
	NativeSearch bool
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// MigrationURL is the golang-migrate form of the connection string.
func (c DatabaseConfig) MigrationURL() string {
	return fmt.Sprintf("pgx5://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

type JWTConfig struct {
	SecretKey  string
	Expiration time.Duration
	RefreshExp time.Duration
}

type GigaChatConfig struct {
	APIKey             string
	Scope              string
	Model              string
	InsecureSkipVerify bool
}

type EmbeddingConfig struct {
	Backend string
	Model   string
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// RequestsPerSecond limits calls to the remote backend.
	RequestsPerSecond float64
	MaxRetries        int
	CacheSize         int
}

type SearchConfig struct {
	ProductThreshold   float64
	KnowledgeThreshold float64
	DefaultLimit       int
	MaxLimit           int
	Timeout            time.Duration
	IndexConcurrency   int
}

type TracingConfig struct {
	Endpoint    string
	Insecure    bool
	ServiceName string
}

func Load() (*Config, error) {
	// .env is optional, plain environment variables work as well (Docker/K8s)
	for _, envFile := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	var env envParser
	readTimeout := env.seconds("SERVER_READ_TIMEOUT", "30")
	writeTimeout := env.seconds("SERVER_WRITE_TIMEOUT", "30")
	jwtExp := env.hours("JWT_EXPIRATION_HOURS", "24")
	refreshExp := env.hours("JWT_REFRESH_EXPIRATION_HOURS", "168")
	embedTimeout := env.seconds("EMBEDDING_TIMEOUT_SECONDS", "10")
	embedRPS := env.float("EMBEDDING_REQUESTS_PER_SECOND", "5")
	embedRetries := env.int("EMBEDDING_MAX_RETRIES", "3")
	embedCache := env.int("EMBEDDING_CACHE_SIZE", "1024")
	productThreshold := env.float("SEARCH_PRODUCT_THRESHOLD", "0.3")
	knowledgeThreshold := env.float("SEARCH_KNOWLEDGE_THRESHOLD", "0.4")
	defaultLimit := env.int("SEARCH_DEFAULT_LIMIT", "5")
	maxLimit := env.int("SEARCH_MAX_LIMIT", "50")
	searchTimeout := env.seconds("SEARCH_TIMEOUT_SECONDS", "15")
	indexConcurrency := env.int("INDEX_CONCURRENCY", "4")
	if err := errors.Join(env.errs...); err != nil {
		return nil, err
	}

	backend := getEnv("EMBEDDING_BACKEND", EmbeddingBackendLocal)
	defaultModel := "local-hashing-384"
	if backend == EmbeddingBackendRemote {
		defaultModel = "text-embedding-ada-002"
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		},
		Database: DatabaseConfig{
			Driver:       getEnv("DB_DRIVER", DatabaseDriverPostgres),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			DBName:       getEnv("DB_NAME", "restaurant_rag"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			SQLitePath:   getEnv("DB_SQLITE_PATH", "restaurant_rag.db"),
			AutoMigrate:  getEnv("DB_AUTO_MIGRATE", "true") == "true",
			NativeSearch: getEnv("DB_NATIVE_SEARCH", "true") == "true",
		},
		JWT: JWTConfig{
			SecretKey:  getEnv("JWT_SECRET_KEY", "your-secret-key-change-in-production"),
			Expiration: jwtExp,
			RefreshExp: refreshExp,
		},
		GigaChat: GigaChatConfig{
			APIKey:             getEnv("GIGACHAT_API_KEY", ""),
			Scope:              getEnv("GIGACHAT_SCOPE", "GIGACHAT_API_PERS"),
			Model:              getEnv("GIGACHAT_MODEL", "GigaChat"),
			InsecureSkipVerify: getEnv("GIGACHAT_INSECURE_SKIP_VERIFY", "true") == "true",
		},
		Embedding: EmbeddingConfig{
			Backend:           backend,
			Model:             getEnv("EMBEDDING_MODEL", defaultModel),
			BaseURL:           getEnv("EMBEDDING_BASE_URL", "https://api.openai.com/v1"),
			APIKey:            getEnv("EMBEDDING_API_KEY", ""),
			Timeout:           embedTimeout,
			RequestsPerSecond: embedRPS,
			MaxRetries:        embedRetries,
			CacheSize:         embedCache,
		},
		Search: SearchConfig{
			ProductThreshold:   productThreshold,
			KnowledgeThreshold: knowledgeThreshold,
			DefaultLimit:       defaultLimit,
			MaxLimit:           maxLimit,
			Timeout:            searchTimeout,
			IndexConcurrency:   indexConcurrency,
		},
		Logger: LoggerConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Encoding: getEnv("LOG_ENCODING", "json"),
		},
		Tracing: TracingConfig{
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Insecure:    getEnv("OTEL_EXPORTER_OTLP_INSECURE", "true") == "true",
			ServiceName: getEnv("OTEL_SERVICE_NAME", "restaurant-rag"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot start with.
func (c *Config) Validate() error {
	var errs []error

	switch c.Embedding.Backend {
	case EmbeddingBackendLocal:
	case EmbeddingBackendRemote:
		if c.Embedding.APIKey == "" {
			errs = append(errs, errors.New("EMBEDDING_API_KEY is required for the remote embedding backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown embedding backend %q", c.Embedding.Backend))
	}

	switch c.Database.Driver {
	case DatabaseDriverPostgres, DatabaseDriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("unknown database driver %q", c.Database.Driver))
	}

	if !inUnitRange(c.Search.ProductThreshold) || !inUnitRange(c.Search.KnowledgeThreshold) {
		errs = append(errs, errors.New("search thresholds must be within [0, 1]"))
	}
	if c.Embedding.Timeout <= 0 || c.Search.Timeout <= 0 {
		errs = append(errs, errors.New("embedding and search timeouts must be positive"))
	}
	if c.Search.DefaultLimit <= 0 || c.Search.MaxLimit < c.Search.DefaultLimit {
		errs = append(errs, errors.New("search limits must satisfy 0 < default <= max"))
	}

	return errors.Join(errs...)
}

func inUnitRange(v float64) bool {
	return v >= 0 && v <= 1
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// envParser reads numeric variables and keeps every parse failure so Load
// can report them together.
type envParser struct {
	errs []error
}

func (p *envParser) int(key, defaultValue string) int {
	v, err := strconv.Atoi(getEnv(key, defaultValue))
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: expected an integer: %w", key, err))
	}
	return v
}

func (p *envParser) float(key, defaultValue string) float64 {
	v, err := strconv.ParseFloat(getEnv(key, defaultValue), 64)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: expected a number: %w", key, err))
	}
	return v
}

func (p *envParser) seconds(key, defaultValue string) time.Duration {
	return time.Duration(p.int(key, defaultValue)) * time.Second
}

func (p *envParser) hours(key, defaultValue string) time.Duration {
	return time.Duration(p.int(key, defaultValue)) * time.Hour
}

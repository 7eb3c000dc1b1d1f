// Package embedding turns text into fixed-size vectors.
package embedding

import (
	"context"
	"errors"
	"fmt"

	"restaurant-rag/pkg/config"

	"go.uber.org/zap"
)

var (
	ErrMissingAPIKey  = errors.New("embedding API key is not configured")
	ErrUnknownBackend = errors.New("unknown embedding backend")
)

// Provider is safe for concurrent use and never changes its dimension.
type Provider interface {
	Name() string
	Model() string
	Dimension() int
	Embed(ctx context.Context, text string) ([]float32, error)
}

// New selects the backend once at startup.
func New(cfg *config.EmbeddingConfig, logger *zap.Logger) (Provider, error) {
	switch cfg.Backend {
	case config.EmbeddingBackendLocal, "":
		return NewLocal(cfg.Model), nil
	case config.EmbeddingBackendRemote:
		if cfg.APIKey == "" {
			return nil, ErrMissingAPIKey
		}
		return NewRemote(RemoteConfig{
			BaseURL:           cfg.BaseURL,
			APIKey:            cfg.APIKey,
			Model:             cfg.Model,
			Timeout:           cfg.Timeout,
			RequestsPerSecond: cfg.RequestsPerSecond,
			MaxRetries:        cfg.MaxRetries,
		}, logger), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
}

// Package llm generates assistant replies with GigaChat.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"restaurant-rag/pkg/config"

	"github.com/Role1776/gigago"
	"go.uber.org/zap"
)

const replyTemperature = 0.3

var ErrEmptyReply = errors.New("no response from LLM")

type GigaChat struct {
	client    *gigago.Client
	modelName string
	logger    *zap.Logger
}

func NewGigaChat(ctx context.Context, cfg *config.GigaChatConfig, logger *zap.Logger) (*GigaChat, error) {
	opts := []gigago.Option{
		gigago.WithCustomScope(cfg.Scope),
	}
	if cfg.InsecureSkipVerify {
		opts = append(opts, gigago.WithCustomInsecureSkipVerify(true))
		logger.Warn("GigaChat TLS certificate verification is disabled")
	}

	client, err := gigago.NewClient(ctx, cfg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GigaChat client: %w", err)
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = "GigaChat"
	}
	return &GigaChat{
		client:    client,
		modelName: modelName,
		logger:    logger,
	}, nil
}

// Generate answers message under systemPrompt. A model is built per call
// because the system instruction differs for every reply.
func (g *GigaChat) Generate(ctx context.Context, systemPrompt, message string) (string, error) {
	model := g.client.GenerativeModel(g.modelName)
	model.SystemInstruction = systemPrompt
	model.Temperature = replyTemperature

	messages := []gigago.Message{
		{Role: gigago.RoleUser, Content: message},
	}
	resp, err := model.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("failed to generate response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyReply
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	g.logger.Debug("GigaChat reply",
		zap.String("model", g.modelName),
		zap.Int("prompt_length", len(systemPrompt)),
		zap.Int("reply_length", len(content)),
	)
	return content, nil
}

func (g *GigaChat) Close() error {
	if g.client != nil {
		g.client.Close()
	}
	return nil
}

package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/mohammad-safakhou/deepresearch/config"
	openai_provider "github.com/mohammad-safakhou/deepresearch/provider/openai"
	"go.uber.org/zap"
)

// Client represents different LLM providers
type Client string

const (
	Groq   Client = "groq"
	OpenAI Client = "openai"
)

const (
	GroqBaseURL   = "https://api.groq.com/openai/v1"
	OpenAIBaseURL = "https://api.openai.com/v1"
)

// ErrMissingAPIKey is returned by Query when no credential was configured.
var ErrMissingAPIKey = openai_provider.ErrMissingAPIKey

// Provider is the language-model capability: one prompt in, one completion out.
type Provider interface {
	Query(ctx context.Context, prompt string) (string, error)
}

// NewProvider creates a new LLM client based on the provided configuration.
// The API key is resolved once here; an empty key is accepted and only fails
// on the first Query.
func NewProvider(cfg config.LLMConfig, logger *zap.Logger) (Provider, error) {
	cfg = cfg.Normalize()
	baseURL := cfg.BaseURL
	switch Client(cfg.Provider) {
	case Groq:
		if baseURL == "" {
			baseURL = GroqBaseURL
		}
	case OpenAI:
		if baseURL == "" {
			baseURL = OpenAIBaseURL
		}
	default:
		return nil, errors.New("unsupported LLM provider")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return openai_provider.NewClient(openai_provider.Options{
		APIKey:       cfg.ResolveAPIKey(),
		BaseURL:      baseURL,
		Model:        cfg.Model,
		SystemPrompt: cfg.SystemPrompt,
		Temperature:  cfg.Temperature,
		MaxTokens:    cfg.MaxTokens,
		Timeout:      cfg.Timeout,
		Logger:       logger.Named(fmt.Sprintf("provider.%s", cfg.Provider)),
	}), nil
}

package factory

import (
	"context"
	"fmt"
	"time"

	"cora-leaf-be/pkg/llm"
	"cora-leaf-be/pkg/llm/gemini"
	"cora-leaf-be/pkg/llm/ollama"
	"cora-leaf-be/pkg/llm/resilient"

	"go.uber.org/zap"
)

type Config struct {
	Provider      string
	Model         string
	FallbackModel string
	BaseURL       string
	APIKey        string
	Timeout       time.Duration
	MaxRetries    int
	Logger        *zap.Logger
}

// NewLLMProvider builds the configured backend wrapped in the retry and
// fallback layer.
func NewLLMProvider(ctx context.Context, cfg Config) (llm.LLMProvider, error) {
	primary, fallback, err := newBackends(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return resilient.NewResilientProvider(primary, fallback,
		resilient.WithTimeout(cfg.Timeout),
		resilient.WithMaxRetries(cfg.MaxRetries),
		resilient.WithLogger(cfg.Logger),
	), nil
}

func newBackends(ctx context.Context, cfg Config) (llm.LLMProvider, llm.LLMProvider, error) {
	switch cfg.Provider {
	case "gemini", "":
		client, err := gemini.NewClient(ctx, cfg.APIKey)
		if err != nil {
			return nil, nil, fmt.Errorf("init gemini client: %w", err)
		}
		model := cfg.Model
		if model == "" {
			model = "gemini-2.0-flash"
		}
		primary := gemini.NewGeminiProvider(client, model)
		if cfg.FallbackModel == "" || cfg.FallbackModel == model {
			return primary, nil, nil
		}
		return primary, gemini.NewGeminiProvider(client, cfg.FallbackModel), nil
	case "ollama":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		primary := ollama.NewOllamaProvider(baseURL, cfg.Model, cfg.Timeout)
		if cfg.FallbackModel == "" || cfg.FallbackModel == cfg.Model {
			return primary, nil, nil
		}
		return primary, ollama.NewOllamaProvider(baseURL, cfg.FallbackModel, cfg.Timeout), nil
	default:
		return nil, nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}

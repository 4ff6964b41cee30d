package llm

import (
	"context"
	"fmt"

	"github.com/lshigami/pte-scorer/config"
)

// NewFromConfig builds the configured structured model and a close function.
func NewFromConfig(ctx context.Context, cfg *config.Config) (StructuredModel, func() error, error) {
	switch cfg.LLM.Provider {
	case "gemini":
		m, err := NewGeminiModel(ctx, cfg.LLM.GeminiApiKey, cfg.LLM.GeminiModel)
		if err != nil {
			return nil, nil, err
		}
		return m, m.Close, nil
	case "openai":
		m := NewOpenAIModel(cfg.LLM.OpenAIApiKey, cfg.LLM.OpenAIBaseURL, cfg.LLM.OpenAIModel, cfg.LLM.MaxRetries)
		return m, m.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
}

package factory

import (
	"fmt"

	"doc-qa-be/internal/config"
	"doc-qa-be/pkg/llm"
	"doc-qa-be/pkg/llm/ollama"
	"doc-qa-be/pkg/llm/openai"
)

// NewProvider builds the chat completion provider selected by config.
func NewProvider(cfg *config.Config) (llm.Provider, error) {
	switch cfg.Ai.LLMProvider {
	case "openai":
		return openai.NewOpenAIProvider(cfg.Ai.OpenAIBaseURL, cfg.Ai.OpenAIAPIKey, cfg.Ai.ChatModel), nil
	case "ollama":
		return ollama.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaChatModel), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Ai.LLMProvider)
	}
}

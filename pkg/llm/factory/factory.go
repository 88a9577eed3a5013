package factory

import (
	"fmt"

	"pregnancy-nutrition-be/pkg/llm"
	"pregnancy-nutrition-be/pkg/llm/claude"
	"pregnancy-nutrition-be/pkg/llm/gemini"
	"pregnancy-nutrition-be/pkg/llm/ollama"
	"pregnancy-nutrition-be/pkg/llm/openai"
)

// Settings is the per-backend connection info read from config
type Settings struct {
	APIKey  string
	Model   string
	BaseURL string
}

// NewLLMProvider returns llm.ErrNotConfigured when the backend has no credentials,
// so callers can keep it in the chain as permanently unavailable.
func NewLLMProvider(providerType string, s Settings) (llm.LLMProvider, error) {
	switch providerType {
	case "gemini":
		if s.APIKey == "" {
			return nil, llm.ErrNotConfigured
		}
		return gemini.NewGeminiProvider(s.APIKey, s.Model), nil
	case "solar":
		if s.APIKey == "" {
			return nil, llm.ErrNotConfigured
		}
		return openai.NewSolarProvider(s.APIKey, s.BaseURL, s.Model), nil
	case "huggingface":
		if s.APIKey == "" {
			return nil, llm.ErrNotConfigured
		}
		return openai.NewHuggingFaceProvider(s.APIKey, s.BaseURL, s.Model), nil
	case "claude":
		if s.APIKey == "" {
			return nil, llm.ErrNotConfigured
		}
		return claude.NewClaudeProvider(s.APIKey, s.Model), nil
	case "ollama":
		if s.BaseURL == "" {
			return nil, llm.ErrNotConfigured
		}
		return ollama.NewOllamaProvider(s.BaseURL, s.Model), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}

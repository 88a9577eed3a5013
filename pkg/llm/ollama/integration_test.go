package ollama

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"pregnancy-nutrition-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a real local Ollama server, e.g. OLLAMA_TEST_URL=http://localhost:11434 OLLAMA_TEST_MODEL=gemma:2b
func TestOllamaProvider_Live(t *testing.T) {
	baseURL := os.Getenv("OLLAMA_TEST_URL")
	if baseURL == "" {
		t.Skip("OLLAMA_TEST_URL not set")
	}
	model := os.Getenv("OLLAMA_TEST_MODEL")
	if model == "" {
		model = "gemma:2b"
	}

	p := NewOllamaProvider(baseURL, model)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	require.NoError(t, p.WarmUp(ctx))

	reply, err := p.Chat(ctx, []llm.Message{
		{Role: "system", Content: "Answer in one short sentence."},
		{Role: "user", Content: "Is cooked spinach a source of iron?"},
	}, llm.WithMaxTokens(60))
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(reply))
}

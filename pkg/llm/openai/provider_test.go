package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pregnancy-nutrition-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_Chat(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"  Cooked chicken is safe.  "}}]}`))
	}))
	defer srv.Close()

	p := NewSolarProvider("secret", srv.URL, "")
	out, err := p.Chat(context.Background(), []llm.Message{
		{Role: "system", Content: "be brief"},
		{Role: "user", Content: "chicken?"},
	}, llm.WithMaxTokens(120))

	require.NoError(t, err)
	assert.Equal(t, "Cooked chicken is safe.", out)
	assert.Equal(t, "solar-pro3", got.Model)
	assert.Equal(t, 120, got.MaxTokens)
	assert.Len(t, got.Messages, 2)
}

func TestProvider_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down"}}`))
	}))
	defer srv.Close()

	_, err := NewProvider("solar", "k", srv.URL, "m").Generate(context.Background(), "hi")

	require.Error(t, err)
	assert.ErrorIs(t, err, llm.ErrRateLimited)
	assert.True(t, llm.IsRateLimitError(err))
}

func TestProvider_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := NewProvider("hf", "", srv.URL, "m").Generate(context.Background(), "hi")
	assert.ErrorIs(t, err, llm.ErrEmptyResponse)
}

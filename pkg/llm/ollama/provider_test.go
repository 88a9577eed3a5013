package ollama

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			_, _ = w.Write([]byte(`{"models":[]}`))
		case "/api/chat":
			_, _ = w.Write([]byte(`{"model":"llama3","message":{"role":"assistant","content":"Eat dal."},"done":true}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL+"/", "llama3")
	require.NoError(t, p.WarmUp(context.Background()))

	out, err := p.Generate(context.Background(), "protein?")
	require.NoError(t, err)
	assert.Equal(t, "Eat dal.", out)
}

func TestOllamaProvider_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3")
	assert.Error(t, p.WarmUp(context.Background()))
}

package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOllama serves /api/embed and returns one embedding per input.
func fakeOllama(t *testing.T, wantToken string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/embed", r.URL.Path)

		if wantToken != "" {
			assert.Equal(t, "Bearer "+wantToken, r.Header.Get("Authorization"))
		} else {
			assert.Empty(t, r.Header.Get("Authorization"))
		}

		var payload struct {
			Model string `json:"model"`
			Input any    `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "bge-m3", payload.Model)

		count := 1
		if inputs, ok := payload.Input.([]any); ok {
			count = len(inputs)
		}
		embeddings := make([][]float32, count)
		for i := range embeddings {
			embeddings[i] = []float32{float32(i), 0.5}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"embeddings": embeddings})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOllamaEmbed(t *testing.T) {
	srv := fakeOllama(t, "")
	p := NewOllamaProvider(OllamaEndpointConfig{BaseURL: srv.URL, Model: "bge-m3"})

	assert.Equal(t, "bge-m3", p.ModelName())

	vec, err := p.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0.5}, vec)
}

func TestOllamaEmbedBatch(t *testing.T) {
	srv := fakeOllama(t, "secret")
	p := NewOllamaProvider(OllamaEndpointConfig{BaseURL: srv.URL, Model: "bge-m3", Token: "secret"})

	vectors, err := p.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)
	assert.Equal(t, []float32{2, 0.5}, vectors[2])
}

func TestOllamaEmbedBatchCountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"embeddings": [][]float32{{1}}})
	}))
	t.Cleanup(srv.Close)

	p := NewOllamaProvider(OllamaEndpointConfig{BaseURL: srv.URL, Model: "bge-m3"})
	_, err := p.EmbedBatch(context.Background(), []string{"a", "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "got 1 embeddings for 2 inputs")
}

func TestOllamaAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	p := NewOllamaProvider(OllamaEndpointConfig{BaseURL: srv.URL, Model: "bge-m3"})
	_, err := p.Embed(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

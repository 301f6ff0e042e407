// Package mock provides a deterministic embedding provider for tests.
package mock

import (
	"context"
	"hash/fnv"
	"math"
)

// Embedder is a test double for port.AIProvider. The same text always
// produces the same unit vector, so similarity ordering is stable.
type Embedder struct {
	// Dim is the embedding dimension. Defaults to 64 when zero.
	Dim int

	// EmbedFunc overrides Embed if set.
	EmbedFunc func(ctx context.Context, text string) ([]float32, error)

	calls int
}

// NewEmbedder creates a mock embedder with default deterministic behavior.
func NewEmbedder() *Embedder {
	return &Embedder{Dim: 64}
}

// ModelName implements port.AIProvider.
func (e *Embedder) ModelName() string { return "mock-embedder" }

// Embed generates a deterministic embedding from the text hash.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.calls++
	if e.EmbedFunc != nil {
		return e.EmbedFunc(ctx, text)
	}
	return deterministicVector(text, e.dim()), nil
}

// EmbedBatch generates deterministic embeddings for each text.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	e.calls++
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = v
	}
	return vectors, nil
}

// Calls returns how many times any method was invoked.
func (e *Embedder) Calls() int { return e.calls }

func (e *Embedder) dim() int {
	if e.Dim > 0 {
		return e.Dim
	}
	return 64
}

// deterministicVector hashes the text with FNV and expands the seed through
// an LCG, then normalizes to a unit vector.
func deterministicVector(text string, dim int) []float32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	vector := make([]float32, dim)
	for i := 0; i < dim; i++ {
		seed = seed*1664525 + 1013904223
		vector[i] = float32(seed%1000)/500.0 - 1.0
	}

	var sumSquares float64
	for _, v := range vector {
		sumSquares += float64(v) * float64(v)
	}
	if sumSquares > 0 {
		norm := float32(1.0 / math.Sqrt(sumSquares))
		for i := range vector {
			vector[i] *= norm
		}
	}
	return vector
}

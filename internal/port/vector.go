package port

import (
	"context"

	"github.com/arturoeanton/go-nlq-employee-ollama/internal/domain"
)

// VectorIndex abstracts the semantic document index.
// Implementations: pgvector-backed store, in-memory cosine index.
type VectorIndex interface {
	// Add stores chunks together with their vectors.
	Add(ctx context.Context, chunks []domain.Chunk) error

	// Search returns the chunks most similar to the query vector,
	// best match first.
	Search(ctx context.Context, vector []float32, limit int) ([]domain.SimilarChunk, error)

	// Count returns the number of indexed chunks.
	Count(ctx context.Context) (int, error)

	// Reset removes all indexed chunks.
	Reset(ctx context.Context) error
}

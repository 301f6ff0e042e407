package store

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/arturoeanton/go-nlq-employee-ollama/internal/domain"
	"github.com/google/uuid"
)

// MemoryIndex implements port.VectorIndex with parallel chunk/vector slices
// and a brute-force cosine scan. Used when no pgvector database is
// configured; fine for the few thousand chunks a document upload produces.
type MemoryIndex struct {
	mu        sync.RWMutex
	chunks    []domain.Chunk
	vectors   [][]float32
	dimension int
}

// NewMemoryIndex creates an empty in-memory index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{}
}

// Add stores chunks with their vectors.
func (m *MemoryIndex) Add(ctx context.Context, chunks []domain.Chunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range chunks {
		if len(c.Vector) == 0 {
			return fmt.Errorf("add chunk %d of %s: empty vector", c.ChunkIndex, c.FileName)
		}
		if m.dimension == 0 {
			m.dimension = len(c.Vector)
		} else if len(c.Vector) != m.dimension {
			return fmt.Errorf("add chunk %d of %s: dimension %d, index has %d",
				c.ChunkIndex, c.FileName, len(c.Vector), m.dimension)
		}
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		if c.CreatedAt.IsZero() {
			c.CreatedAt = time.Now()
		}
		vec := c.Vector
		c.Vector = nil
		m.chunks = append(m.chunks, c)
		m.vectors = append(m.vectors, vec)
	}
	return nil
}

// Search returns the chunks most similar to the query vector, best first.
func (m *MemoryIndex) Search(ctx context.Context, vector []float32, limit int) ([]domain.SimilarChunk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.chunks) == 0 || limit <= 0 {
		return nil, nil
	}
	if m.dimension != 0 && len(vector) != m.dimension {
		return nil, fmt.Errorf("search: query dimension %d, index has %d", len(vector), m.dimension)
	}

	results := make([]domain.SimilarChunk, 0, len(m.chunks))
	for i, c := range m.chunks {
		results = append(results, domain.SimilarChunk{
			Chunk:      c,
			Similarity: cosineSimilarity(vector, m.vectors[i]),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Count returns the number of indexed chunks.
func (m *MemoryIndex) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.chunks), nil
}

// Reset removes all indexed chunks.
func (m *MemoryIndex) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunks = nil
	m.vectors = nil
	m.dimension = 0
	return nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
